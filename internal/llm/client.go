package llm

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/testudo-plus/schedule-api/pkg/config"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

// Collaborator is the thin generative-language boundary. Services hand it a
// fully rendered prompt and get prose back; it owns nothing domain-specific.
type Collaborator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// New builds the collaborator, or returns nil when the feature is disabled.
// A nil Collaborator is a valid value: Generate on it reports unavailable.
func New(ctx context.Context, cfg config.AdvisorConfig, logger *zap.Logger) (*Collaborator, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrAdvisorUnavailable.Code,
			appErrors.ErrAdvisorUnavailable.Status,
			"creating generative client")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Collaborator{client: client, model: model, logger: logger}, nil
}

// Available reports whether generation can be attempted.
func (c *Collaborator) Available() bool {
	return c != nil && c.client != nil
}

// Generate runs one prompt through the configured model.
func (c *Collaborator) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", appErrors.ErrAdvisorUnavailable
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		c.logger.Warn("generation failed", zap.Error(err))
		return "", appErrors.Wrap(err,
			appErrors.ErrAdvisorUnavailable.Code,
			appErrors.ErrAdvisorUnavailable.Status,
			"generating answer")
	}
	return resp.Text(), nil
}
