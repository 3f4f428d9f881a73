package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/testudo-plus/schedule-api/internal/models"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

const eventsCacheKey = "events:upcoming"

type eventFeed interface {
	UpcomingEvents(ctx context.Context, daysAhead int) ([]models.CampusEvent, error)
}

type eventCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// EventService serves the campus events feed through an optional short-lived
// cache. The feed is flaky scraped markup; a cache hit always wins.
type EventService struct {
	feed      eventFeed
	cache     eventCache
	ttl       time.Duration
	daysAhead int
	logger    *zap.Logger
}

func NewEventService(feed eventFeed, cache eventCache, ttl time.Duration, daysAhead int, logger *zap.Logger) *EventService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if daysAhead <= 0 {
		daysAhead = 14
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{feed: feed, cache: cache, ttl: ttl, daysAhead: daysAhead, logger: logger}
}

// Upcoming returns the cached event list, refreshing it on a miss.
func (s *EventService) Upcoming(ctx context.Context) ([]models.CampusEvent, error) {
	if s.cache != nil {
		var cached []models.CampusEvent
		err := s.cache.Get(ctx, eventsCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("events cache read failed", zap.Error(err))
		}
	}

	events, err := s.feed.UpcomingEvents(ctx, s.daysAhead)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "fetching campus events")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, eventsCacheKey, events, s.ttl); err != nil {
			s.logger.Warn("events cache write failed", zap.Error(err))
		}
	}
	return events, nil
}
