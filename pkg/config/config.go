package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Catalog   CatalogConfig
	Cache     CacheConfig
	Assembler AssemblerConfig
	Redis     RedisConfig
	Events    EventsConfig
	Advisor   AdvisorConfig
	Prewarm   PrewarmConfig
	CORS      CORSConfig
	Log       LogConfig
}

// CatalogConfig points at the schedule-of-classes and ratings collaborators.
type CatalogConfig struct {
	SOCBaseURL        string
	RatingsBaseURL    string
	FetchTimeout      time.Duration
	EnrichRatings     bool
	MaxSectionsPerDoc int
}

// CacheConfig governs the partition store.
type CacheConfig struct {
	TTL         time.Duration
	SnapshotDir string
	SeedOnStart bool
}

// AssemblerConfig carries the search bounds and ranking weight vector.
type AssemblerConfig struct {
	TopK          int
	NodeBudget    int
	WeightRating  float64
	WeightGPA     float64
	WeightCompact float64
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// EventsConfig governs the campus events feed and its cache.
type EventsConfig struct {
	Enabled   bool
	FeedURL   string
	CacheTTL  time.Duration
	DaysAhead int
}

// AdvisorConfig toggles the generative-language collaborator.
type AdvisorConfig struct {
	Enabled bool
	APIKey  string
	Model   string
}

// PrewarmConfig controls the background partition refresh worker.
type PrewarmConfig struct {
	Enabled bool
	Workers int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Catalog = CatalogConfig{
		SOCBaseURL:        v.GetString("CATALOG_SOC_BASE_URL"),
		RatingsBaseURL:    v.GetString("CATALOG_RATINGS_BASE_URL"),
		FetchTimeout:      parseDuration(v.GetString("CATALOG_FETCH_TIMEOUT"), 30*time.Second),
		EnrichRatings:     v.GetBool("CATALOG_ENRICH_RATINGS"),
		MaxSectionsPerDoc: v.GetInt("CATALOG_MAX_SECTIONS_PER_DOC"),
	}

	cfg.Cache = CacheConfig{
		TTL:         parseDuration(v.GetString("CACHE_TTL"), 24*time.Hour),
		SnapshotDir: v.GetString("CACHE_SNAPSHOT_DIR"),
		SeedOnStart: v.GetBool("CACHE_SEED_ON_START"),
	}

	cfg.Assembler = AssemblerConfig{
		TopK:          v.GetInt("ASSEMBLER_TOP_K"),
		NodeBudget:    v.GetInt("ASSEMBLER_NODE_BUDGET"),
		WeightRating:  v.GetFloat64("ASSEMBLER_WEIGHT_RATING"),
		WeightGPA:     v.GetFloat64("ASSEMBLER_WEIGHT_GPA"),
		WeightCompact: v.GetFloat64("ASSEMBLER_WEIGHT_COMPACT"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Events = EventsConfig{
		Enabled:   v.GetBool("ENABLE_EVENTS"),
		FeedURL:   v.GetString("EVENTS_FEED_URL"),
		CacheTTL:  parseDuration(v.GetString("EVENTS_CACHE_TTL"), time.Hour),
		DaysAhead: v.GetInt("EVENTS_DAYS_AHEAD"),
	}

	cfg.Advisor = AdvisorConfig{
		Enabled: v.GetBool("ENABLE_ADVISOR"),
		APIKey:  v.GetString("ADVISOR_API_KEY"),
		Model:   v.GetString("ADVISOR_MODEL"),
	}

	cfg.Prewarm = PrewarmConfig{
		Enabled: v.GetBool("ENABLE_PREWARM"),
		Workers: v.GetInt("PREWARM_WORKERS"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("CATALOG_SOC_BASE_URL", "https://app.testudo.umd.edu")
	v.SetDefault("CATALOG_RATINGS_BASE_URL", "https://planetterp.com/api/v1")
	v.SetDefault("CATALOG_FETCH_TIMEOUT", "30s")
	v.SetDefault("CATALOG_ENRICH_RATINGS", true)
	v.SetDefault("CATALOG_MAX_SECTIONS_PER_DOC", 0)

	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("CACHE_SNAPSHOT_DIR", "./cache")
	v.SetDefault("CACHE_SEED_ON_START", true)

	v.SetDefault("ASSEMBLER_TOP_K", 5)
	v.SetDefault("ASSEMBLER_NODE_BUDGET", 10000)
	v.SetDefault("ASSEMBLER_WEIGHT_RATING", 1.0)
	v.SetDefault("ASSEMBLER_WEIGHT_GPA", 1.0)
	v.SetDefault("ASSEMBLER_WEIGHT_COMPACT", 0.01)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_EVENTS", false)
	v.SetDefault("EVENTS_FEED_URL", "https://umdcalendar.umd.edu/calendar")
	v.SetDefault("EVENTS_CACHE_TTL", "1h")
	v.SetDefault("EVENTS_DAYS_AHEAD", 14)

	v.SetDefault("ENABLE_ADVISOR", false)
	v.SetDefault("ADVISOR_API_KEY", "")
	v.SetDefault("ADVISOR_MODEL", "gemini-2.0-flash")

	v.SetDefault("ENABLE_PREWARM", false)
	v.SetDefault("PREWARM_WORKERS", 1)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
