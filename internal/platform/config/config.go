package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source kinds accepted by TRIALS_SOURCE.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config is the process configuration.
type Config struct {
	Server    Server
	Analytics Analytics
	Postgres  PostgresConfig
	Redis     RedisConfig
	Views     Views
	Embed     Embed
	Log       Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Analytics locates the upstream trial dataset.
type Analytics struct {
	Source     string
	BaseURL    string
	TrialsPath string
	Timeout    time.Duration
	Table      string
}

// PostgresConfig configures the trial table reader.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the shared snapshot cache. An empty URL disables redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Views configures the view registry.
type Views struct {
	PageSize     int
	TTL          time.Duration
	FetchTimeout time.Duration
	// CacheTTL of zero disables snapshot caching.
	CacheTTL time.Duration
}

// Embed configures signed tokens for the embedded analytics dashboard. An
// empty secret disables the token endpoint.
type Embed struct {
	Secret      string
	DashboardID int
	TokenTTL    time.Duration
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// FromEnv builds a Config from environment variables so main stays lean.
// Every malformed value is reported, not just the first.
func FromEnv() (Config, error) {
	var p parser
	cfg := Config{
		Server: Server{
			Addr:            p.str("TRIALS_ADDR", ":8080"),
			ShutdownTimeout: p.duration("TRIALS_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Analytics: Analytics{
			Source:     strings.ToLower(p.str("TRIALS_SOURCE", SourceHTTP)),
			BaseURL:    p.str("ANALYTICS_BASE_URL", "http://localhost:8000/api"),
			TrialsPath: p.str("ANALYTICS_TRIALS_PATH", "/trials/"),
			Timeout:    p.duration("ANALYTICS_TIMEOUT", 15*time.Second),
			Table:      p.str("TRIALS_TABLE", "Dashboard_trial"),
		},
		Postgres: PostgresConfig{
			URL:          p.str("DATABASE_URL", ""),
			MaxOpenConns: p.integer("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: p.integer("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Views: Views{
			PageSize:     p.integer("TRIALS_PAGE_SIZE", 25),
			TTL:          p.duration("TRIALS_VIEW_TTL", 30*time.Minute),
			FetchTimeout: p.duration("TRIALS_FETCH_TIMEOUT", 30*time.Second),
			CacheTTL:     p.duration("TRIALS_CACHE_TTL", 0),
		},
		Embed: Embed{
			Secret:      p.str("METABASE_SECRET_KEY", ""),
			DashboardID: p.integer("METABASE_DASHBOARD_ID", 2),
			TokenTTL:    p.duration("METABASE_TOKEN_TTL", time.Hour),
		},
		Log: Log{
			Level:  strings.ToLower(p.str("LOG_LEVEL", "info")),
			Format: strings.ToLower(p.str("LOG_FORMAT", "json")),
		},
	}
	if err := errors.Join(append(p.errs, cfg.validate()...)...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() []error {
	var errs []error
	switch c.Analytics.Source {
	case SourceHTTP:
		if c.Analytics.BaseURL == "" {
			errs = append(errs, errors.New("ANALYTICS_BASE_URL is required when TRIALS_SOURCE=http"))
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when TRIALS_SOURCE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("TRIALS_SOURCE must be %q or %q, got %q", SourceHTTP, SourcePostgres, c.Analytics.Source))
	}
	if c.Views.PageSize <= 0 {
		errs = append(errs, errors.New("TRIALS_PAGE_SIZE must be positive"))
	}
	if c.Views.CacheTTL < 0 {
		errs = append(errs, errors.New("TRIALS_CACHE_TTL must not be negative"))
	}
	if c.Embed.Secret != "" && c.Embed.DashboardID <= 0 {
		errs = append(errs, errors.New("METABASE_DASHBOARD_ID must be positive"))
	}
	if c.Embed.TokenTTL <= 0 {
		errs = append(errs, errors.New("METABASE_TOKEN_TTL must be positive"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}
	return errs
}

// parser reads typed environment values and collects errors.
type parser struct {
	errs []error
}

func (p *parser) str(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (p *parser) integer(key string, fallback int) int {
	raw := p.str(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

// duration accepts Go durations ("90s") or a bare number of seconds.
func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
