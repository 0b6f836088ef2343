package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/vanshika/erdos/backend/internal/coauthor"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Logging LoggingConfig
	Source  SourceConfig
	S3      S3Config
	Erdos   ErdosConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the Neo4j bibliography store.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	Colored       bool
	IncludeCaller bool
}

// SourceConfig selects where bibliography records are loaded from.
type SourceConfig struct {
	Kind        string // ndjson|postgres|neo4j
	Authors     string
	Articles    string
	Authorships string
	DatabaseURL string
}

// S3Config holds object storage credentials for s3:// record locations.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// ErdosConfig tunes graph construction and queries.
type ErdosConfig struct {
	Mode           coauthor.Mode
	StrictArticles bool
	QueryWorkers   int
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultSourceKind       = "ndjson"
	defaultAuthorsPath      = "data/authors.ndjson"
	defaultArticlesPath     = "data/articles.ndjson"
	defaultAuthorshipsPath  = "data/authorships.ndjson"
	defaultQueryWorkers     = 8
)

// Load reads configuration from environment variables, applying defaults.
// Variables from a .env file in the working directory are loaded first and
// never override ones already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			Colored:       parseBoolWithDefault("LOG_COLOR", false),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Source: SourceConfig{
			Kind:        valueOrDefault("SOURCE_KIND", defaultSourceKind),
			Authors:     valueOrDefault("SOURCE_AUTHORS", defaultAuthorsPath),
			Articles:    valueOrDefault("SOURCE_ARTICLES", defaultArticlesPath),
			Authorships: valueOrDefault("SOURCE_AUTHORSHIPS", defaultAuthorshipsPath),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		S3: S3Config{
			Region:    os.Getenv("AWS_REGION"),
			Endpoint:  os.Getenv("AWS_ENDPOINT"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY"),
			SecretKey: os.Getenv("AWS_SECRET_KEY"),
		},
		Erdos: ErdosConfig{
			StrictArticles: parseBoolWithDefault("ERDOS_STRICT_ARTICLES", false),
			QueryWorkers:   parseIntWithDefault("ERDOS_QUERY_WORKERS", defaultQueryWorkers),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		target   *time.Duration
		fallback time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout, defaultReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout, defaultWriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout, defaultIdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout, defaultShutdownTimeout},
	}
	for _, d := range durations {
		if *d.target, err = parseDuration(d.key, d.fallback); err != nil {
			return Config{}, err
		}
	}

	mode, err := coauthor.ParseMode(os.Getenv("ERDOS_DISTANCE_MODE"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ERDOS_DISTANCE_MODE: %w", err)
	}
	cfg.Erdos.Mode = mode

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("%s: port %d is out of range", key, port)
		}
		return port, nil
	}
	return fallback, nil
}
