package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Knowledge source kinds.
const (
	KnowledgeCSV      = "csv"
	KnowledgePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string

	// Server
	ServerAddr string
	RateLimit  int // requests per minute per client on /api, 0 disables

	// Database, optional unless KnowledgeSource is "postgres"
	DatabaseURL string

	// Redis for in-flight dialogue sessions; in-memory when empty
	RedisURL   string
	SessionTTL time.Duration

	// Training data
	TrainingCSV string
	LabelColumn string
	MaxDepth    int // 0 grows the tree until leaves are pure

	// Knowledge tables
	KnowledgeSource    string // "csv" or "postgres"
	DescriptionCSV     string
	SeverityCSV        string
	PrecautionCSV      string
	KnowledgeCSVHeader bool

	// OIDC bearer-token auth on /api, disabled when OIDCIssuer is empty
	OIDCIssuer   string
	OIDCClientID string

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://example.com,https://app.example.com"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		RateLimit:          getEnvInt("RATE_LIMIT", 120),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		SessionTTL:         getEnvDuration("SESSION_TTL", 30*time.Minute),
		TrainingCSV:        getEnv("TRAINING_CSV", "data/Training.csv"),
		LabelColumn:        getEnv("LABEL_COLUMN", "prognosis"),
		MaxDepth:           getEnvInt("MAX_DEPTH", 0),
		KnowledgeSource:    strings.ToLower(getEnv("KNOWLEDGE_SOURCE", KnowledgeCSV)),
		DescriptionCSV:     getEnv("DESCRIPTION_CSV", "data/symptom_Description.csv"),
		SeverityCSV:        getEnv("SEVERITY_CSV", "data/symptom_severity.csv"),
		PrecautionCSV:      getEnv("PRECAUTION_CSV", "data/symptom_precaution.csv"),
		KnowledgeCSVHeader: getEnv("KNOWLEDGE_CSV_HEADER", "") != "",
		OIDCIssuer:         getEnv("OIDC_ISSUER", ""),
		OIDCClientID:       getEnv("OIDC_CLIENT_ID", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", ""),
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	switch c.KnowledgeSource {
	case KnowledgeCSV:
	case KnowledgePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("KNOWLEDGE_SOURCE=postgres requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown KNOWLEDGE_SOURCE %q", c.KnowledgeSource))
	}
	if c.TrainingCSV == "" {
		errs = append(errs, errors.New("TRAINING_CSV is required"))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("MAX_DEPTH must not be negative, got %d", c.MaxDepth))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if c.OIDCIssuer != "" && c.OIDCClientID == "" {
		errs = append(errs, errors.New("OIDC_ISSUER requires OIDC_CLIENT_ID"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// UsesDatabase returns true when a Postgres connection is configured.
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

// AuthEnabled returns true when API requests must carry an OIDC bearer token.
func (c *Config) AuthEnabled() bool {
	return c.OIDCIssuer != ""
}
