package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

// Raw values as read from the environment
type rawConfig struct {
	Environment string `env:"PROFILELOOKUP_ENVIRONMENT"`
	Port        string `env:"PORT" envDefault:"8080"`
	SentryDSN   string `env:"SENTRY_DSN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	TebexIdentBaseURL    string `env:"TEBEX_IDENT_BASE_URL" envDefault:"https://ident.tebex.io"`
	MojangSessionBaseURL string `env:"MOJANG_SESSION_BASE_URL" envDefault:"https://sessionserver.mojang.com"`
	MojangAPIBaseURL     string `env:"MOJANG_API_BASE_URL" envDefault:"https://api.mojang.com"`

	GoogleCloudProject   string `env:"GOOGLE_CLOUD_PROJECT"`
	OpenTelemetryEnabled bool   `env:"OTEL_ENABLED" envDefault:"false"`
}

type Config struct {
	port      string
	sentryDSN string

	redisAddr     string
	redisPassword string
	redisDB       int

	tebexIdentBaseURL    string
	mojangSessionBaseURL string
	mojangAPIBaseURL     string

	googleCloudProject   string
	openTelemetryEnabled bool

	env environment
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) RedisAddr() string {
	return c.redisAddr
}

func (c *Config) RedisPassword() string {
	return c.redisPassword
}

func (c *Config) RedisDB() int {
	return c.redisDB
}

// UseRedis is true when the cache and the upstream rate limiter should be shared through redis
func (c *Config) UseRedis() bool {
	return c.redisAddr != ""
}

func (c *Config) TebexIdentBaseURL() string {
	return c.tebexIdentBaseURL
}

func (c *Config) MojangSessionBaseURL() string {
	return c.mojangSessionBaseURL
}

func (c *Config) MojangAPIBaseURL() string {
	return c.mojangAPIBaseURL
}

func (c *Config) GoogleCloudProject() string {
	return c.googleCloudProject
}

func (c *Config) OpenTelemetryEnabled() bool {
	return c.openTelemetryEnabled
}

func (c *Config) Environment() string {
	return string(c.env)
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, port: %s, redis: %t, otel: %t, ...}",
		string(c.env), c.port, c.UseRedis(), c.openTelemetryEnabled,
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var raw rawConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	var env environment
	switch raw.Environment {
	case "":
		return missingKey("PROFILELOOKUP_ENVIRONMENT")
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: PROFILELOOKUP_ENVIRONMENT (%s)", ErrInvalidValue, raw.Environment)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	if env == production || env == staging {
		if raw.SentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	baseURLs := map[string]string{
		"TEBEX_IDENT_BASE_URL":    raw.TebexIdentBaseURL,
		"MOJANG_SESSION_BASE_URL": raw.MojangSessionBaseURL,
		"MOJANG_API_BASE_URL":     raw.MojangAPIBaseURL,
	}
	for key, value := range baseURLs {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return Config{}, fmt.Errorf("%w: %s (%s)", ErrInvalidValue, key, value)
		}
	}

	return Config{
		port:      raw.Port,
		sentryDSN: raw.SentryDSN,

		redisAddr:     raw.RedisAddr,
		redisPassword: raw.RedisPassword,
		redisDB:       raw.RedisDB,

		tebexIdentBaseURL:    raw.TebexIdentBaseURL,
		mojangSessionBaseURL: raw.MojangSessionBaseURL,
		mojangAPIBaseURL:     raw.MojangAPIBaseURL,

		googleCloudProject:   raw.GoogleCloudProject,
		openTelemetryEnabled: raw.OpenTelemetryEnabled,

		env: env,
	}, nil
}
