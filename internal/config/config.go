package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
//
// The sink and live-tail groups are namespaced TELEMETRY_* so they never
// collide with any other Postgres/Redis use in the hosting application.
// Both groups are optional: an absent sink downgrades recording to a
// local diagnostic log.
type Config struct {
	App      AppConfig
	Sink     SinkConfig
	LiveTail LiveTailConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Env  string
	Port int

	// Origin names this serving instance on every invocation record.
	// Never caller-supplied.
	Origin string
}

type SinkConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode is kept explicit for AWS-ready posture.
	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type LiveTailConfig struct {
	Host string
	Port int

	// Key is the capped list holding recent invocations.
	Key        string
	MaxEntries int
}

type AuthConfig struct {
	TokenSecret   string
	TokenIssuer   string
	TokenAudience string
	TokenTTL      time.Duration
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.Origin = strings.TrimSpace(os.Getenv("APP_ORIGIN"))
	if c.App.Origin == "" {
		if host, err := os.Hostname(); err == nil {
			c.App.Origin = host
		}
	}

	c.Sink.Host = strings.TrimSpace(os.Getenv("TELEMETRY_DB_HOST"))
	if c.Sink.Host != "" {
		n, err := mustInt("TELEMETRY_DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Sink.Port = n
	}
	c.Sink.User = strings.TrimSpace(os.Getenv("TELEMETRY_DB_USER"))
	c.Sink.Password = os.Getenv("TELEMETRY_DB_PASSWORD")
	c.Sink.Name = strings.TrimSpace(os.Getenv("TELEMETRY_DB_NAME"))
	c.Sink.SSLMode = strings.TrimSpace(os.Getenv("TELEMETRY_DB_SSLMODE"))

	c.LiveTail.Host = strings.TrimSpace(os.Getenv("TELEMETRY_REDIS_HOST"))
	if c.LiveTail.Host != "" {
		n, err := mustInt("TELEMETRY_REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.LiveTail.Port = n
	}
	c.LiveTail.Key = strings.TrimSpace(os.Getenv("TELEMETRY_REDIS_KEY"))
	c.LiveTail.MaxEntries = optionalInt("TELEMETRY_REDIS_MAX_ENTRIES")

	c.Auth.TokenSecret = os.Getenv("AUTH_TOKEN_SECRET")
	c.Auth.TokenIssuer = strings.TrimSpace(os.Getenv("AUTH_TOKEN_ISSUER"))
	c.Auth.TokenAudience = strings.TrimSpace(os.Getenv("AUTH_TOKEN_AUDIENCE"))
	// Duration env var is optional; default applied in Validate().
	c.Auth.TokenTTL = mustDuration("AUTH_TOKEN_TTL")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Sink.Enabled() {
		if c.Sink.Port <= 0 || c.Sink.Port > 65535 {
			errs = append(errs, fmt.Errorf("TELEMETRY_DB_PORT must be a valid port, got %d", c.Sink.Port))
		}
		if c.Sink.User == "" {
			errs = append(errs, errors.New("TELEMETRY_DB_USER is required when TELEMETRY_DB_HOST is set"))
		}
		if c.Sink.Name == "" {
			errs = append(errs, errors.New("TELEMETRY_DB_NAME is required when TELEMETRY_DB_HOST is set"))
		}
		if c.Sink.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("TELEMETRY_DB_SSLMODE is required in production"))
			} else {
				// Local-friendly default; production must be explicit.
				c.Sink.SSLMode = "disable"
			}
		}
		if c.Sink.SSLMode != "" && !isValidSSLMode(c.Sink.SSLMode) {
			errs = append(errs, fmt.Errorf("TELEMETRY_DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.Sink.SSLMode))
		}
	}

	if c.LiveTail.Enabled() {
		if c.LiveTail.Port <= 0 || c.LiveTail.Port > 65535 {
			errs = append(errs, fmt.Errorf("TELEMETRY_REDIS_PORT must be a valid port, got %d", c.LiveTail.Port))
		}
		if c.LiveTail.MaxEntries <= 0 {
			c.LiveTail.MaxEntries = 1000
		}
	}

	if c.Auth.TokenSecret == "" {
		errs = append(errs, errors.New("AUTH_TOKEN_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Auth.TokenIssuer == "" {
			errs = append(errs, errors.New("AUTH_TOKEN_ISSUER is required in production"))
		}
		if c.Auth.TokenAudience == "" {
			errs = append(errs, errors.New("AUTH_TOKEN_AUDIENCE is required in production"))
		}
	}
	if c.Auth.TokenTTL <= 0 {
		// Default: short-lived wallet tokens.
		c.Auth.TokenTTL = 15 * time.Minute
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Enabled reports whether a telemetry store is configured at all.
func (s SinkConfig) Enabled() bool { return s.Host != "" }

func (s SinkConfig) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.Host,
		s.Port,
		s.User,
		s.Password,
		s.Name,
		s.SSLMode,
	)
}

func (l LiveTailConfig) Enabled() bool { return l.Host != "" }

func (l LiveTailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
