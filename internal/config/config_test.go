package config

import "testing"

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_SinkGroupOptional(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8080},
		Auth: AuthConfig{TokenSecret: "secret"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error without sink config, got %v", err)
	}
	if c.Sink.Enabled() {
		t.Fatalf("expected sink disabled")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "production", Port: 8080},
		Sink: SinkConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "telemetry", SSLMode: ""},
		Auth: AuthConfig{TokenSecret: "secret", TokenIssuer: "iss", TokenAudience: "aud"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without TELEMETRY_DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8080},
		Sink: SinkConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "telemetry", SSLMode: ""},
		Auth: AuthConfig{TokenSecret: "secret"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Sink.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.Sink.SSLMode)
	}
}

func TestValidate_LiveTailDefaultsMaxEntries(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		LiveTail: LiveTailConfig{Host: "localhost", Port: 6379},
		Auth:     AuthConfig{TokenSecret: "secret"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.LiveTail.MaxEntries != 1000 {
		t.Fatalf("expected default max entries, got %d", c.LiveTail.MaxEntries)
	}
}

func TestValidate_ProductionRequiresIssuerAudience(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "production", Port: 8080},
		Auth: AuthConfig{TokenSecret: "secret"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without issuer/audience")
	}
}
