package auth

import (
	"testing"
	"time"

	"paygate-telemetry/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{TokenSecret: "test-secret", TokenTTL: time.Minute})
	if err != nil {
		t.Fatalf("manager init: %v", err)
	}
	return m
}

func TestManager_IssueVerifyRoundTrip(t *testing.T) {
	m := testManager(t)

	tok, err := m.Issue(time.Now(), "0xAbCd")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	wallet, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if wallet != "0xabcd" {
		t.Fatalf("expected lower-cased wallet, got %q", wallet)
	}
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := testManager(t)

	tok, err := m.Issue(time.Now().Add(-2*time.Hour), "0xabc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestManager_RejectsGarbage(t *testing.T) {
	m := testManager(t)
	if _, err := m.Verify("not.a.token"); err == nil {
		t.Fatalf("expected garbage to fail")
	}
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	m := testManager(t)
	other, err := NewManager(config.AuthConfig{TokenSecret: "other-secret", TokenTTL: time.Minute})
	if err != nil {
		t.Fatalf("manager init: %v", err)
	}

	tok, err := other.Issue(time.Now(), "0xabc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok); err == nil {
		t.Fatalf("expected token signed with another secret to fail")
	}
}

func TestManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{}); err == nil {
		t.Fatalf("expected missing secret to fail")
	}
}
