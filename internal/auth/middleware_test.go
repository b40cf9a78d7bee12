package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paygate-telemetry/internal/config"
	"paygate-telemetry/internal/telemetry"

	"github.com/gin-gonic/gin"
)

func setupRoute(t *testing.T, sink telemetry.Sink, v Verifier) (*gin.Engine, *telemetry.Recorder, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := telemetry.NewRecorder(sink, nil)
	ic := telemetry.NewInterceptor(rec, "test")

	invoked := false
	r := gin.New()
	r.GET("/me", RequireSignedWallet(ic, v, func(c *gin.Context, tc *telemetry.Context, wallet string) error {
		invoked = true
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
		return nil
	}))
	return r, rec, &invoked
}

func flushRec(t *testing.T, rec *telemetry.Recorder) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rec.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestRequireSignedWallet_MissingTokenChallenges(t *testing.T) {
	sink := telemetry.NewMemorySink()
	m, _ := NewManager(config.AuthConfig{TokenSecret: "s", TokenTTL: time.Minute})
	r, rec, invoked := setupRoute(t, sink, m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 challenge, got %d", w.Code)
	}
	if *invoked {
		t.Fatalf("inner handler must not run without a token")
	}

	flushRec(t, rec)
	rows := sink.Invocations()
	if len(rows) != 1 {
		t.Fatalf("expected challenge recorded, got %d rows", len(rows))
	}
	if rows[0].VerifiedWallet != "" || rows[0].StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected challenge record: %+v", rows[0])
	}
}

func TestRequireSignedWallet_InvalidTokenChallenges(t *testing.T) {
	sink := telemetry.NewMemorySink()
	m, _ := NewManager(config.AuthConfig{TokenSecret: "s", TokenTTL: time.Minute})
	r, rec, invoked := setupRoute(t, sink, m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderWalletToken, "junk")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized || *invoked {
		t.Fatalf("expected 401 without invoking handler, got %d invoked=%v", w.Code, *invoked)
	}
	flushRec(t, rec)
	if len(sink.Invocations()) != 1 {
		t.Fatalf("expected one record for invalid token")
	}
}

func TestRequireSignedWallet_SeedsVerifiedWallet(t *testing.T) {
	sink := telemetry.NewMemorySink()
	m, _ := NewManager(config.AuthConfig{TokenSecret: "s", TokenTTL: time.Minute})
	r, rec, invoked := setupRoute(t, sink, m)

	tok, err := m.Issue(time.Now(), "0xBEEF")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderWalletToken, tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !*invoked {
		t.Fatalf("expected handler to run, got %d invoked=%v", w.Code, *invoked)
	}

	flushRec(t, rec)
	rows := sink.Invocations()
	if len(rows) != 1 || rows[0].VerifiedWallet != "0xbeef" {
		t.Fatalf("expected verified wallet on record, got %+v", rows)
	}
}
