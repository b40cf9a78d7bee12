package telemetry

import (
	"strings"
	"sync"
)

// Context is the per-request mutable state handed to wrapped handlers.
//
// Identity fields are readable; the single write operation is
// AssertVerifiedWallet. A Context is scoped to one request's lifetime and
// never crosses requests.
type Context struct {
	mu sync.Mutex

	invocationID       string
	selfReportedWallet string
	clientID           string
	sessionID          string
	verifiedWallet     string
}

// InvocationID returns the id of the record this request will produce.
func (t *Context) InvocationID() string { return t.invocationID }

// SelfReportedWallet is the caller's voluntary claim, untrusted.
func (t *Context) SelfReportedWallet() string { return t.selfReportedWallet }

// ClientID identifies the calling software, untrusted.
func (t *Context) ClientID() string { return t.clientID }

// SessionID is the caller-defined correlation key, untrusted.
func (t *Context) SessionID() string { return t.sessionID }

// VerifiedWallet returns the address currently bound to this request, or
// empty when no verification has happened.
func (t *Context) VerifiedWallet() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.verifiedWallet
}

// AssertVerifiedWallet binds an address to this request on behalf of an
// authentication check completed outside the automatic extraction path.
// Safe to call multiple times; the last call wins. Input is normalized to
// lower case. Has no effect on records already written.
func (t *Context) AssertVerifiedWallet(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.verifiedWallet = strings.ToLower(strings.TrimSpace(addr))
}
