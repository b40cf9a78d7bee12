package telemetry

import "time"

// Invocation is an immutable, append-only record of one intercepted request.
//
// Invariants:
// - Exactly one Invocation is produced per intercepted request, whatever
//   the outcome (success, handler error, challenge, timeout).
// - Records are never updated or deleted after the write attempt.
// - VerifiedWallet, when set, comes only from the upstream-verified header,
//   a decoded payment proof, or an explicit assertion by the handler; it is
//   never copied from a caller claim.
// - SelfReportedWallet and VerifiedWallet stay independent even when equal.
// - Capture is best-effort: a field that cannot be computed is left empty
//   rather than aborting the record.
//
// Storage (Postgres): table invocations, INSERT-only.
type Invocation struct {
	ID string `json:"id" db:"id"`

	// SelfReportedWallet is the caller's voluntary identity claim. Untrusted.
	SelfReportedWallet string `json:"self_reported_wallet,omitempty" db:"self_reported_wallet"`
	// ClientID identifies the calling software. Untrusted, advisory only.
	ClientID string `json:"client_id,omitempty" db:"client_id"`
	// SessionID is an opaque caller-defined correlation key. Never security.
	SessionID string `json:"session_id,omitempty" db:"session_id"`
	// VerifiedWallet is the one field with a trust guarantee: an address a
	// cryptographic or protocol-level check has bound to this request.
	VerifiedWallet string `json:"verified_wallet,omitempty" db:"verified_wallet"`

	Method string `json:"method" db:"method"`
	Route  string `json:"route" db:"route"`
	// Origin identifies the serving instance. Never caller-supplied.
	Origin  string `json:"origin,omitempty" db:"origin"`
	Referer string `json:"referer,omitempty" db:"referer"`

	RequestContentType  string `json:"request_content_type,omitempty" db:"request_content_type"`
	RequestHeaders      string `json:"request_headers,omitempty" db:"request_headers"`
	RequestBody         string `json:"request_body,omitempty" db:"request_body"`
	ResponseContentType string `json:"response_content_type,omitempty" db:"response_content_type"`
	ResponseHeaders     string `json:"response_headers,omitempty" db:"response_headers"`
	ResponseBody        string `json:"response_body,omitempty" db:"response_body"`

	StatusCode int    `json:"status_code" db:"status_code"`
	StatusText string `json:"status_text,omitempty" db:"status_text"`
	DurationMs int64  `json:"duration_ms" db:"duration_ms"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
