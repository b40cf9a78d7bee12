package telemetry

import (
	"context"
	"database/sql"
)

// PostgresSink writes invocation records to the invocations table.
//
// The table is assumed to pre-exist; this layer performs no schema
// management and simply fails the individual insert when the target is
// unreachable or rejects the row. One *sql.DB is shared process-wide and
// is safe under concurrent use.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

const insertInvocationSQL = `
INSERT INTO invocations (
	id,
	self_reported_wallet, client_id, session_id, verified_wallet,
	method, route, origin, referer,
	request_content_type, request_headers, request_body,
	response_content_type, response_headers, response_body,
	status_code, status_text, duration_ms,
	created_at
) VALUES (
	$1,
	$2, $3, $4, $5,
	$6, $7, $8, $9,
	$10, $11, $12,
	$13, $14, $15,
	$16, $17, $18,
	$19
)`

func (s *PostgresSink) Insert(ctx context.Context, inv Invocation) error {
	_, err := s.db.ExecContext(ctx, insertInvocationSQL,
		inv.ID,
		nullIfEmpty(inv.SelfReportedWallet),
		nullIfEmpty(inv.ClientID),
		nullIfEmpty(inv.SessionID),
		nullIfEmpty(inv.VerifiedWallet),
		inv.Method,
		inv.Route,
		nullIfEmpty(inv.Origin),
		nullIfEmpty(inv.Referer),
		nullIfEmpty(inv.RequestContentType),
		nullIfEmpty(inv.RequestHeaders),
		nullIfEmpty(inv.RequestBody),
		nullIfEmpty(inv.ResponseContentType),
		nullIfEmpty(inv.ResponseHeaders),
		nullIfEmpty(inv.ResponseBody),
		inv.StatusCode,
		nullIfEmpty(inv.StatusText),
		inv.DurationMs,
		inv.CreatedAt,
	)
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
