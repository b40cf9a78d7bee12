package identity

import (
	"net/http"
	"strings"

	"paygate-telemetry/internal/payment"
)

// Header names carrying caller-identity signals.
//
// HeaderVerifiedWallet is injected by the upstream payment-verification
// middleware after it has checked a proof; it never comes from the caller
// directly (the edge strips it from inbound traffic).
// The remaining headers are caller-supplied and untrusted.
const (
	HeaderVerifiedWallet     = "X-Payment-Verified-Wallet"
	HeaderSelfReportedWallet = "X-Wallet-Address"
	HeaderClientID           = "X-Client-Id"
	HeaderSessionID          = "X-Session-Id"
)

// Extract derives a verified wallet address from request headers.
// Empty string means no verified identity, the normal case for free routes.
//
// Priority, first match wins:
//  1. the upstream-injected verified-wallet header, trusted as-is because
//     verification already happened before this code runs;
//  2. a payment proof under the canonical or legacy header name, decoded
//     and read for its payer address.
//
// Extract never panics and performs no signature math itself.
func Extract(h http.Header) string {
	if h == nil {
		return ""
	}

	if v := strings.TrimSpace(headerValue(h, HeaderVerifiedWallet)); v != "" {
		return strings.ToLower(v)
	}

	for _, name := range []string{payment.HeaderPayment, payment.HeaderPaymentLegacy} {
		raw := strings.TrimSpace(headerValue(h, name))
		if raw == "" {
			continue
		}
		p, err := payment.Decode(raw)
		if err != nil {
			// Malformed or unsupported proof: no verified identity,
			// never an error from here.
			continue
		}
		if from := strings.TrimSpace(p.PayerAddress()); from != "" {
			return strings.ToLower(from)
		}
	}

	return ""
}

// headerValue looks a header up under its canonical form and, for maps
// populated outside net/http's canonicalization, its lower-cased form.
func headerValue(h http.Header, name string) string {
	if v := h.Get(name); v != "" {
		return v
	}
	if vs := h[strings.ToLower(name)]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
