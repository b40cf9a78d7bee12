package payment

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Header names under which clients submit a payment proof.
// HeaderPayment is the canonical name; HeaderPaymentLegacy is kept for
// clients built against the older protocol revision.
const (
	HeaderPayment       = "X-Payment"
	HeaderPaymentLegacy = "X-402-Payment"
)

// SchemeExact is the only settlement scheme this decoder understands.
const SchemeExact = "exact"

var (
	ErrEmptyProof        = errors.New("payment: empty proof")
	ErrMalformedProof    = errors.New("payment: malformed proof")
	ErrUnsupportedScheme = errors.New("payment: unsupported scheme")
)

// Payload is the decoded payment proof envelope.
//
// Two shapes exist in the wild: the current one nests payer details under
// payload.authorization, the legacy one carries a flat "from" field. Both
// are modeled as explicit fields; PayerAddress defines the precedence.
type Payload struct {
	X402Version int           `json:"x402Version"`
	Scheme      string        `json:"scheme"`
	Network     string        `json:"network"`
	Payload     *ExactPayload `json:"payload,omitempty"`

	// From is the legacy flat payer field. Ignored when the nested
	// authorization is present.
	From string `json:"from,omitempty"`
}

// ExactPayload carries the signed transfer authorization of the
// "exact" scheme.
type ExactPayload struct {
	Signature     string         `json:"signature,omitempty"`
	Authorization *Authorization `json:"authorization,omitempty"`
}

// Authorization mirrors the EIP-3009 transferWithAuthorization fields.
type Authorization struct {
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Value       string `json:"value,omitempty"`
	ValidAfter  string `json:"validAfter,omitempty"`
	ValidBefore string `json:"validBefore,omitempty"`
	Nonce       string `json:"nonce,omitempty"`
}

// Decode parses a raw payment header value: base64 (standard encoding)
// wrapping a JSON envelope. It validates shape only; signature checking
// belongs to the upstream payment gate.
func Decode(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, ErrEmptyProof
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}

	if p.Scheme != "" && p.Scheme != SchemeExact {
		return Payload{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, p.Scheme)
	}

	return p, nil
}

// PayerAddress returns the payer of the proof, preferring the nested
// authorization over the legacy flat field. Empty string means the
// envelope names no payer.
func (p Payload) PayerAddress() string {
	if p.Payload != nil && p.Payload.Authorization != nil && p.Payload.Authorization.From != "" {
		return p.Payload.Authorization.From
	}
	return p.From
}
