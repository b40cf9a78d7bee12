package paygate

import (
	"context"
	"errors"
	"net/http"

	"paygate-telemetry/internal/identity"
)

// Receipt is the proof-of-verification handed back by a Gate, carried
// through the request so settlement can reference the same payment.
type Receipt struct {
	// Payer is the verified paying address, lower-cased by the gate.
	Payer string
	// Reference is the gate's opaque settlement handle.
	Reference string
}

// Gate is the external payment-protocol capability. This package only
// sequences calls to it and never implements payment logic itself.
type Gate interface {
	// Verify checks the request's payment proof. An error means the
	// request must not proceed (the caller turns it into a 402).
	Verify(ctx context.Context, r *http.Request) (Receipt, error)
	// Settle finalizes the payment after the handler has succeeded.
	Settle(ctx context.Context, rc Receipt) error
}

var ErrNoPaymentProof = errors.New("paygate: no payment proof")

// UpstreamGate trusts the verification performed by the upstream payment
// middleware: the request is considered paid when it carries a verified
// identity per the extraction rules. Settlement is the upstream
// facilitator's job, so Settle is a no-op here.
type UpstreamGate struct{}

func (UpstreamGate) Verify(ctx context.Context, r *http.Request) (Receipt, error) {
	payer := identity.Extract(r.Header)
	if payer == "" {
		return Receipt{}, ErrNoPaymentProof
	}
	return Receipt{Payer: payer}, nil
}

func (UpstreamGate) Settle(ctx context.Context, rc Receipt) error { return nil }
