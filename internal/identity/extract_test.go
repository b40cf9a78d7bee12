package identity

import (
	"encoding/base64"
	"net/http"
	"testing"

	"paygate-telemetry/internal/payment"
)

func proofHeader(js string) string {
	return base64.StdEncoding.EncodeToString([]byte(js))
}

func TestExtract_VerifiedHeaderWinsOverProof(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderVerifiedWallet, "0xAAA")
	h.Set(payment.HeaderPayment, proofHeader(`{"scheme":"exact","payload":{"authorization":{"from":"0xBBB"}}}`))

	if got := Extract(h); got != "0xaaa" {
		t.Fatalf("expected verified header to win lower-cased, got %q", got)
	}
}

func TestExtract_ProofNestedAuthorization(t *testing.T) {
	h := http.Header{}
	h.Set(payment.HeaderPayment, proofHeader(`{"scheme":"exact","payload":{"authorization":{"from":"0xCCC"}}}`))

	if got := Extract(h); got != "0xccc" {
		t.Fatalf("expected nested payer, got %q", got)
	}
}

func TestExtract_ProofFlatFrom(t *testing.T) {
	h := http.Header{}
	h.Set(payment.HeaderPaymentLegacy, proofHeader(`{"scheme":"exact","from":"0xDDD"}`))

	if got := Extract(h); got != "0xddd" {
		t.Fatalf("expected flat payer via legacy header, got %q", got)
	}
}

func TestExtract_LowercaseHeaderKey(t *testing.T) {
	// Maps populated outside net/http canonicalization keep raw keys.
	h := http.Header{"x-payment": {proofHeader(`{"scheme":"exact","from":"0xEEE"}`)}}

	if got := Extract(h); got != "0xeee" {
		t.Fatalf("expected lookup under raw lower-cased key, got %q", got)
	}
}

func TestExtract_MalformedProof(t *testing.T) {
	h := http.Header{}
	h.Set(payment.HeaderPayment, "%%%% not a proof %%%%")

	if got := Extract(h); got != "" {
		t.Fatalf("expected absent identity for garbage proof, got %q", got)
	}
}

func TestExtract_NoHeaders(t *testing.T) {
	if got := Extract(http.Header{}); got != "" {
		t.Fatalf("expected absent identity, got %q", got)
	}
	if got := Extract(nil); got != "" {
		t.Fatalf("expected absent identity for nil headers, got %q", got)
	}
}
