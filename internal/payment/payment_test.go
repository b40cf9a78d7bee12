package payment

import (
	"encoding/base64"
	"errors"
	"testing"
)

func encode(t *testing.T, js string) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte(js))
}

func TestDecode_NestedAuthorization(t *testing.T) {
	raw := encode(t, `{"x402Version":1,"scheme":"exact","network":"base","payload":{"signature":"0xsig","authorization":{"from":"0xCCC","to":"0x1","value":"1000"}}}`)

	p, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.PayerAddress() != "0xCCC" {
		t.Fatalf("expected nested payer, got %q", p.PayerAddress())
	}
}

func TestDecode_LegacyFlatFrom(t *testing.T) {
	raw := encode(t, `{"scheme":"exact","from":"0xBBB"}`)

	p, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.PayerAddress() != "0xBBB" {
		t.Fatalf("expected flat payer, got %q", p.PayerAddress())
	}
}

func TestDecode_NestedWinsOverFlat(t *testing.T) {
	raw := encode(t, `{"scheme":"exact","from":"0xFLAT","payload":{"authorization":{"from":"0xNESTED"}}}`)

	p, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.PayerAddress() != "0xNESTED" {
		t.Fatalf("expected nested precedence, got %q", p.PayerAddress())
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode("not-base64!!!"); !errors.Is(err, ErrMalformedProof) {
		t.Fatalf("expected malformed proof, got %v", err)
	}
	if _, err := Decode(encode(t, `{"scheme":`)); !errors.Is(err, ErrMalformedProof) {
		t.Fatalf("expected malformed proof for bad json, got %v", err)
	}
}

func TestDecode_UnsupportedScheme(t *testing.T) {
	if _, err := Decode(encode(t, `{"scheme":"streaming"}`)); !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected unsupported scheme, got %v", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode("   "); !errors.Is(err, ErrEmptyProof) {
		t.Fatalf("expected empty proof, got %v", err)
	}
}
