package service

import (
	"encoding/base64"
	"testing"
)

func TestSignatureVerifier_Verify(t *testing.T) {
	body := []byte(`{"id":1,"total_price":"10.00"}`)
	verifier := NewSignatureVerifier(testSecret)

	tests := []struct {
		name      string
		body      []byte
		signature string
		want      bool
	}{
		{
			name:      "valid signature",
			body:      body,
			signature: Sign(body, testSecret),
			want:      true,
		},
		{
			name:      "signature of another body",
			body:      body,
			signature: Sign([]byte(`{"id":2,"total_price":"10.00"}`), testSecret),
			want:      false,
		},
		{
			name:      "signature with another secret",
			body:      body,
			signature: Sign(body, "other-secret"),
			want:      false,
		},
		{
			name:      "whitespace change breaks signature",
			body:      []byte(`{"id": 1, "total_price": "10.00"}`),
			signature: Sign(body, testSecret),
			want:      false,
		},
		{
			name:      "missing signature",
			body:      body,
			signature: "",
			want:      false,
		},
		{
			name:      "not base64",
			body:      body,
			signature: "%%%not-base64%%%",
			want:      false,
		},
		{
			name:      "shorter signature",
			body:      body,
			signature: base64.StdEncoding.EncodeToString([]byte("short")),
			want:      false,
		},
		{
			name:      "longer signature with valid prefix",
			body:      body,
			signature: Sign(body, testSecret) + "AAAA",
			want:      false,
		},
		{
			name:      "empty body signed correctly",
			body:      []byte{},
			signature: Sign([]byte{}, testSecret),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verifier.Verify(tt.body, tt.signature); got != tt.want {
				t.Fatalf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSign_roundTrip(t *testing.T) {
	bodies := [][]byte{
		[]byte(`{}`),
		[]byte(`{"customer":null}`),
		[]byte("non-json bytes \x00\xff"),
		orderBody("33.34"),
	}

	verifier := NewSignatureVerifier(testSecret)
	for i, b := range bodies {
		if !verifier.Verify(b, Sign(b, testSecret)) {
			t.Fatalf("body %d: signature did not verify", i)
		}
		for j, other := range bodies {
			if i == j {
				continue
			}
			if verifier.Verify(b, Sign(other, testSecret)) {
				t.Fatalf("body %d verified with signature of body %d", i, j)
			}
		}
	}
}
