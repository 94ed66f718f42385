package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestVerifyHMAC(t *testing.T) {
	payload := []byte(`{"event":"x"}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(payload)
	sig := hex.EncodeToString(mac.Sum(nil))

	if !VerifyHMAC("secret", payload, sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifyHMAC("other", payload, sig) {
		t.Fatal("signature with wrong secret accepted")
	}
	if VerifyHMAC("", payload, sig) || VerifyHMAC("secret", payload, "") {
		t.Fatal("empty secret or signature must be rejected")
	}
}

func TestVerifyHMACSHA512(t *testing.T) {
	payload := []byte(`{"event":"charge.success"}`)
	sig := HMACSHA512("sk_test_123", payload)
	if len(sig) != 128 {
		t.Fatalf("expected 128 hex chars, got %d", len(sig))
	}
	if !VerifyHMACSHA512("sk_test_123", payload, sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifyHMACSHA512("sk_test_123", []byte(`{}`), sig) {
		t.Fatal("signature over a different body accepted")
	}
}

func TestVerifyZoom(t *testing.T) {
	body := []byte(`{"event":"recording.completed"}`)
	header := ZoomSignature("zoom-secret", "1700000000", body)
	if header[:3] != "v0=" {
		t.Fatalf("unexpected header %s", header)
	}
	if !VerifyZoom("zoom-secret", "1700000000", body, header) {
		t.Fatal("valid zoom signature rejected")
	}
	if VerifyZoom("zoom-secret", "1700000001", body, header) {
		t.Fatal("signature with a different timestamp accepted")
	}
	if VerifyZoom("zoom-secret", "", body, header) {
		t.Fatal("missing timestamp accepted")
	}
}
