// Package signature verifies HMAC signatures on inbound webhooks.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"
)

// HMACSHA256 returns hex(HMAC-SHA256(secret, payload))
func HMACSHA256(secret string, payload []byte) string {
	return sum(sha256.New, secret, payload)
}

// HMACSHA512 returns hex(HMAC-SHA512(secret, payload))
func HMACSHA512(secret string, payload []byte) string {
	return sum(sha512.New, secret, payload)
}

func sum(h func() hash.Hash, secret string, payload []byte) string {
	mac := hmac.New(h, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC verifies a sha256 HMAC hex signature against payload and secret
func VerifyHMAC(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	return equal(HMACSHA256(secret, payload), signatureHex)
}

// VerifyHMACSHA512 verifies a sha512 HMAC hex signature (Paystack x-paystack-signature)
func VerifyHMACSHA512(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	return equal(HMACSHA512(secret, payload), signatureHex)
}

// ZoomSignature builds the x-zm-signature value: v0=hex(HMAC-SHA256(secret, "v0:{timestamp}:{body}"))
func ZoomSignature(secret, timestamp string, body []byte) string {
	msg := make([]byte, 0, len(body)+len(timestamp)+4)
	msg = append(msg, "v0:"...)
	msg = append(msg, timestamp...)
	msg = append(msg, ':')
	msg = append(msg, body...)
	return "v0=" + HMACSHA256(secret, msg)
}

// VerifyZoom verifies the x-zm-signature header of a Zoom webhook
func VerifyZoom(secret, timestamp string, body []byte, header string) bool {
	if secret == "" || timestamp == "" || header == "" {
		return false
	}
	return equal(ZoomSignature(secret, timestamp, body), header)
}

func equal(expected, got string) bool {
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(got))))
}
