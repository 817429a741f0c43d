package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	secret := []byte("whsec_test_secret")
	body := []byte(`{"id":"evt_1","type":"charge.succeeded"}`)

	if !VerifySignature(secret, body, sign(secret, body)) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	sig := sign([]byte("whsec_other"), body)

	if VerifySignature([]byte("whsec_test_secret"), body, sig) {
		t.Fatal("signature from a different secret must not verify")
	}
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	secret := []byte("whsec_test_secret")
	sig := sign(secret, []byte(`{"id":"evt_1","amount":100}`))

	if VerifySignature(secret, []byte(`{"id":"evt_1","amount":999}`), sig) {
		t.Fatal("tampered body must not verify")
	}
}

func TestVerifySignature_EmptyInputs(t *testing.T) {
	secret := []byte("whsec_test_secret")
	body := []byte(`{}`)

	if VerifySignature(secret, body, "") {
		t.Fatal("empty signature must not verify")
	}
	if VerifySignature(nil, body, sign(secret, body)) {
		t.Fatal("missing secret must not verify")
	}
}
