package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidateSignatureAccepts(t *testing.T) {
	body := []byte(`{"_id":"person-1","_type":"playerProfile"}`)
	secret := "topsecret"

	assert.True(t, ValidateSignature(body, secret, sign(body, secret)))
	assert.True(t, ValidateSignature(body, secret, "sha256="+sign(body, secret)))
}

func TestValidateSignatureRejectsTampering(t *testing.T) {
	body := []byte(`{"_id":"person-1"}`)
	secret := "topsecret"
	sig := sign(body, secret)

	assert.False(t, ValidateSignature([]byte(`{"_id":"person-2"}`), secret, sig))
	assert.False(t, ValidateSignature(body, "othersecret", sig))
	assert.False(t, ValidateSignature(body, secret, "not-hex"))
}

func TestValidateSignatureFailsClosed(t *testing.T) {
	body := []byte(`{}`)

	assert.False(t, ValidateSignature(body, "", sign(body, "anything")))
	assert.False(t, ValidateSignature(body, "secret", ""))
}
