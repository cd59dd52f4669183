package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the CMS delivery signature.
const SignatureHeader = "Sanity-Webhook-Signature"

// ValidateSignature checks the HMAC-SHA256 signature over the raw
// request body. It fails closed: no configured secret or no header
// means the delivery is rejected.
func ValidateSignature(body []byte, secret, header string) bool {
	if secret == "" || header == "" {
		return false
	}

	header = strings.TrimPrefix(header, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	provided, err := hex.DecodeString(header)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(expected)
	return hmac.Equal(provided, want)
}
