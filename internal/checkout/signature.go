package checkout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature returns the hex HMAC-SHA256 of "orderId|paymentId" the gateway
// attaches to a successful checkout.
func Signature(secret string, orderId string, paymentId string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderId + "|" + paymentId))

	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret string, orderId string, paymentId string, signature string) bool {
	expected := Signature(secret, orderId, paymentId)

	return hmac.Equal([]byte(expected), []byte(signature))
}
