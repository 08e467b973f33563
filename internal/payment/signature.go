package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign вычисляет HMAC-SHA256 подпись payload в hex-кодировке.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature сверяет hex-подпись payload с ожидаемой.
// Сравнение выполняется за постоянное время.
func VerifySignature(payload []byte, signature, secret string) bool {
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), provided)
}

// VerifyAssertionSignature проверяет клиентское утверждение об оплате.
// Шлюз подписывает строку "<gatewayOrderID>|<paymentID>" ключом key_secret.
func VerifyAssertionSignature(gatewayOrderID, paymentID, signature, secret string) bool {
	return VerifySignature([]byte(gatewayOrderID+"|"+paymentID), signature, secret)
}
