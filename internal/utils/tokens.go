package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

func NewRefreshToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 бит по умолчанию
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewPaymentReference — короткая ссылка для квитанции, например "MC-1F3A9C0B2D4E".
func NewPaymentReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "MC-" + strings.ToUpper(id[:12])
}
