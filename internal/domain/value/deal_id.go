package value

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// dealIDBytes даёт 64 бита энтропии: ссылку на сделку нельзя подобрать.
const dealIDBytes = 8

type DealID string

func (id DealID) String() string {
	return string(id)
}

func (id DealID) IsZero() bool {
	return id == ""
}

// NewDealID генерирует URL-safe токен из криптографического ГСЧ.
func NewDealID() (DealID, error) {
	buf := make([]byte, dealIDBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}

	return DealID(base64.RawURLEncoding.EncodeToString(buf)), nil
}

func ParseDealID(s string) (DealID, error) {
	if s == "" {
		return "", fmt.Errorf("empty deal id")
	}

	if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
		return "", fmt.Errorf("base64.Decode: %w", err)
	}

	return DealID(s), nil
}
