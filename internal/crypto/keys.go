package crypto

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Назначения производных ключей: один секрет сайта, независимые ключи на каждую задачу
const (
	PurposeVerificationToken = "wallet-verification-token"
	PurposeMemberNonce       = "wallet-member-nonce"
)

// DeriveKey выводит 32-байтовый ключ из секрета сайта через HKDF-SHA256
func DeriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("empty site secret")
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
