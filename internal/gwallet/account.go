// Package gwallet выпускает ссылку «Сохранить в Google Wallet»: RS256 JWT savetowallet.
package gwallet

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
)

// ServiceAccount — нужные поля JSON-ключа сервисного аккаунта Google
type ServiceAccount struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
}

// ParseServiceAccount проверяет наличие client_email и private_key
func ParseServiceAccount(data []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, apperr.New(apperr.ServiceAccountInvalid, err)
	}
	sa.ClientEmail = strings.TrimSpace(sa.ClientEmail)
	if sa.ClientEmail == "" {
		return nil, apperr.New(apperr.ServiceAccountInvalid, errors.New("client_email is empty"))
	}
	if strings.TrimSpace(sa.PrivateKey) == "" {
		return nil, apperr.New(apperr.ServiceAccountInvalid, errors.New("private_key is empty"))
	}
	return &sa, nil
}

// SigningKey разбирает PEM-ключ аккаунта (PKCS#1 или PKCS#8)
func (sa *ServiceAccount) SigningKey() (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, apperr.New(apperr.SigningFailed, err)
	}
	return key, nil
}
