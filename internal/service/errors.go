package service

import (
	"errors"
	"net/http"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
)

var ErrUnsupportedPlatform = errors.New("unsupported_platform")

// HTTPStatus — единственное место, где класс ошибки превращается в HTTP статус
// и безопасное для клиента сообщение. Причина (Err) наружу не отдаётся.
func HTTPStatus(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}
	if errors.Is(err, ErrUnsupportedPlatform) {
		return http.StatusBadRequest, "unsupported platform"
	}

	field := apperr.FieldOf(err)
	switch apperr.KindOf(err) {
	case apperr.ConfigurationIncomplete:
		return http.StatusInternalServerError, withField("settings incomplete", field)
	case apperr.CredentialMissing:
		return http.StatusInternalServerError, withField("credential file not found", field)
	case apperr.ServiceAccountInvalid:
		return http.StatusInternalServerError, "invalid service account JSON"
	case apperr.SigningFailed:
		return http.StatusInternalServerError, "signing failed"
	case apperr.ConversionFailed:
		return http.StatusInternalServerError, "image conversion failed"
	case apperr.IdentityNotFound:
		return http.StatusNotFound, "user not found"
	case apperr.NonceInvalid:
		return http.StatusForbidden, "invalid nonce"
	case apperr.TokenInvalid:
		if errors.Is(err, apperr.ErrMalformed) {
			return http.StatusBadRequest, "missing or malformed token"
		}
		return http.StatusForbidden, "invalid token"
	case apperr.TokenExpired:
		return http.StatusForbidden, "token expired"
	}
	return http.StatusInternalServerError, "internal error"
}

func withField(msg, field string) string {
	if field == "" {
		return msg
	}
	return msg + ": " + field
}
