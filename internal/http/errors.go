package http

import (
	"errors"
	"net/http"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/http/dto"
	"github.com/vbncursed/vkr/wallet-service/internal/service"
)

var requestErrors = []error{
	dto.ErrUserRequired,
	dto.ErrUserInvalid,
	dto.ErrUnknownAction,
	dto.ErrTokenRequired,
}

// MapError переводит доменные/DTO ошибки в HTTP статус и тело APIError.
// Статусы доменных ошибок берутся из service.HTTPStatus.
func MapError(err error) (int, APIError) {
	for _, target := range requestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, APIError{Code: "invalid_request", Message: target.Error()}
		}
	}

	status, msg := service.HTTPStatus(err)
	code := string(apperr.KindOf(err))
	switch {
	case errors.Is(err, service.ErrUnsupportedPlatform):
		code = "unsupported_platform"
	case code == "":
		code = "internal"
	}
	return status, APIError{Code: code, Message: msg}
}
