// Package apperr — типизированные ошибки выпуска и проверки пропусков.
package apperr

import (
	"errors"
	"fmt"
)

// Kind — класс ошибки; по нему оркестратор выбирает HTTP статус
type Kind string

const (
	ConfigurationIncomplete Kind = "configuration_incomplete"
	CredentialMissing       Kind = "credential_missing"
	ServiceAccountInvalid   Kind = "service_account_invalid"
	SigningFailed           Kind = "signing_failed"
	ConversionFailed        Kind = "conversion_failed"
	TokenInvalid            Kind = "token_invalid"
	TokenExpired            Kind = "token_expired"
	IdentityNotFound        Kind = "identity_not_found"
	NonceInvalid            Kind = "nonce_invalid"
)

// ErrMalformed — токен отсутствует или не разбирается (в отличие от неверной подписи)
var ErrMalformed = errors.New("malformed")

// Error — ошибка с классом, необязательным именем поля настроек и причиной
type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is сравнивает только класс, если target — голый sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Field == "" && t.Err == nil
}

// Sentinels для errors.Is
var (
	ErrConfigurationIncomplete = &Error{Kind: ConfigurationIncomplete}
	ErrCredentialMissing       = &Error{Kind: CredentialMissing}
	ErrServiceAccountInvalid   = &Error{Kind: ServiceAccountInvalid}
	ErrSigningFailed           = &Error{Kind: SigningFailed}
	ErrConversionFailed        = &Error{Kind: ConversionFailed}
	ErrTokenInvalid            = &Error{Kind: TokenInvalid}
	ErrTokenExpired            = &Error{Kind: TokenExpired}
	ErrIdentityNotFound        = &Error{Kind: IdentityNotFound}
	ErrNonceInvalid            = &Error{Kind: NonceInvalid}
)

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Incomplete — не заполнено обязательное поле настроек
func Incomplete(field string) *Error {
	return &Error{Kind: ConfigurationIncomplete, Field: field}
}

// Missing — ссылка на файл не разрешилась ни через вложение, ни через путь
func Missing(field string) *Error {
	return &Error{Kind: CredentialMissing, Field: field}
}

// KindOf возвращает класс ошибки или "" для чужих ошибок
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldOf возвращает имя поля настроек из цепочки ошибок
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
