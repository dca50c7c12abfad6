package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"incomplete", apperr.Incomplete("team_id"), http.StatusInternalServerError, "settings incomplete: team_id"},
		{"missing", apperr.Missing("p12_path"), http.StatusInternalServerError, "credential file not found: p12_path"},
		{"service account", apperr.New(apperr.ServiceAccountInvalid, errors.New("x")), http.StatusInternalServerError, "invalid service account JSON"},
		{"signing", apperr.New(apperr.SigningFailed, errors.New("x")), http.StatusInternalServerError, "signing failed"},
		{"conversion", apperr.New(apperr.ConversionFailed, errors.New("x")), http.StatusInternalServerError, "image conversion failed"},
		{"not found", fmt.Errorf("lookup: %w", apperr.ErrIdentityNotFound), http.StatusNotFound, "user not found"},
		{"nonce", apperr.ErrNonceInvalid, http.StatusForbidden, "invalid nonce"},
		{"malformed", apperr.New(apperr.TokenInvalid, apperr.ErrMalformed), http.StatusBadRequest, "missing or malformed token"},
		{"bad signature", apperr.New(apperr.TokenInvalid, errors.New("sig")), http.StatusForbidden, "invalid token"},
		{"expired", apperr.New(apperr.TokenExpired, errors.New("exp")), http.StatusForbidden, "token expired"},
		{"platform", fmt.Errorf("%w: x", ErrUnsupportedPlatform), http.StatusBadRequest, "unsupported platform"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := HTTPStatus(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestDefaultHooksPassThrough(t *testing.T) {
	var h Hooks = DefaultHooks{}
	assert.Equal(t, "a", h.MemberName("a", jane()))
	assert.Equal(t, "b", h.MemberID("b", jane()))
	assert.Equal(t, "c", h.BarcodeMessage("c", 1, "m"))
	assert.Equal(t, "d", h.Placeholder("d"))

	h = HookFuncs{}
	assert.Equal(t, "a", h.MemberName("a", jane()))
	assert.Equal(t, "d", h.Placeholder("d"))
}
