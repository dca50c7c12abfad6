package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("build: %w", Incomplete("team_id"))

	require.ErrorIs(t, err, ErrConfigurationIncomplete)
	assert.NotErrorIs(t, err, ErrCredentialMissing)
	assert.Equal(t, ConfigurationIncomplete, KindOf(err))
	assert.Equal(t, "team_id", FieldOf(err))
}

func TestUnwrapExposesCause(t *testing.T) {
	err := New(TokenInvalid, fmt.Errorf("%w: bad segment", ErrMalformed))

	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "credential_missing: p12_path", Missing("p12_path").Error())
	assert.Equal(t, "signing_failed: boom", New(SigningFailed, errors.New("boom")).Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
