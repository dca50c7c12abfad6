package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

type attachmentsMap map[int64]string

func (m attachmentsMap) AttachmentPath(_ context.Context, id int64) (string, error) {
	p, ok := m[id]
	if !ok {
		return "", errors.New("no attachment")
	}
	return p, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestResolvePrefersAttachment(t *testing.T) {
	uploaded := writeFile(t, "uploaded.p12", "uploaded")
	direct := writeFile(t, "direct.p12", "direct")
	r := NewResolver(attachmentsMap{7: uploaded})

	p, err := r.Resolve(context.Background(), models.Ref{AttachmentID: 7, Path: direct}, models.KeyP12Path)
	require.NoError(t, err)
	assert.Equal(t, uploaded, p)
}

func TestResolveFallsBackToPath(t *testing.T) {
	direct := writeFile(t, "direct.p12", "direct")
	missing := filepath.Join(t.TempDir(), "gone.p12")
	r := NewResolver(attachmentsMap{7: missing})

	for name, ref := range map[string]models.Ref{
		"unknown attachment":          {AttachmentID: 99, Path: direct},
		"attachment file not on disk": {AttachmentID: 7, Path: direct},
		"no attachment configured":    {Path: direct},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := r.ReadFile(context.Background(), ref, models.KeyP12Path)
			require.NoError(t, err)
			assert.Equal(t, "direct", string(b))
		})
	}
}

func TestResolveMissingNamesField(t *testing.T) {
	r := NewResolver(nil)

	_, err := r.Resolve(context.Background(), models.Ref{Path: t.TempDir()}, models.KeySAJSONPath)
	require.ErrorIs(t, err, apperr.ErrCredentialMissing)
	assert.Equal(t, models.KeySAJSONPath, apperr.FieldOf(err))

	_, err = r.Resolve(context.Background(), models.Ref{}, models.KeyP12Path)
	require.ErrorIs(t, err, apperr.ErrCredentialMissing)
}
