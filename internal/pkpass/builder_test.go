package pkpass

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mozilla.org/pkcs7"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/credentials"
	"github.com/vbncursed/vkr/wallet-service/internal/imaging"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
	"github.com/vbncursed/vkr/wallet-service/internal/testutil"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBuilder(credentials.NewResolver(nil), imaging.NewConverter(t.TempDir()), "", log)
}

func acmeIssuer(files testutil.SigningFiles) models.IssuerConfiguration {
	return models.ParseSettings(map[string]string{
		models.KeyOrgName:     "Acme",
		models.KeyTeamID:      "T1",
		models.KeyPassTypeID:  "pass.acme",
		models.KeyP12Path:     files.P12Path,
		models.KeyP12Password: testutil.P12Password,
		models.KeyWWDRPath:    files.WWDRPath,
	})
}

func janeRequest(cfg models.IssuerConfiguration) Request {
	return Request{
		Issuer: cfg,
		Member: models.MemberIdentity{
			ID:          42,
			DisplayName: "Jane Doe",
			LoginHandle: "jdoe",
			Attributes:  models.Attributes{models.AttrGivenName: "Jane"},
		},
		MemberName:     "Jane Doe",
		MemberID:       "jdoe",
		BarcodeMessage: "https://example.org/wallet/verify?token=abc&x=1",
		Placeholder:    models.DefaultPlaceholder,
		IssuedAt:       time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func unzip(t *testing.T, archive []byte) ([]string, map[string][]byte) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	out := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		names = append(names, f.Name)
		out[f.Name] = b
	}
	return names, out
}

func TestBuildProducesSignedArchive(t *testing.T) {
	files := testutil.WriteSigningFiles(t)
	b := newTestBuilder(t)

	pass, err := b.Build(context.Background(), janeRequest(acmeIssuer(files)))
	require.NoError(t, err)

	names, content := unzip(t, pass.Archive)
	assert.Equal(t, []string{FilePass, FileIcon, FileBackground, FileManifest, FileSignature}, names)

	var manifest map[string]string
	require.NoError(t, json.Unmarshal(content[FileManifest], &manifest))
	assert.Len(t, manifest, len(names)-2)
	for name, digest := range manifest {
		sum := sha1.Sum(content[name])
		assert.Equal(t, hex.EncodeToString(sum[:]), digest, name)
	}
	assert.NotContains(t, manifest, FileManifest)
	assert.NotContains(t, manifest, FileSignature)

	p7, err := pkcs7.Parse(content[FileSignature])
	require.NoError(t, err)
	p7.Content = content[FileManifest]
	require.NoError(t, p7.Verify())
	assert.Equal(t, files.Cert.Raw, p7.GetOnlySigner().Raw)
	assert.Len(t, p7.Certificates, 2, "signer and intermediate")
}

func TestBuildPassJSON(t *testing.T) {
	files := testutil.WriteSigningFiles(t)
	req := janeRequest(acmeIssuer(files))

	pass, err := newTestBuilder(t).Build(context.Background(), req)
	require.NoError(t, err)
	_, content := unzip(t, pass.Archive)

	raw := content[FilePass]
	assert.Contains(t, string(raw), "token=abc&x=1", "html escaping disabled")

	var doc PassDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 1, doc.FormatVersion)
	assert.Equal(t, "T1", doc.TeamIdentifier)
	assert.Equal(t, "pass.acme", doc.PassTypeIdentifier)
	assert.Equal(t, "Acme", doc.OrganizationName)
	assert.Equal(t, SerialNumber(42, req.IssuedAt), doc.SerialNumber)
	assert.Equal(t, pass.SerialNumber, doc.SerialNumber)

	require.Len(t, doc.Generic.PrimaryFields, 1)
	assert.Equal(t, "Jane Doe", doc.Generic.PrimaryFields[0].Value)
	assert.Equal(t, "jdoe", doc.Generic.SecondaryFields[0].Value)
	assert.Equal(t, models.DefaultPlaceholder, doc.Generic.SecondaryFields[1].Value)
	assert.Equal(t, "Jane", doc.Generic.AuxiliaryFields[0].Value)
	assert.Equal(t, models.DefaultPlaceholder, doc.Generic.AuxiliaryFields[1].Value)

	require.Len(t, doc.Barcodes, 1)
	assert.Equal(t, BarcodeFormatQR, doc.Barcodes[0].Format)
	assert.Equal(t, BarcodeEncoding, doc.Barcodes[0].MessageEncoding)
	assert.Equal(t, req.BarcodeMessage, doc.Barcodes[0].Message)
	assert.Equal(t, "jdoe", doc.Barcodes[0].AltText)
	require.NotNil(t, doc.Barcode)
	assert.Equal(t, doc.Barcodes[0], *doc.Barcode)
}

func TestBuildValidatesRequiredSettings(t *testing.T) {
	files := testutil.WriteSigningFiles(t)
	cases := map[string]func(*models.IssuerConfiguration){
		models.KeyTeamID:      func(c *models.IssuerConfiguration) { c.TeamIdentifier = "" },
		models.KeyPassTypeID:  func(c *models.IssuerConfiguration) { c.PassTypeIdentifier = "" },
		models.KeyOrgName:     func(c *models.IssuerConfiguration) { c.OrganizationName = "" },
		models.KeyP12Path:     func(c *models.IssuerConfiguration) { c.Credentials.SigningCert = models.Ref{} },
		models.KeyP12Password: func(c *models.IssuerConfiguration) { c.Credentials.SigningCertPassword = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			cfg := acmeIssuer(files)
			mutate(&cfg)
			_, err := newTestBuilder(t).Build(context.Background(), janeRequest(cfg))
			require.ErrorIs(t, err, apperr.ErrConfigurationIncomplete)
			assert.Equal(t, field, apperr.FieldOf(err))
		})
	}
}

func TestBuildMissingCertificate(t *testing.T) {
	cfg := acmeIssuer(testutil.WriteSigningFiles(t))
	cfg.Credentials.SigningCert = models.Ref{Path: filepath.Join(t.TempDir(), "absent.p12")}

	pass, err := newTestBuilder(t).Build(context.Background(), janeRequest(cfg))
	require.ErrorIs(t, err, apperr.ErrCredentialMissing)
	assert.Equal(t, models.KeyP12Path, apperr.FieldOf(err))
	assert.Nil(t, pass)
}

func TestBuildWrongPassword(t *testing.T) {
	cfg := acmeIssuer(testutil.WriteSigningFiles(t))
	cfg.Credentials.SigningCertPassword = "wrong"

	_, err := newTestBuilder(t).Build(context.Background(), janeRequest(cfg))
	require.ErrorIs(t, err, apperr.ErrSigningFailed)
}

func TestBuildSerialsDiffer(t *testing.T) {
	cfg := acmeIssuer(testutil.WriteSigningFiles(t))
	b := newTestBuilder(t)

	req := janeRequest(cfg)
	first, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	req.IssuedAt = req.IssuedAt.Add(time.Nanosecond)
	second, err := b.Build(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.SerialNumber, second.SerialNumber)
}

func TestBuildUsesBundledAndConfiguredAssets(t *testing.T) {
	files := testutil.WriteSigningFiles(t)
	assets := t.TempDir()
	logo, err := imaging.SynthesizeBackground(40, 40, 4, "#112233", "#445566")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(assets, FileLogo), logo, 0o600))

	bgPath := filepath.Join(t.TempDir(), "bg.png")
	bg, err := imaging.SynthesizeBackground(20, 20, 2, "#000000", "#FFFFFF")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(bgPath, bg, 0o600))

	cfg := acmeIssuer(files)
	cfg.Credentials.BackgroundImage = models.Ref{Path: bgPath}
	cfg.Credentials.IconImage = models.Ref{Path: filepath.Join(t.TempDir(), "missing.png")}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := NewBuilder(credentials.NewResolver(nil), imaging.NewConverter(t.TempDir()), assets, log)
	pass, err := b.Build(context.Background(), janeRequest(cfg))
	require.NoError(t, err)

	names, content := unzip(t, pass.Archive)
	assert.Equal(t, []string{FilePass, FileIcon, FileLogo, FileBackground, FileManifest, FileSignature}, names)
	assert.Equal(t, fallbackIcon, content[FileIcon])
	assert.Equal(t, logo, content[FileLogo])
	assert.Equal(t, bg, content[FileBackground])
}

func TestBuildUsesBundledBackground(t *testing.T) {
	files := testutil.WriteSigningFiles(t)
	assets := t.TempDir()
	bg, err := imaging.SynthesizeBackground(30, 30, 3, "#AA0000", "#00AA00")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(assets, FileBackground), bg, 0o600))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := NewBuilder(credentials.NewResolver(nil), imaging.NewConverter(t.TempDir()), assets, log)
	pass, err := b.Build(context.Background(), janeRequest(acmeIssuer(files)))
	require.NoError(t, err)

	_, content := unzip(t, pass.Archive)
	assert.Equal(t, bg, content[FileBackground])
}

func TestBuildWithWWDRInsideP12AndConfigured(t *testing.T) {
	files := testutil.WriteSigningFiles(t)
	p12Path := filepath.Join(t.TempDir(), "full.p12")
	require.NoError(t, os.WriteFile(p12Path, files.Chain.P12(t, files.Chain.Root, files.Chain.WWDR), 0o600))
	cfg := acmeIssuer(files)
	cfg.Credentials.SigningCert = models.Ref{Path: p12Path}

	pass, err := newTestBuilder(t).Build(context.Background(), janeRequest(cfg))
	require.NoError(t, err)

	_, content := unzip(t, pass.Archive)
	p7, err := pkcs7.Parse(content[FileSignature])
	require.NoError(t, err)
	p7.Content = content[FileManifest]
	require.NoError(t, p7.Verify())
	assert.Equal(t, files.Cert.Raw, p7.GetOnlySigner().Raw)
	assert.Len(t, p7.Certificates, 3, "signer, WWDR and root, without duplicates")
}

func TestManifestBytesSorted(t *testing.T) {
	m := NewManifest([]File{{Name: "b", Data: []byte("2")}, {Name: "a", Data: []byte("1")}})
	out, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t,
		`{"a":"356a192b7913b04c54574d18c28d46e6395428ab","b":"da4b9237bacccdf19c0760cab7aec4a8359010b0"}`,
		string(out))
}
