package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSettingsDefaultsAndSanitizing(t *testing.T) {
	cfg := ParseSettings(map[string]string{
		KeyOrgName:        "  <b>Acme</b>\n",
		KeyTeamID:         "T1",
		KeyP12Attachment:  "17",
		KeyP12Path:        "/etc/wallet/cert.p12",
		KeyP12Password:    " s3cret ",
		KeyLogoAttachment: "not-a-number",
	})

	assert.Equal(t, "Acme", cfg.OrganizationName)
	assert.Equal(t, "T1", cfg.TeamIdentifier)
	assert.Equal(t, DefaultPlaceholder, cfg.PlaceholderText)
	assert.Equal(t, DefaultDescription, cfg.Description)
	assert.Equal(t, DefaultAccentColor, cfg.AccentColor)
	assert.Equal(t, Ref{AttachmentID: 17, Path: "/etc/wallet/cert.p12"}, cfg.Credentials.SigningCert)
	assert.Equal(t, " s3cret ", cfg.Credentials.SigningCertPassword)
	assert.True(t, cfg.Credentials.LogoImage.IsZero())
}

func TestAttributesGetUsesPlaceholder(t *testing.T) {
	attrs := Attributes{AttrSurname: "Doe", AttrGivenName: "   "}

	assert.Equal(t, "Doe", attrs.Get(AttrSurname, "—"))
	assert.Equal(t, "—", attrs.Get(AttrGivenName, "—"))
	assert.Equal(t, "—", attrs.Get(AttrExpiryDate, "—"))
	assert.Equal(t, "n/a", Attributes(nil).Get(AttrMemberNumber, "n/a"))
}
