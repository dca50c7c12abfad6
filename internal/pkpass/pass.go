// Package pkpass собирает подписанный архив пропуска Apple Wallet (.pkpass).
package pkpass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

const (
	BarcodeFormatQR = "PKBarcodeFormatQR"
	BarcodeEncoding = "iso-8859-1"
)

// Field — поле карточки {key, label, value}
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldGroups — группы полей стиля generic
type FieldGroups struct {
	PrimaryFields   []Field `json:"primaryFields"`
	SecondaryFields []Field `json:"secondaryFields,omitempty"`
	AuxiliaryFields []Field `json:"auxiliaryFields,omitempty"`
}

// Barcode — описание QR-кода
type Barcode struct {
	Format          string `json:"format"`
	Message         string `json:"message"`
	MessageEncoding string `json:"messageEncoding"`
	AltText         string `json:"altText,omitempty"`
}

// PassDocument — содержимое pass.json
type PassDocument struct {
	FormatVersion      int         `json:"formatVersion"`
	PassTypeIdentifier string      `json:"passTypeIdentifier"`
	TeamIdentifier     string      `json:"teamIdentifier"`
	OrganizationName   string      `json:"organizationName"`
	Description        string      `json:"description"`
	SerialNumber       string      `json:"serialNumber"`
	BackgroundColor    string      `json:"backgroundColor"`
	ForegroundColor    string      `json:"foregroundColor"`
	LabelColor         string      `json:"labelColor"`
	Generic            FieldGroups `json:"generic"`
	// Barcode — устаревшее одиночное поле для старых версий iOS
	Barcode  *Barcode  `json:"barcode,omitempty"`
	Barcodes []Barcode `json:"barcodes"`
}

// ComposeInput — всё, что нужно для pass.json
type ComposeInput struct {
	Issuer         models.IssuerConfiguration
	Member         models.MemberIdentity
	MemberName     string
	MemberID       string
	BarcodeMessage string
	Placeholder    string
	IssuedAt       time.Time
}

// SerialNumber уникален для пары (участник, момент выпуска)
func SerialNumber(userID int64, issuedAt time.Time) string {
	return fmt.Sprintf("user-%d-%d", userID, issuedAt.UnixNano())
}

// Compose строит PassDocument; пустые значения заменяются placeholder
func Compose(in ComposeInput) PassDocument {
	ph := in.Placeholder
	orPH := func(v string) string {
		if v == "" {
			return ph
		}
		return v
	}
	attrs := in.Member.Attributes

	barcode := Barcode{
		Format:          BarcodeFormatQR,
		Message:         in.BarcodeMessage,
		MessageEncoding: BarcodeEncoding,
		AltText:         orPH(in.MemberID),
	}

	return PassDocument{
		FormatVersion:      1,
		PassTypeIdentifier: in.Issuer.PassTypeIdentifier,
		TeamIdentifier:     in.Issuer.TeamIdentifier,
		OrganizationName:   in.Issuer.OrganizationName,
		Description:        in.Issuer.Description,
		SerialNumber:       SerialNumber(in.Member.ID, in.IssuedAt),
		BackgroundColor:    in.Issuer.BackgroundColor,
		ForegroundColor:    in.Issuer.ForegroundColor,
		LabelColor:         in.Issuer.LabelColor,
		Generic: FieldGroups{
			PrimaryFields: []Field{
				{Key: "name", Label: "Name", Value: orPH(in.MemberName)},
			},
			SecondaryFields: []Field{
				{Key: "memberId", Label: "Member ID", Value: orPH(in.MemberID)},
				{Key: "memberNumber", Label: "Member No.", Value: attrs.Get(models.AttrMemberNumber, ph)},
			},
			AuxiliaryFields: []Field{
				{Key: "givenName", Label: "Given Name", Value: attrs.Get(models.AttrGivenName, ph)},
				{Key: "surname", Label: "Surname", Value: attrs.Get(models.AttrSurname, ph)},
				{Key: "expires", Label: "Expires", Value: attrs.Get(models.AttrExpiryDate, ph)},
			},
		},
		Barcode:  &barcode,
		Barcodes: []Barcode{barcode},
	}
}

// Serialize кодирует pass.json без HTML-экранирования (URL в QR остаются читаемыми)
func Serialize(doc PassDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
