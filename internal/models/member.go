package models

import "strings"

// Известные ключи атрибутов профиля
const (
	AttrGivenName    = "first_name"
	AttrSurname      = "last_name"
	AttrMemberNumber = "member_number"
	AttrExpiryDate   = "expiry_date"
)

// Attributes — произвольные поля профиля участника
type Attributes map[string]string

// Get возвращает значение атрибута или placeholder, если значение пустое
func (a Attributes) Get(key, placeholder string) string {
	if v := strings.TrimSpace(a[key]); v != "" {
		return v
	}
	return placeholder
}

// MemberIdentity — снимок профиля участника на момент запроса
type MemberIdentity struct {
	ID          int64
	DisplayName string
	LoginHandle string
	Attributes  Attributes
}
