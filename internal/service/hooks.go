package service

import "github.com/vbncursed/vkr/wallet-service/internal/models"

// Hooks — точки расширения, через которые интеграция меняет отображаемые данные.
// Каждый метод получает значение по умолчанию и возвращает итоговое.
type Hooks interface {
	MemberName(def string, m models.MemberIdentity) string
	MemberID(def string, m models.MemberIdentity) string
	BarcodeMessage(def string, userID int64, memberID string) string
	Placeholder(def string) string
}

// DefaultHooks возвращает значения по умолчанию без изменений
type DefaultHooks struct{}

func (DefaultHooks) MemberName(def string, _ models.MemberIdentity) string { return def }
func (DefaultHooks) MemberID(def string, _ models.MemberIdentity) string   { return def }
func (DefaultHooks) BarcodeMessage(def string, _ int64, _ string) string   { return def }
func (DefaultHooks) Placeholder(def string) string                         { return def }

// HookFuncs — Hooks из отдельных функций; незаданная функция ведёт себя как DefaultHooks
type HookFuncs struct {
	Name    func(def string, m models.MemberIdentity) string
	ID      func(def string, m models.MemberIdentity) string
	Barcode func(def string, userID int64, memberID string) string
	Text    func(def string) string
}

func (h HookFuncs) MemberName(def string, m models.MemberIdentity) string {
	if h.Name == nil {
		return def
	}
	return h.Name(def, m)
}

func (h HookFuncs) MemberID(def string, m models.MemberIdentity) string {
	if h.ID == nil {
		return def
	}
	return h.ID(def, m)
}

func (h HookFuncs) BarcodeMessage(def string, userID int64, memberID string) string {
	if h.Barcode == nil {
		return def
	}
	return h.Barcode(def, userID, memberID)
}

func (h HookFuncs) Placeholder(def string) string {
	if h.Text == nil {
		return def
	}
	return h.Text(def)
}
