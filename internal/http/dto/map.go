package dto

import (
	"time"

	"github.com/vbncursed/vkr/wallet-service/internal/service"
)

// FromVerificationView формирует JSON-ответ проверки
func FromVerificationView(v *service.VerificationView) VerificationResponse {
	return VerificationResponse{
		Status:    string(v.Status),
		UserID:    v.UserID,
		Name:      v.Name,
		MemberID:  v.MemberID,
		IssuedAt:  timePtr(v.IssuedAt),
		ExpiresAt: timePtr(v.ExpiresAt),
	}
}

// FromLinks формирует ответ со ссылками выпуска
func FromLinks(l *service.WalletLinks) LinksResponse {
	return LinksResponse{UserID: l.UserID, Apple: l.Apple, Google: l.Google}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
