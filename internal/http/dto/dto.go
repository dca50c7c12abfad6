package dto

import "time"

// Действия единой точки входа GET /wallet
const (
	ActionIssueApple  = "issue-apple"
	ActionIssueGoogle = "issue-google"
	ActionVerify      = "verify"
)

// WalletActionQuery — параметры GET /wallet
type WalletActionQuery struct {
	Action string `query:"action"`
	User   string `query:"user"`
	Nonce  string `query:"nonce"`
	Token  string `query:"token"`
}

type LinksResponse struct {
	UserID int64  `json:"user_id"`
	Apple  string `json:"apple"`
	Google string `json:"google"`
}

type VerificationResponse struct {
	Status    string     `json:"status"`
	UserID    int64      `json:"user_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	MemberID  string     `json:"member_id,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
