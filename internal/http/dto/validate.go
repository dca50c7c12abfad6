package dto

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrUserRequired  = errors.New("user required")
	ErrUserInvalid   = errors.New("user must be a positive integer")
	ErrUnknownAction = errors.New("unknown action")
	ErrTokenRequired = errors.New("token required")
)

// ParseUserID разбирает идентификатор участника из пути или query
func ParseUserID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrUserRequired
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUserInvalid
	}
	return id, nil
}

// Validate проверяет, что для действия переданы нужные параметры
func (q WalletActionQuery) Validate() error {
	switch q.Action {
	case ActionIssueApple, ActionIssueGoogle:
		_, err := ParseUserID(q.User)
		return err
	case ActionVerify:
		if strings.TrimSpace(q.Token) == "" {
			return ErrTokenRequired
		}
		return nil
	}
	return ErrUnknownAction
}
