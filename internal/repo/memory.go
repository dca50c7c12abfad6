package repo

import (
	"context"
	"fmt"
	"maps"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// Memory — неизменяемая после создания реализация портов поверх seed-файла.
// Используется без Postgres: локальный запуск, mint-pass, тесты.
type Memory struct {
	settings    map[string]string
	attachments map[int64]string
	members     map[int64]models.MemberIdentity
}

func NewMemory(seed *Seed) *Memory {
	m := &Memory{
		settings:    map[string]string{},
		attachments: map[int64]string{},
		members:     map[int64]models.MemberIdentity{},
	}
	if seed == nil {
		return m
	}
	maps.Copy(m.settings, seed.Settings)
	maps.Copy(m.attachments, seed.Attachments)
	for _, id := range seed.Identities() {
		m.members[id.ID] = id
	}
	return m
}

// Settings возвращает копию записи
func (m *Memory) Settings(context.Context) (map[string]string, error) {
	return maps.Clone(m.settings), nil
}

func (m *Memory) AttachmentPath(_ context.Context, id int64) (string, error) {
	p, ok := m.attachments[id]
	if !ok {
		return "", fmt.Errorf("attachment %d not found", id)
	}
	return p, nil
}

func (m *Memory) User(_ context.Context, id int64) (models.MemberIdentity, error) {
	u, ok := m.members[id]
	if !ok {
		return models.MemberIdentity{}, apperr.New(apperr.IdentityNotFound, fmt.Errorf("member %d", id))
	}
	u.Attributes = maps.Clone(u.Attributes)
	return u, nil
}

func (m *Memory) Ping(context.Context) error { return nil }
