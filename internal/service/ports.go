package service

import (
	"context"
	"time"

	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// Clock — абстракция времени для тестируемости
type Clock interface {
	Now() time.Time
}

// SettingsStore — плоская запись настроек эмитента (ключ -> значение)
type SettingsStore interface {
	Settings(ctx context.Context) (map[string]string, error)
}

// Directory — профили участников; неизвестный id даёт apperr.ErrIdentityNotFound
type Directory interface {
	User(ctx context.Context, id int64) (models.MemberIdentity, error)
}
