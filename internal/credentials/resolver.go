// Package credentials разрешает ссылки из настроек (вложение или путь) в файлы.
package credentials

import (
	"context"
	"fmt"
	"os"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// AttachmentStore — хранилище загруженных файлов: id вложения -> путь на диске
type AttachmentStore interface {
	AttachmentPath(ctx context.Context, id int64) (string, error)
}

// Resolver не кэширует результаты: ключи могут ротироваться между запросами
type Resolver struct {
	attachments AttachmentStore
}

func NewResolver(attachments AttachmentStore) *Resolver {
	return &Resolver{attachments: attachments}
}

// Resolve возвращает путь к существующему файлу: сначала по id вложения, затем по пути.
// field — имя поля настроек для сообщения об ошибке.
func (r *Resolver) Resolve(ctx context.Context, ref models.Ref, field string) (string, error) {
	if ref.AttachmentID > 0 && r.attachments != nil {
		if p, err := r.attachments.AttachmentPath(ctx, ref.AttachmentID); err == nil && isFile(p) {
			return p, nil
		}
	}
	if ref.Path != "" && isFile(ref.Path) {
		return ref.Path, nil
	}
	return "", apperr.Missing(field)
}

// ReadFile разрешает ссылку и читает файл целиком
func (r *Resolver) ReadFile(ctx context.Context, ref models.Ref, field string) ([]byte, error) {
	p, err := r.Resolve(ctx, ref, field)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.CredentialMissing, Field: field, Err: fmt.Errorf("read %s: %w", p, err)}
	}
	return b, nil
}

func isFile(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
