package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbncursed/vkr/wallet-service/internal/apperr"
	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// Store — адаптер Postgres, реализующий порты service.SettingsStore,
// service.Directory и credentials.AttachmentStore
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Ping — проверка готовности для /readyz
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Settings — снимок всей записи настроек
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+colKey+`, `+colValue+` FROM `+tableSettings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// PutSettings — upsert набора ключей одной транзакцией
func (s *Store) PutSettings(ctx context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for k, v := range kv {
			batch.Queue(`INSERT INTO `+tableSettings+` (`+colKey+`, `+colValue+`) VALUES ($1,$2)
ON CONFLICT (`+colKey+`) DO UPDATE SET `+colValue+`=EXCLUDED.`+colValue+`, `+colUpdatedAt+`=now()`, k, v)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// AttachmentPath — путь загруженного файла по id
func (s *Store) AttachmentPath(ctx context.Context, id int64) (string, error) {
	var p string
	err := s.pool.QueryRow(ctx, `SELECT `+colPath+` FROM `+tableAttachments+` WHERE `+colID+`=$1`, id).Scan(&p)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("attachment %d: %w", id, err)
	}
	return p, err
}

// PutAttachment — создаёт или перезаписывает вложение с заданным id
func (s *Store) PutAttachment(ctx context.Context, id int64, path string) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO `+tableAttachments+` (`+colID+`, `+colPath+`) VALUES ($1,$2)
ON CONFLICT (`+colID+`) DO UPDATE SET `+colPath+`=EXCLUDED.`+colPath, id, path)
	return err
}

// User — профиль участника; отсутствие строки даёт apperr.ErrIdentityNotFound
func (s *Store) User(ctx context.Context, id int64) (models.MemberIdentity, error) {
	m := models.MemberIdentity{ID: id}
	err := s.pool.QueryRow(ctx, `SELECT `+colDisplayName+`, `+colLogin+`, `+colAttributes+` FROM `+tableMembers+` WHERE `+colID+`=$1`, id).
		Scan(&m.DisplayName, &m.LoginHandle, &m.Attributes)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.MemberIdentity{}, apperr.New(apperr.IdentityNotFound, fmt.Errorf("member %d", id))
	}
	if err != nil {
		return models.MemberIdentity{}, err
	}
	return m, nil
}

// PutMember — upsert профиля вместе с атрибутами (jsonb)
func (s *Store) PutMember(ctx context.Context, m models.MemberIdentity) error {
	attrs := m.Attributes
	if attrs == nil {
		attrs = models.Attributes{}
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO `+tableMembers+` (`+colID+`, `+colDisplayName+`, `+colLogin+`, `+colAttributes+`)
VALUES ($1,$2,$3,$4)
ON CONFLICT (`+colID+`) DO UPDATE SET `+colDisplayName+`=EXCLUDED.`+colDisplayName+`, `+colLogin+`=EXCLUDED.`+colLogin+`, `+colAttributes+`=EXCLUDED.`+colAttributes,
		m.ID, m.DisplayName, m.LoginHandle, map[string]string(attrs))
	return err
}

// ApplySeed переносит seed-файл в базу
func (s *Store) ApplySeed(ctx context.Context, seed *Seed) error {
	if err := s.PutSettings(ctx, seed.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	for id, p := range seed.Attachments {
		if err := s.PutAttachment(ctx, id, p); err != nil {
			return fmt.Errorf("attachment %d: %w", id, err)
		}
	}
	for _, m := range seed.Identities() {
		if err := s.PutMember(ctx, m); err != nil {
			return fmt.Errorf("member %d: %w", m.ID, err)
		}
	}
	return nil
}
