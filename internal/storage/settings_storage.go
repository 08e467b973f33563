package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsStorage определяет интерфейс для документов настроек (прайс, данные ателье).
type SettingsStorage interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Upsert(ctx context.Context, key string, value any) error
}

// PostgresSettingsStorage реализует SettingsStorage для PostgreSQL.
type PostgresSettingsStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresSettingsStorage создаёт новый экземпляр PostgresSettingsStorage.
func NewPostgresSettingsStorage(pool *pgxpool.Pool) *PostgresSettingsStorage {
	return &PostgresSettingsStorage{pool: pool}
}

// Get возвращает документ настроек по ключу.
func (s *PostgresSettingsStorage) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings %q: %w", key, err)
	}
	return value, nil
}

// Upsert сохраняет документ настроек, затирая предыдущее значение.
// Настройки не версионируются: изменения действуют только на заказы,
// созданные после записи.
func (s *PostgresSettingsStorage) Upsert(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal settings %q: %w", key, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, raw)
	if err != nil {
		return fmt.Errorf("failed to upsert settings %q: %w", key, err)
	}
	return nil
}
