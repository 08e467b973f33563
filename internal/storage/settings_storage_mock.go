package storage

import (
	"context"
	"encoding/json"
)

// MockSettingsStorage - мок для тестирования.
type MockSettingsStorage struct {
	GetFunc    func(ctx context.Context, key string) (json.RawMessage, error)
	UpsertFunc func(ctx context.Context, key string, value any) error
}

func (m *MockSettingsStorage) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, ErrSettingsNotFound
}

func (m *MockSettingsStorage) Upsert(ctx context.Context, key string, value any) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, key, value)
	}
	return nil
}
