package storage

import (
	"context"

	"github.com/agamariel/clickqueue/internal/models"
)

// MockOwnerStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockOwnerStorage struct {
	CreateFunc     func(ctx context.Context, owner *models.Owner) error
	GetByLoginFunc func(ctx context.Context, login string) (*models.Owner, error)
	CountFunc      func(ctx context.Context) (int, error)
}

func (m *MockOwnerStorage) Create(ctx context.Context, owner *models.Owner) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, owner)
	}
	return nil
}

func (m *MockOwnerStorage) GetByLogin(ctx context.Context, login string) (*models.Owner, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, ErrOwnerNotFound
}

func (m *MockOwnerStorage) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}
