package storage

import (
	"context"
	"time"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/google/uuid"
)

// MockOrderStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockOrderStorage struct {
	CreateFunc            func(ctx context.Context, order *models.Order) error
	GetByOrderIDFunc      func(ctx context.Context, orderID string) (*models.Order, error)
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListFunc              func(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.Order, int, error)
	UpdateStatusFunc      func(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error
	MarkReadyNotifiedFunc func(ctx context.Context, id uuid.UUID) (bool, error)
	MarkPaidFunc          func(ctx context.Context, gatewayOrderID, paymentID string) (bool, error)
	GetPaidOrdersFunc     func(ctx context.Context) ([]*models.Order, error)
	DashboardStatsFunc    func(ctx context.Context, since time.Time) (*models.DashboardStats, error)
}

func (m *MockOrderStorage) Create(ctx context.Context, order *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderStorage) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.Order, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit, offset)
	}
	return []*models.Order{}, 0, nil
}

func (m *MockOrderStorage) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, from, to)
	}
	return nil
}

func (m *MockOrderStorage) MarkReadyNotified(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkReadyNotifiedFunc != nil {
		return m.MarkReadyNotifiedFunc(ctx, id)
	}
	return true, nil
}

func (m *MockOrderStorage) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, gatewayOrderID, paymentID)
	}
	return true, nil
}

func (m *MockOrderStorage) GetPaidOrders(ctx context.Context) ([]*models.Order, error) {
	if m.GetPaidOrdersFunc != nil {
		return m.GetPaidOrdersFunc(ctx)
	}
	return []*models.Order{}, nil
}

func (m *MockOrderStorage) DashboardStats(ctx context.Context, since time.Time) (*models.DashboardStats, error) {
	if m.DashboardStatsFunc != nil {
		return m.DashboardStatsFunc(ctx, since)
	}
	return &models.DashboardStats{}, nil
}
