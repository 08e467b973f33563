package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/notifications"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNoPhotos          = errors.New("at least one photo is required")
	ErrMissingCustomer   = errors.New("customer name and phone are required")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// orderIDAttempts - число попыток создать заказ при коллизии короткого токена.
const orderIDAttempts = 3

// statusAttempts - число попыток перевода статуса при конкурирующем обновлении.
const statusAttempts = 3

// OrderService определяет операции жизненного цикла заказа.
type OrderService interface {
	Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	Track(ctx context.Context, orderID string) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, status string, page, limit int) (*models.OrderListResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	orders   storage.OrderStorage
	pricing  PricingService
	payments PaymentService
	notifier Notifier
	prefix   string
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(orders storage.OrderStorage, pricing PricingService, payments PaymentService, notifier Notifier, prefix string) *OrderServiceImpl {
	if prefix == "" {
		prefix = "CQ"
	}
	return &OrderServiceImpl{
		orders:   orders,
		pricing:  pricing,
		payments: payments,
		notifier: notifier,
		prefix:   prefix,
	}
}

// Create создаёт заказ: проверяет входные данные, фиксирует стоимость по
// текущему прайсу, атомарно получает номер очереди и сохраняет заказ.
// Статус оплаты сразу paid только при валидном клиентском утверждении об
// оплате; невалидная подпись отклоняет запрос целиком.
// Уведомления ставятся в очередь после сохранения и не задерживают ответ.
func (s *OrderServiceImpl) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, ErrMissingCustomer
	}
	if len(req.Photos) == 0 {
		return nil, ErrNoPhotos
	}

	serviceType := models.ServiceType(req.ServiceType)
	amount, err := s.pricing.Resolve(ctx, serviceType, req.Quantity)
	if err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentStatusPending
	if req.PaymentAssertion.Provided() {
		if err := s.payments.VerifyAssertion(req.PaymentAssertion); err != nil {
			return nil, err
		}
		paymentStatus = models.PaymentStatusPaid
	}

	order := &models.Order{
		Customer: models.Customer{
			Name:  name,
			Phone: phone,
			Email: strings.TrimSpace(req.Email),
		},
		Photos:         req.Photos,
		ServiceType:    serviceType,
		Quantity:       req.Quantity,
		TotalAmount:    amount,
		PaymentStatus:  paymentStatus,
		PaymentID:      req.PaymentID,
		GatewayOrderID: req.GatewayOrderID,
		OrderStatus:    models.OrderStatusPending,
		Notes:          strings.TrimSpace(req.Notes),
	}

	// Короткий токен может столкнуться с существующим - пробуем ещё раз с новым.
	for attempt := 0; attempt < orderIDAttempts; attempt++ {
		order.OrderID = s.newOrderID()
		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrOrderAlreadyExists) {
			return nil, fmt.Errorf("create order: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.notifier.Dispatch(notifications.KindOrderConfirmed, order)

	return order, nil
}

// Track возвращает заказ по публичному идентификатору.
func (s *OrderServiceImpl) Track(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByOrderID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID возвращает заказ по внутреннему идентификатору.
func (s *OrderServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List возвращает страницу заказов для панели владельца.
// status "all" или пустой - без фильтра.
func (s *OrderServiceImpl) List(ctx context.Context, status string, page, limit int) (*models.OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := models.OrderStatus("")
	if status != "" && status != "all" {
		filter = models.OrderStatus(status)
		if !models.ValidOrderStatus(filter) {
			return nil, ErrInvalidStatus
		}
	}

	orders, total, err := s.orders.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	pages := (total + limit - 1) / limit

	return &models.OrderListResponse{
		Orders:      orders,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
	}, nil
}

// SetStatus переводит заказ в новый статус по графу переходов.
// Запись условная - "из того статуса, что мы прочитали": если конкурирующий
// вызов успел сменить статус первым, перевод перечитывается и проверяется
// по графу заново, так что два параллельных запроса не складываются в
// обход графа. Переход в ready взводит отметку notifiedReadyAt одним
// атомарным шагом "не стояло - поставить": уведомление о готовности уходит
// только тому вызову, который реально перевёл отметку, поэтому повтор
// запроса или гонка конкурентных обновлений не дают повторной рассылки.
func (s *OrderServiceImpl) SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	var order *models.Order
	for attempt := 0; ; attempt++ {
		var err error
		order, err = s.orders.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if order.OrderStatus == status {
			break
		}
		if !models.CanTransition(order.OrderStatus, status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.OrderStatus, status)
		}

		err = s.orders.UpdateStatus(ctx, id, order.OrderStatus, status)
		if err == nil {
			order.OrderStatus = status
			break
		}
		if errors.Is(err, storage.ErrStatusConflict) && attempt < statusAttempts-1 {
			continue
		}
		if errors.Is(err, storage.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.OrderStatus, status)
		}
		return nil, err
	}

	if status == models.OrderStatusReady {
		flipped, err := s.orders.MarkReadyNotified(ctx, id)
		if err != nil {
			return nil, err
		}
		if flipped {
			now := time.Now()
			order.NotifiedReadyAt = &now
			s.notifier.Dispatch(notifications.KindOrderReady, order)
		}
	}

	return order, nil
}

// newOrderID генерирует публичный идентификатор заказа вида CQ-3F2A8B1C.
func (s *OrderServiceImpl) newOrderID() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return s.prefix + "-" + token
}
