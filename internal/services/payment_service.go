package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/payment"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	// ErrVerificationFailed - подпись не совпала; состояние не изменяется.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrInvalidWebhook - событие шлюза без обязательных полей.
	ErrInvalidWebhook = errors.New("invalid webhook payload")
	// ErrInvalidAmount - неположительная сумма платёжного намерения.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// PaymentService отвечает за создание платёжных намерений и сверку оплат.
type PaymentService interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*payment.Intent, error)
	VerifyAssertion(assertion models.PaymentAssertion) error
	ReconcileWebhook(ctx context.Context, body []byte, signature string) error
}

// PaymentServiceImpl реализует PaymentService.
type PaymentServiceImpl struct {
	gateway       payment.GatewayClient
	orders        storage.OrderStorage
	keySecret     string
	webhookSecret string
	logger        *log.Logger
}

// NewPaymentService создаёт новый платёжный сервис.
func NewPaymentService(gateway payment.GatewayClient, orders storage.OrderStorage, keySecret, webhookSecret string, logger *log.Logger) *PaymentServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &PaymentServiceImpl{
		gateway:       gateway,
		orders:        orders,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateIntent регистрирует платёжное намерение на стороне шлюза.
func (s *PaymentServiceImpl) CreateIntent(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*payment.Intent, error) {
	if s.gateway == nil {
		return nil, payment.ErrGatewayNotConfigured
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	return s.gateway.CreateIntent(ctx, amount, currency, receipt)
}

// VerifyAssertion проверяет клиентское утверждение об оплате.
// Проверка не трогает хранилище: она защищает последующее создание
// заказа, а не обновляет существующий (заказа на этот момент ещё нет).
func (s *PaymentServiceImpl) VerifyAssertion(assertion models.PaymentAssertion) error {
	if assertion.GatewayOrderID == "" || assertion.PaymentID == "" || assertion.Signature == "" {
		return ErrVerificationFailed
	}
	if !payment.VerifyAssertionSignature(assertion.GatewayOrderID, assertion.PaymentID, assertion.Signature, s.keySecret) {
		return ErrVerificationFailed
	}
	return nil
}

// webhookEvent - событие платёжного шлюза в объёме, нужном для сверки.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ReconcileWebhook сверяет асинхронное событие шлюза с состоянием заказа.
// Подпись проверяется по сырым байтам тела отдельным секретом.
// Применение сформулировано как условный переход в paid, поэтому повтор
// того же события безопасен в любой момент и не даёт двойных эффектов.
func (s *PaymentServiceImpl) ReconcileWebhook(ctx context.Context, body []byte, signature string) error {
	if !payment.VerifySignature(body, signature, s.webhookSecret) {
		return ErrVerificationFailed
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	if event.Event != "payment.captured" {
		// Неинтересные события подтверждаем без побочных эффектов.
		return nil
	}

	entity := event.Payload.Payment.Entity
	if entity.ID == "" || entity.OrderID == "" {
		return ErrInvalidWebhook
	}

	updated, err := s.orders.MarkPaid(ctx, entity.OrderID, entity.ID)
	if err != nil {
		return fmt.Errorf("reconcile payment %s: %w", entity.ID, err)
	}
	if updated {
		s.logger.Printf("payment captured: gateway order %s marked paid (payment %s)", entity.OrderID, entity.ID)
	}
	return nil
}
