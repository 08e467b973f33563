package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/payment"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/shopspring/decimal"
)

type mockGateway struct {
	CreateIntentFunc func(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*payment.Intent, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*payment.Intent, error) {
	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, amount, currency, receipt)
	}
	return &payment.Intent{ID: "order_N8xF2kD1"}, nil
}

func TestPaymentService_CreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to gateway", func(t *testing.T) {
		svc := NewPaymentService(&mockGateway{
			CreateIntentFunc: func(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*payment.Intent, error) {
				if !amount.Equal(decimal.NewFromInt(150)) {
					t.Errorf("amount = %s, want 150", amount)
				}
				return &payment.Intent{ID: "order_N8xF2kD1", Amount: 15000, Currency: "INR"}, nil
			},
		}, &storage.MockOrderStorage{}, "key-secret", "webhook-secret", nil)

		intent, err := svc.CreateIntent(ctx, decimal.NewFromInt(150), "INR", "rcpt_1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if intent.ID != "order_N8xF2kD1" {
			t.Errorf("intent id = %s", intent.ID)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		svc := NewPaymentService(nil, &storage.MockOrderStorage{}, "key-secret", "webhook-secret", nil)
		if _, err := svc.CreateIntent(ctx, decimal.NewFromInt(10), "INR", ""); !errors.Is(err, payment.ErrGatewayNotConfigured) {
			t.Fatalf("expected ErrGatewayNotConfigured, got %v", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		svc := NewPaymentService(&mockGateway{}, &storage.MockOrderStorage{}, "key-secret", "webhook-secret", nil)
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			if _, err := svc.CreateIntent(ctx, amount, "INR", ""); !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
			}
		}
	})
}

func TestPaymentService_VerifyAssertion(t *testing.T) {
	keySecret := "key-secret"
	svc := NewPaymentService(nil, &storage.MockOrderStorage{}, keySecret, "webhook-secret", nil)

	valid := models.PaymentAssertion{
		GatewayOrderID: "order_N8xF2kD1",
		PaymentID:      "pay_M3jQ7wB4",
		Signature:      payment.Sign([]byte("order_N8xF2kD1|pay_M3jQ7wB4"), keySecret),
	}

	t.Run("valid", func(t *testing.T) {
		if err := svc.VerifyAssertion(valid); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("tampered signature", func(t *testing.T) {
		bad := valid
		bad.Signature = payment.Sign([]byte("order_N8xF2kD1|pay_other"), keySecret)
		if err := svc.VerifyAssertion(bad); !errors.Is(err, ErrVerificationFailed) {
			t.Fatalf("expected ErrVerificationFailed, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		bad := valid
		bad.PaymentID = ""
		if err := svc.VerifyAssertion(bad); !errors.Is(err, ErrVerificationFailed) {
			t.Fatalf("expected ErrVerificationFailed, got %v", err)
		}
	})
}

func TestPaymentService_ReconcileWebhook(t *testing.T) {
	ctx := context.Background()
	webhookSecret := "webhook-secret"

	capturedBody := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_M3jQ7wB4","order_id":"order_N8xF2kD1"}}}}`)
	capturedSig := payment.Sign(capturedBody, webhookSecret)

	t.Run("captured event marks order paid", func(t *testing.T) {
		var gotGatewayOrder, gotPayment string
		svc := NewPaymentService(nil, &storage.MockOrderStorage{
			MarkPaidFunc: func(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
				gotGatewayOrder, gotPayment = gatewayOrderID, paymentID
				return true, nil
			},
		}, "key-secret", webhookSecret, nil)

		if err := svc.ReconcileWebhook(ctx, capturedBody, capturedSig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotGatewayOrder != "order_N8xF2kD1" || gotPayment != "pay_M3jQ7wB4" {
			t.Errorf("marked %s/%s, want order_N8xF2kD1/pay_M3jQ7wB4", gotGatewayOrder, gotPayment)
		}
	})

	t.Run("replayed event is acknowledged without effects", func(t *testing.T) {
		calls := 0
		svc := NewPaymentService(nil, &storage.MockOrderStorage{
			MarkPaidFunc: func(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
				calls++
				// Заказ уже paid: условное обновление ничего не меняет.
				return calls == 1, nil
			},
		}, "key-secret", webhookSecret, nil)

		for i := 0; i < 3; i++ {
			if err := svc.ReconcileWebhook(ctx, capturedBody, capturedSig); err != nil {
				t.Fatalf("delivery %d: unexpected error: %v", i+1, err)
			}
		}
		if calls != 3 {
			t.Errorf("MarkPaid calls = %d, want 3", calls)
		}
	})

	t.Run("bad signature leaves state untouched", func(t *testing.T) {
		touched := false
		svc := NewPaymentService(nil, &storage.MockOrderStorage{
			MarkPaidFunc: func(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
				touched = true
				return true, nil
			},
		}, "key-secret", webhookSecret, nil)

		err := svc.ReconcileWebhook(ctx, capturedBody, payment.Sign(capturedBody, "wrong-secret"))
		if !errors.Is(err, ErrVerificationFailed) {
			t.Fatalf("expected ErrVerificationFailed, got %v", err)
		}
		if touched {
			t.Fatal("unverified webhook must not touch storage")
		}
	})

	t.Run("uninteresting event is a no-op", func(t *testing.T) {
		touched := false
		svc := NewPaymentService(nil, &storage.MockOrderStorage{
			MarkPaidFunc: func(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
				touched = true
				return true, nil
			},
		}, "key-secret", webhookSecret, nil)

		body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`)
		if err := svc.ReconcileWebhook(ctx, body, payment.Sign(body, webhookSecret)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if touched {
			t.Fatal("non-captured event must not touch storage")
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		body := []byte(`{"event":`)
		err := NewPaymentService(nil, &storage.MockOrderStorage{}, "key-secret", webhookSecret, nil).
			ReconcileWebhook(ctx, body, payment.Sign(body, webhookSecret))
		if !errors.Is(err, ErrInvalidWebhook) {
			t.Fatalf("expected ErrInvalidWebhook, got %v", err)
		}
	})

	t.Run("captured event without ids", func(t *testing.T) {
		body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{}}}}`)
		err := NewPaymentService(nil, &storage.MockOrderStorage{}, "key-secret", webhookSecret, nil).
			ReconcileWebhook(ctx, body, payment.Sign(body, webhookSecret))
		if !errors.Is(err, ErrInvalidWebhook) {
			t.Fatalf("expected ErrInvalidWebhook, got %v", err)
		}
	})

	t.Run("storage error propagates", func(t *testing.T) {
		svc := NewPaymentService(nil, &storage.MockOrderStorage{
			MarkPaidFunc: func(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
				return false, fmt.Errorf("db error")
			},
		}, "key-secret", webhookSecret, nil)

		if err := svc.ReconcileWebhook(ctx, capturedBody, capturedSig); err == nil {
			t.Fatal("expected error")
		}
	})
}
