package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

var ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

// Intent - платёжное намерение, созданное на стороне шлюза.
// Amount в минорных единицах (пайсы).
type Intent struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// GatewayClient - интерфейс платёжного шлюза.
type GatewayClient interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*Intent, error)
}

// RazorpayClient реализует GatewayClient поверх Razorpay SDK.
type RazorpayClient struct {
	client *razorpay.Client
	keyID  string
}

// NewRazorpayClient создаёт клиент шлюза. Возвращает nil, если ключи не заданы:
// сервис тогда работает без онлайн-оплаты (заказы остаются pending).
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	if keyID == "" || keySecret == "" {
		return nil
	}
	return &RazorpayClient{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}
}

// CreateIntent регистрирует заказ на стороне шлюза.
// Сумма передаётся в минорных единицах (рупии -> пайсы).
func (c *RazorpayClient) CreateIntent(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*Intent, error) {
	if c == nil || c.client == nil {
		return nil, ErrGatewayNotConfigured
	}
	if currency == "" {
		currency = "INR"
	}

	paise := amount.Mul(decimal.NewFromInt(100)).IntPart()

	data := map[string]interface{}{
		"amount":          paise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"source": "clickqueue",
		},
	}

	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	intent := &Intent{
		Amount:   paise,
		Currency: currency,
		KeyID:    c.keyID,
	}
	if id, ok := body["id"].(string); ok {
		intent.ID = id
	}
	if amt, ok := body["amount"].(float64); ok {
		intent.Amount = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok {
		intent.Currency = cur
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("gateway returned order without id")
	}

	return intent, nil
}
