package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/payment"
	"github.com/agamariel/clickqueue/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// webhookSignatureHeader - заголовок с подписью webhook-события шлюза.
const webhookSignatureHeader = "X-Razorpay-Signature"

// PaymentHandler обрабатывает запросы платёжного протокола.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler создаёт новый экземпляр PaymentHandler.
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// createIntentRequest - запрос на создание платёжного намерения (сумма в рупиях).
type createIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// CreateIntent обрабатывает POST /api/payment/create-order.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	intent, err := h.paymentService.CreateIntent(
		c.Request().Context(),
		decimal.NewFromFloat(req.Amount),
		req.Currency,
		req.Receipt,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, payment.ErrGatewayNotConfigured):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "payment gateway is not configured")
		default:
			c.Logger().Errorf("failed to create payment intent: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "payment order creation failed")
		}
	}

	return c.JSON(http.StatusOK, intent)
}

// Verify обрабатывает POST /api/payment/verify.
// Успех означает только валидность подписи: заказ создаётся следующим
// запросом и несёт это же утверждение об оплате.
func (h *PaymentHandler) Verify(c echo.Context) error {
	var assertion models.PaymentAssertion
	if err := c.Bind(&assertion); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := h.paymentService.VerifyAssertion(assertion); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "payment verification failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"paymentId": assertion.PaymentID,
		"message":   "Payment verified!",
	})
}

// Webhook обрабатывает POST /api/payment/webhook.
// Подпись проверяется по сырым байтам тела; повторная доставка
// события безопасна и подтверждается так же, как первая.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to read body")
	}

	err = h.paymentService.ReconcileWebhook(c.Request().Context(), body, c.Request().Header.Get(webhookSignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVerificationFailed):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook signature")
		case errors.Is(err, services.ErrInvalidWebhook):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook payload")
		default:
			c.Logger().Errorf("failed to reconcile webhook: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
