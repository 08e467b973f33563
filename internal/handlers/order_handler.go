package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/services"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/labstack/echo/v4"
)

// OrderHandler обрабатывает публичные запросы по заказам.
type OrderHandler struct {
	orderService   services.OrderService
	pricingService services.PricingService
}

// NewOrderHandler создаёт новый экземпляр OrderHandler.
func NewOrderHandler(orderService services.OrderService, pricingService services.PricingService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		pricingService: pricingService,
	}
}

// CreateOrder обрабатывает POST /api/orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.Create(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCustomer),
			errors.Is(err, services.ErrNoPhotos):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidQuantity),
			errors.Is(err, services.ErrUnknownService):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrVerificationFailed):
			return echo.NewHTTPError(http.StatusBadRequest, "payment verification failed")
		default:
			c.Logger().Errorf("failed to create order: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	amount, _ := order.TotalAmount.Float64()
	return c.JSON(http.StatusCreated, models.CreateOrderResponse{
		OrderID:     order.OrderID,
		QueueNumber: order.QueueNumber,
		TotalAmount: amount,
		Message:     "Order placed successfully!",
	})
}

// TrackOrder обрабатывает GET /api/orders/track/:orderId.
func (h *OrderHandler) TrackOrder(c echo.Context) error {
	order, err := h.orderService.Track(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		c.Logger().Errorf("failed to track order: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	amount, _ := order.TotalAmount.Float64()
	resp := models.TrackResponse{
		OrderID:       order.OrderID,
		QueueNumber:   order.QueueNumber,
		CustomerName:  order.Customer.Name,
		ServiceType:   string(order.ServiceType),
		Quantity:      order.Quantity,
		TotalAmount:   amount,
		PaymentStatus: string(order.PaymentStatus),
		OrderStatus:   string(order.OrderStatus),
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
	if order.NotifiedReadyAt != nil {
		resp.NotifiedReadyAt = order.NotifiedReadyAt.Format(time.RFC3339)
	}

	return c.JSON(http.StatusOK, resp)
}

// GetServices обрабатывает GET /api/orders/services.
func (h *OrderHandler) GetServices(c echo.Context) error {
	catalog, err := h.pricingService.Catalog(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to load service catalog: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, catalog)
}
