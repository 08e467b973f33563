package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agamariel/clickqueue/internal/auth"
	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/services"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OwnerHandler обрабатывает запросы панели владельца.
type OwnerHandler struct {
	orderService  services.OrderService
	reportService services.ReportService
}

// NewOwnerHandler создаёт новый экземпляр OwnerHandler.
func NewOwnerHandler(orderService services.OrderService, reportService services.ReportService) *OwnerHandler {
	return &OwnerHandler{
		orderService:  orderService,
		reportService: reportService,
	}
}

// ListOrders обрабатывает GET /api/owner/orders.
func (h *OwnerHandler) ListOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	resp, err := h.orderService.List(c.Request().Context(), c.QueryParam("status"), page, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		c.Logger().Errorf("failed to list orders: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, resp)
}

// GetOrder обрабатывает GET /api/owner/orders/:id.
func (h *OwnerHandler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.orderService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		c.Logger().Errorf("failed to get order: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, order)
}

// UpdateStatus обрабатывает PUT /api/owner/orders/:id/status.
func (h *OwnerHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.SetStatus(c.Request().Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, services.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			c.Logger().Errorf("failed to update order status: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	c.Logger().Infof("order %s moved to %s by %s", order.OrderID, order.OrderStatus, auth.OwnerLogin(c))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// Dashboard обрабатывает GET /api/owner/dashboard.
func (h *OwnerHandler) Dashboard(c echo.Context) error {
	stats, err := h.reportService.Dashboard(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to build dashboard: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, stats)
}

// ExportOrders обрабатывает GET /api/owner/orders/export.
func (h *OwnerHandler) ExportOrders(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=clickqueue-orders.csv`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.reportService.ExportCSV(c.Request().Context(), c.Response()); err != nil {
		// Заголовки уже отправлены: статус менять поздно, остаётся лог.
		c.Logger().Errorf("failed to export orders: %v", err)
		return nil
	}
	return nil
}
