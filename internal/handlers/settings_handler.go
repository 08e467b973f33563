package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/services"
	"github.com/labstack/echo/v4"
)

// SettingsHandler обрабатывает запросы настроек фотоателье.
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler создаёт новый экземпляр SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetPrices обрабатывает GET /api/settings/prices.
func (h *SettingsHandler) GetPrices(c echo.Context) error {
	prices, err := h.settingsService.Prices(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to get prices: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, prices)
}

// UpdatePrices обрабатывает PUT /api/settings/prices (только владелец).
func (h *SettingsHandler) UpdatePrices(c echo.Context) error {
	var req models.UpdatePricesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	prices, err := h.settingsService.UpdatePrices(c.Request().Context(), req.Prices)
	if err != nil {
		if errors.Is(err, services.ErrUnknownService) || errors.Is(err, services.ErrInvalidPrice) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		c.Logger().Errorf("failed to update prices: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Prices updated!",
		"prices":  prices,
	})
}

// GetShopInfo обрабатывает GET /api/settings/shop.
func (h *SettingsHandler) GetShopInfo(c echo.Context) error {
	info, err := h.settingsService.ShopInfo(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to get shop info: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, info)
}

// UpdateShopInfo обрабатывает PUT /api/settings/shop (только владелец).
func (h *SettingsHandler) UpdateShopInfo(c echo.Context) error {
	var info models.ShopInfo
	if err := c.Bind(&info); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := h.settingsService.UpdateShopInfo(c.Request().Context(), info); err != nil {
		c.Logger().Errorf("failed to update shop info: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Shop info updated!",
	})
}
