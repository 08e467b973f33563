package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/services"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/labstack/echo/v4"
)

// AuthHandler обрабатывает HTTP-запросы аутентификации владельца.
type AuthHandler struct {
	owners services.OwnerService
}

// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(owners services.OwnerService) *AuthHandler {
	return &AuthHandler{owners: owners}
}

// Register обрабатывает POST /api/auth/register.
// Регистрация разовая: после создания учётной записи владельца
// эндпоинт отвечает 403.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.CredentialsRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	owner, token, err := h.owners.Register(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials), errors.Is(err, services.ErrWeakPassword):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrRegistrationClosed):
			return echo.NewHTTPError(http.StatusForbidden, "registration is closed")
		case errors.Is(err, storage.ErrLoginTaken):
			return echo.NewHTTPError(http.StatusConflict, "login already taken")
		}
		c.Logger().Errorf("failed to register owner: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	setAuthToken(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"owner_id": owner.ID,
		"login":    owner.Login,
	})
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.CredentialsRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	owner, token, err := h.owners.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid login or password")
		}
		c.Logger().Errorf("failed to login owner: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	setAuthToken(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"owner_id": owner.ID,
		"login":    owner.Login,
	})
}

// setAuthToken кладёт токен в cookie и заголовок ответа.
func setAuthToken(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     "Authorization",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 часа
	}
	c.SetCookie(cookie)

	c.Response().Header().Set("Authorization", "Bearer "+token)
}
