package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// authCookie - имя cookie с токеном владельца.
const authCookie = "Authorization"

// Ключи контекста запроса, под которыми middleware кладёт данные владельца.
const (
	ownerIDKey    = "owner_id"
	ownerLoginKey = "owner_login"
)

// OwnerOnly пропускает только запросы с валидным токеном владельца.
// Токен берётся из заголовка Authorization (схема Bearer) или из cookie.
func OwnerOnly(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				token = cookieToken(c)
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}

			claims, err := ParseOwnerToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ownerIDKey, claims.OwnerID)
			c.Set(ownerLoginKey, claims.Login)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func cookieToken(c echo.Context) string {
	cookie, err := c.Cookie(authCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// OwnerID возвращает ID владельца, положенный в контекст middleware OwnerOnly.
func OwnerID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(ownerIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "owner not found in context")
	}
	return id, nil
}

// OwnerLogin возвращает логин владельца из контекста запроса.
func OwnerLogin(c echo.Context) string {
	login, _ := c.Get(ownerLoginKey).(string)
	return login
}
