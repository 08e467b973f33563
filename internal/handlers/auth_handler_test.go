package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/services"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mockOwnerService struct {
	RegisterFunc func(ctx context.Context, login, password string) (*models.Owner, string, error)
	LoginFunc    func(ctx context.Context, login, password string) (*models.Owner, string, error)
}

func (m *mockOwnerService) Register(ctx context.Context, login, password string) (*models.Owner, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, login, password)
	}
	return nil, "", errors.New("not implemented")
}

func (m *mockOwnerService) Login(ctx context.Context, login, password string) (*models.Owner, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, login, password)
	}
	return nil, "", errors.New("not implemented")
}

func registeredOwner() *models.Owner {
	return &models.Owner{ID: uuid.New(), Login: "studio_admin"}
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		registerFunc   func(ctx context.Context, login, password string) (*models.Owner, string, error)
		expectedStatus int
	}{
		{
			name: "successful registration",
			body: `{"login":"studio_admin","password":"password123"}`,
			registerFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return registeredOwner(), "issued-token", nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "empty credentials",
			body: `{"login":"","password":""}`,
			registerFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", services.ErrEmptyCredentials
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "weak password",
			body: `{"login":"studio_admin","password":"short1"}`,
			registerFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", services.ErrWeakPassword
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "registration closed",
			body: `{"login":"second_admin","password":"password123"}`,
			registerFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", services.ErrRegistrationClosed
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "login taken",
			body: `{"login":"studio_admin","password":"password123"}`,
			registerFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", storage.ErrLoginTaken
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "malformed json",
			body:           `{"login":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service failure",
			body: `{"login":"studio_admin","password":"password123"}`,
			registerFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", errors.New("connection reset")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockOwnerService{RegisterFunc: tt.registerFunc})

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.Register(c)

			if tt.expectedStatus < 400 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(rec.Body.String(), "studio_admin") {
					t.Errorf("response %q must contain the owner login", rec.Body.String())
				}
				assertAuthToken(t, rec, "issued-token")
				return
			}

			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", he.Code, tt.expectedStatus)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		loginFunc      func(ctx context.Context, login, password string) (*models.Owner, string, error)
		expectedStatus int
	}{
		{
			name: "successful login",
			body: `{"login":"studio_admin","password":"password123"}`,
			loginFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return registeredOwner(), "issued-token", nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "invalid credentials",
			body: `{"login":"studio_admin","password":"wrong"}`,
			loginFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", services.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "empty credentials",
			body: `{"login":"","password":""}`,
			loginFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", services.ErrEmptyCredentials
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service failure",
			body: `{"login":"studio_admin","password":"password123"}`,
			loginFunc: func(ctx context.Context, login, password string) (*models.Owner, string, error) {
				return nil, "", errors.New("connection reset")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockOwnerService{LoginFunc: tt.loginFunc})

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.Login(c)

			if tt.expectedStatus < 400 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				assertAuthToken(t, rec, "issued-token")
				return
			}

			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", he.Code, tt.expectedStatus)
			}
		})
	}
}

// assertAuthToken проверяет, что токен выставлен и в cookie, и в заголовке.
func assertAuthToken(t *testing.T, rec *httptest.ResponseRecorder, token string) {
	t.Helper()

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "Authorization" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("Authorization cookie not set")
	}
	if cookie.Value != token {
		t.Errorf("cookie value = %q, want %q", cookie.Value, token)
	}
	if !cookie.HttpOnly {
		t.Error("Authorization cookie must be HttpOnly")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path = %q, want /", cookie.Path)
	}

	if got := rec.Header().Get("Authorization"); got != "Bearer "+token {
		t.Errorf("Authorization header = %q, want %q", got, "Bearer "+token)
	}
}
