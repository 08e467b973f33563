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
	"github.com/labstack/echo/v4"
)

type mockSettingsService struct {
	PricesFunc         func(ctx context.Context) (models.PriceTable, error)
	UpdatePricesFunc   func(ctx context.Context, prices models.PriceTable) (models.PriceTable, error)
	ShopInfoFunc       func(ctx context.Context) (models.ShopInfo, error)
	UpdateShopInfoFunc func(ctx context.Context, info models.ShopInfo) error
}

func (m *mockSettingsService) Prices(ctx context.Context) (models.PriceTable, error) {
	if m.PricesFunc != nil {
		return m.PricesFunc(ctx)
	}
	return models.PriceTable{}, nil
}

func (m *mockSettingsService) UpdatePrices(ctx context.Context, prices models.PriceTable) (models.PriceTable, error) {
	if m.UpdatePricesFunc != nil {
		return m.UpdatePricesFunc(ctx, prices)
	}
	return prices, nil
}

func (m *mockSettingsService) ShopInfo(ctx context.Context) (models.ShopInfo, error) {
	if m.ShopInfoFunc != nil {
		return m.ShopInfoFunc(ctx)
	}
	return models.ShopInfo{}, nil
}

func (m *mockSettingsService) UpdateShopInfo(ctx context.Context, info models.ShopInfo) error {
	if m.UpdateShopInfoFunc != nil {
		return m.UpdateShopInfoFunc(ctx, info)
	}
	return nil
}

func TestSettingsHandler_GetPrices(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/settings/prices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewSettingsHandler(&mockSettingsService{
		PricesFunc: func(ctx context.Context) (models.PriceTable, error) {
			return models.PriceTable{"passport": 40}, nil
		},
	})

	if err := handler.GetPrices(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"passport":40`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestSettingsHandler_UpdatePrices(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockService    *mockSettingsService
		expectedStatus int
	}{
		{
			name: "updated",
			body: `{"prices":{"passport":45}}`,
			mockService: &mockSettingsService{
				UpdatePricesFunc: func(ctx context.Context, prices models.PriceTable) (models.PriceTable, error) {
					if prices["passport"] != 45 {
						t.Fatalf("prices not bound: %v", prices)
					}
					return prices, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown service",
			body: `{"prices":{"hologram":10}}`,
			mockService: &mockSettingsService{
				UpdatePricesFunc: func(ctx context.Context, prices models.PriceTable) (models.PriceTable, error) {
					return nil, services.ErrUnknownService
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative price",
			body: `{"prices":{"passport":-1}}`,
			mockService: &mockSettingsService{
				UpdatePricesFunc: func(ctx context.Context, prices models.PriceTable) (models.PriceTable, error) {
					return nil, services.ErrInvalidPrice
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"prices":`,
			mockService:    &mockSettingsService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "internal error",
			body: `{"prices":{"passport":45}}`,
			mockService: &mockSettingsService{
				UpdatePricesFunc: func(ctx context.Context, prices models.PriceTable) (models.PriceTable, error) {
					return nil, errors.New("db error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/api/settings/prices", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewSettingsHandler(tt.mockService)
			err := handler.UpdatePrices(c)

			if tt.expectedStatus < 400 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if rec.Code != tt.expectedStatus {
					t.Fatalf("status = %d, want %d", rec.Code, tt.expectedStatus)
				}
			} else {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if he, ok := err.(*echo.HTTPError); ok && he.Code != tt.expectedStatus {
					t.Fatalf("status = %d, want %d", he.Code, tt.expectedStatus)
				}
			}
		})
	}
}

func TestSettingsHandler_ShopInfo(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/settings/shop", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := NewSettingsHandler(&mockSettingsService{
			ShopInfoFunc: func(ctx context.Context) (models.ShopInfo, error) {
				return models.ShopInfo{Name: "Sharma Studio", Hours: "9 AM - 9 PM"}, nil
			},
		})

		if err := handler.GetShopInfo(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(rec.Body.String(), "Sharma Studio") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("update", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPut, "/api/settings/shop", strings.NewReader(`{"name":"Sharma Studio"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var saved models.ShopInfo
		handler := NewSettingsHandler(&mockSettingsService{
			UpdateShopInfoFunc: func(ctx context.Context, info models.ShopInfo) error {
				saved = info
				return nil
			},
		})

		if err := handler.UpdateShopInfo(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if saved.Name != "Sharma Studio" {
			t.Errorf("info not bound: %+v", saved)
		}
	})
}
