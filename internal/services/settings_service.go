package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/storage"
)

var ErrInvalidPrice = errors.New("invalid price")

// SettingsService управляет прайсом и информацией о фотоателье.
type SettingsService interface {
	Prices(ctx context.Context) (models.PriceTable, error)
	UpdatePrices(ctx context.Context, prices models.PriceTable) (models.PriceTable, error)
	ShopInfo(ctx context.Context) (models.ShopInfo, error)
	UpdateShopInfo(ctx context.Context, info models.ShopInfo) error
}

// SettingsServiceImpl реализует SettingsService.
type SettingsServiceImpl struct {
	settings storage.SettingsStorage
}

// NewSettingsService создаёт новый сервис настроек.
func NewSettingsService(settings storage.SettingsStorage) *SettingsServiceImpl {
	return &SettingsServiceImpl{settings: settings}
}

// Prices возвращает текущий прайс (прайс владельца поверх значений по умолчанию).
func (s *SettingsServiceImpl) Prices(ctx context.Context) (models.PriceTable, error) {
	table := defaultPriceTable()

	raw, err := s.settings.Get(ctx, models.SettingsKeyPrices)
	if err != nil {
		if errors.Is(err, storage.ErrSettingsNotFound) {
			return table, nil
		}
		return nil, fmt.Errorf("load price table: %w", err)
	}

	var stored models.PriceTable
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal price table: %w", err)
	}
	for key, value := range stored {
		if _, known := models.DefaultPrices[models.ServiceType(key)]; known {
			table[key] = value
		}
	}
	return table, nil
}

// UpdatePrices проверяет и сохраняет прайс владельца.
// Изменения действуют только для заказов, созданных после сохранения.
func (s *SettingsServiceImpl) UpdatePrices(ctx context.Context, prices models.PriceTable) (models.PriceTable, error) {
	for key, value := range prices {
		st := models.ServiceType(key)
		if _, known := models.DefaultPrices[st]; !known || st == models.ServiceCustom {
			return nil, fmt.Errorf("%w: unknown service %q", ErrUnknownService, key)
		}
		if value < 0 {
			return nil, fmt.Errorf("%w: negative price for %q", ErrInvalidPrice, key)
		}
	}

	merged := defaultPriceTable()
	for key, value := range prices {
		merged[key] = value
	}

	if err := s.settings.Upsert(ctx, models.SettingsKeyPrices, merged); err != nil {
		return nil, fmt.Errorf("save price table: %w", err)
	}
	return merged, nil
}

// ShopInfo возвращает публичную информацию о фотоателье.
func (s *SettingsServiceImpl) ShopInfo(ctx context.Context) (models.ShopInfo, error) {
	raw, err := s.settings.Get(ctx, models.SettingsKeyShopInfo)
	if err != nil {
		if errors.Is(err, storage.ErrSettingsNotFound) {
			return models.DefaultShopInfo(), nil
		}
		return models.ShopInfo{}, fmt.Errorf("load shop info: %w", err)
	}

	var info models.ShopInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return models.ShopInfo{}, fmt.Errorf("unmarshal shop info: %w", err)
	}
	return info, nil
}

// UpdateShopInfo сохраняет информацию о фотоателье.
func (s *SettingsServiceImpl) UpdateShopInfo(ctx context.Context, info models.ShopInfo) error {
	if err := s.settings.Upsert(ctx, models.SettingsKeyShopInfo, info); err != nil {
		return fmt.Errorf("save shop info: %w", err)
	}
	return nil
}

// defaultPriceTable возвращает статический прайс в сериализуемом виде.
func defaultPriceTable() models.PriceTable {
	table := make(models.PriceTable, len(models.DefaultPrices))
	for st, price := range models.DefaultPrices {
		value, _ := price.Float64()
		table[string(st)] = value
	}
	return table
}
