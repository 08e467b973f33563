package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownService  = errors.New("unknown service type")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// PricingService вычисляет стоимость заказа по текущему прайсу.
type PricingService interface {
	Resolve(ctx context.Context, serviceType models.ServiceType, quantity int) (decimal.Decimal, error)
	Catalog(ctx context.Context) ([]models.ServiceInfo, error)
}

// PricingServiceImpl реализует PricingService.
type PricingServiceImpl struct {
	settings storage.SettingsStorage
}

// NewPricingService создаёт новый сервис ценообразования.
func NewPricingService(settings storage.SettingsStorage) *PricingServiceImpl {
	return &PricingServiceImpl{settings: settings}
}

// Resolve возвращает итоговую стоимость: цена за единицу из прайса
// владельца (или статического прайса по умолчанию), умноженная на количество.
// Вызывается ровно один раз при создании заказа; результат замораживается
// в totalAmount и не пересчитывается при последующих изменениях прайса.
func (s *PricingServiceImpl) Resolve(ctx context.Context, serviceType models.ServiceType, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}

	prices, err := s.currentPrices(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	unit, ok := prices[serviceType]
	if !ok {
		return decimal.Zero, ErrUnknownService
	}

	return unit.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// Catalog возвращает список услуг с текущими ценами в стабильном порядке.
func (s *PricingServiceImpl) Catalog(ctx context.Context) ([]models.ServiceInfo, error) {
	prices, err := s.currentPrices(ctx)
	if err != nil {
		return nil, err
	}

	order := []models.ServiceType{
		models.ServicePassport,
		models.ServicePrint4x6,
		models.ServicePrintA4,
		models.ServiceLamination,
		models.ServiceSchoolID,
		models.ServiceCustom,
	}

	catalog := make([]models.ServiceInfo, 0, len(order))
	for _, st := range order {
		price, _ := prices[st].Float64()
		catalog = append(catalog, models.ServiceInfo{
			ID:    string(st),
			Label: models.ServiceLabels[st],
			Price: price,
		})
	}
	return catalog, nil
}

// currentPrices загружает прайс владельца поверх значений по умолчанию.
// Отсутствие документа настроек не ошибка: действует статический прайс.
func (s *PricingServiceImpl) currentPrices(ctx context.Context) (map[models.ServiceType]decimal.Decimal, error) {
	prices := make(map[models.ServiceType]decimal.Decimal, len(models.DefaultPrices))
	for st, price := range models.DefaultPrices {
		prices[st] = price
	}

	raw, err := s.settings.Get(ctx, models.SettingsKeyPrices)
	if err != nil {
		if errors.Is(err, storage.ErrSettingsNotFound) {
			return prices, nil
		}
		return nil, fmt.Errorf("load price table: %w", err)
	}

	var stored models.PriceTable
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal price table: %w", err)
	}

	for key, value := range stored {
		st := models.ServiceType(key)
		if _, known := models.DefaultPrices[st]; known {
			prices[st] = decimal.NewFromFloat(value)
		}
	}

	return prices, nil
}
