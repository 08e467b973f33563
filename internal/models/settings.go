package models

import "github.com/shopspring/decimal"

// Ключи документов в таблице настроек.
const (
	SettingsKeyPrices   = "service_prices"
	SettingsKeyShopInfo = "shop_info"
)

// DefaultPrices - статический прайс по умолчанию (INR за единицу).
// Используется, пока владелец не задал собственные цены.
// custom оценивается индивидуально и по умолчанию стоит 0.
var DefaultPrices = map[ServiceType]decimal.Decimal{
	ServicePassport:   decimal.NewFromInt(40),
	ServicePrint4x6:   decimal.NewFromInt(15),
	ServicePrintA4:    decimal.NewFromInt(30),
	ServiceLamination: decimal.NewFromInt(50),
	ServiceSchoolID:   decimal.NewFromInt(60),
	ServiceCustom:     decimal.Zero,
}

// PriceTable - прайс в том виде, в каком он хранится и отдаётся наружу.
type PriceTable map[string]float64

// ShopInfo - публичная информация о фотоателье.
type ShopInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Hours   string `json:"hours"`
}

// DefaultShopInfo возвращает информацию о фотоателье по умолчанию.
func DefaultShopInfo() ShopInfo {
	return ShopInfo{
		Name:  "ClickQueue Photo Studio",
		Hours: "9 AM - 9 PM",
	}
}

// UpdatePricesRequest - запрос владельца на обновление прайса.
type UpdatePricesRequest struct {
	Prices PriceTable `json:"prices"`
}
