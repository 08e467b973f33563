package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType описывает тип услуги фотоателье.
type ServiceType string

const (
	ServicePassport   ServiceType = "passport"
	ServicePrint4x6   ServiceType = "print_4x6"
	ServicePrintA4    ServiceType = "print_a4"
	ServiceLamination ServiceType = "lamination"
	ServiceSchoolID   ServiceType = "school_id"
	ServiceCustom     ServiceType = "custom"
)

// ServiceLabels - человекочитаемые названия услуг для каталога.
var ServiceLabels = map[ServiceType]string{
	ServicePassport:   "Passport Size Photo",
	ServicePrint4x6:   "Photo Print 4×6",
	ServicePrintA4:    "Photo Print A4",
	ServiceLamination: "Lamination",
	ServiceSchoolID:   "School ID Card Photo",
	ServiceCustom:     "Custom Order",
}

// PaymentStatus описывает статус оплаты заказа.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderStatus описывает этап выполнения заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// statusRank задаёт порядок этапов. cancelled вне линейки и обрабатывается отдельно.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusReady:      2,
	OrderStatusCompleted:  3,
}

// ValidOrderStatus проверяет, что значение входит в перечисление статусов.
func ValidOrderStatus(s OrderStatus) bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition проверяет допустимость перехода статуса.
// Разрешено движение вперёд (включая пропуск этапов) и отмена из pending/processing.
// Движение назад и выход из терминальных статусов запрещены.
func CanTransition(from, to OrderStatus) bool {
	if from == OrderStatusCompleted || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return from == OrderStatusPending || from == OrderStatusProcessing
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > statusRank[from]
}

// Photo описывает загруженную фотографию: внешнее хранилище возвращает
// URL и идентификатор, сырые байты сервис не хранит.
type Photo struct {
	URL          string `json:"url"`
	StorageID    string `json:"storage_id"`
	OriginalName string `json:"original_name"`
}

// Customer - данные клиента. Email необязателен: его отсутствие
// означает пропуск email-канала уведомлений, а не ошибку.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Order представляет заказ клиента фотоателье.
type Order struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	OrderID         string          `db:"order_id" json:"orderId"`
	QueueNumber     int64           `db:"queue_number" json:"queueNumber"`
	Customer        Customer        `db:"-" json:"customer"`
	Photos          []Photo         `db:"-" json:"photos"`
	ServiceType     ServiceType     `db:"service_type" json:"serviceType"`
	Quantity        int             `db:"quantity" json:"quantity"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"totalAmount"`
	PaymentStatus   PaymentStatus   `db:"payment_status" json:"paymentStatus"`
	PaymentID       string          `db:"payment_id" json:"paymentId,omitempty"`
	GatewayOrderID  string          `db:"gateway_order_id" json:"gatewayOrderId,omitempty"`
	OrderStatus     OrderStatus     `db:"order_status" json:"orderStatus"`
	Notes           string          `db:"notes" json:"notes,omitempty"`
	NotifiedReadyAt *time.Time      `db:"notified_ready_at" json:"notifiedReadyAt,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// PaymentAssertion - клиентское утверждение об успешной оплате.
// Подпись проверяется до того, как заказ будет помечен оплаченным.
type PaymentAssertion struct {
	GatewayOrderID string `json:"razorpay_order_id"`
	PaymentID      string `json:"razorpay_payment_id"`
	Signature      string `json:"razorpay_signature"`
}

// Provided сообщает, передал ли клиент утверждение об оплате.
func (a PaymentAssertion) Provided() bool {
	return a.PaymentID != "" || a.GatewayOrderID != "" || a.Signature != ""
}

// CreateOrderRequest - запрос на создание заказа.
type CreateOrderRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	ServiceType string  `json:"service_type"`
	Quantity    int     `json:"quantity"`
	Photos      []Photo `json:"photos"`
	Notes       string  `json:"notes"`
	PaymentAssertion
}

// CreateOrderResponse - ответ на успешное создание заказа.
type CreateOrderResponse struct {
	OrderID     string  `json:"orderId"`
	QueueNumber int64   `json:"queueNumber"`
	TotalAmount float64 `json:"totalAmount"`
	Message     string  `json:"message"`
}

// TrackResponse - публичный ответ отслеживания заказа.
type TrackResponse struct {
	OrderID         string  `json:"orderId"`
	QueueNumber     int64   `json:"queueNumber"`
	CustomerName    string  `json:"customerName"`
	ServiceType     string  `json:"serviceType"`
	Quantity        int     `json:"quantity"`
	TotalAmount     float64 `json:"totalAmount"`
	PaymentStatus   string  `json:"paymentStatus"`
	OrderStatus     string  `json:"orderStatus"`
	CreatedAt       string  `json:"createdAt"`
	NotifiedReadyAt string  `json:"notifiedReadyAt,omitempty"`
}

// UpdateStatusRequest - запрос владельца на смену статуса заказа.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderListResponse - страница заказов для панели владельца.
type OrderListResponse struct {
	Orders      []*Order `json:"orders"`
	Total       int      `json:"total"`
	Pages       int      `json:"pages"`
	CurrentPage int      `json:"currentPage"`
}

// ServiceInfo - позиция каталога услуг с текущей ценой.
type ServiceInfo struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// RevenuePoint - выручка за один календарный день.
type RevenuePoint struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// DashboardStats - сводка для панели владельца.
// Выручка учитывает только оплаченные заказы.
type DashboardStats struct {
	TotalOrders      int            `json:"totalOrders"`
	PendingOrders    int            `json:"pendingOrders"`
	ProcessingOrders int            `json:"processingOrders"`
	ReadyOrders      int            `json:"readyOrders"`
	CompletedOrders  int            `json:"completedOrders"`
	CancelledOrders  int            `json:"cancelledOrders"`
	TotalRevenue     float64        `json:"totalRevenue"`
	TodayOrders      int            `json:"todayOrders"`
	RevenueChart     []RevenuePoint `json:"revenueChart"`
}
