package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/storage"
)

// revenueChartDays - глубина графика выручки на панели владельца.
const revenueChartDays = 7

// exportHeader - фиксированный порядок колонок CSV-экспорта.
var exportHeader = []string{
	"Order ID", "Queue #", "Name", "Phone", "Email",
	"Service", "Qty", "Amount", "Status", "Date",
}

// ReportService строит агрегированные представления по заказам.
type ReportService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// ReportServiceImpl реализует ReportService.
type ReportServiceImpl struct {
	orders storage.OrderStorage
}

// NewReportService создаёт новый сервис отчётности.
func NewReportService(orders storage.OrderStorage) *ReportServiceImpl {
	return &ReportServiceImpl{orders: orders}
}

// Dashboard возвращает сводку: счётчики по статусам, выручку по оплаченным
// заказам, число сегодняшних заказов и выручку за последние 7 дней.
func (s *ReportServiceImpl) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	since := time.Now().AddDate(0, 0, -revenueChartDays)
	stats, err := s.orders.DashboardStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// ExportCSV выгружает оплаченные заказы, по строке на заказ,
// со стабильным порядком колонок для офлайн-бухгалтерии.
func (s *ReportServiceImpl) ExportCSV(ctx context.Context, w io.Writer) error {
	orders, err := s.orders.GetPaidOrders(ctx)
	if err != nil {
		return fmt.Errorf("export orders: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, order := range orders {
		row := []string{
			order.OrderID,
			strconv.FormatInt(order.QueueNumber, 10),
			order.Customer.Name,
			order.Customer.Phone,
			order.Customer.Email,
			string(order.ServiceType),
			strconv.Itoa(order.Quantity),
			order.TotalAmount.StringFixed(2),
			string(order.OrderStatus),
			order.CreatedAt.Format("02/01/2006"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
