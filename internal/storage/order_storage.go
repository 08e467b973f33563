package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrAllocation - сбой выдачи номера очереди; заказ при этом не сохраняется.
	ErrAllocation = errors.New("queue number allocation failed")
	// ErrStatusConflict - статус заказа успел смениться конкурирующим обновлением.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// queueCounterName - имя счётчика номеров очереди в таблице counters.
const queueCounterName = "queue_number"

// OrderStorage определяет интерфейс для работы с заказами.
type OrderStorage interface {
	Create(ctx context.Context, order *models.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error
	MarkReadyNotified(ctx context.Context, id uuid.UUID) (bool, error)
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (bool, error)
	GetPaidOrders(ctx context.Context) ([]*models.Order, error)
	DashboardStats(ctx context.Context, since time.Time) (*models.DashboardStats, error)
}

// PostgresOrderStorage реализует OrderStorage для PostgreSQL.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

// Create сохраняет новый заказ, атомарно выдавая ему номер очереди.
// Номер берётся из инкремента счётчика в той же транзакции, что и вставка:
// при любой ошибке транзакция откатывается целиком и номер не теряется
// между двумя заказами, а заказ не появляется без номера.
func (s *PostgresOrderStorage) Create(ctx context.Context, order *models.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE counters SET value = value + 1 WHERE name = $1 RETURNING value`,
		queueCounterName,
	).Scan(&order.QueueNumber)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	photos, err := json.Marshal(order.Photos)
	if err != nil {
		return fmt.Errorf("marshal photos: %w", err)
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	emailVal := sql.NullString{}
	if order.Customer.Email != "" {
		emailVal = sql.NullString{Valid: true, String: order.Customer.Email}
	}

	query := `
		INSERT INTO orders (
			id, order_id, queue_number,
			customer_name, customer_phone, customer_email,
			photos, service_type, quantity, total_amount,
			payment_status, payment_id, gateway_order_id,
			order_status, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		order.ID,
		order.OrderID,
		order.QueueNumber,
		order.Customer.Name,
		order.Customer.Phone,
		emailVal,
		photos,
		order.ServiceType,
		order.Quantity,
		order.TotalAmount,
		order.PaymentStatus,
		nullable(order.PaymentID),
		nullable(order.GatewayOrderID),
		order.OrderStatus,
		nullable(order.Notes),
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrOrderAlreadyExists
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create order tx: %w", err)
	}

	return nil
}

const orderColumns = `
	id, order_id, queue_number,
	customer_name, customer_phone, customer_email,
	photos, service_type, quantity, total_amount,
	payment_status, payment_id, gateway_order_id,
	order_status, notes, notified_ready_at, created_at, updated_at
`

// GetByOrderID возвращает заказ по публичному идентификатору.
func (s *PostgresOrderStorage) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`
	return scanOrder(s.pool.QueryRow(ctx, query, orderID))
}

// GetByID возвращает заказ по внутреннему идентификатору.
func (s *PostgresOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(s.pool.QueryRow(ctx, query, id))
}

// List возвращает страницу заказов (сортировка по created_at DESC)
// и общее число заказов под фильтром. Пустой status - без фильтра.
func (s *PostgresOrderStorage) List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.Order, int, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	countQuery := `SELECT COUNT(*) FROM orders`
	args := []any{}

	if status != "" {
		query += ` WHERE order_status = $1`
		countQuery += ` WHERE order_status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	var total int
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus переводит заказ из статуса from в статус to.
// Условие по текущему статусу исключает гонку двух конкурирующих
// переводов: проигравший получает ErrStatusConflict и перечитывает заказ.
func (s *PostgresOrderStorage) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error {
	result, err := s.pool.Exec(ctx,
		`UPDATE orders SET order_status = $1, updated_at = NOW()
		 WHERE id = $2 AND order_status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order: %w", err)
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// MarkReadyNotified устанавливает отметку notified_ready_at, если она ещё не стоит.
// Проверка и установка выполняются одним оператором, поэтому из конкурирующих
// вызовов ровно один получит true - только он отправляет уведомление о готовности.
func (s *PostgresOrderStorage) MarkReadyNotified(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.pool.Exec(ctx,
		`UPDATE orders SET notified_ready_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND notified_ready_at IS NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark order notified: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// MarkPaid переводит заказ в paid по идентификатору платёжного шлюза.
// Условие payment_status <> 'paid' делает операцию идемпотентной:
// повтор того же webhook-события ничего не меняет и возвращает false.
func (s *PostgresOrderStorage) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
	result, err := s.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $1, payment_id = $2, updated_at = NOW()
		 WHERE gateway_order_id = $3 AND payment_status <> $1`,
		models.PaymentStatusPaid, paymentID, gatewayOrderID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// GetPaidOrders возвращает оплаченные заказы для экспорта (новые сверху).
func (s *PostgresOrderStorage) GetPaidOrders(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_status = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, models.PaymentStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// DashboardStats собирает счётчики по статусам, выручку по оплаченным заказам,
// число сегодняшних заказов и выручку по календарным дням начиная с since.
// Дни считаются в часовом поясе сервера БД.
func (s *PostgresOrderStorage) DashboardStats(ctx context.Context, since time.Time) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{RevenueChart: []models.RevenuePoint{}}

	rows, err := s.pool.Query(ctx, `SELECT order_status, COUNT(*) FROM orders GROUP BY order_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status models.OrderStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.TotalOrders += count
		switch status {
		case models.OrderStatusPending:
			stats.PendingOrders = count
		case models.OrderStatusProcessing:
			stats.ProcessingOrders = count
		case models.OrderStatusReady:
			stats.ReadyOrders = count
		case models.OrderStatusCompleted:
			stats.CompletedOrders = count
		case models.OrderStatusCancelled:
			stats.CancelledOrders = count
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	var revenueStr string
	err = s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = $1`,
		models.PaymentStatusPaid,
	).Scan(&revenueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to query total revenue: %w", err)
	}
	revenue, err := decimal.NewFromString(revenueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total revenue %q: %w", revenueStr, err)
	}
	stats.TotalRevenue, _ = revenue.Float64()

	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= date_trunc('day', NOW())`,
	).Scan(&stats.TodayOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to query today orders: %w", err)
	}

	chartRows, err := s.pool.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day,
		       SUM(total_amount),
		       COUNT(*)
		FROM orders
		WHERE payment_status = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`, models.PaymentStatusPaid, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue chart: %w", err)
	}
	defer chartRows.Close()

	for chartRows.Next() {
		var (
			point      models.RevenuePoint
			revenueRaw string
		)
		if err := chartRows.Scan(&point.Day, &revenueRaw, &point.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan revenue point: %w", err)
		}
		dayRevenue, err := decimal.NewFromString(revenueRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day revenue %q: %w", revenueRaw, err)
		}
		point.Revenue, _ = dayRevenue.Float64()
		stats.RevenueChart = append(stats.RevenueChart, point)
	}
	if chartRows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", chartRows.Err())
	}

	return stats, nil
}

// collectOrders читает все заказы из результата запроса.
func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return orders, nil
}

// scanOrder помогает читать заказ из строки результата.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order     models.Order
		email     sql.NullString
		photosRaw []byte
		amountStr string
		paymentID sql.NullString
		gatewayID sql.NullString
		notes     sql.NullString
		notified  sql.NullTime
	)

	err := row.Scan(
		&order.ID,
		&order.OrderID,
		&order.QueueNumber,
		&order.Customer.Name,
		&order.Customer.Phone,
		&email,
		&photosRaw,
		&order.ServiceType,
		&order.Quantity,
		&amountStr,
		&order.PaymentStatus,
		&paymentID,
		&gatewayID,
		&order.OrderStatus,
		&notes,
		&notified,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if email.Valid {
		order.Customer.Email = email.String
	}
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}
	if gatewayID.Valid {
		order.GatewayOrderID = gatewayID.String
	}
	if notes.Valid {
		order.Notes = notes.String
	}
	if notified.Valid {
		t := notified.Time
		order.NotifiedReadyAt = &t
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total amount %q: %w", amountStr, err)
	}
	order.TotalAmount = amount

	if len(photosRaw) > 0 {
		if err := json.Unmarshal(photosRaw, &order.Photos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal photos: %w", err)
		}
	}

	return &order, nil
}

// nullable упаковывает пустую строку в NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{Valid: true, String: s}
}
