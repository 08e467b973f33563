package storage

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// stubOrderRow подставляет значения колонок заказа в scanOrder.
type stubOrderRow struct {
	amount string
}

func (r stubOrderRow) Scan(dest ...any) error {
	*(dest[0].(*uuid.UUID)) = uuid.New()
	*(dest[1].(*string)) = "CQ-3F2A8B1C"
	*(dest[2].(*int64)) = 7
	*(dest[3].(*string)) = "Ravi Kumar"
	*(dest[4].(*string)) = "9876543210"
	*(dest[5].(*sql.NullString)) = sql.NullString{Valid: true, String: "ravi@example.com"}
	*(dest[6].(*[]byte)) = []byte(`[]`)
	*(dest[7].(*models.ServiceType)) = models.ServicePassport
	*(dest[8].(*int)) = 3
	*(dest[9].(*string)) = r.amount
	*(dest[10].(*models.PaymentStatus)) = models.PaymentStatusPending
	*(dest[11].(*sql.NullString)) = sql.NullString{}
	*(dest[12].(*sql.NullString)) = sql.NullString{}
	*(dest[13].(*models.OrderStatus)) = models.OrderStatusPending
	*(dest[14].(*sql.NullString)) = sql.NullString{}
	*(dest[15].(*sql.NullTime)) = sql.NullTime{}
	*(dest[16].(*time.Time)) = time.Now()
	*(dest[17].(*time.Time)) = time.Now()
	return nil
}

func TestScanOrderTotalAmount(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		order, err := scanOrder(stubOrderRow{amount: "150.00"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !order.TotalAmount.Equal(decimal.NewFromInt(150)) {
			t.Errorf("totalAmount = %s, want 150", order.TotalAmount)
		}
	})

	t.Run("malformed amount is an error, not zero", func(t *testing.T) {
		_, err := scanOrder(stubOrderRow{amount: "not-a-number"})
		if err == nil {
			t.Fatal("expected error for malformed total_amount")
		}
		if !strings.Contains(err.Error(), "total amount") {
			t.Errorf("error %q must mention total amount", err)
		}
	})
}
