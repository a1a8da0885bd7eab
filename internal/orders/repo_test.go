package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
	"github.com/podomall/podomall-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  address_id INTEGER,
  shipping_address TEXT,
  payment_method TEXT,
  payment_status TEXT,
  total_product_krw INTEGER NOT NULL,
  total_shipping_krw INTEGER NOT NULL,
  total_duty_krw INTEGER NOT NULL,
  total_fee_krw INTEGER NOT NULL,
  total_pay_krw INTEGER NOT NULL,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  mall_code TEXT,
  external_id TEXT,
  name_snapshot TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_krw INTEGER NOT NULL,
  subtotal_krw INTEGER NOT NULL,
  created_at DATETIME
);`
	shipments := `
CREATE TABLE IF NOT EXISTS shipments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL UNIQUE,
  tracking_number TEXT,
  carrier_code TEXT,
  carrier_name TEXT,
  status TEXT NOT NULL DEFAULT 'PREPARING',
  origin_country TEXT,
  destination_country TEXT,
  shipped_at DATETIME,
  delivered_at DATETIME,
  last_updated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(shipments).Error)
	require.NoError(t, db.Exec(`DELETE FROM shipments`).Error)
	require.NoError(t, db.Exec(`DELETE FROM order_items`).Error)
	require.NoError(t, db.Exec(`DELETE FROM orders`).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, number string, created time.Time, itemQty int) *models.Order {
	t.Helper()

	order := &models.Order{
		OrderNumber:      number,
		UserID:           userID,
		Status:           enums.OrderStatusPaid,
		TotalProductKRW:  129900,
		TotalShippingKRW: 15000,
		TotalDutyKRW:     12990,
		TotalFeeKRW:      3000,
		TotalPayKRW:      160890,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		OrderID:      order.ID,
		ProductID:    1,
		NameSnapshot: "test product",
		Quantity:     itemQty,
		UnitPriceKRW: 129900,
		SubtotalKRW:  int64(itemQty) * 129900,
		CreatedAt:    created,
	}
	require.NoError(t, db.Create(item).Error)

	shipment := &models.Shipment{
		OrderID:   order.ID,
		Status:    enums.ShipmentStatusPreparing,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(shipment).Error)
	return order
}

func TestRepositoryListByUserPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedOrder(t, db, userID, orderNumberForTest(i), base.Add(time.Duration(i)*time.Hour), i+1)
	}
	seedOrder(t, db, uuid.New(), "ORD20250501999999", base, 1)

	first, cursor, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotEmpty(t, cursor)

	// newest first with item counts
	assert.Equal(t, "ORD20250501000003", first[0].OrderNumber)
	assert.Equal(t, 4, first[0].TotalItems)

	second, nextCursor, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Empty(t, nextCursor)
	assert.Equal(t, "ORD20250501000000", second[0].OrderNumber)
}

func orderNumberForTest(i int) string {
	return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC).Format("ORD20060102") +
		[]string{"000000", "000001", "000002", "000003"}[i]
}

func TestRepositoryFindDetailScopedToUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	order := seedOrder(t, db, userID, "ORD20250502000001", time.Now().UTC(), 2)

	detail, err := repo.FindDetail(ctx, userID, order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	require.NotNil(t, detail.Shipment)
	assert.Equal(t, enums.ShipmentStatusPreparing, detail.Shipment.Status)

	// another user's id misses
	_, err = repo.FindDetail(ctx, uuid.New(), order.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
