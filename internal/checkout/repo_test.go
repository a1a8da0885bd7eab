package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/internal/cart"
	"github.com/podomall/podomall-backend/internal/notifications"
	"github.com/podomall/podomall-backend/internal/pricing"
	"github.com/podomall/podomall-backend/internal/users"
	"github.com/podomall/podomall-backend/pkg/config"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/podomall/podomall-backend/pkg/enums"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT,
  phone TEXT,
  personal_customs_number TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS user_addresses (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  recipient TEXT NOT NULL,
  phone TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  address_line1 TEXT NOT NULL,
  address_line2 TEXT,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  external_id TEXT,
  mall_code TEXT,
  name_ko TEXT NOT NULL,
  name_original TEXT,
  brand TEXT,
  category TEXT,
  image_url TEXT,
  currency TEXT,
  price_original INTEGER,
  price_krw INTEGER NOT NULL,
  stock_status TEXT NOT NULL DEFAULT 'IN_STOCK',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS carts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  cart_id INTEGER NOT NULL,
  user_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  price_krw INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS orders (
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
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
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
);`,
		`CREATE TABLE IF NOT EXISTS shipments (
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
);`,
		`CREATE TABLE IF NOT EXISTS notifications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  level TEXT NOT NULL,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"notifications", "shipments", "order_items", "orders", "cart_items", "carts", "user_addresses", "products", "users"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

// gormTxRunner wraps a raw gorm handle with the same transaction semantics the
// production db client provides.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newIntegrationService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	calc, err := pricing.NewCalculator(config.PricingConfig{
		ShippingFeeKRW: 15000,
		ServiceFeeKRW:  3000,
		DutyRate:       "0.10",
	})
	require.NoError(t, err)

	notificationsService, err := notifications.NewService(notifications.NewRepository(db))
	require.NoError(t, err)

	svc, err := NewService(
		NewRepository(db),
		cart.NewRepository(db),
		users.NewRepository(db),
		gormTxRunner{db: db},
		calc,
		notificationsService,
		nil,
		logger.New(logger.Options{ServiceName: "test"}),
	)
	require.NoError(t, err)
	return svc
}

func seedUserWithCart(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, email) VALUES (?, ?)`,
		userID.String(), userID.String()+"@example.com",
	).Error)

	product := &models.Product{NameKo: "울 코트", PriceKRW: 129900, StockStatus: "IN_STOCK", IsActive: true}
	require.NoError(t, db.Create(product).Error)

	cartRow := &models.Cart{UserID: userID}
	require.NoError(t, db.Create(cartRow).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cartRow.ID,
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  1,
		PriceKRW:  product.PriceKRW,
	}).Error)
	return userID
}

func TestCheckoutIntegrationSuccess(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newIntegrationService(t, db)
	userID := seedUserWithCart(t, db)
	ctx := context.Background()

	result, err := svc.Execute(ctx, userID, Input{
		Recipient:     "김포도",
		Phone:         "010-1234-5678",
		PostalCode:    "06236",
		AddressLine1:  "서울시 강남구 테헤란로 1",
		CustomsID:     "P123456789012",
		PaymentMethod: enums.PaymentMethodCard,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(129900), result.Totals.ProductKRW)
	assert.Equal(t, int64(12990), result.Totals.DutyKRW)
	assert.Equal(t, int64(160890), result.Totals.PayKRW)

	var order models.Order
	require.NoError(t, db.Where("user_id = ?", userID).First(&order).Error)
	assert.Equal(t, result.OrderNumber, order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPaid, order.Status)
	assert.Equal(t, order.TotalPayKRW,
		order.TotalProductKRW+order.TotalShippingKRW+order.TotalDutyKRW+order.TotalFeeKRW)

	var itemCount, cartItemCount, shipmentCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartItemCount).Error)
	require.NoError(t, db.Model(&models.Shipment{}).Where("order_id = ?", order.ID).Count(&shipmentCount).Error)
	assert.Equal(t, int64(1), itemCount)
	assert.Equal(t, int64(0), cartItemCount, "cart must be cleared on commit")
	assert.Equal(t, int64(1), shipmentCount)

	var subtotalSum int64
	require.NoError(t, db.Model(&models.OrderItem{}).
		Where("order_id = ?", order.ID).
		Select("COALESCE(SUM(subtotal_krw), 0)").
		Scan(&subtotalSum).Error)
	assert.Equal(t, order.TotalProductKRW, subtotalSum)

	var user models.User
	require.NoError(t, db.Where("id = ?", userID).First(&user).Error)
	require.NotNil(t, user.PersonalCustomsNumber)
	assert.Equal(t, "P123456789012", *user.PersonalCustomsNumber)

	var address models.UserAddress
	require.NoError(t, db.Where("user_id = ?", userID).First(&address).Error)
	assert.True(t, address.IsDefault, "first saved address becomes the default")

	var noteCount int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND level = ?", userID, enums.NotificationLevelSuccess).
		Count(&noteCount).Error)
	assert.Equal(t, int64(1), noteCount)
}

func TestCheckoutIntegrationEmptyCartLeavesNothingBehind(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newIntegrationService(t, db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, email) VALUES (?, ?)`,
		userID.String(), userID.String()+"@example.com",
	).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: userID}).Error)

	_, err := svc.Execute(ctx, userID, Input{
		Recipient:     "김포도",
		Phone:         "010-1234-5678",
		PostalCode:    "06236",
		AddressLine1:  "서울시 강남구 테헤란로 1",
		CustomsID:     "P123456789012",
		PaymentMethod: enums.PaymentMethodCard,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)
}

func TestCheckoutIntegrationFailureRollsBackCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newIntegrationService(t, db)
	userID := seedUserWithCart(t, db)
	ctx := context.Background()

	// A foreign address id fails inside the transaction after the cart rows
	// were loaded; the rollback must leave the cart exactly as it was.
	foreignAddress := int64(9999)
	_, err := svc.Execute(ctx, userID, Input{
		CustomsID:     "P123456789012",
		AddressID:     &foreignAddress,
		PaymentMethod: enums.PaymentMethodCard,
	})
	require.Error(t, err)

	var cartItemCount, orderCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartItemCount).Error)
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orderCount).Error)
	assert.Equal(t, int64(1), cartItemCount, "cart must stay intact on rollback")
	assert.Equal(t, int64(0), orderCount)
}
