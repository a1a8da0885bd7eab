package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/podomall/podomall-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  personal_customs_number TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	addresses := `
CREATE TABLE IF NOT EXISTS user_addresses (
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
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(addresses).Error)
	require.NoError(t, db.Exec(`DELETE FROM user_addresses`).Error)
	require.NoError(t, db.Exec(`DELETE FROM users`).Error)
	return db
}

func newAddress(userID uuid.UUID, recipient string, isDefault bool) *models.UserAddress {
	return &models.UserAddress{
		UserID:       userID,
		Recipient:    recipient,
		Phone:        "010-1234-5678",
		PostalCode:   "06236",
		AddressLine1: "서울시 강남구 테헤란로 152",
		IsDefault:    isDefault,
	}
}

func TestCreateAddressDemotesPreviousDefault(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.CreateAddress(ctx, newAddress(userID, "김민지", true))
	require.NoError(t, err)
	require.True(t, first.IsDefault)

	second, err := repo.CreateAddress(ctx, newAddress(userID, "박서준", true))
	require.NoError(t, err)
	require.True(t, second.IsDefault)

	var defaults int64
	require.NoError(t, db.Model(&models.UserAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&defaults).Error)
	assert.EqualValues(t, 1, defaults)

	reloaded, err := repo.FindAddressByID(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestCreateAddressNonDefaultKeepsExistingDefault(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.CreateAddress(ctx, newAddress(userID, "김민지", true))
	require.NoError(t, err)

	_, err = repo.CreateAddress(ctx, newAddress(userID, "박서준", false))
	require.NoError(t, err)

	reloaded, err := repo.FindAddressByID(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
}

func TestCreateAddressDefaultScopedToUser(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	aliceAddr, err := repo.CreateAddress(ctx, newAddress(alice, "김민지", true))
	require.NoError(t, err)

	_, err = repo.CreateAddress(ctx, newAddress(bob, "박서준", true))
	require.NoError(t, err)

	reloaded, err := repo.FindAddressByID(ctx, alice, aliceAddr.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault, "another user's default must not demote this one")
}
