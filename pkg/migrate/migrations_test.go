package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/podomall/podomall-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestCartMigrationContainsUniqueConstraints(t *testing.T) {
	content := readMigration(t, "*_create_cart_tables.sql")

	checks := []string{
		"CREATE UNIQUE INDEX idx_carts_user_id ON carts (user_id)",
		"CREATE UNIQUE INDEX idx_cart_items_cart_product ON cart_items (cart_id, product_id)",
		"CHECK (quantity >= 1)",
		"DROP TABLE IF EXISTS cart_items",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderMigrationContainsUniqueConstraints(t *testing.T) {
	content := readMigration(t, "*_create_order_tables.sql")

	checks := []string{
		"CREATE UNIQUE INDEX idx_orders_order_number ON orders (order_number)",
		"CREATE UNIQUE INDEX idx_shipments_order_id ON shipments (order_id)",
		"total_pay_krw BIGINT NOT NULL",
		"DROP TABLE IF EXISTS shipments",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
