package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationInventoryIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestMigrationsCoverCoreTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	var all strings.Builder
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		all.Write(b)
	}

	for _, table := range []string{"products", "orders", "order_items", "admin_users"} {
		if !strings.Contains(all.String(), "CREATE TABLE "+table) {
			t.Errorf("no migration creates table %q", table)
		}
	}

	// Duplicate order ids must surface as storage conflicts, so the
	// public id needs a unique index.
	if !strings.Contains(all.String(), "CREATE UNIQUE INDEX idx_orders_public_id") {
		t.Error("orders.public_id is missing its unique index")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Promo Table")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_promo_table.sql") {
		t.Errorf("unexpected filename %q", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Errorf("generated migration fails validation: %v", err)
	}
}

func TestCreateSQLMigrationRejectsBadNames(t *testing.T) {
	dir := t.TempDir()

	if _, err := CreateSQLMigration(dir, ""); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Error("expected error for unsanitizable name")
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "001_short_version.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Error("expected error for malformed version prefix")
	}
}
