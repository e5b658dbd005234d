package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lukouhub/lukouhub-backend/internal/catalog"
	"github.com/lukouhub/lukouhub-backend/internal/orders"
	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB, publicID string, total string, status enums.OrderStatus, createdAt time.Time) {
	t.Helper()
	amount, err := decimal.NewFromString(total)
	if err != nil {
		t.Fatalf("bad total %q: %v", total, err)
	}
	order := &models.Order{
		PublicID:       publicID,
		CustomerName:   "Customer " + publicID,
		Phone:          "012-0000000",
		DeliveryOption: enums.DeliveryOptionPickup,
		PaymentMethod:  enums.PaymentMethodCash,
		Subtotal:       amount,
		DeliveryFee:    decimal.Zero,
		Discount:       decimal.Zero,
		Total:          amount,
		Status:         status,
	}
	if err := conn.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	// Spread creation times so recency ordering is deterministic.
	if err := conn.Model(order).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate order: %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		product := &models.Product{
			DisplayID: int64(i),
			Name:      fmt.Sprintf("Donut %d", i),
			Price:     decimal.NewFromFloat(5.00),
			Category:  "classic",
		}
		if err := conn.Create(product).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	seedOrder(t, conn, "LKH-20250901-0001", "22.80", enums.OrderStatusPending, base)
	seedOrder(t, conn, "LKH-20250901-0002", "10.00", enums.OrderStatusCompleted, base.Add(time.Minute))
	seedOrder(t, conn, "LKH-20250901-0003", "7.20", enums.OrderStatusPending, base.Add(2*time.Minute))

	svc, err := NewService(catalog.NewRepository(conn), orders.NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	snapshot, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snapshot.ProductCount != 3 {
		t.Errorf("ProductCount = %d, want 3", snapshot.ProductCount)
	}
	if snapshot.OrderCount != 3 {
		t.Errorf("OrderCount = %d, want 3", snapshot.OrderCount)
	}
	if snapshot.PendingOrders != 2 {
		t.Errorf("PendingOrders = %d, want 2", snapshot.PendingOrders)
	}
	if got := snapshot.Revenue.StringFixed(2); got != "40.00" {
		t.Errorf("Revenue = %s, want 40.00", got)
	}
	if len(snapshot.RecentOrders) != 3 {
		t.Fatalf("RecentOrders = %d, want 3", len(snapshot.RecentOrders))
	}
	if snapshot.RecentOrders[0].ID != "LKH-20250901-0003" {
		t.Errorf("newest order first, got %q", snapshot.RecentOrders[0].ID)
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	conn := openTestDB(t)

	svc, err := NewService(catalog.NewRepository(conn), orders.NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.ProductCount != 0 || snapshot.OrderCount != 0 || snapshot.PendingOrders != 0 {
		t.Errorf("counts = %+v, want zeros", snapshot)
	}
	if !snapshot.Revenue.IsZero() {
		t.Errorf("Revenue = %s, want 0", snapshot.Revenue)
	}
	if len(snapshot.RecentOrders) != 0 {
		t.Errorf("RecentOrders = %d, want 0", len(snapshot.RecentOrders))
	}
}

func TestSnapshotLimitsRecentOrders(t *testing.T) {
	conn := openTestDB(t)

	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		seedOrder(t, conn, fmt.Sprintf("LKH-20250901-%04d", i), "5.00", enums.OrderStatusPending, base.Add(time.Duration(i)*time.Minute))
	}

	svc, err := NewService(catalog.NewRepository(conn), orders.NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.RecentOrders) != recentOrderLimit {
		t.Fatalf("RecentOrders = %d, want %d", len(snapshot.RecentOrders), recentOrderLimit)
	}
	if snapshot.RecentOrders[0].ID != "LKH-20250901-0007" {
		t.Errorf("newest first, got %q", snapshot.RecentOrders[0].ID)
	}
}
