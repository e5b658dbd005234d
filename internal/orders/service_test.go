package orders

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lukouhub/lukouhub-backend/internal/pricing"
	"github.com/lukouhub/lukouhub-backend/pkg/db"
	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// An in-memory sqlite database exists per connection.
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) Service {
	t.Helper()

	conn := openTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "orders-test", Level: zerolog.ErrorLevel, Output: io.Discard})

	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func sampleInput(publicID string) CreateOrderInput {
	address := "12 Jalan Gula, 43000 Kajang, Selangor"
	return CreateOrderInput{
		PublicID:       publicID,
		CustomerName:   "Aina Rahman",
		Phone:          "012-3456789",
		DeliveryOption: enums.DeliveryOptionDelivery,
		Address:        &address,
		PaymentMethod:  enums.PaymentMethodCash,
		Items: []pricing.LineItem{
			{ProductID: 1, Name: "Classic Glazed", UnitPrice: decimal.NewFromFloat(8.90), Quantity: 2},
		},
		Summary: pricing.Summary{
			Subtotal:    decimal.NewFromFloat(17.80),
			DeliveryFee: decimal.NewFromFloat(5.00),
			Discount:    decimal.Zero,
			Total:       decimal.NewFromFloat(22.80),
		},
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleInput("LKH-20250901-0001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != enums.OrderStatusPending {
		t.Errorf("Status = %s, want pending", created.Status)
	}

	got, err := svc.GetByPublicID(ctx, "LKH-20250901-0001")
	if err != nil {
		t.Fatalf("GetByPublicID: %v", err)
	}
	if got.CustomerName != "Aina Rahman" {
		t.Errorf("CustomerName = %q", got.CustomerName)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("Items = %+v", got.Items)
	}
	if gotTotal := got.Summary.Total.StringFixed(2); gotTotal != "22.80" {
		t.Errorf("Total = %s, want 22.80", gotTotal)
	}
}

func TestCreateDuplicateOrderNumberConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleInput("LKH-20250901-0007")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, sampleInput("LKH-20250901-0007"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("duplicate error = %v, want CONFLICT", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := sampleInput("")
	if _, err := svc.Create(ctx, input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("blank order number error = %v, want VALIDATION_ERROR", err)
	}

	input = sampleInput("LKH-20250901-0002")
	input.Items = nil
	if _, err := svc.Create(ctx, input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("empty items error = %v, want VALIDATION_ERROR", err)
	}
}

func TestGetMissingOrder(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByPublicID(context.Background(), "LKH-20250901-9999")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleInput("LKH-20250901-0001")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, sampleInput("LKH-20250901-0002")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "LKH-20250901-0002", enums.OrderStatusReady); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	all, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}

	ready := enums.OrderStatusReady
	filtered, err := svc.List(ctx, ListFilter{Status: &ready})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "LKH-20250901-0002" {
		t.Fatalf("filtered = %+v", filtered)
	}

	bogus := enums.OrderStatus("burnt")
	if _, err := svc.List(ctx, ListFilter{Status: &bogus}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("bogus status error = %v, want VALIDATION_ERROR", err)
	}
}

func TestUpdateStatusIsPermissive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sampleInput("LKH-20250901-0001")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Forward and backward moves are both legal.
	steps := []enums.OrderStatus{
		enums.OrderStatusCompleted,
		enums.OrderStatusPreparing,
		enums.OrderStatusPending,
		enums.OrderStatusReady,
	}
	for _, status := range steps {
		updated, err := svc.UpdateStatus(ctx, "LKH-20250901-0001", status)
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("Status = %s, want %s", updated.Status, status)
		}
	}

	if _, err := svc.UpdateStatus(ctx, "LKH-20250901-0001", enums.OrderStatus("burnt")); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("invalid status error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := svc.UpdateStatus(ctx, "LKH-00000000-0000", enums.OrderStatusReady); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing order error = %v, want NOT_FOUND", err)
	}
}
