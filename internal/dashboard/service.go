package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
)

const recentOrderLimit = 5

// DashboardDTO is the back-office landing view: stock of the catalog,
// order volume, revenue and the freshest orders.
type DashboardDTO struct {
	ProductCount  int64            `json:"productCount"`
	OrderCount    int64            `json:"orderCount"`
	Revenue       decimal.Decimal  `json:"revenue"`
	PendingOrders int64            `json:"pendingOrders"`
	RecentOrders  []RecentOrderDTO `json:"recentOrders"`
}

// RecentOrderDTO is the condensed order row shown on the dashboard.
type RecentOrderDTO struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customerName"`
	Total        decimal.Decimal   `json:"total"`
	Status       enums.OrderStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Service aggregates store metrics for the back office.
type Service interface {
	Snapshot(ctx context.Context) (*DashboardDTO, error)
}

type productCounter interface {
	Count(ctx context.Context) (int64, error)
}

type orderStats interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	SumTotals(ctx context.Context) (decimal.Decimal, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
}

type service struct {
	products productCounter
	orders   orderStats
}

// NewService constructs a dashboard service instance.
func NewService(products productCounter, orders orderStats) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{products: products, orders: orders}, nil
}

func (s *service) Snapshot(ctx context.Context) (*DashboardDTO, error) {
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "counting products")
	}

	orderCount, err := s.orders.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "counting orders")
	}

	revenue, err := s.orders.SumTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "summing revenue")
	}

	pending, err := s.orders.CountByStatus(ctx, enums.OrderStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "counting pending orders")
	}

	recent, err := s.orders.Recent(ctx, recentOrderLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading recent orders")
	}

	recentDTOs := make([]RecentOrderDTO, 0, len(recent))
	for _, order := range recent {
		recentDTOs = append(recentDTOs, RecentOrderDTO{
			ID:           order.PublicID,
			CustomerName: order.CustomerName,
			Total:        order.Total,
			Status:       order.Status,
			CreatedAt:    order.CreatedAt,
		})
	}

	return &DashboardDTO{
		ProductCount:  productCount,
		OrderCount:    orderCount,
		Revenue:       revenue,
		PendingOrders: pending,
		RecentOrders:  recentDTOs,
	}, nil
}
