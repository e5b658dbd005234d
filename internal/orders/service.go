package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lukouhub/lukouhub-backend/internal/pricing"
	"github.com/lukouhub/lukouhub-backend/pkg/db"
	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

// Service exposes the order store: checkout writes through Create, the
// storefront reads confirmations, and the back office lists and restates.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetByPublicID(ctx context.Context, publicID string) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, publicID string, status enums.OrderStatus) (*OrderDTO, error)
}

// CreateOrderInput is the frozen checkout snapshot to persist.
type CreateOrderInput struct {
	PublicID            string
	CustomerName        string
	Phone               string
	Email               *string
	DeliveryOption      enums.DeliveryOption
	Address             *string
	PaymentMethod       enums.PaymentMethod
	SpecialInstructions *string
	Items               []pricing.LineItem
	Summary             pricing.Summary
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs an order service instance.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.PublicID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	order := &models.Order{
		PublicID:            input.PublicID,
		CustomerName:        input.CustomerName,
		Phone:               input.Phone,
		Email:               input.Email,
		DeliveryOption:      input.DeliveryOption,
		Address:             input.Address,
		PaymentMethod:       input.PaymentMethod,
		SpecialInstructions: input.SpecialInstructions,
		Subtotal:            input.Summary.Subtotal,
		DeliveryFee:         input.Summary.DeliveryFee,
		Discount:            input.Summary.Discount,
		Total:               input.Summary.Total,
		Status:              enums.OrderStatusPending,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "persisting order")
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.PublicID), "order created")
	return toOrderDTO(order), nil
}

func (s *service) GetByPublicID(ctx context.Context, publicID string) (*OrderDTO, error) {
	order, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading order")
	}
	return toOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]OrderDTO, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "listing orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toOrderDTO(&rows[i]))
	}
	return dtos, nil
}

// UpdateStatus moves the order to any valid status. Transitions are
// deliberately unrestricted; the shop walks orders backwards when a rack
// of donuts goes missing.
func (s *service) UpdateStatus(ctx context.Context, publicID string, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	if err := s.repo.UpdateStatus(ctx, publicID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "updating order status")
	}

	s.logg.Info(
		s.logg.WithFields(ctx, map[string]any{"order_id": publicID, "status": status.String()}),
		"order status updated",
	)
	return s.GetByPublicID(ctx, publicID)
}
