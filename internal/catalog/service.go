package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lukouhub/lukouhub-backend/pkg/db"
	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
	"github.com/lukouhub/lukouhub-backend/pkg/money"
)

// Service exposes catalog reads for the storefront and writes for the
// back office.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	GetByDisplayID(ctx context.Context, displayID int64) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, displayID int64, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, displayID int64) error
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
	Image       string
	Badge       enums.ProductBadge
	Calories    *int
	Gradient    *string
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Description *string
	Image       *string
	Badge       *enums.ProductBadge
	Calories    *int
	Gradient    *string
}

type productStore interface {
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	FindByDisplayID(ctx context.Context, displayID int64) (*models.Product, error)
	NextDisplayID(ctx context.Context) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	DeleteByDisplayID(ctx context.Context, displayID int64) error
}

type service struct {
	repo productStore
	logg *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo productStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// List returns listings matching the filter. Rows that fail validation
// are skipped, not fatal; the storefront still renders the rest.
func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "listing products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		if err := validateListing(&rows[i]); err != nil {
			s.logg.Warn(
				s.logg.WithFields(ctx, map[string]any{"display_id": rows[i].DisplayID, "reason": err.Error()}),
				"skipping invalid catalog row",
			)
			continue
		}
		dtos = append(dtos, *toProductDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetByDisplayID(ctx context.Context, displayID int64) (*ProductDTO, error) {
	product, err := s.repo.FindByDisplayID(ctx, displayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading product")
	}
	if err := validateListing(product); err != nil {
		s.logg.Warn(
			s.logg.WithFields(ctx, map[string]any{"display_id": displayID, "reason": err.Error()}),
			"hiding invalid catalog row",
		)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return toProductDTO(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	displayID, err := s.repo.NextDisplayID(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "allocating display id")
	}

	product := &models.Product{
		DisplayID:   displayID,
		Name:        name,
		Price:       money.Round(input.Price),
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		Image:       input.Image,
		Badge:       input.Badge,
		Calories:    input.Calories,
		Gradient:    input.Gradient,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "display id already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "creating product")
	}

	return toProductDTO(product), nil
}

func (s *service) Update(ctx context.Context, displayID int64, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByDisplayID(ctx, displayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be blank")
		}
		product.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
		}
		product.Price = money.Round(*input.Price)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Badge != nil {
		product.Badge = *input.Badge
	}
	if input.Calories != nil {
		product.Calories = input.Calories
	}
	if input.Gradient != nil {
		product.Gradient = input.Gradient
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "saving product")
	}
	return toProductDTO(product), nil
}

func (s *service) Delete(ctx context.Context, displayID int64) error {
	if err := s.repo.DeleteByDisplayID(ctx, displayID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "deleting product")
	}
	return nil
}

func validateListing(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("blank name")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("negative price")
	}
	return nil
}
