package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
)

// ListFilter narrows a catalog listing. Zero values mean no filtering.
type ListFilter struct {
	Category string
	Query    string
}

// Repository wires catalog persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns products matching the filter, oldest display id first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var products []models.Product
	if err := query.Order("display_id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByDisplayID loads the product carrying the given storefront id.
func (r *Repository) FindByDisplayID(ctx context.Context, displayID int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "display_id = ?", displayID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// NextDisplayID returns one past the highest display id in use.
func (r *Repository) NextDisplayID(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(MAX(display_id), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create inserts the product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save persists all fields of an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DeleteByDisplayID removes the product; gorm.ErrRecordNotFound when no
// row matched.
func (r *Repository) DeleteByDisplayID(ctx context.Context, displayID int64) error {
	result := r.db.WithContext(ctx).Where("display_id = ?", displayID).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the number of catalog rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
