package adminauth

import (
	"context"

	"gorm.io/gorm"

	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
)

// Repository wires admin account persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUsername loads the admin account with the given username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts the admin account.
func (r *Repository) Create(ctx context.Context, user *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}
