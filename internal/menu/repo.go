package menu

import (
	"context"

	"gorm.io/gorm"
)

// Repository encapsulates menu persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns the menu item by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*MenuItem, error) {
	var item MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListActive returns the active menu ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
