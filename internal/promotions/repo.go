package promotions

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository encapsulates promotion and bundle persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByCode returns the promotion registered under the coupon code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*Promotion, error) {
	var promo Promotion
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindByID returns the promotion by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Promotion, error) {
	var promo Promotion
	err := r.db.WithContext(ctx).First(&promo, id).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// ListActive returns promotions whose temporal window includes now.
func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]Promotion, error) {
	var promos []Promotion
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("valid_from <= ?", now).
		Where("(valid_to IS NULL OR valid_to >= ?)", now).
		Order("valid_from DESC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}

// ListExpired returns a page of promotions whose window has closed, plus the
// total count for pagination.
func (r *Repository) ListExpired(ctx context.Context, now time.Time, page, limit int) ([]Promotion, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	query := r.db.WithContext(ctx).
		Model(&Promotion{}).
		Where("valid_to IS NOT NULL AND valid_to < ?", now)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var promos []Promotion
	err := query.
		Order("valid_to DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&promos).Error
	if err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}

// Create inserts the promotion.
func (r *Repository) Create(ctx context.Context, promo *Promotion) (*Promotion, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Delete removes the promotion by id, reporting whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Promotion{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// BundleLines resolves the reward items declared for the bundle.
func (r *Repository) BundleLines(ctx context.Context, bundleID int64) ([]BundleLine, error) {
	var rows []BundleItem
	err := r.db.WithContext(ctx).
		Where("bundle_id = ?", bundleID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	lines := make([]BundleLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, BundleLine{ItemID: row.ItemID, Name: row.Name, Quantity: row.Quantity})
	}
	return lines, nil
}
