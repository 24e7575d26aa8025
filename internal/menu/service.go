package menu

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/mesalabs/mesa-backend/pkg/errors"
)

// Service exposes menu reads. The menu itself is seeded via migrations.
type Service struct {
	repo *Repository
}

// NewService builds the menu service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetItem resolves a dish by id. Inactive dishes are treated as missing.
func (s *Service) GetItem(ctx context.Context, id int64) (*MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "menu item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load menu item")
	}
	if !item.Active {
		return nil, apperrors.New(apperrors.CodeNotFound, "menu item not found")
	}
	return item, nil
}

// ListMenu returns every active dish.
func (s *Service) ListMenu(ctx context.Context) ([]MenuItem, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list menu")
	}
	return items, nil
}
