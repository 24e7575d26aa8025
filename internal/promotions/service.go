package promotions

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesalabs/mesa-backend/pkg/db"
	"github.com/mesalabs/mesa-backend/pkg/enums"
	apperrors "github.com/mesalabs/mesa-backend/pkg/errors"
)

// Service exposes promotion lookup and administration on top of the
// repository.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds the promotion service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput carries a new promotion definition.
type CreateInput struct {
	Name              string
	Code              string
	Kind              enums.PromotionKind
	PercentOff        *int
	FlatAmount        *decimal.Decimal
	BundleID          *int64
	ApplicationMethod enums.ApplicationMethod
	ValidFrom         time.Time
	ValidTo           *time.Time
	Conditions        Conditions
}

// GetByCode resolves the promotion for a coupon code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Promotion, error) {
	if code == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "promotion code is required")
	}
	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "promotion not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load promotion")
	}
	return promo, nil
}

// GetByID resolves a promotion by primary key.
func (s *Service) GetByID(ctx context.Context, id int64) (*Promotion, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "promotion not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load promotion")
	}
	return promo, nil
}

// ListActive returns promotions currently inside their validity window.
func (s *Service) ListActive(ctx context.Context) ([]Promotion, error) {
	promos, err := s.repo.ListActive(ctx, s.now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list active promotions")
	}
	return promos, nil
}

// ExpiredPage is one page of expired promotions.
type ExpiredPage struct {
	Promotions []Promotion `json:"promotions"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}

// ListExpired returns a page of promotions whose window has closed.
func (s *Service) ListExpired(ctx context.Context, page, limit int) (*ExpiredPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 5
	}
	promos, total, err := s.repo.ListExpired(ctx, s.now(), page, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list expired promotions")
	}
	return &ExpiredPage{Promotions: promos, Total: total, Page: page, Limit: limit}, nil
}

// Create validates and inserts a promotion. The discount field must match the
// declared kind, and bundle promotions must reference a bundle with reward
// rows.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Promotion, error) {
	if err := s.validateCreate(ctx, input); err != nil {
		return nil, err
	}

	method := input.ApplicationMethod
	if method == "" {
		method = enums.ApplicationCode
	}

	promo := &Promotion{
		Name:              input.Name,
		Code:              input.Code,
		Kind:              input.Kind,
		PercentOff:        input.PercentOff,
		FlatAmount:        input.FlatAmount,
		BundleID:          input.BundleID,
		Active:            true,
		ValidFrom:         input.ValidFrom,
		ValidTo:           input.ValidTo,
		ApplicationMethod: method,
		Conditions:        input.Conditions,
	}

	created, err := s.repo.Create(ctx, promo)
	if err != nil {
		if db.IsUniqueViolation(err, "promotions_code_key") {
			return nil, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("promotion code %q already exists", input.Code))
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create promotion")
	}
	return created, nil
}

// Delete removes a promotion.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to delete promotion")
	}
	if !deleted {
		return apperrors.New(apperrors.CodeNotFound, "promotion not found")
	}
	return nil
}

// ResolveBundleLines loads the reward items a bundle promotion grants. An
// empty bundle is a data error: applying it would discount nothing.
func (s *Service) ResolveBundleLines(ctx context.Context, bundleID int64) ([]BundleLine, error) {
	lines, err := s.repo.BundleLines(ctx, bundleID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to resolve bundle items")
	}
	if len(lines) == 0 {
		return nil, apperrors.New(apperrors.CodeBundleData, "bundle has no reward items configured")
	}
	return lines, nil
}

func (s *Service) validateCreate(ctx context.Context, input CreateInput) error {
	if input.Name == "" {
		return apperrors.New(apperrors.CodeValidation, "promotion name is required")
	}
	if input.Code == "" {
		return apperrors.New(apperrors.CodeValidation, "promotion code is required")
	}
	if !input.Kind.IsValid() {
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid promotion kind %q", input.Kind))
	}
	if input.ApplicationMethod != "" && !input.ApplicationMethod.IsValid() {
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid application method %q", input.ApplicationMethod))
	}
	if input.ValidTo != nil && input.ValidTo.Before(input.ValidFrom) {
		return apperrors.New(apperrors.CodeValidation, "valid_to must not precede valid_from")
	}

	switch input.Kind {
	case enums.PromotionPercentage:
		if input.PercentOff == nil {
			return apperrors.New(apperrors.CodeValidation, "percentage promotions require percent_off")
		}
		if *input.PercentOff < 1 || *input.PercentOff > 100 {
			return apperrors.New(apperrors.CodeValidation, "percent_off must be between 1 and 100")
		}
		if input.FlatAmount != nil || input.BundleID != nil {
			return apperrors.New(apperrors.CodeValidation, "percentage promotions accept only percent_off")
		}
	case enums.PromotionFixedAmount:
		if input.FlatAmount == nil {
			return apperrors.New(apperrors.CodeValidation, "fixed amount promotions require flat_amount")
		}
		if input.FlatAmount.IsNegative() {
			return apperrors.New(apperrors.CodeValidation, "flat_amount must not be negative")
		}
		if input.PercentOff != nil || input.BundleID != nil {
			return apperrors.New(apperrors.CodeValidation, "fixed amount promotions accept only flat_amount")
		}
	case enums.PromotionBundle:
		if input.BundleID == nil {
			return apperrors.New(apperrors.CodeValidation, "bundle promotions require bundle_id")
		}
		if input.PercentOff != nil || input.FlatAmount != nil {
			return apperrors.New(apperrors.CodeValidation, "bundle promotions accept only bundle_id")
		}
		lines, err := s.repo.BundleLines(ctx, *input.BundleID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "failed to verify bundle items")
		}
		if len(lines) == 0 {
			return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("bundle %d has no reward items", *input.BundleID))
		}
	}
	return nil
}
