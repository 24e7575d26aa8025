package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesalabs/mesa-backend/pkg/enums"
	apperrors "github.com/mesalabs/mesa-backend/pkg/errors"
)

// Service persists submitted carts as orders. It never mutates carts: the
// checkout controller hands it a frozen snapshot.
type Service struct {
	repo *Repository
}

// NewService builds the order service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// PlaceItem is one cart line at checkout time.
type PlaceItem struct {
	ItemID    int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Origin    enums.ItemOrigin
}

// PlaceInput is a frozen cart handed over at checkout.
type PlaceInput struct {
	CartID         uuid.UUID
	PromotionID    *int64
	Items          []PlaceItem
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// PlaceOrder persists the snapshot and returns the stored order.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "cannot place an order from an empty cart")
	}
	if input.CartID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "cart id is required")
	}

	order := &Order{
		ID:             uuid.New(),
		CartID:         input.CartID,
		PromotionID:    input.PromotionID,
		Subtotal:       input.Subtotal,
		DiscountAmount: input.DiscountAmount,
		Total:          input.Total,
		Status:         enums.OrderStatusPlaced,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, OrderItem{
			OrderID:   order.ID,
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Origin:    item.Origin,
		})
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to place order")
	}
	return created, nil
}

// GetOrder returns a placed order with its items.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load order")
	}
	return order, nil
}
