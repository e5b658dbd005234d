package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/lukouhub/lukouhub-backend/internal/catalog"
	"github.com/lukouhub/lukouhub-backend/internal/pricing"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
	"github.com/lukouhub/lukouhub-backend/pkg/money"
	"github.com/lukouhub/lukouhub-backend/pkg/redis"
	"github.com/lukouhub/lukouhub-backend/pkg/types"
)

// Service manages the three session-scoped cart slots: the line items,
// the applied discount and the applied promo code. The three always move
// together; clearing one without the others leaves stale pricing behind.
type Service interface {
	Get(ctx context.Context, sessionID string, option enums.DeliveryOption) (*CartDTO, error)
	AddItem(ctx context.Context, sessionID string, option enums.DeliveryOption, productID int64, quantity int) (*CartDTO, []types.Warning, error)
	UpdateQuantity(ctx context.Context, sessionID string, option enums.DeliveryOption, index, delta int) (*CartDTO, []types.Warning, error)
	RemoveItem(ctx context.Context, sessionID string, option enums.DeliveryOption, index int) (*CartDTO, error)
	Clear(ctx context.Context, sessionID string) error
	ApplyPromotion(ctx context.Context, sessionID string, option enums.DeliveryOption, code string) (*CartDTO, error)
}

type slotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
	DiscountKey(sessionID string) string
	PromoCodeKey(sessionID string) string
}

type productGetter interface {
	GetByDisplayID(ctx context.Context, displayID int64) (*catalog.ProductDTO, error)
}

type service struct {
	slots   slotStore
	catalog productGetter
	logg    *logger.Logger
	ttl     time.Duration
}

// NewService constructs a cart service instance.
func NewService(slots slotStore, catalogSvc productGetter, logg *logger.Logger, ttl time.Duration) (Service, error) {
	if slots == nil {
		return nil, fmt.Errorf("slot store required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &service{slots: slots, catalog: catalogSvc, logg: logg, ttl: ttl}, nil
}

func (s *service) Get(ctx context.Context, sessionID string, option enums.DeliveryOption) (*CartDTO, error) {
	items, err := s.loadItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildDTO(ctx, sessionID, items, option)
}

func (s *service) AddItem(ctx context.Context, sessionID string, option enums.DeliveryOption, productID int64, quantity int) (*CartDTO, []types.Warning, error) {
	product, err := s.catalog.GetByDisplayID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.loadItems(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	var warnings []types.Warning
	lineIdx := findLine(items, productID)
	if lineIdx >= 0 {
		requested := items[lineIdx].Quantity + quantity
		clamped, warning := clampWithWarning(requested)
		items[lineIdx].Quantity = clamped
		warnings = appendWarning(warnings, warning)
	} else {
		clamped, warning := clampWithWarning(quantity)
		items = append(items, pricing.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Image:     product.Image,
			UnitPrice: product.Price,
			Quantity:  clamped,
		})
		warnings = appendWarning(warnings, warning)
	}

	if err := s.saveItems(ctx, sessionID, items); err != nil {
		return nil, nil, err
	}

	dto, err := s.buildDTO(ctx, sessionID, items, option)
	if err != nil {
		return nil, nil, err
	}
	return dto, warnings, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, option enums.DeliveryOption, index, delta int) (*CartDTO, []types.Warning, error) {
	items, err := s.loadItems(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	// Dropping below the minimum clamps to one; lines are only removed
	// through an explicit remove.
	requested := items[index].Quantity + delta
	clamped, warning := clampWithWarning(requested)
	items[index].Quantity = clamped
	warnings := appendWarning(nil, warning)

	if err := s.saveItems(ctx, sessionID, items); err != nil {
		return nil, nil, err
	}

	dto, err := s.buildDTO(ctx, sessionID, items, option)
	if err != nil {
		return nil, nil, err
	}
	return dto, warnings, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, option enums.DeliveryOption, index int) (*CartDTO, error) {
	items, err := s.loadItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	items = append(items[:index], items[index+1:]...)

	if err := s.saveItems(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return s.buildDTO(ctx, sessionID, items, option)
}

// Clear wipes all three slots. Deletion failures are combined so one
// broken slot does not hide another.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	err := multierr.Combine(
		s.slots.Del(ctx, s.slots.CartKey(sessionID)),
		s.slots.Del(ctx, s.slots.DiscountKey(sessionID)),
		s.slots.Del(ctx, s.slots.PromoCodeKey(sessionID)),
	)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "clearing cart")
	}
	return nil
}

// ApplyPromotion replaces any existing promo with the new one. An unknown
// code clears the promo state entirely before reporting the failure, so a
// stale discount never survives a failed attempt.
func (s *service) ApplyPromotion(ctx context.Context, sessionID string, option enums.DeliveryOption, code string) (*CartDTO, error) {
	discount, ok := pricing.LookupPromo(code)
	if !ok {
		clearErr := multierr.Combine(
			s.slots.Del(ctx, s.slots.DiscountKey(sessionID)),
			s.slots.Del(ctx, s.slots.PromoCodeKey(sessionID)),
		)
		if clearErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, clearErr, "clearing promo state")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPromo, "promo code not recognized")
	}

	normalized := pricing.NormalizeCode(code)
	if err := s.slots.Set(ctx, s.slots.DiscountKey(sessionID), discount.StringFixed(2), s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "saving discount")
	}
	if err := s.slots.Set(ctx, s.slots.PromoCodeKey(sessionID), normalized, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "saving promo code")
	}

	items, err := s.loadItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildDTO(ctx, sessionID, items, option)
}

func (s *service) loadItems(ctx context.Context, sessionID string) ([]pricing.LineItem, error) {
	raw, err := s.slots.Get(ctx, s.slots.CartKey(sessionID))
	if err != nil {
		if redis.IsNotFound(err) {
			return []pricing.LineItem{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading cart")
	}

	var items []pricing.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// A corrupt blob means a fresh cart, not a dead session.
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "resetting unreadable cart blob")
		return []pricing.LineItem{}, nil
	}
	return items, nil
}

func (s *service) saveItems(ctx context.Context, sessionID string, items []pricing.LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.slots.Set(ctx, s.slots.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "saving cart")
	}
	return nil
}

func (s *service) loadDiscount(ctx context.Context, sessionID string) decimal.Decimal {
	raw, err := s.slots.Get(ctx, s.slots.DiscountKey(sessionID))
	if err != nil {
		if !redis.IsNotFound(err) {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discount slot unreadable, pricing without it")
		}
		return money.Zero()
	}
	discount, err := money.Parse(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discount slot corrupt, pricing without it")
		return money.Zero()
	}
	return discount
}

func (s *service) loadPromoCode(ctx context.Context, sessionID string) *string {
	raw, err := s.slots.Get(ctx, s.slots.PromoCodeKey(sessionID))
	if err != nil || raw == "" {
		return nil
	}
	return &raw
}

func (s *service) buildDTO(ctx context.Context, sessionID string, items []pricing.LineItem, option enums.DeliveryOption) (*CartDTO, error) {
	if !option.IsValid() {
		option = enums.DeliveryOptionPickup
	}
	discount := s.loadDiscount(ctx, sessionID)
	return &CartDTO{
		Items:     items,
		Summary:   pricing.Summarize(items, option, discount),
		PromoCode: s.loadPromoCode(ctx, sessionID),
	}, nil
}

func findLine(items []pricing.LineItem, productID int64) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func clampWithWarning(requested int) (int, *types.Warning) {
	clamped, adjusted, belowMin := pricing.ClampQuantity(requested)
	if !adjusted {
		return clamped, nil
	}
	if belowMin {
		return clamped, &types.Warning{
			Code:    types.WarningBelowMinimum,
			Message: fmt.Sprintf("quantity raised to the minimum of %d", pricing.MinQuantity),
		}
	}
	return clamped, &types.Warning{
		Code:    types.WarningAboveMaximum,
		Message: fmt.Sprintf("quantity capped at the maximum of %d", pricing.MaxQuantity),
	}
}

func appendWarning(warnings []types.Warning, warning *types.Warning) []types.Warning {
	if warning == nil {
		return warnings
	}
	return append(warnings, *warning)
}
