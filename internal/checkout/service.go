package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lukouhub/lukouhub-backend/internal/cart"
	"github.com/lukouhub/lukouhub-backend/internal/orders"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

// Service turns a session's cart into a persisted order. At most one
// checkout per session runs at a time; a second submission while the
// first is in flight is rejected, not queued.
type Service interface {
	Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*orders.OrderDTO, error)
}

// CheckoutInput is the customer-entered form. Address fields are only
// required for delivery orders.
type CheckoutInput struct {
	CustomerName        string
	Phone               string
	Email               *string
	DeliveryOption      enums.DeliveryOption
	Street              string
	City                string
	Postcode            string
	State               string
	PaymentMethod       enums.PaymentMethod
	SpecialInstructions *string
}

type cartStore interface {
	Get(ctx context.Context, sessionID string, option enums.DeliveryOption) (*cart.CartDTO, error)
	Clear(ctx context.Context, sessionID string) error
}

type orderCreator interface {
	Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error)
}

// flightStore reserves the per-session checkout slot. Backed by redis so
// the guard holds across api instances, same as the cart slots.
type flightStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutFlightKey(sessionID string) string
}

// flightTTL caps how long a crashed instance can wedge a session's
// checkout before the slot expires on its own.
const flightTTL = 30 * time.Second

type service struct {
	carts   cartStore
	orders  orderCreator
	flights flightStore
	logg    *logger.Logger

	now     func() time.Time
	randInt func(n int) int
}

// NewService constructs a checkout service instance.
func NewService(carts cartStore, orderSvc orderCreator, flights flightStore, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if flights == nil {
		return nil, fmt.Errorf("flight store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:   carts,
		orders:  orderSvc,
		flights: flights,
		logg:    logg,
		now:     time.Now,
		randInt: rand.Intn,
	}, nil
}

func (s *service) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*orders.OrderDTO, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	if err := s.acquire(ctx, sessionID); err != nil {
		return nil, err
	}
	defer s.release(ctx, sessionID)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Always reprice from the live cart; the client never dictates totals.
	cartDTO, err := s.carts.Get(ctx, sessionID, input.DeliveryOption)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order, err := s.orders.Create(ctx, orders.CreateOrderInput{
		PublicID:            s.newOrderID(),
		CustomerName:        strings.TrimSpace(input.CustomerName),
		Phone:               strings.TrimSpace(input.Phone),
		Email:               input.Email,
		DeliveryOption:      input.DeliveryOption,
		Address:             composeAddress(input),
		PaymentMethod:       input.PaymentMethod,
		SpecialInstructions: input.SpecialInstructions,
		Items:               cartDTO.Items,
		Summary:             cartDTO.Summary,
	})
	if err != nil {
		// The cart stays intact so the customer can retry.
		return nil, err
	}

	orderCtx := s.logg.WithOrderID(s.logg.WithSessionID(ctx, sessionID), order.ID)
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order is already placed; a lingering cart is the lesser evil.
		s.logg.Error(orderCtx, "order placed but cart cleanup failed", err)
	} else {
		s.logg.Info(orderCtx, "checkout completed")
	}

	return order, nil
}

// newOrderID builds an order number like LKH-20250901-0042. The random
// suffix is not unique by construction; the order store's unique index
// is what surfaces the rare collision.
func (s *service) newOrderID() string {
	return fmt.Sprintf("LKH-%s-%04d", s.now().Format("20060102"), s.randInt(10000))
}

func (s *service) acquire(ctx context.Context, sessionID string) error {
	ok, err := s.flights.SetNX(ctx, s.flights.CheckoutFlightKey(sessionID), "1", flightTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "reserving checkout slot")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress for this session")
	}
	return nil
}

func (s *service) release(ctx context.Context, sessionID string) {
	if err := s.flights.Del(ctx, s.flights.CheckoutFlightKey(sessionID)); err != nil {
		// The TTL picks up the slack if the delete is lost.
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "releasing checkout slot failed", err)
	}
}

func validateInput(input CheckoutInput) error {
	missing := []string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		missing = append(missing, "customerName")
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing = append(missing, "phone")
	}
	if !input.DeliveryOption.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery option")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.DeliveryOption == enums.DeliveryOptionDelivery {
		if strings.TrimSpace(input.Street) == "" {
			missing = append(missing, "street")
		}
		if strings.TrimSpace(input.City) == "" {
			missing = append(missing, "city")
		}
		if strings.TrimSpace(input.Postcode) == "" {
			missing = append(missing, "postcode")
		}
		if strings.TrimSpace(input.State) == "" {
			missing = append(missing, "state")
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "required fields missing").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}

// composeAddress renders the delivery address as a single line:
// "street, postcode city, state". Pickup orders carry no address.
func composeAddress(input CheckoutInput) *string {
	if input.DeliveryOption != enums.DeliveryOptionDelivery {
		return nil
	}
	address := fmt.Sprintf("%s, %s %s, %s",
		strings.TrimSpace(input.Street),
		strings.TrimSpace(input.Postcode),
		strings.TrimSpace(input.City),
		strings.TrimSpace(input.State),
	)
	return &address
}
