package controllers

import (
	"net/http"

	"github.com/lukouhub/lukouhub-backend/api/middleware"
	"github.com/lukouhub/lukouhub-backend/api/responses"
	"github.com/lukouhub/lukouhub-backend/api/validators"
	"github.com/lukouhub/lukouhub-backend/internal/cart"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

// addCartItemRequest leaves quantity optional; omitting it means one of
// the product. An explicit out-of-range value still goes through so the
// service can clamp it and warn.
type addCartItemRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  *int  `json:"quantity,omitempty"`
}

func (p addCartItemRequest) quantity() int {
	if p.Quantity == nil {
		return 1
	}
	return *p.Quantity
}

type updateCartItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type applyPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

// GetCart returns the session cart priced for the requested delivery
// option.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		option, err := validators.ParseDeliveryOption(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()), option)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AddCartItem adds a product to the cart, merging with an existing line
// for the same product. Clamped quantities surface as warnings.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := validators.ParseDeliveryOption(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, warnings, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), option, payload.ProductID, payload.quantity())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessWarnings(w, http.StatusOK, dto, warnings)
	}
}

// UpdateCartItem nudges a line's quantity by a signed delta.
func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		index, err := validators.ParsePathInt(r, "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := validators.ParseDeliveryOption(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, warnings, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), option, index, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessWarnings(w, http.StatusOK, dto, warnings)
	}
}

// RemoveCartItem drops a line from the cart by position.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		index, err := validators.ParsePathInt(r, "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := validators.ParseDeliveryOption(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RemoveItem(r.Context(), middleware.SessionIDFromContext(r.Context()), option, index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ClearCart wipes the cart and any applied promotion.
func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// ApplyPromo applies a promo code to the session. A new code replaces
// the previous one; an unknown code also drops it.
func ApplyPromo(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload applyPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := validators.ParseDeliveryOption(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.ApplyPromotion(r.Context(), middleware.SessionIDFromContext(r.Context()), option, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
