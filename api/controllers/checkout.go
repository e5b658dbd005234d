package controllers

import (
	"net/http"

	"github.com/lukouhub/lukouhub-backend/api/middleware"
	"github.com/lukouhub/lukouhub-backend/api/responses"
	"github.com/lukouhub/lukouhub-backend/api/validators"
	"github.com/lukouhub/lukouhub-backend/internal/checkout"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName        string  `json:"customerName" validate:"required"`
	Phone               string  `json:"phone" validate:"required"`
	Email               *string `json:"email,omitempty" validate:"omitempty,email"`
	DeliveryOption      string  `json:"deliveryOption" validate:"required,oneof=pickup delivery"`
	Street              string  `json:"street,omitempty"`
	City                string  `json:"city,omitempty"`
	Postcode            string  `json:"postcode,omitempty"`
	State               string  `json:"state,omitempty"`
	PaymentMethod       string  `json:"paymentMethod" validate:"required,oneof=cash card ewallet"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

func (p checkoutRequest) toInput() checkout.CheckoutInput {
	option, _ := enums.ParseDeliveryOption(p.DeliveryOption)
	method, _ := enums.ParsePaymentMethod(p.PaymentMethod)

	return checkout.CheckoutInput{
		CustomerName:        p.CustomerName,
		Phone:               p.Phone,
		Email:               p.Email,
		DeliveryOption:      option,
		Street:              p.Street,
		City:                p.City,
		Postcode:            p.Postcode,
		State:               p.State,
		PaymentMethod:       method,
		SpecialInstructions: p.SpecialInstructions,
	}
}

// Checkout converts the session cart into an order and empties the
// session on success.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
