package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
)

// ParseDeliveryOption reads the delivery_option query parameter, falling
// back to pickup when absent.
func ParseDeliveryOption(r *http.Request) (enums.DeliveryOption, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("delivery_option"))
	if raw == "" {
		return enums.DeliveryOptionPickup, nil
	}
	option, err := enums.ParseDeliveryOption(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery option").
			WithDetails(map[string]any{"field": "delivery_option", "value": raw})
	}
	return option, nil
}

// ParseOrderStatusFilter reads the optional status query parameter. A nil
// result means no filtering.
func ParseOrderStatusFilter(r *http.Request) (*enums.OrderStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"field": "status", "value": raw})
	}
	return &status, nil
}

// ParsePathInt64 reads a numeric chi URL parameter.
func ParsePathInt64(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParsePathInt reads a numeric chi URL parameter as an int.
func ParsePathInt(r *http.Request, key string) (int, error) {
	value, err := ParsePathInt64(r, key)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}
