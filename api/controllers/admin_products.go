package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lukouhub/lukouhub-backend/api/responses"
	"github.com/lukouhub/lukouhub-backend/api/validators"
	"github.com/lukouhub/lukouhub-backend/internal/catalog"
	"github.com/lukouhub/lukouhub-backend/pkg/enums"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Badge       string          `json:"badge,omitempty"`
	Calories    *int            `json:"calories,omitempty" validate:"omitempty,min=0"`
	Gradient    *string         `json:"gradient,omitempty"`
}

func (p createProductRequest) toInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Badge:       enums.ProductBadge(p.Badge),
		Calories:    p.Calories,
		Gradient:    p.Gradient,
	}
}

type updateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Badge       *string          `json:"badge,omitempty"`
	Calories    *int             `json:"calories,omitempty" validate:"omitempty,min=0"`
	Gradient    *string          `json:"gradient,omitempty"`
}

func (p updateProductRequest) toInput() catalog.UpdateProductInput {
	input := catalog.UpdateProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Calories:    p.Calories,
		Gradient:    p.Gradient,
	}
	if p.Badge != nil {
		badge := enums.ProductBadge(*p.Badge)
		input.Badge = &badge
	}
	return input
}

// AdminCreateProduct adds a listing to the catalog.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial edit to a listing.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		displayID, err := validators.ParsePathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), displayID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a listing from the catalog.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		displayID, err := validators.ParsePathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), displayID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
