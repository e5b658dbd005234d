package controllers

import (
	"net/http"

	"github.com/lukouhub/lukouhub-backend/api/responses"
	"github.com/lukouhub/lukouhub-backend/api/validators"
	"github.com/lukouhub/lukouhub-backend/internal/adminauth"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin exchanges back-office credentials for a bearer token.
func AdminLogin(svc adminauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Username, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
