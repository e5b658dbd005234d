package controllers

import (
	"net/http"

	"github.com/lukouhub/lukouhub-backend/api/responses"
	"github.com/lukouhub/lukouhub-backend/internal/dashboard"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

// AdminDashboard serves the back-office landing page metrics.
func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		snapshot, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
