package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lukouhub/lukouhub-backend/api/responses"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// maxSessionIDLen bounds the key fragment written into redis.
const maxSessionIDLen = 128

// Session requires the storefront session header and seeds the request
// context with it. Cart and checkout state is keyed by this id.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing session id header"))
				return
			}
			if len(sessionID) > maxSessionIDLen || strings.ContainsAny(sessionID, " \t\n:") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "malformed session id header"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
