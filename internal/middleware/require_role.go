package middleware

import (
	"net/http"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
)

// RequireOperator lets admins, operators and superusers through.
func RequireOperator() func(http.Handler) http.Handler {
	return requireAccess(func(c auth.UserClaims) bool { return c.HasOperatorAccess() }, constants.MsgPermissionOperator)
}

// RequireAdmin lets admins and superusers through.
func RequireAdmin() func(http.Handler) http.Handler {
	return requireAccess(func(c auth.UserClaims) bool { return c.HasAdminAccess() }, constants.MsgPermissionAdmin)
}

func requireAccess(allowed func(auth.UserClaims) bool, denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			if !allowed(claims) {
				common.RespondPermissionDenied(w, time.Now(), denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
