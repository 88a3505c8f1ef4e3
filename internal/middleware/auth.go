package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

// UserLookup resolves the token subject to the stored user.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*gormModels.User, error)
}

// AuthMiddleware accepts "Authorization: Bearer <access token>" and puts the
// caller's claims in the request context. Inactive or deleted users are rejected.
func AuthMiddleware(tokens *auth.TokenService, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				common.RespondError(w, start, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			tokenClaims, err := tokens.Parse(strings.TrimSpace(tokenString), constants.TokenTypeAccess)
			if err != nil {
				common.RespondError(w, start, nil, constants.MsgInvalidToken, http.StatusUnauthorized)
				return
			}

			userID, err := tokenClaims.UserID()
			if err != nil {
				common.RespondError(w, start, nil, constants.MsgInvalidToken, http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil || !user.IsActive {
				common.RespondError(w, start, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			setRequestUser(r.Context(), user.ID)
			ctx := auth.SetUserClaims(r.Context(), auth.NewJWTClaims(*user, tokenClaims.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
