package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const requestInfoKey ctxKey = "request_info"

// requestInfo is shared by pointer so inner middleware can fill in the user
// for the access log written by the outer metrics middleware.
type requestInfo struct {
	requestID string
	userID    uint
}

// RequestIDMiddleware adds a request ID to the context if not present
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		info := &requestInfo{requestID: requestID}
		ctx := context.WithValue(r.Context(), requestInfoKey, info)

		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the id assigned by RequestIDMiddleware, or "".
func RequestID(ctx context.Context) string {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		return info.requestID
	}
	return ""
}

func requestUser(ctx context.Context) uint {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		return info.userID
	}
	return 0
}

func setRequestUser(ctx context.Context, userID uint) {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		info.userID = userID
	}
}
