package api

import (
	"errors"
	"net/http"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/middleware"
	"astra/telemetry-backend/internal/services"

	"go.uber.org/zap"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// handleServiceError maps service errors to HTTP responses. Unknown errors
// are logged and answered with a generic 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error) {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		requestLogger(r).Errorw("unhandled service error", "error", err)
		common.RespondError(w, initTime, nil, constants.MsgUnexpected, http.StatusInternalServerError)
		return
	}

	status := mapErrorCodeToHTTPStatus(se.Code)
	if status == http.StatusInternalServerError {
		requestLogger(r).Errorw("service failure", "code", se.Code, "error", se.Err)
		common.RespondError(w, initTime, nil, constants.MsgUnexpected, status)
		return
	}

	message := se.Message
	if message == "" {
		message = constants.GetErrorMessage(se.Code)
	}
	if len(se.Fields) > 0 && status == http.StatusBadRequest {
		common.RespondFieldErrors(w, initTime, message, se.Fields)
		return
	}
	common.RespondError(w, initTime, nil, message, status)
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(errorCode string) int {
	switch errorCode {
	// 400 Bad Request - Client errors (user action required)
	case constants.ErrCodeValidation,
		constants.ErrCodeInvalidTransition,
		constants.ErrCodeDuplicate,
		constants.ErrCodeInvalidToken:
		return http.StatusBadRequest

	// 401 Unauthorized - Authentication failed
	case constants.ErrCodeAuthentication, constants.ErrCodeAccountInactive:
		return http.StatusUnauthorized

	// 403 Forbidden - Authenticated but no permission
	case constants.ErrCodePermissionDenied:
		return http.StatusForbidden

	// 404 Not Found - Resource doesn't exist
	case constants.ErrCodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(r *http.Request) *zap.SugaredLogger {
	var userID uint
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		userID = claims.UserID()
	}
	return logging.WithRequest(middleware.RequestID(r.Context()), userID, r.URL.Path)
}

// decodeBody decodes the JSON body into dst and answers 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, initTime time.Time, dst any) bool {
	if err := common.DecodeJSON(r, dst); err != nil {
		common.RespondFieldErrors(w, initTime, constants.MsgInvalidBody, map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// pathID reads a numeric URL parameter and answers 404 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, initTime time.Time, name string) (uint, bool) {
	id, err := common.URLParamID(r, name)
	if err != nil {
		common.RespondError(w, initTime, nil, constants.MsgInvalidID, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// callerClaims returns the authenticated caller or answers 401.
func callerClaims(w http.ResponseWriter, r *http.Request, initTime time.Time) (auth.UserClaims, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

// queryError answers a malformed query parameter with a field-level 400.
func queryError(w http.ResponseWriter, initTime time.Time, field string, err error) {
	common.RespondFieldErrors(w, initTime, constants.MsgValidationFailed, map[string]string{field: err.Error()})
}
