package constants

// Service error codes
const (
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeDuplicate         = "DUPLICATE"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodePermissionDenied  = "PERMISSION_DENIED"
	ErrCodeAuthentication    = "AUTHENTICATION_FAILED"
	ErrCodeAccountInactive   = "ACCOUNT_INACTIVE"
	ErrCodeInvalidToken      = "INVALID_TOKEN"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

const (
	MsgInvalidBody         = "Invalid request body"
	MsgInvalidID           = "Invalid id"
	MsgValidationFailed    = "Validation failed"
	MsgInvalidCredentials  = "Unable to log in with provided credentials"
	MsgAccountInactive     = "User account is disabled"
	MsgMissingCredentials  = "Must include \"email\" and \"password\""
	MsgInvalidToken        = "Invalid token"
	MsgUnauthorized        = "Authentication credentials were not provided or are invalid"
	MsgUnexpected          = "An unexpected error occurred"
	MsgPasswordMismatch    = "Passwords do not match"
	MsgWrongOldPassword    = "Current password is incorrect"
	MsgTooManyRequests     = "Too many requests"
	MsgPermissionOperator  = "You do not have permission to perform this action (operator access required)"
	MsgPermissionAdmin     = "You do not have permission to perform this action (admin access required)"
	MsgPermissionSelfAdmin = "You can only modify your own account"
)

var errorMessages = map[string]string{
	ErrCodeValidation:        MsgValidationFailed,
	ErrCodeInvalidTransition: "Flight status transition not allowed",
	ErrCodeDuplicate:         "Resource already exists",
	ErrCodeNotFound:          "Resource not found",
	ErrCodePermissionDenied:  "Permission denied",
	ErrCodeAuthentication:    MsgInvalidCredentials,
	ErrCodeAccountInactive:   MsgAccountInactive,
	ErrCodeInvalidToken:      MsgInvalidToken,
	ErrCodeInternal:          MsgUnexpected,
}

// GetErrorMessage returns the default message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return MsgUnexpected
}
