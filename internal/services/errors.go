package services

import (
	"errors"
	"fmt"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"

	"gorm.io/gorm"
)

// ServiceError carries an error code the API layer maps to an HTTP status,
// plus optional per-field validation messages.
type ServiceError struct {
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// FieldErrors collects validation problems keyed by request field.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// Err returns a VALIDATION_FAILED error when any field failed, else nil.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ServiceError{
		Code:    constants.ErrCodeValidation,
		Message: constants.MsgValidationFailed,
		Fields:  f,
	}
}

func newError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

func validationError(field, msg string) *ServiceError {
	return &ServiceError{
		Code:    constants.ErrCodeValidation,
		Message: msg,
		Fields:  map[string]string{field: msg},
	}
}

func notFound(what string) *ServiceError {
	return &ServiceError{
		Code:    constants.ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", what),
	}
}

// fromRepo classifies a repository error.
func fromRepo(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return &ServiceError{
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("%s not found", what),
			Err:     err,
		}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ServiceError{
			Code:    constants.ErrCodeDuplicate,
			Message: fmt.Sprintf("%s already exists", what),
			Err:     err,
		}
	}
	return &ServiceError{
		Code:    constants.ErrCodeInternal,
		Message: constants.MsgUnexpected,
		Err:     err,
	}
}

// CodeOf returns the ServiceError code carried by err, or "".
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
