package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnauthorized       = NewAppError("UNAUTHORIZED", "Unauthorized", http.StatusUnauthorized)
	ErrBadRequest         = NewAppError("BAD_REQUEST", "Invalid request", http.StatusBadRequest)
	ErrInternalServer     = NewAppError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrValidation         = NewAppError("VALIDATION_ERROR", "Validation failed", http.StatusBadRequest)
	ErrDatabase           = NewAppError("DATABASE_ERROR", "Database operation failed", http.StatusInternalServerError)
	ErrUnsupportedMedia   = NewAppError("UNSUPPORTED_MEDIA_TYPE", "Please upload an image file", http.StatusUnsupportedMediaType)
	ErrPayloadTooLarge    = NewAppError("PAYLOAD_TOO_LARGE", "Image is too large", http.StatusRequestEntityTooLarge)
	ErrNotImplemented     = NewAppError("NOT_IMPLEMENTED", "Not implemented", http.StatusNotImplemented)
	ErrSessionEnded       = NewAppError("SESSION_ENDED", "Chat session has ended", http.StatusGone)
	ErrRateLimitExceeded  = NewAppError("RATE_LIMIT_EXCEEDED", "Too many requests. Try again in a few minutes.", http.StatusTooManyRequests)
	ErrScanNotFound       = NewAppError("SCAN_NOT_FOUND", "Scan not found", http.StatusNotFound)
	ErrChatSessionMissing = NewAppError("CHAT_SESSION_NOT_FOUND", "Chat session not found", http.StatusNotFound)
)

type AppError struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so wrapped clones still compare equal to the sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := e.clone()
	clone.Details = make(map[string]interface{}, len(details))
	for k, v := range details {
		clone.Details[k] = v
	}
	return clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := e.clone()
	clone.Err = err
	return clone
}

func (e *AppError) WithMessage(msg string) *AppError {
	clone := e.clone()
	clone.Message = msg
	return clone
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

func WrapError(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
		Details:    make(map[string]interface{}),
	}
}

func (e *AppError) clone() *AppError {
	clone := *e
	clone.Details = make(map[string]interface{}, len(e.Details))
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	return &clone
}

// FromError converts any error into an AppError.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return ParseValidationErrors(err)
	}

	if errors.Is(err, context.Canceled) {
		return WrapError(err, "REQUEST_CANCELED", "Request canceled by client", http.StatusRequestTimeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return WrapError(err, "TIMEOUT", "Request timed out", http.StatusGatewayTimeout)
	}

	return ErrInternalServer.WithError(err)
}

func NewValidationError(field, message string) *AppError {
	return ErrValidation.WithMessage(message).WithDetails(map[string]interface{}{
		"fields": []map[string]string{{"field": field, "message": message}},
	})
}

func NewDatabaseError(err error) *AppError {
	return ErrDatabase.WithError(err)
}

func ParseValidationErrors(err error) *AppError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ErrBadRequest.WithError(err)
	}

	fieldErrors := make([]map[string]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fieldErrors = append(fieldErrors, map[string]string{
			"field":   fieldErr.Field(),
			"message": translateValidationError(fieldErr),
		})
	}

	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: map[string]interface{}{
			"fields": fieldErrors,
		},
	}
}

func translateValidationError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	default:
		return fmt.Sprintf("validation '%s' failed for %s", fe.Tag(), field)
	}
}
