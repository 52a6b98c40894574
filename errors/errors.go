package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode định danh loại lỗi trả về cho client
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists      ErrorCode = "USER_EXISTS"
	ErrCodeUserBlocked     ErrorCode = "USER_BLOCKED"
	ErrCodeInvalidRole     ErrorCode = "INVALID_ROLE"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Business errors
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	ErrCodeWindowClosed     ErrorCode = "INTEREST_WINDOW_CLOSED"
	ErrCodeDuplicate        ErrorCode = "DUPLICATE"
	ErrCodePromoCode        ErrorCode = "INVALID_PROMO_CODE"
	ErrCodeInvalidState     ErrorCode = "INVALID_STATE"
	ErrCodeUpload           ErrorCode = "UPLOAD_FAILED"
)

// AppError is the error type that crosses the service/controller boundary.
// Status is the HTTP status the controller should answer with.
type AppError struct {
	Code    ErrorCode
	Message string
	Status  int
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới, status suy ra từ code
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  statusFor(code),
		Err:     err,
	}
}

// NewValidationError wraps field-level validation messages.
func NewValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Invalid request data",
		Status:  http.StatusBadRequest,
		Fields:  fields,
	}
}

func statusFor(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeMissingToken, ErrCodeInvalidPassword:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeUserBlocked, ErrCodeInvalidRole:
		return http.StatusForbidden
	case ErrCodeUserNotFound, ErrCodeDBNotFound:
		return http.StatusNotFound
	case ErrCodeUserExists, ErrCodeDBDuplicate, ErrCodeDuplicate, ErrCodeWindowClosed, ErrCodeInvalidState:
		return http.StatusConflict
	case ErrCodeValidation, ErrCodeRequiredField, ErrCodeInvalidFormat, ErrCodeInvalidOperation, ErrCodePromoCode:
		return http.StatusBadRequest
	case ErrCodeUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is, As and New re-export the standard helpers so callers importing this
// package under its own name keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }

var (
	ErrNotFound     = NewAppError(ErrCodeDBNotFound, "Resource not found", nil)
	ErrForbidden    = NewAppError(ErrCodeForbidden, "Access denied", nil)
	ErrUnauthorized = NewAppError(ErrCodeUnauthorized, "Not authenticated", nil)

	// User errors
	ErrUserNotFound      = NewAppError(ErrCodeUserNotFound, "User not found", nil)
	ErrUserAlreadyExists = NewAppError(ErrCodeUserExists, "Email or phone number already in use", nil)
	ErrInvalidPassword   = NewAppError(ErrCodeInvalidPassword, "Invalid email or password", nil)
	ErrUserBlocked       = NewAppError(ErrCodeUserBlocked, "Account is blocked", nil)

	// Discount / interest errors
	ErrDiscountNotFound  = NewAppError(ErrCodeDBNotFound, "Discount not found", nil)
	ErrInterestNotFound  = NewAppError(ErrCodeDBNotFound, "Interest not found", nil)
	ErrInterestExists    = NewAppError(ErrCodeDuplicate, "Interest already registered for this discount", nil)
	ErrInterestWindow    = NewAppError(ErrCodeWindowClosed, "Interest window is closed for this discount", nil)
	ErrDiscountLocked    = NewAppError(ErrCodeInvalidState, "Discount can no longer be changed", nil)
	ErrDiscountNotActive = NewAppError(ErrCodeInvalidState, "Discount is not active", nil)

	// Promo code errors
	ErrPromoCodeInvalid = NewAppError(ErrCodePromoCode, "Promo code is invalid or already used", nil)

	// Booking errors
	ErrBookingNotFound   = NewAppError(ErrCodeDBNotFound, "Booking not found", nil)
	ErrInvalidTransition = NewAppError(ErrCodeInvalidState, "Status change not allowed", nil)

	// Catalog / review errors
	ErrServiceNotFound = NewAppError(ErrCodeDBNotFound, "Service not found", nil)
	ErrReviewNotFound  = NewAppError(ErrCodeDBNotFound, "Review not found", nil)
	ErrReviewExists    = NewAppError(ErrCodeDuplicate, "You have already reviewed this service", nil)
)
