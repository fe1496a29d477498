package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrStatusUnprocessable  = http.StatusUnprocessableEntity
	ErrStatusUnavailable    = http.StatusServiceUnavailable
)

var (
	ErrInternalServer       = errors.New("Internal server error")
	ErrClient               = errors.New("Bad request")
	ErrNotFound             = errors.New("Resource not found")
	ErrInvalidSession       = errors.New("Session token is invalid or expired")
	ErrInvalidQuantity      = errors.New("Quantity must be a positive integer")
	ErrInvalidAmount        = errors.New("Amount must be a non-negative integer")
	ErrInvalidPaymentMethod = errors.New("Payment method must be one of qris or bank")
	ErrMenuItemNotFound     = errors.New("Menu item not found")
	ErrOrderNotFound        = errors.New("Order not found")
	ErrEmptyCart            = errors.New("Cart is empty")
	ErrStoreUnavailable     = errors.New("Order storage is unavailable")
	ErrConflict             = errors.New("Conflicting record found")
)

var errorMap = map[error]int{
	ErrInternalServer:       ErrStatusInternalServer,
	ErrClient:               ErrStatusClient,
	ErrNotFound:             ErrStatusNotFound,
	ErrInvalidSession:       ErrStatusUnauthorized,
	ErrInvalidQuantity:      ErrStatusClient,
	ErrInvalidAmount:        ErrStatusClient,
	ErrInvalidPaymentMethod: ErrStatusClient,
	ErrMenuItemNotFound:     ErrStatusNotFound,
	ErrOrderNotFound:        ErrStatusNotFound,
	ErrEmptyCart:            ErrStatusUnprocessable,
	ErrStoreUnavailable:     ErrStatusUnavailable,
	ErrConflict:             ErrStatusConflict,
}

// GetErrorStatusCode resolves wrapped errors against the known sentinels and
// falls back to 500.
func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for known, errStatusCode := range errorMap {
		if errors.Is(err, known) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}
