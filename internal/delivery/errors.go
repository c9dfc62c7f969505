package delivery

import (
	"context"
	"errors"

	"ataka-storefront/internal/domain"
)

// Location failures. Each message is suitable for showing to the user.
var (
	ErrPermissionDenied    = errors.New("location access denied by user")
	ErrPositionUnavailable = errors.New("location information unavailable")
	ErrTimeout             = errors.New("location request timed out")
)

// Reason maps err to a short human-readable reason.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return ErrPermissionDenied.Error()
	case errors.Is(err, ErrPositionUnavailable):
		return ErrPositionUnavailable.Error()
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout.Error()
	case errors.Is(err, domain.ErrInvalidPincode):
		return "please enter a valid 6-digit pincode"
	case errors.Is(err, domain.ErrPincodeNotFound):
		return "pincode not found"
	case errors.Is(err, domain.ErrAddressNotFound):
		return "address not found"
	default:
		return err.Error()
	}
}
