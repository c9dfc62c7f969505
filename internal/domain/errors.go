package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPincode is returned before any I/O for codes that are not six digits with a non-zero lead.
	ErrInvalidPincode = errors.New("invalid pincode: must be 6 digits and not start with 0")
	// ErrPincodeNotFound means neither the primary nor the fallback lookup resolved the pincode.
	ErrPincodeNotFound = errors.New("pincode not found")
	// ErrAddressNotFound means reverse geocoding returned no usable address.
	ErrAddressNotFound = errors.New("address not found")
	// ErrUserRequired is returned by the remote cart API when no user is identified.
	ErrUserRequired = errors.New("user id required")
)
