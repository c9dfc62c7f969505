// Package delivery resolves Indian pincodes and device positions to addresses
// and produces delivery estimates from a static zone table.
package delivery

import "regexp"

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// IsValidPincode reports whether code is exactly six digits with a non-zero
// leading digit. It says nothing about courier coverage.
func IsValidPincode(code string) bool {
	return pincodePattern.MatchString(code)
}
