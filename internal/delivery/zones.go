package delivery

import (
	"github.com/shopspring/decimal"

	"ataka-storefront/internal/domain"
)

// DefaultFreeShippingThreshold is the order subtotal at which callers waive charges.
var DefaultFreeShippingThreshold = decimal.NewFromInt(500)

// Zone is a canned delivery promise for one pincode leading digit.
type Zone struct {
	Days             int
	ServiceAvailable bool
	Charges          decimal.Decimal
	Courier          string
}

var (
	defaultZone = Zone{Days: 5, ServiceAvailable: true, Charges: decimal.NewFromInt(60), Courier: "Standard"}

	// Every zone reports ServiceAvailable; no courier API is consulted.
	zones = map[byte]Zone{
		'1': {Days: 3, ServiceAvailable: true, Charges: decimal.NewFromInt(40), Courier: "Express"},
		'2': {Days: 3, ServiceAvailable: true, Charges: decimal.NewFromInt(40), Courier: "Express"},
		'3': {Days: 4, ServiceAvailable: true, Charges: decimal.NewFromInt(50), Courier: "Standard"},
		'4': {Days: 3, ServiceAvailable: true, Charges: decimal.NewFromInt(40), Courier: "Express"},
		'5': {Days: 1, ServiceAvailable: true, Charges: decimal.Zero, Courier: "Same Day"},
		'6': {Days: 2, ServiceAvailable: true, Charges: decimal.NewFromInt(30), Courier: "Express"},
		'7': {Days: 4, ServiceAvailable: true, Charges: decimal.NewFromInt(50), Courier: "Standard"},
		'8': {Days: 4, ServiceAvailable: true, Charges: decimal.NewFromInt(50), Courier: "Standard"},
		'9': {Days: 5, ServiceAvailable: true, Charges: decimal.NewFromInt(50), Courier: "Standard"},
	}
)

// ZoneFor returns the zone keyed by the first character of pincode, or the
// default zone for an empty code or an unknown leading character.
func ZoneFor(pincode string) Zone {
	if pincode == "" {
		return defaultZone
	}
	if z, ok := zones[pincode[0]]; ok {
		return z
	}
	return defaultZone
}

// GetDeliveryEstimate looks up the zone table. City and state are left empty.
func GetDeliveryEstimate(pincode string) domain.DeliveryEstimate {
	z := ZoneFor(pincode)
	return domain.DeliveryEstimate{
		Pincode:          pincode,
		DeliveryDays:     z.Days,
		Charges:          z.Charges,
		ServiceAvailable: z.ServiceAvailable,
		Courier:          z.Courier,
	}
}

// ApplyFreeShipping zeroes the charges when subtotal reaches threshold.
func ApplyFreeShipping(est domain.DeliveryEstimate, subtotal, threshold decimal.Decimal) domain.DeliveryEstimate {
	if subtotal.GreaterThanOrEqual(threshold) {
		est.Charges = decimal.Zero
	}
	return est
}
