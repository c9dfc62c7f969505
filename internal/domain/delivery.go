package domain

import "github.com/shopspring/decimal"

// Address is a resolved postal address. Upstream services may omit any field.
type Address struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
	Country     string `json:"country,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// DeliveryEstimate is computed on demand per pincode and never persisted server-side.
type DeliveryEstimate struct {
	Pincode          string          `json:"pincode"`
	City             string          `json:"city"`
	State            string          `json:"state"`
	DeliveryDays     int             `json:"deliveryDays"`
	Charges          decimal.Decimal `json:"charges"`
	ServiceAvailable bool            `json:"serviceAvailable"`
	Courier          string          `json:"courier"`
}
