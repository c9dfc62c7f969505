package delivery

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/storage"
)

// PincodeKey is the storage key holding the last pincode a session checked.
const PincodeKey = "userPincode"

type PincodeLookup interface {
	Lookup(ctx context.Context, pincode string) (domain.Address, error)
}

type PostalCodeSearch interface {
	SearchPostalCode(ctx context.Context, pincode string) (domain.Address, error)
}

type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, coords domain.Coordinates) (domain.Address, error)
}

// CheckState is a step of a pincode check.
type CheckState string

const (
	StateIdle       CheckState = "idle"
	StateValidating CheckState = "validating"
	StateInvalid    CheckState = "invalid"
	StateResolving  CheckState = "resolving"
	StateEstimating CheckState = "estimating"
	StateDone       CheckState = "done"
	StateFailed     CheckState = "failed"
)

// CheckResult is the outcome of one check. Degraded is set when the address
// could not be resolved and the estimate carries the pincode only.
type CheckResult struct {
	State    CheckState               `json:"state"`
	Trace    []CheckState             `json:"trace"`
	Estimate *domain.DeliveryEstimate `json:"estimate,omitempty"`
	Address  *domain.Address          `json:"address,omitempty"`
	Degraded bool                     `json:"degraded"`
	Err      error                    `json:"-"`
}

func (r *CheckResult) enter(s CheckState) {
	r.State = s
	r.Trace = append(r.Trace, s)
}

// Estimator combines address resolution with the zone table.
type Estimator struct {
	primary   PincodeLookup
	fallback  PostalCodeSearch
	geocoder  ReverseGeocoder
	locator   Locator
	threshold decimal.Decimal
	logger    *zap.Logger
}

type EstimatorOption func(*Estimator)

func WithFreeShippingThreshold(t decimal.Decimal) EstimatorOption {
	return func(e *Estimator) { e.threshold = t }
}

func WithEstimatorLogger(logger *zap.Logger) EstimatorOption {
	return func(e *Estimator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewEstimator(primary PincodeLookup, fallback PostalCodeSearch, geocoder ReverseGeocoder, locator Locator, opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		primary:   primary,
		fallback:  fallback,
		geocoder:  geocoder,
		locator:   locator,
		threshold: DefaultFreeShippingThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetAddressFromPincode tries the primary directory, then the geocoding
// search. Both failing yields domain.ErrPincodeNotFound.
func (e *Estimator) GetAddressFromPincode(ctx context.Context, pincode string) (domain.Address, error) {
	if !IsValidPincode(pincode) {
		return domain.Address{}, domain.ErrInvalidPincode
	}
	if e.primary != nil {
		addr, err := e.primary.Lookup(ctx, pincode)
		if err == nil {
			return addr, nil
		}
		e.logger.Info("primary pincode lookup failed, trying fallback", zap.String("pincode", pincode), zap.Error(err))
	}
	if e.fallback != nil {
		addr, err := e.fallback.SearchPostalCode(ctx, pincode)
		if err == nil {
			return addr, nil
		}
		e.logger.Info("fallback pincode search failed", zap.String("pincode", pincode), zap.Error(err))
		if ctx.Err() != nil {
			return domain.Address{}, ctx.Err()
		}
	}
	return domain.Address{}, domain.ErrPincodeNotFound
}

// ReverseGeocode resolves coordinates through the configured geocoder.
func (e *Estimator) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (domain.Address, error) {
	if e.geocoder == nil {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	return e.geocoder.ReverseGeocode(ctx, coords)
}

// GetDeliveryEstimate returns the zone estimate for pincode. Charges are
// never waived here.
func (e *Estimator) GetDeliveryEstimate(pincode string) domain.DeliveryEstimate {
	return GetDeliveryEstimate(pincode)
}

// Quote applies the caller-side free shipping rule to est.
func (e *Estimator) Quote(est domain.DeliveryEstimate, subtotal decimal.Decimal) domain.DeliveryEstimate {
	return ApplyFreeShipping(est, subtotal, e.threshold)
}

// Check validates pincode, resolves its address (degrading to a
// pincode-only estimate when that fails) and computes the estimate. On
// success the pincode is remembered in kv, which may be nil.
func (e *Estimator) Check(ctx context.Context, kv storage.KV, pincode string) CheckResult {
	res := CheckResult{}
	res.enter(StateIdle)
	res.enter(StateValidating)
	if !IsValidPincode(pincode) {
		res.enter(StateInvalid)
		res.Err = domain.ErrInvalidPincode
		return res
	}

	res.enter(StateResolving)
	addr, err := e.GetAddressFromPincode(ctx, pincode)
	if err != nil {
		if ctx.Err() != nil {
			res.enter(StateFailed)
			res.Err = fmt.Errorf("resolve pincode %s: %w", pincode, ctx.Err())
			return res
		}
		e.logger.Info("address lookup failed, estimating by pincode only", zap.String("pincode", pincode), zap.Error(err))
		res.Degraded = true
	} else {
		res.Address = &addr
	}

	res.enter(StateEstimating)
	est := GetDeliveryEstimate(pincode)
	if res.Address != nil {
		est.City = res.Address.City
		est.State = res.Address.State
	}
	res.Estimate = &est

	if kv != nil {
		if err := kv.Set(ctx, PincodeKey, pincode); err != nil {
			e.logger.Warn("remember pincode failed", zap.String("pincode", pincode), zap.Error(err))
		}
	}
	res.enter(StateDone)
	return res
}

// CheckCurrentLocation locates the device, reverse geocodes the position and
// checks the resulting pincode.
func (e *Estimator) CheckCurrentLocation(ctx context.Context, kv storage.KV) CheckResult {
	fail := func(err error) CheckResult {
		res := CheckResult{}
		res.enter(StateIdle)
		res.enter(StateFailed)
		res.Err = err
		return res
	}
	if e.locator == nil {
		return fail(ErrPositionUnavailable)
	}
	coords, err := e.locator.Locate(ctx)
	if err != nil {
		return fail(err)
	}
	addr, err := e.ReverseGeocode(ctx, coords)
	if err != nil {
		return fail(err)
	}
	if !IsValidPincode(addr.Pincode) {
		return fail(fmt.Errorf("%w: no pincode at current location", domain.ErrAddressNotFound))
	}

	res := e.Check(ctx, kv, addr.Pincode)
	if res.Address == nil {
		res.Address = &addr
		if res.Estimate != nil {
			res.Estimate.City = addr.City
			res.Estimate.State = addr.State
		}
	} else if res.Address.Street == "" {
		res.Address.Street = addr.Street
	}
	return res
}

// LastPincode returns the remembered pincode, if any.
func (e *Estimator) LastPincode(ctx context.Context, kv storage.KV) (string, bool) {
	if kv == nil {
		return "", false
	}
	v, ok, err := kv.Get(ctx, PincodeKey)
	if err != nil {
		e.logger.Warn("read remembered pincode failed", zap.Error(err))
		return "", false
	}
	if !ok || !IsValidPincode(v) {
		return "", false
	}
	return v, true
}
