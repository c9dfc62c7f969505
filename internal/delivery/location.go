package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
)

const (
	LocationTimeout = 10 * time.Second
	LocationMaxAge  = 5 * time.Minute
)

// Locator produces the current position. Implementations return
// ErrPermissionDenied, ErrPositionUnavailable or ErrTimeout (possibly wrapped).
type Locator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}

// Permission is the state reported by a PermissionProber.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionPrompt  Permission = "prompt"
)

type PermissionProber interface {
	Probe(ctx context.Context) (Permission, error)
}

// CachedLocator bounds every lookup by a timeout and reuses a position
// younger than maxAge.
type CachedLocator struct {
	inner   Locator
	timeout time.Duration
	maxAge  time.Duration
	now     func() time.Time

	mu     sync.Mutex
	last   domain.Coordinates
	lastAt time.Time
	valid  bool
}

func NewCachedLocator(inner Locator) *CachedLocator {
	return &CachedLocator{
		inner:   inner,
		timeout: LocationTimeout,
		maxAge:  LocationMaxAge,
		now:     time.Now,
	}
}

// GetCurrentLocation returns a cached position when fresh, otherwise asks the
// underlying Locator within the timeout.
func (l *CachedLocator) GetCurrentLocation(ctx context.Context) (domain.Coordinates, error) {
	l.mu.Lock()
	if l.valid && l.now().Sub(l.lastAt) < l.maxAge {
		c := l.last
		l.mu.Unlock()
		return c, nil
	}
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type result struct {
		coords domain.Coordinates
		err    error
	}
	done := make(chan result, 1)
	go func() {
		c, err := l.inner.Locate(ctx)
		done <- result{c, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		return domain.Coordinates{}, ErrTimeout
	}
	if res.err != nil {
		switch {
		case errors.Is(res.err, ErrPermissionDenied), errors.Is(res.err, ErrPositionUnavailable), errors.Is(res.err, ErrTimeout):
			return domain.Coordinates{}, res.err
		case errors.Is(res.err, context.DeadlineExceeded):
			return domain.Coordinates{}, ErrTimeout
		default:
			return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, res.err)
		}
	}

	l.mu.Lock()
	l.last = res.coords
	l.lastAt = l.now()
	l.valid = true
	l.mu.Unlock()
	return res.coords, nil
}

// Locate makes CachedLocator usable wherever a Locator is accepted.
func (l *CachedLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	return l.GetCurrentLocation(ctx)
}

// RequestLocationPermission reports whether location can be used. A prompt
// state is resolved by actually requesting a position. It never fails.
func RequestLocationPermission(ctx context.Context, prober PermissionProber, locator Locator) bool {
	state, err := prober.Probe(ctx)
	if err != nil {
		return false
	}
	switch state {
	case PermissionGranted:
		return true
	case PermissionPrompt:
		_, err := locator.Locate(ctx)
		return err == nil
	default:
		return false
	}
}

// StaticLocator returns fixed coordinates, or Err when set.
type StaticLocator struct {
	Coords domain.Coordinates
	Err    error
}

func (s StaticLocator) Locate(context.Context) (domain.Coordinates, error) {
	if s.Err != nil {
		return domain.Coordinates{}, s.Err
	}
	return s.Coords, nil
}

// StaticPermission always reports the same permission state.
type StaticPermission Permission

func (p StaticPermission) Probe(context.Context) (Permission, error) {
	return Permission(p), nil
}

// IPLocator resolves the server's (or proxy's) public IP to coordinates using
// an ipapi-style JSON endpoint.
type IPLocator struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewIPLocator(url string, logger *zap.Logger) *IPLocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPLocator{
		url:        url,
		httpClient: &http.Client{Timeout: LocationTimeout},
		logger:     logger,
	}
}

type ipLocationResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

func (l *IPLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if l.url == "" {
		return domain.Coordinates{}, ErrPermissionDenied
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.logger.Warn("ip location request failed", zap.Error(err))
		if ctx.Err() != nil {
			return domain.Coordinates{}, ErrTimeout
		}
		return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Coordinates{}, fmt.Errorf("%w: ip location returned %d: %s", ErrPositionUnavailable, resp.StatusCode, string(body))
	}

	var payload ipLocationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: decode: %v", ErrPositionUnavailable, err)
	}
	if payload.Error || payload.Latitude == nil || payload.Longitude == nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", ErrPositionUnavailable, payload.Reason)
	}
	return domain.Coordinates{Latitude: *payload.Latitude, Longitude: *payload.Longitude}, nil
}
