package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
)

// NominatimClient talks to an OpenStreetMap Nominatim-compatible geocoder.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewNominatimClient(baseURL, userAgent string, logger *zap.Logger) *NominatimClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NominatimClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// nominatimAddress has one field per locality type; which ones are present
// depends on the place.
type nominatimAddress struct {
	HouseNumber   string `json:"house_number"`
	Road          string `json:"road"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	CityDistrict  string `json:"city_district"`
	County        string `json:"county"`
	StateDistrict string `json:"state_district"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
}

type nominatimPlace struct {
	DisplayName string            `json:"display_name"`
	Address     *nominatimAddress `json:"address"`
	Error       string            `json:"error"`
}

// ReverseGeocode resolves coordinates to an address. A non-200 status or a
// response without an address object yields domain.ErrAddressNotFound.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (domain.Address, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	q.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	q.Set("addressdetails", "1")

	var place nominatimPlace
	if err := c.get(ctx, "/reverse", q, &place); err != nil {
		return domain.Address{}, fmt.Errorf("%w: %v", domain.ErrAddressNotFound, err)
	}
	if place.Address == nil {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	return addressFromNominatim(place), nil
}

// SearchPostalCode looks a pincode up within India. It returns
// domain.ErrPincodeNotFound when nothing matches.
func (c *NominatimClient) SearchPostalCode(ctx context.Context, pincode string) (domain.Address, error) {
	q := url.Values{}
	q.Set("postalcode", pincode)
	q.Set("country", "India")
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")

	var places []nominatimPlace
	if err := c.get(ctx, "/search", q, &places); err != nil {
		return domain.Address{}, fmt.Errorf("%w: %v", domain.ErrPincodeNotFound, err)
	}
	if len(places) == 0 {
		return domain.Address{}, domain.ErrPincodeNotFound
	}
	addr := addressFromNominatim(places[0])
	if addr.Pincode == "" {
		addr.Pincode = pincode
	}
	if addr.City == "" || addr.State == "" {
		city, state := parseDisplayName(places[0].DisplayName, pincode)
		if addr.City == "" {
			addr.City = city
		}
		if addr.State == "" {
			addr.State = state
		}
	}
	if addr.City == "" && addr.State == "" {
		return domain.Address{}, domain.ErrPincodeNotFound
	}
	return addr, nil
}

func (c *NominatimClient) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("nominatim request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("nominatim returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode nominatim response: %w", err)
	}
	return nil
}

func addressFromNominatim(p nominatimPlace) domain.Address {
	a := p.Address
	if a == nil {
		return domain.Address{DisplayName: p.DisplayName}
	}
	street := strings.TrimSpace(strings.Join(nonEmpty(a.HouseNumber, a.Road), " "))
	if street == "" {
		street = firstNonEmpty(a.Suburb, a.Neighbourhood)
	}
	return domain.Address{
		Street:      street,
		City:        firstNonEmpty(a.City, a.Town, a.Village, a.Municipality, a.CityDistrict, a.County, a.StateDistrict),
		State:       a.State,
		Pincode:     strings.ReplaceAll(a.Postcode, " ", ""),
		Country:     a.Country,
		DisplayName: p.DisplayName,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
