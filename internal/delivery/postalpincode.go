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

// PostalPincodeClient queries an India Post style pincode directory
// (GET /pincode/{pincode}).
type PostalPincodeClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPostalPincodeClient(baseURL string, logger *zap.Logger) *PostalPincodeClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostalPincodeClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type postOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	Block    string `json:"Block"`
	State    string `json:"State"`
	Country  string `json:"Country"`
	Pincode  string `json:"Pincode"`
}

type pincodeResponse struct {
	Message    string       `json:"Message"`
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

// Lookup returns the locality of pincode. Any status other than "Success"
// or an empty post office list is domain.ErrPincodeNotFound.
func (c *PostalPincodeClient) Lookup(ctx context.Context, pincode string) (domain.Address, error) {
	u := c.baseURL + "/pincode/" + url.PathEscape(pincode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Address{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("pincode lookup request failed", zap.String("pincode", pincode), zap.Error(err))
		return domain.Address{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Address{}, fmt.Errorf("pincode service returned %d: %s", resp.StatusCode, string(body))
	}

	var payload []pincodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Address{}, fmt.Errorf("decode pincode response: %w", err)
	}
	if len(payload) == 0 || !strings.EqualFold(payload[0].Status, "Success") || len(payload[0].PostOffice) == 0 {
		return domain.Address{}, domain.ErrPincodeNotFound
	}

	po := payload[0].PostOffice[0]
	country := po.Country
	if country == "" {
		country = "India"
	}
	return domain.Address{
		Street:  po.Name,
		City:    firstNonEmpty(po.District, po.Block, po.Name),
		State:   po.State,
		Pincode: pincode,
		Country: country,
	}, nil
}
