// Package remotecart is the HTTP client for the remote cart API.
package remotecart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
)

// UserHeader carries the account id on every remote cart request.
const UserHeader = "X-User-ID"

// Client calls the remote cart API on behalf of a signed-in user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type cartRequest struct {
	Items []domain.SyncItem `json:"items"`
}

// StatusError is a non-2xx answer from the remote cart API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote cart returned %d: %s", e.Status, e.Body)
}

// SaveCart replaces the account's cart.
func (c *Client) SaveCart(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	return c.post(ctx, "/api/cart/save", userID, items)
}

// Sync pushes items and returns the account's cart as the server sees it.
func (c *Client) Sync(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	return c.post(ctx, "/api/cart/sync", userID, items)
}

// SyncCart implements store.Syncer.
func (c *Client) SyncCart(ctx context.Context, userID string, items []domain.SyncItem) error {
	_, err := c.Sync(ctx, userID, items)
	return err
}

// GetCart fetches the account's stored cart.
func (c *Client) GetCart(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("remote cart client not configured: base URL required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cart", nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, userID)
}

func (c *Client) post(ctx context.Context, path, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("remote cart client not configured: base URL required")
	}
	if items == nil {
		items = []domain.SyncItem{}
	}
	body, err := json.Marshal(cartRequest{Items: items})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, userID)
}

func (c *Client) do(req *http.Request, userID string) (*domain.CartSnapshot, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set(UserHeader, userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote cart request failed", zap.String("path", req.URL.Path), zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var snap domain.CartSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		if err == io.EOF {
			return &domain.CartSnapshot{UserID: userID, Items: []domain.SyncItem{}}, nil
		}
		return nil, fmt.Errorf("decode remote cart: %w", err)
	}
	return &snap, nil
}
