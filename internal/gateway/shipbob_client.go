package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weight-reconciliation/internal/domain"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the ShipBob REST API root.
	DefaultBaseURL = "https://api.shipbob.com/1.0"
	// DefaultPageSize is the number of orders requested per page.
	DefaultPageSize = 50

	channelHeader = "shipbob_channel_id"
)

// ShipBobClient implements usecase.FulfillmentRepository against the ShipBob API.
type ShipBobClient struct {
	baseURL    string
	token      string
	channelID  int64
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures the ShipBobClient during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	baseURL        string
	httpClient     *http.Client
	logger         *zap.Logger
	timeout        time.Duration
	pageSize       int
	accountChannel string
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(raw string) Option {
	return func(cfg *clientConfig) error {
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("invalid base url %q: %w", raw, err)
		}
		cfg.baseURL = strings.TrimSuffix(raw, "/")
		return nil
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures request failure logging.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// WithPageSize sets the number of orders fetched per page.
func WithPageSize(n int) Option {
	return func(cfg *clientConfig) error {
		if n <= 0 {
			return fmt.Errorf("page size must be positive, got %d", n)
		}
		cfg.pageSize = n
		return nil
	}
}

// WithAccountChannel selects a channel by id or name when the token has
// access to several.
func WithAccountChannel(channel string) Option {
	return func(cfg *clientConfig) error {
		cfg.accountChannel = strings.TrimSpace(channel)
		return nil
	}
}

// NewShipBobClient authenticates with the bearer token and resolves the
// account channel once. It fails with domain.ErrUpstreamUnavailable when no
// channel can be resolved.
func NewShipBobClient(ctx context.Context, token string, opts ...Option) (*ShipBobClient, error) {
	cfg := &clientConfig{
		baseURL:  DefaultBaseURL,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		// copy so the timeout never leaks into a shared client
		hc := *cfg.httpClient
		httpClient = &hc
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &ShipBobClient{
		baseURL:    cfg.baseURL,
		token:      token,
		pageSize:   cfg.pageSize,
		httpClient: httpClient,
		logger:     logger,
	}

	channelID, err := c.resolveChannel(ctx, cfg.accountChannel)
	if err != nil {
		logger.Error("error fetching channel id", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	c.channelID = channelID
	logger.Debug("channel resolved", zap.Int64("channel_id", channelID))
	return c, nil
}

// ChannelID returns the resolved account channel.
func (c *ShipBobClient) ChannelID() int64 { return c.channelID }

type channel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c *ShipBobClient) resolveChannel(ctx context.Context, want string) (int64, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, "/channel", nil, "get channel", false, &raw); err != nil {
		return 0, err
	}

	var channels []channel
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &channels); err != nil {
			return 0, fmt.Errorf("decode channels: %w", err)
		}
	} else {
		var single channel
		if err := json.Unmarshal(raw, &single); err != nil {
			return 0, fmt.Errorf("decode channel: %w", err)
		}
		channels = []channel{single}
	}

	for _, ch := range channels {
		if ch.ID <= 0 {
			continue
		}
		if want == "" || strconv.FormatInt(ch.ID, 10) == want || strings.EqualFold(ch.Name, want) {
			return ch.ID, nil
		}
	}
	if want != "" {
		return 0, fmt.Errorf("channel %q not found among %d channels", want, len(channels))
	}
	return 0, fmt.Errorf("no channel returned")
}

// ListOrders fetches every page of orders, starting at page 1, until an empty
// page is returned.
func (c *ShipBobClient) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var allOrders []domain.Order
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("Page", strconv.Itoa(page))
		params.Set("Limit", strconv.Itoa(c.pageSize))

		var orders []domain.Order
		if err := c.doJSON(ctx, "/order", params, fmt.Sprintf("list orders page %d", page), true, &orders); err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			break
		}
		allOrders = append(allOrders, orders...)
	}
	return allOrders, nil
}

type orderDetail struct {
	ID        int64             `json:"id"`
	Shipments []domain.Shipment `json:"shipments"`
}

// GetShipments returns the shipments of an order.
func (c *ShipBobClient) GetShipments(ctx context.Context, orderID int64) ([]domain.Shipment, error) {
	var order orderDetail
	endpoint := fmt.Sprintf("/order/%d", orderID)
	if err := c.doJSON(ctx, endpoint, nil, fmt.Sprintf("get shipments for order %d", orderID), true, &order); err != nil {
		return nil, err
	}
	for i := range order.Shipments {
		if order.Shipments[i].OrderID == 0 {
			order.Shipments[i].OrderID = orderID
		}
	}
	return order.Shipments, nil
}

// GetInventoryItem returns one inventory item with its unit weight.
func (c *ShipBobClient) GetInventoryItem(ctx context.Context, inventoryID int64) (*domain.InventoryItem, error) {
	var inv domain.InventoryItem
	endpoint := fmt.Sprintf("/inventory/%d", inventoryID)
	if err := c.doJSON(ctx, endpoint, nil, fmt.Sprintf("get inventory item %d", inventoryID), true, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// doJSON executes a GET request and decodes the JSON response into dst.
// Failures are returned as *domain.RequestError.
func (c *ShipBobClient) doJSON(ctx context.Context, endpoint string, params url.Values, operation string, withChannel bool, dst any) error {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.RequestError{Operation: operation, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if withChannel {
		req.Header.Set(channelHeader, strconv.FormatInt(c.channelID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("no response received",
			zap.String("operation", operation),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return &domain.RequestError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		c.logger.Error("request failed",
			zap.String("operation", operation),
			zap.String("endpoint", endpoint),
			zap.String("params", params.Encode()),
			zap.Int("status", resp.StatusCode),
			zap.String("response", msg),
		)
		return &domain.RequestError{Operation: operation, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &domain.RequestError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
