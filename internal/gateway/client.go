package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/logging"
	"github.com/muurk/devinv/internal/version"
)

const (
	// DefaultBaseURL is where the inventory backend listens by default
	DefaultBaseURL = "http://localhost:8080"

	// DefaultBasePath is the API prefix on the backend
	DefaultBasePath = "/api"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries the per-request id
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of a failed response is read
	maxErrorBody = 64 << 10
)

// DeviceReader is the read side of the inventory API.
type DeviceReader interface {
	ListDevices(ctx context.Context) ([]inventory.Device, error)
	GetDevice(ctx context.Context, code string) (*inventory.Device, error)
	ListDeviceTypes(ctx context.Context) ([]inventory.Type, error)
	ListDepartments(ctx context.Context) ([]inventory.Department, error)
	GetStats(ctx context.Context) (*inventory.Stats, error)
}

// DeviceWriter is the write side of the inventory API.
type DeviceWriter interface {
	CreateDevice(ctx context.Context, payload inventory.DeviceWrite) error
	UpdateDevice(ctx context.Context, code string, payload inventory.DeviceWrite) error
	DeleteDevice(ctx context.Context, code string) error
}

// API is everything the dashboard needs from the backend.
type API interface {
	DeviceReader
	DeviceWriter
	Refresh(ctx context.Context) (*Snapshot, error)
}

// Client talks to the inventory REST API. It holds no state beyond its
// configuration and is safe for concurrent use. Requests are never retried.
type Client struct {
	// BaseURL is the backend origin plus API prefix (e.g., "http://localhost:8080/api")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// NewRequestID generates the X-Request-ID value
	NewRequestID func() string
}

// NewClient creates a client for the API rooted at baseURL. A baseURL
// without a path gets DefaultBasePath appended.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:      NormalizeBaseURL(baseURL),
		HTTPClient:   &http.Client{Timeout: DefaultTimeout},
		NewRequestID: uuid.NewString,
	}
}

// NormalizeBaseURL trims trailing slashes and appends /api when the URL
// has no path of its own.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	raw = strings.TrimRight(raw, "/")

	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw + DefaultBasePath
	}
	return raw
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// ListDevices returns every device in backend order.
func (c *Client) ListDevices(ctx context.Context) ([]inventory.Device, error) {
	var devices []inventory.Device
	if err := c.do(ctx, http.MethodGet, "/devices", nil, &devices); err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []inventory.Device{}
	}
	return devices, nil
}

// GetDevice fetches one device including its nested department.
func (c *Client) GetDevice(ctx context.Context, code string) (*inventory.Device, error) {
	var device inventory.Device
	if err := c.do(ctx, http.MethodGet, devicePath(code), nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// CreateDevice issues POST /devices.
func (c *Client) CreateDevice(ctx context.Context, payload inventory.DeviceWrite) error {
	return c.do(ctx, http.MethodPost, "/devices", payload, nil)
}

// UpdateDevice issues PUT /devices/{code}.
func (c *Client) UpdateDevice(ctx context.Context, code string, payload inventory.DeviceWrite) error {
	return c.do(ctx, http.MethodPut, devicePath(code), payload, nil)
}

// DeleteDevice issues DELETE /devices/{code}. Any 2xx counts as success,
// with or without a body.
func (c *Client) DeleteDevice(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, devicePath(code), nil, nil)
}

// ListDeviceTypes returns the type values the backend knows about.
func (c *Client) ListDeviceTypes(ctx context.Context) ([]inventory.Type, error) {
	var types []inventory.Type
	if err := c.do(ctx, http.MethodGet, "/device-types", nil, &types); err != nil {
		return nil, err
	}
	if types == nil {
		types = []inventory.Type{}
	}
	return types, nil
}

// ListDepartments returns the departments with duplicate codes removed.
func (c *Client) ListDepartments(ctx context.Context) ([]inventory.Department, error) {
	var departments []inventory.Department
	if err := c.do(ctx, http.MethodGet, "/departments", nil, &departments); err != nil {
		return nil, err
	}

	unique := DedupeDepartments(departments)
	if dropped := len(departments) - len(unique); dropped > 0 {
		logging.Warn("Department list contained duplicate codes",
			zap.Int("received", len(departments)),
			zap.Int("dropped", dropped),
		)
	}
	return unique, nil
}

// GetStats fetches the aggregate snapshot.
func (c *Client) GetStats(ctx context.Context) (*inventory.Stats, error) {
	var stats inventory.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Snapshot is the pair of resources re-fetched after every mutation.
type Snapshot struct {
	Devices []inventory.Device
	Stats   *inventory.Stats
}

// Refresh fetches the device list and the stats concurrently and returns
// once both have settled. A failure of either fails the whole refresh.
func (c *Client) Refresh(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		devices, err := c.ListDevices(gctx)
		if err != nil {
			return err
		}
		snap.Devices = devices
		return nil
	})
	g.Go(func() error {
		stats, err := c.GetStats(gctx)
		if err != nil {
			return err
		}
		snap.Stats = stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DedupeDepartments keeps one department per code. The last entry for a
// code wins while the position of its first occurrence is kept.
func DedupeDepartments(departments []inventory.Department) []inventory.Department {
	index := make(map[string]int, len(departments))
	unique := make([]inventory.Department, 0, len(departments))

	for _, dept := range departments {
		if i, seen := index[dept.Code]; seen {
			unique[i] = dept
			continue
		}
		index[dept.Code] = len(unique)
		unique = append(unique, dept)
	}
	return unique
}

func devicePath(code string) string {
	return "/devices/" + url.PathEscape(code)
}

// do performs a single request. body is JSON-encoded when non-nil and the
// response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewParseError("failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}

	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.LogAPIRequest(requestID, method, req.URL.Path)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		gwErr := NewNetworkError(fmt.Sprintf("%s %s failed", method, path), err)
		logging.LogAPIResponse(requestID, method, req.URL.Path, 0, time.Since(start), gwErr)
		return gwErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gwErr := NewAPIError(resp.StatusCode, readServerMessage(resp.Body))
		logging.LogAPIResponse(requestID, method, req.URL.Path, resp.StatusCode, time.Since(start), gwErr)
		return gwErr
	}

	logging.LogAPIResponse(requestID, method, req.URL.Path, resp.StatusCode, time.Since(start), nil)

	if out == nil {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError(fmt.Sprintf("failed to parse %s response", path), err)
	}
	return nil
}

func (c *Client) requestID() string {
	if c.NewRequestID == nil {
		return uuid.NewString()
	}
	return c.NewRequestID()
}

// readServerMessage extracts "error" (or "message") from a JSON error body.
func readServerMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
