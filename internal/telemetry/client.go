package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUnsupportedScheme is returned for backend URLs that are not http(s).
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrBadStatus is wrapped when the backend answers with a non-2xx status.
	ErrBadStatus = errors.New("unexpected status")
)

const (
	sensorPath  = "/api/sensor"
	historyPath = "/api/history"
)

// Client fetches readings and history from a telemetry backend.
type Client struct {
	base string
	http *http.Client
}

// NewClient validates baseURL and returns a Client. A zero timeout means no
// per-request timeout beyond the caller's context.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := NormalizeURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.base }

// Reading fetches the current sensor reading.
func (c *Client) Reading(ctx context.Context) (Reading, error) {
	var r Reading
	if err := c.get(ctx, sensorPath, &r); err != nil {
		return Reading{}, err
	}
	return r, nil
}

// History fetches the history records of the current run.
func (c *Client) History(ctx context.Context) (History, error) {
	var h History
	if err := c.get(ctx, historyPath, &h); err != nil {
		return History{}, err
	}
	return h, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetching %s: %w: %s", path, ErrBadStatus, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// NormalizeURL validates a backend base URL and returns it without a trailing
// slash. A URL without a scheme, such as localhost:8080, is taken as http.
func NormalizeURL(raw string) (string, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"'`)
	if s == "" {
		return "", fmt.Errorf("telemetry URL is empty")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parsing telemetry URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("telemetry URL %q has no host", s)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
