package eol

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/logger"
)

const (
	DefaultBaseURL   = "https://endoflife.date/api"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client fetches product documents from an endoflife.date compatible API.
// A Client holds its own headers and timeout; there is no shared default.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a mirror or a test server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithTimeout bounds each request. It is the only limit on a stuck fetch.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the static client identifier sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned when the API answers with anything but 200 OK.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, url: %s", e.StatusCode, e.URL)
}

// ProductName converts a tool name to the API identifier: lower case with
// spaces and periods removed ("Node.js" -> "nodejs").
func ProductName(tool string) string {
	name := strings.ToLower(tool)
	name = strings.ReplaceAll(name, " ", "")
	return strings.ReplaceAll(name, ".", "")
}

// ProductURL is the document URL for tool.
func (c *Client) ProductURL(tool string) string {
	return fmt.Sprintf("%s/%s.json", c.baseURL, ProductName(tool))
}

// Fetch performs one GET for tool and returns the raw body.
func (c *Client) Fetch(ctx context.Context, tool string) ([]byte, error) {
	url := c.ProductURL(tool)
	logger.Debugf("EOL: Fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xerrors.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("unable to get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Errorf("unable to read response: %w", err)
	}
	return body, nil
}
