package feedclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ServerError reports a non-2xx response from a remote generator
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server error: %d - %s", e.StatusCode, e.Message)
}

// Client calls a remote generator endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for an endpoint such as
// http://localhost:8080/generate-rss
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Generate requests a feed for target and interprets the response
func (c *Client) Generate(ctx context.Context, target string) (*Result, error) {
	reqURL := c.endpoint + "?url=" + url.QueryEscape(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach generator: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Generator responded",
		zap.Int("status_code", resp.StatusCode),
		zap.String("cache", resp.Header.Get("X-Cache")),
		zap.Int("size", len(body)))

	return FromResponse(resp.StatusCode, string(body))
}

// FromResponse interprets a generator response: a non-2xx status is a
// *ServerError, anything else goes through Interpret
func FromResponse(statusCode int, body string) (*Result, error) {
	if statusCode < 200 || statusCode > 299 {
		msg := strings.TrimSpace(body)
		if strings.HasPrefix(msg, "<error>") {
			msg = errorMessage(msg)
		}
		return nil, &ServerError{StatusCode: statusCode, Message: msg}
	}
	return Interpret(body)
}
