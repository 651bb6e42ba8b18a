package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/statlab-ide/rassist/internal/rerrors"
)

const (
	// DefaultTimeout is the default timeout for provider requests
	DefaultTimeout = 3 * time.Second
	// MaxResponseSize is the maximum size of a provider response (4MB)
	MaxResponseSize = 4 * 1024 * 1024
)

// HTTP talks to the session backend over HTTP JSON
type HTTP struct {
	endpoint string
	client   *http.Client
}

// NewHTTP creates an HTTP provider for the given endpoint. A zero timeout
// falls back to DefaultTimeout.
func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// ValidateEndpoint checks that an endpoint URL is usable for completion requests
func ValidateEndpoint(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use HTTP or HTTPS scheme, got: %s", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}

// Completions posts the query to the session backend and decodes its reply.
// Any transport or decode failure is wrapped as a ProviderError; retry policy
// belongs to the caller's transport, not here.
func (h *HTTP) Completions(ctx context.Context, q Query) (*Completions, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, rerrors.NewProviderError(h.endpoint, "failed to encode completion query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, rerrors.NewProviderError(h.endpoint, "failed to build completion request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, rerrors.NewProviderError(h.endpoint, "completion request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, rerrors.NewProviderError(h.endpoint,
			fmt.Sprintf("completion request failed: HTTP %d", resp.StatusCode), nil)
	}

	data, err := readWithSizeLimit(resp.Body, MaxResponseSize)
	if err != nil {
		return nil, rerrors.NewProviderError(h.endpoint, "failed to read completion response", err)
	}

	var completions Completions
	if err := json.Unmarshal(data, &completions); err != nil {
		return nil, rerrors.NewProviderError(h.endpoint, "failed to parse completion response", err)
	}

	return &completions, nil
}

// Ping checks whether the session backend is reachable
func (h *HTTP) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.endpoint, nil)
	if err != nil {
		return rerrors.NewProviderError(h.endpoint, "failed to build ping request", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return rerrors.NewProviderError(h.endpoint, "provider unreachable", err)
	}
	_ = resp.Body.Close()
	return nil
}

// Endpoint returns the configured backend URL
func (h *HTTP) Endpoint() string {
	return h.endpoint
}

// readWithSizeLimit reads a response body, failing when it exceeds maxSize
func readWithSizeLimit(r io.Reader, maxSize int64) ([]byte, error) {
	limited := io.LimitReader(r, maxSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}

	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", maxSize)
	}

	return data, nil
}
