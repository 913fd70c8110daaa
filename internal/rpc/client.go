package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cometbft/cometbft/libs/log"
)

// ClientConfig configures a Client. It is usually built from a config.Provider entry
// with the command-line overrides applied.
//
// Fields:
//   - Name: provider label, attached to every log line and used as the pool key
//   - URL: JSON-RPC HTTP endpoint
//   - Timeout: per-attempt HTTP timeout; zero means no timeout
//   - MaxRetries: retries after the first attempt; zero sends a request once
//   - BackoffInitial: wait after the first failure, 100ms when zero
//   - BackoffMax: upper bound on a single wait; zero means no cap
//   - Logger: nil discards logs
type ClientConfig struct {
	Name           string
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	Logger         log.Logger
}

// Client talks JSON-RPC over HTTP to a single provider.
type Client struct {
	name       string
	url        string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	backoffMax time.Duration
	logger     log.Logger
	nextID     atomic.Int64
}

// NewClient builds a client for one provider. It does not contact the node; the first
// request is sent by Call or one of the typed wrappers.
//
// Behavior:
//   - Retry waits double after each failed attempt, starting at BackoffInitial and
//     stopping at BackoffMax
//   - The logger is scoped with provider=<Name>, so output from concurrent clients
//     can be told apart
//   - Each client owns its own http.Client; share clients through a ClientPool
//     rather than creating one per request
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	backoff := cfg.BackoffInitial
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	return &Client{
		name:       cfg.Name,
		url:        cfg.URL,
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
		backoffMax: cfg.BackoffMax,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("provider", cfg.Name),
	}
}

// Name returns the provider label the client was created with.
func (c *Client) Name() string { return c.name }

// Call executes a JSON-RPC request with exponential backoff retry.
//
// Parameters:
//   - ctx: bounds the whole call, including the waits between attempts
//   - method: JSON-RPC method name, e.g. MethodGetLogs
//   - params: positional parameters, encoded with their MarshalJSON methods
//
// Returns the response, the latency of the attempt that succeeded, and an error.
// Transport failures and non-200 HTTP statuses are retried. A JSON-RPC error object is
// not retried: the response is returned together with its error, since the node
// answered.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (*Response, time.Duration, error) {
	req := NewRequest(int(c.nextID.Add(1)), method, params...)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, fmt.Errorf("encode %s params: %w", method, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		resp, err := c.doRequest(ctx, body)
		latency := time.Since(start)

		if err == nil {
			c.logger.Debug("rpc call", "method", method, "latency", latency, "attempt", attempt+1)
			if resp.Error != nil {
				return resp, latency, resp.Error
			}
			return resp, latency, nil
		}

		lastErr = err
		if attempt < c.maxRetries {
			wait := c.backoffFor(attempt)
			c.logger.Debug("rpc call failed, retrying", "method", method, "attempt", attempt+1, "wait", wait, "err", err)
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	c.logger.Error("rpc call failed", "method", method, "attempts", c.maxRetries+1, "err", lastErr)
	return nil, 0, fmt.Errorf("%s: failed after %d attempts: %w", method, c.maxRetries+1, lastErr)
}

// backoffFor returns the wait after the given failed attempt: initial, 2x, 4x, ...
// Doubling stops at backoffMax, or at the largest Duration when there is no cap.
func (c *Client) backoffFor(attempt int) time.Duration {
	d := c.backoff
	for i := 0; i < attempt; i++ {
		if c.backoffMax > 0 && d >= c.backoffMax {
			break
		}
		if d > math.MaxInt64/2 {
			d = math.MaxInt64
			break
		}
		d *= 2
	}
	if c.backoffMax > 0 && d > c.backoffMax {
		d = c.backoffMax
	}
	return d
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", httpResp.StatusCode)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	return &resp, nil
}
