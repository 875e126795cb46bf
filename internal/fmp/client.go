// Package fmp talks to the financialmodelingprep.com API.
package fmp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// Rate-limit hints arrive inside an otherwise-successful JSON body.
	rateLimitSecondsKey = "X-Rate-Limit-Retry-After-Seconds"
	rateLimitMillisKey  = "X-Rate-Limit-Retry-After-Milliseconds"
)

// rateLimitError signals that the remote side asked us to back off. It never
// escapes this package; the request loop consumes it.
type rateLimitError struct {
	seconds float64
	millis  float64
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %gs + %gms", e.seconds, e.millis)
}

func (e *rateLimitError) backoff() time.Duration {
	return time.Duration(e.seconds*float64(time.Second)) + time.Duration(e.millis*float64(time.Millisecond))
}

// Options parameterise the FMP client.
type Options struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int
	UserAgent         string
}

// Client fetches JSON documents from FMP. Requests that hit the remote rate
// limit are retried after the advertised backoff, without an attempt cap:
// the limit is transient and the surrounding batch job tolerates stalls. A
// proactive limiter additionally spaces requests out so most runs never see
// a 429 at all.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	limiter *rate.Limiter
	baseURL string

	// Backoff applied to a bare 429 without a hint body.
	statusBackoff time.Duration
}

// NewClient constructs an FMP client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com"
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.RequestsPerSecond)
	}

	return &Client{
		opts:          opts,
		logger:        logger.With().Str("component", "fmp_client").Logger(),
		client:        &http.Client{Timeout: timeout},
		limiter:       limiter,
		baseURL:       baseURL,
		statusBackoff: time.Second,
	}
}

// getJSON fetches one endpoint, retrying on rate-limit signals until the
// remote side lets the request through. Every other failure propagates
// immediately.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if c.opts.APIKey == "" {
		return nil, errors.New("fmp api key not configured")
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.opts.APIKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, err := c.fetchOnce(ctx, endpoint)
		var limited *rateLimitError
		if errors.As(err, &limited) {
			backoff := limited.backoff()
			c.logger.Debug().Dur("backoff", backoff).Str("path", path).Msg("rate limited; backing off")
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return body, nil
	}
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "stockdice/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &rateLimitError{seconds: c.statusBackoff.Seconds()}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	if limited := parseRateLimitHint(payload); limited != nil {
		return nil, limited
	}

	return json.RawMessage(payload), nil
}

// parseRateLimitHint recognises the in-body rate-limit advisory FMP returns
// with a 200 status. Each missing field defaults to zero.
func parseRateLimitHint(payload []byte) *rateLimitError {
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var hint map[string]flexFloat64
	if err := json.Unmarshal(trimmed, &hint); err != nil {
		return nil
	}

	seconds, hasSeconds := hint[rateLimitSecondsKey]
	millis, hasMillis := hint[rateLimitMillisKey]
	if !hasSeconds && !hasMillis {
		return nil
	}

	return &rateLimitError{seconds: float64(seconds), millis: float64(millis)}
}

type errorResponse struct {
	ErrorMessage string `json:"Error Message"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.ErrorMessage != "" {
		return fmt.Errorf("fmp api error (%d): %s", status, apiErr.ErrorMessage)
	}
	if len(payload) > 0 {
		return fmt.Errorf("fmp api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("fmp api error (%d)", status)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
