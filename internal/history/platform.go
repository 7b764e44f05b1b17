package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"pnl-projection-service/internal/domain"
)

// PlatformSource fetches trade history from the trading platform's REST API.
type PlatformSource struct {
	baseURL         string
	httpClient      *http.Client
	limiter         *rate.Limiter
	maxRetryElapsed time.Duration
}

// PlatformOptions contains configuration for creating a PlatformSource.
type PlatformOptions struct {
	// BaseURL is the platform API root, without trailing slash. Required.
	BaseURL string
	// Timeout bounds each HTTP attempt. Default: 30s.
	Timeout time.Duration
	// RequestsPerSec caps the request rate. Default: 5.
	RequestsPerSec int
	// MaxRetryElapsed bounds the total retry budget. Default: 30s.
	MaxRetryElapsed time.Duration
}

// NewPlatformSource creates a rate-limited, retrying history source.
func NewPlatformSource(opts PlatformOptions) *PlatformSource {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetryElapsed == 0 {
		opts.MaxRetryElapsed = 30 * time.Second
	}

	return &PlatformSource{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:         rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		maxRetryElapsed: opts.MaxRetryElapsed,
	}
}

// Compile-time interface check.
var _ Source = (*PlatformSource)(nil)

// Fetch retrieves trades executed within [from, to] from the platform.
func (s *PlatformSource) Fetch(ctx context.Context, from, to int64) ([]*domain.TradeRecord, error) {
	url := fmt.Sprintf("%s/api/v1/trades?from=%d&to=%d", s.baseURL, from, to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build trade history request: %w", err)
	}

	resp, err := s.doRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch trade history: %w", err)
	}
	defer resp.Body.Close()

	var trades []*domain.TradeRecord
	if err := json.NewDecoder(resp.Body).Decode(&trades); err != nil {
		return nil, fmt.Errorf("decode trade history: %w", err)
	}

	return trades, nil
}

// doRequest performs an HTTP request with rate limiting and retries.
func (s *PlatformSource) doRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Wait for rate limiter
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// Use exponential backoff for retries
	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = s.httpClient.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return &HTTPStatusError{StatusCode: resp.StatusCode}
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = s.maxRetryElapsed

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, err
	}

	return resp, nil
}

// HTTPStatusError represents an error due to a non-200 HTTP status code.
type HTTPStatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return "non-200 status code: " + http.StatusText(e.StatusCode)
}
