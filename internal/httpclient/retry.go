package httpclient

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// RetryHandler retries requests answered with a retryable status, backing off exponentially.
// Used for outbound notifications only; product page fetches are never retried.
type RetryHandler struct {
	maxRetries       int
	baseDelay        time.Duration
	maxDelay         time.Duration
	enableJitter     bool
	retryStatusCodes map[int]bool
	logger           zerolog.Logger
}

// RetryHandlerConfig configuration for retry handler
type RetryHandlerConfig struct {
	MaxRetries       int           `json:"max_retries"`
	BaseDelay        time.Duration `json:"base_delay"`
	MaxDelay         time.Duration `json:"max_delay"`
	EnableJitter     bool          `json:"enable_jitter"`
	RetryStatusCodes []int         `json:"retry_status_codes"`
}

// DefaultRetryHandlerConfig retries rate limits and gateway errors three times.
func DefaultRetryHandlerConfig() RetryHandlerConfig {
	return RetryHandlerConfig{
		MaxRetries:       3,
		BaseDelay:        time.Second,
		MaxDelay:         30 * time.Second,
		EnableJitter:     true,
		RetryStatusCodes: []int{429, 500, 502, 503, 504},
	}
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(config RetryHandlerConfig, logger zerolog.Logger) *RetryHandler {
	statusCodeMap := make(map[int]bool, len(config.RetryStatusCodes))
	for _, code := range config.RetryStatusCodes {
		statusCodeMap[code] = true
	}

	return &RetryHandler{
		maxRetries:       config.MaxRetries,
		baseDelay:        config.BaseDelay,
		maxDelay:         config.MaxDelay,
		enableJitter:     config.EnableJitter,
		retryStatusCodes: statusCodeMap,
		logger:           logger.With().Str("component", "RetryHandler").Logger(),
	}
}

// ShouldRetry determines if a request should be retried based on status code
func (rh *RetryHandler) ShouldRetry(statusCode int, attempt int) bool {
	if attempt >= rh.maxRetries {
		return false
	}
	return rh.retryStatusCodes[statusCode]
}

// CalculateDelay returns baseDelay * 2^attempt, capped at maxDelay.
func (rh *RetryHandler) CalculateDelay(attempt int) time.Duration {
	delay := rh.baseDelay
	for i := 0; i < attempt && delay < rh.maxDelay; i++ {
		delay *= 2
	}
	if rh.maxDelay > 0 && delay > rh.maxDelay {
		delay = rh.maxDelay
	}

	if rh.enableJitter && delay >= 10*time.Millisecond {
		delay += time.Duration(rand.Int64N(int64(delay / 10)))
	}
	return delay
}

// retryAfter honours a Retry-After header given in seconds, bounded by maxDelay.
func (rh *RetryHandler) retryAfter(resp *HTTPResponse) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	value := resp.Headers["Retry-After"]
	if value == "" {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	delay := time.Duration(seconds * float64(time.Second))
	if rh.maxDelay > 0 && delay > rh.maxDelay {
		delay = rh.maxDelay
	}
	return delay, true
}

// WaitForRetry waits before the next attempt or returns ctx.Err() when cancelled.
func (rh *RetryHandler) WaitForRetry(ctx context.Context, attempt int, resp *HTTPResponse, url string) error {
	delay, ok := rh.retryAfter(resp)
	if !ok {
		delay = rh.CalculateDelay(attempt)
	}

	event := rh.logger.Warn().
		Str("url", url).
		Int("attempt", attempt+1).
		Int("max_retries", rh.maxRetries).
		Dur("delay", delay)
	if resp != nil {
		event = event.Int("status_code", resp.StatusCode)
	}
	event.Msg("Retryable response, waiting before retry")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DoWithRetry executes an HTTP request with retry logic
func (rh *RetryHandler) DoWithRetry(ctx context.Context, doFunc func(*HTTPRequest) (*HTTPResponse, error), req *HTTPRequest) (*HTTPResponse, error) {
	var lastResp *HTTPResponse
	var lastErr error

	for attempt := 0; attempt <= rh.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := doFunc(req)
		lastResp, lastErr = resp, err

		if err == nil && !rh.retryStatusCodes[resp.StatusCode] {
			return resp, nil
		}
		if attempt == rh.maxRetries {
			break
		}

		if err != nil {
			rh.logger.Debug().Err(err).Str("url", req.URL).Int("attempt", attempt+1).Msg("Request failed, retrying")
		}
		if err := rh.WaitForRetry(ctx, attempt, resp, req.URL); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, WrapError(lastErr, "all retry attempts failed")
	}
	err := NewHTTPErrorWithURL(lastResp.StatusCode, string(lastResp.Body), req.URL)
	return lastResp, WrapError(err, "all retry attempts failed")
}
