// Package providers contains the outbound client for the geocoding+weather
// provider and the shared retry/circuit-breaker transport helper.
package providers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kurosakiaduma/weather-app-pawa/internal/common"
	"github.com/kurosakiaduma/weather-app-pawa/internal/weather"
)

// RetryConfig controls the bounded retry around a single upstream request.
// Delay grows linearly: attempt n waits n×Delay before running.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// HTTPClientConfig bundles the HTTP client and retry settings shared by all
// provider operations.
type HTTPClientConfig struct {
	Client *http.Client
	Retry  RetryConfig
}

// Response is the uniform outcome of an upstream GET: status and full body.
type Response struct {
	Status int
	Body   []byte
}

var errNoHTTPClient = errors.New("http client not configured")

// doRequestWithRetry executes the request with bounded retry and a circuit
// breaker. Only connection-level failures (timeout, refused, DNS) are
// retried; a non-success status is terminal and returned as-is for the
// caller to classify. Transport failure after retries, or an open circuit,
// yields an UpstreamUnavailable error.
func doRequestWithRetry(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	attempts := cfg.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, weather.UpstreamUnavailable(ctx.Err())
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			defer resp.Body.Close()

			body, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				return nil, readErr
			}
			return &Response{Status: resp.StatusCode, Body: body}, nil
		})

		if err == nil {
			return result.(*Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, weather.UpstreamUnavailable(err)
		}
		if !isConnectionError(err) {
			// Not retryable and not a status outcome; surface as transport
			// failure without burning further attempts.
			return nil, weather.UpstreamUnavailable(err)
		}

		lastErr = err
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(time.Duration(attempt) * cfg.Retry.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, weather.UpstreamUnavailable(ctx.Err())
		case <-timer.C:
		}
	}

	return nil, weather.UpstreamUnavailable(lastErr)
}

// isConnectionError reports whether err is a connection-level failure worth
// retrying: timeouts, refused connections, DNS failures.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return common.HasAny(err.Error(),
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
	)
}
