package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

const errorBodyLimit = 4 << 10

// RetryPolicy bounds retries of 429 and 5xx responses.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("open-meteo returned status %d", e.Status)
	}
	return fmt.Sprintf("open-meteo returned status %d: %s", e.Status, e.Reason)
}

// transport executes GET requests behind a circuit breaker with bounded retries.
type transport struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	retry     RetryPolicy
	userAgent string
	sleep     func(context.Context, time.Duration) error
}

func newTransport(name string, timeout time.Duration, retry RetryPolicy, userAgent string) *transport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &transport{
		client:    &http.Client{Timeout: timeout},
		breaker:   breaker,
		retry:     retry,
		userAgent: userAgent,
		sleep:     sleepContext,
	}
}

// getJSON fetches endpoint and decodes the body into out.
func (t *transport) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := t.do(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode open-meteo response: %w", err)
	}
	return nil
}

func (t *transport) do(ctx context.Context, endpoint string) (*http.Response, error) {
	var lastErr error
	attempts := 1 + max(t.retry.MaxRetries, 0)
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build open-meteo request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if t.userAgent != "" {
			req.Header.Set("User-Agent", t.userAgent)
		}

		resp, err := t.breaker.Execute(func() (*http.Response, error) {
			r, doErr := t.client.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			if retryable(r.StatusCode) {
				return r, fmt.Errorf("upstream returned %d", r.StatusCode)
			}
			return r, nil
		})
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("open-meteo unavailable: %w", err)
		}

		lastErr = err
		if resp != nil {
			if attempt == attempts-1 {
				defer resp.Body.Close()
				return nil, statusError(resp)
			}
			resp.Body.Close()
		}
		if attempt < attempts-1 {
			if err := t.sleep(ctx, t.backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("open-meteo request failed: %w", lastErr)
}

func (t *transport) backoff(attempt int) time.Duration {
	wait := t.retry.MinWait << attempt
	if t.retry.MaxWait > 0 && (wait > t.retry.MaxWait || wait <= 0) {
		wait = t.retry.MaxWait
	}
	return wait
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func statusError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	var body struct {
		Reason string `json:"reason"`
	}
	reason := strings.TrimSpace(string(payload))
	if err := json.Unmarshal(payload, &body); err == nil && body.Reason != "" {
		reason = body.Reason
	}
	return &StatusError{Status: resp.StatusCode, Reason: reason}
}
