package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/weather-advice/internal/infra/config"
)

const retryBodyLimit = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

// replayPolicy re-runs POST requests whose handler failed with a local 500.
// 502 and 503 answers come from the weather adapters, which retry upstream
// on their own, so they are returned as is.
type replayPolicy struct {
	attempts int
	backoff  time.Duration
	skip     map[string]struct{}
	logger   *slog.Logger
	wait     func(context.Context, time.Duration) error
}

func newReplayPolicy(cfg config.RetryConfig, logger *slog.Logger) *replayPolicy {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return nil
	}
	skip := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		skip[path] = struct{}{}
	}
	return &replayPolicy{
		attempts: cfg.MaxAttempts,
		backoff:  cfg.BaseBackoff,
		skip:     skip,
		logger:   logger,
		wait:     waitContext,
	}
}

func replayable(status int) bool {
	return status == http.StatusInternalServerError
}

// wrap returns next unchanged when replays are disabled.
func (p *replayPolicy) wrap(next http.Handler) http.Handler {
	if p == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := p.skip[r.URL.Path]; skip || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		body, err := bufferBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		var (
			buffered *bufferedResponse
			id       string
		)
		for attempt := 1; attempt <= p.attempts; attempt++ {
			if attempt > 1 {
				if err := p.wait(r.Context(), p.backoff<<(attempt-2)); err != nil {
					break
				}
				p.logger.Warn("replaying request after internal error", "path", r.URL.Path, "attempt", attempt, "request_id", id)
			}
			buffered = newBufferedResponse()
			replay := r.Clone(r.Context())
			replay.Body = io.NopCloser(bytes.NewReader(body))
			replay.ContentLength = int64(len(body))
			if id != "" {
				replay.Header.Set(requestIDHeader, id)
			}
			next.ServeHTTP(buffered, replay)
			id = buffered.header.Get(requestIDHeader)
			if !replayable(buffered.status) {
				break
			}
		}
		buffered.flushTo(w)
	})
}

func waitContext(ctx context.Context, d time.Duration) error {
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

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, retryBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// bufferedResponse holds one attempt's response until it is final.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *bufferedResponse) WriteHeader(status int) { b.status = status }

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for key, values := range b.header {
		dst[key] = append([]string(nil), values...)
	}
	w.WriteHeader(b.status)
	_, _ = w.Write(b.body.Bytes())
}
