package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/llmsentinel/logging"
)

// HTTPSinkOptions configure an HTTPSink.
type HTTPSinkOptions struct {
	// PublicKey and SecretKey form the basic auth pair expected by
	// Langfuse-compatible collectors. Leave both empty for no auth.
	PublicKey string
	SecretKey string
	// Timeout bounds each POST. Defaults to 10s.
	Timeout time.Duration
	// Logger receives swallowed emission failures. Defaults to NoOpLogger.
	Logger logging.Logger
	// HTTPClient overrides the default client (the Timeout option is
	// ignored when set).
	HTTPClient *http.Client
}

// HTTPSink POSTs each event as JSON to an external collector endpoint.
// Failures are logged and swallowed, never propagated.
type HTTPSink struct {
	endpoint string
	opts     HTTPSinkOptions
}

// NewHTTPSink creates a sink posting to the given endpoint URL.
func NewHTTPSink(endpoint string, optFns ...func(o *HTTPSinkOptions)) *HTTPSink {
	opts := HTTPSinkOptions{
		Timeout: 10 * time.Second,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPSink{endpoint: strings.TrimRight(endpoint, "/"), opts: opts}
}

// Emit implements Sink.
func (s *HTTPSink) Emit(ctx context.Context, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		s.opts.Logger.Warn("trace emit failed", "error", err.Error())
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		s.opts.Logger.Warn("trace emit failed", "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.opts.PublicKey != "" || s.opts.SecretKey != "" {
		req.SetBasicAuth(s.opts.PublicKey, s.opts.SecretKey)
	}

	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		s.opts.Logger.Warn("trace emit failed", "error", err.Error())
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.opts.Logger.Warn("trace collector rejected event", "status", resp.StatusCode, "id", ev.ID)
	}
}

var _ Sink = (*HTTPSink)(nil)
