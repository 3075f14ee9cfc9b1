// Package gateway is the HTTP client of the remote trading API. It binds a
// base URL and attaches the stored bearer credential to every request.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/api/metrics"
	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Options configures the client.
type Options struct {
	// BaseURL is prefixed to every request path, e.g. http://localhost:8080/api.
	BaseURL string
	// Timeout bounds a single request. Defaults to 10s.
	Timeout time.Duration
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Client implements ports.Gateway on top of resty.
type Client struct {
	http  *resty.Client
	store ports.CredentialStore
	log   zerolog.Logger
}

// New returns a Client that reads credentials from store on every call.
func New(opts Options, store ports.CredentialStore, log zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}

	return &Client{http: rc, store: store, log: log}
}

// Do sends one request. The bearer header is attached only when a credential
// is present; the client never refuses to send on its own.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)

	cred, err := c.store.Get(ctx)
	switch {
	case err == nil:
		req.SetAuthToken(string(cred))
	case !errors.Is(err, domain.ErrNoCredential):
		c.log.Warn().Err(err).Str("path", path).Msg("credential read failed, sending unauthenticated")
	}

	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.GatewayRequestDuration.WithLabelValues(method, "network_error").Observe(time.Since(start).Seconds())
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &domain.NetworkError{Err: err}
	}

	status := resp.StatusCode()
	metrics.GatewayRequestDuration.WithLabelValues(method, metrics.StatusClass(status)).Observe(time.Since(start).Seconds())

	if !resp.IsSuccess() {
		c.log.Debug().Str("method", method).Str("path", path).Int("status", status).Msg("non-2xx response")
		return &domain.HTTPError{Status: status, Message: errorMessage(status, resp.Body())}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts the server message from a {"error": "..."} body,
// falling back to a generic message.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// restyLogger routes resty's internal logging into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
