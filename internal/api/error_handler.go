package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// errorResponse is the canonical error envelope for all shell errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var (
		ve  *domain.ValidationError
		oe  *domain.OrderError
		ne  *domain.NetworkError
		hte *domain.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		msg := ve.Message
		if msg == "" {
			msg = "validation failed"
		}
		return http.StatusUnprocessableEntity, errorResponse{Error: msg, Fields: ve.Fields}
	case errors.As(err, &oe):
		log.Warn().Err(oe.Err).Str("path", c.Path()).Msg("order failed")
		return http.StatusBadGateway, errorResponse{Error: domain.OrderFailedMessage}
	case errors.As(err, &ne):
		log.Warn().Err(ne.Err).Str("path", c.Path()).Msg("trading api unreachable")
		return http.StatusBadGateway, errorResponse{Error: "service unavailable"}
	case errors.As(err, &hte):
		return upstreamStatus(hte.Status), errorResponse{Error: hte.Message}
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusBadGateway, errorResponse{Error: "login response carried no token"}
	case errors.Is(err, domain.ErrNoCredential):
		return http.StatusUnauthorized, errorResponse{Error: "not signed in"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// upstreamStatus relays the trading API's error status. Anything that is not
// an error status is reported as a bad gateway.
func upstreamStatus(code int) int {
	if code >= 400 && code <= 599 {
		return code
	}
	return http.StatusBadGateway
}
