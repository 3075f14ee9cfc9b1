package mockapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// newHTTPErrorHandler renders every failure as {"error": "..."} with the
// messages the trading backend uses.
func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict, "Username already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
