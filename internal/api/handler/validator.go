package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradeshift/trading-shell/internal/core/validation"
)

// NewValidator returns the validator assigned to echo.Echo.Validator.
func NewValidator() *validation.Validator {
	return validation.New()
}

// bind decodes the request into dst. Decode failures become a 400 with a
// fixed message.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

// bindAndValidate decodes the request into dst and runs the echo validator.
func bindAndValidate(c echo.Context, dst any) error {
	if err := bind(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
