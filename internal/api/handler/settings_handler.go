package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
)

// SettingsHandler serves the profile settings view of the signed-in user.
type SettingsHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewSettingsHandler(authService ports.AuthService, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{authService: authService, log: log}
}

type settingsResponse struct {
	View    domain.View     `json:"view"`
	Profile *domain.Profile `json:"profile"`
}

// Page loads the profile of the user named by the stored token.
func (h *SettingsHandler) Page(c echo.Context) error {
	ctx := c.Request().Context()
	username, err := h.authService.CurrentUsername(ctx)
	if err != nil {
		h.log.Debug().Err(err).Msg("stored token carries no readable username")
		return c.JSON(http.StatusOK, settingsResponse{View: domain.ViewSettings, Profile: &domain.Profile{}})
	}

	p, err := h.authService.Profile(ctx, username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settingsResponse{View: domain.ViewSettings, Profile: p})
}

// UpdateProfile applies a partial profile update.
func (h *SettingsHandler) UpdateProfile(c echo.Context) error {
	var update domain.ProfileUpdate
	if err := bind(c, &update); err != nil {
		return err
	}

	ctx := c.Request().Context()
	username, err := h.authService.CurrentUsername(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session carries no username")
	}

	p, err := h.authService.UpdateProfile(ctx, username, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settingsResponse{View: domain.ViewSettings, Profile: p})
}
