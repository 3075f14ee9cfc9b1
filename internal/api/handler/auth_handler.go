package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/api/metrics"
	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
	"github.com/tradeshift/trading-shell/internal/core/service"
)

// Post-action destinations.
const (
	dashboardPath = "/dashboard"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type authPageResponse struct {
	View         domain.View             `json:"view"`
	AdminForm    domain.RegistrationForm `json:"adminForm"`
	UserForm     domain.RegistrationForm `json:"userForm"`
	AccountTypes []string                `json:"accountTypes"`
	Genders      []string                `json:"genders"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Page renders the empty registration forms.
func (h *AuthHandler) Page(c echo.Context) error {
	return c.JSON(http.StatusOK, authPageResponse{
		View:         domain.ViewAuth,
		AdminForm:    service.NewAdminForm(),
		UserForm:     service.NewUserForm(domain.AccountIndividual),
		AccountTypes: domain.UserAccountTypes,
		Genders:      domain.Genders,
	})
}

// RegisterAdmin submits the admin form. Role and account type are fixed.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var form domain.RegistrationForm
	if err := bind(c, &form); err != nil {
		return err
	}
	form.Role = domain.RoleAdmin
	form.Accounttype = domain.AccountAdmin
	return h.register(c, form)
}

// RegisterUser submits the user form. Role is fixed; the account type comes
// from the form.
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var form domain.RegistrationForm
	if err := bind(c, &form); err != nil {
		return err
	}
	form.Role = domain.RoleUser
	return h.register(c, form)
}

func (h *AuthHandler) register(c echo.Context, form domain.RegistrationForm) error {
	if err := h.authService.Register(c.Request().Context(), form); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, redirectResponse{Redirect: domain.LoginPath})
}

// LoginPage renders the login view.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]domain.View{"view": domain.ViewLogin})
}

// Login exchanges credentials for a session and sends the client to the
// dashboard.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		h.log.Info().Err(err).Msg("login failed")
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, redirectResponse{Redirect: dashboardPath})
}

// Logout drops the session and sends the client to the login view.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redirectResponse{Redirect: domain.LoginPath})
}
