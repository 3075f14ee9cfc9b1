package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// OrderTimeLayout is the wire layout of orderTime, a zone-less local time.
const OrderTimeLayout = "2006-01-02T15:04:05.000000"

type authHandler struct {
	accounts *Accounts
	log      zerolog.Logger
}

// register stores a new account.
//
// @Summary  Register an account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body domain.RegistrationRecord true "Account"
// @Success  200 {object} User
// @Failure  409 {object} errorResponse
// @Router   /auth/register [post]
func (h *authHandler) register(c echo.Context) error {
	var rec domain.RegistrationRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(rec.Username) == "" || rec.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	user, err := h.accounts.Register(c.Request().Context(), rec)
	if err != nil {
		return err
	}
	h.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("user registered")
	return c.JSON(http.StatusOK, user)
}

// login exchanges credentials for a bearer token.
//
// @Summary  Issue a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body domain.LoginRequest true "Credentials"
// @Success  200 {object} domain.LoginResponse
// @Failure  401 {object} errorResponse
// @Router   /auth/login [post]
func (h *authHandler) login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.LoginResponse{Token: token})
}

// profile returns the account named in the path.
//
// @Summary   Read a profile
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Param     username path string true "Username"
// @Success   200 {object} domain.Profile
// @Failure   403 {object} errorResponse
// @Router    /auth/profile/{username} [get]
func (h *authHandler) profile(c echo.Context) error {
	caller, err := ctxUsername(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	h.log.Debug().Str("username", user.Username).Str("caller", caller).Msg("profile read")
	return c.JSON(http.StatusOK, ProfileOf(user))
}

// update applies a partial profile change.
//
// @Summary   Update a profile
// @Tags      auth
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     username path string true "Username"
// @Param     body body domain.ProfileUpdate true "Changed fields"
// @Success   200 {object} domain.Profile
// @Router    /auth/update/{username} [put]
func (h *authHandler) update(c echo.Context) error {
	var upd domain.ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&upd); err != nil {
		return err
	}

	user, err := h.accounts.Update(c.Request().Context(), c.Param("username"), upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProfileOf(user))
}

type orderHandler struct {
	orders OrderRepository
	now    func() time.Time
	log    zerolog.Logger
}

type orderRequest struct {
	Symbol   string  `json:"symbol"   validate:"required"`
	Type     string  `json:"type"     validate:"required,oneof=BUY SELL"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price"    validate:"gt=0"`
}

// place records an order. It is always accepted as Completed.
//
// @Summary  Place an order
// @Tags     portfolio
// @Accept   json
// @Produce  json
// @Param    id   path int          true "Portfolio id"
// @Param    body body orderRequest true "Order"
// @Success  200 {object} domain.Order
// @Failure  400 {object} errorResponse
// @Router   /portfolio/{id}/orders [post]
func (h *orderHandler) place(c echo.Context) error {
	portfolioID, err := portfolioParam(c)
	if err != nil {
		return err
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if err := c.Validate(&req); err != nil {
		return err
	}

	o := &Order{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Symbol:      req.Symbol,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Price:       req.Price,
		OrderTime:   h.now(),
		Status:      string(domain.StatusCompleted),
	}
	if err := h.orders.Create(c.Request().Context(), o); err != nil {
		return err
	}

	h.log.Info().
		Int64("portfolio_id", portfolioID).
		Str("order_id", o.ID).
		Str("symbol", o.Symbol).
		Str("type", o.Type).
		Msg("order placed")
	return c.JSON(http.StatusOK, wireOrder(*o))
}

// list returns the orders of a portfolio, oldest first.
//
// @Summary   List the orders of a portfolio
// @Tags      portfolio
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "Portfolio id"
// @Success   200 {array} domain.Order
// @Router    /portfolio/{id}/orders [get]
func (h *orderHandler) list(c echo.Context) error {
	portfolioID, err := portfolioParam(c)
	if err != nil {
		return err
	}

	orders, err := h.orders.ListByPortfolio(c.Request().Context(), portfolioID)
	if err != nil {
		return err
	}

	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, wireOrder(o))
	}
	return c.JSON(http.StatusOK, out)
}

func portfolioParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid portfolio id")
	}
	return id, nil
}

func wireOrder(o Order) domain.Order {
	return domain.Order{
		ID:        domain.OrderID(o.ID),
		Symbol:    o.Symbol,
		Type:      domain.Side(o.Type),
		Quantity:  o.Quantity,
		Price:     o.Price,
		OrderTime: o.OrderTime.Format(OrderTimeLayout),
		Status:    domain.OrderStatus(o.Status),
	}
}
