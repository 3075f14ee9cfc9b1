package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tradeshift/trading-shell/internal/api/metrics"
	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
)

// TradeHandler serves the trade view: quotes and order submission against a
// fixed portfolio.
type TradeHandler struct {
	orders      ports.OrderService
	quotes      ports.QuoteService
	portfolioID int64
}

func NewTradeHandler(orders ports.OrderService, quotes ports.QuoteService, portfolioID int64) *TradeHandler {
	return &TradeHandler{orders: orders, quotes: quotes, portfolioID: portfolioID}
}

type tradePageResponse struct {
	View        domain.View   `json:"view"`
	PortfolioID int64         `json:"portfolioId"`
	Sides       []domain.Side `json:"sides"`
}

type quoteRequest struct {
	Symbol string `json:"symbol"`
}

func (h *TradeHandler) Page(c echo.Context) error {
	return c.JSON(http.StatusOK, tradePageResponse{
		View:        domain.ViewTrade,
		PortfolioID: h.portfolioID,
		Sides:       []domain.Side{domain.SideBuy, domain.SideSell},
	})
}

// Quote returns the reference price of a symbol.
func (h *TradeHandler) Quote(c echo.Context) error {
	var req quoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	q, err := h.quotes.Quote(c.Request().Context(), req.Symbol)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

// Submit places an order from the trade ticket.
func (h *TradeHandler) Submit(c echo.Context) error {
	var ticket domain.TradeTicket
	if err := bind(c, &ticket); err != nil {
		return err
	}

	conf, err := h.orders.SubmitOrder(c.Request().Context(), ticket, h.portfolioID)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.OrdersRejectedLocallyTotal.Inc()
		} else {
			metrics.OrdersSubmittedTotal.WithLabelValues(sideLabel(ticket.Side), "failure").Inc()
		}
		return err
	}

	metrics.OrdersSubmittedTotal.WithLabelValues(string(conf.Side), "success").Inc()
	return c.JSON(http.StatusCreated, conf)
}

// sideLabel normalises the ticket side the way the order intent does. Only
// valid tickets reach the network, so the label stays BUY or SELL.
func sideLabel(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
