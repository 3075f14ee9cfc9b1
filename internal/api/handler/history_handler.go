package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
	"github.com/tradeshift/trading-shell/internal/core/service"
)

// HistoryHandler serves the order history view.
type HistoryHandler struct {
	orders      ports.OrderService
	portfolioID int64
	log         zerolog.Logger
}

func NewHistoryHandler(orders ports.OrderService, portfolioID int64, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{orders: orders, portfolioID: portfolioID, log: log}
}

type historyRow struct {
	ID       domain.OrderID     `json:"id"`
	Date     string             `json:"date"`
	Time     string             `json:"time"`
	Symbol   string             `json:"symbol"`
	Type     domain.Side        `json:"type"`
	Quantity float64            `json:"quantity"`
	Price    float64            `json:"price"`
	Total    decimal.Decimal    `json:"total"`
	Status   domain.OrderStatus `json:"status"`
}

type historyResponse struct {
	View   domain.View          `json:"view"`
	Filter domain.HistoryFilter `json:"filter"`
	Orders []historyRow         `json:"orders"`
}

// List returns the filtered order history. A failed fetch renders an empty
// list.
func (h *HistoryHandler) List(c echo.Context) error {
	var filter domain.HistoryFilter
	if err := bind(c, &filter); err != nil {
		return err
	}

	orders, err := h.orders.ListOrders(c.Request().Context(), h.portfolioID)
	if err != nil {
		h.log.Warn().Err(err).Int64("portfolio_id", h.portfolioID).Msg("order history unavailable")
		orders = nil
	}

	matched := service.FilterOrders(orders, filter)
	rows := make([]historyRow, 0, len(matched))
	for _, o := range matched {
		rows = append(rows, historyRow{
			ID:       o.ID,
			Date:     o.Date(),
			Time:     o.Time(),
			Symbol:   o.Symbol,
			Type:     o.Type,
			Quantity: o.Quantity,
			Price:    o.Price,
			Total:    o.Total(),
			Status:   o.Status,
		})
	}

	return c.JSON(http.StatusOK, historyResponse{View: domain.ViewHistory, Filter: filter, Orders: rows})
}
