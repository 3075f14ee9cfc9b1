package ports

import (
	"context"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// OrderService places and lists orders of a portfolio.
type OrderService interface {
	SubmitOrder(ctx context.Context, ticket domain.TradeTicket, portfolioID int64) (*domain.Confirmation, error)
	ListOrders(ctx context.Context, portfolioID int64) ([]domain.Order, error)
}

// QuoteService returns reference prices for the trade view.
type QuoteService interface {
	Quote(ctx context.Context, symbol string) (*domain.Quote, error)
}
