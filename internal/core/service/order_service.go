package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
)

// OrderService submits trade tickets and reads a portfolio's order history.
type OrderService struct {
	gw  ports.Gateway
	log zerolog.Logger
}

func NewOrderService(gw ports.Gateway, log zerolog.Logger) *OrderService {
	return &OrderService{gw: gw, log: log}
}

func ordersPath(portfolioID int64) string {
	return "/portfolio/" + strconv.FormatInt(portfolioID, 10) + "/orders"
}

// SubmitOrder validates the ticket locally and posts it. No request is sent
// when the ticket is incomplete. Every non-validation failure is reported as
// *domain.OrderError wrapping the cause.
func (s *OrderService) SubmitOrder(ctx context.Context, ticket domain.TradeTicket, portfolioID int64) (*domain.Confirmation, error) {
	intent, err := ticket.Intent()
	if err != nil {
		return nil, err
	}

	if err := s.gw.Do(ctx, http.MethodPost, ordersPath(portfolioID), intent, nil); err != nil {
		s.log.Error().Err(err).
			Str("symbol", intent.Symbol).
			Str("side", string(intent.Side)).
			Int64("portfolio_id", portfolioID).
			Msg("order submission failed")
		return nil, &domain.OrderError{Err: err}
	}

	s.log.Info().
		Str("symbol", intent.Symbol).
		Str("side", string(intent.Side)).
		Int("quantity", intent.Quantity).
		Int64("portfolio_id", portfolioID).
		Msg("order placed")
	return domain.NewConfirmation(intent), nil
}

// ListOrders fetches the order history. Records without a status are reported
// as Completed. Records without an id take their 0-based position.
func (s *OrderService) ListOrders(ctx context.Context, portfolioID int64) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.gw.Do(ctx, http.MethodGet, ordersPath(portfolioID), nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = domain.OrderID(strconv.Itoa(i))
		}
		if orders[i].Status == "" {
			orders[i].Status = domain.StatusCompleted
		}
	}
	return orders, nil
}

// FilterOrders applies f to orders and returns the matches in their original
// order. The input slice is not modified.
func FilterOrders(orders []domain.Order, f domain.HistoryFilter) []domain.Order {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	typ := normaliseCriterion(f.Type)
	status := normaliseCriterion(f.Status)

	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if search != "" && !strings.Contains(strings.ToLower(o.Symbol), search) {
			continue
		}
		if typ != "" && strings.ToLower(string(o.Type)) != typ {
			continue
		}
		if status != "" && strings.ToLower(string(o.Status)) != status {
			continue
		}
		out = append(out, o)
	}
	return out
}

func normaliseCriterion(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return ""
	}
	return s
}
