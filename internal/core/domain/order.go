package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order. On the wire it travels as "type".
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Title returns "Buy" or "Sell".
func (s Side) Title() string {
	switch s {
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	}
	return string(s)
}

// Valid reports whether s is BUY or SELL.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

type OrderStatus string

const (
	StatusCompleted OrderStatus = "Completed"
	StatusPending   OrderStatus = "Pending"
	StatusCancelled OrderStatus = "Cancelled"
)

// MissingTicketMessage is shown when an order is attempted without a
// reference price or a quantity.
const MissingTicketMessage = "Please fetch stock price and enter quantity"

// TradeTicket is the trade form as the user filled it in. Price is nil
// until a quote has been fetched; Quantity is the raw text of the input.
type TradeTicket struct {
	Symbol   string   `json:"symbol"`
	Side     string   `json:"side"`
	Quantity string   `json:"quantity"`
	Price    *float64 `json:"price"`
}

// Ready reports whether the ticket has both a reference price and a
// quantity. A ticket that is not ready must never reach the network.
func (t TradeTicket) Ready() bool {
	return t.Price != nil && strings.TrimSpace(t.Quantity) != ""
}

// Intent builds the order intent the ticket describes.
func (t TradeTicket) Intent() (OrderIntent, error) {
	if !t.Ready() {
		return OrderIntent{}, &ValidationError{Message: MissingTicketMessage}
	}

	fields := make(map[string]string)
	symbol := strings.ToUpper(strings.TrimSpace(t.Symbol))
	if symbol == "" {
		fields["symbol"] = "Please enter a stock symbol"
	}
	side := Side(strings.ToUpper(strings.TrimSpace(t.Side)))
	if !side.Valid() {
		fields["side"] = "Order type must be buy or sell"
	}
	qty, err := strconv.Atoi(strings.TrimSpace(t.Quantity))
	if err != nil || qty <= 0 {
		fields["quantity"] = "Quantity must be a positive whole number"
	}
	if *t.Price <= 0 {
		fields["price"] = "Price must be greater than 0"
	}
	if len(fields) > 0 {
		return OrderIntent{}, &ValidationError{Fields: fields}
	}

	return OrderIntent{Symbol: symbol, Side: side, Quantity: qty, Price: *t.Price}, nil
}

// OrderIntent is the body of POST /portfolio/{id}/orders.
type OrderIntent struct {
	Symbol   string  `json:"symbol"`
	Side     Side    `json:"type"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Total is quantity × price.
func (o OrderIntent) Total() decimal.Decimal {
	return decimal.NewFromInt(int64(o.Quantity)).Mul(decimal.NewFromFloat(o.Price))
}

// Confirmation summarises an accepted order for display.
type Confirmation struct {
	Side     Side            `json:"side"`
	Symbol   string          `json:"symbol"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	Message  string          `json:"message"`
}

// NewConfirmation builds the confirmation for an accepted intent.
func NewConfirmation(o OrderIntent) *Confirmation {
	price := decimal.NewFromFloat(o.Price)
	total := o.Total()
	return &Confirmation{
		Side:     o.Side,
		Symbol:   o.Symbol,
		Quantity: o.Quantity,
		Price:    price,
		Total:    total,
		Message: fmt.Sprintf("%s order placed: %d shares of %s at $%s (Total: $%s)",
			o.Side.Title(), o.Quantity, o.Symbol, price.StringFixed(2), total.StringFixed(2)),
	}
}

// OrderID accepts both numeric and string ids from the backend.
type OrderID string

func (id *OrderID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = OrderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	*id = OrderID(n.String())
	return nil
}

// Order is one record of GET /portfolio/{id}/orders.
type Order struct {
	ID        OrderID     `json:"id"`
	Symbol    string      `json:"symbol"`
	Type      Side        `json:"type"`
	Quantity  float64     `json:"quantity"`
	Price     float64     `json:"price"`
	OrderTime string      `json:"orderTime"`
	Status    OrderStatus `json:"status,omitempty"`
}

// Date returns the date part of OrderTime.
func (o Order) Date() string {
	date, _, _ := strings.Cut(o.OrderTime, "T")
	return date
}

// Time returns hh:mm:ss of OrderTime, or "" when it has no time part.
func (o Order) Time() string {
	_, t, ok := strings.Cut(o.OrderTime, "T")
	if !ok {
		return ""
	}
	if len(t) > 8 {
		t = t[:8]
	}
	return t
}

// Total is quantity × price.
func (o Order) Total() decimal.Decimal {
	return decimal.NewFromFloat(o.Quantity).Mul(decimal.NewFromFloat(o.Price))
}

// HistoryFilter narrows an order list. Empty or "all" disables a criterion.
type HistoryFilter struct {
	Search string `query:"search" json:"search"`
	Type   string `query:"type"   json:"type"`
	Status string `query:"status" json:"status"`
}
