package domain

import "github.com/shopspring/decimal"

// Quote is a reference price for the trade view.
type Quote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// Tick is one row of the dashboard's live board.
type Tick struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Type     Side    `json:"type"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Percent  string  `json:"percent"`
	Time     string  `json:"time"`
}

// SeriesPoint is one month of the analytics growth chart.
type SeriesPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Holding is one asset of the portfolio view.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Change   float64 `json:"change"`
}

// Value is quantity × price.
func (h Holding) Value() decimal.Decimal {
	return decimal.NewFromInt(int64(h.Quantity)).Mul(decimal.NewFromFloat(h.Price))
}

// Allocation is one slice of the portfolio allocation chart.
type Allocation struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

// Volume is the traded buy and sell volume of one weekday.
type Volume struct {
	Day  string  `json:"day"`
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}
