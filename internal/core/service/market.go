package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// RandFunc returns a pseudo-random number in [0, 1).
type RandFunc func() float64

func orDefault(r RandFunc) RandFunc {
	if r == nil {
		return rand.Float64
	}
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ── Quotes ────────────────────────────────────────────────────────────────────

var referenceQuotes = map[string]domain.Quote{
	"AAPL":  {Symbol: "AAPL", Name: "Apple Inc.", Price: 182.52},
	"GOOGL": {Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 141.80},
	"MSFT":  {Symbol: "MSFT", Name: "Microsoft Corp.", Price: 378.91},
	"AMZN":  {Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 151.94},
	"TSLA":  {Symbol: "TSLA", Name: "Tesla Inc.", Price: 242.84},
	"NVDA":  {Symbol: "NVDA", Name: "NVIDIA Corp.", Price: 495.22},
}

// QuoteService serves reference prices. It is a mock market data source.
type QuoteService struct {
	rnd RandFunc
}

// NewQuoteService returns a QuoteService. A nil rnd uses math/rand/v2.
func NewQuoteService(rnd RandFunc) *QuoteService {
	return &QuoteService{rnd: orDefault(rnd)}
}

// Quote returns the reference quote for symbol. Unknown symbols get a random
// price in [50, 550).
func (s *QuoteService) Quote(_ context.Context, symbol string) (*domain.Quote, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return nil, domain.NewFieldError("symbol", "Please enter a stock symbol")
	}
	if q, ok := referenceQuotes[sym]; ok {
		return &q, nil
	}
	return &domain.Quote{
		Symbol: sym,
		Name:   sym + " Company",
		Price:  round2(s.rnd()*500 + 50),
	}, nil
}

// ── Live board ────────────────────────────────────────────────────────────────

type boardCompany struct {
	symbol string
	name   string
	side   domain.Side
	base   float64
}

var boardCompanies = []boardCompany{
	{"AAPL", "Apple Inc.", domain.SideBuy, 182.52},
	{"GOOGL", "Alphabet Inc.", domain.SideSell, 141.80},
	{"MSFT", "Microsoft Corp.", domain.SideBuy, 378.91},
	{"TCS", "Tata Consultancy", domain.SideBuy, 3452.31},
	{"INFY", "Infosys Ltd.", domain.SideSell, 1513.22},
}

// Board is the dashboard's simulated live trade board. Each connection owns
// its own Board; it is not safe for concurrent use.
type Board struct {
	rnd   RandFunc
	ticks []domain.Tick
}

// NewBoard seeds the board at base prices with random quantities in [10, 109].
func NewBoard(rnd RandFunc) *Board {
	b := &Board{rnd: orDefault(rnd)}
	b.ticks = make([]domain.Tick, len(boardCompanies))
	for i, c := range boardCompanies {
		b.ticks[i] = domain.Tick{
			Symbol:   c.symbol,
			Name:     c.name,
			Type:     c.side,
			Price:    c.base,
			Quantity: int(math.Floor(b.rnd()*100)) + 10,
			Percent:  b.percent(),
			Time:     "Now",
		}
	}
	return b
}

// Snapshot returns a copy of the current board.
func (b *Board) Snapshot() []domain.Tick {
	out := make([]domain.Tick, len(b.ticks))
	copy(out, b.ticks)
	return out
}

// Advance moves every price to base ± 4 and redraws the percent change.
// Quantities stay fixed.
func (b *Board) Advance() []domain.Tick {
	for i, c := range boardCompanies {
		b.ticks[i].Price = round2(c.base + b.rnd()*8 - 4)
		b.ticks[i].Percent = b.percent()
	}
	return b.Snapshot()
}

func (b *Board) percent() string {
	v := b.rnd()*2 - 1
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// ── Analytics series ──────────────────────────────────────────────────────────

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var seedSeries = []domain.SeriesPoint{
	{Month: "Jan", Value: 95000},
	{Month: "Feb", Value: 98000},
	{Month: "Mar", Value: 102000},
	{Month: "Apr", Value: 108000},
	{Month: "May", Value: 112000},
	{Month: "Jun", Value: 115000},
	{Month: "Jul", Value: 118000},
	{Month: "Aug", Value: 121000},
	{Month: "Sep", Value: 119000},
	{Month: "Oct", Value: 123000},
	{Month: "Nov", Value: 124589},
}

// Series is the analytics portfolio-value chart: a fixed-length monthly
// random walk. Not safe for concurrent use.
type Series struct {
	rnd    RandFunc
	points []domain.SeriesPoint
}

func NewSeries(rnd RandFunc) *Series {
	points := make([]domain.SeriesPoint, len(seedSeries))
	copy(points, seedSeries)
	return &Series{rnd: orDefault(rnd), points: points}
}

func (s *Series) Snapshot() []domain.SeriesPoint {
	out := make([]domain.SeriesPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Advance drops the oldest point and appends the next month, moved by a
// random step in [-320, 330).
func (s *Series) Advance() []domain.SeriesPoint {
	last := s.points[len(s.points)-1]
	next := domain.SeriesPoint{
		Month: nextMonth(last.Month),
		Value: round2(last.Value + s.rnd()*650 - 320),
	}
	s.points = append(s.points[1:], next)
	return s.Snapshot()
}

func nextMonth(m string) string {
	for i, name := range months {
		if name == m {
			return months[(i+1)%len(months)]
		}
	}
	return months[0]
}

// Allocations is the static allocation breakdown shown next to the chart.
func Allocations() []domain.Allocation {
	return []domain.Allocation{
		{Symbol: "AAPL", Value: 27378},
		{Symbol: "MSFT", Value: 45469},
		{Symbol: "GOOGL", Value: 10635},
		{Symbol: "AMZN", Value: 9116},
		{Symbol: "TSLA", Value: 21855},
		{Symbol: "NVDA", Value: 22285},
	}
}

// WeeklyVolume is the static buy/sell volume chart.
func WeeklyVolume() []domain.Volume {
	return []domain.Volume{
		{Day: "Mon", Buy: 12000, Sell: 8000},
		{Day: "Tue", Buy: 15000, Sell: 10000},
		{Day: "Wed", Buy: 10000, Sell: 12000},
		{Day: "Thu", Buy: 18000, Sell: 9000},
		{Day: "Fri", Buy: 14000, Sell: 11000},
	}
}

// ── Portfolio ─────────────────────────────────────────────────────────────────

var holdings = []domain.Holding{
	{Symbol: "AAPL", Name: "Apple Inc.", Quantity: 150, Price: 182.52, Change: 2.3},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Quantity: 75, Price: 141.80, Change: -1.2},
	{Symbol: "MSFT", Name: "Microsoft Corp.", Quantity: 120, Price: 378.91, Change: 1.8},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Quantity: 60, Price: 151.94, Change: 3.1},
	{Symbol: "TSLA", Name: "Tesla Inc.", Quantity: 90, Price: 242.84, Change: -2.5},
	{Symbol: "NVDA", Name: "NVIDIA Corp.", Quantity: 45, Price: 495.22, Change: 5.7},
}

// PortfolioView is the holdings list after a search, with its total value.
type PortfolioView struct {
	Holdings []domain.Holding `json:"holdings"`
	Total    decimal.Decimal  `json:"total"`
}

// Portfolio returns the holdings whose symbol or name contains query
// (case-insensitive) and their combined value.
func Portfolio(query string) PortfolioView {
	q := strings.ToLower(strings.TrimSpace(query))
	view := PortfolioView{Holdings: make([]domain.Holding, 0, len(holdings)), Total: decimal.Zero}
	for _, h := range holdings {
		if q != "" && !strings.Contains(strings.ToLower(h.Symbol), q) && !strings.Contains(strings.ToLower(h.Name), q) {
			continue
		}
		view.Holdings = append(view.Holdings, h)
		view.Total = view.Total.Add(h.Value())
	}
	return view
}
