package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/api/metrics"
	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/service"
	"github.com/tradeshift/trading-shell/internal/infrastructure/ticker"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// MarketHandler serves the simulated market views: the dashboard board, the
// portfolio holdings and the analytics charts, plus their live streams.
type MarketHandler struct {
	interval time.Duration
	rnd      service.RandFunc
	log      zerolog.Logger
}

// NewMarketHandler returns a MarketHandler ticking every interval. A nil rnd
// uses math/rand/v2.
func NewMarketHandler(interval time.Duration, rnd service.RandFunc, log zerolog.Logger) *MarketHandler {
	return &MarketHandler{interval: interval, rnd: rnd, log: log}
}

type dashboardResponse struct {
	View  domain.View   `json:"view"`
	Board []domain.Tick `json:"board"`
}

type analyticsResponse struct {
	View        domain.View          `json:"view"`
	Performance []domain.SeriesPoint `json:"performance"`
	Allocation  []domain.Allocation  `json:"allocation"`
	Volume      []domain.Volume      `json:"volume"`
}

type portfolioResponse struct {
	View domain.View `json:"view"`
	service.PortfolioView
}

// Dashboard returns a freshly seeded board.
func (h *MarketHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardResponse{
		View:  domain.ViewDashboard,
		Board: service.NewBoard(h.rnd).Snapshot(),
	})
}

// DashboardStream upgrades to a websocket and pushes the board on every tick.
func (h *MarketHandler) DashboardStream(c echo.Context) error {
	board := service.NewBoard(h.rnd)
	return h.stream(c, domain.ViewDashboard, board.Snapshot(), func() any { return board.Advance() })
}

// Portfolio returns the holdings matching ?search= and their total value.
func (h *MarketHandler) Portfolio(c echo.Context) error {
	return c.JSON(http.StatusOK, portfolioResponse{
		View:          domain.ViewPortfolio,
		PortfolioView: service.Portfolio(c.QueryParam("search")),
	})
}

func (h *MarketHandler) Analytics(c echo.Context) error {
	return c.JSON(http.StatusOK, analyticsResponse{
		View:        domain.ViewAnalytics,
		Performance: service.NewSeries(h.rnd).Snapshot(),
		Allocation:  service.Allocations(),
		Volume:      service.WeeklyVolume(),
	})
}

// AnalyticsStream pushes the sliding performance series on every tick.
func (h *MarketHandler) AnalyticsStream(c echo.Context) error {
	series := service.NewSeries(h.rnd)
	return h.stream(c, domain.ViewAnalytics, series.Snapshot(), func() any { return series.Advance() })
}

// stream sends first, then next() on every tick, until the client goes away.
// The ticker is owned by the connection and stopped when it closes.
func (h *MarketHandler) stream(c echo.Context, view domain.View, first any, next func() any) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Debug().Err(err).Str("view", string(view)).Msg("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	gauge := metrics.StreamsActive.WithLabelValues(string(view))
	gauge.Inc()
	defer gauge.Dec()

	if err := writeJSON(conn, first); err != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	t := ticker.Start(ctx, h.interval, func(time.Time) {
		if err := writeJSON(conn, next()); err != nil {
			h.log.Debug().Err(err).Str("view", string(view)).Msg("stream write failed")
			cancel()
			_ = conn.Close()
		}
	})
	defer t.Stop()

	// Reads only detect the close; clients send nothing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
