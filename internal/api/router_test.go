package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/api/handler"
	"github.com/tradeshift/trading-shell/internal/api/metrics"
	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/service"
	"github.com/tradeshift/trading-shell/internal/core/validation"
	"github.com/tradeshift/trading-shell/internal/infrastructure/credential"
	"github.com/tradeshift/trading-shell/internal/infrastructure/gateway"
	"github.com/tradeshift/trading-shell/internal/mockapi"
)

type harness struct {
	shell *echo.Echo
	store *credential.MemoryStore
	calls *atomic.Int64
}

// newHarness runs the shell against a mock trading API. calls counts the
// requests the mock API received.
func newHarness(t *testing.T) *harness {
	t.Helper()

	repo := mockapi.NewMemoryRepository()
	backend := mockapi.New(mockapi.Options{
		Users:     repo,
		Orders:    repo.Orders(),
		JWTSecret: "e2e-secret",
		Registry:  prometheus.NewRegistry(),
		Log:       zerolog.Nop(),
	})

	calls := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		backend.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	store := credential.NewMemoryStore()
	gw := gateway.New(gateway.Options{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, store, log)

	shell := NewRouter(Dependencies{
		Auth:         service.NewAuthService(gw, store, validation.New(), log),
		Orders:       service.NewOrderService(gw, log),
		Quotes:       service.NewQuoteService(func() float64 { return 0.5 }),
		Guard:        service.NewRouteGuard(store, log),
		PortfolioID:  1,
		TickInterval: 10 * time.Millisecond,
		Rand:         func() float64 { return 0.5 },
		Health:       map[string]handler.Pinger{"credential_store": store},
		Registry:     prometheus.NewRegistry(),
		Log:          log,
	})

	return &harness{shell: shell, store: store, calls: calls}
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	h.shell.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

const userForm = `{
	"firstname": "Asha", "lastname": "Rao", "dob": "1994-05-01",
	"phone": "9876543210", "gender": "female", "accounttype": "individual",
	"username": "asha@gmail.com", "password": "Passw0rd!"
}`

const credentials = `{"username":"asha@gmail.com","password":"Passw0rd!"}`

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if rec := h.do(t, http.MethodPost, "/auth/register/user", userForm); rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	if rec := h.do(t, http.MethodPost, "/login", credentials); rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestShell_GuardRedirectsBeforeLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != domain.LoginPath {
		t.Fatalf("expected 302 to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec = h.do(t, http.MethodPost, "/trade/orders", `{}`)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for a guarded POST, got %d", rec.Code)
	}
	if h.calls.Load() != 0 {
		t.Fatalf("guarded requests must not reach the API, got %d calls", h.calls.Load())
	}
}

func TestShell_PublicViews(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/", "/auth", "/login", "/health", "/health/ready", "/metrics"} {
		if rec := h.do(t, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestShell_RegisterLoginDashboard(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/auth/register/user", userForm)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	var redirect map[string]string
	decode(t, rec, &redirect)
	if redirect["redirect"] != "/login" {
		t.Fatalf("unexpected register redirect %v", redirect)
	}

	rec = h.do(t, http.MethodPost, "/login", credentials)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &redirect)
	if redirect["redirect"] != "/dashboard" {
		t.Fatalf("unexpected login redirect %v", redirect)
	}

	token, err := h.store.Get(context.Background())
	if err != nil || !token.Present() {
		t.Fatalf("expected a stored token, got %q %v", token, err)
	}

	rec = h.do(t, http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", rec.Code)
	}
	var board struct {
		Board []domain.Tick `json:"board"`
	}
	decode(t, rec, &board)
	if len(board.Board) == 0 {
		t.Fatalf("expected a seeded board")
	}
}

func TestShell_RegisterDuplicateRelaysServerMessage(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	rec := h.do(t, http.MethodPost, "/auth/register/user", userForm)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body errorResponse
	decode(t, rec, &body)
	if body.Error != "Username already exists" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestShell_InvalidRegistrationStaysLocal(t *testing.T) {
	h := newHarness(t)

	form := strings.Replace(userForm, "9876543210", "12345", 1)
	rec := h.do(t, http.MethodPost, "/auth/register/user", form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body errorResponse
	decode(t, rec, &body)
	if body.Fields["phone"] == "" {
		t.Fatalf("expected a phone field error, got %+v", body)
	}
	if h.calls.Load() != 0 {
		t.Fatalf("invalid form reached the API")
	}
}

func TestShell_LoginFailure(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	if err := h.store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}

	rec := h.do(t, http.MethodPost, "/login", `{"username":"asha@gmail.com","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body errorResponse
	decode(t, rec, &body)
	if body.Error != "Invalid username or password" {
		t.Fatalf("unexpected message %q", body.Error)
	}
	if _, err := h.store.Get(context.Background()); err == nil {
		t.Fatalf("failed login must not store a token")
	}
}

func TestShell_SubmitOrderAndHistory(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	rec := h.do(t, http.MethodPost, "/trade/quote", `{"symbol":"AAPL"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("quote: expected 200, got %d", rec.Code)
	}
	var quote domain.Quote
	decode(t, rec, &quote)
	if quote.Price != 182.52 {
		t.Fatalf("unexpected quote %+v", quote)
	}

	rec = h.do(t, http.MethodPost, "/trade/orders", `{"symbol":"aapl","side":"buy","quantity":"10","price":182.52}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("order: expected 201, got %d body %s", rec.Code, rec.Body.String())
	}
	var conf domain.Confirmation
	decode(t, rec, &conf)
	if conf.Total.StringFixed(2) != "1825.20" {
		t.Fatalf("expected total 1825.20, got %s", conf.Total.StringFixed(2))
	}
	if !strings.Contains(conf.Message, "Total: $1825.20") {
		t.Fatalf("unexpected message %q", conf.Message)
	}

	rec = h.do(t, http.MethodGet, "/history?search=aa&type=BUY&status=all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", rec.Code)
	}
	var history struct {
		Orders []struct {
			Symbol string `json:"symbol"`
			Status string `json:"status"`
			Date   string `json:"date"`
			Time   string `json:"time"`
		} `json:"orders"`
	}
	decode(t, rec, &history)
	if len(history.Orders) != 1 {
		t.Fatalf("expected one order, got %+v", history.Orders)
	}
	o := history.Orders[0]
	if o.Symbol != "AAPL" || o.Status != string(domain.StatusCompleted) || o.Date == "" || len(o.Time) != 8 {
		t.Fatalf("unexpected history row %+v", o)
	}

	rec = h.do(t, http.MethodGet, "/history?type=SELL", "")
	decode(t, rec, &history)
	if len(history.Orders) != 0 {
		t.Fatalf("SELL filter should match nothing, got %+v", history.Orders)
	}
}

func TestShell_IncompleteTicketStaysLocal(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	before := h.calls.Load()

	rec := h.do(t, http.MethodPost, "/trade/orders", `{"symbol":"AAPL","side":"buy","quantity":"10"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body errorResponse
	decode(t, rec, &body)
	if body.Error != domain.MissingTicketMessage {
		t.Fatalf("unexpected message %q", body.Error)
	}
	if h.calls.Load() != before {
		t.Fatalf("incomplete ticket reached the API")
	}
}

func TestShell_SettingsProfile(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	rec := h.do(t, http.MethodGet, "/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Profile domain.Profile `json:"profile"`
	}
	decode(t, rec, &page)
	if page.Profile.FirstName != "Asha" || page.Profile.Email != "asha@gmail.com" {
		t.Fatalf("unexpected profile %+v", page.Profile)
	}

	rec = h.do(t, http.MethodPut, "/settings/profile", `{"lastName":"Iyer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &page)
	if page.Profile.LastName != "Iyer" {
		t.Fatalf("update not applied: %+v", page.Profile)
	}
}

func TestShell_LogoutRevokesAccess(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	rec := h.do(t, http.MethodPost, "/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	var redirect map[string]string
	decode(t, rec, &redirect)
	if redirect["redirect"] != "/login" {
		t.Fatalf("unexpected logout redirect %v", redirect)
	}

	rec = h.do(t, http.MethodGet, "/trade", "")
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != domain.LoginPath {
		t.Fatalf("expected redirect after logout, got %d", rec.Code)
	}
}

func TestShell_DashboardStream(t *testing.T) {
	h := newHarness(t)
	if err := h.store.Set(context.Background(), "opaque-token"); err != nil {
		t.Fatalf("set: %v", err)
	}

	srv := httptest.NewServer(h.shell)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 3; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ticks []domain.Tick
		if err := conn.ReadJSON(&ticks); err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		if len(ticks) == 0 {
			t.Fatalf("frame %d carried no ticks", i)
		}
	}
}

func waitGauge(t *testing.T, g prometheus.Gauge, cond func(float64) bool) float64 {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		v := testutil.ToFloat64(g)
		if cond(v) {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatalf("gauge stuck at %v", v)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestShell_StreamStopsOnClose(t *testing.T) {
	gauge := metrics.StreamsActive.WithLabelValues(string(domain.ViewDashboard))
	// Streams of earlier tests may still be unwinding.
	waitGauge(t, gauge, func(v float64) bool { return v == 0 })

	h := newHarness(t)
	if err := h.store.Set(context.Background(), "opaque-token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	srv := httptest.NewServer(h.shell)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ticks []domain.Tick
	if err := conn.ReadJSON(&ticks); err != nil {
		t.Fatalf("read: %v", err)
	}
	waitGauge(t, gauge, func(v float64) bool { return v == 1 })

	if err := conn.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// The gauge drops only after the ticker loop has exited.
	waitGauge(t, gauge, func(v float64) bool { return v == 0 })
}

func TestShell_StreamGuarded(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.shell)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/analytics/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected the handshake to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %+v", resp)
	}
}
