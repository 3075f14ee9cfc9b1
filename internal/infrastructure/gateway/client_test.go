package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/infrastructure/credential"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *credential.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := credential.NewMemoryStore()
	return New(Options{BaseURL: srv.URL + "/api/"}, store, zerolog.Nop()), store
}

func TestClient_AttachesBearerWhenPresent(t *testing.T) {
	var gotAuth, gotPath string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"a@gmail.com"}`))
	})
	_ = store.Set(context.Background(), "tok123")

	var out domain.Profile
	if err := client.Do(context.Background(), http.MethodGet, "/auth/profile/a@gmail.com", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/api/auth/profile/a@gmail.com" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if out.Username != "a@gmail.com" {
		t.Fatalf("response not decoded: %+v", out)
	}
}

func TestClient_SendsUnauthenticatedWhenAbsent(t *testing.T) {
	called := false
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Do(context.Background(), http.MethodPost, "/auth/login", domain.LoginRequest{Username: "u", Password: "p"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("request was not sent")
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestClient_SendsJSONBody(t *testing.T) {
	var got domain.OrderIntent
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	intent := domain.OrderIntent{Symbol: "AAPL", Side: domain.SideBuy, Quantity: 10, Price: 182.52}
	if err := client.Do(context.Background(), http.MethodPost, "/portfolio/1/orders", intent, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != intent {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestClient_HTTPErrorWithServerMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	})

	err := client.Do(context.Background(), http.MethodPost, "/auth/login", nil, nil)
	var he *domain.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Status != http.StatusUnauthorized || he.Message != "invalid credentials" {
		t.Fatalf("unexpected error: %+v", he)
	}
}

func TestClient_HTTPErrorGenericMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>boom</html>`))
	})

	err := client.Do(context.Background(), http.MethodGet, "/portfolio/1/orders", nil, nil)
	var he *domain.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Message != "request failed with status 500" {
		t.Fatalf("unexpected message %q", he.Message)
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(Options{BaseURL: url}, credential.NewMemoryStore(), zerolog.Nop())
	err := client.Do(context.Background(), http.MethodGet, "/health", nil, nil)
	var ne *domain.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	if got := errorMessage(400, []byte(`{"error":""}`)); got != "request failed with status 400" {
		t.Fatalf("unexpected fallback %q", got)
	}
	if got := errorMessage(409, []byte(`{"error":"user already exists"}`)); got != "user already exists" {
		t.Fatalf("unexpected message %q", got)
	}
}
