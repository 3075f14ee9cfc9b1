package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
)

// RouteGuard decides whether a navigation may proceed. It only checks that a
// credential is present; it never calls the network.
type RouteGuard struct {
	store ports.CredentialStore
	log   zerolog.Logger
}

func NewRouteGuard(store ports.CredentialStore, log zerolog.Logger) *RouteGuard {
	return &RouteGuard{store: store, log: log}
}

// Decide returns Allow for public views and for protected views while a
// credential is stored. Everything else redirects to the login view.
func (g *RouteGuard) Decide(ctx context.Context, view domain.View) domain.Decision {
	if !view.Protected() {
		return domain.Allow()
	}

	token, err := g.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredential) {
			g.log.Warn().Err(err).Str("view", string(view)).Msg("credential read failed")
		}
		return domain.RedirectToLogin()
	}
	if !token.Present() {
		return domain.RedirectToLogin()
	}
	return domain.Allow()
}
