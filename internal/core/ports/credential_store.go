package ports

import (
	"context"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// CredentialStore holds the single bearer token of the session.
type CredentialStore interface {
	// Get returns the stored credential, or domain.ErrNoCredential.
	Get(ctx context.Context) (domain.Credential, error)
	// Set overwrites the stored credential. Setting "" clears it.
	Set(ctx context.Context, token domain.Credential) error
	Clear(ctx context.Context) error
}
