package ports

import (
	"context"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, form domain.RegistrationForm) error
	Login(ctx context.Context, username, password string) (domain.Credential, error)
	Logout(ctx context.Context) error
	CurrentUsername(ctx context.Context) (string, error)
	Profile(ctx context.Context, username string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (*domain.Profile, error)
}
