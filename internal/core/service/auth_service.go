package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/core/domain"
	"github.com/tradeshift/trading-shell/internal/core/ports"
)

// FormValidator validates a form struct and returns *domain.ValidationError
// on failure.
type FormValidator interface {
	Struct(i any) error
}

// AuthService implements registration, login and the session lifecycle on
// top of the remote API.
type AuthService struct {
	gw       ports.Gateway
	store    ports.CredentialStore
	validate FormValidator
	log      zerolog.Logger
}

func NewAuthService(gw ports.Gateway, store ports.CredentialStore, validate FormValidator, log zerolog.Logger) *AuthService {
	return &AuthService{gw: gw, store: store, validate: validate, log: log}
}

// Register validates the form and posts the mapped record. Nothing is stored
// on success; the caller routes to the login view.
func (s *AuthService) Register(ctx context.Context, form domain.RegistrationForm) error {
	if err := s.validate.Struct(form); err != nil {
		return err
	}

	if err := s.gw.Do(ctx, http.MethodPost, "/auth/register", MapRegistration(form), nil); err != nil {
		s.log.Info().Err(err).Str("role", form.Role).Msg("registration rejected")
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("role", form.Role).Str("account_type", form.Accounttype).Msg("user registered")
	return nil
}

// Login exchanges credentials for a token and stores it before returning.
// A failed attempt never touches the store.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Credential, error) {
	var resp domain.LoginResponse
	req := domain.LoginRequest{Username: username, Password: password}
	if err := s.gw.Do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	token := domain.Credential(resp.Token)
	if !token.Present() {
		return "", domain.ErrMissingToken
	}
	if err := s.store.Set(ctx, token); err != nil {
		return "", fmt.Errorf("store credential: %w", err)
	}

	s.log.Info().Msg("login succeeded")
	return token, nil
}

// Logout drops the stored credential.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUsername reads the username claim of the stored token. The token is
// not verified; the remote API remains the authority.
func (s *AuthService) CurrentUsername(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx)
	if err != nil {
		return "", err
	}
	return usernameFromToken(string(token))
}

func (s *AuthService) Profile(ctx context.Context, username string) (*domain.Profile, error) {
	var p domain.Profile
	if err := s.gw.Do(ctx, http.MethodGet, "/auth/profile/"+url.PathEscape(username), nil, &p); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &p, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, username string, update domain.ProfileUpdate) (*domain.Profile, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, err
	}

	var p domain.Profile
	if err := s.gw.Do(ctx, http.MethodPut, "/auth/update/"+url.PathEscape(username), update, &p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &p, nil
}

var errNoUsernameClaim = errors.New("token carries no username")

func usernameFromToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	for _, key := range []string{"username", "sub"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", errNoUsernameClaim
}
