package mockapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradeshift/trading-shell/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = 10 * time.Hour

// Accounts implements registration, login and profile maintenance.
type Accounts struct {
	repo      UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAccounts(repo UserRepository, jwtSecret string, tokenTTL time.Duration) *Accounts {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Accounts{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// Register stores a new account. The role defaults to ROLE_USER.
func (a *Accounts) Register(ctx context.Context, rec domain.RegistrationRecord) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rec.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := rec.Role
	if role == "" {
		role = domain.RoleUser
	}
	email := rec.Email
	if email == "" {
		email = rec.Username
	}

	now := a.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		DateOfBirth:  rec.DateOfBirth,
		PhoneNumber:  rec.PhoneNumber,
		Gender:       rec.Gender,
		AccountType:  rec.AccountType,
		Username:     strings.TrimSpace(rec.Username),
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the password and issues a token. Unknown users and wrong
// passwords both fail with ErrInvalidCredentials.
func (a *Accounts) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return a.generateToken(user)
}

func (a *Accounts) Profile(ctx context.Context, username string) (*User, error) {
	return a.repo.FindByUsername(ctx, username)
}

// Update applies the non-empty fields of upd.
func (a *Accounts) Update(ctx context.Context, username string, upd domain.ProfileUpdate) (*User, error) {
	user, err := a.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != "" {
		user.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		user.LastName = upd.LastName
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	if upd.PhoneNumber != "" {
		user.PhoneNumber = upd.PhoneNumber
	}
	if upd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = a.now().UTC()

	if err := a.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *Accounts) generateToken(user *User) (string, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"sub":      user.Username,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(a.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(a.jwtSecret))
}

// ProfileOf converts a stored user into the wire profile.
func ProfileOf(u *User) domain.Profile {
	return domain.Profile{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Username:    u.Username,
		Role:        u.Role,
		AccountType: u.AccountType,
		Gender:      u.Gender,
		DateOfBirth: u.DateOfBirth,
	}
}
