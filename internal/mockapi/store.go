// Package mockapi is a self-contained stand-in for the remote trading API. It
// serves the endpoints the shell consumes, issues HS256 tokens and keeps users
// and orders in memory or in MongoDB.
package mockapi

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"               bson:"_id"`
	FirstName    string    `json:"firstName"        bson:"first_name"`
	LastName     string    `json:"lastName"         bson:"last_name"`
	DateOfBirth  string    `json:"dateOfBirth"      bson:"date_of_birth"`
	PhoneNumber  string    `json:"phoneNumber"      bson:"phone_number"`
	Gender       string    `json:"gender"           bson:"gender"`
	AccountType  string    `json:"accountType"      bson:"account_type"`
	Username     string    `json:"username"         bson:"username"`
	Email        string    `json:"email"            bson:"email"`
	Role         string    `json:"role"             bson:"role"`
	PasswordHash string    `json:"-"                bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt"        bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"        bson:"updated_at"`
}

// Order is a placed order of a portfolio.
type Order struct {
	ID          string    `bson:"_id"`
	PortfolioID int64     `bson:"portfolio_id"`
	Symbol      string    `bson:"symbol"`
	Type        string    `bson:"type"`
	Quantity    float64   `bson:"quantity"`
	Price       float64   `bson:"price"`
	OrderTime   time.Time `bson:"order_time"`
	Status      string    `bson:"status"`
}

// UserRepository persists accounts keyed by username.
type UserRepository interface {
	// Create fails with ErrUserExists when the username is taken.
	Create(ctx context.Context, u *User) error
	// FindByUsername fails with ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Update replaces the stored account. Fails with ErrUserNotFound.
	Update(ctx context.Context, u *User) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	// ListByPortfolio returns the orders of a portfolio oldest first.
	ListByPortfolio(ctx context.Context, portfolioID int64) ([]Order, error)
}
