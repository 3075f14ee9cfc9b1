package mockapi

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps users and orders in process memory. It implements
// both UserRepository and OrderRepository.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]User
	orders map[int64][]Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:  make(map[string]User),
		orders: make(map[int64][]Order),
	}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Username]; exists {
		return ErrUserExists
	}
	r.users[u.Username] = *u
	return nil
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; !ok {
		return ErrUserNotFound
	}
	r.users[u.Username] = *u
	return nil
}

// Orders returns an OrderRepository view of r.
func (r *MemoryRepository) Orders() OrderRepository {
	return memoryOrders{r}
}

type memoryOrders struct{ r *MemoryRepository }

func (m memoryOrders) Create(_ context.Context, o *Order) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	m.r.orders[o.PortfolioID] = append(m.r.orders[o.PortfolioID], *o)
	return nil
}

func (m memoryOrders) ListByPortfolio(_ context.Context, portfolioID int64) ([]Order, error) {
	m.r.mu.RLock()
	defer m.r.mu.RUnlock()
	out := make([]Order, len(m.r.orders[portfolioID]))
	copy(out, m.r.orders[portfolioID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderTime.Before(out[j].OrderTime) })
	return out, nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(context.Context) error { return nil }
