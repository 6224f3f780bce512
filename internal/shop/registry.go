package shop

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// Registry keeps the shop's orders in process memory. Callers always get
// copies, never pointers into the map.
type Registry struct {
	mu     sync.RWMutex
	orders map[string]*domain.CoffeeBrew
}

func NewRegistry() *Registry {
	return &Registry{orders: make(map[string]*domain.CoffeeBrew)}
}

func (r *Registry) Add(order domain.CoffeeBrew) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = &order
}

func (r *Registry) Get(id string) (domain.CoffeeBrew, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.CoffeeBrew{}, ErrOrderNotFound
	}
	return *order, nil
}

// List returns every order, oldest first.
func (r *Registry) List() []domain.CoffeeBrew {
	r.mu.RLock()
	out := make([]domain.CoffeeBrew, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.CoffeeBrew) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

func (r *Registry) Advance(id string, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("advance %s: %w", id, ErrOrderNotFound)
	}
	return order.Advance(to)
}

// Prune drops orders created before cutoff and reports how many were removed.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, o := range r.orders {
		if o.CreatedAt.Before(cutoff) {
			delete(r.orders, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
