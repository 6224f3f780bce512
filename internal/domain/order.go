package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusFinished   OrderStatus = "FINISHED"
)

var statusRank = map[OrderStatus]int{
	OrderStatusNew:        1,
	OrderStatusInProgress: 2,
	OrderStatusFinished:   3,
}

func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether moving from one status to another goes
// strictly forward in the lifecycle.
func CanTransition(from, to OrderStatus) bool {
	f, ok := statusRank[from]
	if !ok {
		return false
	}
	t, ok := statusRank[to]
	if !ok {
		return false
	}
	return t > f
}

// CoffeeBrew is a single brew order. Both the shop and the barista use this
// type; each service only ever mutates its own copy.
type CoffeeBrew struct {
	ID        string      `json:"id"`
	Type      CoffeeType  `json:"type"`
	Status    OrderStatus `json:"status"`
	Self      string      `json:"_self,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewCoffeeBrew(id string, coffeeType CoffeeType, createdAt time.Time) (*CoffeeBrew, error) {
	if !coffeeType.IsValid() {
		return nil, NewValidationError("type", fmt.Errorf("%w: %q", ErrUnknownType, coffeeType))
	}

	return &CoffeeBrew{
		ID:        id,
		Type:      coffeeType,
		Status:    OrderStatusNew,
		CreatedAt: createdAt,
	}, nil
}

func (b *CoffeeBrew) Advance(to OrderStatus) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	return nil
}
