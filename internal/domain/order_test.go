package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.OrderStatusNew, domain.OrderStatusInProgress, true},
		{domain.OrderStatusNew, domain.OrderStatusFinished, true},
		{domain.OrderStatusInProgress, domain.OrderStatusFinished, true},
		{domain.OrderStatusInProgress, domain.OrderStatusNew, false},
		{domain.OrderStatusFinished, domain.OrderStatusInProgress, false},
		{domain.OrderStatusNew, domain.OrderStatusNew, false},
		{domain.OrderStatus("BOGUS"), domain.OrderStatusFinished, false},
		{domain.OrderStatusNew, domain.OrderStatus("BOGUS"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to))
		})
	}
}

func TestNewCoffeeBrew(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("starts as NEW", func(t *testing.T) {
		brew, err := domain.NewCoffeeBrew("b-1", domain.CoffeeTypePourOver, now)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusNew, brew.Status)
		assert.Equal(t, domain.CoffeeTypePourOver, brew.Type)
		assert.Equal(t, now, brew.CreatedAt)
		assert.Empty(t, brew.Self)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := domain.NewCoffeeBrew("b-1", domain.CoffeeType("MOCHA"), now)
		assert.ErrorIs(t, err, domain.ErrUnknownType)
	})
}

func TestCoffeeBrew_Advance(t *testing.T) {
	brew, err := domain.NewCoffeeBrew("b-1", domain.CoffeeTypeLatte, time.Now())
	require.NoError(t, err)

	require.NoError(t, brew.Advance(domain.OrderStatusInProgress))
	assert.Equal(t, domain.OrderStatusInProgress, brew.Status)

	err = brew.Advance(domain.OrderStatusNew)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.OrderStatusInProgress, brew.Status)

	require.NoError(t, brew.Advance(domain.OrderStatusFinished))
	assert.ErrorIs(t, brew.Advance(domain.OrderStatusFinished), domain.ErrInvalidTransition)
}
