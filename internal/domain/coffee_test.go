package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

func TestParseCoffeeType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.CoffeeType
	}{
		{name: "enum form", input: "POUR_OVER", want: domain.CoffeeTypePourOver},
		{name: "wire form", input: "pour_over", want: domain.CoffeeTypePourOver},
		{name: "mixed case with spaces", input: "  Latte ", want: domain.CoffeeTypeLatte},
		{name: "espresso", input: "espresso", want: domain.CoffeeTypeEspresso},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseCoffeeType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCoffeeType_Invalid(t *testing.T) {
	t.Run("empty type is required", func(t *testing.T) {
		_, err := domain.ParseCoffeeType("")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTypeRequired)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "type", verr.Field)
	})

	t.Run("blank type is required", func(t *testing.T) {
		_, err := domain.ParseCoffeeType("   ")
		assert.ErrorIs(t, err, domain.ErrTypeRequired)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := domain.ParseCoffeeType("MOCHA")
		assert.ErrorIs(t, err, domain.ErrUnknownType)
		assert.Contains(t, err.Error(), "MOCHA")
	})
}

func TestCoffeeType_Wire(t *testing.T) {
	assert.Equal(t, "pour_over", domain.CoffeeTypePourOver.Wire())
	assert.Equal(t, "espresso", domain.CoffeeTypeEspresso.Wire())

	for _, ct := range domain.CoffeeTypes() {
		parsed, err := domain.ParseCoffeeType(ct.Wire())
		require.NoError(t, err)
		assert.Equal(t, ct, parsed)
	}
}

func TestNewBrewRequest(t *testing.T) {
	req := domain.NewBrewRequest(domain.CoffeeTypeLatte)
	assert.Equal(t, "latte", req.Type)
}
