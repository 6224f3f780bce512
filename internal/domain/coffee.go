package domain

import (
	"fmt"
	"slices"
	"strings"
)

// CoffeeType is the closed set of drinks the barista knows how to brew.
type CoffeeType string

const (
	CoffeeTypeEspresso CoffeeType = "ESPRESSO"
	CoffeeTypeLatte    CoffeeType = "LATTE"
	CoffeeTypePourOver CoffeeType = "POUR_OVER"
)

var coffeeTypes = []CoffeeType{
	CoffeeTypeEspresso,
	CoffeeTypeLatte,
	CoffeeTypePourOver,
}

// CoffeeTypes returns every brewable coffee type.
func CoffeeTypes() []CoffeeType {
	return slices.Clone(coffeeTypes)
}

// ParseCoffeeType accepts both the enum form ("POUR_OVER") and the
// lower-cased wire form ("pour_over").
func ParseCoffeeType(s string) (CoffeeType, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", NewValidationError("type", ErrTypeRequired)
	}

	t := CoffeeType(strings.ToUpper(v))
	if !t.IsValid() {
		return "", NewValidationError("type", fmt.Errorf("%w: %q", ErrUnknownType, s))
	}

	return t, nil
}

func (t CoffeeType) IsValid() bool {
	return slices.Contains(coffeeTypes, t)
}

// Wire is the identifier sent to the barista service.
func (t CoffeeType) Wire() string {
	return strings.ToLower(string(t))
}

func (t CoffeeType) String() string {
	return string(t)
}
