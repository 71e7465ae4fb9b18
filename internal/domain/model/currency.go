package model

import (
	"errors"
	"strings"
)

var ErrInvalidCurrency = errors.New("currency code must be 3 latin letters")

type Currency string

// ParseCurrency normalizes free-form input and checks the strict 3-letter rule.
func ParseCurrency(raw string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

func (c Currency) String() string {
	return string(c)
}
