package service

import (
	"testing"
	"time"

	"favorite-rates-service/internal/domain/model"
)

func TestFormatter_RateText(t *testing.T) {
	pair := model.FavoritePair{Base: "USD", Target: "RUB"}

	testCases := []struct {
		precision int
		rate      float64
		expected  string
	}{
		{4, 90, "1 USD = 90.0000 RUB"},
		{4, 90.12345, "1 USD = 90.1235 RUB"},
		{2, 0.015, "1 USD = 0.02 RUB"},
		{0, 91.6, "1 USD = 92 RUB"},
	}

	for _, tc := range testCases {
		got := NewFormatter(tc.precision, nil).RateText(pair, tc.rate)
		if got != tc.expected {
			t.Errorf("precision %d rate %v: expected %q, got %q", tc.precision, tc.rate, tc.expected, got)
		}
	}
}

func TestFormatter_UpdatedText(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)

	testCases := []struct {
		name     string
		location *time.Location
		asOf     string
		expected string
	}{
		{"UTC", nil, testAsOf, "Updated: 18.02.2025 00:02"},
		{"Local zone", moscow, testAsOf, "Updated: 18.02.2025 03:02"},
		{"Blank", nil, "  ", ""},
		{"Unparseable kept verbatim", nil, "yesterday", "Updated: yesterday"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewFormatter(4, tc.location).UpdatedText(tc.asOf); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestFormatter_MissingTargetText(t *testing.T) {
	if got := NewFormatter(4, nil).MissingTargetText("XYZ"); got != "No XYZ" {
		t.Errorf("expected %q, got %q", "No XYZ", got)
	}
}
