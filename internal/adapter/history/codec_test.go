package history

import (
	"errors"
	"math"
	"testing"
)

func TestDecodeSeries(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    []float64
		expectError bool
	}{
		{name: "Empty", raw: "", expected: []float64{}},
		{name: "Single", raw: "90", expected: []float64{90}},
		{name: "Many", raw: "76.67,77.1,0.0125", expected: []float64{76.67, 77.1, 0.0125}},
		{name: "Spaces", raw: " 1 , 2 ", expected: []float64{1, 2}},
		{name: "Garbage", raw: "1,abc", expectError: true},
		{name: "Trailing comma", raw: "1,", expectError: true},
		{name: "Negative", raw: "1,-2", expectError: true},
		{name: "NaN", raw: "NaN", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeSeries(tc.raw)
			if tc.expectError {
				if err == nil {
					t.Errorf("Expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertSeries(t, got, tc.expected)
		})
	}
}

func TestEncodeSeries_ShortestForm(t *testing.T) {
	got := EncodeSeries([]float64{90, 76.67, 0.1})
	if got != "90,76.67,0.1" {
		t.Errorf("Expected 90,76.67,0.1, got %s", got)
	}
}

func TestAppendPoint(t *testing.T) {
	base := []float64{1, 2, 3}

	same, changed := appendPoint(base, 3, 3)
	if changed {
		t.Error("Expected repeated last value to be a no-op")
	}
	assertSeries(t, same, base)

	next, changed := appendPoint(base, 4, 3)
	if !changed {
		t.Error("Expected new value to change the series")
	}
	assertSeries(t, next, []float64{2, 3, 4})
	assertSeries(t, base, []float64{1, 2, 3})
}

func TestValidateRate(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := validateRate(v); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("Expected ErrInvalidRate for %v, got %v", v, err)
		}
	}
	if err := validateRate(1e-6); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
