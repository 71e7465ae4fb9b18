package history

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidRate = errors.New("rate must be a positive finite number")

const separator = ","

// EncodeSeries renders a series as comma-joined shortest-form numbers.
func EncodeSeries(series []float64) string {
	parts := make([]string, len(series))
	for i, v := range series {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, separator)
}

// DecodeSeries parses the output of EncodeSeries. Any bad element fails the
// whole entry; callers treat that key as empty.
func DecodeSeries(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return []float64{}, nil
	}

	parts := strings.Split(raw, separator)
	series := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := parsePoint(p)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		series = append(series, v)
	}
	return series, nil
}

func parsePoint(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if err := validateRate(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	return nil
}

// appendPoint returns the series with rate appended and trimmed to capacity,
// and whether anything changed. The input slice is never modified.
func appendPoint(series []float64, rate float64, capacity int) ([]float64, bool) {
	if n := len(series); n > 0 && series[n-1] == rate {
		return series, false
	}

	next := make([]float64, 0, len(series)+1)
	next = append(next, series...)
	next = append(next, rate)
	if len(next) > capacity {
		next = next[len(next)-capacity:]
	}
	return next, true
}
