package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const pairSeparator = "->"

var ErrInvalidPair = errors.New("pair must look like BASE->TARGET")

// FavoritePair is an ordered (base, target) pair. Build it with ParsePair or
// NewPair so both sides are always valid codes.
type FavoritePair struct {
	Base   Currency `json:"base"`
	Target Currency `json:"target"`
}

func NewPair(base, target string) (FavoritePair, error) {
	b, err := ParseCurrency(base)
	if err != nil {
		return FavoritePair{}, fmt.Errorf("%w: base %q", ErrInvalidPair, base)
	}
	t, err := ParseCurrency(target)
	if err != nil {
		return FavoritePair{}, fmt.Errorf("%w: target %q", ErrInvalidPair, target)
	}
	return FavoritePair{Base: b, Target: t}, nil
}

// ParsePair accepts "usd -> rub" style input and returns the canonical pair.
func ParsePair(raw string) (FavoritePair, error) {
	parts := strings.Split(raw, pairSeparator)
	if len(parts) != 2 {
		return FavoritePair{}, fmt.Errorf("%w: %q", ErrInvalidPair, raw)
	}
	return NewPair(parts[0], parts[1])
}

// ParsePairs keeps the well-formed, first-seen pairs of raw in order and
// returns the inputs it dropped.
func ParsePairs(raw []string) (pairs []FavoritePair, dropped []string) {
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		p, err := ParsePair(r)
		if err != nil {
			dropped = append(dropped, r)
			continue
		}
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		pairs = append(pairs, p)
	}
	return pairs, dropped
}

// Key is the canonical identity "BASE->TARGET".
func (p FavoritePair) Key() string {
	return string(p.Base) + pairSeparator + string(p.Target)
}

func (p FavoritePair) String() string {
	return p.Key()
}

func SortPairs(pairs []FavoritePair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key() < pairs[j].Key() })
}
