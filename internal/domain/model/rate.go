package model

import "fmt"

// MaxPoints is the default cap on stored observations per pair.
const MaxPoints = 20

// RateSnapshot is a successful upstream answer for one base currency.
type RateSnapshot struct {
	Base    Currency             `json:"base"`
	Rates   map[Currency]float64 `json:"rates"`
	AsOfUTC string               `json:"as_of_utc"`
}

// Rate returns the quote for target, if the snapshot carries it.
func (s *RateSnapshot) Rate(target Currency) (float64, bool) {
	if s == nil {
		return 0, false
	}
	rate, ok := s.Rates[target]
	return rate, ok
}

// UpstreamError is returned when the upstream answered but reported failure.
type UpstreamError struct {
	Base Currency
	Kind string
}

func (e *UpstreamError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("upstream reported failure for %s", e.Base)
	}
	return fmt.Sprintf("upstream reported failure for %s: %s", e.Base, e.Kind)
}

type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendSame    Trend = "SAME"
	TrendUnknown Trend = "UNKNOWN"
)

// ResultState tells apart a fresh observation from the ways a pair can fail to
// get one. A missing_target result with a SAME trend is stale, not steady.
type ResultState string

const (
	StateOK            ResultState = "ok"
	StateNoData        ResultState = "no_data"
	StateAPIError      ResultState = "api_error"
	StateMissingTarget ResultState = "missing_target"
)

// RefreshResult is the per-pair display record produced by a refresh.
type RefreshResult struct {
	Pair        string      `json:"pair"`
	Base        Currency    `json:"base"`
	Target      Currency    `json:"target"`
	State       ResultState `json:"state"`
	RateText    string      `json:"rate_text"`
	Rate        *float64    `json:"rate,omitempty"`
	UpdatedText string      `json:"updated_text"`
	AsOfUTC     string      `json:"as_of_utc,omitempty"`
	Trend       Trend       `json:"trend"`
	Series      []float64   `json:"series"`
	ErrorKind   string      `json:"error_kind,omitempty"`
}

type Quote struct {
	Base    Currency `json:"base"`
	Target  Currency `json:"target"`
	Rate    float64  `json:"rate"`
	AsOfUTC string   `json:"as_of_utc"`
}

type HistoryView struct {
	Pair   string    `json:"pair"`
	Series []float64 `json:"series"`
	Last   *float64  `json:"last,omitempty"`
	Trend  Trend     `json:"trend"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Sparkline struct {
	Pair   string  `json:"pair"`
	Trend  Trend   `json:"trend"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Points []Point `json:"points"`
	Path   string  `json:"path"`
}
