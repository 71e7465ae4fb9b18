package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"favorite-rates-service/internal/domain/model"
	"favorite-rates-service/pkg/utils"
)

const (
	TextNoData   = "No data"
	TextAPIError = "API error"
)

// Formatter builds the human-readable parts of a RefreshResult.
type Formatter struct {
	precision int32
	location  *time.Location
}

func NewFormatter(precision int, location *time.Location) *Formatter {
	if precision < 0 {
		precision = 0
	}
	if location == nil {
		location = time.UTC
	}
	return &Formatter{precision: int32(precision), location: location}
}

// RateText renders "1 USD = 90.1234 RUB".
func (f *Formatter) RateText(pair model.FavoritePair, rate float64) string {
	return fmt.Sprintf("1 %s = %s %s", pair.Base, decimal.NewFromFloat(rate).StringFixed(f.precision), pair.Target)
}

func (f *Formatter) MissingTargetText(target model.Currency) string {
	return "No " + target.String()
}

func (f *Formatter) UpdatedText(asOfUTC string) string {
	formatted := utils.FormatAsOf(asOfUTC, f.location)
	if formatted == "" {
		return ""
	}
	return "Updated: " + formatted
}

func newResult(pair model.FavoritePair) model.RefreshResult {
	return model.RefreshResult{
		Pair:   pair.Key(),
		Base:   pair.Base,
		Target: pair.Target,
		Trend:  model.TrendUnknown,
		Series: []float64{},
	}
}

func (f *Formatter) noData(pair model.FavoritePair) model.RefreshResult {
	result := newResult(pair)
	result.State = model.StateNoData
	result.RateText = TextNoData
	return result
}

func (f *Formatter) apiError(pair model.FavoritePair, kind string) model.RefreshResult {
	result := newResult(pair)
	result.State = model.StateAPIError
	result.RateText = TextAPIError
	result.ErrorKind = kind
	return result
}

func (f *Formatter) missingTarget(pair model.FavoritePair, snapshot *model.RateSnapshot, series []float64) model.RefreshResult {
	result := newResult(pair)
	result.State = model.StateMissingTarget
	result.RateText = f.MissingTargetText(pair.Target)
	result.AsOfUTC = snapshot.AsOfUTC
	result.UpdatedText = f.UpdatedText(snapshot.AsOfUTC)
	result.Series = series
	result.Trend = Classify(series)
	return result
}

func (f *Formatter) fresh(pair model.FavoritePair, snapshot *model.RateSnapshot, rate float64, series []float64) model.RefreshResult {
	result := newResult(pair)
	result.State = model.StateOK
	result.Rate = &rate
	result.RateText = f.RateText(pair, rate)
	result.AsOfUTC = snapshot.AsOfUTC
	result.UpdatedText = f.UpdatedText(snapshot.AsOfUTC)
	result.Series = series
	result.Trend = Classify(series)
	return result
}
