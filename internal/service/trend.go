package service

import (
	"math"
	"strconv"
	"strings"

	"favorite-rates-service/internal/domain/model"
)

const (
	sparklinePadding  = 6.0
	sparklineMinRange = 1e-9
)

// Classify compares the last two points of a series.
func Classify(series []float64) model.Trend {
	n := len(series)
	if n < 2 {
		return model.TrendUnknown
	}

	last, prev := series[n-1], series[n-2]
	switch {
	case last > prev:
		return model.TrendUp
	case last < prev:
		return model.TrendDown
	default:
		return model.TrendSame
	}
}

// SparklinePoints lays a series out on a width x height canvas, x evenly
// spaced, y scaled between the series min (bottom) and max (top) inside
// padding. Fewer than two points yield no line.
func SparklinePoints(series []float64, width, height, padding float64) []model.Point {
	if len(series) < 2 || width <= 0 || height <= 0 {
		return []model.Point{}
	}

	minV, maxV := series[0], series[0]
	for _, v := range series[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	valueRange := math.Max(sparklineMinRange, maxV-minV)

	usableW := math.Max(1, width-2*padding)
	usableH := math.Max(1, height-2*padding)
	stepX := usableW / float64(len(series)-1)

	points := make([]model.Point, len(series))
	for i, v := range series {
		t := (v - minV) / valueRange
		y := padding + (1-t)*usableH
		y = math.Min(height-padding, math.Max(padding, y))
		points[i] = model.Point{X: padding + float64(i)*stepX, Y: y}
	}
	return points
}

// SparklinePath renders points as an SVG path ("M x y L x y ...").
func SparklinePath(points []model.Point) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	return b.String()
}
