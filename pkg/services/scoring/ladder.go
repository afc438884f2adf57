// Package scoring maps financial ratios onto the weighted Buffett
// scorecard point scale.
package scoring

import (
	"fmt"

	"github.com/kv-tools/value-atlas/pkg/models/domain"
)

// Direction states whether larger or smaller ratio values earn more points.
type Direction int

const (
	// HigherIsBetter ladders are ordered by descending bound; the first
	// band with value >= bound wins.
	HigherIsBetter Direction = iota
	// LowerIsBetter ladders are ordered by ascending bound; the first
	// band with value <= bound wins.
	LowerIsBetter
)

// Band is one rung of a ladder: reach the bound, earn the points.
type Band struct {
	Bound  float64
	Points float64
}

// Ladder scores a single ratio through ordered, non-overlapping bands.
// A value matching a bound exactly takes that band's points.
type Ladder struct {
	Ratio     domain.RatioName
	Direction Direction
	Bands     []Band
	// Fallback is awarded when no band matches. It is not awarded when
	// the ratio itself is absent; absent ratios score nothing.
	Fallback float64
	// Unit renders the ratio value in score details ("%" or "x").
	Unit string
}

// Score maps a ratio value to points, first match wins.
func (l Ladder) Score(value float64) float64 {
	for _, band := range l.Bands {
		switch l.Direction {
		case LowerIsBetter:
			if value <= band.Bound {
				return band.Points
			}
		default:
			if value >= band.Bound {
				return band.Points
			}
		}
	}
	return l.Fallback
}

// Max is the best points the ladder can award.
func (l Ladder) Max() float64 {
	max := l.Fallback
	for _, band := range l.Bands {
		if band.Points > max {
			max = band.Points
		}
	}
	return max
}

func (l Ladder) validate() error {
	for i := 1; i < len(l.Bands); i++ {
		prev, cur := l.Bands[i-1].Bound, l.Bands[i].Bound
		if l.Direction == HigherIsBetter && cur >= prev {
			return fmt.Errorf("ladder %s: bounds must descend, got %v then %v", l.Ratio, prev, cur)
		}
		if l.Direction == LowerIsBetter && cur <= prev {
			return fmt.Errorf("ladder %s: bounds must ascend, got %v then %v", l.Ratio, prev, cur)
		}
	}
	return nil
}
