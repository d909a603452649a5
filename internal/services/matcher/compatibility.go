package matcher

import (
	"fmt"
	"math"
)

// SubScore is one weighted component of a compatibility or fit formula,
// prior to summation. Detail and Caveat carry the display phrasings the
// reason generator may surface; either may be empty when the factor has
// nothing worth saying.
type SubScore struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Detail string  `json:"-"`
	Caveat string  `json:"-"`
}

// Contribution returns the factor's share of the total score.
func (s SubScore) Contribution() float64 {
	return s.Score * s.Weight
}

// Breakdown is the ordered list of sub-scores behind a total score.
type Breakdown []SubScore

// Get returns the named sub-score.
func (b Breakdown) Get(name string) (SubScore, bool) {
	for _, s := range b {
		if s.Name == name {
			return s, true
		}
	}
	return SubScore{}, false
}

// Total returns the weighted sum of the breakdown, clamped to [0,1].
func (b Breakdown) Total() float64 {
	var total float64
	for _, s := range b {
		total += s.Contribution()
	}
	return clamp01(total)
}

// ScoreCompatibility computes the bounded roommate-to-roommate compatibility
// score between two normalized vectors. The result is symmetric in its
// arguments and always in [0,1]; fully defaulted vectors still score, they
// just discriminate less.
func ScoreCompatibility(a, b *NormalizedVector, w CompatibilityWeights) (float64, Breakdown) {
	breakdown := Breakdown{
		lifestyleSubScore(a, b, w.Lifestyle),
		budgetSubScore(a, b, w.Budget),
		yearSubScore(a, b, w.Year),
		majorSubScore(a, b, w.Major),
	}
	return breakdown.Total(), breakdown
}

// lifestyleSubScore is the mean per-dimension closeness: 1.0 for an identical
// dimension, 0.0 for maximally opposite levels (1 vs 5).
func lifestyleSubScore(a, b *NormalizedVector, weight float64) SubScore {
	var sum float64
	var shared, opposed []string

	for i := 0; i < LifestyleDimensions; i++ {
		diff := math.Abs(float64(a.Levels[i]) - float64(b.Levels[i]))
		sum += 1 - diff/4
		if diff == 0 {
			shared = append(shared, dimensionNames[i])
		} else if diff >= 3 {
			opposed = append(opposed, dimensionNames[i])
		}
	}

	s := SubScore{
		Name:   "lifestyle",
		Score:  sum / LifestyleDimensions,
		Weight: weight,
	}
	if len(shared) > 0 {
		s.Detail = fmt.Sprintf("Shares your %s preferences", humanizeList(shared))
	}
	if len(opposed) > 0 {
		s.Caveat = fmt.Sprintf("Opposite %s habits", humanizeList(opposed))
	}
	return s
}

// budgetSubScore measures proximity of budget midpoints relative to the
// larger of the two, so a $50 gap matters less at $2000 than at $400.
func budgetSubScore(a, b *NormalizedVector, weight float64) SubScore {
	gap := math.Abs(a.BudgetMidpoint - b.BudgetMidpoint)
	denom := math.Max(math.Max(a.BudgetMidpoint, b.BudgetMidpoint), 1)

	s := SubScore{
		Name:   "budget",
		Score:  1 - math.Min(1, gap/denom),
		Weight: weight,
	}
	if a.HasBudget && b.HasBudget {
		s.Detail = fmt.Sprintf("Budgets within $%.0f of each other", gap)
		s.Caveat = fmt.Sprintf("Budget expectations differ by $%.0f", gap)
	}
	return s
}

func yearSubScore(a, b *NormalizedVector, weight float64) SubScore {
	s := SubScore{Name: "year", Weight: weight}
	if a.Year != "" && a.Year == b.Year {
		s.Score = 1
		s.Detail = "Same academic year"
	} else if a.Year != "" && b.Year != "" {
		s.Caveat = "Different academic years"
	}
	return s
}

func majorSubScore(a, b *NormalizedVector, weight float64) SubScore {
	s := SubScore{Name: "major", Weight: weight}
	if a.Major != "" && a.Major == b.Major {
		s.Score = 1
		s.Detail = "Studies the same major"
	}
	return s
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
