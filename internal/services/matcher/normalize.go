package matcher

import (
	"fmt"
	"strings"

	"github.com/Mishra-Manit/bedathon/internal/models"
)

// LifestyleDimensions is the number of ordinal preference axes.
const LifestyleDimensions = 5

// dimensionNames indexes the lifestyle axes in canonical order.
var dimensionNames = [LifestyleDimensions]string{
	"cleanliness",
	"noise",
	"study",
	"social",
	"sleep",
}

// NormalizedVector is the canonical scoring input derived from a Profile.
// It is built per call and discarded afterwards; scorers never see raw
// profile encodings.
type NormalizedVector struct {
	ProfileID string
	Name      string

	// Levels holds the five lifestyle dimensions in dimensionNames order,
	// each resolved to 1-5.
	Levels [LifestyleDimensions]models.PreferenceLevel

	BudgetMidpoint float64
	HasBudget      bool

	// Year and Major are lowercased and trimmed for comparison.
	Year  string
	Major string

	PreferredBedrooms int
	PetFriendly       bool
	Smoking           bool
	Amenities         []string
}

// Summary returns the display view of the vector for roommate match results.
func (v *NormalizedVector) Summary() *models.PreferenceSummary {
	return &models.PreferenceSummary{
		Cleanliness:    v.Levels[0],
		Noise:          v.Levels[1],
		StudyTime:      v.Levels[2],
		Social:         v.Levels[3],
		Sleep:          v.Levels[4],
		BudgetMidpoint: v.BudgetMidpoint,
		Year:           v.Year,
		Major:          v.Major,
	}
}

// Normalize converts a profile's heterogeneous preference encodings into a
// NormalizedVector. A lifestyle value that maps onto neither an ordinal label
// nor an integer 1-5 fails with ErrInvalidPreferenceValue; unset values
// default to the scale midpoint. Budget resolves to the arithmetic mean of
// the stated bounds, with a single stated bound standing in for both.
func Normalize(p *models.Profile) (*NormalizedVector, error) {
	v := &NormalizedVector{
		ProfileID:         p.ID,
		Name:              p.Name,
		Year:              strings.ToLower(strings.TrimSpace(p.Year)),
		Major:             strings.ToLower(strings.TrimSpace(p.Major)),
		PreferredBedrooms: p.PreferredBedrooms,
		PetFriendly:       p.PetFriendly,
		Smoking:           p.Smoking,
		Amenities:         models.NormalizeAmenities(p.Amenities),
	}

	raw := [LifestyleDimensions]models.RawPreference{
		p.Cleanliness, p.Noise, p.StudyTime, p.Social, p.Sleep,
	}
	for i, r := range raw {
		level, err := r.Level()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dimensionNames[i], err)
		}
		v.Levels[i] = level
	}

	min, max := p.BudgetMin, p.BudgetMax
	if min < 0 || max < 0 {
		return nil, models.ErrInvalidBudgetRange
	}
	switch {
	case min > 0 && max > 0:
		if min > max {
			return nil, models.ErrInvalidBudgetRange
		}
		v.BudgetMidpoint = (min + max) / 2
		v.HasBudget = true
	case min > 0:
		v.BudgetMidpoint = min
		v.HasBudget = true
	case max > 0:
		v.BudgetMidpoint = max
		v.HasBudget = true
	}

	return v, nil
}
