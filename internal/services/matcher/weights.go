// Package matcher implements the preference matching engine: normalization,
// compatibility and listing-fit scoring, reason generation and ranking.
package matcher

import (
	"fmt"
	"math"
)

// CompatibilityWeights defines the relative importance of each
// roommate-to-roommate scoring factor. Weights must sum to 1.0.
type CompatibilityWeights struct {
	Lifestyle float64
	Budget    float64
	Year      float64
	Major     float64
}

// DefaultCompatibilityWeights returns the tuned weight distribution for
// roommate compatibility.
func DefaultCompatibilityWeights() CompatibilityWeights {
	return CompatibilityWeights{
		Lifestyle: 0.50,
		Budget:    0.25,
		Year:      0.10,
		Major:     0.15,
	}
}

// Sum returns the total of all weights.
func (w CompatibilityWeights) Sum() float64 {
	return w.Lifestyle + w.Budget + w.Year + w.Major
}

// Validate checks that weights are non-negative and sum to 1.0.
func (w CompatibilityWeights) Validate() error {
	return validateWeights(w.Sum(), []float64{w.Lifestyle, w.Budget, w.Year, w.Major})
}

// ListingFitWeights defines the relative importance of each profile-to-listing
// scoring factor. Weights must sum to 1.0.
type ListingFitWeights struct {
	Price     float64
	Distance  float64
	Amenities float64
	Study     float64
	Parking   float64
}

// DefaultListingFitWeights returns the tuned weight distribution for listing
// fit.
func DefaultListingFitWeights() ListingFitWeights {
	return ListingFitWeights{
		Price:     0.35,
		Distance:  0.30,
		Amenities: 0.20,
		Study:     0.10,
		Parking:   0.05,
	}
}

// Sum returns the total of all weights.
func (w ListingFitWeights) Sum() float64 {
	return w.Price + w.Distance + w.Amenities + w.Study + w.Parking
}

// Validate checks that weights are non-negative and sum to 1.0.
func (w ListingFitWeights) Validate() error {
	return validateWeights(w.Sum(), []float64{w.Price, w.Distance, w.Amenities, w.Study, w.Parking})
}

func validateWeights(sum float64, weights []float64) error {
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", sum)
	}
	for _, v := range weights {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

// Scoring curve constants shared by the listing fit scorer.
const (
	// Price fit peaks within this fraction of the budget midpoint and
	// reaches zero at the outer fraction.
	priceFlatBand = 0.10
	priceZeroBand = 0.50

	// Distance fit peaks at the optimum (miles from campus) and decays
	// linearly to zero this many miles from the optimum in either direction.
	distanceOptimumMiles = 0.5
	distanceDecayMiles   = 3.0

	// Unknown price or distance contributes neither bonus nor penalty.
	neutralSubScore = 0.5

	// Each always-valuable amenity present on a listing adds this much to
	// the amenity sub-score, capped at 1.0 so the factor stays inside its
	// weight.
	amenityBonusIncrement = 0.1
)

// bonusAmenities are always worth surfacing whether or not the profile asked
// for them.
var bonusAmenities = []string{"laundry", "parking", "wifi"}
