package matcher

import (
	"fmt"
	"math"

	"github.com/Mishra-Manit/bedathon/internal/models"
)

// ScoreListingFit computes the bounded profile-to-listing fit score. Unknown
// price or distance degrades to a neutral contribution rather than failing;
// bedroom-count filtering is the ranker's job, not the scorer's.
func ScoreListingFit(v *NormalizedVector, l *models.Listing, w ListingFitWeights) (float64, Breakdown) {
	breakdown := Breakdown{
		priceSubScore(v, l, w.Price),
		distanceSubScore(l, w.Distance),
		amenitySubScore(v, l, w.Amenities),
		studySubScore(v, l, w.Study),
		parkingSubScore(l, w.Parking),
	}
	return breakdown.Total(), breakdown
}

// priceSubScore scores 1.0 while the listing price stays within ±10% of the
// profile's budget midpoint, decaying linearly to zero at ±50% deviation.
func priceSubScore(v *NormalizedVector, l *models.Listing, weight float64) SubScore {
	s := SubScore{Name: "price", Weight: weight}

	price, known := l.PriceMidpoint()
	if !known || !v.HasBudget {
		s.Score = neutralSubScore
		return s
	}

	deviation := math.Abs(price-v.BudgetMidpoint) / v.BudgetMidpoint
	switch {
	case deviation <= priceFlatBand:
		s.Score = 1
		s.Detail = "Within 10% of your budget"
	case deviation >= priceZeroBand:
		s.Score = 0
	default:
		s.Score = 1 - (deviation-priceFlatBand)/(priceZeroBand-priceFlatBand)
	}

	if s.Detail == "" && s.Score >= 0.6 {
		s.Detail = fmt.Sprintf("Price $%.0f is close to your budget", price)
	}
	if price > v.BudgetMidpoint {
		s.Caveat = fmt.Sprintf("Price $%.0f is above your budget", price)
	} else {
		s.Caveat = fmt.Sprintf("Price $%.0f is well below your budget range", price)
	}
	return s
}

// distanceSubScore peaks at the optimum distance from campus and decays
// linearly to zero by distanceDecayMiles away from that optimum.
func distanceSubScore(l *models.Listing, weight float64) SubScore {
	s := SubScore{Name: "distance", Weight: weight}

	miles, known := l.Distance()
	if !known {
		s.Score = neutralSubScore
		return s
	}

	s.Score = clamp01(1 - math.Abs(miles-distanceOptimumMiles)/distanceDecayMiles)
	s.Detail = fmt.Sprintf("%.1f miles from campus, close to your ideal distance", miles)
	s.Caveat = fmt.Sprintf("Far from campus: %.1f miles", miles)
	return s
}

// amenitySubScore is the fraction of the profile's requested amenities the
// listing carries. An empty request scores 1.0: no preference expressed means
// no penalty. Always-valuable tags add a capped bonus whether requested or
// not.
func amenitySubScore(v *NormalizedVector, l *models.Listing, weight float64) SubScore {
	s := SubScore{Name: "amenities", Weight: weight}

	base := 1.0
	if len(v.Amenities) > 0 {
		matched := 0
		for _, want := range v.Amenities {
			if l.HasAmenity(want) {
				matched++
			}
		}
		base = float64(matched) / float64(len(v.Amenities))
		if matched > 0 {
			s.Detail = fmt.Sprintf("Has %d of your %d requested amenities", matched, len(v.Amenities))
		}
		s.Caveat = "Missing most of your requested amenities"
	}

	bonus := 0.0
	for _, tag := range bonusAmenities {
		if l.HasAmenity(tag) || (tag == "parking" && l.ParkingIncluded) {
			bonus += amenityBonusIncrement
		}
	}

	s.Score = math.Min(1, base+bonus)
	return s
}

// studySubScore rewards listings that suit a study-heavy profile: wifi and no
// pool reads as a quieter property. Low study intensity makes the factor
// inapplicable.
func studySubScore(v *NormalizedVector, l *models.Listing, weight float64) SubScore {
	s := SubScore{Name: "study", Weight: weight}

	study := v.Levels[2]
	if study <= models.PreferenceLow {
		return s
	}

	if study >= models.PreferenceHigh && l.HasAmenity("wifi") && !l.HasAmenity("pool") {
		s.Score = 1
		s.Detail = "Includes WiFi and a quiet setting for studying"
	} else {
		s.Score = neutralSubScore
	}
	return s
}

func parkingSubScore(l *models.Listing, weight float64) SubScore {
	s := SubScore{Name: "parking", Weight: weight}
	if l.ParkingIncluded || l.HasAmenity("parking") {
		s.Score = 1
		s.Detail = "Parking included"
	}
	return s
}
