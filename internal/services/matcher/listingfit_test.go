package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mishra-Manit/bedathon/internal/models"
	"github.com/Mishra-Manit/bedathon/internal/services/matcher"
)

func floatPtr(v float64) *float64 {
	return &v
}

// mockListing creates a test listing with default values
func mockListing(overrides map[string]interface{}) *models.Listing {
	listing := &models.Listing{
		ID:               "list-001",
		Name:             "Campus Edge Apartments",
		Address:          "201 College Ave",
		PriceMin:         floatPtr(1100),
		PriceMax:         floatPtr(1650),
		DistanceToCampus: floatPtr(2.4),
		Bedrooms:         2,
		Amenities:        []string{"pool", "gym", "wifi"},
	}

	if v, ok := overrides["id"]; ok {
		listing.ID = v.(string)
	}
	if v, ok := overrides["price_min"]; ok {
		listing.PriceMin = v.(*float64)
	}
	if v, ok := overrides["price_max"]; ok {
		listing.PriceMax = v.(*float64)
	}
	if v, ok := overrides["distance"]; ok {
		listing.DistanceToCampus = v.(*float64)
	}
	if v, ok := overrides["bedrooms"]; ok {
		listing.Bedrooms = v.(int)
	}
	if v, ok := overrides["amenities"]; ok {
		listing.Amenities = v.([]string)
	}
	if v, ok := overrides["parking_included"]; ok {
		listing.ParkingIncluded = v.(bool)
	}

	return listing
}

// The README walkthrough listing: $1100-$1650 at 2.4 miles with pool, gym and
// wifi, scored by a profile with a $1350 budget midpoint and default
// preferences.
func TestScoreListingFit_ReadmeWalkthrough(t *testing.T) {
	vec := normalize(t, mockProfile(map[string]interface{}{
		"budget_min": float64(1350),
		"budget_max": float64(1350),
		"study_time": models.RawPreference{},
	}))
	listing := mockListing(nil)

	score, breakdown := matcher.ScoreListingFit(vec, listing, matcher.DefaultListingFitWeights())

	price, ok := breakdown.Get("price")
	require.True(t, ok)
	assert.Equal(t, 1.0, price.Score) // midpoint 1375 is within 10% of 1350

	distance, ok := breakdown.Get("distance")
	require.True(t, ok)
	assert.InDelta(t, 1.0-(2.4-0.5)/3.0, distance.Score, 1e-9)

	amenities, ok := breakdown.Get("amenities")
	require.True(t, ok)
	assert.Equal(t, 1.0, amenities.Score) // nothing requested, wifi bonus capped

	study, ok := breakdown.Get("study")
	require.True(t, ok)
	assert.Equal(t, 0.5, study.Score)

	parking, ok := breakdown.Get("parking")
	require.True(t, ok)
	assert.Equal(t, 0.0, parking.Score)

	assert.InDelta(t, 0.71, score, 0.005)
}

func TestScoreListingFit_PriceBands(t *testing.T) {
	vec := normalize(t, mockProfile(map[string]interface{}{
		"budget_min": float64(1000),
		"budget_max": float64(1000),
	}))
	weights := matcher.DefaultListingFitWeights()

	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"exactly at budget", 1000, 1.0},
		{"edge of flat band", 1100, 1.0},
		{"halfway through decay", 1300, 0.5},
		{"at zero band", 1500, 0.0},
		{"beyond zero band", 2000, 0.0},
		{"below budget decays too", 700, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := mockListing(map[string]interface{}{
				"price_min": floatPtr(tt.price),
				"price_max": floatPtr(tt.price),
			})
			_, breakdown := matcher.ScoreListingFit(vec, listing, weights)
			price, _ := breakdown.Get("price")
			assert.InDelta(t, tt.want, price.Score, 1e-9)
		})
	}
}

func TestScoreListingFit_UnknownPriceAndDistanceAreNeutral(t *testing.T) {
	vec := normalize(t, mockProfile(nil))
	listing := mockListing(map[string]interface{}{
		"price_min": (*float64)(nil),
		"price_max": (*float64)(nil),
		"distance":  (*float64)(nil),
	})

	score, breakdown := matcher.ScoreListingFit(vec, listing, matcher.DefaultListingFitWeights())

	price, _ := breakdown.Get("price")
	distance, _ := breakdown.Get("distance")
	assert.Equal(t, 0.5, price.Score)
	assert.Equal(t, 0.5, distance.Score)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestScoreListingFit_NoBudgetMakesPriceNeutral(t *testing.T) {
	vec := normalize(t, mockProfile(map[string]interface{}{
		"budget_min": float64(0),
		"budget_max": float64(0),
	}))

	_, breakdown := matcher.ScoreListingFit(vec, mockListing(nil), matcher.DefaultListingFitWeights())

	price, _ := breakdown.Get("price")
	assert.Equal(t, 0.5, price.Score)
}

func TestScoreListingFit_DistanceCurve(t *testing.T) {
	vec := normalize(t, mockProfile(nil))
	weights := matcher.DefaultListingFitWeights()

	tests := []struct {
		name  string
		miles float64
		want  float64
	}{
		{"at the optimum", 0.5, 1.0},
		{"on campus", 0.0, 1.0 - 0.5/3.0},
		{"two miles out", 2.0, 0.5},
		{"at the decay limit", 3.5, 0.0},
		{"far beyond the limit", 10.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := mockListing(map[string]interface{}{"distance": floatPtr(tt.miles)})
			_, breakdown := matcher.ScoreListingFit(vec, listing, weights)
			distance, _ := breakdown.Get("distance")
			assert.InDelta(t, tt.want, distance.Score, 1e-9)
		})
	}
}

func TestScoreListingFit_AmenityOverlap(t *testing.T) {
	vec := normalize(t, mockProfile(map[string]interface{}{
		"amenities": []string{"gym", "pool", "laundry", "dishwasher"},
	}))
	listing := mockListing(map[string]interface{}{
		"amenities": []string{"gym", "pool"},
	})

	_, breakdown := matcher.ScoreListingFit(vec, listing, matcher.DefaultListingFitWeights())

	amenities, _ := breakdown.Get("amenities")
	assert.InDelta(t, 0.5, amenities.Score, 1e-9) // 2 of 4, no bonus tags present
}

func TestScoreListingFit_AmenityBonusCapped(t *testing.T) {
	vec := normalize(t, mockProfile(map[string]interface{}{
		"amenities": []string{"wifi"},
	}))
	listing := mockListing(map[string]interface{}{
		"amenities": []string{"wifi", "laundry", "parking"},
	})

	_, breakdown := matcher.ScoreListingFit(vec, listing, matcher.DefaultListingFitWeights())

	// Base 1.0 plus three bonus tags still cannot exceed 1.0.
	amenities, _ := breakdown.Get("amenities")
	assert.Equal(t, 1.0, amenities.Score)
}

func TestScoreListingFit_AmenityOrderAndDuplicatesIrrelevant(t *testing.T) {
	weights := matcher.DefaultListingFitWeights()
	vecA := normalize(t, mockProfile(map[string]interface{}{
		"amenities": []string{"gym", "wifi", "pool"},
	}))
	vecB := normalize(t, mockProfile(map[string]interface{}{
		"amenities": []string{"POOL", "wifi", "gym", "gym", " wifi "},
	}))
	listing := mockListing(nil)

	scoreA, _ := matcher.ScoreListingFit(vecA, listing, weights)
	scoreB, _ := matcher.ScoreListingFit(vecB, listing, weights)

	assert.Equal(t, scoreA, scoreB)
}

func TestScoreListingFit_StudyFactor(t *testing.T) {
	weights := matcher.DefaultListingFitWeights()

	tests := []struct {
		name      string
		study     models.RawPreference
		amenities []string
		want      float64
	}{
		{"heavy studier with wifi and no pool", models.PrefLabel("VERY_HIGH"), []string{"wifi", "gym"}, 1.0},
		{"heavy studier but pool on site", models.Pref(5), []string{"wifi", "pool"}, 0.5},
		{"heavy studier without wifi", models.Pref(4), []string{"gym"}, 0.5},
		{"medium studier", models.Pref(3), []string{"wifi"}, 0.5},
		{"light studier opts out", models.Pref(1), []string{"wifi"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := normalize(t, mockProfile(map[string]interface{}{"study_time": tt.study}))
			listing := mockListing(map[string]interface{}{"amenities": tt.amenities})
			_, breakdown := matcher.ScoreListingFit(vec, listing, weights)
			study, _ := breakdown.Get("study")
			assert.Equal(t, tt.want, study.Score)
		})
	}
}

func TestScoreListingFit_ParkingFactor(t *testing.T) {
	vec := normalize(t, mockProfile(nil))
	weights := matcher.DefaultListingFitWeights()

	withFlag := mockListing(map[string]interface{}{"parking_included": true})
	withTag := mockListing(map[string]interface{}{"amenities": []string{"parking"}})
	without := mockListing(nil)

	_, b1 := matcher.ScoreListingFit(vec, withFlag, weights)
	_, b2 := matcher.ScoreListingFit(vec, withTag, weights)
	_, b3 := matcher.ScoreListingFit(vec, without, weights)

	p1, _ := b1.Get("parking")
	p2, _ := b2.Get("parking")
	p3, _ := b3.Get("parking")
	assert.Equal(t, 1.0, p1.Score)
	assert.Equal(t, 1.0, p2.Score)
	assert.Equal(t, 0.0, p3.Score)
}
