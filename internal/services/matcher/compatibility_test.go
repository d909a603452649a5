// Package matcher_test contains tests for the matching engine.
package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mishra-Manit/bedathon/internal/models"
	"github.com/Mishra-Manit/bedathon/internal/services/matcher"
)

// mockProfile creates a test profile with default values
func mockProfile(overrides map[string]interface{}) *models.Profile {
	profile := &models.Profile{
		ID:                "prof-001",
		Name:              "Test Student",
		Year:              "Junior",
		Major:             "Computer Science",
		BudgetMin:         800,
		BudgetMax:         1200,
		PreferredBedrooms: 2,
		Cleanliness:       models.Pref(4),
		Noise:             models.Pref(2),
		StudyTime:         models.Pref(5),
		Social:            models.Pref(3),
		Sleep:             models.Pref(4),
	}

	if v, ok := overrides["id"]; ok {
		profile.ID = v.(string)
	}
	if v, ok := overrides["name"]; ok {
		profile.Name = v.(string)
	}
	if v, ok := overrides["year"]; ok {
		profile.Year = v.(string)
	}
	if v, ok := overrides["major"]; ok {
		profile.Major = v.(string)
	}
	if v, ok := overrides["budget_min"]; ok {
		profile.BudgetMin = v.(float64)
	}
	if v, ok := overrides["budget_max"]; ok {
		profile.BudgetMax = v.(float64)
	}
	if v, ok := overrides["preferred_bedrooms"]; ok {
		profile.PreferredBedrooms = v.(int)
	}
	if v, ok := overrides["cleanliness"]; ok {
		profile.Cleanliness = v.(models.RawPreference)
	}
	if v, ok := overrides["noise"]; ok {
		profile.Noise = v.(models.RawPreference)
	}
	if v, ok := overrides["study_time"]; ok {
		profile.StudyTime = v.(models.RawPreference)
	}
	if v, ok := overrides["social"]; ok {
		profile.Social = v.(models.RawPreference)
	}
	if v, ok := overrides["sleep"]; ok {
		profile.Sleep = v.(models.RawPreference)
	}
	if v, ok := overrides["amenities"]; ok {
		profile.Amenities = v.([]string)
	}

	return profile
}

// normalize is a test helper that fails the test on normalization errors.
func normalize(t *testing.T, p *models.Profile) *matcher.NormalizedVector {
	t.Helper()
	v, err := matcher.Normalize(p)
	require.NoError(t, err)
	return v
}

func TestScoreCompatibility_IdenticalProfiles(t *testing.T) {
	a := normalize(t, mockProfile(nil))
	b := normalize(t, mockProfile(map[string]interface{}{"id": "prof-002"}))

	score, breakdown := matcher.ScoreCompatibility(a, b, matcher.DefaultCompatibilityWeights())

	lifestyle, ok := breakdown.Get("lifestyle")
	require.True(t, ok)
	assert.Equal(t, 1.0, lifestyle.Score)
	assert.Equal(t, 1.0, score)
}

func TestScoreCompatibility_OppositeLifestyles(t *testing.T) {
	a := normalize(t, mockProfile(map[string]interface{}{
		"cleanliness": models.Pref(1),
		"noise":       models.Pref(1),
		"study_time":  models.Pref(1),
		"social":      models.Pref(1),
		"sleep":       models.Pref(1),
	}))
	b := normalize(t, mockProfile(map[string]interface{}{
		"id":          "prof-002",
		"cleanliness": models.Pref(5),
		"noise":       models.Pref(5),
		"study_time":  models.Pref(5),
		"social":      models.Pref(5),
		"sleep":       models.Pref(5),
	}))

	_, breakdown := matcher.ScoreCompatibility(a, b, matcher.DefaultCompatibilityWeights())

	lifestyle, ok := breakdown.Get("lifestyle")
	require.True(t, ok)
	assert.Equal(t, 0.0, lifestyle.Score)
}

func TestScoreCompatibility_Symmetric(t *testing.T) {
	a := normalize(t, mockProfile(map[string]interface{}{
		"cleanliness": models.Pref(2),
		"budget_min":  float64(600),
		"budget_max":  float64(900),
		"year":        "Sophomore",
	}))
	b := normalize(t, mockProfile(map[string]interface{}{
		"id":    "prof-002",
		"major": "Biology",
	}))

	weights := matcher.DefaultCompatibilityWeights()
	scoreAB, _ := matcher.ScoreCompatibility(a, b, weights)
	scoreBA, _ := matcher.ScoreCompatibility(b, a, weights)

	assert.Equal(t, scoreAB, scoreBA)
}

// Two near-identical vectors from the README walkthrough: one lifestyle
// dimension a single step apart, budgets $50 apart at the midpoint.
func TestScoreCompatibility_CloseProfiles(t *testing.T) {
	a := normalize(t, mockProfile(map[string]interface{}{
		"cleanliness": models.PrefLabel("HIGH"),
		"noise":       models.PrefLabel("LOW"),
		"study_time":  models.PrefLabel("VERY_HIGH"),
		"social":      models.PrefLabel("MEDIUM"),
		"sleep":       models.PrefLabel("HIGH"),
		"budget_min":  float64(800),
		"budget_max":  float64(1200),
		"major":       "Computer Science",
	}))
	c := normalize(t, mockProfile(map[string]interface{}{
		"id":          "prof-003",
		"cleanliness": models.PrefLabel("HIGH"),
		"noise":       models.PrefLabel("LOW"),
		"study_time":  models.PrefLabel("HIGH"),
		"social":      models.PrefLabel("MEDIUM"),
		"sleep":       models.PrefLabel("HIGH"),
		"budget_min":  float64(850),
		"budget_max":  float64(1250),
		"year":        "junior",
		"major":       "Biology",
	}))

	score, breakdown := matcher.ScoreCompatibility(a, c, matcher.DefaultCompatibilityWeights())

	lifestyle, ok := breakdown.Get("lifestyle")
	require.True(t, ok)
	assert.InDelta(t, 0.95, lifestyle.Score, 1e-9)

	budget, ok := breakdown.Get("budget")
	require.True(t, ok)
	assert.InDelta(t, 1.0-50.0/1050.0, budget.Score, 1e-9)

	year, ok := breakdown.Get("year")
	require.True(t, ok)
	assert.Equal(t, 1.0, year.Score)

	major, ok := breakdown.Get("major")
	require.True(t, ok)
	assert.Equal(t, 0.0, major.Score)

	// 0.50*0.95 + 0.25*(1 - 50/1050) + 0.10*1.0 + 0.15*0.0
	assert.InDelta(t, 0.8131, score, 0.0005)
}

func TestScoreCompatibility_BudgetRelativeGap(t *testing.T) {
	// A $50 gap should hurt less at a $2000 midpoint than at a $400 one.
	highA := normalize(t, mockProfile(map[string]interface{}{
		"budget_min": float64(2000), "budget_max": float64(2000),
	}))
	highB := normalize(t, mockProfile(map[string]interface{}{
		"id": "prof-002", "budget_min": float64(2050), "budget_max": float64(2050),
	}))
	lowA := normalize(t, mockProfile(map[string]interface{}{
		"budget_min": float64(400), "budget_max": float64(400),
	}))
	lowB := normalize(t, mockProfile(map[string]interface{}{
		"id": "prof-002", "budget_min": float64(450), "budget_max": float64(450),
	}))

	weights := matcher.DefaultCompatibilityWeights()
	_, highBreakdown := matcher.ScoreCompatibility(highA, highB, weights)
	_, lowBreakdown := matcher.ScoreCompatibility(lowA, lowB, weights)

	highBudget, _ := highBreakdown.Get("budget")
	lowBudget, _ := lowBreakdown.Get("budget")
	assert.Greater(t, highBudget.Score, lowBudget.Score)
}

func TestScoreCompatibility_MissingBudgets(t *testing.T) {
	a := normalize(t, mockProfile(map[string]interface{}{
		"budget_min": float64(0), "budget_max": float64(0),
	}))
	b := normalize(t, mockProfile(map[string]interface{}{
		"id": "prof-002", "budget_min": float64(0), "budget_max": float64(0),
	}))

	score, breakdown := matcher.ScoreCompatibility(a, b, matcher.DefaultCompatibilityWeights())

	budget, ok := breakdown.Get("budget")
	require.True(t, ok)
	assert.Equal(t, 1.0, budget.Score)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestScoreCompatibility_YearAndMajorCaseInsensitive(t *testing.T) {
	a := normalize(t, mockProfile(map[string]interface{}{
		"year": "SENIOR", "major": "computer science",
	}))
	b := normalize(t, mockProfile(map[string]interface{}{
		"id": "prof-002", "year": "senior", "major": "Computer Science",
	}))

	_, breakdown := matcher.ScoreCompatibility(a, b, matcher.DefaultCompatibilityWeights())

	year, _ := breakdown.Get("year")
	major, _ := breakdown.Get("major")
	assert.Equal(t, 1.0, year.Score)
	assert.Equal(t, 1.0, major.Score)
}

func TestScoreCompatibility_EmptyYearNeverMatches(t *testing.T) {
	a := normalize(t, mockProfile(map[string]interface{}{"year": "", "major": ""}))
	b := normalize(t, mockProfile(map[string]interface{}{
		"id": "prof-002", "year": "", "major": "",
	}))

	_, breakdown := matcher.ScoreCompatibility(a, b, matcher.DefaultCompatibilityWeights())

	year, _ := breakdown.Get("year")
	major, _ := breakdown.Get("major")
	assert.Equal(t, 0.0, year.Score)
	assert.Equal(t, 0.0, major.Score)
}

func TestScoreCompatibility_BoundedForExtremeInputs(t *testing.T) {
	a := normalize(t, mockProfile(map[string]interface{}{
		"budget_min": float64(1), "budget_max": float64(1),
	}))
	b := normalize(t, mockProfile(map[string]interface{}{
		"id": "prof-002", "budget_min": float64(50000), "budget_max": float64(50000),
	}))

	score, _ := matcher.ScoreCompatibility(a, b, matcher.DefaultCompatibilityWeights())
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestDefaultWeights_SumToOne(t *testing.T) {
	assert.NoError(t, matcher.DefaultCompatibilityWeights().Validate())
	assert.NoError(t, matcher.DefaultListingFitWeights().Validate())
	assert.InDelta(t, 1.0, matcher.DefaultCompatibilityWeights().Sum(), 0.001)
	assert.InDelta(t, 1.0, matcher.DefaultListingFitWeights().Sum(), 0.001)
}

func TestWeights_ValidateRejectsBadSum(t *testing.T) {
	w := matcher.CompatibilityWeights{Lifestyle: 0.5, Budget: 0.5, Year: 0.5, Major: 0.5}
	assert.Error(t, w.Validate())

	f := matcher.ListingFitWeights{Price: 1.5, Distance: -0.5}
	assert.Error(t, f.Validate())
}
