package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mishra-Manit/bedathon/internal/models"
	"github.com/Mishra-Manit/bedathon/internal/services/matcher"
)

func TestNormalize_Defaults(t *testing.T) {
	profile := mockProfile(map[string]interface{}{
		"cleanliness": models.RawPreference{},
		"noise":       models.RawPreference{},
		"study_time":  models.RawPreference{},
		"social":      models.RawPreference{},
		"sleep":       models.RawPreference{},
		"budget_min":  float64(0),
		"budget_max":  float64(0),
	})

	vec, err := matcher.Normalize(profile)

	require.NoError(t, err)
	for _, level := range vec.Levels {
		assert.Equal(t, models.PreferenceMedium, level)
	}
	assert.False(t, vec.HasBudget)
	assert.Zero(t, vec.BudgetMidpoint)
}

func TestNormalize_MixedEncodings(t *testing.T) {
	profile := mockProfile(map[string]interface{}{
		"cleanliness": models.PrefLabel("very high"),
		"noise":       models.PrefLabel("VERY-LOW"),
		"study_time":  models.Pref(4),
	})

	vec, err := matcher.Normalize(profile)

	require.NoError(t, err)
	assert.Equal(t, models.PreferenceVeryHigh, vec.Levels[0])
	assert.Equal(t, models.PreferenceVeryLow, vec.Levels[1])
	assert.Equal(t, models.PreferenceHigh, vec.Levels[2])
}

func TestNormalize_InvalidPreference(t *testing.T) {
	tests := []struct {
		name string
		pref models.RawPreference
	}{
		{"integer out of range", models.Pref(6)},
		{"zero is not a level", models.Pref(0)},
		{"unknown label", models.PrefLabel("EXTREMELY_HIGH")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := mockProfile(map[string]interface{}{"noise": tt.pref})
			_, err := matcher.Normalize(profile)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidPreferenceValue)
			assert.Contains(t, err.Error(), "noise")
		})
	}
}

func TestNormalize_BudgetMidpoint(t *testing.T) {
	tests := []struct {
		name      string
		min, max  float64
		want      float64
		hasBudget bool
	}{
		{"both bounds", 800, 1200, 1000, true},
		{"min only", 900, 0, 900, true},
		{"max only", 0, 1500, 1500, true},
		{"no budget", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := mockProfile(map[string]interface{}{
				"budget_min": tt.min,
				"budget_max": tt.max,
			})
			vec, err := matcher.Normalize(profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, vec.BudgetMidpoint)
			assert.Equal(t, tt.hasBudget, vec.HasBudget)
		})
	}
}

func TestNormalize_InvertedBudgetFails(t *testing.T) {
	profile := mockProfile(map[string]interface{}{
		"budget_min": float64(1500),
		"budget_max": float64(800),
	})

	_, err := matcher.Normalize(profile)
	assert.ErrorIs(t, err, models.ErrInvalidBudgetRange)
}

func TestNormalize_TrimsAndLowercases(t *testing.T) {
	profile := mockProfile(map[string]interface{}{
		"year":      "  Senior ",
		"major":     "PHYSICS",
		"amenities": []string{" WiFi", "gym", "WIFI "},
	})

	vec, err := matcher.Normalize(profile)

	require.NoError(t, err)
	assert.Equal(t, "senior", vec.Year)
	assert.Equal(t, "physics", vec.Major)
	assert.Equal(t, []string{"gym", "wifi"}, vec.Amenities)
}
