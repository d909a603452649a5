package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mishra-Manit/bedathon/internal/models"
	"github.com/Mishra-Manit/bedathon/internal/services/matcher"
)

func newTestRanker(t *testing.T) *matcher.Ranker {
	t.Helper()
	return matcher.NewDefaultRanker(zap.NewNop())
}

func TestRankRoommates_EmptyPool(t *testing.T) {
	ranker := newTestRanker(t)

	results, err := ranker.RankRoommates(mockProfile(nil), nil, matcher.RoommateOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRankRoommates_ExcludesSelf(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(nil)
	candidates := []*models.Profile{
		mockProfile(nil), // same ID as subject
		mockProfile(map[string]interface{}{"id": "prof-002"}),
	}

	results, err := ranker.RankRoommates(subject, candidates, matcher.RoommateOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "prof-002", results[0].CandidateID)
}

func TestRankRoommates_ThresholdFiltersLowScores(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(nil)
	opposite := mockProfile(map[string]interface{}{
		"id":          "prof-low",
		"cleanliness": models.Pref(2),
		"noise":       models.Pref(5),
		"study_time":  models.Pref(1),
		"social":      models.Pref(1),
		"sleep":       models.Pref(1),
		"budget_min":  float64(3000),
		"budget_max":  float64(4000),
		"year":        "Freshman",
		"major":       "Art History",
	})
	twin := mockProfile(map[string]interface{}{"id": "prof-twin"})

	results, err := ranker.RankRoommates(subject, []*models.Profile{opposite, twin},
		matcher.RoommateOptions{MinCompatibility: matcher.DefaultMinCompatibility})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "prof-twin", results[0].CandidateID)
}

func TestRankRoommates_SortsByScoreThenID(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(nil)

	// Two identical twins must tie and order by ascending identifier; a
	// slightly different third profile must rank below them.
	candidates := []*models.Profile{
		mockProfile(map[string]interface{}{"id": "prof-b"}),
		mockProfile(map[string]interface{}{"id": "prof-c", "cleanliness": models.Pref(3)}),
		mockProfile(map[string]interface{}{"id": "prof-a"}),
	}

	results, err := ranker.RankRoommates(subject, candidates, matcher.RoommateOptions{})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "prof-a", results[0].CandidateID)
	assert.Equal(t, "prof-b", results[1].CandidateID)
	assert.Equal(t, "prof-c", results[2].CandidateID)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Greater(t, results[0].Score, results[2].Score)
}

func TestRankRoommates_LimitCapsResults(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(nil)
	candidates := []*models.Profile{
		mockProfile(map[string]interface{}{"id": "prof-a"}),
		mockProfile(map[string]interface{}{"id": "prof-b"}),
		mockProfile(map[string]interface{}{"id": "prof-c"}),
	}

	results, err := ranker.RankRoommates(subject, candidates, matcher.RoommateOptions{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRankRoommates_SkipsInvalidCandidate(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(nil)
	candidates := []*models.Profile{
		mockProfile(map[string]interface{}{
			"id":          "prof-bad",
			"cleanliness": models.Pref(9),
		}),
		mockProfile(map[string]interface{}{"id": "prof-ok"}),
	}

	results, err := ranker.RankRoommates(subject, candidates, matcher.RoommateOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "prof-ok", results[0].CandidateID)
}

func TestRankRoommates_InvalidSubjectFails(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(map[string]interface{}{"cleanliness": models.Pref(42)})

	_, err := ranker.RankRoommates(subject, []*models.Profile{mockProfile(nil)}, matcher.RoommateOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidPreferenceValue)
}

func TestRankRoommates_PercentageMatchesScore(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(nil)
	candidates := []*models.Profile{
		mockProfile(map[string]interface{}{"id": "prof-002", "major": "Biology"}),
	}

	results, err := ranker.RankRoommates(subject, candidates, matcher.RoommateOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, matcher.Percentage(results[0].Score), results[0].Percentage)
	assert.NotNil(t, results[0].Preferences)
}

func TestPercentage_RoundsHalfUp(t *testing.T) {
	// Exact halves round up, not to even.
	assert.Equal(t, 13, matcher.Percentage(0.125))
	assert.Equal(t, 38, matcher.Percentage(0.375))
	assert.Equal(t, 83, matcher.Percentage(0.826))
	assert.Equal(t, 82, matcher.Percentage(0.824))
	assert.Equal(t, 100, matcher.Percentage(1.0))
	assert.Equal(t, 0, matcher.Percentage(0.0))
}

func TestRankListings_BedroomHardFilter(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(map[string]interface{}{"preferred_bedrooms": 2})
	listings := []*models.Listing{
		mockListing(map[string]interface{}{"id": "list-2br", "bedrooms": 2}),
		mockListing(map[string]interface{}{"id": "list-3br", "bedrooms": 3}),
		mockListing(map[string]interface{}{"id": "list-unknown", "bedrooms": 0}),
	}

	results, err := ranker.RankListings(subject, listings, matcher.ListingOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "list-2br", results[0].CandidateID)
}

func TestRankListings_AnyBedroomsBypassesFilter(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(map[string]interface{}{"preferred_bedrooms": 2})
	listings := []*models.Listing{
		mockListing(map[string]interface{}{"id": "list-2br", "bedrooms": 2}),
		mockListing(map[string]interface{}{"id": "list-3br", "bedrooms": 3}),
		mockListing(map[string]interface{}{"id": "list-unknown", "bedrooms": 0}),
	}

	results, err := ranker.RankListings(subject, listings, matcher.ListingOptions{AnyBedrooms: true})

	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRankListings_NoBedroomPreferenceMeansNoFilter(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(map[string]interface{}{"preferred_bedrooms": 0})
	listings := []*models.Listing{
		mockListing(map[string]interface{}{"id": "list-2br", "bedrooms": 2}),
		mockListing(map[string]interface{}{"id": "list-3br", "bedrooms": 3}),
	}

	results, err := ranker.RankListings(subject, listings, matcher.ListingOptions{})

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRankListings_BedroomOverride(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(map[string]interface{}{"preferred_bedrooms": 2})
	listings := []*models.Listing{
		mockListing(map[string]interface{}{"id": "list-2br", "bedrooms": 2}),
		mockListing(map[string]interface{}{"id": "list-3br", "bedrooms": 3}),
	}

	results, err := ranker.RankListings(subject, listings, matcher.ListingOptions{PreferredBedrooms: 3})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "list-3br", results[0].CandidateID)
}

func TestRankListings_MaxDistanceKeepsUnknown(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(nil)
	listings := []*models.Listing{
		mockListing(map[string]interface{}{"id": "list-near", "distance": floatPtr(0.8)}),
		mockListing(map[string]interface{}{"id": "list-far", "distance": floatPtr(5.0)}),
		mockListing(map[string]interface{}{"id": "list-unknown", "distance": (*float64)(nil)}),
	}

	results, err := ranker.RankListings(subject, listings,
		matcher.ListingOptions{AnyBedrooms: true, MaxDistance: 2.0})

	require.NoError(t, err)
	require.Len(t, results, 2)
	ids := []string{results[0].CandidateID, results[1].CandidateID}
	assert.Contains(t, ids, "list-near")
	assert.Contains(t, ids, "list-unknown")
}

func TestRankListings_SortedAndCapped(t *testing.T) {
	ranker := newTestRanker(t)
	subject := mockProfile(map[string]interface{}{
		"budget_min": float64(1300),
		"budget_max": float64(1400),
	})
	listings := []*models.Listing{
		mockListing(map[string]interface{}{"id": "list-far", "distance": floatPtr(4.0)}),
		mockListing(map[string]interface{}{"id": "list-close", "distance": floatPtr(0.6)}),
		mockListing(map[string]interface{}{"id": "list-mid", "distance": floatPtr(2.0)}),
	}

	results, err := ranker.RankListings(subject, listings,
		matcher.ListingOptions{AnyBedrooms: true, Limit: 2})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "list-close", results[0].CandidateID)
	assert.Equal(t, "list-mid", results[1].CandidateID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestRankListings_EmptyPool(t *testing.T) {
	ranker := newTestRanker(t)

	results, err := ranker.RankListings(mockProfile(nil), nil, matcher.ListingOptions{AnyBedrooms: true})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewRanker_RejectsInvalidWeights(t *testing.T) {
	_, err := matcher.NewRanker(
		matcher.CompatibilityWeights{Lifestyle: 1, Budget: 1},
		matcher.DefaultListingFitWeights(),
		zap.NewNop(),
	)
	assert.Error(t, err)
}
