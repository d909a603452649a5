package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mishra-Manit/bedathon/internal/services/matcher"
)

func TestReasons_PositiveFactorsSurface(t *testing.T) {
	breakdown := matcher.Breakdown{
		{Name: "lifestyle", Score: 0.95, Weight: 0.50, Detail: "Shares your cleanliness preferences"},
		{Name: "budget", Score: 0.9, Weight: 0.25, Detail: "Budgets within $50 of each other"},
		{Name: "year", Score: 0.0, Weight: 0.10},
		{Name: "major", Score: 0.0, Weight: 0.15},
	}

	reasons := matcher.Reasons(breakdown)

	require.Len(t, reasons, 2)
	assert.Equal(t, "Shares your cleanliness preferences", reasons[0])
	assert.Equal(t, "Budgets within $50 of each other", reasons[1])
}

func TestReasons_CaveatsSurfaceForWeakFactors(t *testing.T) {
	breakdown := matcher.Breakdown{
		{Name: "lifestyle", Score: 0.9, Weight: 0.50, Detail: "Shares your sleep preferences"},
		{Name: "budget", Score: 0.1, Weight: 0.25, Caveat: "Budget expectations differ by $900"},
	}

	reasons := matcher.Reasons(breakdown)

	require.Len(t, reasons, 2)
	assert.Equal(t, "Shares your sleep preferences", reasons[0])
	assert.Equal(t, "Budget expectations differ by $900", reasons[1])
}

func TestReasons_MiddlingFactorsStaySilent(t *testing.T) {
	breakdown := matcher.Breakdown{
		{Name: "price", Score: 0.5, Weight: 0.35, Detail: "should not appear", Caveat: "nor this"},
		{Name: "distance", Score: 0.4, Weight: 0.30, Detail: "should not appear"},
	}

	assert.Empty(t, matcher.Reasons(breakdown))
}

func TestReasons_CappedAtFour(t *testing.T) {
	breakdown := matcher.Breakdown{
		{Name: "a", Score: 1.0, Weight: 0.30, Detail: "first"},
		{Name: "b", Score: 1.0, Weight: 0.25, Detail: "second"},
		{Name: "c", Score: 1.0, Weight: 0.20, Detail: "third"},
		{Name: "d", Score: 1.0, Weight: 0.15, Detail: "fourth"},
		{Name: "e", Score: 1.0, Weight: 0.10, Detail: "fifth"},
	}

	reasons := matcher.Reasons(breakdown)

	assert.Equal(t, []string{"first", "second", "third", "fourth"}, reasons)
}

func TestReasons_OrderedByContribution(t *testing.T) {
	// A strong low-weight factor must not outrank a strong high-weight one.
	breakdown := matcher.Breakdown{
		{Name: "parking", Score: 1.0, Weight: 0.05, Detail: "Parking included"},
		{Name: "price", Score: 1.0, Weight: 0.35, Detail: "Within 10% of your budget"},
	}

	reasons := matcher.Reasons(breakdown)

	require.Len(t, reasons, 2)
	assert.Equal(t, "Within 10% of your budget", reasons[0])
	assert.Equal(t, "Parking included", reasons[1])
}

func TestReasons_FactorWithoutTextSkipped(t *testing.T) {
	breakdown := matcher.Breakdown{
		{Name: "year", Score: 1.0, Weight: 0.10},
		{Name: "major", Score: 0.0, Weight: 0.15},
	}

	assert.Empty(t, matcher.Reasons(breakdown))
}

func TestReasons_EndToEndWalkthrough(t *testing.T) {
	a := normalize(t, mockProfile(nil))
	b := normalize(t, mockProfile(map[string]interface{}{"id": "prof-002"}))

	_, breakdown := matcher.ScoreCompatibility(a, b, matcher.DefaultCompatibilityWeights())
	reasons := matcher.Reasons(breakdown)

	require.NotEmpty(t, reasons)
	assert.LessOrEqual(t, len(reasons), 4)
	assert.Contains(t, reasons[0], "Shares your")
}
