package growth_test

import (
	"testing"

	"github.com/soloroute/soloroute/internal/game/growth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestExpNeededForLevel_KnownValues pins each curve against values computed
// from the games' formulas.
func TestExpNeededForLevel_KnownValues(t *testing.T) {
	cases := []struct {
		rate  string
		level int
		want  int
	}{
		{growth.RateFast, 10, 800},
		{growth.RateFast, 100, 800000},
		{growth.RateMediumFast, 10, 1000},
		{growth.RateMediumFast, 100, 1000000},
		{growth.RateMediumSlow, 10, 560},
		{growth.RateMediumSlow, 100, 1059860},
		{growth.RateSlow, 10, 1250},
		{growth.RateSlow, 100, 1250000},
		{growth.RateErratic, 10, 1800},
		{growth.RateErratic, 50, 125000},
		{growth.RateErratic, 70, 276458},
		{growth.RateErratic, 98, 583539},
		{growth.RateErratic, 100, 600000},
		{growth.RateFluctuating, 10, 540},
		{growth.RateFluctuating, 20, 5440},
		{growth.RateFluctuating, 100, 1640000},
	}
	for _, tc := range cases {
		got, err := growth.ExpNeededForLevel(tc.level, tc.rate)
		require.NoError(t, err, "%s level %d", tc.rate, tc.level)
		assert.Equal(t, tc.want, got, "%s level %d", tc.rate, tc.level)
	}
}

// TestExpNeededForLevel_UnknownRate verifies the error path.
func TestExpNeededForLevel_UnknownRate(t *testing.T) {
	_, err := growth.ExpNeededForLevel(10, "growth_bogus")
	assert.Error(t, err)
}

// TestLevelLookup_LevelForExp verifies the scan and both endpoints.
func TestLevelLookup_LevelForExp(t *testing.T) {
	lookup, err := growth.NewLevelLookup(growth.RateMediumFast)
	require.NoError(t, err)

	level, toNext := lookup.LevelForExp(1000)
	assert.Equal(t, 10, level, "exactly at the level 10 threshold")
	assert.Equal(t, 331, toNext, "11^3 - 1000")

	level, toNext = lookup.LevelForExp(999)
	assert.Equal(t, 9, level, "one short of the threshold")
	assert.Equal(t, 1, toNext)

	level, toNext = lookup.LevelForExp(1000000)
	assert.Equal(t, 100, level)
	assert.Equal(t, 0, toNext, "level 100 is terminal")
}

// TestLevelLookup_ExpForLevel_Bounds verifies the level range precondition.
func TestLevelLookup_ExpForLevel_Bounds(t *testing.T) {
	lookup, err := growth.NewLevelLookup(growth.RateSlow)
	require.NoError(t, err)

	_, err = lookup.ExpForLevel(0)
	assert.Error(t, err)
	_, err = lookup.ExpForLevel(101)
	assert.Error(t, err)

	exp, err := lookup.ExpForLevel(1)
	require.NoError(t, err)
	assert.Equal(t, 1, exp, "floor(5/4)")
}

// TestLevelLookup_RoundTrip_Property verifies thresholds are nondecreasing
// past level 2 and that LevelForExp inverts ExpForLevel.
func TestLevelLookup_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rate := rapid.SampledFrom(growth.AllRates).Draw(rt, "rate")
		lookup, err := growth.NewLevelLookup(rate)
		require.NoError(rt, err)

		// Level 1 thresholds can be negative or zero artifacts of the
		// formulas; the playable range starts at 2.
		for l := 2; l < 100; l++ {
			a, err := lookup.ExpForLevel(l)
			require.NoError(rt, err)
			b, err := lookup.ExpForLevel(l + 1)
			require.NoError(rt, err)
			require.LessOrEqual(rt, a, b, "%s thresholds must not decrease at level %d", rate, l)
		}

		level := rapid.IntRange(2, 100).Draw(rt, "level")
		exp, err := lookup.ExpForLevel(level)
		require.NoError(rt, err)
		got, _ := lookup.LevelForExp(exp)
		assert.GreaterOrEqual(rt, got, level,
			"%s: a mon holding the level %d threshold exp must be at least that level", rate, level)
	})
}

// TestCurveSet covers construction and the unknown-rate error.
func TestCurveSet(t *testing.T) {
	set := growth.NewCurveSet()
	for _, rate := range growth.AllRates {
		lookup, err := set.Lookup(rate)
		require.NoError(t, err, rate)
		assert.Equal(t, rate, lookup.GrowthRate())
	}
	_, err := set.Lookup("growth_bogus")
	assert.Error(t, err)
}

// TestExpYield verifies floor placement: divide by 7, split, then the
// trainer battle bonus.
func TestExpYield(t *testing.T) {
	// Gastly: base 95 at level 22 -> floor(2090/7) = 298.
	assert.Equal(t, 298, growth.ExpYield(95, 22, false, 1))
	// Trainer battle pays floor(298*3/2) = 447.
	assert.Equal(t, 447, growth.ExpYield(95, 22, true, 1))
	// Split first, then the trainer bonus: floor(298/2)=149, floor(447/2)=223.
	assert.Equal(t, 149, growth.ExpYield(95, 22, false, 2))
	assert.Equal(t, 223, growth.ExpYield(95, 22, true, 2))
}
