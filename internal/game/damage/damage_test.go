package damage_test

import (
	"sort"
	"testing"

	"github.com/soloroute/soloroute/internal/game/damage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustDist(t testing.TB, rolls map[int]int) *damage.Distribution {
	t.Helper()
	d, err := damage.New(rolls)
	require.NoError(t, err, "distribution must build from %v", rolls)
	return d
}

// TestNew_RejectsEmpty verifies the constructor preconditions.
func TestNew_RejectsEmpty(t *testing.T) {
	_, err := damage.New(nil)
	assert.Error(t, err, "empty roll map must be rejected")

	_, err = damage.New(map[int]int{5: 0})
	assert.Error(t, err, "zero roll count must be rejected")
}

// TestDistribution_Bounds verifies Min/Max/Size/NumAttacks bookkeeping.
func TestDistribution_Bounds(t *testing.T) {
	d := mustDist(t, map[int]int{12: 3, 14: 30, 15: 6})
	assert.Equal(t, 12, d.Min())
	assert.Equal(t, 15, d.Max())
	assert.Equal(t, 39, d.Size())
	assert.Equal(t, 1, d.NumAttacks())
}

// TestDistribution_Combine_SumsCounts pins the historical fold: combined
// entries accumulate the SUM of the operand roll counts, and the total size
// is the sum of those sums, not the product of the operand sizes.
func TestDistribution_Combine_SumsCounts(t *testing.T) {
	a := mustDist(t, map[int]int{1: 1, 2: 1})
	b := mustDist(t, map[int]int{10: 1})

	c := a.Combine(b)
	assert.Equal(t, map[int]int{11: 2, 12: 2}, c.Rolls(), "entries must carry count sums")
	assert.Equal(t, 4, c.Size())
	assert.Equal(t, 2, c.NumAttacks())
	assert.Equal(t, 11, c.Min())
	assert.Equal(t, 12, c.Max())
}

// TestDistribution_Combine_CollidingSums verifies colliding damage totals
// accumulate across pairs.
func TestDistribution_Combine_CollidingSums(t *testing.T) {
	a := mustDist(t, map[int]int{1: 2, 2: 3})
	b := mustDist(t, map[int]int{1: 4, 2: 5})

	c := a.Combine(b)
	// total 3 comes from (1,2) and (2,1): (2+5) + (3+4) = 14.
	assert.Equal(t, map[int]int{2: 6, 3: 14, 4: 8}, c.Rolls())
}

// TestDistribution_PartitionKills covers the interior split and both
// degenerate extremes.
func TestDistribution_PartitionKills(t *testing.T) {
	d := mustDist(t, map[int]int{10: 2, 12: 3, 14: 5})

	kills, nonKills := d.PartitionKills(12)
	require.NotNil(t, kills)
	require.NotNil(t, nonKills)
	assert.Equal(t, map[int]int{12: 3, 14: 5}, kills.Rolls(), "damage >= hp kills")
	assert.Equal(t, map[int]int{10: 2}, nonKills.Rolls())
	assert.Equal(t, d.Size(), kills.Size()+nonKills.Size(), "partition must conserve rolls")
	assert.Equal(t, d.NumAttacks(), kills.NumAttacks())

	kills, nonKills = d.PartitionKills(15)
	assert.Nil(t, kills, "hp above max damage means no kills")
	assert.Same(t, d, nonKills)

	kills, nonKills = d.PartitionKills(10)
	assert.Same(t, d, kills, "hp at or below min damage means all kills")
	assert.Nil(t, nonKills)
}

// TestDistribution_PartitionKills_Property verifies roll conservation for
// arbitrary histograms and thresholds.
func TestDistribution_PartitionKills_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rolls := rapid.MapOfN(rapid.IntRange(1, 50), rapid.IntRange(1, 10), 1, 8).Draw(rt, "rolls")
		d, err := damage.New(rolls)
		require.NoError(rt, err)

		hp := rapid.IntRange(0, 60).Draw(rt, "hp")
		kills, nonKills := d.PartitionKills(hp)

		total := 0
		if kills != nil {
			total += kills.Size()
			assert.GreaterOrEqual(rt, kills.Min(), hp, "every kill roll must reach hp")
		}
		if nonKills != nil {
			total += nonKills.Size()
			assert.Less(rt, nonKills.Max(), hp, "every non-kill roll must fall short of hp")
		}
		assert.Equal(rt, d.Size(), total, "partition must conserve rolls")
	})
}

// TestFindKillChances_GuaranteedKill verifies the simplest certain case: a
// fixed 10 damage roll against 25 HP kills in exactly 3 perfect hits.
func TestFindKillChances_GuaranteedKill(t *testing.T) {
	d := mustDist(t, map[int]int{10: 39})
	result := damage.FindKillChances(d, d, 0, 1.0, 25, 5, false, damage.DefaultPercentCutoff)

	require.Len(t, result, 1)
	assert.Equal(t, 3, result[0].NumAttacks)
	assert.InDelta(t, 100.0, result[0].Probability, 1e-9)
}

// TestFindKillChances_PartialRolls verifies the exact roll fraction: two
// draws from {4, 6} reach 10 HP in 3 of 4 combinations.
func TestFindKillChances_PartialRolls(t *testing.T) {
	d := mustDist(t, map[int]int{4: 1, 6: 1})
	result := damage.FindKillChances(d, d, 0, 1.0, 10, 3, true, damage.DefaultPercentCutoff)

	require.Len(t, result, 2)
	assert.Equal(t, 2, result[0].NumAttacks)
	assert.InDelta(t, 75.0, result[0].Probability, 1e-9)
	assert.Equal(t, 3, result[1].NumAttacks)
	assert.InDelta(t, 100.0, result[1].Probability, 1e-9)
}

// TestFindKillChances_CritMix verifies the binomial crit mixing with hand
// computed values: 5 damage normally, 10 on a crit, 50% crit rate, 20 HP.
func TestFindKillChances_CritMix(t *testing.T) {
	d := mustDist(t, map[int]int{5: 1})
	crit := mustDist(t, map[int]int{10: 1})
	result := damage.FindKillChances(d, crit, 0.5, 1.0, 20, 3, true, damage.DefaultPercentCutoff)

	require.Len(t, result, 2)
	assert.Equal(t, 2, result[0].NumAttacks)
	assert.InDelta(t, 25.0, result[0].Probability, 1e-9, "only the double crit kills in 2")
	assert.Equal(t, 3, result[1].NumAttacks)
	assert.InDelta(t, 87.5, result[1].Probability, 1e-9, "any crit among 3 swings kills")
}

// TestFindKillChances_GuaranteedFallback verifies the sentinel entry: when
// the search cannot establish a near-certain kill within the depth, the
// guaranteed count from minimum rolls is reported with probability -1.
func TestFindKillChances_GuaranteedFallback(t *testing.T) {
	d := mustDist(t, map[int]int{10: 1})
	result := damage.FindKillChances(d, d, 0, 1.0, 100, 5, false, damage.DefaultPercentCutoff)

	require.Len(t, result, 1)
	assert.Equal(t, 10, result[0].NumAttacks, "ceil(100/10) minimum rolls")
	assert.Equal(t, -1.0, result[0].Probability)
}

// TestFindKillChances_SkipsOversizedSearch verifies the size guard: a huge
// psywave-style histogram is not searched unless forced.
func TestFindKillChances_SkipsOversizedSearch(t *testing.T) {
	rolls := make(map[int]int, 300)
	for i := 1; i <= 300; i++ {
		rolls[i] = 1
	}
	d := mustDist(t, rolls)

	result := damage.FindKillChances(d, d, 0, 1.0, 5, 10, false, damage.DefaultPercentCutoff)
	require.Len(t, result, 1, "search skipped, only the fallback entry remains")
	assert.Equal(t, -1.0, result[0].Probability)

	forced := damage.FindKillChances(d, d, 0, 1.0, 5, 10, true, damage.DefaultPercentCutoff)
	require.NotEmpty(t, forced)
	assert.Greater(t, forced[0].Probability, 0.0, "forced search must evaluate the rolls")
}

// TestFindKillChances_Monotone_Property verifies reported probabilities are
// within [cutoff, 100] and nondecreasing in attack count.
func TestFindKillChances_Monotone_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rolls := rapid.MapOfN(rapid.IntRange(2, 12), rapid.IntRange(1, 4), 1, 4).Draw(rt, "rolls")
		d, err := damage.New(rolls)
		require.NoError(rt, err)

		critRolls := make(map[int]int, len(rolls))
		for dmg, count := range rolls {
			critRolls[dmg*2] = count
		}
		crit, err := damage.New(critRolls)
		require.NoError(rt, err)

		hp := rapid.IntRange(5, 40).Draw(rt, "hp")
		accuracy := rapid.Float64Range(0.5, 1.0).Draw(rt, "accuracy")
		critChance := rapid.Float64Range(0, 0.3).Draw(rt, "critChance")

		result := damage.FindKillChances(d, crit, critChance, accuracy, hp, 8, true, damage.DefaultPercentCutoff)

		var probs []damage.KillChance
		for _, kc := range result {
			if kc.Probability >= 0 {
				probs = append(probs, kc)
			}
		}
		assert.True(rt, sort.SliceIsSorted(probs, func(i, j int) bool {
			return probs[i].NumAttacks < probs[j].NumAttacks
		}), "entries must be ordered by attack count")

		prev := 0.0
		for _, kc := range probs {
			assert.Greater(rt, kc.Probability, damage.DefaultPercentCutoff, "reported chances exceed the cutoff")
			assert.LessOrEqual(rt, kc.Probability, 100.0+1e-6, "probability is a percentage")
			assert.GreaterOrEqual(rt, kc.Probability, prev-1e-6, "kill chance never drops with more attacks")
			prev = kc.Probability
		}
	})
}
