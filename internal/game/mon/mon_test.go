package mon_test

import (
	"testing"

	"github.com/soloroute/soloroute/internal/game/mon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestStatBlock_AddSubtract verifies Add and Subtract are component-wise and
// round-trip back to the original block.
func TestStatBlock_AddSubtract(t *testing.T) {
	base := mon.StatBlock{HP: 35, Attack: 55, Defense: 40, SpecialAttack: 50, SpecialDefense: 50, Speed: 90}
	delta := mon.StatBlock{HP: 1, Attack: 2, Defense: 3, SpecialAttack: 4, SpecialDefense: 5, Speed: 6}

	sum := base.Add(delta)
	assert.Equal(t, 36, sum.HP, "Add must be component-wise")
	assert.Equal(t, 96, sum.Speed, "Add must be component-wise")
	assert.True(t, sum.Subtract(delta).Equals(base), "Add then Subtract must round-trip")
}

// TestStatBlock_Add_KeepsStatExpFlag verifies the receiver's IsStatExp flag
// survives arithmetic, regardless of the other operand.
func TestStatBlock_Add_KeepsStatExpFlag(t *testing.T) {
	statExp := mon.StatBlock{HP: 100, IsStatExp: true}
	realized := mon.StatBlock{HP: 30}

	assert.True(t, statExp.Add(realized).IsStatExp, "stat-exp receiver must stay stat exp")
	assert.False(t, realized.Add(statExp).IsStatExp, "realized receiver must stay realized")
}

// TestStatBlock_Equals_IgnoresStatExpFlag verifies equality is over the six
// stat values only.
func TestStatBlock_Equals_IgnoresStatExpFlag(t *testing.T) {
	a := mon.StatBlock{HP: 10, Attack: 10, IsStatExp: true}
	b := mon.StatBlock{HP: 10, Attack: 10, IsStatExp: false}
	assert.True(t, a.Equals(b), "Equals must ignore the IsStatExp flag")
}

// TestStatBlock_Get covers every core stat name plus the error path.
func TestStatBlock_Get(t *testing.T) {
	b := mon.StatBlock{HP: 1, Attack: 2, Defense: 3, SpecialAttack: 4, SpecialDefense: 5, Speed: 6}

	for name, want := range map[string]int{
		mon.StatHP:             1,
		mon.StatAttack:         2,
		mon.StatDefense:        3,
		mon.StatSpecialAttack:  4,
		mon.StatSpecialDefense: 5,
		mon.StatSpeed:          6,
	} {
		got, err := b.Get(name)
		require.NoError(t, err, "Get(%q) must succeed", name)
		assert.Equal(t, want, got, "Get(%q)", name)
	}

	_, err := b.Get(mon.StatAccuracy)
	assert.Error(t, err, "accuracy is not a StatBlock stat")
}

// TestStageModifiers_Clamping verifies stages are clamped to [-6, 6] both at
// construction and when mods are applied.
func TestStageModifiers_Clamping(t *testing.T) {
	s := mon.NewStageModifiers(9, -9, 0, 0, 0, 0, 0)
	assert.Equal(t, 6, s.AttackStage, "construction must clamp high")
	assert.Equal(t, -6, s.DefenseStage, "construction must clamp low")

	s = s.ApplyStatMods([]mon.StatMod{{Stat: mon.StatAttack, Change: 3}})
	assert.Equal(t, 6, s.AttackStage, "ApplyStatMods must clamp high")
}

// TestStageModifiers_BadgeBoostCounters verifies the counter dance: every
// external stat mod bumps all four counters, then the counter for any stat
// whose stage actually moved resets to zero.
func TestStageModifiers_BadgeBoostCounters(t *testing.T) {
	s := mon.StageModifiers{}

	s = s.ApplyStatMods([]mon.StatMod{{Stat: mon.StatAttack, Change: 2}})
	assert.Equal(t, 0, s.AttackBadgeBoosts, "moved stat must reset its counter")
	assert.Equal(t, 1, s.DefenseBadgeBoosts, "untouched stat must accumulate")
	assert.Equal(t, 1, s.SpeedBadgeBoosts, "untouched stat must accumulate")
	assert.Equal(t, 1, s.SpecialBadgeBoosts, "untouched stat must accumulate")

	s = s.ApplyStatMods([]mon.StatMod{{Stat: mon.StatSpeed, Change: -1}})
	assert.Equal(t, 1, s.AttackBadgeBoosts, "counters keep growing until the stage moves")
	assert.Equal(t, 2, s.DefenseBadgeBoosts)
	assert.Equal(t, 0, s.SpeedBadgeBoosts, "moved stat must reset its counter")
}

// TestStageModifiers_PinnedStageKeepsCounter verifies a mod that cannot move
// a pinned stage does not reset that stat's counter.
func TestStageModifiers_PinnedStageKeepsCounter(t *testing.T) {
	s := mon.NewStageModifiers(6, 0, 0, 0, 0, 0, 0)
	s = s.ApplyStatMods([]mon.StatMod{{Stat: mon.StatAttack, Change: 1}})
	assert.Equal(t, 6, s.AttackStage, "stage stays pinned at +6")
	assert.Equal(t, 1, s.AttackBadgeBoosts, "no movement, so the counter accumulates")
}

// TestStageModifiers_AccuracyEvasionSkipCounters verifies accuracy and evasion
// stages never reset a badge-boost counter, though applying any mod still
// increments all four.
func TestStageModifiers_AccuracyEvasionSkipCounters(t *testing.T) {
	s := mon.StageModifiers{}
	s = s.ApplyStatMods([]mon.StatMod{{Stat: mon.StatAccuracy, Change: -1}, {Stat: mon.StatEvasion, Change: 1}})
	assert.Equal(t, -1, s.AccuracyStage)
	assert.Equal(t, 1, s.EvasionStage)
	assert.Equal(t, 1, s.AttackBadgeBoosts, "accuracy/evasion mods still bump the counters")
	assert.Equal(t, 1, s.SpecialBadgeBoosts, "accuracy/evasion mods still bump the counters")
}

// TestStageModifiers_EmptyModsNoOp verifies an empty mod list changes nothing,
// counters included.
func TestStageModifiers_EmptyModsNoOp(t *testing.T) {
	s := mon.StageModifiers{AttackBadgeBoosts: 3}
	assert.Equal(t, s, s.ApplyStatMods(nil), "empty mod list must be a no-op")
}

// TestStageModifiers_ClearBadgeBoosts verifies counters zero out and stages
// are preserved.
func TestStageModifiers_ClearBadgeBoosts(t *testing.T) {
	s := mon.NewStageModifiers(2, 0, 0, 0, 0, 0, 0)
	s = s.ApplyStatMods([]mon.StatMod{{Stat: mon.StatDefense, Change: 0}})
	require.Equal(t, 1, s.AttackBadgeBoosts)

	cleared := s.ClearBadgeBoosts()
	assert.Equal(t, 0, cleared.AttackBadgeBoosts)
	assert.Equal(t, 0, cleared.SpecialBadgeBoosts)
	assert.Equal(t, 2, cleared.AttackStage, "stages must survive ClearBadgeBoosts")
}

// TestStageModifiers_Stage_Property verifies all stages stay in [-6, 6] for
// arbitrary mod sequences.
func TestStageModifiers_Stage_Property(t *testing.T) {
	stats := []string{
		mon.StatAttack, mon.StatDefense, mon.StatSpeed,
		mon.StatSpecialAttack, mon.StatSpecialDefense,
		mon.StatAccuracy, mon.StatEvasion,
	}
	rapid.Check(t, func(rt *rapid.T) {
		s := mon.StageModifiers{}
		n := rapid.IntRange(0, 20).Draw(rt, "mods")
		for i := 0; i < n; i++ {
			s = s.ApplyStatMods([]mon.StatMod{{
				Stat:   rapid.SampledFrom(stats).Draw(rt, "stat"),
				Change: rapid.IntRange(-3, 3).Draw(rt, "change"),
			}})
		}
		for _, stage := range []int{
			s.AttackStage, s.DefenseStage, s.SpeedStage,
			s.SpecialAttackStage, s.SpecialDefenseStage,
			s.AccuracyStage, s.EvasionStage,
		} {
			assert.GreaterOrEqual(rt, stage, -6, "stage below -6")
			assert.LessOrEqual(rt, stage, 6, "stage above +6")
		}
	})
}

// TestNature_RaisesLowers spot-checks the 25-nature table.
func TestNature_RaisesLowers(t *testing.T) {
	assert.True(t, mon.NatureAdamant.Raises(mon.StatAttack), "Adamant raises attack")
	assert.True(t, mon.NatureAdamant.Lowers(mon.StatSpecialAttack), "Adamant lowers special attack")
	assert.True(t, mon.NatureModest.Raises(mon.StatSpecialAttack), "Modest raises special attack")
	assert.True(t, mon.NatureModest.Lowers(mon.StatAttack), "Modest lowers attack")
	assert.True(t, mon.NatureTimid.Raises(mon.StatSpeed), "Timid raises speed")

	for _, n := range []mon.Nature{mon.NatureHardy, mon.NatureDocile, mon.NatureSerious, mon.NatureBashful, mon.NatureQuirky} {
		for _, stat := range []string{mon.StatAttack, mon.StatDefense, mon.StatSpeed, mon.StatSpecialAttack, mon.StatSpecialDefense} {
			assert.False(t, n.Raises(stat), "neutral nature %d must raise nothing", n)
			assert.False(t, n.Lowers(stat), "neutral nature %d must lower nothing", n)
		}
	}
}

// TestNature_RaiseLower_Exclusive_Property verifies no nature both raises and
// lowers the same stat.
func TestNature_RaiseLower_Exclusive_Property(t *testing.T) {
	stats := []string{
		mon.StatAttack, mon.StatDefense, mon.StatSpeed,
		mon.StatSpecialAttack, mon.StatSpecialDefense,
	}
	rapid.Check(t, func(rt *rapid.T) {
		n := mon.Nature(rapid.IntRange(0, 24).Draw(rt, "nature"))
		stat := rapid.SampledFrom(stats).Draw(rt, "stat")
		assert.False(rt, n.Raises(stat) && n.Lowers(stat),
			"nature %d both raises and lowers %s", n, stat)
	})
}

// TestSanitizeName verifies lookup canonicalization.
func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "lightscreen", mon.SanitizeName("Light Screen"))
	assert.Equal(t, "mrmime", mon.SanitizeName("Mr. Mime"))
	assert.Equal(t, "farfetchd", mon.SanitizeName("Farfetch'd"))
	assert.Equal(t, "tm28", mon.SanitizeName("TM28"))
	assert.Equal(t, "", mon.SanitizeName("---"))
}

// TestItem_SellPriceAndTMHM verifies the derived sell price and the machine
// move check.
func TestItem_SellPriceAndTMHM(t *testing.T) {
	potion := mon.NewItem("Potion", false, 300, []string{"Viridian City"}, "")
	assert.Equal(t, 150, potion.SellPrice, "sell price is half the purchase price")
	assert.False(t, potion.IsTMHM())

	oddPrice := mon.NewItem("Nugget", false, 9999, nil, "")
	assert.Equal(t, 4999, oddPrice.SellPrice, "sell price is floored")

	tm := mon.NewItem("TM28", false, 2000, nil, "Dig")
	assert.True(t, tm.IsTMHM())
	hm := mon.NewItem("HM01", false, 0, nil, "Cut")
	assert.True(t, hm.IsTMHM())
}

// TestFieldState_ApplyMove verifies the screens latch on and everything else
// passes through.
func TestFieldState_ApplyMove(t *testing.T) {
	f := mon.FieldState{}
	f = f.ApplyMove(mon.Move{Name: "Light Screen"})
	assert.True(t, f.LightScreen)
	assert.False(t, f.Reflect)

	f = f.ApplyMove(mon.Move{Name: "Tackle", BasePower: 35})
	assert.True(t, f.LightScreen, "unrelated moves must not clear screens")

	f = f.ApplyMove(mon.Move{Name: "Reflect"})
	assert.True(t, f.Reflect)
}

// TestTrainerTiming_OptimalExpPerSecond verifies the duration model: intro and
// outro once, one KO per mon, one send-out per mon after the first.
func TestTrainerTiming_OptimalExpPerSecond(t *testing.T) {
	timing := mon.TrainerTiming{IntroSeconds: 10, OutroSeconds: 5, KOSeconds: 8, SendOutSeconds: 2}
	mons := []mon.EnemyMon{
		{Species: "Geodude", Level: 12, Exp: 220},
		{Species: "Onix", Level: 14, Exp: 325},
	}
	// 545 exp over 10+5+16+2 = 33 seconds.
	assert.Equal(t, 17, timing.OptimalExpPerSecond(mons))
}
