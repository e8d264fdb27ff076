// Package gen1 implements the Generation One rule set: stat formulas, the
// damage pipeline with its 39-roll histogram, badge boosts, and the version
// metadata loaded from YAML.
package gen1

import "github.com/soloroute/soloroute/internal/game/mon"

// The eight badges, as named in badge reward tables.
const (
	BoulderBadge = "boulder"
	CascadeBadge = "cascade"
	ThunderBadge = "thunder"
	RainbowBadge = "rainbow"
	SoulBadge    = "soul"
	MarshBadge   = "marsh"
	VolcanoBadge = "volcano"
	EarthBadge   = "earth"
)

const (
	// BagLimit is the number of distinct bag slots.
	BagLimit = 20
	// StartingMoney is the money a fresh save begins with.
	StartingMoney = 3000
	// StatExpCap is the hard cap on accumulated stat experience per stat.
	StatExpCap = 65535
	// VitaminAmount is the stat experience granted by one vitamin.
	VitaminAmount = 2560
	// VitaminCap is the stat experience level at or above which vitamins
	// stop working.
	VitaminCap = 25600
)

// Damage roll numerators: the game rolls uniformly in [217, 255] and scales
// damage by numerator/255.
const (
	minRollNumerator = 217
	maxRollNumerator = 255
)

// stageMultipliers holds the numerator/denominator pairs for stages -6..+6,
// indexed by stage + baseStageIndex.
var stageMultipliers = [13][2]int{
	{25, 100},
	{28, 100},
	{33, 100},
	{40, 100},
	{50, 100},
	{66, 100},
	{1, 1},
	{15, 10},
	{2, 1},
	{25, 10},
	{3, 1},
	{35, 10},
	{4, 1},
}

const baseStageIndex = 6

// Vitamins and the stats they feed. Calcium feeds only special attack; the
// mirrored special defense follows automatically from the shared special
// stat.
var vitaminStats = map[string][]string{
	"HP Up":   {mon.StatHP},
	"Protein": {mon.StatAttack},
	"Iron":    {mon.StatDefense},
	"Calcium": {mon.StatSpecialAttack},
	"Carbos":  {mon.StatSpeed},
}

// validVitamins preserves the display order of the vitamin list.
var validVitamins = []string{"HP Up", "Protein", "Iron", "Calcium", "Carbos"}

// Trainer mon DVs are fixed by the game: 9 attack, 8 everywhere else.
var trainerDVs = mon.StatBlock{HP: 8, Attack: 9, Defense: 8, SpecialAttack: 8, SpecialDefense: 8, Speed: 8}

// Wild mons are modeled with perfect DVs.
var wildDVs = mon.StatBlock{HP: 15, Attack: 15, Defense: 15, SpecialAttack: 15, SpecialDefense: 15, Speed: 15}
