// Package gen defines the interface a generation's rule set must implement
// and a registry for looking rule sets up by version name. Rule sets are
// constructed explicitly and injected; there is no process-global current
// generation.
package gen

import (
	"github.com/soloroute/soloroute/internal/game/damage"
	"github.com/soloroute/soloroute/internal/game/growth"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// Rules is everything the route engine needs from one game version:
// database access, mon instantiation, and the generation's combat math.
type Rules interface {
	VersionName() string
	BaseVersionName() string
	Generation() int

	Species(name string) (mon.PokemonSpecies, error)
	AllSpeciesNames(growthRate string) []string
	Move(name string) (mon.Move, error)
	Item(name string) (mon.Item, error)
	Trainer(name string) (mon.Trainer, error)

	CreateWildMon(species string, level int) (mon.EnemyMon, error)
	CreateTrainerMon(species string, level int, specialMoves []string) (mon.EnemyMon, error)

	// CalculateDamage returns nil for moves that deal no direct damage and
	// for immune matchups.
	CalculateDamage(
		attacker mon.EnemyMon,
		move mon.Move,
		defender mon.EnemyMon,
		attackerStages, defenderStages mon.StageModifiers,
		attackerField, defenderField mon.FieldState,
		customMoveData string,
		weather string,
		doubleBattle bool,
		isCrit bool,
	) (*damage.Distribution, error)
	CritRate(attacker mon.EnemyMon, move mon.Move, customMoveData string) float64
	MoveAccuracy(attacker mon.EnemyMon, move mon.Move, customMoveData string, defender mon.EnemyMon, weather string) float64

	MakeStatBlock(hp, attack, defense, specialAttack, specialDefense, speed int, isStatExp bool) mon.StatBlock
	MakeBadgeList() mon.BadgeList

	// LevelStats is the stat-screen stat block; BattleStats folds in stage
	// modifiers. Nature and held item are ignored by generations that
	// predate them.
	LevelStats(base mon.StatBlock, level int, dvs, statExp mon.StatBlock, badges mon.BadgeList, nature mon.Nature, heldItem string) mon.StatBlock
	BattleStats(base mon.StatBlock, level int, dvs, statExp mon.StatBlock, stages mon.StageModifiers, badges mon.BadgeList, nature mon.Nature, heldItem string, isCrit bool) mon.StatBlock

	StatModifierMoves() []string
	StatModifiers(moveName string) []mon.StatMod
	MoveCustomData(moveName string) []string

	FightReward(trainerName string) string
	IsMajorFight(trainerName string) bool
	ValidWeather() []string

	ValidVitamins() []string
	VitaminAmount() int
	VitaminCap() int
	StatsBoostedByVitamin(vitamin string) []string

	StatExpYield(speciesName string, expSplit int, heldItem string) (mon.StatBlock, error)
	TrainerTiming() mon.TrainerTiming
	Curves() *growth.CurveSet

	StartingMoney() int
	BagLimit() int
}
