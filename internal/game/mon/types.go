package mon

import (
	"fmt"
	"math"
	"strings"
)

// Move effect flavors recognized by the damage pipeline. Data files carry
// these in the move's effect field; anything else is treated as a plain
// single-hit attack (or a status move when base power is zero).
const (
	FlavorTwoHit      = "two_hit"
	FlavorMultiHit    = "multi_hit"
	FlavorHighCrit    = "high_crit"
	FlavorFixedDamage = "fixed_damage"
	FlavorLevelDamage = "level_damage"
	FlavorPsywave     = "psywave"
	FlavorRecharge    = "recharge"
	FlavorTwoTurn     = "two_turn"
)

// Type-effectiveness multipliers as they appear in the type chart data.
const (
	SuperEffective   = "Super Effective"
	NotVeryEffective = "Not Very Effective"
	Immune           = "Immune"
)

// LevelupMove is one entry in a species' level-up learnset.
type LevelupMove struct {
	Level int
	Move  string
}

// PokemonSpecies is a read-only species record from the game data files.
type PokemonSpecies struct {
	Name         string
	GrowthRate   string
	BaseExp      int
	FirstType    string
	SecondType   string
	Stats        StatBlock
	LevelupMoves []LevelupMove
	TMHMMoves    []string
	StatExpYield StatBlock
	Abilities    []string
}

// Move is a read-only move record. Accuracy is a percentage (0-100).
type Move struct {
	Name      string
	Accuracy  int
	PP        int
	BasePower int
	MoveType  string
	Effect    string
	Target    string
}

// Item is a read-only item record. SellPrice is always half the purchase
// price, floored, which is why it is derived rather than loaded.
type Item struct {
	Name          string
	IsKeyItem     bool
	PurchasePrice int
	SellPrice     int
	Marts         []string
	MoveName      string
}

// NewItem builds an Item with the derived sell price.
func NewItem(name string, isKeyItem bool, purchasePrice int, marts []string, moveName string) Item {
	return Item{
		Name:          name,
		IsKeyItem:     isKeyItem,
		PurchasePrice: purchasePrice,
		SellPrice:     purchasePrice / 2,
		Marts:         marts,
		MoveName:      moveName,
	}
}

// IsTMHM reports whether the item teaches a machine move.
func (i Item) IsTMHM() bool {
	return strings.HasPrefix(i.Name, "TM") || strings.HasPrefix(i.Name, "HM")
}

// CustomMoveData carries per-move overrides for a single battle, keyed by
// sanitized move name, e.g. {"furyswipes": {"player": "4 Hits"}}.
type CustomMoveData map[string]map[string]string

// EnemyMon is a fully realized opposing mon: a wild encounter or one slot of
// a trainer's party. Built by the generation rules, consumed by the route
// engine; treated as immutable except for the battle bookkeeping fields
// (ExpSplit, MonOrder, DefinitionOrder) that trainer fights adjust.
type EnemyMon struct {
	Species         string
	Level           int
	Exp             int
	MoveList        []string
	CurStats        StatBlock
	BaseStats       StatBlock
	DVs             StatBlock
	StatExp         StatBlock
	Badges          BadgeList
	HeldItem        string
	CustomMoveData  CustomMoveData
	IsTrainerMon    bool
	ExpSplit        int
	MonOrder        int
	DefinitionOrder int
	Ability         string
	Nature          Nature
}

func (m EnemyMon) String() string {
	return fmt.Sprintf("Lv %d: %s", m.Level, m.Species)
}

// Trainer is a read-only trainer record.
type Trainer struct {
	TrainerClass string
	Name         string
	Location     string
	Money        int
	Mons         []EnemyMon
	Rematch      bool
	TrainerID    int
	Refightable  bool
	DoubleBattle bool
}

// CanMultiBattle reports whether the trainer fits in a multi-battle lineup.
func (t Trainer) CanMultiBattle() bool {
	return len(t.Mons) <= 3
}

// TrainerTiming estimates how long trainer fights take, for exp-per-second
// route comparisons. All durations are seconds at 4x game speed.
type TrainerTiming struct {
	// Overworld dialogue, battle start animation, first send-out. Once per battle.
	IntroSeconds float64
	// Defeat dialogue and transition back to the overworld. Once per battle.
	OutroSeconds float64
	// Select a move, one-shot the enemy, collect experience. Once per enemy mon.
	KOSeconds float64
	// Next enemy mon appearing after a KO. N-1 times per battle.
	SendOutSeconds float64
}

// OptimalExpPerSecond is the rounded exp rate for one-shotting every mon in
// the list back to back.
//
// Precondition: mons is non-empty.
func (t TrainerTiming) OptimalExpPerSecond(mons []EnemyMon) int {
	totalExp := 0
	for _, m := range mons {
		totalExp += m.Exp
	}
	n := float64(len(mons))
	duration := t.IntroSeconds + t.OutroSeconds + t.KOSeconds*n + t.SendOutSeconds*(n-1)
	return int(math.Round(float64(totalExp) / duration))
}

// FieldState tracks battlefield effects that persist across turns. Only the
// two defense screens matter for damage calculation.
type FieldState struct {
	LightScreen bool
	Reflect     bool
}

// ApplyMove returns the field after the move resolves.
//
// TODO: drive this from the move's effect field once the data files tag
// screen moves, instead of matching on name.
func (f FieldState) ApplyMove(move Move) FieldState {
	result := f
	switch SanitizeName(move.Name) {
	case "lightscreen":
		result.LightScreen = true
	case "reflect":
		result.Reflect = true
	}
	return result
}
