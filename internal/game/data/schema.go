// Package data loads the per-version game databases (species, moves, items,
// trainers, type chart) from YAML and validates every cross-reference in one
// pass.
package data

import (
	"errors"
	"fmt"

	"github.com/soloroute/soloroute/internal/game/growth"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// StatsRecord is the YAML shape of a six-stat block.
type StatsRecord struct {
	HP             int `yaml:"hp"`
	Attack         int `yaml:"attack"`
	Defense        int `yaml:"defense"`
	SpecialAttack  int `yaml:"special_attack"`
	SpecialDefense int `yaml:"special_defense"`
	Speed          int `yaml:"speed"`
}

// Block converts the record to a StatBlock.
func (r StatsRecord) Block(isStatExp bool) mon.StatBlock {
	return mon.StatBlock{
		HP:             r.HP,
		Attack:         r.Attack,
		Defense:        r.Defense,
		SpecialAttack:  r.SpecialAttack,
		SpecialDefense: r.SpecialDefense,
		Speed:          r.Speed,
		IsStatExp:      isStatExp,
	}
}

// LevelupMoveRecord is one learnset entry.
type LevelupMoveRecord struct {
	Level int    `yaml:"level"`
	Move  string `yaml:"move"`
}

// SpeciesRecord is the YAML shape of one species.
type SpeciesRecord struct {
	Name         string              `yaml:"name"`
	GrowthRate   string              `yaml:"growth_rate"`
	BaseExp      int                 `yaml:"base_exp"`
	FirstType    string              `yaml:"first_type"`
	SecondType   string              `yaml:"second_type"`
	Stats        StatsRecord         `yaml:"stats"`
	LevelupMoves []LevelupMoveRecord `yaml:"levelup_moves"`
	TMHMMoves    []string            `yaml:"tmhm_moves"`
	StatExpYield StatsRecord         `yaml:"stat_exp_yield"`
	Abilities    []string            `yaml:"abilities"`
}

// Validate checks the record's self-contained invariants. Cross-references
// to moves and types are checked later by Provider.Validate.
func (r *SpeciesRecord) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	validRate := false
	for _, rate := range growth.AllRates {
		if r.GrowthRate == rate {
			validRate = true
			break
		}
	}
	if !validRate {
		errs = append(errs, fmt.Errorf("unknown growth rate %q", r.GrowthRate))
	}
	if r.BaseExp < 0 {
		errs = append(errs, errors.New("base_exp must be >= 0"))
	}
	if r.FirstType == "" {
		errs = append(errs, errors.New("first_type must not be empty"))
	}
	for _, lm := range r.LevelupMoves {
		if lm.Level < 1 || lm.Level > 100 {
			errs = append(errs, fmt.Errorf("levelup move %q has invalid level %d", lm.Move, lm.Level))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("species %q: %v", r.Name, errs)
	}
	return nil
}

// Species converts the record to the runtime type.
func (r *SpeciesRecord) Species() mon.PokemonSpecies {
	secondType := r.SecondType
	if secondType == "" {
		secondType = r.FirstType
	}
	moves := make([]mon.LevelupMove, len(r.LevelupMoves))
	for i, lm := range r.LevelupMoves {
		moves[i] = mon.LevelupMove{Level: lm.Level, Move: lm.Move}
	}
	return mon.PokemonSpecies{
		Name:         r.Name,
		GrowthRate:   r.GrowthRate,
		BaseExp:      r.BaseExp,
		FirstType:    r.FirstType,
		SecondType:   secondType,
		Stats:        r.Stats.Block(false),
		LevelupMoves: moves,
		TMHMMoves:    r.TMHMMoves,
		StatExpYield: r.StatExpYield.Block(true),
		Abilities:    r.Abilities,
	}
}

// MoveRecord is the YAML shape of one move.
type MoveRecord struct {
	Name      string `yaml:"name"`
	Accuracy  int    `yaml:"accuracy"`
	PP        int    `yaml:"pp"`
	BasePower int    `yaml:"base_power"`
	MoveType  string `yaml:"move_type"`
	Effect    string `yaml:"effect"`
	Target    string `yaml:"target"`
}

// Validate checks the record's self-contained invariants.
func (r *MoveRecord) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if r.Accuracy < 0 || r.Accuracy > 100 {
		errs = append(errs, fmt.Errorf("accuracy %d out of range", r.Accuracy))
	}
	if r.BasePower < 0 {
		errs = append(errs, errors.New("base_power must be >= 0"))
	}
	if r.MoveType == "" {
		errs = append(errs, errors.New("move_type must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("move %q: %v", r.Name, errs)
	}
	return nil
}

// Move converts the record to the runtime type.
func (r *MoveRecord) Move() mon.Move {
	return mon.Move{
		Name:      r.Name,
		Accuracy:  r.Accuracy,
		PP:        r.PP,
		BasePower: r.BasePower,
		MoveType:  r.MoveType,
		Effect:    r.Effect,
		Target:    r.Target,
	}
}

// ItemRecord is the YAML shape of one item. Sell price is derived, never
// loaded.
type ItemRecord struct {
	Name          string   `yaml:"name"`
	KeyItem       bool     `yaml:"key_item"`
	PurchasePrice int      `yaml:"purchase_price"`
	Marts         []string `yaml:"marts"`
	MoveName      string   `yaml:"move_name"`
}

// Validate checks the record's self-contained invariants.
func (r *ItemRecord) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if r.PurchasePrice < 0 {
		errs = append(errs, errors.New("purchase_price must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %v", r.Name, errs)
	}
	return nil
}

// Item converts the record to the runtime type.
func (r *ItemRecord) Item() mon.Item {
	return mon.NewItem(r.Name, r.KeyItem, r.PurchasePrice, r.Marts, r.MoveName)
}

// TrainerMonRecord is one slot of a trainer's party. The generation rules
// turn it into a fully realized EnemyMon.
type TrainerMonRecord struct {
	Species      string   `yaml:"species"`
	Level        int      `yaml:"level"`
	SpecialMoves []string `yaml:"special_moves"`
}

// TrainerRecord is the YAML shape of one trainer.
type TrainerRecord struct {
	Class        string             `yaml:"class"`
	Name         string             `yaml:"name"`
	Location     string             `yaml:"location"`
	Money        int                `yaml:"money"`
	Mons         []TrainerMonRecord `yaml:"mons"`
	Rematch      bool               `yaml:"rematch"`
	TrainerID    int                `yaml:"trainer_id"`
	Refightable  bool               `yaml:"refightable"`
	DoubleBattle bool               `yaml:"double_battle"`
}

// Validate checks the record's self-contained invariants.
func (r *TrainerRecord) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(r.Mons) == 0 {
		errs = append(errs, errors.New("trainer must have at least one mon"))
	}
	for _, m := range r.Mons {
		if m.Level < 1 || m.Level > 100 {
			errs = append(errs, fmt.Errorf("mon %q has invalid level %d", m.Species, m.Level))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("trainer %q: %v", r.Name, errs)
	}
	return nil
}

// StatModRecord is one stage change of a stat-modifying move.
type StatModRecord struct {
	Stat   string `yaml:"stat"`
	Change int    `yaml:"change"`
}

// TypesRecord is the YAML shape of the type metadata file: the full
// effectiveness chart, the types that use the special stats, and the stage
// changes of every stat-modifying move.
type TypesRecord struct {
	// Chart maps attacking type -> defending type -> effectiveness label.
	// Absent pairs mean neutral damage.
	Chart             map[string]map[string]string `yaml:"chart"`
	SpecialTypes      []string                     `yaml:"special_types"`
	StatModifierMoves map[string][]StatModRecord   `yaml:"stat_modifier_moves"`
}

// Validate checks the chart uses only known effectiveness labels.
func (r *TypesRecord) Validate() error {
	var errs []error
	for attacking, row := range r.Chart {
		for defending, eff := range row {
			switch eff {
			case mon.SuperEffective, mon.NotVeryEffective, mon.Immune:
			default:
				errs = append(errs, fmt.Errorf("type chart %s->%s has unknown effectiveness %q", attacking, defending, eff))
			}
		}
	}
	for moveName, mods := range r.StatModifierMoves {
		for _, m := range mods {
			if _, err := (mon.StatBlock{}).Get(m.Stat); err != nil {
				if m.Stat != mon.StatAccuracy && m.Stat != mon.StatEvasion {
					errs = append(errs, fmt.Errorf("stat modifier move %q targets unknown stat %q", moveName, m.Stat))
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("type metadata: %v", errs)
	}
	return nil
}
