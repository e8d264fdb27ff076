package routing

import (
	"fmt"

	"github.com/soloroute/soloroute/internal/game/gen"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// SoloMon is the player's single mon at one point in the route. Every field
// is derived by recompute; transitions never edit a SoloMon in place, they
// describe the change in a monChange and rebuild.
type SoloMon struct {
	Name         string
	Species      mon.PokemonSpecies
	DVs          mon.StatBlock
	Badges       mon.BadgeList
	AbilityIndex int
	Ability      string
	Nature       mon.Nature
	HeldItem     string
	MoveList     []string

	CurExp            int
	CurLevel          int
	ExpToNextLevel    int
	PercentToNext     int
	RealizedStatExp   mon.StatBlock
	UnrealizedStatExp mon.StatBlock
	CurStats          mon.StatBlock
}

// monChange describes one transition's deltas against a base SoloMon. Zero
// value means "carry everything over unchanged".
type monChange struct {
	species       *mon.PokemonSpecies
	name          string
	badges        mon.BadgeList
	heldItem      *string
	moveList      []string
	realizedExp   *mon.StatBlock
	gainedExp     int
	gainedStatExp *mon.StatBlock
}

// NewSoloMon builds the starting mon for a route: level 5, learnset moves,
// no stat experience.
func NewSoloMon(rules gen.Rules, name string, species mon.PokemonSpecies, dvs mon.StatBlock, abilityIndex int, nature mon.Nature) (SoloMon, error) {
	base := SoloMon{
		Name:              name,
		Species:           species,
		DVs:               dvs,
		Badges:            rules.MakeBadgeList(),
		AbilityIndex:      abilityIndex,
		Nature:            nature,
		RealizedStatExp:   rules.MakeStatBlock(0, 0, 0, 0, 0, 0, true),
		UnrealizedStatExp: rules.MakeStatBlock(0, 0, 0, 0, 0, 0, true),
	}
	return recompute(rules, base, monChange{})
}

// recompute derives every dependent field: experience and level bookkeeping,
// stat experience realization on level up, and the current stat block.
func recompute(rules gen.Rules, base SoloMon, change monChange) (SoloMon, error) {
	result := base
	if change.species != nil {
		result.Species = *change.species
		result.Name = change.species.Name
	}
	if change.name != "" {
		result.Name = change.name
	}
	if change.badges != nil {
		result.Badges = change.badges
	}
	if change.heldItem != nil {
		result.HeldItem = *change.heldItem
	}
	if change.moveList != nil {
		result.MoveList = change.moveList
	}
	if change.realizedExp != nil {
		result.RealizedStatExp = *change.realizedExp
		result.UnrealizedStatExp = *change.realizedExp
	}

	if len(result.Species.Abilities) > 0 {
		result.Ability = result.Species.Abilities[result.AbilityIndex]
	} else {
		result.Ability = ""
	}

	lookup, err := rules.Curves().Lookup(result.Species.GrowthRate)
	if err != nil {
		return SoloMon{}, fmt.Errorf("invalid growth rate for %s: %w", result.Species.Name, err)
	}

	if result.CurExp == 0 {
		result.CurExp, err = lookup.ExpForLevel(5)
		if err != nil {
			return SoloMon{}, err
		}
	}
	result.CurLevel, result.ExpToNextLevel = lookup.LevelForExp(result.CurExp)

	if result.MoveList == nil {
		result.MoveList = defaultMoveList(result.Species.LevelupMoves, result.CurLevel)
	}

	if change.gainedStatExp != nil {
		result.UnrealizedStatExp = result.UnrealizedStatExp.Add(*change.gainedStatExp)
	}

	result.CurExp += change.gainedExp
	if change.gainedExp < result.ExpToNextLevel {
		// No level up; keep accruing unrealized stat experience.
		result.ExpToNextLevel -= change.gainedExp
	} else {
		result.CurLevel, result.ExpToNextLevel = lookup.LevelForExp(result.CurExp)
		if result.CurLevel == 100 {
			// Terminal level. Pin the exp total; stat experience can only be
			// realized by vitamins from here on.
			result.CurExp, err = lookup.ExpForLevel(100)
			if err != nil {
				return SoloMon{}, err
			}
		} else {
			// The level up realizes everything accrued so far.
			result.RealizedStatExp = result.UnrealizedStatExp
		}
	}

	if result.ExpToNextLevel <= 0 {
		result.PercentToNext = -1
	} else {
		lastLevelExp, err := lookup.ExpForLevel(result.CurLevel)
		if err != nil {
			return SoloMon{}, err
		}
		result.PercentToNext = result.ExpToNextLevel * 100 / (result.CurExp + result.ExpToNextLevel - lastLevelExp)
	}

	result.CurStats = rules.LevelStats(result.Species.Stats, result.CurLevel, result.DVs, result.RealizedStatExp, result.Badges, result.Nature, result.HeldItem)
	return result, nil
}

// defaultMoveList is the last four learnset moves known at the level, padded
// to four slots.
func defaultMoveList(learnset []mon.LevelupMove, level int) []string {
	var moves []string
	for _, lm := range learnset {
		if lm.Level > level {
			break
		}
		known := false
		for _, m := range moves {
			if m == lm.Move {
				known = true
				break
			}
		}
		if !known {
			moves = append(moves, lm.Move)
		}
	}
	if len(moves) > 4 {
		moves = moves[len(moves)-4:]
	}
	for len(moves) < 4 {
		moves = append(moves, "")
	}
	return moves
}

// MoveDestination resolves where an attempted move learn actually lands.
// It returns the slot index and whether the requested destination mattered:
// forgetting always honors dest, an already-known move is ignored (-1), an
// empty slot is taken first, and only a full, novel movelist falls back to
// the requested slot.
func (m SoloMon) MoveDestination(moveName string, dest int) (int, bool) {
	if moveName == "" {
		return dest, true
	}
	for _, known := range m.MoveList {
		if known == moveName {
			return -1, false
		}
	}
	for i, known := range m.MoveList {
		if known == "" {
			return i, false
		}
	}
	return dest, true
}

// BattleMon realizes the solo mon as a battle participant with the given
// stage modifiers.
func (m SoloMon) BattleMon(rules gen.Rules, stages mon.StageModifiers) mon.EnemyMon {
	return mon.EnemyMon{
		Species:      m.Species.Name,
		Level:        m.CurLevel,
		Exp:          -1,
		MoveList:     m.MoveList,
		CurStats:     rules.BattleStats(m.Species.Stats, m.CurLevel, m.DVs, m.RealizedStatExp, stages, m.Badges, m.Nature, m.HeldItem, false),
		BaseStats:    m.Species.Stats,
		DVs:          m.DVs,
		StatExp:      m.RealizedStatExp,
		Badges:       m.Badges,
		HeldItem:     m.HeldItem,
		IsTrainerMon: true,
		Ability:      m.Ability,
		Nature:       m.Nature,
	}
}

// NetGainFromStatExp is the per-stat difference the accumulated stat
// experience is currently worth.
func (m SoloMon) NetGainFromStatExp(rules gen.Rules) mon.StatBlock {
	empty := rules.MakeStatBlock(0, 0, 0, 0, 0, 0, true)
	plain := rules.LevelStats(m.Species.Stats, m.CurLevel, m.DVs, empty, m.Badges, m.Nature, m.HeldItem)
	return m.CurStats.Subtract(plain)
}

// Equals compares the route-relevant state of two solo mons.
func (m SoloMon) Equals(other SoloMon) bool {
	if m.Species.Name != other.Species.Name ||
		m.CurLevel != other.CurLevel ||
		m.CurExp != other.CurExp ||
		m.DVs != other.DVs ||
		m.RealizedStatExp != other.RealizedStatExp ||
		m.UnrealizedStatExp != other.UnrealizedStatExp ||
		m.CurStats != other.CurStats ||
		m.HeldItem != other.HeldItem ||
		!m.Badges.Equals(other.Badges) {
		return false
	}
	if len(m.MoveList) != len(other.MoveList) {
		return false
	}
	for i := range m.MoveList {
		if m.MoveList[i] != other.MoveList[i] {
			return false
		}
	}
	return true
}
