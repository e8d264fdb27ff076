package gen1

import (
	"fmt"
	"strings"

	"github.com/soloroute/soloroute/internal/game/damage"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// Multi-hit custom move data values, as they appear in route files.
const (
	MultiHit2 = "2 Hits"
	MultiHit3 = "3 Hits"
	MultiHit4 = "4 Hits"
	MultiHit5 = "5 Hits"
)

// MultiHitOptions lists the selectable hit counts for multi-hit moves.
var MultiHitOptions = []string{MultiHit2, MultiHit3, MultiHit4, MultiHit5}

// CalculateDamage runs the Generation One damage pipeline and returns the
// roll histogram, or nil for status moves, immune matchups, and matchups
// where the formula bottoms out at zero.
//
// Multi-hit moves roll damage once in this generation, so they are modeled
// as a single histogram scaled by the hit count.
func CalculateDamage(
	attacker mon.EnemyMon,
	attackingSpecies mon.PokemonSpecies,
	move mon.Move,
	defender mon.EnemyMon,
	defendingSpecies mon.PokemonSpecies,
	specialTypes []string,
	typeChart map[string]map[string]string,
	attackerStages, defenderStages mon.StageModifiers,
	customMoveData string,
	isCrit bool,
	defenderHasLightScreen, defenderHasReflect bool,
) (*damage.Distribution, error) {
	if move.BasePower == 0 {
		return nil, nil
	}

	switch move.Effect {
	case mon.FlavorFixedDamage:
		switch mon.SanitizeName(move.Name) {
		case "sonicboom":
			return damage.New(map[int]int{20: 1})
		case "dragonrage":
			return damage.New(map[int]int{40: 1})
		}
		return nil, fmt.Errorf("unknown fixed damage move: %s", move.Name)
	case mon.FlavorLevelDamage:
		return damage.New(map[int]int{attacker.Level: 1})
	case mon.FlavorPsywave:
		upperLimit := attacker.Level * 3 / 2
		rolls := make(map[int]int, upperLimit)
		for roll := 0; roll < upperLimit; roll++ {
			rolls[roll] = 1
		}
		return damage.New(rolls)
	}

	attackerStats := BattleStats(attacker.BaseStats, attacker.Level, attacker.DVs, attacker.StatExp, attackerStages, attacker.Badges, isCrit)
	defenderStats := BattleStats(defender.BaseStats, defender.Level, defender.DVs, defender.StatExp, defenderStages, defender.Badges, isCrit)

	firstEffectiveness := typeChart[move.MoveType][defendingSpecies.FirstType]
	secondEffectiveness := ""
	if defendingSpecies.FirstType != defendingSpecies.SecondType {
		secondEffectiveness = typeChart[move.MoveType][defendingSpecies.SecondType]
	}
	if firstEffectiveness == mon.Immune || secondEffectiveness == mon.Immune {
		return nil, nil
	}

	var attackingStat, defendingStat int
	if isSpecialType(move.MoveType, specialTypes) {
		attackingStat = attackerStats.SpecialAttack
		defendingStat = defenderStats.SpecialDefense
		if defenderHasLightScreen && !isCrit {
			defendingStat *= 2
		}
	} else {
		attackingStat = attackerStats.Attack
		defendingStat = defenderStats.Defense
		if defenderHasReflect && !isCrit {
			defendingStat *= 2
		}
	}

	switch mon.SanitizeName(move.Name) {
	case "explosion", "selfdestruct":
		defendingStat /= 2
		if defendingStat < 1 {
			defendingStat = 1
		}
	}

	isSTAB := attackingSpecies.FirstType == move.MoveType || attackingSpecies.SecondType == move.MoveType

	damageVal := 2 * attacker.Level
	if isCrit {
		damageVal *= 2
	}
	damageVal = damageVal/5 + 2
	damageVal *= move.BasePower
	damageVal *= attackingStat
	damageVal /= defendingStat
	damageVal /= 50
	damageVal += 2
	if isSTAB {
		damageVal = damageVal * 3 / 2
	}

	switch firstEffectiveness {
	case mon.SuperEffective:
		damageVal *= 2
	case mon.NotVeryEffective:
		damageVal /= 2
	}
	switch secondEffectiveness {
	case mon.SuperEffective:
		damageVal *= 2
	case mon.NotVeryEffective:
		damageVal /= 2
	}

	if damageVal == 0 {
		return nil, nil
	}

	multiHitMultiplier := 1
	switch move.Effect {
	case mon.FlavorTwoHit:
		multiHitMultiplier = 2
	case mon.FlavorMultiHit:
		switch {
		case strings.Contains(customMoveData, MultiHit2):
			multiHitMultiplier = 2
		case strings.Contains(customMoveData, MultiHit3):
			multiHitMultiplier = 3
		case strings.Contains(customMoveData, MultiHit4):
			multiHitMultiplier = 4
		case strings.Contains(customMoveData, MultiHit5):
			multiHitMultiplier = 5
		}
	}

	rolls := make(map[int]int, maxRollNumerator-minRollNumerator+1)
	for numerator := minRollNumerator; numerator <= maxRollNumerator; numerator++ {
		rolled := damageVal * numerator / maxRollNumerator
		if rolled < 1 {
			rolled = 1
		}
		rolls[rolled*multiHitMultiplier]++
	}
	return damage.New(rolls)
}

func isSpecialType(moveType string, specialTypes []string) bool {
	for _, t := range specialTypes {
		if t == moveType {
			return true
		}
	}
	return false
}

// CritRate returns the crit chance as a fraction: min(floor(baseSpeed/2)
// [*8 for high-crit moves], 255) / 256.
func CritRate(attacker mon.EnemyMon, move mon.Move) float64 {
	numerator := attacker.BaseStats.Speed / 2
	if move.Effect == mon.FlavorHighCrit {
		numerator *= 8
	}
	if numerator > 255 {
		numerator = 255
	}
	return float64(numerator) / 256
}
