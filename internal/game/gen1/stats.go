package gen1

import (
	"math"

	"github.com/soloroute/soloroute/internal/game/mon"
)

// NewStatBlock builds a Generation One stat block. Stat-experience blocks
// are hard capped per stat.
//
// Generation One has a single special stat; special attack carries it and
// special defense mirrors it wherever stats are computed, which keeps the
// universal six-stat shape intact.
func NewStatBlock(hp, attack, defense, specialAttack, specialDefense, speed int, isStatExp bool) mon.StatBlock {
	if isStatExp {
		return mon.StatBlock{
			HP:             capStatExp(hp),
			Attack:         capStatExp(attack),
			Defense:        capStatExp(defense),
			SpecialAttack:  capStatExp(specialAttack),
			SpecialDefense: capStatExp(specialDefense),
			Speed:          capStatExp(speed),
			IsStatExp:      true,
		}
	}
	return mon.StatBlock{
		HP:             hp,
		Attack:         attack,
		Defense:        defense,
		SpecialAttack:  specialAttack,
		SpecialDefense: specialDefense,
		Speed:          speed,
	}
}

func capStatExp(val int) int {
	if val > StatExpCap {
		return StatExpCap
	}
	return val
}

// unboostedStat is the core formula: floor(((base+dv)*2 + statExpBonus) *
// level / 100) + 5, plus level for HP. The stat-experience bonus is
// floor(ceil(sqrt(statExp)) / 4).
func unboostedStat(baseVal, level, dv, statExp int, isHP bool) int {
	temp := (baseVal + dv) * 2
	temp += int(math.Ceil(math.Sqrt(float64(statExp)))) / 4
	temp = temp * level / 100
	if isHP {
		return temp + level + 5
	}
	return temp + 5
}

// modifyByStage scales a raw stat by the stage multiplier table.
func modifyByStage(rawStat, stage int) int {
	if stage == 0 {
		return rawStat
	}
	m := stageMultipliers[baseStageIndex+stage]
	return rawStat * m[0] / m[1]
}

// badgeBoost applies the x1.125 badge boost numTimes times, truncating after
// each multiplication.
func badgeBoost(statVal, numTimes int) int {
	if numTimes < 1 {
		return 0
	}
	for i := 0; i < numTimes; i++ {
		statVal = statVal * 9 / 8
	}
	return statVal
}

// levelStat is the out-of-battle stat: unboosted, then a single badge boost
// if held.
func levelStat(baseVal, level, dv, statExp int, isHP, badgeBoosted bool) int {
	result := unboostedStat(baseVal, level, dv, statExp, isHP)
	if badgeBoosted {
		return badgeBoost(result, 1)
	}
	return result
}

// battleStat is the in-battle stat: unboosted, staged, then badge boosted
// once plus once per accumulated extra boost.
//
// Stage first, then badge boosts. Boost counters reset on stage changes, so
// any extra boosts present were earned after the stage took effect.
func battleStat(baseVal, level, dv, statExp, stage int, badgeBoosted bool, extraBoosts int) int {
	result := unboostedStat(baseVal, level, dv, statExp, false)
	result = modifyByStage(result, stage)
	if badgeBoosted {
		return badgeBoost(result, 1+extraBoosts)
	}
	return result
}

// LevelStats computes the stat block a mon shows on the stat screen.
// Special defense mirrors special attack.
func LevelStats(base mon.StatBlock, level int, dvs, statExp mon.StatBlock, badges mon.BadgeList) mon.StatBlock {
	special := levelStat(base.SpecialAttack, level, dvs.SpecialAttack, statExp.SpecialAttack, false, badges != nil && badges.SpecialAttackBoosted())
	return mon.StatBlock{
		HP:             levelStat(base.HP, level, dvs.HP, statExp.HP, true, false),
		Attack:         levelStat(base.Attack, level, dvs.Attack, statExp.Attack, false, badges != nil && badges.AttackBoosted()),
		Defense:        levelStat(base.Defense, level, dvs.Defense, statExp.Defense, false, badges != nil && badges.DefenseBoosted()),
		SpecialAttack:  special,
		SpecialDefense: special,
		Speed:          levelStat(base.Speed, level, dvs.Speed, statExp.Speed, false, badges != nil && badges.SpeedBoosted()),
	}
}

// BattleStats computes the effective in-battle stat block. On a crit the
// game ignores stages and badge boosts entirely (accuracy and evasion stages
// are irrelevant here and pass through).
func BattleStats(base mon.StatBlock, level int, dvs, statExp mon.StatBlock, stages mon.StageModifiers, badges mon.BadgeList, isCrit bool) mon.StatBlock {
	if isCrit {
		badges = nil
		stages = mon.NewStageModifiers(0, 0, 0, 0, 0, stages.AccuracyStage, stages.EvasionStage)
	}

	result := mon.StatBlock{
		HP: unboostedStat(base.HP, level, dvs.HP, statExp.HP, true),
	}
	result.Attack = battleStat(base.Attack, level, dvs.Attack, statExp.Attack,
		stages.AttackStage, badges != nil && badges.AttackBoosted(), stages.AttackBadgeBoosts)
	result.Defense = battleStat(base.Defense, level, dvs.Defense, statExp.Defense,
		stages.DefenseStage, badges != nil && badges.DefenseBoosted(), stages.DefenseBadgeBoosts)
	result.Speed = battleStat(base.Speed, level, dvs.Speed, statExp.Speed,
		stages.SpeedStage, badges != nil && badges.SpeedBoosted(), stages.SpeedBadgeBoosts)
	result.SpecialAttack = battleStat(base.SpecialAttack, level, dvs.SpecialAttack, statExp.SpecialAttack,
		stages.SpecialAttackStage, badges != nil && badges.SpecialAttackBoosted(), stages.SpecialBadgeBoosts)
	result.SpecialDefense = result.SpecialAttack
	return result
}
