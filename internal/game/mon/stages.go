package mon

// StatMod is a single stage change applied by a stat-modifying move,
// e.g. {StatAttack, +2} for Swords Dance.
type StatMod struct {
	Stat   string
	Change int
}

// StageModifiers holds the in-battle stage levels for the five combat stats
// plus accuracy and evasion, together with the per-stat badge-boost counters
// that Generation One accumulates between stage changes.
//
// The badge-boost counters track "theoretical" boosts only; whether a boost
// actually applies depends on the badges held, which this type does not know
// about. All mutations return a new value.
type StageModifiers struct {
	AttackStage         int
	DefenseStage        int
	SpeedStage          int
	SpecialAttackStage  int
	SpecialDefenseStage int
	AccuracyStage       int
	EvasionStage        int

	AttackBadgeBoosts  int
	DefenseBadgeBoosts int
	SpeedBadgeBoosts   int
	SpecialBadgeBoosts int
}

// NewStageModifiers builds a StageModifiers with each stage clamped to [-6, 6]
// and all badge-boost counters at zero.
func NewStageModifiers(attack, defense, speed, specialAttack, specialDefense, accuracy, evasion int) StageModifiers {
	return StageModifiers{
		AttackStage:         ClampStage(attack),
		DefenseStage:        ClampStage(defense),
		SpeedStage:          ClampStage(speed),
		SpecialAttackStage:  ClampStage(specialAttack),
		SpecialDefenseStage: ClampStage(specialDefense),
		AccuracyStage:       ClampStage(accuracy),
		EvasionStage:        ClampStage(evasion),
	}
}

// ClampStage clamps a stage value to the valid [-6, 6] range.
func ClampStage(val int) int {
	if val < -6 {
		return -6
	}
	if val > 6 {
		return 6
	}
	return val
}

// ClearBadgeBoosts returns a copy with all badge-boost counters zeroed.
// Stage values are preserved.
func (s StageModifiers) ClearBadgeBoosts() StageModifiers {
	result := s
	result.AttackBadgeBoosts = 0
	result.DefenseBadgeBoosts = 0
	result.SpeedBadgeBoosts = 0
	result.SpecialBadgeBoosts = 0
	return result
}

// ApplyStatMods returns the modifiers after an external stat-modifying move.
// Every badge-boost counter is incremented by one, then the counter for any
// stat whose stage actually moved is reset to zero. Accuracy and evasion
// stages never touch the counters.
//
// Postcondition: all stage values in the result are within [-6, 6]; s is unchanged.
func (s StageModifiers) ApplyStatMods(mods []StatMod) StageModifiers {
	if len(mods) == 0 {
		return s
	}

	result := s
	result.AttackBadgeBoosts++
	result.DefenseBadgeBoosts++
	result.SpeedBadgeBoosts++
	result.SpecialBadgeBoosts++

	for _, m := range mods {
		switch m.Stat {
		case StatAttack:
			result.AttackStage = ClampStage(result.AttackStage + m.Change)
			if result.AttackStage != s.AttackStage {
				result.AttackBadgeBoosts = 0
			}
		case StatDefense:
			result.DefenseStage = ClampStage(result.DefenseStage + m.Change)
			if result.DefenseStage != s.DefenseStage {
				result.DefenseBadgeBoosts = 0
			}
		case StatSpeed:
			result.SpeedStage = ClampStage(result.SpeedStage + m.Change)
			if result.SpeedStage != s.SpeedStage {
				result.SpeedBadgeBoosts = 0
			}
		case StatSpecialAttack:
			result.SpecialAttackStage = ClampStage(result.SpecialAttackStage + m.Change)
			if result.SpecialAttackStage != s.SpecialAttackStage {
				result.SpecialBadgeBoosts = 0
			}
		case StatSpecialDefense:
			result.SpecialDefenseStage = ClampStage(result.SpecialDefenseStage + m.Change)
			if result.SpecialDefenseStage != s.SpecialDefenseStage {
				result.SpecialBadgeBoosts = 0
			}
		case StatAccuracy:
			result.AccuracyStage = ClampStage(result.AccuracyStage + m.Change)
		case StatEvasion:
			result.EvasionStage = ClampStage(result.EvasionStage + m.Change)
		}
	}

	return result
}
