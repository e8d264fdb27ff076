// Package mon provides the universal, generation-agnostic value types for the
// solo-run route engine: stat blocks, stage modifiers, natures, badge lists,
// and the read-only reference records (species, moves, trainers, items).
package mon

import "fmt"

// Canonical stat names, used in data files, vitamin tables, and stat-modifier
// move definitions.
const (
	StatHP             = "hp"
	StatAttack         = "attack"
	StatDefense        = "defense"
	StatSpeed          = "speed"
	StatSpecialAttack  = "special_attack"
	StatSpecialDefense = "special_defense"
	StatAccuracy       = "accuracy"
	StatEvasion        = "evasion"
)

// StatBlock is an immutable block of the six core stats. A block either
// represents realized stats or accumulated stat experience, flagged by
// IsStatExp; generation rules may cap stat-experience blocks on construction.
type StatBlock struct {
	HP             int
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
	IsStatExp      bool
}

// Add returns the component-wise sum of b and other.
//
// Postcondition: the result carries b's IsStatExp flag; b and other are unchanged.
func (b StatBlock) Add(other StatBlock) StatBlock {
	return StatBlock{
		HP:             b.HP + other.HP,
		Attack:         b.Attack + other.Attack,
		Defense:        b.Defense + other.Defense,
		SpecialAttack:  b.SpecialAttack + other.SpecialAttack,
		SpecialDefense: b.SpecialDefense + other.SpecialDefense,
		Speed:          b.Speed + other.Speed,
		IsStatExp:      b.IsStatExp,
	}
}

// Subtract returns the component-wise difference of b and other.
//
// Postcondition: the result carries b's IsStatExp flag; b and other are unchanged.
func (b StatBlock) Subtract(other StatBlock) StatBlock {
	return StatBlock{
		HP:             b.HP - other.HP,
		Attack:         b.Attack - other.Attack,
		Defense:        b.Defense - other.Defense,
		SpecialAttack:  b.SpecialAttack - other.SpecialAttack,
		SpecialDefense: b.SpecialDefense - other.SpecialDefense,
		Speed:          b.Speed - other.Speed,
		IsStatExp:      b.IsStatExp,
	}
}

// Equals reports whether the six stat values match. The IsStatExp flag is
// bookkeeping, not identity, and is deliberately ignored.
func (b StatBlock) Equals(other StatBlock) bool {
	return b.HP == other.HP &&
		b.Attack == other.Attack &&
		b.Defense == other.Defense &&
		b.SpecialAttack == other.SpecialAttack &&
		b.SpecialDefense == other.SpecialDefense &&
		b.Speed == other.Speed
}

func (b StatBlock) String() string {
	return fmt.Sprintf("HP: %d, Attack: %d, Defense: %d, Special Attack: %d, Special Defense: %d, Speed: %d",
		b.HP, b.Attack, b.Defense, b.SpecialAttack, b.SpecialDefense, b.Speed)
}

// Get returns the value for a canonical stat name.
//
// Precondition: statName is one of the six core stat constants.
func (b StatBlock) Get(statName string) (int, error) {
	switch statName {
	case StatHP:
		return b.HP, nil
	case StatAttack:
		return b.Attack, nil
	case StatDefense:
		return b.Defense, nil
	case StatSpecialAttack:
		return b.SpecialAttack, nil
	case StatSpecialDefense:
		return b.SpecialDefense, nil
	case StatSpeed:
		return b.Speed, nil
	}
	return 0, fmt.Errorf("unknown stat name %q", statName)
}
