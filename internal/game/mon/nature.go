package mon

import "fmt"

// Nature is a mon's personality value. Natures only affect stats from
// Generation Three onward; the Generation One rules carry the value but
// ignore it, which keeps the universal types identical across generations.
type Nature int

// The 25 natures, in game order.
const (
	NatureHardy Nature = iota
	NatureLonely
	NatureBrave
	NatureAdamant
	NatureNaughty
	NatureBold
	NatureDocile
	NatureRelaxed
	NatureImpish
	NatureLax
	NatureTimid
	NatureHasty
	NatureSerious
	NatureJolly
	NatureNaive
	NatureModest
	NatureMild
	NatureQuiet
	NatureBashful
	NatureRash
	NatureCalm
	NatureGentle
	NatureSassy
	NatureCareful
	NatureQuirky
)

var natureNames = [...]string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

// String returns the display name; out-of-range values render as Hardy.
func (n Nature) String() string {
	if n < 0 || int(n) >= len(natureNames) {
		return natureNames[NatureHardy]
	}
	return natureNames[n]
}

// ParseNature resolves a display name, case-insensitively.
func ParseNature(name string) (Nature, error) {
	for i, candidate := range natureNames {
		if SanitizeName(candidate) == SanitizeName(name) {
			return Nature(i), nil
		}
	}
	return NatureHardy, fmt.Errorf("unknown nature %q", name)
}

// NatureNames lists every nature display name in game order.
func NatureNames() []string {
	return append([]string(nil), natureNames[:]...)
}

var neutralNatures = map[Nature]bool{
	NatureHardy:   true,
	NatureDocile:  true,
	NatureSerious: true,
	NatureBashful: true,
	NatureQuirky:  true,
}

// Raises reports whether the nature boosts the named stat.
func (n Nature) Raises(statName string) bool {
	if neutralNatures[n] {
		return false
	}
	switch {
	case n <= NatureNaughty:
		return statName == StatAttack
	case n <= NatureLax:
		return statName == StatDefense
	case n <= NatureNaive:
		return statName == StatSpeed
	case n <= NatureRash:
		return statName == StatSpecialAttack
	case n <= NatureCareful:
		return statName == StatSpecialDefense
	}
	return false
}

// Lowers reports whether the nature hinders the named stat.
func (n Nature) Lowers(statName string) bool {
	switch n {
	case NatureLonely, NatureHasty, NatureMild, NatureGentle:
		return statName == StatDefense
	case NatureBrave, NatureRelaxed, NatureQuiet, NatureSassy:
		return statName == StatSpeed
	case NatureAdamant, NatureImpish, NatureJolly, NatureCareful:
		return statName == StatSpecialAttack
	case NatureNaughty, NatureLax, NatureNaive, NatureRash:
		return statName == StatSpecialDefense
	case NatureBold, NatureTimid, NatureModest, NatureCalm:
		return statName == StatAttack
	}
	return false
}
