// Package damage models attack damage as discrete roll distributions and
// searches them for kill probabilities.
package damage

import "fmt"

// Distribution is an immutable histogram of damage values to roll counts for
// some number of attacks. A nil *Distribution is the empty distribution and
// is what the partitioning helpers return for an impossible half.
type Distribution struct {
	rolls      map[int]int
	minDamage  int
	maxDamage  int
	size       int
	numAttacks int
}

// New builds a single-attack distribution from a damage-to-rolls histogram.
//
// Precondition: rolls is non-empty and every count is positive.
func New(rolls map[int]int) (*Distribution, error) {
	return newDistribution(rolls, 1)
}

func newDistribution(rolls map[int]int, numAttacks int) (*Distribution, error) {
	if len(rolls) == 0 {
		return nil, fmt.Errorf("damage distribution requires at least one roll")
	}

	d := &Distribution{
		rolls:      make(map[int]int, len(rolls)),
		minDamage:  -1,
		maxDamage:  -1,
		numAttacks: numAttacks,
	}
	for dmg, count := range rolls {
		if count <= 0 {
			return nil, fmt.Errorf("damage value %d has non-positive roll count %d", dmg, count)
		}
		d.rolls[dmg] = count
		d.size += count
		if d.minDamage == -1 || dmg < d.minDamage {
			d.minDamage = dmg
		}
		if d.maxDamage == -1 || dmg > d.maxDamage {
			d.maxDamage = dmg
		}
	}
	return d, nil
}

// Min returns the smallest possible damage value.
func (d *Distribution) Min() int { return d.minDamage }

// Max returns the largest possible damage value.
func (d *Distribution) Max() int { return d.maxDamage }

// Size returns the total number of rolls across all damage values.
func (d *Distribution) Size() int { return d.size }

// NumAttacks returns how many attacks this distribution aggregates.
func (d *Distribution) NumAttacks() int { return d.numAttacks }

// Rolls returns a copy of the damage-to-rolls histogram.
func (d *Distribution) Rolls() map[int]int {
	out := make(map[int]int, len(d.rolls))
	for dmg, count := range d.rolls {
		out[dmg] = count
	}
	return out
}

func (d *Distribution) String() string {
	return fmt.Sprintf("damage %d-%d over %d rolls (%d attacks)", d.minDamage, d.maxDamage, d.size, d.numAttacks)
}

// Combine folds another attack's distribution into this one. Each pair of
// entries contributes the SUM of the two roll counts at their summed damage
// value, not the product. That is how the original tooling accumulated
// back-to-back attacks, and every downstream kill percentage is calibrated
// against distributions built this way.
//
// Postcondition: the result's NumAttacks is the sum of the operands'; d and
// other are unchanged.
func (d *Distribution) Combine(other *Distribution) *Distribution {
	combined := make(map[int]int, len(d.rolls)*len(other.rolls))
	for myDamage, myRolls := range d.rolls {
		for otherDamage, otherRolls := range other.rolls {
			combined[myDamage+otherDamage] += myRolls + otherRolls
		}
	}
	result, _ := newDistribution(combined, d.numAttacks+other.numAttacks)
	return result
}

// PartitionKills splits the distribution at an HP threshold into the rolls
// that kill (damage >= hp) and the rolls that do not. A half with no rolls is
// returned as nil; when the whole distribution falls on one side, that side
// is the receiver itself.
func (d *Distribution) PartitionKills(hp int) (kills, nonKills *Distribution) {
	if hp > d.maxDamage {
		return nil, d
	}
	if hp <= d.minDamage {
		return d, nil
	}

	killRolls := make(map[int]int)
	nonKillRolls := make(map[int]int)
	for dmg, count := range d.rolls {
		if dmg >= hp {
			killRolls[dmg] = count
		} else {
			nonKillRolls[dmg] = count
		}
	}
	kills, _ = newDistribution(killRolls, d.numAttacks)
	nonKills, _ = newDistribution(nonKillRolls, d.numAttacks)
	return kills, nonKills
}
