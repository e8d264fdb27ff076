package damage

import (
	"math"
	"math/big"
)

// DefaultPercentCutoff is the minimum kill percentage worth reporting.
const DefaultPercentCutoff = 0.1

// searchSizeLimit bounds the roll-histogram size the search will chew
// through without being forced. Psywave-style uniform distributions blow far
// past this and take much longer to fold.
const searchSizeLimit = 200

// KillChance is the probability (as a percentage) of a kill in exactly
// NumAttacks attacks. A Probability of -1 marks the guaranteed-kill fallback
// entry appended when no near-certain kill was found within the search depth.
type KillChance struct {
	NumAttacks  int
	Probability float64
}

// FindKillChances searches for the per-attack-count probability of reducing
// targetHP to zero, mixing crit and non-crit rolls and imperfect accuracy.
// critChance and accuracy are fractions in [0, 1]; results are percentages.
//
// The search covers attack counts 1..attackDepth and stops early once a kill
// is near certain (> 99%). It is skipped entirely, unless forceFullSearch is
// set, when the distribution is too large or when even attackDepth perfect
// hits cannot guarantee a kill. If the best chance found is below both 99%
// and the rounded accuracy ceiling, a final sentinel entry with
// Probability -1 reports the guaranteed kill count assuming minimum rolls.
//
// Precondition: dist and critDist are non-nil and have the same Size.
func FindKillChances(
	dist *Distribution,
	critDist *Distribution,
	critChance float64,
	accuracy float64,
	targetHP int,
	attackDepth int,
	forceFullSearch bool,
	percentCutoff float64,
) []KillChance {
	var result []KillChance

	minPossible := dist.Min()
	if critDist.Min() < minPossible {
		minPossible = critDist.Min()
	}
	maxPossible := dist.Max()
	if critDist.Max() > maxPossible {
		maxPossible = critDist.Max()
	}

	highestFound := 0.0
	memo := make(map[searchKey]float64)
	hitsToKill := make(map[int]float64)

	if forceFullSearch || (dist.Size() <= searchSizeLimit && minPossible*attackDepth > targetHP) {
		for numAttacks := 1; numAttacks <= attackDepth; numAttacks++ {
			if maxPossible*numAttacks < targetHP {
				continue
			}

			// A kill is possible but not guaranteed. Find the exact kill
			// percent assuming every swing connects, mixed over how many of
			// them crit.
			allHitsKillPct := 0.0
			for numCrits := 0; numCrits <= numAttacks; numCrits++ {
				swingProbability := binomial(numAttacks, numCrits) *
					math.Pow(critChance, float64(numCrits)) *
					math.Pow(1-critChance, float64(numAttacks-numCrits))

				killPercent := percentRollsKill(numAttacks-numCrits, dist, numCrits, critDist, targetHP, memo)
				allHitsKillPct += killPercent * swingProbability
			}
			hitsToKill[numAttacks] = allHitsKillPct

			// Convolve over how many of the swings actually connect.
			totalKillPct := 0.0
			for numHits := 1; numHits <= numAttacks; numHits++ {
				totalKillPct += hitsToKill[numHits] *
					binomial(numAttacks, numHits) *
					math.Pow(accuracy, float64(numHits)) *
					math.Pow(1-accuracy, float64(numAttacks-numHits))
			}

			if totalKillPct > highestFound {
				highestFound = totalKillPct
			}
			if totalKillPct > percentCutoff {
				result = append(result, KillChance{NumAttacks: numAttacks, Probability: totalKillPct})
			}
			if totalKillPct > 99 {
				break
			}
		}
	}

	if highestFound < 99 && highestFound < math.Round(accuracy*100) {
		guaranteed := int(math.Ceil(float64(targetHP) / float64(dist.Min())))
		result = append(result, KillChance{NumAttacks: guaranteed, Probability: -1})
	}
	return result
}

// searchKey identifies a node of the kill search by value, so equivalent
// states reached along different roll orders share one computation.
type searchKey struct {
	numNonCrits int
	numCrits    int
	multiplier  int
	totalDamage int
}

// percentRollsKill returns the percentage of all roll combinations, using
// numNonCrits draws from dist and numCrits draws from critDist, whose total
// reaches targetHP.
func percentRollsKill(
	numNonCrits int,
	dist *Distribution,
	numCrits int,
	critDist *Distribution,
	targetHP int,
	memo map[searchKey]float64,
) float64 {
	killRolls := countKillRolls(numNonCrits, dist, numCrits, critDist, targetHP, 1, 0, memo)
	return 100.0 * killRolls / math.Pow(float64(dist.Size()), float64(numNonCrits+numCrits))
}

// countKillRolls walks the remaining attacks depth first, consuming crit
// rolls before non-crit rolls, and counts the weighted roll combinations
// that reach targetHP. Counts are float64 because they overflow int64 well
// within the supported attack depth.
func countKillRolls(
	numNonCrits int,
	dist *Distribution,
	numCrits int,
	critDist *Distribution,
	targetHP int,
	rollMultiplier int,
	totalDamage int,
	memo map[searchKey]float64,
) float64 {
	key := searchKey{numNonCrits, numCrits, rollMultiplier, totalDamage}
	if cached, ok := memo[key]; ok {
		return cached
	}

	minDamageLeft := numNonCrits*dist.Min() + numCrits*critDist.Min()
	maxDamageLeft := numNonCrits*dist.Max() + numCrits*critDist.Max()

	switch {
	case totalDamage+minDamageLeft >= targetHP:
		// Kill is guaranteed; every remaining roll combination counts.
		// dist.Size is used as the base so same-size crit distributions
		// (the constructor contract) weight correctly.
		result := float64(rollMultiplier) * math.Pow(float64(dist.Size()), float64(numCrits+numNonCrits))
		memo[key] = result
		return result
	case numCrits == 0 && numNonCrits == 0:
		// Out of attacks without a kill.
		memo[key] = 0
		return 0
	case totalDamage+maxDamageLeft < targetHP:
		// Kill is impossible even with max rolls.
		memo[key] = 0
		return 0
	}

	next := dist
	nextNonCrits, nextCrits := numNonCrits, numCrits
	if numCrits > 0 {
		next = critDist
		nextCrits--
	} else {
		nextNonCrits--
	}

	result := 0.0
	for dmg, count := range next.rolls {
		result += countKillRolls(nextNonCrits, dist, nextCrits, critDist, targetHP, count, totalDamage+dmg, memo)
	}
	result *= float64(rollMultiplier)
	memo[key] = result
	return result
}

// binomial returns C(n, k) exactly, reduced to float64.
func binomial(n, k int) float64 {
	var b big.Int
	b.Binomial(int64(n), int64(k))
	f, _ := new(big.Float).SetInt(&b).Float64()
	return f
}
