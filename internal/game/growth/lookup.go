package growth

import "fmt"

// LevelLookup precomputes the 100 per-level experience thresholds for one
// growth rate so level-for-exp queries are a scan, not a curve evaluation.
type LevelLookup struct {
	growthRate string
	thresholds [100]int
}

// NewLevelLookup builds the threshold table for a growth rate.
func NewLevelLookup(growthRate string) (*LevelLookup, error) {
	lookup := &LevelLookup{growthRate: growthRate}
	for i := 0; i < 100; i++ {
		exp, err := ExpNeededForLevel(i+1, growthRate)
		if err != nil {
			return nil, err
		}
		lookup.thresholds[i] = exp
	}
	return lookup, nil
}

// GrowthRate returns the rate this table was built for.
func (l *LevelLookup) GrowthRate() string { return l.growthRate }

// ExpForLevel returns the total experience required to reach targetLevel.
//
// Precondition: 1 <= targetLevel <= 100.
func (l *LevelLookup) ExpForLevel(targetLevel int) (int, error) {
	if targetLevel <= 0 || targetLevel > 100 {
		return 0, fmt.Errorf("cannot get exp needed for invalid level %d", targetLevel)
	}
	return l.thresholds[targetLevel-1], nil
}

// LevelForExp returns the level a mon with curExp total experience has
// reached, and the experience still needed for the next level. At level 100
// the remainder is 0.
func (l *LevelLookup) LevelForExp(curExp int) (level, expToNextLevel int) {
	for i, reqExp := range l.thresholds {
		if curExp < reqExp {
			// thresholds are 0-indexed, levels are 1-indexed, so stopping
			// short of threshold i means the mon is exactly level i.
			return i, reqExp - curExp
		}
	}
	return 100, 0
}

// CurveSet bundles one LevelLookup per growth rate. Built once at startup
// and passed to whatever needs level math.
type CurveSet struct {
	lookups map[string]*LevelLookup
}

// NewCurveSet precomputes lookups for every supported growth rate.
func NewCurveSet() *CurveSet {
	set := &CurveSet{lookups: make(map[string]*LevelLookup, len(AllRates))}
	for _, rate := range AllRates {
		lookup, err := NewLevelLookup(rate)
		if err != nil {
			// AllRates only holds known rates.
			panic(err)
		}
		set.lookups[rate] = lookup
	}
	return set
}

// Lookup returns the table for a growth rate.
func (c *CurveSet) Lookup(growthRate string) (*LevelLookup, error) {
	lookup, ok := c.lookups[growthRate]
	if !ok {
		return nil, fmt.Errorf("unknown growth rate: %s", growthRate)
	}
	return lookup, nil
}
