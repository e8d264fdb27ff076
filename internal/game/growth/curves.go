// Package growth implements the experience curves, level thresholds, and
// experience yields shared by every generation.
package growth

import "fmt"

// Growth rate names as they appear in species data files.
const (
	RateFast        = "growth_fast"
	RateMediumFast  = "growth_medium_fast"
	RateMediumSlow  = "growth_medium_slow"
	RateSlow        = "growth_slow"
	RateErratic     = "growth_erratic"
	RateFluctuating = "growth_fluctuating"
)

// AllRates lists every supported growth rate.
var AllRates = []string{
	RateFast, RateMediumFast, RateMediumSlow, RateSlow, RateErratic, RateFluctuating,
}

// ExpNeededForLevel returns the total experience required to reach
// targetLevel on the given growth rate. Floor placement follows the games'
// integer math exactly, including the erratic curve's inner floor.
//
// Precondition: growthRate is one of the Rate constants.
func ExpNeededForLevel(targetLevel int, growthRate string) (int, error) {
	l := targetLevel
	cube := l * l * l
	switch growthRate {
	case RateFast:
		return 4 * cube / 5, nil
	case RateMediumFast:
		return cube, nil
	case RateMediumSlow:
		return (6*cube)/5 - 15*l*l + 100*l - 140, nil
	case RateSlow:
		return 5 * cube / 4, nil
	case RateErratic:
		switch {
		case l < 50:
			return cube * (100 - l) / 50, nil
		case l < 68:
			return cube * (150 - l) / 100, nil
		case l < 98:
			return cube * ((1911 - 10*l) / 3) / 500, nil
		default:
			return cube * (160 - l) / 100, nil
		}
	case RateFluctuating:
		switch {
		case l < 15:
			return cube * ((l+1)/3 + 24) / 50, nil
		case l < 36:
			return cube * (l + 14) / 50, nil
		default:
			return cube * (l/2 + 32) / 50, nil
		}
	}
	return 0, fmt.Errorf("unknown growth rate: %s", growthRate)
}
