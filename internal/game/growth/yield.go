package growth

// ExpYield returns the experience awarded for defeating a mon.
// Assumes the receiving mon is not traded. expSplit divides the award when
// multiple party members shared the fight; trainer battles pay 1.5x, floored
// after the split.
func ExpYield(baseYield, level int, trainerBattle bool, expSplit int) int {
	result := baseYield * level / 7
	result /= expSplit
	if trainerBattle {
		result = result * 3 / 2
	}
	return result
}
