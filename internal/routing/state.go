package routing

import (
	"fmt"
	"strings"

	"github.com/soloroute/soloroute/internal/game/gen"
	"github.com/soloroute/soloroute/internal/game/growth"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// Placeholder names route files use for "nothing here".
const (
	NoItem    = "No Valid Items"
	NoPokemon = "No Valid Pokemon"
	NoneItem  = "None"
)

// RareCandyItemName is the level-up item every generation spells the same way.
const RareCandyItemName = "Rare Candy"

// AmuletCoinItemName doubles trainer payouts while held.
const AmuletCoinItemName = "Amulet Coin"

// Move sources, as recorded in route files.
const (
	MoveSourceLevelUp = "LevelUp"
	MoveSourceTutor   = "Tutor/Deleter"
	MoveSourceTMHM    = "TM/HM"
)

// RouteState is one point in the replay: the solo mon and the inventory.
// Transitions return a new state plus a recoverable error string; a failed
// precondition is retried in forced mode so the replay always continues with
// the closest-to-true state, and the violation is reported on the event.
type RouteState struct {
	Mon       SoloMon
	Inventory Inventory
}

// Equals compares mon and inventory.
func (s RouteState) Equals(other RouteState) bool {
	return s.Mon.Equals(other.Mon) && s.Inventory.Equals(other.Inventory)
}

// LearnMove applies a move learn/forget. Item-sourced learns (TMs) consume
// the item unless it is a key item (HMs).
func (s RouteState) LearnMove(rules gen.Rules, moveName string, dest int, source string) (RouteState, string) {
	errorMessage := ""
	inv := s.Inventory
	if source != MoveSourceLevelUp && source != MoveSourceTutor {
		item, err := rules.Item(source)
		if err != nil {
			errorMessage = fmt.Sprintf("could not get valid item for move %s source: %s", moveName, source)
		} else if !item.IsKeyItem {
			inv, err = s.Inventory.RemoveItem(item, 1, false, false)
			if err != nil {
				errorMessage = err.Error()
				inv, _ = s.Inventory.RemoveItem(item, 1, false, true)
			}
		}
	}

	newMon, err := learnMove(rules, s.Mon, moveName, dest)
	if err != nil {
		return s, err.Error()
	}
	return RouteState{Mon: newMon, Inventory: inv}, errorMessage
}

// Vitamin consumes one vitamin and credits its stat experience, ignoring the
// cap violation (and the missing item) in the forced retry.
func (s RouteState) Vitamin(rules gen.Rules, vitaminName string) (RouteState, string) {
	var errorMessages []string

	newMon, err := takeVitamin(rules, s.Mon, vitaminName, false)
	if err != nil {
		errorMessages = append(errorMessages, err.Error())
		newMon, err = takeVitamin(rules, s.Mon, vitaminName, true)
		if err != nil {
			return s, err.Error()
		}
	}

	inv := s.Inventory
	if item, itemErr := rules.Item(vitaminName); itemErr != nil {
		errorMessages = append(errorMessages, itemErr.Error())
	} else {
		inv, err = s.Inventory.RemoveItem(item, 1, false, false)
		if err != nil {
			errorMessages = append(errorMessages, err.Error())
			inv, _ = s.Inventory.RemoveItem(item, 1, false, true)
		}
	}

	return RouteState{Mon: newMon, Inventory: inv}, strings.Join(errorMessages, ", ")
}

// RareCandy consumes one candy and grants exactly the experience needed for
// the next level.
func (s RouteState) RareCandy(rules gen.Rules) (RouteState, string) {
	errorMessage := ""
	inv := s.Inventory
	if item, itemErr := rules.Item(RareCandyItemName); itemErr != nil {
		errorMessage = itemErr.Error()
	} else {
		var err error
		inv, err = s.Inventory.RemoveItem(item, 1, false, false)
		if err != nil {
			errorMessage = err.Error()
			inv, _ = s.Inventory.RemoveItem(item, 1, false, true)
		}
	}

	newMon, err := recompute(rules, s.Mon, monChange{gainedExp: s.Mon.ExpToNextLevel})
	if err != nil {
		return s, err.Error()
	}
	return RouteState{Mon: newMon, Inventory: inv}, errorMessage
}

// DefeatMon applies one knockout: experience and stat experience for the mon,
// and, when trainerName marks the fight's final mon, the trainer payout,
// badge, and fight reward.
func (s RouteState) DefeatMon(rules gen.Rules, enemy mon.EnemyMon, trainerName string, expSplit, payDayAmount int) (RouteState, string) {
	gainedExp := enemy.Exp
	if expSplit != 1 {
		spec, err := rules.Species(enemy.Species)
		if err != nil {
			return s, err.Error()
		}
		gainedExp = growth.ExpYield(spec.BaseExp, enemy.Level, enemy.IsTrainerMon, expSplit)
	}

	statExpGain, err := rules.StatExpYield(enemy.Species, expSplit, s.Mon.HeldItem)
	if err != nil {
		return s, err.Error()
	}

	newMon, err := recompute(rules, s.Mon, monChange{
		badges:        s.Mon.Badges.AwardBadge(trainerName),
		gainedExp:     gainedExp,
		gainedStatExp: &statExpGain,
	})
	if err != nil {
		return s, err.Error()
	}

	inv := s.Inventory
	if trainerName != "" {
		trainer, trainerErr := rules.Trainer(trainerName)
		if trainerErr == nil {
			inv = defeatTrainer(rules, inv, s.Mon, trainer, payDayAmount)
		}
	}
	return RouteState{Mon: newMon, Inventory: inv}, ""
}

// defeatTrainer credits the payout (doubled by a held Amulet Coin) plus any
// Pay Day money, and tries to bag the fixed fight reward. A full bag eats the
// reward silently, same as the games.
func defeatTrainer(rules gen.Rules, inv Inventory, solo SoloMon, trainer mon.Trainer, payDayAmount int) Inventory {
	result := inv.clone()
	rewardMoney := trainer.Money
	if solo.HeldItem == AmuletCoinItemName {
		rewardMoney *= 2
	}
	result.Money += rewardMoney + payDayAmount

	rewardName := rules.FightReward(trainer.Name)
	if rewardName == "" {
		return result
	}
	if item, err := rules.Item(rewardName); err == nil {
		if withReward, err := result.AddItem(item, 1, false, false); err == nil {
			result = withReward
		}
	}
	return result
}

// AddItem acquires items, optionally as a purchase.
func (s RouteState) AddItem(rules gen.Rules, itemName string, amount int, isPurchase bool) (RouteState, string) {
	item, err := rules.Item(itemName)
	if err != nil {
		return s, err.Error()
	}

	errorMessage := ""
	inv, err := s.Inventory.AddItem(item, amount, isPurchase, false)
	if err != nil {
		errorMessage = err.Error()
		inv, _ = s.Inventory.AddItem(item, amount, isPurchase, true)
	}
	return RouteState{Mon: s.Mon, Inventory: inv}, errorMessage
}

// RemoveItem uses, drops, or sells items.
func (s RouteState) RemoveItem(rules gen.Rules, itemName string, amount int, isSale bool) (RouteState, string) {
	item, err := rules.Item(itemName)
	if err != nil {
		return s, err.Error()
	}

	errorMessage := ""
	inv, err := s.Inventory.RemoveItem(item, amount, isSale, false)
	if err != nil {
		errorMessage = err.Error()
		inv, _ = s.Inventory.RemoveItem(item, amount, isSale, true)
	}
	return RouteState{Mon: s.Mon, Inventory: inv}, errorMessage
}

// HoldItem swaps the held item: the previous one returns to the bag (unless
// it was consumed) and the new one leaves it.
func (s RouteState) HoldItem(rules gen.Rules, itemName string, isConsumed bool) (RouteState, string) {
	var errorMessages []string
	inv := s.Inventory

	if held := s.Mon.HeldItem; held != "" && held != NoneItem && held != NoItem && !isConsumed {
		if item, err := rules.Item(held); err != nil {
			errorMessages = append(errorMessages, err.Error())
		} else if withReturned, err := inv.AddItem(item, 1, false, false); err != nil {
			errorMessages = append(errorMessages, err.Error())
			inv, _ = inv.AddItem(item, 1, false, true)
		} else {
			inv = withReturned
		}
	}

	if itemName != "" && itemName != NoneItem && itemName != NoItem {
		if item, err := rules.Item(itemName); err != nil {
			errorMessages = append(errorMessages, err.Error())
		} else if withRemoved, err := inv.RemoveItem(item, 1, false, false); err != nil {
			errorMessages = append(errorMessages, err.Error())
			inv, _ = inv.RemoveItem(item, 1, false, true)
		} else {
			inv = withRemoved
		}
	}

	newMon, err := recompute(rules, s.Mon, monChange{heldItem: &itemName})
	if err != nil {
		return s, err.Error()
	}
	return RouteState{Mon: newMon, Inventory: inv}, strings.Join(errorMessages, ", ")
}

// Blackout halves money, rounding down.
func (s RouteState) Blackout() (RouteState, string) {
	inv := s.Inventory.clone()
	inv.Money /= 2
	return RouteState{Mon: s.Mon, Inventory: inv}, ""
}

// Evolve replaces the species. Evolving across growth rates would corrupt
// the level math, so it is refused; a consumed stone leaves the bag either
// way, matching what the cartridge does when evolution is cancelled.
func (s RouteState) Evolve(rules gen.Rules, evolvedSpecies, byStone string) (RouteState, string) {
	var errorMessages []string
	newMon := s.Mon

	if evolvedSpecies != "" && evolvedSpecies != NoPokemon {
		spec, err := rules.Species(evolvedSpecies)
		if err != nil {
			errorMessages = append(errorMessages, err.Error())
		} else if spec.GrowthRate != s.Mon.Species.GrowthRate {
			errorMessages = append(errorMessages,
				fmt.Sprintf("cannot evolve into species (%s) with different growth rate: %s", spec.Name, spec.GrowthRate))
		} else {
			newMon, err = recompute(rules, s.Mon, monChange{species: &spec})
			if err != nil {
				errorMessages = append(errorMessages, err.Error())
				newMon = s.Mon
			}
		}
	}

	inv := s.Inventory
	if byStone != "" {
		if item, err := rules.Item(byStone); err != nil {
			errorMessages = append(errorMessages, err.Error())
		} else if withRemoved, err := s.Inventory.RemoveItem(item, 1, false, false); err != nil {
			errorMessages = append(errorMessages, err.Error())
			inv, _ = s.Inventory.RemoveItem(item, 1, false, true)
		} else {
			inv = withRemoved
		}
	}

	return RouteState{Mon: newMon, Inventory: inv}, strings.Join(errorMessages, ", ")
}

func learnMove(rules gen.Rules, solo SoloMon, moveName string, dest int) (SoloMon, error) {
	newList := solo.MoveList
	actualDest, _ := solo.MoveDestination(moveName, dest)
	if actualDest >= 0 && actualDest < len(solo.MoveList) {
		newList = make([]string, len(solo.MoveList))
		copy(newList, solo.MoveList)
		newList[actualDest] = moveName
	}
	return recompute(rules, solo, monChange{moveList: newList})
}

func takeVitamin(rules gen.Rules, solo SoloMon, vitaminName string, force bool) (SoloMon, error) {
	boostedStats := rules.StatsBoostedByVitamin(vitaminName)
	if len(boostedStats) == 0 {
		return SoloMon{}, fmt.Errorf("unknown vitamin: %s", vitaminName)
	}

	vitCap := rules.VitaminCap()
	boost := rules.VitaminAmount()
	finalExp := solo.UnrealizedStatExp

	for _, statName := range boostedStats {
		var current int
		var gain mon.StatBlock
		switch statName {
		case mon.StatHP:
			current = solo.UnrealizedStatExp.HP
			gain = rules.MakeStatBlock(boost, 0, 0, 0, 0, 0, true)
		case mon.StatAttack:
			current = solo.UnrealizedStatExp.Attack
			gain = rules.MakeStatBlock(0, boost, 0, 0, 0, 0, true)
		case mon.StatDefense:
			current = solo.UnrealizedStatExp.Defense
			gain = rules.MakeStatBlock(0, 0, boost, 0, 0, 0, true)
		case mon.StatSpecialAttack:
			current = solo.UnrealizedStatExp.SpecialAttack
			gain = rules.MakeStatBlock(0, 0, 0, boost, 0, 0, true)
		case mon.StatSpecialDefense:
			current = solo.UnrealizedStatExp.SpecialDefense
			gain = rules.MakeStatBlock(0, 0, 0, 0, boost, 0, true)
		case mon.StatSpeed:
			current = solo.UnrealizedStatExp.Speed
			gain = rules.MakeStatBlock(0, 0, 0, 0, 0, boost, true)
		default:
			return SoloMon{}, fmt.Errorf("unknown vitamin stat: %s", statName)
		}
		if current >= vitCap && !force {
			return SoloMon{}, fmt.Errorf("ineffective vitamin: %s (already above vitamin cap)", vitaminName)
		}
		finalExp = finalExp.Add(gain)
	}

	return recompute(rules, solo, monChange{realizedExp: &finalExp})
}
