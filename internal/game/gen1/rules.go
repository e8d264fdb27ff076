package gen1

import (
	"fmt"

	"github.com/soloroute/soloroute/internal/game/damage"
	"github.com/soloroute/soloroute/internal/game/data"
	"github.com/soloroute/soloroute/internal/game/gen"
	"github.com/soloroute/soloroute/internal/game/growth"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// Rules is the Generation One implementation of gen.Rules, built over a
// loaded data.Provider and a VersionConfig.
type Rules struct {
	provider *data.Provider
	cfg      VersionConfig
	curves   *growth.CurveSet

	badgeRewards map[string]string
	majorFights  map[string]bool
	fightRewards map[string]string
	trainers     map[string]mon.Trainer
}

var _ gen.Rules = (*Rules)(nil)

// NewRules builds the rule set, realizing every trainer party spec into
// concrete EnemyMons up front so later lookups cannot fail.
func NewRules(provider *data.Provider, cfg VersionConfig, curves *growth.CurveSet) (*Rules, error) {
	r := &Rules{
		provider:     provider,
		cfg:          cfg,
		curves:       curves,
		badgeRewards: make(map[string]string, len(cfg.BadgeRewards)),
		majorFights:  make(map[string]bool, len(cfg.MajorFights)),
		fightRewards: make(map[string]string, len(cfg.FightRewards)),
		trainers:     make(map[string]mon.Trainer),
	}
	for trainer, badge := range cfg.BadgeRewards {
		r.badgeRewards[mon.SanitizeName(trainer)] = badge
	}
	for _, trainer := range cfg.MajorFights {
		r.majorFights[mon.SanitizeName(trainer)] = true
	}
	for trainer, item := range cfg.FightRewards {
		r.fightRewards[mon.SanitizeName(trainer)] = item
	}

	for _, name := range provider.Trainers.AllNames() {
		rec, err := provider.Trainers.Trainer(name)
		if err != nil {
			return nil, err
		}
		mons := make([]mon.EnemyMon, len(rec.Mons))
		for i, slot := range rec.Mons {
			m, err := r.CreateTrainerMon(slot.Species, slot.Level, slot.SpecialMoves)
			if err != nil {
				return nil, fmt.Errorf("trainer %q: %w", name, err)
			}
			mons[i] = m
		}
		r.trainers[mon.SanitizeName(name)] = mon.Trainer{
			TrainerClass: rec.Class,
			Name:         rec.Name,
			Location:     rec.Location,
			Money:        rec.Money,
			Mons:         mons,
			Rematch:      rec.Rematch,
			TrainerID:    rec.TrainerID,
			Refightable:  rec.Refightable,
			DoubleBattle: rec.DoubleBattle,
		}
	}
	return r, nil
}

func (r *Rules) VersionName() string     { return r.cfg.VersionName }
func (r *Rules) BaseVersionName() string { return r.cfg.BaseVersionName }
func (r *Rules) Generation() int         { return 1 }

func (r *Rules) Species(name string) (mon.PokemonSpecies, error) {
	return r.provider.Species.Species(name)
}

func (r *Rules) AllSpeciesNames(growthRate string) []string {
	return r.provider.Species.AllNames(growthRate)
}

func (r *Rules) Move(name string) (mon.Move, error) {
	return r.provider.Moves.Move(name)
}

func (r *Rules) Item(name string) (mon.Item, error) {
	return r.provider.Items.Item(name)
}

func (r *Rules) Trainer(name string) (mon.Trainer, error) {
	t, ok := r.trainers[mon.SanitizeName(name)]
	if !ok {
		return mon.Trainer{}, fmt.Errorf("trainer %q: %w", name, data.ErrNotFound)
	}
	return t, nil
}

// movesKnownAtLevel walks the learnset in order, keeping the last four moves
// learned by the target level, then overlays any special moves slot by slot.
func movesKnownAtLevel(learnset []mon.LevelupMove, targetLevel int, specialMoves []string) []string {
	var result []string
	for _, lm := range learnset {
		if containsMove(result, lm.Move) {
			continue
		}
		if targetLevel < lm.Level {
			break
		}
		result = append(result, lm.Move)
	}
	if len(result) > 4 {
		result = result[len(result)-4:]
	}
	if len(specialMoves) == 0 {
		return result
	}

	for len(result) < 4 {
		result = append(result, "")
	}
	for i, special := range specialMoves {
		if special != "" {
			result[i] = special
		}
	}
	for i := len(specialMoves) - 1; i >= 0; i-- {
		if result[i] == "" {
			result = append(result[:i], result[i+1:]...)
		}
	}
	return result
}

func containsMove(moves []string, name string) bool {
	for _, m := range moves {
		if m == name {
			return true
		}
	}
	return false
}

// CreateTrainerMon realizes one trainer party slot: fixed 9/8 DVs, no stat
// experience, no badge boosts.
func (r *Rules) CreateTrainerMon(species string, level int, specialMoves []string) (mon.EnemyMon, error) {
	spec, err := r.provider.Species.Species(species)
	if err != nil {
		return mon.EnemyMon{}, err
	}
	return mon.EnemyMon{
		Species:         spec.Name,
		Level:           level,
		Exp:             growth.ExpYield(spec.BaseExp, level, true, 1),
		MoveList:        movesKnownAtLevel(spec.LevelupMoves, level, specialMoves),
		CurStats:        LevelStats(spec.Stats, level, trainerDVs, NewStatBlock(0, 0, 0, 0, 0, 0, true), nil),
		BaseStats:       spec.Stats,
		DVs:             trainerDVs,
		StatExp:         NewStatBlock(0, 0, 0, 0, 0, 0, true),
		IsTrainerMon:    true,
		ExpSplit:        1,
		MonOrder:        1,
		DefinitionOrder: 1,
	}, nil
}

// CreateWildMon realizes a wild encounter, modeled with perfect DVs.
func (r *Rules) CreateWildMon(species string, level int) (mon.EnemyMon, error) {
	spec, err := r.provider.Species.Species(species)
	if err != nil {
		return mon.EnemyMon{}, err
	}
	return mon.EnemyMon{
		Species:         spec.Name,
		Level:           level,
		Exp:             growth.ExpYield(spec.BaseExp, level, false, 1),
		MoveList:        movesKnownAtLevel(spec.LevelupMoves, level, nil),
		CurStats:        LevelStats(spec.Stats, level, wildDVs, NewStatBlock(0, 0, 0, 0, 0, 0, true), nil),
		BaseStats:       spec.Stats,
		DVs:             wildDVs,
		StatExp:         NewStatBlock(0, 0, 0, 0, 0, 0, true),
		ExpSplit:        1,
		MonOrder:        1,
		DefinitionOrder: 1,
	}, nil
}

// CalculateDamage implements the Generation One pipeline. Weather and double
// battles do not exist in this generation and are ignored.
func (r *Rules) CalculateDamage(
	attacker mon.EnemyMon,
	move mon.Move,
	defender mon.EnemyMon,
	attackerStages, defenderStages mon.StageModifiers,
	attackerField, defenderField mon.FieldState,
	customMoveData string,
	weather string,
	doubleBattle bool,
	isCrit bool,
) (*damage.Distribution, error) {
	attackingSpecies, err := r.provider.Species.Species(attacker.Species)
	if err != nil {
		return nil, err
	}
	defendingSpecies, err := r.provider.Species.Species(defender.Species)
	if err != nil {
		return nil, err
	}
	return CalculateDamage(
		attacker, attackingSpecies, move,
		defender, defendingSpecies,
		r.provider.SpecialTypes, r.provider.TypeChart,
		attackerStages, defenderStages,
		customMoveData, isCrit,
		defenderField.LightScreen, defenderField.Reflect,
	)
}

func (r *Rules) CritRate(attacker mon.EnemyMon, move mon.Move, customMoveData string) float64 {
	return CritRate(attacker, move)
}

// MoveAccuracy converts the move's listed accuracy to a fraction. Weather
// and the defender do not affect accuracy in this generation.
func (r *Rules) MoveAccuracy(attacker mon.EnemyMon, move mon.Move, customMoveData string, defender mon.EnemyMon, weather string) float64 {
	return float64(move.Accuracy) / 100
}

func (r *Rules) MakeStatBlock(hp, attack, defense, specialAttack, specialDefense, speed int, isStatExp bool) mon.StatBlock {
	return NewStatBlock(hp, attack, defense, specialAttack, specialDefense, speed, isStatExp)
}

func (r *Rules) MakeBadgeList() mon.BadgeList {
	return NewBadgeList(r.badgeRewards)
}

// LevelStats ignores nature and held item; neither exists in this generation.
func (r *Rules) LevelStats(base mon.StatBlock, level int, dvs, statExp mon.StatBlock, badges mon.BadgeList, nature mon.Nature, heldItem string) mon.StatBlock {
	return LevelStats(base, level, dvs, statExp, badges)
}

func (r *Rules) BattleStats(base mon.StatBlock, level int, dvs, statExp mon.StatBlock, stages mon.StageModifiers, badges mon.BadgeList, nature mon.Nature, heldItem string, isCrit bool) mon.StatBlock {
	return BattleStats(base, level, dvs, statExp, stages, badges, isCrit)
}

func (r *Rules) StatModifierMoves() []string {
	return r.provider.StatModifierMoveNames()
}

func (r *Rules) StatModifiers(moveName string) []mon.StatMod {
	return r.provider.StatModifiers(moveName)
}

// MoveCustomData lists the selectable per-battle options for a move: hit
// counts for multi-hit moves, nothing for everything else.
func (r *Rules) MoveCustomData(moveName string) []string {
	move, err := r.provider.Moves.Move(moveName)
	if err != nil {
		return nil
	}
	if move.Effect == mon.FlavorMultiHit {
		return append([]string(nil), MultiHitOptions...)
	}
	return nil
}

func (r *Rules) FightReward(trainerName string) string {
	return r.fightRewards[mon.SanitizeName(trainerName)]
}

func (r *Rules) IsMajorFight(trainerName string) bool {
	return r.majorFights[mon.SanitizeName(trainerName)]
}

// ValidWeather returns the only weather this generation knows.
func (r *Rules) ValidWeather() []string {
	return []string{"None"}
}

func (r *Rules) ValidVitamins() []string {
	return append([]string(nil), validVitamins...)
}

func (r *Rules) VitaminAmount() int { return VitaminAmount }
func (r *Rules) VitaminCap() int    { return VitaminCap }

func (r *Rules) StatsBoostedByVitamin(vitamin string) []string {
	for name, stats := range vitaminStats {
		if mon.SanitizeName(name) == mon.SanitizeName(vitamin) {
			return append([]string(nil), stats...)
		}
	}
	return nil
}

// StatExpYield returns the stat experience earned for defeating one mon of
// the species, split across participants. Held items do not matter in this
// generation.
func (r *Rules) StatExpYield(speciesName string, expSplit int, heldItem string) (mon.StatBlock, error) {
	spec, err := r.provider.Species.Species(speciesName)
	if err != nil {
		return mon.StatBlock{}, err
	}
	yield := spec.StatExpYield
	return NewStatBlock(
		yield.HP/expSplit,
		yield.Attack/expSplit,
		yield.Defense/expSplit,
		yield.SpecialAttack/expSplit,
		yield.SpecialDefense/expSplit,
		yield.Speed/expSplit,
		true,
	), nil
}

func (r *Rules) TrainerTiming() mon.TrainerTiming {
	return r.cfg.TrainerTiming.Timing()
}

func (r *Rules) Curves() *growth.CurveSet { return r.curves }

func (r *Rules) StartingMoney() int { return StartingMoney }
func (r *Rules) BagLimit() int      { return BagLimit }
