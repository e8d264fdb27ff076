package routing

import (
	"encoding/json"
	"fmt"

	"github.com/soloroute/soloroute/internal/game/gen"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// JSON keys identifying each event definition kind in a route file. The key
// doubles as the discriminator: whichever of these appears in an event object
// decides its type.
const (
	EventKeyInventory    = "Inventory Event"
	EventKeyHoldItem     = "Hold Item"
	EventKeyVitamin      = "Use Vitamin"
	EventKeyRareCandy    = "Use Rare Candy"
	EventKeySave         = "Game Save"
	EventKeyHeal         = "PkmnCenter Heal"
	EventKeyBlackout     = "Blackout"
	EventKeyEvolution    = "Evolution"
	EventKeyLearnMove    = "LearnMove"
	EventKeyWildFight    = "Fight Wild Pkmn"
	EventKeyTrainerFight = "Fight Trainer"
	EventKeyFolderName   = "Event Folder Name"
)

// Display event types, used for filtering and for distinguishing the four
// inventory actions and the two move sources.
const (
	TaskNotesOnly        = "Just Notes"
	TaskGetFreeItem      = "Acquire Item"
	TaskPurchaseItem     = "Purchase Item"
	TaskUseItem          = "Use/Drop Item"
	TaskSellItem         = "Sell Item"
	TaskHoldItem         = EventKeyHoldItem
	TaskVitamin          = EventKeyVitamin
	TaskRareCandy        = EventKeyRareCandy
	TaskSave             = EventKeySave
	TaskHeal             = EventKeyHeal
	TaskBlackout         = EventKeyBlackout
	TaskEvolution        = EventKeyEvolution
	TaskLearnMoveLevelup = "Learn Levelup Move"
	TaskLearnMoveTM      = "Learn TM/HM Move"
	TaskWildFight        = EventKeyWildFight
	TaskTrainerFight     = EventKeyTrainerFight
)

// Shared route-file keys.
const (
	keyEnabled  = "Enabled"
	keyExpanded = "Expanded"
	keyTags     = "Tags"
	keyNotes    = TaskNotesOnly
	keyEvents   = "events"
)

// HighlightTag marks an event the runner wants to stand out.
const HighlightTag = "highlight"

// RecordingErrorFragment prefixes notes written by the auto recorder when it
// could not follow the game; such notes surface as event errors.
const RecordingErrorFragment = "ERROR RECORDING! "

// LevelAnyString is the serialized form of a learn move with no level
// attached (TMs, tutors).
const LevelAnyString = "AnyLevel"

// LevelAny is the in-memory form of LevelAnyString.
const LevelAny = -1

// WeatherNone is the default weather on trainer fights.
const WeatherNone = "None"

// ItemArgs parameterizes one EventItem of a battle event: which mon falls,
// how the experience is split, and whether this knockout ends the fight.
type ItemArgs struct {
	ToDefeat         mon.EnemyMon
	ExpSplit         int
	PayDayAmount     int
	DefeatingTrainer bool
}

// EventMeta is the part every event definition shares.
type EventMeta struct {
	Notes   string
	Enabled bool
	Tags    []string
}

// NewEventMeta returns an enabled meta with no tags.
func NewEventMeta(notes string) EventMeta {
	return EventMeta{Notes: notes, Enabled: true, Tags: []string{}}
}

// IsHighlighted reports whether the highlight tag is set.
func (m *EventMeta) IsHighlighted() bool {
	for _, tag := range m.Tags {
		if tag == HighlightTag {
			return true
		}
	}
	return false
}

// ToggleHighlight flips the highlight tag.
func (m *EventMeta) ToggleHighlight() {
	for i, tag := range m.Tags {
		if tag == HighlightTag {
			m.Tags = append(m.Tags[:i], m.Tags[i+1:]...)
			return
		}
	}
	m.Tags = append(m.Tags, HighlightTag)
}

// EventDefinition is the replayable payload of one route event. Definitions
// are applied once per EventItem; multi-step definitions (multiple vitamins,
// multi-mon fights) fan out through GenerateItemArgs.
type EventDefinition interface {
	// EventType is the display/filter type string.
	EventType() string
	Describe() string
	DescribeItem() string
	// GenerateItemArgs returns one entry per EventItem the definition expands
	// to; nil entries mean "apply with no args".
	GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error)
	Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string)
	IsBattle() bool
	Meta() *EventMeta

	// serialize returns the discriminator key and its payload. A nil payload
	// with the notes key marks the bare notes event.
	serialize() (key string, payload any)
}

// ExpPerSecondEstimator is implemented by definitions that can estimate an
// optimal experience rate.
type ExpPerSecondEstimator interface {
	ExpPerSecond(rules gen.Rules) (int, error)
}

// NotesEventDefinition is a no-op marker event.
type NotesEventDefinition struct {
	EventMeta
}

func NewNotesEvent(notes string) *NotesEventDefinition {
	return &NotesEventDefinition{EventMeta: NewEventMeta(notes)}
}

func (d *NotesEventDefinition) EventType() string    { return TaskNotesOnly }
func (d *NotesEventDefinition) Describe() string     { return "Notes: " + d.Notes }
func (d *NotesEventDefinition) DescribeItem() string { return d.Describe() }
func (d *NotesEventDefinition) IsBattle() bool       { return false }
func (d *NotesEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *NotesEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *NotesEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state, ""
}

func (d *NotesEventDefinition) serialize() (string, any) { return keyNotes, nil }

// InventoryEventDefinition covers the four bag actions: find, purchase,
// use/drop, and sell.
type InventoryEventDefinition struct {
	EventMeta
	ItemName  string
	Quantity  int
	IsAcquire bool
	WithMoney bool
}

func NewInventoryEvent(itemName string, quantity int, isAcquire, withMoney bool) *InventoryEventDefinition {
	return &InventoryEventDefinition{
		EventMeta: NewEventMeta(""),
		ItemName:  itemName,
		Quantity:  quantity,
		IsAcquire: isAcquire,
		WithMoney: withMoney,
	}
}

func (d *InventoryEventDefinition) EventType() string {
	switch {
	case d.IsAcquire && d.WithMoney:
		return TaskPurchaseItem
	case d.IsAcquire:
		return TaskGetFreeItem
	case d.WithMoney:
		return TaskSellItem
	}
	return TaskUseItem
}

func (d *InventoryEventDefinition) Describe() string {
	action := "Use/Drop"
	switch {
	case d.IsAcquire && d.WithMoney:
		action = "Purchase"
	case d.IsAcquire:
		action = "Find"
	case d.WithMoney:
		action = "Sell"
	}
	return fmt.Sprintf("%s %s %d", action, d.ItemName, d.Quantity)
}

func (d *InventoryEventDefinition) DescribeItem() string { return d.Describe() }
func (d *InventoryEventDefinition) IsBattle() bool       { return false }
func (d *InventoryEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *InventoryEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *InventoryEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	if d.IsAcquire {
		return state.AddItem(rules, d.ItemName, d.Quantity, d.WithMoney)
	}
	return state.RemoveItem(rules, d.ItemName, d.Quantity, d.WithMoney)
}

func (d *InventoryEventDefinition) serialize() (string, any) {
	return EventKeyInventory, []any{d.ItemName, d.Quantity, d.IsAcquire, d.WithMoney}
}

// HoldItemEventDefinition gives the solo mon an item to hold.
type HoldItemEventDefinition struct {
	EventMeta
	ItemName string
	Consumed bool
}

func NewHoldItemEvent(itemName string, consumed bool) *HoldItemEventDefinition {
	return &HoldItemEventDefinition{EventMeta: NewEventMeta(""), ItemName: itemName, Consumed: consumed}
}

func (d *HoldItemEventDefinition) EventType() string    { return TaskHoldItem }
func (d *HoldItemEventDefinition) Describe() string     { return "Hold " + d.ItemName }
func (d *HoldItemEventDefinition) DescribeItem() string { return d.Describe() }
func (d *HoldItemEventDefinition) IsBattle() bool       { return false }
func (d *HoldItemEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *HoldItemEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *HoldItemEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state.HoldItem(rules, d.ItemName, d.Consumed)
}

func (d *HoldItemEventDefinition) serialize() (string, any) {
	return EventKeyHoldItem, []any{d.ItemName, d.Consumed}
}

// VitaminEventDefinition applies vitamins one at a time: each dose becomes
// its own EventItem so a cap violation is attributed to the exact dose.
type VitaminEventDefinition struct {
	EventMeta
	Vitamin  string
	Quantity int
}

func NewVitaminEvent(vitamin string, quantity int) *VitaminEventDefinition {
	return &VitaminEventDefinition{EventMeta: NewEventMeta(""), Vitamin: vitamin, Quantity: quantity}
}

func (d *VitaminEventDefinition) EventType() string { return TaskVitamin }
func (d *VitaminEventDefinition) Describe() string {
	return fmt.Sprintf("Vitamin %s x%d", d.Vitamin, d.Quantity)
}
func (d *VitaminEventDefinition) DescribeItem() string {
	return fmt.Sprintf("Vitamin %s x1", d.Vitamin)
}
func (d *VitaminEventDefinition) IsBattle() bool   { return false }
func (d *VitaminEventDefinition) Meta() *EventMeta { return &d.EventMeta }

func (d *VitaminEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return make([]*ItemArgs, d.Quantity), nil
}

func (d *VitaminEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state.Vitamin(rules, d.Vitamin)
}

func (d *VitaminEventDefinition) serialize() (string, any) {
	return EventKeyVitamin, []any{d.Vitamin, d.Quantity}
}

// RareCandyEventDefinition levels up from candies, one per EventItem.
type RareCandyEventDefinition struct {
	EventMeta
	Quantity int
}

func NewRareCandyEvent(quantity int) *RareCandyEventDefinition {
	return &RareCandyEventDefinition{EventMeta: NewEventMeta(""), Quantity: quantity}
}

func (d *RareCandyEventDefinition) EventType() string { return TaskRareCandy }
func (d *RareCandyEventDefinition) Describe() string {
	return fmt.Sprintf("Rare Candy, x%d", d.Quantity)
}
func (d *RareCandyEventDefinition) DescribeItem() string { return "Rare Candy, x1" }
func (d *RareCandyEventDefinition) IsBattle() bool       { return false }
func (d *RareCandyEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *RareCandyEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return make([]*ItemArgs, d.Quantity), nil
}

func (d *RareCandyEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state.RareCandy(rules)
}

func (d *RareCandyEventDefinition) serialize() (string, any) {
	return EventKeyRareCandy, d.Quantity
}

// SaveEventDefinition records a game save; it does not change state.
type SaveEventDefinition struct {
	EventMeta
	Location string
}

func NewSaveEvent(location string) *SaveEventDefinition {
	return &SaveEventDefinition{EventMeta: NewEventMeta(""), Location: location}
}

func (d *SaveEventDefinition) EventType() string    { return TaskSave }
func (d *SaveEventDefinition) Describe() string     { return "Game Saved at: " + d.Location }
func (d *SaveEventDefinition) DescribeItem() string { return d.Describe() }
func (d *SaveEventDefinition) IsBattle() bool       { return false }
func (d *SaveEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *SaveEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *SaveEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state, ""
}

func (d *SaveEventDefinition) serialize() (string, any) {
	return EventKeySave, []any{d.Location}
}

// HealEventDefinition records a center heal; HP is not modeled, so it does
// not change state.
type HealEventDefinition struct {
	EventMeta
	Location string
}

func NewHealEvent(location string) *HealEventDefinition {
	return &HealEventDefinition{EventMeta: NewEventMeta(""), Location: location}
}

func (d *HealEventDefinition) EventType() string    { return TaskHeal }
func (d *HealEventDefinition) Describe() string     { return "PkmnCenter Heal at: " + d.Location }
func (d *HealEventDefinition) DescribeItem() string { return d.Describe() }
func (d *HealEventDefinition) IsBattle() bool       { return false }
func (d *HealEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *HealEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *HealEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state, ""
}

func (d *HealEventDefinition) serialize() (string, any) {
	return EventKeyHeal, []any{d.Location}
}

// BlackoutEventDefinition halves money. It serializes under its own key;
// older files that collapsed it onto the heal key load as heals, which is
// the best available reading of that ambiguity.
type BlackoutEventDefinition struct {
	EventMeta
	Location string
}

func NewBlackoutEvent(location string) *BlackoutEventDefinition {
	return &BlackoutEventDefinition{EventMeta: NewEventMeta(""), Location: location}
}

func (d *BlackoutEventDefinition) EventType() string    { return TaskBlackout }
func (d *BlackoutEventDefinition) Describe() string     { return "Black Out back to: " + d.Location }
func (d *BlackoutEventDefinition) DescribeItem() string { return d.Describe() }
func (d *BlackoutEventDefinition) IsBattle() bool       { return false }
func (d *BlackoutEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *BlackoutEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *BlackoutEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state.Blackout()
}

func (d *BlackoutEventDefinition) serialize() (string, any) {
	return EventKeyBlackout, []any{d.Location}
}

// EvolutionEventDefinition evolves the solo mon, optionally consuming a
// stone.
type EvolutionEventDefinition struct {
	EventMeta
	EvolvedSpecies string
	ByStone        string
}

func NewEvolutionEvent(evolvedSpecies, byStone string) *EvolutionEventDefinition {
	return &EvolutionEventDefinition{EventMeta: NewEventMeta(""), EvolvedSpecies: evolvedSpecies, ByStone: byStone}
}

func (d *EvolutionEventDefinition) EventType() string    { return TaskEvolution }
func (d *EvolutionEventDefinition) Describe() string     { return "Evolve into: " + d.EvolvedSpecies }
func (d *EvolutionEventDefinition) DescribeItem() string { return d.Describe() }
func (d *EvolutionEventDefinition) IsBattle() bool       { return false }
func (d *EvolutionEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *EvolutionEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *EvolutionEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	return state.Evolve(rules, d.EvolvedSpecies, d.ByStone)
}

func (d *EvolutionEventDefinition) serialize() (string, any) {
	return EventKeyEvolution, map[string]any{
		"evolved_species": d.EvolvedSpecies,
		"by_stone":        d.ByStone,
	}
}

// LearnMoveEventDefinition learns (or forgets) one move. Level-up learns
// carry the level and species they belong to so battles can inject them at
// the exact knockout that levels the mon.
type LearnMoveEventDefinition struct {
	EventMeta
	MoveToLearn string
	Destination int
	Source      string
	Level       int
	Mon         string
}

func NewLearnMoveEvent(moveToLearn string, destination int, source string, level int, monName string) *LearnMoveEventDefinition {
	return &LearnMoveEventDefinition{
		EventMeta:   NewEventMeta(""),
		MoveToLearn: moveToLearn,
		Destination: destination,
		Source:      source,
		Level:       level,
		Mon:         monName,
	}
}

func (d *LearnMoveEventDefinition) EventType() string {
	if d.Source == MoveSourceLevelUp {
		return TaskLearnMoveLevelup
	}
	return TaskLearnMoveTM
}

func (d *LearnMoveEventDefinition) Describe() string {
	switch {
	case d.Destination < 0 && d.MoveToLearn != "":
		return fmt.Sprintf("Ignoring %s, from %s (mon: %s)", d.MoveToLearn, d.Source, d.Mon)
	case d.MoveToLearn == "":
		return fmt.Sprintf("Deleting move in slot #: %d", d.Destination+1)
	}
	return fmt.Sprintf("Learning %s in slot #: %d, from %s (mon: %s)", d.MoveToLearn, d.Destination+1, d.Source, d.Mon)
}

func (d *LearnMoveEventDefinition) DescribeItem() string { return d.Describe() }
func (d *LearnMoveEventDefinition) IsBattle() bool       { return false }
func (d *LearnMoveEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

func (d *LearnMoveEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	return []*ItemArgs{nil}, nil
}

func (d *LearnMoveEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	// Record where the move actually landed so the saved route reflects the
	// replayed reality.
	d.Destination, _ = state.Mon.MoveDestination(d.MoveToLearn, d.Destination)
	return state.LearnMove(rules, d.MoveToLearn, d.Destination, d.Source)
}

// IsAnyLevel reports whether the learn is level-independent (TMs, tutors).
func (d *LearnMoveEventDefinition) IsAnyLevel() bool { return d.Level == LevelAny }

// LevelUpKey identifies a level-up learn across the route: species, level,
// and move, all sanitized.
func (d *LearnMoveEventDefinition) LevelUpKey() string {
	return fmt.Sprintf("%s|%d|%s", mon.SanitizeName(d.Mon), d.Level, mon.SanitizeName(d.MoveToLearn))
}

// Matches reports whether this learn triggers when the named mon hits the
// level.
func (d *LearnMoveEventDefinition) Matches(level int, monName string) bool {
	return level == d.Level && mon.SanitizeName(d.Mon) == mon.SanitizeName(monName)
}

func (d *LearnMoveEventDefinition) serialize() (string, any) {
	var level any = d.Level
	if d.IsAnyLevel() {
		level = LevelAnyString
	}
	return EventKeyLearnMove, map[string]any{
		"LearnMove":            d.MoveToLearn,
		"destination_slot":     d.Destination,
		"source":               d.Source,
		"level_learned":        level,
		"species_when_learned": d.Mon,
	}
}

// WildFightEventDefinition fights the same mon one or more times. With
// TrainerMon set the enemy uses trainer stats, for scripted fights.
type WildFightEventDefinition struct {
	EventMeta
	MonSpecies string
	Level      int
	Quantity   int
	TrainerMon bool
}

func NewWildFightEvent(species string, level, quantity int, trainerMon bool) *WildFightEventDefinition {
	return &WildFightEventDefinition{
		EventMeta:  NewEventMeta(""),
		MonSpecies: species,
		Level:      level,
		Quantity:   quantity,
		TrainerMon: trainerMon,
	}
}

func (d *WildFightEventDefinition) EventType() string { return TaskWildFight }

func (d *WildFightEventDefinition) Describe() string {
	monType := "WildPkmn"
	if d.TrainerMon {
		monType = "TrainerPkmn"
	}
	return fmt.Sprintf("%s %s, LV: %d, x%d", monType, d.MonSpecies, d.Level, d.Quantity)
}

func (d *WildFightEventDefinition) DescribeItem() string {
	monType := "WildPkmn"
	if d.TrainerMon {
		monType = "TrainerPkmn"
	}
	return fmt.Sprintf("%s: %s", monType, d.MonSpecies)
}

func (d *WildFightEventDefinition) IsBattle() bool   { return true }
func (d *WildFightEventDefinition) Meta() *EventMeta { return &d.EventMeta }

func (d *WildFightEventDefinition) enemy(rules gen.Rules) (mon.EnemyMon, error) {
	if d.TrainerMon {
		return rules.CreateTrainerMon(d.MonSpecies, d.Level, nil)
	}
	return rules.CreateWildMon(d.MonSpecies, d.Level)
}

func (d *WildFightEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	enemy, err := d.enemy(rules)
	if err != nil {
		return nil, err
	}
	result := make([]*ItemArgs, d.Quantity)
	for i := range result {
		result[i] = &ItemArgs{ToDefeat: enemy, ExpSplit: 1}
	}
	return result, nil
}

func (d *WildFightEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	if args == nil {
		return state, "router error: cannot apply wild mon event without args"
	}
	return state.DefeatMon(rules, args.ToDefeat, "", 1, 0)
}

func (d *WildFightEventDefinition) serialize() (string, any) {
	return EventKeyWildFight, []any{d.MonSpecies, d.Level, d.Quantity, d.TrainerMon}
}

// TrainerFightEventDefinition fights a full trainer, optionally alongside a
// second trainer (multi battles), with per-mon experience splits, custom
// move data, and a custom knockout order.
type TrainerFightEventDefinition struct {
	EventMeta
	TrainerName       string
	SecondTrainerName string
	VerboseExport     bool
	SetupMoves        []string
	EnemySetupMoves   []string
	MimicSelection    string
	CustomMoveData    []mon.CustomMoveData
	ExpSplit          []int
	Weather           string
	PayDayAmount      int
	MonOrder          []int
}

func NewTrainerFightEvent(trainerName string) *TrainerFightEventDefinition {
	return &TrainerFightEventDefinition{
		EventMeta:   NewEventMeta(""),
		TrainerName: trainerName,
		Weather:     WeatherNone,
	}
}

func (d *TrainerFightEventDefinition) EventType() string { return TaskTrainerFight }

func (d *TrainerFightEventDefinition) Describe() string {
	if d.SecondTrainerName != "" {
		return fmt.Sprintf("Multi: %s, %s", d.TrainerName, d.SecondTrainerName)
	}
	return "Trainer: " + d.TrainerName
}

func (d *TrainerFightEventDefinition) DescribeItem() string { return d.Describe() }
func (d *TrainerFightEventDefinition) IsBattle() bool       { return true }
func (d *TrainerFightEventDefinition) Meta() *EventMeta     { return &d.EventMeta }

// MonsToFight lists the enemy party in knockout order. Multi battles
// interleave the two parties first/second/first/second; a custom MonOrder
// (1-based) reorders the interleaved list. With definitionOrder set the
// custom order is reported on each mon but not applied to the sequence.
func (d *TrainerFightEventDefinition) MonsToFight(rules gen.Rules, definitionOrder bool) ([]mon.EnemyMon, error) {
	first, err := rules.Trainer(d.TrainerName)
	if err != nil {
		return nil, err
	}

	monList := first.Mons
	if d.SecondTrainerName != "" {
		second, err := rules.Trainer(d.SecondTrainerName)
		if err != nil {
			return nil, err
		}
		monList = nil
		for i := 0; i < 3; i++ {
			if i < len(first.Mons) {
				monList = append(monList, first.Mons[i])
			}
			if i < len(second.Mons) {
				monList = append(monList, second.Mons[i])
			}
		}
	}

	order := d.MonOrder
	if definitionOrder || len(order) != len(monList) {
		order = make([]int, len(monList))
		for i := range order {
			order[i] = i + 1
		}
	}

	result := make([]mon.EnemyMon, 0, len(monList))
	for orderIdx := 1; orderIdx <= len(order); orderIdx++ {
		for lookupIdx, testIdx := range order {
			if testIdx != orderIdx {
				continue
			}
			cur := monList[lookupIdx]
			if lookupIdx < len(d.CustomMoveData) {
				cur.CustomMoveData = d.CustomMoveData[lookupIdx]
			}
			if lookupIdx < len(d.ExpSplit) {
				cur.ExpSplit = d.ExpSplit[lookupIdx]
			}
			if lookupIdx < len(d.MonOrder) {
				cur.MonOrder = d.MonOrder[lookupIdx]
			} else {
				cur.MonOrder = orderIdx
			}
			cur.DefinitionOrder = lookupIdx
			result = append(result, cur)
		}
	}
	return result, nil
}

func (d *TrainerFightEventDefinition) GenerateItemArgs(rules gen.Rules) ([]*ItemArgs, error) {
	monsToFight, err := d.MonsToFight(rules, false)
	if err != nil {
		return nil, err
	}

	result := make([]*ItemArgs, len(monsToFight))
	for i, enemy := range monsToFight {
		args := &ItemArgs{ToDefeat: enemy, ExpSplit: enemy.ExpSplit}
		if args.ExpSplit == 0 {
			args.ExpSplit = 1
		}
		// The payout, badge, and reward land on the final knockout only.
		if i == len(monsToFight)-1 {
			args.PayDayAmount = d.PayDayAmount
			args.DefeatingTrainer = true
		}
		result[i] = args
	}
	return result, nil
}

func (d *TrainerFightEventDefinition) Apply(rules gen.Rules, state RouteState, args *ItemArgs) (RouteState, string) {
	if args == nil {
		return state, "router error: cannot apply trainer mon event without args"
	}
	trainerName := ""
	if args.DefeatingTrainer {
		trainerName = d.TrainerName
	}
	return state.DefeatMon(rules, args.ToDefeat, trainerName, args.ExpSplit, args.PayDayAmount)
}

// ExpPerSecond estimates the optimal experience rate of the fight.
func (d *TrainerFightEventDefinition) ExpPerSecond(rules gen.Rules) (int, error) {
	monsToFight, err := d.MonsToFight(rules, false)
	if err != nil {
		return -1, err
	}
	if len(monsToFight) == 0 {
		return -1, fmt.Errorf("trainer %s has no mons", d.TrainerName)
	}
	return rules.TrainerTiming().OptimalExpPerSecond(monsToFight), nil
}

func (d *TrainerFightEventDefinition) serialize() (string, any) {
	return EventKeyTrainerFight, map[string]any{
		"trainer_name":        d.TrainerName,
		"second_trainer_name": d.SecondTrainerName,
		"verbose":             d.VerboseExport,
		"setup_moves":         d.SetupMoves,
		"enemy_setup_moves":   d.EnemySetupMoves,
		"mimic_selection":     d.MimicSelection,
		"custom_move_data":    d.CustomMoveData,
		"exp_split":           d.ExpSplit,
		"weather":             d.Weather,
		"pay_day_amount":      d.PayDayAmount,
		"mon_order":           d.MonOrder,
	}
}

// MarshalDefinition renders an event definition as its route-file object.
func MarshalDefinition(def EventDefinition) map[string]any {
	meta := def.Meta()
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	out := map[string]any{keyEnabled: meta.Enabled, keyTags: tags}
	if meta.Notes != "" {
		out[keyNotes] = meta.Notes
	}
	if key, payload := def.serialize(); payload != nil {
		out[key] = payload
	}
	return out
}

// DecodeDefinition parses one route-file event object, dispatching on which
// discriminator key is present. Legacy payload shapes (bare strings, short
// arrays) are accepted; the canonical object shapes are what Marshal writes.
func DecodeDefinition(raw map[string]json.RawMessage) (EventDefinition, error) {
	meta, err := decodeMeta(raw)
	if err != nil {
		return nil, err
	}

	switch {
	case hasKey(raw, EventKeyInventory):
		var fields []json.RawMessage
		if err := json.Unmarshal(raw[EventKeyInventory], &fields); err != nil || len(fields) != 4 {
			return nil, badPayload(EventKeyInventory, raw[EventKeyInventory])
		}
		def := &InventoryEventDefinition{EventMeta: meta}
		if err := decodeAll(fields, &def.ItemName, &def.Quantity, &def.IsAcquire, &def.WithMoney); err != nil {
			return nil, badPayload(EventKeyInventory, raw[EventKeyInventory])
		}
		return def, nil

	case hasKey(raw, EventKeyHoldItem):
		var fields []json.RawMessage
		if err := json.Unmarshal(raw[EventKeyHoldItem], &fields); err != nil || len(fields) < 1 {
			return nil, badPayload(EventKeyHoldItem, raw[EventKeyHoldItem])
		}
		def := &HoldItemEventDefinition{EventMeta: meta}
		if err := json.Unmarshal(fields[0], &def.ItemName); err != nil {
			return nil, badPayload(EventKeyHoldItem, raw[EventKeyHoldItem])
		}
		if len(fields) > 1 {
			if err := json.Unmarshal(fields[1], &def.Consumed); err != nil {
				return nil, badPayload(EventKeyHoldItem, raw[EventKeyHoldItem])
			}
		}
		return def, nil

	case hasKey(raw, EventKeyVitamin):
		def := &VitaminEventDefinition{EventMeta: meta, Quantity: 1}
		var fields []json.RawMessage
		if err := json.Unmarshal(raw[EventKeyVitamin], &fields); err == nil {
			if len(fields) != 2 || decodeAll(fields, &def.Vitamin, &def.Quantity) != nil {
				return nil, badPayload(EventKeyVitamin, raw[EventKeyVitamin])
			}
			return def, nil
		}
		// Legacy single-vitamin form.
		if err := json.Unmarshal(raw[EventKeyVitamin], &def.Vitamin); err != nil {
			return nil, badPayload(EventKeyVitamin, raw[EventKeyVitamin])
		}
		return def, nil

	case hasKey(raw, EventKeyRareCandy):
		def := &RareCandyEventDefinition{EventMeta: meta}
		if err := json.Unmarshal(raw[EventKeyRareCandy], &def.Quantity); err == nil {
			return def, nil
		}
		// Legacy boolean form meant a single candy.
		var legacy bool
		if err := json.Unmarshal(raw[EventKeyRareCandy], &legacy); err != nil {
			return nil, badPayload(EventKeyRareCandy, raw[EventKeyRareCandy])
		}
		def.Quantity = 1
		return def, nil

	case hasKey(raw, EventKeySave):
		location, err := decodeLocation(raw[EventKeySave])
		if err != nil {
			return nil, badPayload(EventKeySave, raw[EventKeySave])
		}
		return &SaveEventDefinition{EventMeta: meta, Location: location}, nil

	case hasKey(raw, EventKeyHeal):
		location, err := decodeLocation(raw[EventKeyHeal])
		if err != nil {
			return nil, badPayload(EventKeyHeal, raw[EventKeyHeal])
		}
		return &HealEventDefinition{EventMeta: meta, Location: location}, nil

	case hasKey(raw, EventKeyBlackout):
		location, err := decodeLocation(raw[EventKeyBlackout])
		if err != nil {
			return nil, badPayload(EventKeyBlackout, raw[EventKeyBlackout])
		}
		return &BlackoutEventDefinition{EventMeta: meta, Location: location}, nil

	case hasKey(raw, EventKeyEvolution):
		var payload struct {
			EvolvedSpecies string `json:"evolved_species"`
			ByStone        string `json:"by_stone"`
		}
		if err := json.Unmarshal(raw[EventKeyEvolution], &payload); err != nil {
			return nil, badPayload(EventKeyEvolution, raw[EventKeyEvolution])
		}
		return &EvolutionEventDefinition{EventMeta: meta, EvolvedSpecies: payload.EvolvedSpecies, ByStone: payload.ByStone}, nil

	case hasKey(raw, EventKeyLearnMove):
		return decodeLearnMove(raw[EventKeyLearnMove], meta, "")

	case hasKey(raw, EventKeyWildFight):
		var fields []json.RawMessage
		if err := json.Unmarshal(raw[EventKeyWildFight], &fields); err != nil || len(fields) < 2 {
			return nil, badPayload(EventKeyWildFight, raw[EventKeyWildFight])
		}
		def := &WildFightEventDefinition{EventMeta: meta, Quantity: 1}
		if err := decodeAll(fields[:2], &def.MonSpecies, &def.Level); err != nil {
			return nil, badPayload(EventKeyWildFight, raw[EventKeyWildFight])
		}
		if len(fields) > 2 {
			if err := json.Unmarshal(fields[2], &def.Quantity); err != nil {
				return nil, badPayload(EventKeyWildFight, raw[EventKeyWildFight])
			}
		}
		if len(fields) > 3 {
			if err := json.Unmarshal(fields[3], &def.TrainerMon); err != nil {
				return nil, badPayload(EventKeyWildFight, raw[EventKeyWildFight])
			}
		}
		return def, nil

	case hasKey(raw, EventKeyTrainerFight):
		return decodeTrainerFight(raw[EventKeyTrainerFight], meta)
	}

	return &NotesEventDefinition{EventMeta: meta}, nil
}

// DecodeLearnMoveDefinition parses a standalone learn-move object (the
// level-up move table in the route header), defaulting the species for
// legacy entries that predate the species field.
func DecodeLearnMoveDefinition(raw json.RawMessage, monDefault string) (*LearnMoveEventDefinition, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("cannot parse learn move entry: %w", err)
	}
	meta, err := decodeMeta(obj)
	if err != nil {
		return nil, err
	}
	if !hasKey(obj, EventKeyLearnMove) {
		return nil, fmt.Errorf("learn move entry missing %q key", EventKeyLearnMove)
	}
	return decodeLearnMove(obj[EventKeyLearnMove], meta, monDefault)
}

func decodeLearnMove(raw json.RawMessage, meta EventMeta, monDefault string) (*LearnMoveEventDefinition, error) {
	def := &LearnMoveEventDefinition{EventMeta: meta, Destination: -1, Level: LevelAny, Mon: monDefault}

	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		// Legacy array form: [move, destination, source, level].
		if len(fields) < 4 {
			return nil, badPayload(EventKeyLearnMove, raw)
		}
		decodeNullable(fields[0], &def.MoveToLearn)
		decodeNullable(fields[1], &def.Destination)
		if err := json.Unmarshal(fields[2], &def.Source); err != nil {
			return nil, badPayload(EventKeyLearnMove, raw)
		}
		decodeLevel(fields[3], &def.Level)
		return def, nil
	}

	var payload struct {
		Move        json.RawMessage `json:"LearnMove"`
		Destination json.RawMessage `json:"destination_slot"`
		Source      string          `json:"source"`
		Level       json.RawMessage `json:"level_learned"`
		Mon         *string         `json:"species_when_learned"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, badPayload(EventKeyLearnMove, raw)
	}
	decodeNullable(payload.Move, &def.MoveToLearn)
	decodeNullable(payload.Destination, &def.Destination)
	def.Source = payload.Source
	decodeLevel(payload.Level, &def.Level)
	if payload.Mon != nil {
		def.Mon = *payload.Mon
	}
	return def, nil
}

func decodeTrainerFight(raw json.RawMessage, meta EventMeta) (*TrainerFightEventDefinition, error) {
	def := &TrainerFightEventDefinition{EventMeta: meta, Weather: WeatherNone}

	// Legacy bare-name form.
	if err := json.Unmarshal(raw, &def.TrainerName); err == nil {
		return def, nil
	}

	// Legacy array form: [name, verbose, setup_moves?].
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if len(fields) < 2 || decodeAll(fields[:2], &def.TrainerName, &def.VerboseExport) != nil {
			return nil, badPayload(EventKeyTrainerFight, raw)
		}
		if len(fields) > 2 {
			if err := json.Unmarshal(fields[2], &def.SetupMoves); err != nil {
				return nil, badPayload(EventKeyTrainerFight, raw)
			}
		}
		return def, nil
	}

	var payload struct {
		TrainerName       string               `json:"trainer_name"`
		SecondTrainerName string               `json:"second_trainer_name"`
		Verbose           bool                 `json:"verbose"`
		SetupMoves        []string             `json:"setup_moves"`
		EnemySetupMoves   []string             `json:"enemy_setup_moves"`
		MimicSelection    string               `json:"mimic_selection"`
		CustomMoveData    []mon.CustomMoveData `json:"custom_move_data"`
		ExpSplit          []int                `json:"exp_split"`
		Weather           *string              `json:"weather"`
		PayDayAmount      int                  `json:"pay_day_amount"`
		MonOrder          []int                `json:"mon_order"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, badPayload(EventKeyTrainerFight, raw)
	}
	def.TrainerName = payload.TrainerName
	def.SecondTrainerName = payload.SecondTrainerName
	def.VerboseExport = payload.Verbose
	def.SetupMoves = payload.SetupMoves
	def.EnemySetupMoves = payload.EnemySetupMoves
	def.MimicSelection = payload.MimicSelection
	def.CustomMoveData = payload.CustomMoveData
	def.ExpSplit = payload.ExpSplit
	if payload.Weather != nil {
		def.Weather = *payload.Weather
	}
	def.PayDayAmount = payload.PayDayAmount
	def.MonOrder = payload.MonOrder
	return def, nil
}

func decodeMeta(raw map[string]json.RawMessage) (EventMeta, error) {
	meta := NewEventMeta("")
	if enabled, ok := raw[keyEnabled]; ok {
		if err := json.Unmarshal(enabled, &meta.Enabled); err != nil {
			return meta, fmt.Errorf("invalid %q field: %w", keyEnabled, err)
		}
	}
	if tags, ok := raw[keyTags]; ok {
		if err := json.Unmarshal(tags, &meta.Tags); err != nil {
			return meta, fmt.Errorf("invalid %q field: %w", keyTags, err)
		}
	}
	if notes, ok := raw[keyNotes]; ok {
		if err := json.Unmarshal(notes, &meta.Notes); err != nil {
			return meta, fmt.Errorf("invalid %q field: %w", keyNotes, err)
		}
	}
	return meta, nil
}

func hasKey(raw map[string]json.RawMessage, key string) bool {
	_, ok := raw[key]
	return ok
}

func badPayload(key string, raw json.RawMessage) error {
	return fmt.Errorf("could not decode %q payload: %s", key, string(raw))
}

func decodeAll(fields []json.RawMessage, targets ...any) error {
	if len(fields) != len(targets) {
		return fmt.Errorf("expected %d fields, got %d", len(targets), len(fields))
	}
	for i, field := range fields {
		if err := json.Unmarshal(field, targets[i]); err != nil {
			return err
		}
	}
	return nil
}

// decodeNullable leaves the target untouched for JSON null.
func decodeNullable(raw json.RawMessage, target any) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}
	_ = json.Unmarshal(raw, target)
}

// decodeLevel accepts either a number or the any-level string.
func decodeLevel(raw json.RawMessage, target *int) {
	if len(raw) == 0 {
		return
	}
	var level int
	if err := json.Unmarshal(raw, &level); err == nil {
		*target = level
	}
}

func decodeLocation(raw json.RawMessage) (string, error) {
	var fields []string
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		return fields[0], nil
	}
	var location string
	if err := json.Unmarshal(raw, &location); err != nil {
		return "", err
	}
	return location, nil
}
