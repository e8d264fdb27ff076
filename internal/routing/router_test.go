package routing_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soloroute/soloroute/internal/game/gen"
	"github.com/soloroute/soloroute/internal/routing"
)

func newTestRouter(t testing.TB) (*routing.Router, gen.Rules) {
	t.Helper()
	rules := loadRules(t)
	registry := gen.NewRegistry()
	require.NoError(t, registry.Register(rules))
	router := routing.NewRouter(registry, zap.NewNop())
	require.NoError(t, router.NewRoute("Red", "Squirtle"))
	return router, rules
}

// TestRouter_NewRoute seeds the level-up move table from the learnset and
// starts at the fixture's default state.
func TestRouter_NewRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	state := router.InitState()
	assert.Equal(t, 5, state.Mon.CurLevel)
	assert.Equal(t, 15, state.Mon.DVs.Attack, "perfect DVs by default in the DV generations")
	assert.Equal(t, 3000, state.Inventory.Money)

	moves := router.LevelUpMoves()
	require.Len(t, moves, 3, "Tackle, Tail Whip, Water Gun")
	assert.Equal(t, "Water Gun", moves[2].MoveToLearn)
	assert.Equal(t, 8, moves[2].Level)
}

// TestRouter_TrainerBattleThreeMons replays the three-Pidgey fight: one
// item per knockout, the payout only on the final one, and the level 8
// Water Gun learn injected mid-battle at the exact knockout that reaches it.
func TestRouter_TrainerBattleThreeMons(t *testing.T) {
	router, _ := newTestRouter(t)

	id, err := router.AddEvent(routing.NewTrainerFightEvent("Youngster Ben"), routing.InsertPosition{})
	require.NoError(t, err)

	node, ok := router.NodeByID(id)
	require.True(t, ok)
	group, ok := node.(*routing.EventGroup)
	require.True(t, ok)
	assert.Equal(t, "Trainer: Youngster Ben", group.Name())
	assert.False(t, group.HasErrors())

	items := group.Items()
	require.Len(t, items, 4, "three knockouts plus the injected move learn")

	assert.True(t, items[0].Definition.IsBattle())
	assert.False(t, items[0].Args.DefeatingTrainer)
	assert.False(t, items[1].Args.DefeatingTrainer)

	learn, ok := items[2].Definition.(*routing.LearnMoveEventDefinition)
	require.True(t, ok, "the learn lands between the second and third knockout")
	assert.Equal(t, "Water Gun", learn.MoveToLearn)
	assert.Equal(t, "#3 Pidgey", items[2].AfterLabel)
	assert.Equal(t, 8, items[2].FinalState().Mon.CurLevel)

	assert.True(t, items[3].Args.DefeatingTrainer, "payout on the final knockout only")

	final := router.FinalState()
	assert.Equal(t, 9, final.Mon.CurLevel)
	assert.Equal(t, 474, final.Mon.CurExp, "135 + 105 + 105 + 129")
	assert.Equal(t, 3220, final.Inventory.Money, "one payout of 220")
	assert.Equal(t, []string{"Tackle", "Tail Whip", "Water Gun", ""}, final.Mon.MoveList)
	assert.Equal(t, 135, final.Mon.RealizedStatExp.Attack, "three Pidgeys at 45 each")

	assert.True(t, router.IsTrainerDefeated("Youngster Ben"))
	require.NoError(t, router.RemoveEvent(id))
	assert.False(t, router.IsTrainerDefeated("Youngster Ben"))
}

// TestRouter_RefightableTrainerNotMarkedDefeated distinguishes the lass.
func TestRouter_RefightableTrainerNotMarkedDefeated(t *testing.T) {
	router, _ := newTestRouter(t)
	_, err := router.AddEvent(routing.NewTrainerFightEvent("Lass Janice"), routing.InsertPosition{})
	require.NoError(t, err)
	assert.False(t, router.IsTrainerDefeated("Lass Janice"))
}

// TestRouter_DisabledEventPassesThrough checks the disabled rendering and
// that the state is untouched.
func TestRouter_DisabledEventPassesThrough(t *testing.T) {
	router, _ := newTestRouter(t)

	def := routing.NewWildFightEvent("Pidgey", 9, 1, false)
	def.Meta().Enabled = false
	id, err := router.AddEvent(def, routing.InsertPosition{})
	require.NoError(t, err)

	node, _ := router.NodeByID(id)
	group := node.(*routing.EventGroup)
	assert.Equal(t, "Disabled: WildPkmn Pidgey, LV: 9, x1", group.Name())
	assert.Empty(t, group.Items())
	assert.True(t, router.FinalState().Equals(router.InitState()))
}

// TestRouter_ErrorEventNamesTheViolation makes a purchase the money cannot
// cover and expects the group to rename itself to the violation.
func TestRouter_ErrorEventNamesTheViolation(t *testing.T) {
	router, _ := newTestRouter(t)

	id, err := router.AddEvent(routing.NewInventoryEvent("HP Up", 1, true, true), routing.InsertPosition{})
	require.NoError(t, err)

	node, _ := router.NodeByID(id)
	group := node.(*routing.EventGroup)
	assert.True(t, group.HasErrors())
	assert.Contains(t, group.Name(), "cannot purchase 1 HP Up")
	assert.Equal(t, -6800, router.FinalState().Inventory.Money, "forced replay continues past the violation")
}

// TestRouter_EditOperations covers insert positions, reordering, the item
// removal refusal, and folder transfer guards.
func TestRouter_EditOperations(t *testing.T) {
	router, _ := newTestRouter(t)

	firstID, err := router.AddEvent(routing.NewWildFightEvent("Pidgey", 3, 1, false), routing.InsertPosition{})
	require.NoError(t, err)
	secondID, err := router.AddEvent(routing.NewWildFightEvent("Pidgey", 4, 1, false), routing.InsertPosition{})
	require.NoError(t, err)
	thirdID, err := router.AddEvent(routing.NewWildFightEvent("Pidgey", 5, 1, false), routing.InsertPosition{BeforeID: firstID})
	require.NoError(t, err)

	order := func() []routing.NodeID {
		children := router.Root().Children()
		ids := make([]routing.NodeID, len(children))
		for i, child := range children {
			ids[i] = child.ID()
		}
		return ids
	}
	assert.Equal(t, []routing.NodeID{thirdID, firstID, secondID}, order())

	require.NoError(t, router.MoveEvent(thirdID, false))
	assert.Equal(t, []routing.NodeID{firstID, thirdID, secondID}, order())
	require.NoError(t, router.MoveEvent(firstID, true), "moving past the top edge clamps")
	assert.Equal(t, []routing.NodeID{firstID, thirdID, secondID}, order())

	node, _ := router.NodeByID(firstID)
	itemID := node.(*routing.EventGroup).Items()[0].ID()
	assert.ErrorContains(t, router.RemoveEvent(itemID), "cannot remove a single item")

	outerID, err := router.AddFolder("Outer", routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddFolder("Inner", routing.InsertPosition{FolderName: "Outer"})
	require.NoError(t, err)
	_, err = router.AddFolder("Outer", routing.InsertPosition{})
	assert.ErrorContains(t, err, "already exists")

	assert.ErrorContains(t, router.TransferEvents([]routing.NodeID{outerID}, "Inner"),
		"into itself or its own contents")
	assert.ElementsMatch(t, []string{"Outer", "Inner"}, router.InvalidFolderTransfers(outerID))

	require.NoError(t, router.TransferEvents([]routing.NodeID{firstID, secondID}, "Inner"))
	inner, ok := router.FolderByName("Inner")
	require.True(t, ok)
	assert.Len(t, inner.Children(), 2)

	require.NoError(t, router.RenameFolder("Inner", "Route 3"))
	_, ok = router.FolderByName("Inner")
	assert.False(t, ok)
	assert.ErrorContains(t, router.RenameFolder("ROOT", "Top"), "cannot rename the root folder")

	require.NoError(t, router.BatchRemove([]routing.NodeID{outerID, thirdID}))
	assert.Len(t, router.Root().Children(), 0)
}

// TestRouter_ReplaceEventGroup swaps a wild fight for a tougher one in
// place.
func TestRouter_ReplaceEventGroup(t *testing.T) {
	router, _ := newTestRouter(t)

	id, err := router.AddEvent(routing.NewWildFightEvent("Pidgey", 3, 1, false), routing.InsertPosition{})
	require.NoError(t, err)
	require.NoError(t, router.ReplaceEventGroup(id, routing.NewWildFightEvent("Pidgey", 9, 2, false)))

	node, _ := router.NodeByID(id)
	assert.Equal(t, "WildPkmn Pidgey, LV: 9, x2", node.Name())
	assert.Equal(t, 275, router.FinalState().Mon.CurExp, "135 + 70 + 70")
}

// TestRouter_ReplaceLevelUpMove redirects the Water Gun learn to overwrite
// slot one instead of taking the first empty slot.
func TestRouter_ReplaceLevelUpMove(t *testing.T) {
	router, _ := newTestRouter(t)

	_, err := router.AddEvent(routing.NewTrainerFightEvent("Youngster Ben"), routing.InsertPosition{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tackle", "Tail Whip", "Water Gun", ""}, router.FinalState().Mon.MoveList)

	replacement := routing.NewLearnMoveEvent("Water Gun", 1, routing.MoveSourceLevelUp, 8, "Squirtle")
	require.NoError(t, router.ReplaceLevelUpMove(replacement))
	assert.Equal(t, []string{"Tackle", "Tail Whip", "Water Gun", ""}, router.FinalState().Mon.MoveList,
		"an empty slot still wins over the requested one")

	missing := routing.NewLearnMoveEvent("Thunderbolt", 0, routing.MoveSourceLevelUp, 8, "Squirtle")
	assert.ErrorContains(t, router.ReplaceLevelUpMove(missing), "no level-up move")
}

// TestRouter_SaveLoadRoundTrip writes a route touching every event kind and
// replays the loaded copy to the identical final state.
func TestRouter_SaveLoadRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	_, err := router.AddFolder("Route 3", routing.InsertPosition{})
	require.NoError(t, err)
	inFolder := routing.InsertPosition{FolderName: "Route 3"}

	_, err = router.AddEvent(routing.NewTrainerFightEvent("Youngster Ben"), inFolder)
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewInventoryEvent("Potion", 1, true, true), inFolder)
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewWildFightEvent("Pidgey", 9, 1, false), inFolder)
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewInventoryEvent("Protein", 2, true, false), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewVitaminEvent("Protein", 2), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewEvolutionEvent("Wartortle", ""), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewInventoryEvent("Amulet Coin", 1, true, false), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewHoldItemEvent("Amulet Coin", false), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewInventoryEvent("Rare Candy", 1, true, false), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewRareCandyEvent(1), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewSaveEvent("Pewter City"), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewHealEvent("Pewter City"), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewBlackoutEvent("Pewter City"), routing.InsertPosition{})
	require.NoError(t, err)
	_, err = router.AddEvent(routing.NewNotesEvent("shop before the gym"), routing.InsertPosition{})
	require.NoError(t, err)

	require.False(t, router.Root().HasErrors())
	wantFinal := router.FinalState()
	assert.Equal(t, "Wartortle", wantFinal.Mon.Species.Name)

	path := filepath.Join(t.TempDir(), "squirtle.route")
	require.NoError(t, router.Save(path))

	loaded, _ := newTestRouter(t)
	require.NoError(t, loaded.Load(path))

	assert.True(t, loaded.FinalState().Equals(wantFinal), "replayed route reaches the identical state")
	assert.False(t, loaded.Root().HasErrors())
	assert.Len(t, loaded.Root().Children(), len(router.Root().Children()))
	folder, ok := loaded.FolderByName("Route 3")
	require.True(t, ok)
	assert.Len(t, folder.Children(), 3)
	assert.Len(t, loaded.LevelUpMoves(), len(router.LevelUpMoves()))
}

// TestDecodeDefinition_LegacyForms parses the older payload shapes route
// files in the wild still carry.
func TestDecodeDefinition_LegacyForms(t *testing.T) {
	decode := func(s string) routing.EventDefinition {
		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(s), &raw))
		def, err := routing.DecodeDefinition(raw)
		require.NoError(t, err)
		return def
	}

	fight := decode(`{"Fight Trainer": "Youngster Ben"}`).(*routing.TrainerFightEventDefinition)
	assert.Equal(t, "Youngster Ben", fight.TrainerName)
	assert.Equal(t, "None", fight.Weather)

	fight = decode(`{"Fight Trainer": ["Brock", true, ["Tail Whip"]]}`).(*routing.TrainerFightEventDefinition)
	assert.Equal(t, "Brock", fight.TrainerName)
	assert.True(t, fight.VerboseExport)
	assert.Equal(t, []string{"Tail Whip"}, fight.SetupMoves)

	learn := decode(`{"LearnMove": ["Water Gun", 2, "LevelUp", 8], "Enabled": false}`).(*routing.LearnMoveEventDefinition)
	assert.Equal(t, "Water Gun", learn.MoveToLearn)
	assert.Equal(t, 2, learn.Destination)
	assert.Equal(t, 8, learn.Level)
	assert.False(t, learn.Meta().Enabled)

	anyLevel := decode(`{"LearnMove": {"LearnMove": "Thunderbolt", "destination_slot": 0, "source": "TM24", "level_learned": "AnyLevel"}}`).(*routing.LearnMoveEventDefinition)
	assert.True(t, anyLevel.IsAnyLevel())

	vitamin := decode(`{"Use Vitamin": "Protein"}`).(*routing.VitaminEventDefinition)
	assert.Equal(t, "Protein", vitamin.Vitamin)
	assert.Equal(t, 1, vitamin.Quantity)

	candy := decode(`{"Use Rare Candy": true}`).(*routing.RareCandyEventDefinition)
	assert.Equal(t, 1, candy.Quantity)

	hold := decode(`{"Hold Item": ["Amulet Coin"]}`).(*routing.HoldItemEventDefinition)
	assert.Equal(t, "Amulet Coin", hold.ItemName)
	assert.False(t, hold.Consumed)

	wild := decode(`{"Fight Wild Pkmn": ["Pidgey", 9]}`).(*routing.WildFightEventDefinition)
	assert.Equal(t, 9, wild.Level)
	assert.Equal(t, 1, wild.Quantity)

	notes := decode(`{"Just Notes": "take the upper path"}`).(*routing.NotesEventDefinition)
	assert.Equal(t, "take the upper path", notes.Notes)
}

// TestRecordingErrorNotes forces an error from the recorder's marker prefix.
func TestRecordingErrorNotes(t *testing.T) {
	router, _ := newTestRouter(t)

	def := routing.NewWildFightEvent("Pidgey", 3, 1, false)
	def.Meta().Notes = routing.RecordingErrorFragment + "wrong encounter"
	id, err := router.AddEvent(def, routing.InsertPosition{})
	require.NoError(t, err)

	node, _ := router.NodeByID(id)
	assert.True(t, node.HasErrors())
	assert.Contains(t, node.Name(), "wrong encounter")
}

// TestTrainerFight_MonOrderAndMulti checks party interleaving and a custom
// knockout order.
func TestTrainerFight_MonOrderAndMulti(t *testing.T) {
	_, rules := newTestRouter(t)

	def := routing.NewTrainerFightEvent("Youngster Ben")
	def.MonOrder = []int{3, 1, 2}
	mons, err := def.MonsToFight(rules, false)
	require.NoError(t, err)
	require.Len(t, mons, 3)
	assert.Equal(t, 11, mons[1].Level, "the level 11 Pidgey moved to second")
	assert.Equal(t, 2, mons[1].DefinitionOrder, "it was the third party slot")

	multi := routing.NewTrainerFightEvent("Brock")
	multi.SecondTrainerName = "Lass Janice"
	mons, err = multi.MonsToFight(rules, false)
	require.NoError(t, err)
	require.Len(t, mons, 3)
	assert.Equal(t, "Geodude", mons[0].Species)
	assert.Equal(t, "Pidgey", mons[1].Species, "parties interleave")
	assert.Equal(t, "Onix", mons[2].Species)

	rate, err := def.ExpPerSecond(rules)
	require.NoError(t, err)
	assert.Greater(t, rate, 0)
}

// TestToggleHighlight round-trips the tag.
func TestToggleHighlight(t *testing.T) {
	router, _ := newTestRouter(t)
	id, err := router.AddEvent(routing.NewNotesEvent("here"), routing.InsertPosition{})
	require.NoError(t, err)

	node, _ := router.NodeByID(id)
	group := node.(*routing.EventGroup)
	assert.False(t, group.Definition.Meta().IsHighlighted())
	require.NoError(t, router.ToggleHighlight(id))
	assert.True(t, group.Definition.Meta().IsHighlighted())
	require.NoError(t, router.ToggleHighlight(id))
	assert.False(t, group.Definition.Meta().IsHighlighted())
}
