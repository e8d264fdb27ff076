package routing

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/soloroute/soloroute/internal/game/gen"
	"github.com/soloroute/soloroute/internal/game/mon"
)

// Route-file header keys.
const (
	routeKeySpecies = "name"
	routeKeyDVs     = "dv"
	routeKeyAbility = "ability"
	routeKeyNature  = "nature"
	routeKeyVersion = "Version"
)

// Router owns one route: the solo mon's starting state, the event tree, and
// the level-up move table. Every edit replays the whole route so each node
// always carries its current before and after states.
type Router struct {
	registry *gen.Registry
	logger   *zap.Logger

	rules   gen.Rules
	version string
	hasMon  bool

	root         *EventFolder
	nodes        map[NodeID]EventNode
	items        map[NodeID]*EventItem
	folderByName map[string]*EventFolder

	levelUpDefs      []*LearnMoveEventDefinition
	levelUpIndex     map[string]*LearnMoveEventDefinition
	defeatedTrainers map[string]bool

	initState RouteState
	nextID    NodeID
}

// InsertPosition says where a new or transferred node lands: relative to an
// existing node, or appended to a named folder (the root by default).
type InsertPosition struct {
	FolderName string
	BeforeID   NodeID
	AfterID    NodeID
}

// NewRouter builds an empty router over the registered versions.
func NewRouter(registry *gen.Registry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{registry: registry, logger: logger}
	r.reset()
	return r
}

func (r *Router) reset() {
	r.nextID = InvalidNodeID
	r.root = NewEventFolder(r.allocID(), RootFolderName)
	r.nodes = map[NodeID]EventNode{r.root.id: r.root}
	r.items = map[NodeID]*EventItem{}
	r.folderByName = map[string]*EventFolder{RootFolderName: r.root}
	r.levelUpDefs = nil
	r.levelUpIndex = map[string]*LearnMoveEventDefinition{}
	r.defeatedTrainers = map[string]bool{}
	r.hasMon = false
	r.initState = RouteState{}
}

func (r *Router) allocID() NodeID {
	r.nextID++
	return r.nextID
}

// NewRoute starts a fresh route on the version with the given solo mon
// species at default innate stats.
func (r *Router) NewRoute(versionName, speciesName string) error {
	rules, err := r.registry.Get(versionName)
	if err != nil {
		return err
	}
	r.rules = rules
	r.version = versionName
	r.reset()
	r.logger.Info("starting new route",
		zap.String("version", versionName),
		zap.String("species", speciesName))
	return r.SetSoloMon(speciesName, 0, mon.NatureHardy, nil)
}

// SetSoloMon (re)binds the route to a solo mon. Nil dvs means perfect DVs
// for the DV generations and zero IVs afterwards. The species' level-up
// learnset seeds the route's move table without clobbering edited entries.
func (r *Router) SetSoloMon(speciesName string, abilityIndex int, nature mon.Nature, dvs *mon.StatBlock) error {
	if r.rules == nil {
		return fmt.Errorf("no version selected")
	}
	spec, err := r.rules.Species(speciesName)
	if err != nil {
		return err
	}

	var block mon.StatBlock
	if dvs != nil {
		block = *dvs
	} else if r.rules.Generation() <= 2 {
		block = r.rules.MakeStatBlock(15, 15, 15, 15, 15, 15, false)
	} else {
		block = r.rules.MakeStatBlock(0, 0, 0, 0, 0, 0, false)
	}

	solo, err := NewSoloMon(r.rules, spec.Name, spec, block, abilityIndex, nature)
	if err != nil {
		return err
	}
	r.initState = RouteState{
		Mon:       solo,
		Inventory: NewInventory(r.rules.StartingMoney(), r.rules.BagLimit()),
	}
	r.hasMon = true
	r.addLevelUpMovesFor(spec)
	r.Recalc()
	return nil
}

// ChangeInnateStats rebuilds the starting mon with new DVs, ability, and
// nature, keeping the route intact.
func (r *Router) ChangeInnateStats(dvs mon.StatBlock, abilityIndex int, nature mon.Nature) error {
	if !r.hasMon {
		return fmt.Errorf("no solo mon selected")
	}
	spec := r.initState.Mon.Species
	solo, err := NewSoloMon(r.rules, spec.Name, spec, dvs, abilityIndex, nature)
	if err != nil {
		return err
	}
	r.initState.Mon = solo
	r.Recalc()
	return nil
}

func (r *Router) addLevelUpMovesFor(spec mon.PokemonSpecies) {
	for _, lm := range spec.LevelupMoves {
		def := NewLearnMoveEvent(lm.Move, -1, MoveSourceLevelUp, lm.Level, spec.Name)
		key := def.LevelUpKey()
		if _, exists := r.levelUpIndex[key]; exists {
			continue
		}
		r.levelUpIndex[key] = def
		r.levelUpDefs = append(r.levelUpDefs, def)
	}
}

func (r *Router) addLevelUpMovesForName(speciesName string) {
	if speciesName == "" || speciesName == NoPokemon {
		return
	}
	spec, err := r.rules.Species(speciesName)
	if err != nil {
		r.logger.Warn("unknown evolution target", zap.String("species", speciesName))
		return
	}
	r.addLevelUpMovesFor(spec)
}

// Recalc replays the entire route from the starting state and rebuilds the
// node lookups.
func (r *Router) Recalc() {
	if !r.hasMon || r.rules == nil {
		return
	}
	ctx := &applyCtx{rules: r.rules, lookup: r.matchingLevelUps, alloc: r.allocID}
	r.root.apply(ctx, r.initState)
	r.rebuildLookups()
	r.logger.Debug("route recalculated",
		zap.Int("nodes", len(r.nodes)),
		zap.Bool("has_errors", r.root.HasErrors()))
}

func (r *Router) matchingLevelUps(level int, monName string) []*LearnMoveEventDefinition {
	var out []*LearnMoveEventDefinition
	for _, def := range r.levelUpDefs {
		if def.Matches(level, monName) {
			out = append(out, def)
		}
	}
	return out
}

func (r *Router) rebuildLookups() {
	r.nodes = map[NodeID]EventNode{}
	r.items = map[NodeID]*EventItem{}
	r.folderByName = map[string]*EventFolder{}
	r.indexFolder(r.root)
}

func (r *Router) indexFolder(f *EventFolder) {
	r.nodes[f.id] = f
	r.folderByName[f.name] = f
	for _, child := range f.children {
		switch node := child.(type) {
		case *EventFolder:
			r.indexFolder(node)
		case *EventGroup:
			r.nodes[node.id] = node
			for _, item := range node.items {
				r.items[item.id] = item
			}
		}
	}
}

// Root returns the top folder.
func (r *Router) Root() *EventFolder { return r.root }

// NodeByID finds a folder or group.
func (r *Router) NodeByID(id NodeID) (EventNode, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// ItemByID finds an expanded event item from the last replay.
func (r *Router) ItemByID(id NodeID) (*EventItem, bool) {
	item, ok := r.items[id]
	return item, ok
}

// FolderByName finds a folder.
func (r *Router) FolderByName(name string) (*EventFolder, bool) {
	folder, ok := r.folderByName[name]
	return folder, ok
}

// InitState is the route's starting state.
func (r *Router) InitState() RouteState { return r.initState }

// FinalState is the state after the whole route.
func (r *Router) FinalState() RouteState { return r.root.FinalState() }

// LevelUpMoves lists the route's level-up move table in definition order.
func (r *Router) LevelUpMoves() []*LearnMoveEventDefinition {
	return append([]*LearnMoveEventDefinition(nil), r.levelUpDefs...)
}

// IsTrainerDefeated reports whether a non-refightable trainer already falls
// somewhere in the route.
func (r *Router) IsTrainerDefeated(trainerName string) bool {
	return r.defeatedTrainers[mon.SanitizeName(trainerName)]
}

// AddEvent wraps the definition in a group and inserts it.
func (r *Router) AddEvent(def EventDefinition, pos InsertPosition) (NodeID, error) {
	if !r.hasMon {
		return InvalidNodeID, fmt.Errorf("cannot add events before choosing a solo mon")
	}
	folder, idx, err := r.resolveInsert(pos)
	if err != nil {
		return InvalidNodeID, err
	}
	group := NewEventGroup(r.allocID(), def)
	folder.insertChild(group, idx)
	r.noteDefinitionAdded(def)
	r.Recalc()
	return group.id, nil
}

// AddFolder creates a named folder. Folder names are unique per route.
func (r *Router) AddFolder(name string, pos InsertPosition) (NodeID, error) {
	if name == "" {
		return InvalidNodeID, fmt.Errorf("folder name cannot be empty")
	}
	if _, taken := r.folderByName[name]; taken {
		return InvalidNodeID, fmt.Errorf("folder %q already exists", name)
	}
	folder, idx, err := r.resolveInsert(pos)
	if err != nil {
		return InvalidNodeID, err
	}
	child := NewEventFolder(r.allocID(), name)
	folder.insertChild(child, idx)
	r.Recalc()
	return child.id, nil
}

func (r *Router) resolveInsert(pos InsertPosition) (*EventFolder, int, error) {
	if pos.BeforeID != InvalidNodeID || pos.AfterID != InvalidNodeID {
		anchorID := pos.BeforeID
		offset := 0
		if anchorID == InvalidNodeID {
			anchorID = pos.AfterID
			offset = 1
		}
		anchor, ok := r.nodes[anchorID]
		if !ok {
			return nil, 0, fmt.Errorf("no event with id %d", anchorID)
		}
		parent := nodeParent(anchor)
		if parent == nil {
			return nil, 0, fmt.Errorf("cannot insert relative to the root folder")
		}
		return parent, parent.indexOfChild(anchorID) + offset, nil
	}

	name := pos.FolderName
	if name == "" {
		name = RootFolderName
	}
	folder, ok := r.folderByName[name]
	if !ok {
		return nil, 0, fmt.Errorf("no folder named %q", name)
	}
	return folder, -1, nil
}

func nodeParent(node EventNode) *EventFolder {
	switch n := node.(type) {
	case *EventFolder:
		return n.parent
	case *EventGroup:
		return n.parent
	}
	return nil
}

func (r *Router) noteDefinitionAdded(def EventDefinition) {
	if evo, ok := def.(*EvolutionEventDefinition); ok {
		r.addLevelUpMovesForName(evo.EvolvedSpecies)
	}
	fight, ok := def.(*TrainerFightEventDefinition)
	if !ok {
		return
	}
	for _, name := range []string{fight.TrainerName, fight.SecondTrainerName} {
		if name == "" {
			continue
		}
		trainer, err := r.rules.Trainer(name)
		if err != nil || trainer.Refightable {
			continue
		}
		r.defeatedTrainers[mon.SanitizeName(name)] = true
	}
}

func (r *Router) noteNodeRemoved(node EventNode) {
	switch n := node.(type) {
	case *EventFolder:
		for _, child := range n.children {
			r.noteNodeRemoved(child)
		}
	case *EventGroup:
		if fight, ok := n.Definition.(*TrainerFightEventDefinition); ok {
			delete(r.defeatedTrainers, mon.SanitizeName(fight.TrainerName))
			if fight.SecondTrainerName != "" {
				delete(r.defeatedTrainers, mon.SanitizeName(fight.SecondTrainerName))
			}
		}
	}
}

// RemoveEvent deletes a folder (with everything in it) or a group. Items
// are projections of their group and cannot be removed on their own.
func (r *Router) RemoveEvent(id NodeID) error {
	if err := r.removeNoRecalc(id); err != nil {
		return err
	}
	r.Recalc()
	return nil
}

// BatchRemove deletes several nodes in one replay. IDs already gone as part
// of a removed ancestor are skipped.
func (r *Router) BatchRemove(ids []NodeID) error {
	var firstErr error
	for _, id := range ids {
		if _, ok := r.nodes[id]; !ok {
			if _, isItem := r.items[id]; !isItem {
				continue
			}
		}
		if err := r.removeNoRecalc(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.Recalc()
	return firstErr
}

func (r *Router) removeNoRecalc(id NodeID) error {
	if _, isItem := r.items[id]; isItem {
		return fmt.Errorf("cannot remove a single item from a multi-part event")
	}
	if id == r.root.id {
		return fmt.Errorf("cannot remove the root folder")
	}
	node, ok := r.nodes[id]
	if !ok {
		return fmt.Errorf("no event with id %d", id)
	}
	parent := nodeParent(node)
	if parent == nil || parent.removeChild(id) == nil {
		return fmt.Errorf("event %d has no parent folder", id)
	}
	r.noteNodeRemoved(node)
	delete(r.nodes, id)
	if folder, isFolder := node.(*EventFolder); isFolder {
		delete(r.folderByName, folder.name)
	}
	return nil
}

// MoveEvent shifts a node one slot up or down within its folder, clamped at
// the edges.
func (r *Router) MoveEvent(id NodeID, moveUp bool) error {
	node, ok := r.nodes[id]
	if !ok {
		return fmt.Errorf("no event with id %d", id)
	}
	parent := nodeParent(node)
	if parent == nil {
		return fmt.Errorf("cannot move the root folder")
	}
	idx := parent.indexOfChild(id)
	target := idx + 1
	if moveUp {
		target = idx - 1
	}
	if target < 0 || target >= len(parent.children) {
		return nil
	}
	parent.children[idx], parent.children[target] = parent.children[target], parent.children[idx]
	r.Recalc()
	return nil
}

// TransferEvents appends the nodes to the named folder, creating it at the
// root if needed. A folder can never move into itself or a descendant.
func (r *Router) TransferEvents(ids []NodeID, destFolderName string) error {
	dest, ok := r.folderByName[destFolderName]
	if !ok {
		id, err := r.AddFolder(destFolderName, InsertPosition{})
		if err != nil {
			return err
		}
		dest = r.nodes[id].(*EventFolder)
	}

	moving := make([]EventNode, 0, len(ids))
	for _, id := range ids {
		node, ok := r.nodes[id]
		if !ok {
			return fmt.Errorf("no event with id %d", id)
		}
		if node.ContainsID(dest.id) {
			return fmt.Errorf("cannot transfer folder %q into itself or its own contents", node.Name())
		}
		moving = append(moving, node)
	}

	for _, node := range moving {
		if parent := nodeParent(node); parent != nil {
			parent.removeChild(node.ID())
		}
		dest.insertChild(node, -1)
	}
	r.Recalc()
	return nil
}

// InvalidFolderTransfers lists the folder names the node must not be
// transferred into: itself and every folder it contains.
func (r *Router) InvalidFolderTransfers(id NodeID) []string {
	node, ok := r.nodes[id]
	if !ok {
		return nil
	}
	folder, isFolder := node.(*EventFolder)
	if !isFolder {
		return nil
	}
	var names []string
	var walk func(f *EventFolder)
	walk = func(f *EventFolder) {
		names = append(names, f.name)
		for _, child := range f.children {
			if sub, ok := child.(*EventFolder); ok {
				walk(sub)
			}
		}
	}
	walk(folder)
	return names
}

// ReplaceEventGroup swaps a group's definition in place. Folders have no
// definition; the only replaceable item is a level-up move learn, which
// routes to ReplaceLevelUpMove.
func (r *Router) ReplaceEventGroup(id NodeID, def EventDefinition) error {
	if item, isItem := r.items[id]; isItem {
		learn, ok := def.(*LearnMoveEventDefinition)
		if !ok || learn.Source != MoveSourceLevelUp {
			return fmt.Errorf("only level-up move items can be replaced individually")
		}
		if old, isLearn := item.Definition.(*LearnMoveEventDefinition); !isLearn || old.LevelUpKey() != learn.LevelUpKey() {
			return fmt.Errorf("replacement does not match the item's move learn")
		}
		return r.ReplaceLevelUpMove(learn)
	}

	node, ok := r.nodes[id]
	if !ok {
		return fmt.Errorf("no event with id %d", id)
	}
	group, isGroup := node.(*EventGroup)
	if !isGroup {
		return fmt.Errorf("cannot replace the definition of folder %q", node.Name())
	}
	r.noteNodeRemoved(group)
	group.Definition = def
	r.noteDefinitionAdded(def)
	r.Recalc()
	return nil
}

// ReplaceLevelUpMove swaps the move-table entry with the same key, which is
// how a learn's destination slot gets edited.
func (r *Router) ReplaceLevelUpMove(def *LearnMoveEventDefinition) error {
	key := def.LevelUpKey()
	if _, exists := r.levelUpIndex[key]; !exists {
		return fmt.Errorf("no level-up move for key %q", key)
	}
	r.levelUpIndex[key] = def
	for i, existing := range r.levelUpDefs {
		if existing.LevelUpKey() == key {
			r.levelUpDefs[i] = def
			break
		}
	}
	r.Recalc()
	return nil
}

// ToggleHighlight flips the highlight tag on a group.
func (r *Router) ToggleHighlight(id NodeID) error {
	node, ok := r.nodes[id]
	if !ok {
		return fmt.Errorf("no event with id %d", id)
	}
	group, isGroup := node.(*EventGroup)
	if !isGroup {
		return fmt.Errorf("only events can be highlighted")
	}
	group.Definition.Meta().ToggleHighlight()
	return nil
}

// RenameFolder renames a folder, keeping names unique. The root keeps its
// name.
func (r *Router) RenameFolder(oldName, newName string) error {
	if oldName == RootFolderName {
		return fmt.Errorf("cannot rename the root folder")
	}
	if newName == "" || newName == RootFolderName {
		return fmt.Errorf("invalid folder name %q", newName)
	}
	if _, taken := r.folderByName[newName]; taken {
		return fmt.Errorf("folder %q already exists", newName)
	}
	folder, ok := r.folderByName[oldName]
	if !ok {
		return fmt.Errorf("no folder named %q", oldName)
	}
	delete(r.folderByName, oldName)
	folder.name = newName
	r.folderByName[newName] = folder
	return nil
}

// Save writes the route file: the solo mon header, the level-up move table,
// and the event tree.
func (r *Router) Save(path string) error {
	if !r.hasMon {
		return fmt.Errorf("no route to save")
	}
	learnDefs := make([]map[string]any, len(r.levelUpDefs))
	for i, def := range r.levelUpDefs {
		learnDefs[i] = MarshalDefinition(def)
	}
	doc := map[string]any{
		routeKeySpecies:      r.initState.Mon.Species.Name,
		routeKeyDVs:          statBlockDoc(r.initState.Mon.DVs),
		routeKeyAbility:      r.initState.Mon.AbilityIndex,
		routeKeyNature:       r.initState.Mon.Nature.String(),
		routeKeyVersion:      r.version,
		TaskLearnMoveLevelup: learnDefs,
		keyEvents:            []map[string]any{r.root.marshal()},
	}
	payload, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("cannot serialize route: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("cannot write route file: %w", err)
	}
	r.logger.Info("route saved", zap.String("path", path))
	return nil
}

// Load reads a route file, rebinds the version and solo mon, restores the
// saved level-up move table, and replays the whole tree.
func (r *Router) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read route file: %w", err)
	}
	var doc struct {
		Species    string            `json:"name"`
		DVs        map[string]int    `json:"dv"`
		Ability    int               `json:"ability"`
		Nature     string            `json:"nature"`
		Version    string            `json:"Version"`
		LearnMoves []json.RawMessage `json:"Learn Levelup Move"`
		Events     []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("cannot parse route file: %w", err)
	}

	rules, err := r.registry.Get(doc.Version)
	if err != nil {
		return err
	}
	r.rules = rules
	r.version = doc.Version
	r.reset()

	nature := mon.NatureHardy
	if doc.Nature != "" {
		nature, err = mon.ParseNature(doc.Nature)
		if err != nil {
			r.logger.Warn("unknown nature in route file, defaulting", zap.String("nature", doc.Nature))
			nature = mon.NatureHardy
		}
	}
	var dvs *mon.StatBlock
	if len(doc.DVs) > 0 {
		block := statBlockFromDoc(rules, doc.DVs)
		dvs = &block
	}
	if err := r.SetSoloMon(doc.Species, doc.Ability, nature, dvs); err != nil {
		return err
	}

	for _, raw := range doc.LearnMoves {
		def, err := DecodeLearnMoveDefinition(raw, doc.Species)
		if err != nil {
			return err
		}
		key := def.LevelUpKey()
		if _, exists := r.levelUpIndex[key]; !exists {
			r.levelUpDefs = append(r.levelUpDefs, def)
			r.levelUpIndex[key] = def
			continue
		}
		r.levelUpIndex[key] = def
		for i, existing := range r.levelUpDefs {
			if existing.LevelUpKey() == key {
				r.levelUpDefs[i] = def
				break
			}
		}
	}

	for _, raw := range doc.Events {
		if err := r.decodeNode(raw, nil); err != nil {
			return err
		}
	}
	r.Recalc()
	r.logger.Info("route loaded",
		zap.String("path", path),
		zap.String("version", doc.Version),
		zap.String("species", doc.Species))
	return nil
}

func (r *Router) decodeNode(raw json.RawMessage, parent *EventFolder) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("cannot parse route event: %w", err)
	}

	if nameRaw, isFolder := obj[EventKeyFolderName]; isFolder {
		var name string
		if err := json.Unmarshal(nameRaw, &name); err != nil {
			return fmt.Errorf("invalid folder name: %w", err)
		}
		folder := r.root
		if !(parent == nil && name == RootFolderName) {
			folder = NewEventFolder(r.allocID(), name)
			target := parent
			if target == nil {
				target = r.root
			}
			target.insertChild(folder, -1)
			r.folderByName[name] = folder
		}
		if enabledRaw, ok := obj[keyEnabled]; ok {
			_ = json.Unmarshal(enabledRaw, &folder.enabled)
		}
		if expandedRaw, ok := obj[keyExpanded]; ok {
			_ = json.Unmarshal(expandedRaw, &folder.expanded)
		}
		if eventsRaw, ok := obj[keyEvents]; ok {
			var children []json.RawMessage
			if err := json.Unmarshal(eventsRaw, &children); err != nil {
				return fmt.Errorf("invalid folder contents for %q: %w", name, err)
			}
			for _, child := range children {
				if err := r.decodeNode(child, folder); err != nil {
					return err
				}
			}
		}
		return nil
	}

	def, err := DecodeDefinition(obj)
	if err != nil {
		return err
	}
	group := NewEventGroup(r.allocID(), def)
	target := parent
	if target == nil {
		target = r.root
	}
	target.insertChild(group, -1)
	r.noteDefinitionAdded(def)
	return nil
}

func statBlockDoc(block mon.StatBlock) map[string]int {
	return map[string]int{
		mon.StatHP:             block.HP,
		mon.StatAttack:         block.Attack,
		mon.StatDefense:        block.Defense,
		mon.StatSpecialAttack:  block.SpecialAttack,
		mon.StatSpecialDefense: block.SpecialDefense,
		mon.StatSpeed:          block.Speed,
	}
}

func statBlockFromDoc(rules gen.Rules, doc map[string]int) mon.StatBlock {
	return rules.MakeStatBlock(
		doc[mon.StatHP],
		doc[mon.StatAttack],
		doc[mon.StatDefense],
		doc[mon.StatSpecialAttack],
		doc[mon.StatSpecialDefense],
		doc[mon.StatSpeed],
		false,
	)
}
