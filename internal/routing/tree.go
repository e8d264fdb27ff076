package routing

import (
	"fmt"
	"strings"

	"github.com/soloroute/soloroute/internal/game/gen"
)

// NodeID identifies a folder, group, or item within one route. IDs are
// stable across replays for folders and groups; items are rebuilt (and
// renumbered) on every replay.
type NodeID int

// InvalidNodeID is never assigned.
const InvalidNodeID NodeID = 0

// RootFolderName is the fixed name of the route's top folder.
const RootFolderName = "ROOT"

// AfterFinalMonLabel marks a level-up move learned after the last knockout
// of a battle.
const AfterFinalMonLabel = "after_final_mon"

// applyCtx carries what a replay needs besides the state: the rule set, the
// route's level-up move table, and the item ID allocator.
type applyCtx struct {
	rules  gen.Rules
	lookup func(level int, monName string) []*LearnMoveEventDefinition
	alloc  func() NodeID
}

// EventNode is a folder or an event group in the route tree.
type EventNode interface {
	ID() NodeID
	Name() string
	InitState() RouteState
	FinalState() RouteState
	Enabled() bool
	HasErrors() bool
	ContainsID(id NodeID) bool

	apply(ctx *applyCtx, state RouteState) RouteState
	marshal() map[string]any
}

// EventItem is one applied step of a group: a single knockout, one vitamin
// dose, one candy, or an injected level-up move learn.
type EventItem struct {
	id           NodeID
	Definition   EventDefinition
	Args         *ItemArgs
	initState    RouteState
	finalState   RouteState
	errorMessage string
	// AfterLabel names the enemy an injected move learn precedes, or
	// AfterFinalMonLabel when the learn closes the battle.
	AfterLabel string
}

func newEventItem(ctx *applyCtx, def EventDefinition, args *ItemArgs, state RouteState) *EventItem {
	item := &EventItem{id: ctx.alloc(), Definition: def, Args: args, initState: state}
	next, errMsg := def.Apply(ctx.rules, state, args)
	if notes := def.Meta().Notes; errMsg == "" && strings.HasPrefix(notes, RecordingErrorFragment) {
		errMsg = notes
	}
	item.finalState = next
	item.errorMessage = errMsg
	return item
}

func (e *EventItem) ID() NodeID { return e.id }

func (e *EventItem) Name() string {
	if e.Args != nil && e.Definition.IsBattle() {
		return fmt.Sprintf("%s (#%d %s)", e.Definition.DescribeItem(), e.Args.ToDefeat.MonOrder, e.Args.ToDefeat.Species)
	}
	return e.Definition.DescribeItem()
}

func (e *EventItem) InitState() RouteState  { return e.initState }
func (e *EventItem) FinalState() RouteState { return e.finalState }
func (e *EventItem) Error() string          { return e.errorMessage }
func (e *EventItem) HasErrors() bool        { return e.errorMessage != "" }

// EventGroup is one event definition plus the items it expanded to on the
// last replay.
type EventGroup struct {
	id         NodeID
	parent     *EventFolder
	Definition EventDefinition

	items        []*EventItem
	initState    RouteState
	finalState   RouteState
	name         string
	errorMessage string
}

// NewEventGroup wraps a definition; the group stays empty until a replay.
func NewEventGroup(id NodeID, def EventDefinition) *EventGroup {
	return &EventGroup{id: id, Definition: def, name: def.Describe()}
}

func (g *EventGroup) ID() NodeID             { return g.id }
func (g *EventGroup) Name() string           { return g.name }
func (g *EventGroup) InitState() RouteState  { return g.initState }
func (g *EventGroup) FinalState() RouteState { return g.finalState }
func (g *EventGroup) Enabled() bool          { return g.Definition.Meta().Enabled }
func (g *EventGroup) Items() []*EventItem    { return g.items }
func (g *EventGroup) Parent() *EventFolder   { return g.parent }

func (g *EventGroup) HasErrors() bool {
	if g.errorMessage != "" {
		return true
	}
	for _, item := range g.items {
		if item.HasErrors() {
			return true
		}
	}
	return false
}

func (g *EventGroup) ContainsID(id NodeID) bool {
	if g.id == id {
		return true
	}
	for _, item := range g.items {
		if item.id == id {
			return true
		}
	}
	return false
}

// apply replays the group twice when it gains levels: once to discover the
// levels reached, then again with the matching level-up moves so each learn
// lands on the exact item.
func (g *EventGroup) apply(ctx *applyCtx, state RouteState) RouteState {
	out := g.expand(ctx, state, nil)
	if ctx.lookup == nil || !g.Enabled() {
		return out
	}

	prevLevel := state.Mon.CurLevel
	postLevel := out.Mon.CurLevel
	if postLevel <= prevLevel {
		return out
	}

	// Match against both species names in case the group evolved the mon.
	names := []string{state.Mon.Name}
	if out.Mon.Name != state.Mon.Name {
		names = append(names, out.Mon.Name)
	}
	var defs []*LearnMoveEventDefinition
	for level := prevLevel + 1; level <= postLevel; level++ {
		for _, name := range names {
			defs = append(defs, ctx.lookup(level, name)...)
		}
	}
	if len(defs) == 0 {
		return out
	}
	return g.expand(ctx, state, defs)
}

// expand turns the definition into items and threads the state through
// them, learning the given level-up moves at the exact item that reaches
// their level. Moves still pending when the items run out are learned at
// the end.
func (g *EventGroup) expand(ctx *applyCtx, state RouteState, learnDefs []*LearnMoveEventDefinition) RouteState {
	g.initState = state
	g.items = nil
	g.errorMessage = ""

	if !g.Definition.Meta().Enabled {
		g.name = "Disabled: " + g.Definition.Describe()
		g.finalState = state
		return state
	}

	argsList, err := g.Definition.GenerateItemArgs(ctx.rules)
	if err != nil {
		g.errorMessage = err.Error()
		g.name = g.errorMessage
		g.finalState = state
		return state
	}

	pending := append([]*LearnMoveEventDefinition(nil), learnDefs...)
	cur := state
	var errs []string
	for i, args := range argsList {
		item := newEventItem(ctx, g.Definition, args, cur)
		g.items = append(g.items, item)
		if item.HasErrors() {
			errs = append(errs, item.errorMessage)
		}
		next := item.finalState

		if next.Mon.CurLevel != cur.Mon.CurLevel && len(pending) > 0 {
			label := AfterFinalMonLabel
			if i+1 < len(argsList) && argsList[i+1] != nil {
				label = fmt.Sprintf("#%d %s", argsList[i+1].ToDefeat.MonOrder, argsList[i+1].ToDefeat.Species)
			}
			next = g.learnPending(ctx, &pending, next, label, &errs, false)
		}
		cur = next
	}
	cur = g.learnPending(ctx, &pending, cur, AfterFinalMonLabel, &errs, true)

	g.errorMessage = strings.Join(errs, ", ")
	if g.errorMessage != "" {
		g.name = g.errorMessage
	} else {
		g.name = g.Definition.Describe()
	}
	g.finalState = cur
	return cur
}

// learnPending applies the pending move learns that match the current level
// (or all of them when flushing), removing each one applied.
func (g *EventGroup) learnPending(ctx *applyCtx, pending *[]*LearnMoveEventDefinition, state RouteState, label string, errs *[]string, flush bool) RouteState {
	cur := state
	remaining := (*pending)[:0]
	for _, def := range *pending {
		if !flush && !def.Matches(cur.Mon.CurLevel, cur.Mon.Name) {
			remaining = append(remaining, def)
			continue
		}
		item := newEventItem(ctx, def, nil, cur)
		item.AfterLabel = label
		g.items = append(g.items, item)
		if item.HasErrors() {
			*errs = append(*errs, item.errorMessage)
		}
		cur = item.finalState
	}
	*pending = remaining
	return cur
}

// marshal renders the group as its definition's route-file object.
func (g *EventGroup) marshal() map[string]any {
	return MarshalDefinition(g.Definition)
}

// EventFolder is an ordered container of folders and groups.
type EventFolder struct {
	id       NodeID
	parent   *EventFolder
	name     string
	enabled  bool
	expanded bool
	children []EventNode

	initState  RouteState
	finalState RouteState
}

// NewEventFolder builds an empty, enabled, expanded folder.
func NewEventFolder(id NodeID, name string) *EventFolder {
	return &EventFolder{id: id, name: name, enabled: true, expanded: true}
}

func (f *EventFolder) ID() NodeID             { return f.id }
func (f *EventFolder) Name() string           { return f.name }
func (f *EventFolder) InitState() RouteState  { return f.initState }
func (f *EventFolder) FinalState() RouteState { return f.finalState }
func (f *EventFolder) Enabled() bool          { return f.enabled }
func (f *EventFolder) Expanded() bool         { return f.expanded }
func (f *EventFolder) Children() []EventNode  { return f.children }
func (f *EventFolder) Parent() *EventFolder   { return f.parent }

// SetEnabled toggles whether the folder's events replay.
func (f *EventFolder) SetEnabled(enabled bool) { f.enabled = enabled }

// SetExpanded records the display state; it has no replay effect.
func (f *EventFolder) SetExpanded(expanded bool) { f.expanded = expanded }

func (f *EventFolder) HasErrors() bool {
	for _, child := range f.children {
		if child.HasErrors() {
			return true
		}
	}
	return false
}

func (f *EventFolder) ContainsID(id NodeID) bool {
	if f.id == id {
		return true
	}
	for _, child := range f.children {
		if child.ContainsID(id) {
			return true
		}
	}
	return false
}

// apply replays the folder's children in order.
func (f *EventFolder) apply(ctx *applyCtx, state RouteState) RouteState {
	f.initState = state
	if !f.enabled {
		f.finalState = state
		return state
	}

	cur := state
	for _, child := range f.children {
		cur = child.apply(ctx, cur)
	}
	f.finalState = cur
	return cur
}

func (f *EventFolder) indexOfChild(id NodeID) int {
	for i, child := range f.children {
		if child.ID() == id {
			return i
		}
	}
	return -1
}

// insertChild places the node at the index, reparenting it; an out-of-range
// index appends.
func (f *EventFolder) insertChild(node EventNode, idx int) {
	setParent(node, f)
	if idx < 0 || idx >= len(f.children) {
		f.children = append(f.children, node)
		return
	}
	f.children = append(f.children, nil)
	copy(f.children[idx+1:], f.children[idx:])
	f.children[idx] = node
}

func (f *EventFolder) removeChild(id NodeID) EventNode {
	idx := f.indexOfChild(id)
	if idx < 0 {
		return nil
	}
	node := f.children[idx]
	f.children = append(f.children[:idx], f.children[idx+1:]...)
	setParent(node, nil)
	return node
}

func setParent(node EventNode, parent *EventFolder) {
	switch n := node.(type) {
	case *EventFolder:
		n.parent = parent
	case *EventGroup:
		n.parent = parent
	}
}

// marshal renders the folder with its children, recursively.
func (f *EventFolder) marshal() map[string]any {
	events := make([]map[string]any, len(f.children))
	for i, child := range f.children {
		events[i] = child.marshal()
	}
	return map[string]any{
		EventKeyFolderName: f.name,
		keyEnabled:         f.enabled,
		keyExpanded:        f.expanded,
		keyEvents:          events,
	}
}
