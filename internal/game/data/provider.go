package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soloroute/soloroute/internal/game/mon"
)

// ErrNotFound wraps every failed database lookup.
var ErrNotFound = errors.New("not found")

// SpeciesDB holds every species keyed by sanitized name.
type SpeciesDB struct {
	byName map[string]mon.PokemonSpecies
	names  []string
}

// Species looks up a species by name, tolerant of case and punctuation.
func (db *SpeciesDB) Species(name string) (mon.PokemonSpecies, error) {
	s, ok := db.byName[mon.SanitizeName(name)]
	if !ok {
		return mon.PokemonSpecies{}, fmt.Errorf("species %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// AllNames returns every species name in load order, optionally filtered to
// one growth rate.
func (db *SpeciesDB) AllNames(growthRate string) []string {
	var result []string
	for _, name := range db.names {
		if growthRate == "" || db.byName[mon.SanitizeName(name)].GrowthRate == growthRate {
			result = append(result, name)
		}
	}
	return result
}

// MoveDB holds every move keyed by sanitized name.
type MoveDB struct {
	byName map[string]mon.Move
	names  []string
}

// Move looks up a move by name, tolerant of case and punctuation.
func (db *MoveDB) Move(name string) (mon.Move, error) {
	m, ok := db.byName[mon.SanitizeName(name)]
	if !ok {
		return mon.Move{}, fmt.Errorf("move %q: %w", name, ErrNotFound)
	}
	return m, nil
}

// AllNames returns every move name in load order.
func (db *MoveDB) AllNames() []string {
	return append([]string(nil), db.names...)
}

// ItemDB holds every item keyed by sanitized name, with secondary views by
// mart and by kind.
type ItemDB struct {
	byName    map[string]mon.Item
	names     []string
	keyItems  []string
	tms       []string
	martItems map[string][]string
}

// Item looks up an item by name, tolerant of case and punctuation.
func (db *ItemDB) Item(name string) (mon.Item, error) {
	i, ok := db.byName[mon.SanitizeName(name)]
	if !ok {
		return mon.Item{}, fmt.Errorf("item %q: %w", name, ErrNotFound)
	}
	return i, nil
}

// AllNames returns every item name in load order.
func (db *ItemDB) AllNames() []string {
	return append([]string(nil), db.names...)
}

// KeyItemNames returns the key items in load order.
func (db *ItemDB) KeyItemNames() []string {
	return append([]string(nil), db.keyItems...)
}

// TMNames returns the TM/HM items in load order.
func (db *ItemDB) TMNames() []string {
	return append([]string(nil), db.tms...)
}

// MartItems returns the item names stocked by a mart.
func (db *ItemDB) MartItems(mart string) []string {
	return append([]string(nil), db.martItems[mart]...)
}

// TrainerDB holds every trainer party spec keyed by sanitized name. Parties
// stay as raw records; the generation rules realize them into EnemyMons.
type TrainerDB struct {
	byName  map[string]TrainerRecord
	byID    map[int]TrainerRecord
	byLoc   map[string][]string
	byClass map[string][]string
	names   []string
}

// Trainer looks up a trainer by name, tolerant of case and punctuation.
func (db *TrainerDB) Trainer(name string) (TrainerRecord, error) {
	t, ok := db.byName[mon.SanitizeName(name)]
	if !ok {
		return TrainerRecord{}, fmt.Errorf("trainer %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// TrainerByID looks up a trainer by numeric id.
func (db *TrainerDB) TrainerByID(id int) (TrainerRecord, bool) {
	t, ok := db.byID[id]
	return t, ok
}

// AllNames returns every trainer name in load order.
func (db *TrainerDB) AllNames() []string {
	return append([]string(nil), db.names...)
}

// Locations returns every location that has at least one trainer.
func (db *TrainerDB) Locations() []string {
	result := make([]string, 0, len(db.byLoc))
	for loc := range db.byLoc {
		result = append(result, loc)
	}
	return result
}

// TrainersAt returns the trainer names at a location.
func (db *TrainerDB) TrainersAt(location string) []string {
	return append([]string(nil), db.byLoc[location]...)
}

// Classes returns every trainer class present.
func (db *TrainerDB) Classes() []string {
	result := make([]string, 0, len(db.byClass))
	for class := range db.byClass {
		result = append(result, class)
	}
	return result
}

// Provider bundles every database for one game version plus the type
// metadata the damage formulas need.
type Provider struct {
	Species  *SpeciesDB
	Moves    *MoveDB
	Items    *ItemDB
	Trainers *TrainerDB

	// TypeChart maps attacking type -> defending type -> effectiveness.
	TypeChart    map[string]map[string]string
	SpecialTypes []string

	statModMoves map[string][]mon.StatMod
	statModNames []string
}

// The file names Load expects inside a version's data directory.
const (
	speciesFile  = "species.yaml"
	movesFile    = "moves.yaml"
	itemsFile    = "items.yaml"
	trainersFile = "trainers.yaml"
	typesFile    = "types.yaml"
)

type speciesFileRecord struct {
	Pokemon []SpeciesRecord `yaml:"pokemon"`
}

type movesFileRecord struct {
	Moves []MoveRecord `yaml:"moves"`
}

type itemsFileRecord struct {
	Items []ItemRecord `yaml:"items"`
}

type trainersFileRecord struct {
	Trainers []TrainerRecord `yaml:"trainers"`
}

func loadYAML(dir, name string, out any) error {
	path := filepath.Join(dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("cannot parse %q: %w", path, err)
	}
	return nil
}

// Load reads every database file from dir, validates each record, then runs
// the aggregate cross-reference pass.
//
// Postcondition: the returned Provider's lookups only fail with ErrNotFound
// for names genuinely absent from the files.
func Load(dir string) (*Provider, error) {
	var speciesDoc speciesFileRecord
	if err := loadYAML(dir, speciesFile, &speciesDoc); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	var movesDoc movesFileRecord
	if err := loadYAML(dir, movesFile, &movesDoc); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	var itemsDoc itemsFileRecord
	if err := loadYAML(dir, itemsFile, &itemsDoc); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	var trainersDoc trainersFileRecord
	if err := loadYAML(dir, trainersFile, &trainersDoc); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	var typesDoc TypesRecord
	if err := loadYAML(dir, typesFile, &typesDoc); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	var problems []string
	speciesDB := &SpeciesDB{byName: make(map[string]mon.PokemonSpecies, len(speciesDoc.Pokemon))}
	for i := range speciesDoc.Pokemon {
		rec := &speciesDoc.Pokemon[i]
		if err := rec.Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		speciesDB.byName[mon.SanitizeName(rec.Name)] = rec.Species()
		speciesDB.names = append(speciesDB.names, rec.Name)
	}

	moveDB := &MoveDB{byName: make(map[string]mon.Move, len(movesDoc.Moves))}
	for i := range movesDoc.Moves {
		rec := &movesDoc.Moves[i]
		if err := rec.Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		moveDB.byName[mon.SanitizeName(rec.Name)] = rec.Move()
		moveDB.names = append(moveDB.names, rec.Name)
	}

	itemDB := &ItemDB{
		byName:    make(map[string]mon.Item, len(itemsDoc.Items)),
		martItems: make(map[string][]string),
	}
	for i := range itemsDoc.Items {
		rec := &itemsDoc.Items[i]
		if err := rec.Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		item := rec.Item()
		itemDB.byName[mon.SanitizeName(item.Name)] = item
		itemDB.names = append(itemDB.names, item.Name)
		if item.IsKeyItem {
			itemDB.keyItems = append(itemDB.keyItems, item.Name)
		}
		if item.IsTMHM() {
			itemDB.tms = append(itemDB.tms, item.Name)
		}
		for _, mart := range item.Marts {
			itemDB.martItems[mart] = append(itemDB.martItems[mart], item.Name)
		}
	}

	trainerDB := &TrainerDB{
		byName:  make(map[string]TrainerRecord, len(trainersDoc.Trainers)),
		byID:    make(map[int]TrainerRecord),
		byLoc:   make(map[string][]string),
		byClass: make(map[string][]string),
	}
	for i := range trainersDoc.Trainers {
		rec := &trainersDoc.Trainers[i]
		if err := rec.Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		trainerDB.byName[mon.SanitizeName(rec.Name)] = *rec
		trainerDB.names = append(trainerDB.names, rec.Name)
		trainerDB.byID[rec.TrainerID] = *rec
		if rec.Location != "" {
			trainerDB.byLoc[rec.Location] = append(trainerDB.byLoc[rec.Location], rec.Name)
		}
		trainerDB.byClass[rec.Class] = append(trainerDB.byClass[rec.Class], rec.Name)
	}

	if err := typesDoc.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("Load: invalid records: %s", strings.Join(problems, "; "))
	}

	statModMoves := make(map[string][]mon.StatMod, len(typesDoc.StatModifierMoves))
	var statModNames []string
	for moveName, mods := range typesDoc.StatModifierMoves {
		converted := make([]mon.StatMod, len(mods))
		for i, m := range mods {
			converted[i] = mon.StatMod{Stat: m.Stat, Change: m.Change}
		}
		statModMoves[mon.SanitizeName(moveName)] = converted
		statModNames = append(statModNames, moveName)
	}

	p := &Provider{
		Species:      speciesDB,
		Moves:        moveDB,
		Items:        itemDB,
		Trainers:     trainerDB,
		TypeChart:    typesDoc.Chart,
		SpecialTypes: typesDoc.SpecialTypes,
		statModMoves: statModMoves,
		statModNames: statModNames,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	return p, nil
}

// Validate runs the aggregate cross-reference pass: every bad reference in
// every database is reported in a single error, so a data bug surfaces the
// whole blast radius at once instead of one lookup at a time.
func (p *Provider) Validate() error {
	var problems []string

	knownTypes := make(map[string]bool, len(p.TypeChart))
	for t := range p.TypeChart {
		knownTypes[t] = true
	}

	for _, name := range p.Species.AllNames("") {
		species, _ := p.Species.Species(name)
		if !knownTypes[species.FirstType] {
			problems = append(problems, fmt.Sprintf("species %q has unsupported type %q", name, species.FirstType))
		}
		if !knownTypes[species.SecondType] {
			problems = append(problems, fmt.Sprintf("species %q has unsupported type %q", name, species.SecondType))
		}
		for _, lm := range species.LevelupMoves {
			if _, err := p.Moves.Move(lm.Move); err != nil {
				problems = append(problems, fmt.Sprintf("species %q learns unsupported move %q", name, lm.Move))
			}
		}
		for _, moveName := range species.TMHMMoves {
			if _, err := p.Moves.Move(moveName); err != nil {
				problems = append(problems, fmt.Sprintf("species %q has unsupported TM/HM move %q", name, moveName))
			}
		}
	}

	for _, name := range p.Moves.AllNames() {
		move, _ := p.Moves.Move(name)
		if !knownTypes[move.MoveType] {
			problems = append(problems, fmt.Sprintf("move %q has unsupported type %q", name, move.MoveType))
		}
	}

	for _, name := range p.Trainers.AllNames() {
		trainer, _ := p.Trainers.Trainer(name)
		for _, slot := range trainer.Mons {
			if _, err := p.Species.Species(slot.Species); err != nil {
				problems = append(problems, fmt.Sprintf("trainer %q has unsupported species %q", name, slot.Species))
			}
			for _, moveName := range slot.SpecialMoves {
				if moveName == "" {
					continue
				}
				if _, err := p.Moves.Move(moveName); err != nil {
					problems = append(problems, fmt.Sprintf("trainer %q mon %q has unsupported move %q", name, slot.Species, moveName))
				}
			}
		}
	}

	for _, name := range p.Items.TMNames() {
		item, _ := p.Items.Item(name)
		if _, err := p.Moves.Move(item.MoveName); err != nil {
			problems = append(problems, fmt.Sprintf("TM/HM %q teaches unsupported move %q", name, item.MoveName))
		}
	}

	for _, moveName := range p.statModNames {
		if _, err := p.Moves.Move(moveName); err != nil {
			problems = append(problems, fmt.Sprintf("stat modifier table references unsupported move %q", moveName))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("database validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// StatModifiers returns the stage changes for a stat-modifying move, or nil
// if the move does not modify stats.
func (p *Provider) StatModifiers(moveName string) []mon.StatMod {
	return p.statModMoves[mon.SanitizeName(moveName)]
}

// StatModifierMoveNames returns the names of every stat-modifying move.
func (p *Provider) StatModifierMoveNames() []string {
	return append([]string(nil), p.statModNames...)
}
