// Package testutil provides test helpers, including a small but fully
// cross-consistent game-data fixture that loads cleanly through the
// aggregate validation pass.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FixtureSpecies is the YAML for the fixture's species database.
const FixtureSpecies = `pokemon:
  - name: Squirtle
    growth_rate: growth_medium_slow
    base_exp: 66
    first_type: Water
    stats: {hp: 44, attack: 48, defense: 65, special_attack: 50, special_defense: 64, speed: 43}
    levelup_moves:
      - {level: 1, move: Tackle}
      - {level: 4, move: Tail Whip}
      - {level: 8, move: Water Gun}
    tmhm_moves: [Seismic Toss, Double Kick]
    stat_exp_yield: {hp: 44, attack: 48, defense: 65, special_attack: 50, special_defense: 64, speed: 43}
    abilities: [Torrent]
  - name: Wartortle
    growth_rate: growth_medium_slow
    base_exp: 142
    first_type: Water
    stats: {hp: 59, attack: 63, defense: 80, special_attack: 65, special_defense: 80, speed: 58}
    levelup_moves:
      - {level: 1, move: Tackle}
      - {level: 4, move: Tail Whip}
      - {level: 8, move: Water Gun}
      - {level: 15, move: Bite}
    tmhm_moves: [Seismic Toss, Double Kick]
    stat_exp_yield: {hp: 59, attack: 63, defense: 80, special_attack: 65, special_defense: 80, speed: 58}
    abilities: [Torrent]
  - name: Pidgey
    growth_rate: growth_medium_slow
    base_exp: 55
    first_type: Normal
    second_type: Flying
    stats: {hp: 40, attack: 45, defense: 40, special_attack: 35, special_defense: 35, speed: 56}
    levelup_moves:
      - {level: 1, move: Gust}
      - {level: 12, move: Quick Attack}
    stat_exp_yield: {hp: 40, attack: 45, defense: 40, special_attack: 35, special_defense: 35, speed: 56}
  - name: Geodude
    growth_rate: growth_medium_slow
    base_exp: 86
    first_type: Rock
    second_type: Ground
    stats: {hp: 40, attack: 80, defense: 100, special_attack: 30, special_defense: 30, speed: 20}
    levelup_moves:
      - {level: 1, move: Tackle}
      - {level: 11, move: Rock Throw}
    stat_exp_yield: {hp: 40, attack: 80, defense: 100, special_attack: 30, special_defense: 30, speed: 20}
  - name: Onix
    growth_rate: growth_medium_fast
    base_exp: 108
    first_type: Rock
    second_type: Ground
    stats: {hp: 35, attack: 45, defense: 160, special_attack: 30, special_defense: 45, speed: 70}
    levelup_moves:
      - {level: 1, move: Tackle}
      - {level: 13, move: Rock Throw}
    stat_exp_yield: {hp: 35, attack: 45, defense: 160, special_attack: 30, special_defense: 45, speed: 70}
  - name: Gastly
    growth_rate: growth_medium_slow
    base_exp: 95
    first_type: Ghost
    second_type: Poison
    stats: {hp: 30, attack: 35, defense: 30, special_attack: 100, special_defense: 35, speed: 80}
    levelup_moves:
      - {level: 1, move: Lick}
    stat_exp_yield: {hp: 30, attack: 35, defense: 30, special_attack: 100, special_defense: 35, speed: 80}
`

// FixtureMoves is the YAML for the fixture's move database.
const FixtureMoves = `moves:
  - {name: Tackle, accuracy: 95, pp: 35, base_power: 35, move_type: Normal}
  - {name: Quick Attack, accuracy: 100, pp: 30, base_power: 40, move_type: Normal}
  - {name: Bite, accuracy: 100, pp: 25, base_power: 60, move_type: Normal}
  - {name: Tail Whip, accuracy: 100, pp: 30, base_power: 0, move_type: Normal}
  - {name: Growl, accuracy: 100, pp: 40, base_power: 0, move_type: Normal}
  - {name: Swords Dance, accuracy: 100, pp: 30, base_power: 0, move_type: Normal}
  - {name: Water Gun, accuracy: 100, pp: 25, base_power: 40, move_type: Water}
  - {name: Thunderbolt, accuracy: 100, pp: 15, base_power: 95, move_type: Electric}
  - {name: Gust, accuracy: 100, pp: 35, base_power: 35, move_type: Flying}
  - {name: Lick, accuracy: 100, pp: 30, base_power: 20, move_type: Ghost}
  - {name: Rock Throw, accuracy: 65, pp: 15, base_power: 50, move_type: Rock}
  - {name: Sonicboom, accuracy: 90, pp: 20, base_power: 1, move_type: Normal, effect: fixed_damage}
  - {name: Dragon Rage, accuracy: 100, pp: 10, base_power: 1, move_type: Dragon, effect: fixed_damage}
  - {name: Seismic Toss, accuracy: 100, pp: 20, base_power: 1, move_type: Fighting, effect: level_damage}
  - {name: Psywave, accuracy: 80, pp: 15, base_power: 1, move_type: Psychic, effect: psywave}
  - {name: Slash, accuracy: 100, pp: 20, base_power: 70, move_type: Normal, effect: high_crit}
  - {name: Fury Attack, accuracy: 85, pp: 20, base_power: 15, move_type: Normal, effect: multi_hit}
  - {name: Double Kick, accuracy: 100, pp: 30, base_power: 30, move_type: Fighting, effect: two_hit}
  - {name: Light Screen, accuracy: 100, pp: 30, base_power: 0, move_type: Psychic}
  - {name: Reflect, accuracy: 100, pp: 20, base_power: 0, move_type: Psychic}
  - {name: Explosion, accuracy: 100, pp: 5, base_power: 170, move_type: Normal}
  - {name: Selfdestruct, accuracy: 100, pp: 5, base_power: 130, move_type: Normal}
`

// FixtureItems is the YAML for the fixture's item database.
const FixtureItems = `items:
  - {name: Potion, purchase_price: 300, marts: [Viridian City, Pewter City]}
  - {name: HP Up, purchase_price: 9800, marts: [Celadon City]}
  - {name: Protein, purchase_price: 9800, marts: [Celadon City]}
  - {name: Iron, purchase_price: 9800, marts: [Celadon City]}
  - {name: Calcium, purchase_price: 9800, marts: [Celadon City]}
  - {name: Carbos, purchase_price: 9800, marts: [Celadon City]}
  - {name: Rare Candy, purchase_price: 4800}
  - {name: Nugget, purchase_price: 10000}
  - {name: Moon Stone, purchase_price: 2100}
  - {name: Water Stone, purchase_price: 2100, marts: [Celadon City]}
  - {name: Amulet Coin, purchase_price: 1000}
  - {name: "Oak's Parcel", key_item: true, purchase_price: 0}
  - {name: TM24, purchase_price: 2000, marts: [Celadon City], move_name: Thunderbolt}
  - {name: TM01, purchase_price: 3000, move_name: Double Kick}
`

// FixtureTrainers is the YAML for the fixture's trainer database.
const FixtureTrainers = `trainers:
  - name: Brock
    class: Leader
    location: Pewter Gym
    money: 990
    trainer_id: 1
    mons:
      - {species: Geodude, level: 12}
      - {species: Onix, level: 14}
  - name: Youngster Ben
    class: Youngster
    location: Route 3
    money: 220
    trainer_id: 2
    mons:
      - {species: Pidgey, level: 9}
      - {species: Pidgey, level: 9}
      - {species: Pidgey, level: 11}
  - name: Lass Janice
    class: Lass
    location: Route 3
    money: 150
    trainer_id: 3
    refightable: true
    mons:
      - {species: Pidgey, level: 10, special_moves: [Sonicboom, "", "", ""]}
`

// FixtureTypes is the YAML for the fixture's type metadata. Only non-neutral
// matchups appear in the chart; every supported type is present as a key.
const FixtureTypes = `chart:
  Normal:
    Rock: Not Very Effective
    Ghost: Immune
  Fighting:
    Normal: Super Effective
    Rock: Super Effective
    Flying: Not Very Effective
    Psychic: Not Very Effective
    Poison: Not Very Effective
    Ghost: Immune
  Flying:
    Fighting: Super Effective
    Rock: Not Very Effective
    Electric: Not Very Effective
  Poison:
    Rock: Not Very Effective
    Ghost: Not Very Effective
    Ground: Not Very Effective
    Poison: Not Very Effective
  Ground:
    Electric: Super Effective
    Rock: Super Effective
    Poison: Super Effective
    Flying: Immune
  Rock:
    Flying: Super Effective
    Fighting: Not Very Effective
    Ground: Not Very Effective
  Ghost:
    Ghost: Super Effective
    Normal: Immune
    Psychic: Immune
  Water:
    Rock: Super Effective
    Ground: Super Effective
    Water: Not Very Effective
    Dragon: Not Very Effective
  Electric:
    Water: Super Effective
    Flying: Super Effective
    Electric: Not Very Effective
    Dragon: Not Very Effective
    Ground: Immune
  Psychic:
    Fighting: Super Effective
    Poison: Super Effective
    Psychic: Not Very Effective
  Dragon:
    Dragon: Super Effective
special_types: [Water, Electric, Psychic, Dragon]
stat_modifier_moves:
  Swords Dance:
    - {stat: attack, change: 2}
  Growl:
    - {stat: attack, change: -1}
  Tail Whip:
    - {stat: defense, change: -1}
`

// FixtureVersion is the YAML for the fixture's version configuration.
const FixtureVersion = `version_name: Red
base_version_name: Red
badge_rewards:
  Brock: boulder
major_fights: [Brock]
fight_rewards:
  Brock: TM01
trainer_timing: {intro_seconds: 13.5, outro_seconds: 7.4, ko_seconds: 6.8, send_out_seconds: 2.2}
`

// WriteGameData writes the full fixture dataset into a fresh temp directory
// and returns its path.
func WriteGameData(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"species.yaml":  FixtureSpecies,
		"moves.yaml":    FixtureMoves,
		"items.yaml":    FixtureItems,
		"trainers.yaml": FixtureTrainers,
		"types.yaml":    FixtureTypes,
		"version.yaml":  FixtureVersion,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("cannot write fixture file %s: %v", name, err)
		}
	}
	return dir
}
