// Package main provides the route calculator binary: it loads the game data
// and a route file, replays the route, and prints the event tree with kill
// chances for every battle.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soloroute/soloroute/internal/config"
	"github.com/soloroute/soloroute/internal/game/damage"
	"github.com/soloroute/soloroute/internal/game/data"
	"github.com/soloroute/soloroute/internal/game/gen"
	"github.com/soloroute/soloroute/internal/game/gen1"
	"github.com/soloroute/soloroute/internal/game/growth"
	"github.com/soloroute/soloroute/internal/game/mon"
	"github.com/soloroute/soloroute/internal/observability"
	"github.com/soloroute/soloroute/internal/routing"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/routecalc.yaml", "path to configuration file")
	routePath := flag.String("route", "", "route file to load (overrides route.path)")
	species := flag.String("species", "", "solo mon species for a fresh route (overrides route.species)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *routePath != "" {
		cfg.Route.Path = *routePath
	}
	if *species != "" {
		cfg.Route.Species = *species
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	dataStart := time.Now()
	provider, err := data.Load(cfg.Data.Dir)
	if err != nil {
		logger.Fatal("loading game data", zap.Error(err))
	}
	versionCfg, err := gen1.LoadVersionConfig(filepath.Join(cfg.Data.Dir, "version.yaml"))
	if err != nil {
		logger.Fatal("loading version config", zap.Error(err))
	}
	rules, err := gen1.NewRules(provider, versionCfg, growth.NewCurveSet())
	if err != nil {
		logger.Fatal("building generation rules", zap.Error(err))
	}
	registry := gen.NewRegistry()
	if err := registry.Register(rules); err != nil {
		logger.Fatal("registering version", zap.Error(err))
	}
	logger.Info("game data loaded",
		zap.String("dir", cfg.Data.Dir),
		zap.String("version", rules.VersionName()),
		zap.Duration("elapsed", time.Since(dataStart)),
	)

	router := routing.NewRouter(registry, logger)
	if cfg.Route.Path != "" {
		if err := router.Load(cfg.Route.Path); err != nil {
			logger.Fatal("loading route", zap.Error(err))
		}
		logger.Info("route loaded", zap.String("path", cfg.Route.Path))
	} else {
		if cfg.Route.Species == "" {
			logger.Fatal("no route file given and no species configured for a fresh route")
		}
		if err := router.NewRoute(cfg.Data.Version, cfg.Route.Species); err != nil {
			logger.Fatal("starting route", zap.Error(err))
		}
		logger.Info("fresh route started", zap.String("species", cfg.Route.Species))
	}

	printer := &treePrinter{rules: rules, engine: cfg.Engine}
	printer.printFolder(router.Root(), 0)

	final := router.FinalState()
	fmt.Fprintf(os.Stdout, "\nfinal: %s Lv %d, HP %d, $%d [%s]\n",
		final.Mon.Species.Name, final.Mon.CurLevel, final.Mon.CurStats.HP,
		final.Inventory.Money, time.Since(start))
}

// treePrinter walks the replayed event tree and writes an indented text view
// to stdout, with per-move kill chances under every battle item.
type treePrinter struct {
	rules  gen.Rules
	engine config.EngineConfig
}

func (p *treePrinter) printFolder(folder *routing.EventFolder, depth int) {
	fmt.Fprintf(os.Stdout, "%s+ %s\n", indent(depth), folder.Name())
	for _, child := range folder.Children() {
		switch node := child.(type) {
		case *routing.EventFolder:
			p.printFolder(node, depth+1)
		case *routing.EventGroup:
			p.printGroup(node, depth+1)
		}
	}
}

func (p *treePrinter) printGroup(group *routing.EventGroup, depth int) {
	marker := " "
	if group.HasErrors() {
		marker = "!"
	}
	state := group.FinalState()
	fmt.Fprintf(os.Stdout, "%s%s %s  (Lv %d, $%d)\n",
		indent(depth), marker, group.Name(), state.Mon.CurLevel, state.Inventory.Money)

	for _, item := range group.Items() {
		if len(group.Items()) > 1 || item.HasErrors() {
			fmt.Fprintf(os.Stdout, "%s* %s\n", indent(depth+1), item.Name())
		}
		if item.HasErrors() {
			fmt.Fprintf(os.Stdout, "%s! %s\n", indent(depth+2), item.Error())
		}
		if item.Definition.IsBattle() && item.Args != nil {
			p.printKillChances(item, depth+2)
		}
	}
}

// printKillChances runs the kill search for every move the solo mon knows
// going into the battle item.
func (p *treePrinter) printKillChances(item *routing.EventItem, depth int) {
	attacker := item.InitState().Mon.BattleMon(p.rules, mon.StageModifiers{})
	defender := item.Args.ToDefeat

	for _, moveName := range attacker.MoveList {
		if moveName == "" {
			continue
		}
		move, err := p.rules.Move(moveName)
		if err != nil {
			continue
		}
		line := p.killChanceLine(attacker, move, defender)
		fmt.Fprintf(os.Stdout, "%s%s: %s\n", indent(depth), move.Name, line)
	}
}

func (p *treePrinter) killChanceLine(attacker mon.EnemyMon, move mon.Move, defender mon.EnemyMon) string {
	noStages := mon.StageModifiers{}
	noField := mon.FieldState{}

	dist, err := p.rules.CalculateDamage(attacker, move, defender,
		noStages, noStages, noField, noField, "", routing.WeatherNone, false, false)
	if err != nil {
		return "error: " + err.Error()
	}
	if dist == nil {
		return "no damage"
	}
	critDist, err := p.rules.CalculateDamage(attacker, move, defender,
		noStages, noStages, noField, noField, "", routing.WeatherNone, false, true)
	if err != nil || critDist == nil {
		critDist = dist
	}

	chances := damage.FindKillChances(
		dist, critDist,
		p.rules.CritRate(attacker, move, ""),
		p.rules.MoveAccuracy(attacker, move, "", defender, routing.WeatherNone),
		defender.CurStats.HP,
		p.engine.AttackDepth,
		p.engine.ForceFullSearch,
		p.engine.PercentCutoff,
	)
	if len(chances) == 0 {
		return fmt.Sprintf("no kill within %d attacks", p.engine.AttackDepth)
	}

	parts := make([]string, 0, len(chances))
	for _, kc := range chances {
		if kc.Probability < 0 {
			parts = append(parts, fmt.Sprintf("guaranteed in %d", kc.NumAttacks))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d hits %.2f%%", kc.NumAttacks, kc.Probability))
	}
	return strings.Join(parts, ", ")
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
