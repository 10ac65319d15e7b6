package config

import (
	"fmt"
	"path/filepath"

	"github.com/statforge/statforge/internal/hierarchy"
	"github.com/statforge/statforge/internal/player"
)

// Expected layout of a game directory.
const (
	ConfigFile     = "config.yaml"
	StatsFile      = "stats.txt"
	AffinitiesFile = "affinities.txt"
	PlayersDir     = "players"
)

// Game holds everything loaded from a game directory: the configuration,
// the compiled stat and affinity trees and the player store. Built once at
// startup; the trees are immutable afterwards.
type Game struct {
	Dir        string
	Config     Config
	Stats      hierarchy.Forest
	Affinities hierarchy.Forest
	Players    *player.Store
}

// LoadGame reads a complete game directory and verifies its coherence.
// Any malformed or inconsistent resource aborts the load; the process must
// not start on a broken configuration.
func LoadGame(dir string) (*Game, error) {
	cfg, err := LoadConfig(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, err
	}

	stats, err := hierarchy.CompileFile(
		filepath.Join(dir, StatsFile),
		hierarchy.Options{MaxChildren: cfg.MaxChildrenPerNode},
	)
	if err != nil {
		return nil, err
	}

	affinities, err := hierarchy.CompileFile(filepath.Join(dir, AffinitiesFile), hierarchy.Options{})
	if err != nil {
		return nil, err
	}

	players, err := player.NewStore(filepath.Join(dir, PlayersDir))
	if err != nil {
		return nil, err
	}

	game := &Game{
		Dir:        dir,
		Config:     cfg,
		Stats:      stats,
		Affinities: affinities,
		Players:    players,
	}
	if err := game.CheckConsistency(); err != nil {
		return nil, fmt.Errorf("configuration consistency: %w", err)
	}
	return game, nil
}

// CheckConsistency cross-checks the loaded resources: affinities must refer
// to stats that exist, and every player record must agree with the stat and
// affinity trees. Violations identify the offending name and file.
func (g *Game) CheckConsistency() error {
	leaves := g.Stats.Leaves()

	leafIDs := make(map[string]bool, len(leaves))
	leafNames := make(map[string]bool, len(leaves))
	for _, leaf := range leaves {
		leafIDs[leaf.ID] = true
		leafNames[leaf.DisplayName] = true
	}

	statIDs := make(map[string]bool)
	for _, s := range g.Stats.Flatten() {
		statIDs[s.ID] = true
	}

	for _, affinity := range g.Affinities.Leaves() {
		if !statIDs[affinity.ID] {
			return fmt.Errorf("affinity %q does not match any stat", affinity.DisplayName)
		}
	}

	return g.Players.Each(func(p *player.Player) error {
		for stat := range p.Stats {
			if !leafNames[stat] {
				return fmt.Errorf("stat %q from file %s is not a leaf of the stat tree", stat, p.Path())
			}
		}
		for _, leaf := range leaves {
			if _, ok := p.Stats[leaf.DisplayName]; !ok {
				return fmt.Errorf("stat %q is missing from file %s", leaf.DisplayName, p.Path())
			}
		}
		for _, name := range p.Affinities.Major {
			if g.Affinities.FindByName(name) == nil {
				return fmt.Errorf("major affinity %q from file %s is not in the affinity tree", name, p.Path())
			}
		}
		for _, name := range p.Affinities.Minor {
			if g.Affinities.FindByName(name) == nil {
				return fmt.Errorf("minor affinity %q from file %s is not in the affinity tree", name, p.Path())
			}
		}
		for _, talent := range p.Talents {
			if !leafNames[talent] {
				return fmt.Errorf("talent %q from file %s is not a leaf of the stat tree", talent, p.Path())
			}
		}
		for stat := range p.Modifiers {
			if !leafNames[stat] {
				return fmt.Errorf("modifier for unknown stat %q in file %s", stat, p.Path())
			}
		}
		return nil
	})
}
