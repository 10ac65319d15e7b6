package player

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/statforge/statforge/internal/hierarchy"
)

// Affinities holds the display names of the affinity groups a player has
// declared. Major affinities grant a larger learning bonus than minor ones.
type Affinities struct {
	Major []string `json:"major"`
	Minor []string `json:"minor"`
}

// Player is one player record, backed by exactly one JSON file in the
// players directory. Fields are declared in alphabetical order so that the
// serialized form is stable and diffs of player files stay readable.
type Player struct {
	path string

	Affinities   Affinities     `json:"affinities"`
	Modifiers    map[string]int `json:"modifiers,omitempty"`
	Name         string         `json:"name"`
	Stats        map[string]int `json:"stats"`
	Talents      []string       `json:"talents"`
	TelegramName string         `json:"telegram_name"`
}

// Load reads a player record from its backing file.
func Load(path string) (*Player, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var p Player
	if err := json.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	p.path = path
	return &p, nil
}

// Path returns the backing file of this record.
func (p *Player) Path() string {
	return p.path
}

// Save serializes the record with stable field order and writes it back to
// its backing file. The write goes through a temporary file and a rename so
// a failed write never leaves a truncated record behind.
func (p *Player) Save() error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize player %s: %w", p.Name, err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("could not save player %s: %w", p.Name, err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("could not save player %s: %w", p.Name, err)
	}
	return nil
}

// Experience returns the accumulated experience for a stat display name.
func (p *Player) Experience(stat string) int {
	return p.Stats[stat]
}

// Modifier returns the flat bonus or malus for a stat, defaulting to zero.
func (p *Player) Modifier(stat string) int {
	return p.Modifiers[stat]
}

// IsTalent reports whether the stat is one of the player's talents.
func (p *Player) IsTalent(stat string) bool {
	for _, t := range p.Talents {
		if t == stat {
			return true
		}
	}
	return false
}

// IsMajorAffinity reports whether the stat belongs to one of the player's
// major affinity groups.
func (p *Player) IsMajorAffinity(stat string, affinities hierarchy.Forest) (bool, error) {
	return inAffinities(stat, p.Affinities.Major, affinities)
}

// IsMinorAffinity reports whether the stat belongs to one of the player's
// minor affinity groups.
func (p *Player) IsMinorAffinity(stat string, affinities hierarchy.Forest) (bool, error) {
	return inAffinities(stat, p.Affinities.Minor, affinities)
}

// inAffinities resolves each declared affinity name in the affinity forest
// and tests whether the stat is the affinity itself (leaf) or one of its
// children (group).
func inAffinities(stat string, declared []string, affinities hierarchy.Forest) (bool, error) {
	for _, name := range declared {
		node := affinities.FindByName(name)
		if node == nil {
			return false, fmt.Errorf("affinity %q is not in the affinity tree", name)
		}
		if node.IsLeaf() {
			if node.DisplayName == stat {
				return true, nil
			}
			continue
		}
		for _, c := range node.Children {
			if c.DisplayName == stat {
				return true, nil
			}
		}
	}
	return false, nil
}
