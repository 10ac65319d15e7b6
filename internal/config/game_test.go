package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `experience_earned_after_success: 50
experience_earned_after_failure: 25
`

const validStats = `Physical
    Strength
    Stamina
Magic
`

const validAffinities = `Physical
    Strength
    Stamina
Magic
`

const validPlayer = `{
  "affinities": {"major": ["Physical"], "minor": []},
  "name": "Alice",
  "stats": {"Magic": 0, "Stamina": 0, "Strength": 0},
  "talents": ["Strength"],
  "telegram_name": "alice"
}`

type gameFixture struct {
	config     string
	stats      string
	affinities string
	player     string
}

func writeGame(t *testing.T, f gameFixture) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", f.config)
	writeFile(t, dir, "stats.txt", f.stats)
	writeFile(t, dir, "affinities.txt", f.affinities)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "players"), 0755))
	if f.player != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "players", "alice.json"), []byte(f.player), 0644))
	}
	return dir
}

func validFixture() gameFixture {
	return gameFixture{
		config:     validConfig,
		stats:      validStats,
		affinities: validAffinities,
		player:     validPlayer,
	}
}

func TestLoadGameValid(t *testing.T) {
	game, err := LoadGame(writeGame(t, validFixture()))
	require.NoError(t, err)

	assert.Len(t, game.Stats, 2)
	assert.Len(t, game.Stats.Leaves(), 3)
	assert.Equal(t, 1, game.Players.Len())
}

func TestLoadGameNoPlayersIsValid(t *testing.T) {
	f := validFixture()
	f.player = ""
	game, err := LoadGame(writeGame(t, f))
	require.NoError(t, err)
	assert.Equal(t, 0, game.Players.Len())
}

func TestLoadGameAffinityNotAStat(t *testing.T) {
	f := validFixture()
	f.affinities = "Physical\n    Strength\n    Flight\n"
	_, err := LoadGame(writeGame(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flight")
}

func TestLoadGamePlayerMissingStat(t *testing.T) {
	f := validFixture()
	f.player = `{
  "affinities": {"major": [], "minor": []},
  "name": "Alice",
  "stats": {"Stamina": 0, "Strength": 0},
  "talents": [],
  "telegram_name": "alice"
}`
	_, err := LoadGame(writeGame(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Magic")
	assert.Contains(t, err.Error(), "alice.json")
}

func TestLoadGamePlayerExtraStat(t *testing.T) {
	f := validFixture()
	f.player = `{
  "affinities": {"major": [], "minor": []},
  "name": "Alice",
  "stats": {"Flight": 0, "Magic": 0, "Stamina": 0, "Strength": 0},
  "talents": [],
  "telegram_name": "alice"
}`
	_, err := LoadGame(writeGame(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flight")
}

func TestLoadGameUnknownAffinityReference(t *testing.T) {
	f := validFixture()
	f.player = `{
  "affinities": {"major": ["Divination"], "minor": []},
  "name": "Alice",
  "stats": {"Magic": 0, "Stamina": 0, "Strength": 0},
  "talents": [],
  "telegram_name": "alice"
}`
	_, err := LoadGame(writeGame(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Divination")
}

func TestLoadGameUnknownTalent(t *testing.T) {
	f := validFixture()
	f.player = `{
  "affinities": {"major": [], "minor": []},
  "name": "Alice",
  "stats": {"Magic": 0, "Stamina": 0, "Strength": 0},
  "talents": ["Physical"],
  "telegram_name": "alice"
}`
	_, err := LoadGame(writeGame(t, f))
	require.Error(t, err)
	// Physical is a stat group, not a leaf: it cannot be a talent.
	assert.Contains(t, err.Error(), "Physical")
}

func TestLoadGameGroupExperienceRejected(t *testing.T) {
	f := validFixture()
	f.player = `{
  "affinities": {"major": [], "minor": []},
  "name": "Alice",
  "stats": {"Magic": 0, "Physical": 0, "Stamina": 0, "Strength": 0},
  "talents": [],
  "telegram_name": "alice"
}`
	_, err := LoadGame(writeGame(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Physical")
}

func TestLoadGameDuplicateIdentity(t *testing.T) {
	dir := writeGame(t, validFixture())
	other := `{
  "affinities": {"major": [], "minor": []},
  "name": "Bob",
  "stats": {"Magic": 0, "Stamina": 0, "Strength": 0},
  "talents": [],
  "telegram_name": "alice"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "players", "bob.json"), []byte(other), 0644))
	_, err := LoadGame(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alice")
}

func TestLoadGameStatChildLimit(t *testing.T) {
	f := validFixture()
	f.config = validConfig + "max_children_per_node: 2\n"
	f.stats = "Physical\n    Strength\n    Stamina\n    Speed\nMagic\n"
	_, err := LoadGame(writeGame(t, f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Physical")
}
