package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statforge/statforge/internal/hierarchy"
)

const aliceJSON = `{
  "affinities": {
    "major": [
      "Physical"
    ],
    "minor": [
      "Discretion"
    ]
  },
  "modifiers": {
    "Magic": -5
  },
  "name": "Alice",
  "stats": {
    "Discretion": 10,
    "Magic": 0,
    "Stamina": 120,
    "Strength": 40
  },
  "talents": [
    "Strength"
  ],
  "telegram_name": "alice"
}
`

func writePlayer(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func affinityForest(t *testing.T) hierarchy.Forest {
	t.Helper()
	forest, err := hierarchy.Compile([]string{
		"Physical",
		"    Strength",
		"    Stamina",
		"Discretion",
	}, hierarchy.Options{})
	require.NoError(t, err)
	return forest
}

func TestLoadAndAccessors(t *testing.T) {
	path := writePlayer(t, t.TempDir(), "alice.json", aliceJSON)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "alice", p.TelegramName)
	assert.Equal(t, path, p.Path())
	assert.Equal(t, 120, p.Experience("Stamina"))
	assert.Equal(t, 0, p.Experience("Magic"))
	assert.Equal(t, -5, p.Modifier("Magic"))
	assert.Equal(t, 0, p.Modifier("Strength"))
	assert.True(t, p.IsTalent("Strength"))
	assert.False(t, p.IsTalent("Stamina"))
}

func TestSaveIsStable(t *testing.T) {
	path := writePlayer(t, t.TempDir(), "alice.json", aliceJSON)

	p, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, p.Save())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, aliceJSON, string(after), "a load/save cycle must not reorder the record")
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := writePlayer(t, dir, "alice.json", aliceJSON)

	p, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, p.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice.json", entries[0].Name())
}

func TestAffinityResolution(t *testing.T) {
	path := writePlayer(t, t.TempDir(), "alice.json", aliceJSON)
	p, err := Load(path)
	require.NoError(t, err)

	forest := affinityForest(t)

	// Physical is a group: its children are major affinities.
	major, err := p.IsMajorAffinity("Strength", forest)
	require.NoError(t, err)
	assert.True(t, major)

	major, err = p.IsMajorAffinity("Stamina", forest)
	require.NoError(t, err)
	assert.True(t, major)

	// The group name itself is not a stat.
	major, err = p.IsMajorAffinity("Physical", forest)
	require.NoError(t, err)
	assert.False(t, major)

	// Discretion is a leaf affinity matching only itself.
	minor, err := p.IsMinorAffinity("Discretion", forest)
	require.NoError(t, err)
	assert.True(t, minor)

	minor, err = p.IsMinorAffinity("Strength", forest)
	require.NoError(t, err)
	assert.False(t, minor)
}

func TestAffinityUnknownName(t *testing.T) {
	path := writePlayer(t, t.TempDir(), "alice.json", aliceJSON)
	p, err := Load(path)
	require.NoError(t, err)
	p.Affinities.Major = []string{"Divination"}

	_, err = p.IsMajorAffinity("Strength", affinityForest(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Divination")
}

func TestStoreLookup(t *testing.T) {
	dir := t.TempDir()
	writePlayer(t, dir, "alice.json", aliceJSON)

	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	p, err := store.Lookup("alice")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Alice", p.Name)

	// Unknown identities are not an error, just an absent record.
	p, err = store.Lookup("bob")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStoreIgnoresNonRecords(t *testing.T) {
	dir := t.TempDir()
	writePlayer(t, dir, "alice.json", aliceJSON)
	writePlayer(t, dir, "notes.txt", "not a record")

	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestStoreRejectsMalformedRecord(t *testing.T) {
	dir := t.TempDir()
	writePlayer(t, dir, "broken.json", "{nope")

	_, err := NewStore(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestIncreaseExperiencePersists(t *testing.T) {
	dir := t.TempDir()
	path := writePlayer(t, dir, "alice.json", aliceJSON)

	store, err := NewStore(dir)
	require.NoError(t, err)

	updated, err := store.IncreaseExperience("alice", "Strength", 50)
	require.NoError(t, err)
	assert.Equal(t, 90, updated.Experience("Strength"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90, reloaded.Experience("Strength"))
}

func TestIncreaseExperienceNegativeDelta(t *testing.T) {
	dir := t.TempDir()
	writePlayer(t, dir, "alice.json", aliceJSON)

	store, err := NewStore(dir)
	require.NoError(t, err)

	updated, err := store.IncreaseExperience("alice", "Stamina", -20)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Experience("Stamina"))
}

func TestIncreaseExperienceUnknownStat(t *testing.T) {
	dir := t.TempDir()
	path := writePlayer(t, dir, "alice.json", aliceJSON)

	store, err := NewStore(dir)
	require.NoError(t, err)

	_, err = store.IncreaseExperience("alice", "Flight", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flight")

	// The record on disk must be untouched.
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, aliceJSON, string(after))
}

func TestIncreaseExperienceUnknownIdentity(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.IncreaseExperience("ghost", "Strength", 50)
	require.Error(t, err)
}

func TestIncreaseExperienceConcurrent(t *testing.T) {
	dir := t.TempDir()
	writePlayer(t, dir, "alice.json", aliceJSON)

	store, err := NewStore(dir)
	require.NoError(t, err)

	const workers = 8
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := store.IncreaseExperience("alice", "Strength", 10)
			done <- err
		}()
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, <-done)
	}

	p, err := store.Lookup("alice")
	require.NoError(t, err)
	assert.Equal(t, 40+workers*10, p.Experience("Strength"))
}
