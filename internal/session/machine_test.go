package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statforge/statforge/internal/hierarchy"
)

func testForest(t *testing.T) hierarchy.Forest {
	t.Helper()
	forest, err := hierarchy.Compile([]string{
		"Physical",
		"    Strength",
		"    Stamina",
		"Magic",
	}, hierarchy.Options{})
	require.NoError(t, err)
	return forest
}

func TestMachineDescendToLeaf(t *testing.T) {
	m := NewMachine(testForest(t))
	assert.Equal(t, PhaseChoosing, m.Phase())
	assert.Len(t, m.Candidates(), 2)

	phase := m.Resume("physical")
	assert.Equal(t, PhaseChoosing, phase)
	assert.Len(t, m.Candidates(), 2)
	assert.Equal(t, []string{"Physical"}, m.Path())

	phase = m.Resume("strength")
	assert.Equal(t, PhaseResolved, phase)
	require.NotNil(t, m.Leaf())
	assert.Equal(t, "Strength", m.Leaf().DisplayName)
	assert.Equal(t, []string{"Physical", "Strength"}, m.Path())
}

func TestMachineTopLevelLeaf(t *testing.T) {
	m := NewMachine(testForest(t))
	assert.Equal(t, PhaseResolved, m.Resume("magic"))
	assert.Equal(t, "Magic", m.Leaf().DisplayName)
}

func TestMachineAbort(t *testing.T) {
	m := NewMachine(testForest(t))
	assert.Equal(t, PhaseAborted, m.Resume(AbortID))
	assert.Nil(t, m.Leaf())
}

func TestMachineInvalidSelection(t *testing.T) {
	m := NewMachine(testForest(t))
	m.Resume("physical")
	// "magic" is valid at the top level but not among Physical's children:
	// the session is desynchronized and must terminate.
	assert.Equal(t, PhaseInvalid, m.Resume("magic"))
}

func TestMachineTimeout(t *testing.T) {
	m := NewMachine(testForest(t))
	assert.Equal(t, PhaseTimedOut, m.Timeout())
}

func TestMachineTerminalPhasesIgnoreEvents(t *testing.T) {
	m := NewMachine(testForest(t))
	m.Resume("magic")
	assert.Equal(t, PhaseResolved, m.Resume(AbortID))
	assert.Equal(t, PhaseResolved, m.Timeout())

	m = NewMachine(testForest(t))
	m.Resume(AbortID)
	assert.Equal(t, PhaseAborted, m.Resume("magic"))
}
