// Package session drives one interactive drill-down-and-resolve cycle: the
// user descends the stat tree one choice at a time, and reaching a leaf
// resolves a check roll against it. One Machine instance serves exactly one
// session; concurrent users get independent instances.
package session

import "github.com/statforge/statforge/internal/hierarchy"

// AbortID is the distinguished choice identifier that cancels a session.
const AbortID = "abort"

// Phase is the state of a selection machine. Choosing is the only
// non-terminal phase.
type Phase int

const (
	PhaseChoosing Phase = iota
	PhaseResolved
	PhaseAborted
	PhaseTimedOut
	PhaseInvalid
)

func (p Phase) String() string {
	switch p {
	case PhaseChoosing:
		return "choosing"
	case PhaseResolved:
		return "resolved"
	case PhaseAborted:
		return "aborted"
	case PhaseTimedOut:
		return "timed out"
	case PhaseInvalid:
		return "invalid selection"
	}
	return "unknown"
}

// Machine is the selection state machine. It suspends between Resume calls;
// the surrounding scheduler owns the waiting and the timeout so the walk
// itself stays synchronous and testable.
type Machine struct {
	phase      Phase
	candidates []*hierarchy.Node
	path       []string
	leaf       *hierarchy.Node
}

// NewMachine starts a machine over the top-level stats.
func NewMachine(stats hierarchy.Forest) *Machine {
	return &Machine{
		phase:      PhaseChoosing,
		candidates: stats,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Candidates returns the nodes currently offered for selection.
func (m *Machine) Candidates() []*hierarchy.Node {
	return m.candidates
}

// Path returns the display names chosen so far, root first.
func (m *Machine) Path() []string {
	return m.path
}

// Leaf returns the resolved leaf, or nil before resolution.
func (m *Machine) Leaf() *hierarchy.Node {
	return m.leaf
}

// Resume feeds one choice event into the machine and returns the resulting
// phase. A choice naming a group descends into its children; a leaf choice
// resolves the session; AbortID aborts it. An identifier not present in the
// current candidate set marks the session as desynchronized and terminates
// it instead of guessing. Events after a terminal phase are ignored.
func (m *Machine) Resume(choiceID string) Phase {
	if m.phase != PhaseChoosing {
		return m.phase
	}

	if choiceID == AbortID {
		m.phase = PhaseAborted
		return m.phase
	}

	var chosen *hierarchy.Node
	for _, n := range m.candidates {
		if n.ID == choiceID {
			chosen = n
			break
		}
	}
	if chosen == nil {
		m.phase = PhaseInvalid
		return m.phase
	}

	m.path = append(m.path, chosen.DisplayName)
	if chosen.IsLeaf() {
		m.leaf = chosen
		m.phase = PhaseResolved
	} else {
		m.candidates = chosen.Children
	}
	return m.phase
}

// Timeout marks the session as expired. Expiry is a normal terminal
// outcome, not an error.
func (m *Machine) Timeout() Phase {
	if m.phase == PhaseChoosing {
		m.phase = PhaseTimedOut
	}
	return m.phase
}
