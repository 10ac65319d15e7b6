package session

import (
	"fmt"
	"strings"
)

// OutcomeKind classifies how a session ended.
type OutcomeKind int

const (
	OutcomeResolved OutcomeKind = iota
	OutcomeAborted
	OutcomeTimedOut
	OutcomeInvalid
)

// Stat tags reported with a resolved roll.
const (
	TagTalent        = "talent"
	TagMajorAffinity = "major affinity"
	TagMinorAffinity = "minor affinity"
)

// Outcome is the structured result of one session, handed to the transport
// for rendering. Only OutcomeResolved carries roll data; the other kinds
// carry a human-readable Reason and guarantee that no player record was
// touched.
type Outcome struct {
	Kind   OutcomeKind
	Reason string

	Identity   string
	PlayerName string
	HasPlayer  bool

	StatPath []string
	Stat     string
	Tags     []string

	Roll      int
	Mastery   int
	Modifier  int
	Threshold int
	Success   bool

	ExperienceDelta int
	LevelUp         bool
}

// Summary renders the outcome the way the chat transport presents it.
func (o *Outcome) Summary() string {
	switch o.Kind {
	case OutcomeAborted, OutcomeTimedOut, OutcomeInvalid:
		return o.Reason
	}

	var b strings.Builder
	if o.PlayerName != "" {
		fmt.Fprintf(&b, "*%s*\n", o.PlayerName)
	}
	fmt.Fprintf(&b, "*%s*", strings.Join(o.StatPath, " > "))
	if len(o.Tags) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(o.Tags, ", "))
	}
	fmt.Fprintf(&b, ": %d", o.Roll)

	if !o.HasPlayer {
		return b.String()
	}

	fmt.Fprintf(&b, "/%d", o.Threshold)
	if o.Modifier != 0 {
		fmt.Fprintf(&b, " (mastery %d%+d)", o.Mastery, o.Modifier)
	}
	if o.Success {
		b.WriteString("\n*Success*")
	} else {
		b.WriteString("\n*Failure*")
	}
	if o.LevelUp {
		b.WriteString("\nMastery increased!")
	}
	return b.String()
}
