package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/statforge/statforge/internal/config"
	"github.com/statforge/statforge/internal/dice"
	"github.com/statforge/statforge/internal/hierarchy"
	"github.com/statforge/statforge/internal/logging"
	"github.com/statforge/statforge/internal/mastery"
	"github.com/statforge/statforge/internal/player"
)

// ErrTimeout is returned by a Prompter when no choice arrived in time.
var ErrTimeout = errors.New("timed out waiting for an answer")

// Choice is one selectable option of a prompt.
type Choice struct {
	ID    string
	Label string
	Leaf  bool
}

// Prompter is the transport-side collaborator of a session. It renders a
// prompt with one option per choice plus an implicit abort, and blocks
// until the user answers, the context expires, or the transport fails.
type Prompter interface {
	PromptChoice(ctx context.Context, prompt string, choices []Choice) (string, error)
	PromptYesNo(ctx context.Context, question string) (bool, error)
}

// Runner executes roll sessions against a loaded game. It is safe for
// concurrent use; each BeginRoll call is an independent session and the
// player store is the only shared mutable resource.
type Runner struct {
	game  *config.Game
	curve *mastery.Curve
}

// NewRunner builds a runner, compiling the configured mastery curve.
func NewRunner(game *config.Game) (*Runner, error) {
	curve, err := mastery.NewCurve(masteryParams(game.Config), game.Config.MasteryExpression)
	if err != nil {
		return nil, err
	}
	return &Runner{game: game, curve: curve}, nil
}

func masteryParams(cfg config.Config) mastery.Params {
	return mastery.Params{
		LearningConstant: cfg.LearningConstant,
		TalentPct:        cfg.TalentIncreasePct,
		MajorPct:         cfg.MajorAffinityIncreasePct,
		MinorPct:         cfg.MinorAffinityIncreasePct,
	}
}

// Game returns the loaded game this runner rolls against.
func (r *Runner) Game() *config.Game {
	return r.game
}

// MasteryFor computes the current mastery of a player in one stat,
// including talent and affinity bonuses. Used by the summary command.
func (r *Runner) MasteryFor(p *player.Player, stat string) (int, error) {
	isMajor, err := p.IsMajorAffinity(stat, r.game.Affinities)
	if err != nil {
		return 0, err
	}
	isMinor, err := p.IsMinorAffinity(stat, r.game.Affinities)
	if err != nil {
		return 0, err
	}
	return r.curve.Mastery(p.Experience(stat), mastery.Context{
		Talent:        p.IsTalent(stat),
		MajorAffinity: isMajor,
		MinorAffinity: isMinor,
	})
}

// choiceTimeout bounds one suspension waiting for a user answer.
func (r *Runner) choiceTimeout() time.Duration {
	return time.Duration(r.game.Config.ChoiceTimeoutSeconds) * time.Second
}

// BeginRoll is the session entry point: it guides the identity through the
// stat tree and resolves a check against the chosen leaf. Abort, timeout
// and invalid selections come back as terminal outcomes, not errors; an
// error means the transport or the player store failed.
func (r *Runner) BeginRoll(ctx context.Context, identity string, prompter Prompter) (*Outcome, error) {
	logging.Info("starting roll session", "identity", identity)

	p, err := r.game.Players.Lookup(identity)
	if err != nil {
		return nil, fmt.Errorf("could not load player record: %w", err)
	}

	if p == nil {
		logging.Warning("no player record", "identity", identity)
		outcome, err := r.confirmWithoutPlayer(ctx, identity, prompter)
		if outcome != nil || err != nil {
			return outcome, err
		}
	}

	machine := NewMachine(r.game.Stats)
	for machine.Phase() == PhaseChoosing {
		id, err := r.promptChoice(ctx, prompter, machine.Candidates())
		if err != nil {
			if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				machine.Timeout()
				break
			}
			return nil, fmt.Errorf("prompt failed: %w", err)
		}
		machine.Resume(id)
	}

	switch machine.Phase() {
	case PhaseAborted:
		logging.Info("session aborted", "identity", identity)
		return &Outcome{Kind: OutcomeAborted, Identity: identity, Reason: "Command aborted"}, nil
	case PhaseTimedOut:
		logging.Info("session timed out", "identity", identity)
		return &Outcome{Kind: OutcomeTimedOut, Identity: identity, Reason: "Command timed out"}, nil
	case PhaseInvalid:
		logging.Warning("invalid selection", "identity", identity)
		return &Outcome{Kind: OutcomeInvalid, Identity: identity, Reason: "Invalid selection, command aborted"}, nil
	}

	return r.resolve(identity, p, machine.Leaf(), machine.Path())
}

// confirmWithoutPlayer asks whether to roll without persistence. It returns
// a terminal outcome to short-circuit with, or (nil, nil) to proceed.
func (r *Runner) confirmWithoutPlayer(ctx context.Context, identity string, prompter Prompter) (*Outcome, error) {
	question := fmt.Sprintf("No player stats found for player %s.\nDo you still want to proceed?", identity)

	waitCtx, cancel := context.WithTimeout(ctx, r.choiceTimeout())
	defer cancel()

	proceed, err := prompter.PromptYesNo(waitCtx, question)
	if err != nil {
		if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return &Outcome{Kind: OutcomeTimedOut, Identity: identity, Reason: "Command timed out"}, nil
		}
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	if !proceed {
		return &Outcome{Kind: OutcomeAborted, Identity: identity, Reason: "Command aborted"}, nil
	}
	return nil, nil
}

func (r *Runner) promptChoice(ctx context.Context, prompter Prompter, candidates []*hierarchy.Node) (string, error) {
	choices := make([]Choice, 0, len(candidates))
	for _, n := range candidates {
		choices = append(choices, Choice{ID: n.ID, Label: n.DisplayName, Leaf: n.IsLeaf()})
	}

	waitCtx, cancel := context.WithTimeout(ctx, r.choiceTimeout())
	defer cancel()

	return prompter.PromptChoice(waitCtx, "Choose your stat / stat family", choices)
}

// resolve rolls against the chosen leaf, and for a bound player computes
// the threshold, updates the experience and persists the record. This is
// the only path that mutates player state, and it runs exactly once per
// session.
func (r *Runner) resolve(identity string, p *player.Player, leaf *hierarchy.Node, path []string) (*Outcome, error) {
	roll := dice.Sample(r.game.Config.RollLaw)
	stat := leaf.DisplayName
	logging.Info("rolled", "stat", stat, "roll", roll)

	outcome := &Outcome{
		Kind:     OutcomeResolved,
		Identity: identity,
		StatPath: path,
		Stat:     stat,
		Roll:     roll,
	}
	if p == nil {
		return outcome, nil
	}

	isMajor, err := p.IsMajorAffinity(stat, r.game.Affinities)
	if err != nil {
		return nil, err
	}
	isMinor, err := p.IsMinorAffinity(stat, r.game.Affinities)
	if err != nil {
		return nil, err
	}
	mctx := mastery.Context{
		Talent:        p.IsTalent(stat),
		MajorAffinity: isMajor,
		MinorAffinity: isMinor,
	}

	before, err := r.curve.Mastery(p.Experience(stat), mctx)
	if err != nil {
		logging.Warning("mastery curve fallback", "error", err)
	}

	outcome.HasPlayer = true
	outcome.PlayerName = p.Name
	outcome.Mastery = before
	outcome.Modifier = p.Modifier(stat)
	outcome.Threshold = before + outcome.Modifier
	outcome.Success = roll <= outcome.Threshold
	outcome.Tags = tags(mctx)

	delta := r.game.Config.ExperienceAfterFailure
	if outcome.Success {
		delta = r.game.Config.ExperienceAfterSuccess
	}
	outcome.ExperienceDelta = delta

	updated, err := r.game.Players.IncreaseExperience(identity, stat, delta)
	if err != nil {
		return nil, fmt.Errorf("could not persist experience for %s: %w", p.Name, err)
	}

	after, err := r.curve.Mastery(updated.Experience(stat), mctx)
	if err != nil {
		logging.Warning("mastery curve fallback", "error", err)
	}
	outcome.LevelUp = after > before

	logging.Info("check resolved",
		"player", p.Name, "stat", stat,
		"roll", roll, "threshold", outcome.Threshold, "success", outcome.Success)
	return outcome, nil
}

func tags(mctx mastery.Context) []string {
	var t []string
	if mctx.Talent {
		t = append(t, TagTalent)
	}
	if mctx.MajorAffinity {
		t = append(t, TagMajorAffinity)
	}
	if mctx.MinorAffinity {
		t = append(t, TagMinorAffinity)
	}
	return t
}
