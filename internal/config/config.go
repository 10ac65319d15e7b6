// Package config loads the game directory: the numeric constants, the stat
// and affinity hierarchies, and the player records. Everything here runs
// once at startup and is read-only afterwards; any inconsistency is fatal.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/statforge/statforge/internal/dice"
)

// Defaults applied when the game configuration omits a value.
const (
	DefaultLearningConstant   = 334.6
	DefaultMaxChildrenPerNode = 20
	DefaultChoiceTimeoutSecs  = 60
)

// Config is the customizable game configuration, read from config.yaml in
// the game directory.
type Config struct {
	GameMasterName string `yaml:"game_master_name"`

	// Experience deltas are signed: a configuration may choose to make a
	// failed check drain experience.
	ExperienceAfterSuccess int `yaml:"experience_earned_after_success"`
	ExperienceAfterFailure int `yaml:"experience_earned_after_failure"`

	LearningConstant         float64 `yaml:"learning_constant"`
	TalentIncreasePct        float64 `yaml:"talent_increase_percentage"`
	MajorAffinityIncreasePct float64 `yaml:"major_affinity_increase_percentage"`
	MinorAffinityIncreasePct float64 `yaml:"minor_affinity_increase_percentage"`

	// MasteryExpression optionally replaces the built-in mastery curve
	// with a CEL expression over `experience` and `coefficient`.
	MasteryExpression string `yaml:"mastery_expression,omitempty"`

	RollLaw dice.Law `yaml:"roll_statistic_law"`

	MaxChildrenPerNode   int `yaml:"max_children_per_node"`
	ChoiceTimeoutSeconds int `yaml:"choice_timeout_seconds"`
}

// LoadConfig reads and validates a config.yaml file.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		LearningConstant:     DefaultLearningConstant,
		MaxChildrenPerNode:   DefaultMaxChildrenPerNode,
		ChoiceTimeoutSeconds: DefaultChoiceTimeoutSecs,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects constants the mastery and roll formulas cannot work with.
func (c Config) Validate() error {
	if c.LearningConstant <= 0 {
		return fmt.Errorf("learning_constant must be positive, got %v", c.LearningConstant)
	}
	for name, pct := range map[string]float64{
		"talent_increase_percentage":         c.TalentIncreasePct,
		"major_affinity_increase_percentage": c.MajorAffinityIncreasePct,
		"minor_affinity_increase_percentage": c.MinorAffinityIncreasePct,
	} {
		if pct < 0 || pct >= 1 {
			return fmt.Errorf("%s must be in [0,1), got %v", name, pct)
		}
	}
	if c.MaxChildrenPerNode < 0 {
		return fmt.Errorf("max_children_per_node must not be negative, got %d", c.MaxChildrenPerNode)
	}
	if c.ChoiceTimeoutSeconds <= 0 {
		return fmt.Errorf("choice_timeout_seconds must be positive, got %d", c.ChoiceTimeoutSeconds)
	}
	return c.RollLaw.Validate()
}
