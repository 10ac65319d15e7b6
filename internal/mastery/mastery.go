// Package mastery converts a player's accumulated experience into the
// success threshold of a check. The default curve is
// 100 - 99*e^(-experience/coefficient): it starts at 1 for a fresh stat
// and approaches 100 asymptotically. Talent and affinity bonuses shrink
// the coefficient, so experience counts for more.
package mastery

import "math"

// Params are the configured constants of the mastery curve.
type Params struct {
	// LearningConstant is the baseline denominator of the curve.
	LearningConstant float64
	// TalentPct, MajorPct and MinorPct each reduce the effective
	// coefficient multiplicatively when the matching bonus applies.
	TalentPct float64
	MajorPct  float64
	MinorPct  float64
}

// Context carries the bonus flags of one player/stat pair.
type Context struct {
	Talent        bool
	MajorAffinity bool
	MinorAffinity bool
}

// Coefficient computes the effective learning coefficient for a context.
// All three reductions stack multiplicatively.
func Coefficient(p Params, ctx Context) float64 {
	coef := p.LearningConstant
	if ctx.Talent {
		coef *= 1 - p.TalentPct
	}
	if ctx.MajorAffinity {
		coef *= 1 - p.MajorPct
	}
	if ctx.MinorAffinity {
		coef *= 1 - p.MinorPct
	}
	return coef
}

// Compute returns the mastery value in [1,99] for the given experience.
// Flat modifiers are not part of mastery; callers add them separately so
// that level-up detection is not confused by situational bonuses.
func Compute(experience int, ctx Context, p Params) int {
	coef := Coefficient(p, ctx)
	return clamp(100 - 99*math.Exp(-float64(experience)/coef))
}

// clamp rounds a raw curve value and pins it into [1,99]. The curve never
// reaches 100 for finite experience, so the threshold must not either.
func clamp(raw float64) int {
	m := int(math.Round(raw))
	if m < 1 {
		return 1
	}
	if m > 99 {
		return 99
	}
	return m
}
