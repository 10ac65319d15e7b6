package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{
	LearningConstant: 334.6,
	TalentPct:        0.2,
	MajorPct:         0.3,
	MinorPct:         0.15,
}

func TestComputeZeroExperience(t *testing.T) {
	assert.Equal(t, 1, Compute(0, Context{}, testParams))
}

func TestComputeMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 5000; xp += 50 {
		m := Compute(xp, Context{}, testParams)
		assert.GreaterOrEqual(t, m, prev, "mastery must not decrease (xp=%d)", xp)
		prev = m
	}
}

func TestComputeNeverReaches100(t *testing.T) {
	for _, xp := range []int{0, 100, 1000, 100000, 1 << 30} {
		assert.Less(t, Compute(xp, Context{}, testParams), 100)
	}
}

func TestCoefficientStacking(t *testing.T) {
	none := Coefficient(testParams, Context{})
	all := Coefficient(testParams, Context{Talent: true, MajorAffinity: true, MinorAffinity: true})
	assert.Less(t, all, none)
	assert.InDelta(t, 334.6*0.8*0.7*0.85, all, 1e-9)

	// A lower coefficient means a higher mastery for the same experience.
	assert.Greater(t,
		Compute(500, Context{Talent: true, MajorAffinity: true, MinorAffinity: true}, testParams),
		Compute(500, Context{}, testParams))
}

func TestCurveDefault(t *testing.T) {
	curve, err := NewCurve(testParams, "")
	require.NoError(t, err)

	m, err := curve.Mastery(0, Context{})
	require.NoError(t, err)
	assert.Equal(t, 1, m)

	m, err = curve.Mastery(334, Context{})
	require.NoError(t, err)
	assert.Equal(t, Compute(334, Context{}, testParams), m)
}

func TestCurveCustomExpression(t *testing.T) {
	curve, err := NewCurve(testParams, "100.0 - 99.0 * exp(-experience / coefficient)")
	require.NoError(t, err)

	for _, xp := range []int{0, 50, 500, 5000} {
		m, err := curve.Mastery(xp, Context{})
		require.NoError(t, err)
		assert.Equal(t, Compute(xp, Context{}, testParams), m)
	}
}

func TestCurveCustomExpressionClamped(t *testing.T) {
	curve, err := NewCurve(testParams, "experience * 10.0")
	require.NoError(t, err)

	m, err := curve.Mastery(1000, Context{})
	require.NoError(t, err)
	assert.Equal(t, 99, m)

	m, err = curve.Mastery(0, Context{})
	require.NoError(t, err)
	assert.Equal(t, 1, m)
}

func TestCurveInvalidExpression(t *testing.T) {
	_, err := NewCurve(testParams, "experience +")
	assert.Error(t, err)
}
