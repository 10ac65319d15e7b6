package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollDieBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v, err := RollDie(6)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestRollDieTooFewFaces(t *testing.T) {
	_, err := RollDie(1)
	assert.Error(t, err)
	_, err = RollDie(0)
	assert.Error(t, err)
}

func TestRollDieMocked(t *testing.T) {
	Mock([]int{4, 2})
	defer ResetMock()

	v, err := RollDie(20)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = RollDie(20)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSampleUniformBounds(t *testing.T) {
	law := Law{Name: LawUniform}
	for i := 0; i < 10000; i++ {
		v := Sample(law)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestSampleNormalBounds(t *testing.T) {
	law := Law{Name: LawNormal, Mean: 50, StdDev: 30}
	for i := 0; i < 10000; i++ {
		v := Sample(law)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestSampleNormalExtremeParamsClamped(t *testing.T) {
	low := Law{Name: LawNormal, Mean: -500, StdDev: 10}
	high := Law{Name: LawNormal, Mean: 500, StdDev: 10}
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, Sample(low))
		assert.Equal(t, 100, Sample(high))
	}
}

func TestLawValidate(t *testing.T) {
	assert.NoError(t, Law{Name: LawUniform}.Validate())
	assert.NoError(t, Law{}.Validate())
	assert.NoError(t, Law{Name: LawNormal, Mean: 50, StdDev: 15}.Validate())
	assert.Error(t, Law{Name: LawNormal, Mean: 50}.Validate())
	assert.Error(t, Law{Name: "triangular"}.Validate())
}
