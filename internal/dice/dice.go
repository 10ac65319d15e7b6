// Package dice produces the random rolls of the assistant: single die
// rolls for the dice command and the 1-100 check roll sampled under the
// configured statistical law.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand"
)

var mockQueue []int

// Mock prepares a deterministic sequence of results for the next rolls.
// Test helper only.
func Mock(results []int) {
	mockQueue = results
}

// ResetMock clears the deterministic queue.
func ResetMock() {
	mockQueue = nil
}

func nextMock() (int, bool) {
	if len(mockQueue) == 0 {
		return 0, false
	}
	v := mockQueue[0]
	mockQueue = mockQueue[1:]
	return v, true
}

// safeRand draws a strongly uniform integer in [1,max] via crypto/rand.
func safeRand(max int) int {
	if max <= 0 {
		return 0
	}
	n, _ := crand.Int(crand.Reader, big.NewInt(int64(max)))
	return int(n.Int64()) + 1
}

// RollDie rolls a single die with the given number of faces.
func RollDie(faces int) (int, error) {
	if faces < 2 {
		return 0, fmt.Errorf("a die needs at least 2 faces, got %d", faces)
	}
	if v, ok := nextMock(); ok {
		return v, nil
	}
	return safeRand(faces), nil
}

// Law selects the statistical law of the check roll. Uniform draws evenly
// from 1-100; Normal draws from a normal distribution with the given
// parameters, truncated to an integer and clamped into [1,100].
type Law struct {
	Name   string  `yaml:"name" json:"name"`
	Mean   float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	StdDev float64 `yaml:"std_dev,omitempty" json:"std_dev,omitempty"`
}

// Law names accepted in the game configuration.
const (
	LawUniform = "uniform"
	LawNormal  = "normal"
)

// Validate rejects unknown law names and unusable normal parameters.
func (l Law) Validate() error {
	switch l.Name {
	case LawUniform, "":
		return nil
	case LawNormal:
		if l.StdDev <= 0 {
			return fmt.Errorf("normal law needs a positive std_dev, got %v", l.StdDev)
		}
		return nil
	default:
		return fmt.Errorf("unknown statistic law %q", l.Name)
	}
}

// Sample draws one check roll in [1,100] under the law. Each call reseeds
// from the system entropy source; no state is carried between calls.
func Sample(law Law) int {
	if v, ok := nextMock(); ok {
		return v
	}

	switch law.Name {
	case LawNormal:
		var seed int64
		binary.Read(crand.Reader, binary.LittleEndian, &seed)
		rng := rand.New(rand.NewSource(seed))
		v := int(rng.NormFloat64()*law.StdDev + law.Mean)
		if v < 1 {
			v = 1
		}
		if v > 100 {
			v = 100
		}
		return v
	default:
		return safeRand(100)
	}
}
