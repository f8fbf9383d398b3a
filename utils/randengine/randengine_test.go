package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/randengine"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for range 100 {
		assert.Equal(t, a.Uniform(0.95, 1.05), b.Uniform(0.95, 1.05))
	}
}

func TestUniformRange(t *testing.T) {
	e := randengine.New(7)
	for range 1000 {
		v := e.UniformSafe(0.92, 1.08)
		assert.GreaterOrEqual(t, v, 0.92)
		assert.Less(t, v, 1.08)
	}
	assert.False(t, e.PTrue(0))
	assert.True(t, e.PTrue(1))
	assert.Less(t, e.Float64Safe(), 1.0)
}
