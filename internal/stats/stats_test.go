package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, float64(0), Mean(nil))
	assert.Equal(t, float64(0), Mean([]float64{}))
	assert.Equal(t, float64(2), Mean([]float64{1, 2, 3}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
	assert.Equal(t, float64(-3), Mean([]float64{-3}))
}

func TestMeanEqualsSumOverCount(t *testing.T) {
	samples := [][]float64{
		{10, 20, 30, 40},
		{0.1, 0.2, 0.3},
		{1000, -1000, 5},
	}
	for _, values := range samples {
		var sum float64
		for _, v := range values {
			sum += v
		}
		assert.InDelta(t, sum/float64(len(values)), Mean(values), 1e-9)
	}
}

func TestStandardDeviation(t *testing.T) {
	t.Run("population formula", func(t *testing.T) {
		values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
		assert.InDelta(t, 2.0, StandardDeviation(values, Mean(values)), 1e-9)
	})

	t.Run("too few samples", func(t *testing.T) {
		assert.Equal(t, float64(0), StandardDeviation(nil, 0))
		assert.Equal(t, float64(0), StandardDeviation([]float64{42}, 42))
	})

	t.Run("identical samples", func(t *testing.T) {
		for _, values := range [][]float64{{5, 5, 5}, {0.1, 0.1, 0.1, 0.1}, {-7, -7}} {
			sd := StandardDeviation(values, Mean(values))
			assert.Equal(t, float64(0), sd)
			assert.False(t, math.IsNaN(sd))
		}
	})
}

func TestZScore(t *testing.T) {
	assert.Nil(t, ZScore(10, 5, 0))
	assert.Nil(t, ZScore(-3, 100, 0))

	z := ZScore(1, 5, 2)
	require.NotNil(t, z)
	assert.InDelta(t, -2.0, *z, 1e-9)
}

func TestPercentChange(t *testing.T) {
	pc := PercentChange(65, 100)
	require.NotNil(t, pc)
	assert.InDelta(t, -35.0, *pc, 1e-9)

	pc = PercentChange(120, 100)
	require.NotNil(t, pc)
	assert.InDelta(t, 20.0, *pc, 1e-9)

	pc = PercentChange(5, 0)
	require.NotNil(t, pc)
	assert.Equal(t, float64(100), *pc)

	assert.Nil(t, PercentChange(0, 0))

	pc = PercentChange(-5, 0)
	require.NotNil(t, pc)
	assert.Equal(t, float64(-100), *pc)
}
