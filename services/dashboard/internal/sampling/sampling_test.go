package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"itoffers/services/dashboard/internal/models"
)

func rng(min, max float64) models.SalaryRange {
	return models.SalaryRange{Min: &min, Max: &max}
}

func TestSpread(t *testing.T) {
	// Wide range: half-width dominates.
	assert.InDelta(t, 2000.0/3, Spread(8000, 12000), 1e-9)
	// Narrow range: 10% of the mean dominates.
	assert.InDelta(t, 1000.0/3, Spread(10000, 10000), 1e-9)
	assert.Equal(t, 0.0, Spread(0, 0))
}

func TestSynthesize(t *testing.T) {
	t.Run("deterministic with a seed", func(t *testing.T) {
		a := Synthesize(rng(8000, 12000), DefaultSampleSize, NewGenerator(7))
		b := Synthesize(rng(8000, 12000), DefaultSampleSize, NewGenerator(7))
		require.Len(t, a, DefaultSampleSize)
		assert.Equal(t, a, b)

		c := Synthesize(rng(8000, 12000), DefaultSampleSize, NewGenerator(8))
		assert.NotEqual(t, a, c)
	})

	t.Run("centred on the midpoint", func(t *testing.T) {
		samples := Synthesize(rng(8000, 12000), 20000, NewGenerator(1))
		assert.InDelta(t, 10000, stat.Mean(samples, nil), 25)
		assert.InDelta(t, 2000.0/3, stat.StdDev(samples, nil), 25)
		for _, s := range samples[:100] {
			assert.Equal(t, float64(int64(s)), s, "samples are rounded")
		}
	})

	t.Run("zero width range", func(t *testing.T) {
		samples := Synthesize(rng(0, 0), 10, NewGenerator(1))
		assert.Equal(t, make([]float64, 10), samples)
	})

	t.Run("missing bound", func(t *testing.T) {
		min := 8000.0
		assert.Nil(t, Synthesize(models.SalaryRange{Min: &min}, 10, NewGenerator(1)))
		assert.Nil(t, Synthesize(rng(1, 2), 0, NewGenerator(1)))
	})

	t.Run("unseeded", func(t *testing.T) {
		assert.Len(t, Synthesize(rng(8000, 12000), 5, nil), 5)
		assert.Len(t, Synthesize(rng(8000, 12000), 5, NewUnseeded()), 5)
	})
}
