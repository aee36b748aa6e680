package simulate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestLinspace(t *testing.T) {
	testData := map[string]struct {
		start    float64
		end      float64
		n        int
		expected Series
	}{
		"empty":      {0, 1, 0, Series{}},
		"negative":   {0, 1, -3, Series{}},
		"single":     {2, 5, 1, Series{2}},
		"pair":       {2, 5, 2, Series{2, 5}},
		"unit steps": {-2, 2, 5, Series{-2, -1, 0, 1, 2}},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDeltaSlice(t, td.expected, Linspace(td.start, td.end, td.n), 1e-12)
		})
	}
}

func TestSeriesCompose(t *testing.T) {
	s := GenerateConstY(3, 1.5).
		Add(Series{1, 2, 3}).
		Scale(2.0)
	assert.Equal(t, Series{5, 7, 9}, s)
}

func TestGenerateNormal(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	y := GenerateNormal(20000, 3.0, 0.5, rng)
	assert.Len(t, y, 20000)

	mean, std := stat.MeanStdDev(y, nil)
	assert.InDelta(t, 3.0, mean, 0.02)
	assert.InDelta(t, 0.5, std, 0.02)

	same := GenerateNormal(20000, 3.0, 0.5, rand.New(rand.NewPCG(7, 11)))
	assert.Equal(t, y, same)
}

func TestGenerateNoise(t *testing.T) {
	y := GenerateNoise(5000, 2.0, rand.New(rand.NewPCG(1, 2)))
	mean, std := stat.MeanStdDev(y, nil)
	assert.InDelta(t, 0.0, mean, 0.1)
	assert.InDelta(t, 2.0, std, 0.1)

	assert.Len(t, GenerateNoise(10, 1.0, nil), 10)
}
