package simulate

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Series is a generated sequence that can be composed in place
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

// Linspace returns n evenly spaced values from start to end inclusive
func Linspace(start, end float64, n int) Series {
	if n <= 0 {
		return Series{}
	}
	if n == 1 {
		return Series{start}
	}
	return Series(floats.Span(make([]float64, n), start, end))
}

// GenerateConstY returns n copies of val
func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateNormal draws n samples from a normal distribution. A nil rng uses the global source.
func GenerateNormal(n int, mean, std float64, rng *rand.Rand) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, mean+std*normFloat64(rng))
	}
	return Series(y)
}

// GenerateNoise draws n zero mean normal samples scaled by scale
func GenerateNoise(n int, scale float64, rng *rand.Rand) Series {
	return GenerateNormal(n, 0.0, scale, rng)
}

func normFloat64(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.NormFloat64()
	}
	return rng.NormFloat64()
}
