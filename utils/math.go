// Package utils contains small numeric helpers shared by the frametree packages.
package utils

import (
	"math"
	"math/rand"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual reports whether a and b differ by no more than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// AlmostZero reports whether x lies strictly inside (-epsilon, epsilon).
func AlmostZero(x, epsilon float64) bool {
	return x < epsilon && x > -epsilon
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Square is faster than math.Pow(n, 2).
func Square(n float64) float64 {
	return n * n
}

// SampleRandomFloat samples a float uniformly from [lo, hi) using the given rand.Rand.
func SampleRandomFloat(lo, hi float64, r *rand.Rand) float64 {
	return lo + r.Float64()*(hi-lo)
}
