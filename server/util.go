package main

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// NewSessionID returns an opaque id for a freshly connected session
func NewSessionID() string {
	return uuid.New().String()
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Symmetric returns a uniform value in [-1, 1)
func Symmetric(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}
