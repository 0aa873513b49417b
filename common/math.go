package common

import "math"

const (
	// TPS is the fixed simulation rate.
	TPS = 60
	// Dt is the duration of one simulation tick in seconds.
	Dt = 1.0 / TPS

	BaseWidth  = 1280
	BaseHeight = 720

	// Gravity is the base downward acceleration in world units per second².
	Gravity = 980.0
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Approach moves v toward target by at most step.
func Approach(v, target, step float64) float64 {
	if step <= 0 {
		return v
	}
	if math.Abs(target-v) <= step {
		return target
	}
	if v < target {
		return v + step
	}
	return v - step
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
