package animator

// EaseFunc maps linear progress in [0,1] to eased progress.
type EaseFunc func(t float64) float64

// Linear is the identity easing. Rotations always use it so the bearing
// turns at constant speed.
func Linear(t float64) float64 {
	return Clamp01(t)
}

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// EaseOutCubic decelerates into the target. Used for map flights.
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	return 1 - pow(1-t, 3)
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits t to [0,1].
func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
