package camera

// Transform is the camera position and zoom in normalized map coordinates
type Transform struct {
	X    float64 `yaml:"x" json:"x"`       // Focus X (0..1)
	Y    float64 `yaml:"y" json:"y"`       // Focus Y (0..1)
	Zoom float64 `yaml:"zoom" json:"zoom"` // Zoom level (1.0 = whole map)
}

// Resting is the canonical camera state before start and after stop/reset
var Resting = Transform{X: 0.5, Y: 0.5, Zoom: 1.0}

// Interpolate eases from one transform to another. Once elapsed reaches
// duration the result is exactly to.
func Interpolate(from, to Transform, elapsed, duration float64) Transform {
	if duration <= 0 || elapsed >= duration {
		return to
	}
	if elapsed <= 0 {
		return from
	}

	t := EaseInOutCubic(elapsed / duration)

	return Transform{
		X:    Lerp(from.X, to.X, t),
		Y:    Lerp(from.Y, to.Y, t),
		Zoom: Lerp(from.Zoom, to.Zoom, t),
	}
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
