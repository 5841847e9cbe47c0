package gaze

import (
	"math"

	kalman_filter "github.com/LdDl/kalman-filter"
)

// Smoother suppresses gaze-point jitter before cell lookup.
type Smoother interface {
	// Add feeds one mapped gaze point.
	Add(p Point)
	// Value returns the smoothed point. False until at least one point
	// has been added.
	Value() (Point, bool)
	// Reset discards accumulated state.
	Reset()
}

// MovingAverage is a fixed-capacity FIFO of recent points averaged per
// axis. The oldest sample is evicted on overflow.
type MovingAverage struct {
	window []Point
	cap    int
}

// DefaultSmoothingWindow is the number of recent gaze points averaged.
const DefaultSmoothingWindow = 5

// NewMovingAverage creates a moving-average smoother over the last n
// points. n < 1 falls back to DefaultSmoothingWindow.
func NewMovingAverage(n int) *MovingAverage {
	if n < 1 {
		n = DefaultSmoothingWindow
	}
	return &MovingAverage{window: make([]Point, 0, n), cap: n}
}

// Add appends a point, evicting the oldest when the window is full.
func (m *MovingAverage) Add(p Point) {
	if len(m.window) == m.cap {
		copy(m.window, m.window[1:])
		m.window = m.window[:len(m.window)-1]
	}
	m.window = append(m.window, p)
}

// Value returns the per-axis mean of the window.
func (m *MovingAverage) Value() (Point, bool) {
	if len(m.window) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, p := range m.window {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(m.window))
	return Point{X: sx / n, Y: sy / n}, true
}

// Reset empties the window.
func (m *MovingAverage) Reset() {
	m.window = m.window[:0]
}

// Kalman smooths gaze points with a constant-velocity 2D Kalman filter.
// Heavier than the moving average but settles faster on deliberate gaze
// shifts with jittery cameras.
type Kalman struct {
	filter *kalman_filter.Kalman2D
	dt     float64
	seen   bool
}

// Kalman tuning. Measurement noise dominates: pupil centroids wobble a
// few pixels frame to frame while the eye is stationary.
const (
	kalmanAccelNoise  = 2.0
	kalmanMeasNoiseX  = 0.1
	kalmanMeasNoiseY  = 0.1
	kalmanControlledX = 1.0
	kalmanControlledY = 1.0
)

// NewKalman creates a Kalman smoother for frames dt seconds apart. A
// non-finite or non-positive dt falls back to a 30 fps interval.
func NewKalman(dt float64) *Kalman {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 1) {
		dt = 1.0 / 30
	}
	return &Kalman{dt: dt}
}

// Add feeds one mapped gaze point as a measurement.
func (k *Kalman) Add(p Point) {
	if !k.seen {
		k.filter = kalman_filter.NewKalman2D(
			k.dt, kalmanControlledX, kalmanControlledY,
			kalmanAccelNoise, kalmanMeasNoiseX, kalmanMeasNoiseY,
			kalman_filter.WithState2D(p.X, p.Y),
		)
		k.seen = true
		return
	}
	k.filter.Predict()
	// Update can only fail on a dimension mismatch, which cannot
	// happen for a 2D measurement.
	_ = k.filter.Update(p.X, p.Y)
}

// Value returns the filtered state estimate.
func (k *Kalman) Value() (Point, bool) {
	if !k.seen {
		return Point{}, false
	}
	x, y := k.filter.GetState()
	return Point{X: x, Y: y}, true
}

// Reset discards the filter so the next Add re-initializes it.
func (k *Kalman) Reset() {
	k.filter = nil
	k.seen = false
}
