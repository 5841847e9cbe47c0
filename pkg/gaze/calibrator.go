// Package gaze maps calibrated pupil ratios to screen positions and
// grid-cell letter selections. Calibration captures one reference ratio
// per screen corner; the per-axis min/max of the four samples defines a
// linear mapping from raw gaze ratio to frame coordinates.
package gaze

import (
	"fmt"

	"github.com/blinktalk/go-blinktalk/pkg/eyemetrics"
)

// Corner identifies one calibration reference point. Capture order is
// fixed: top-left, top-right, bottom-left, bottom-right.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight

	numCorners = 4
)

// String returns a prompt-friendly corner name.
func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("corner(%d)", int(c))
	}
}

// Bounds is the calibration rectangle: per-axis min/max gaze ratio
// observed across the four corners.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Point is a mapped position in frame pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Calibrator runs the 4-point calibration protocol. Until all corners
// are captured, gaze decoding downstream must stay inert.
type Calibrator struct {
	pending int
	samples [numCorners]eyemetrics.GazeRatio
	bounds  Bounds
}

// NewCalibrator creates a calibrator waiting for the top-left corner.
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// Pending returns the corner awaiting capture. Only meaningful while
// Done is false.
func (c *Calibrator) Pending() Corner {
	return Corner(c.pending)
}

// Done reports whether all four corners have been captured.
func (c *Calibrator) Done() bool {
	return c.pending >= numCorners
}

// Capture records the current smoothed gaze ratio for the pending
// corner. The captured corner is returned; capturing after completion
// is a no-op reporting BottomRight.
func (c *Calibrator) Capture(ratio eyemetrics.GazeRatio) Corner {
	if c.Done() {
		return BottomRight
	}
	corner := Corner(c.pending)
	c.samples[c.pending] = ratio
	c.pending++
	if c.Done() {
		c.computeBounds()
	}
	return corner
}

func (c *Calibrator) computeBounds() {
	b := Bounds{
		MinX: c.samples[0].X, MaxX: c.samples[0].X,
		MinY: c.samples[0].Y, MaxY: c.samples[0].Y,
	}
	for _, s := range c.samples[1:] {
		if s.X < b.MinX {
			b.MinX = s.X
		}
		if s.X > b.MaxX {
			b.MaxX = s.X
		}
		if s.Y < b.MinY {
			b.MinY = s.Y
		}
		if s.Y > b.MaxY {
			b.MaxY = s.Y
		}
	}
	c.bounds = b
}

// Bounds returns the calibration rectangle. Zero value until Done.
func (c *Calibrator) Bounds() Bounds {
	return c.bounds
}

// Map projects a raw gaze ratio into frame pixel coordinates using the
// calibration rectangle, clamped to [0, dim-1]. A degenerate axis where
// the subject produced the same ratio for both corners falls back to
// the raw ratio scaled by the frame dimension.
func (c *Calibrator) Map(raw eyemetrics.GazeRatio, frameW, frameH int) Point {
	return Point{
		X: mapAxis(raw.X, c.bounds.MinX, c.bounds.MaxX, frameW),
		Y: mapAxis(raw.Y, c.bounds.MinY, c.bounds.MaxY, frameH),
	}
}

func mapAxis(raw, min, max float64, dim int) float64 {
	var mapped float64
	if max == min {
		mapped = raw * float64(dim)
	} else {
		mapped = (raw - min) / (max - min) * float64(dim)
	}
	return clamp(mapped, 0, float64(dim-1))
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
