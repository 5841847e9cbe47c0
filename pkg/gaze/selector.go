package gaze

import (
	"time"

	"github.com/blinktalk/go-blinktalk/pkg/eyemetrics"
)

// Selector combines the calibration mapping, smoothing and the letter
// grid: a confirmed blink while gazing at a cell selects its letter.
type Selector struct {
	grid     Grid
	cal      *Calibrator
	smoother Smoother
	flash    Flash
}

// NewSelector wires a selector over a grid. The smoother may be any
// Smoother implementation; nil falls back to the default moving average.
func NewSelector(grid Grid, cal *Calibrator, smoother Smoother) *Selector {
	if smoother == nil {
		smoother = NewMovingAverage(DefaultSmoothingWindow)
	}
	return &Selector{grid: grid, cal: cal, smoother: smoother}
}

// Grid returns the letter grid for rendering.
func (s *Selector) Grid() Grid {
	return s.grid
}

// Observe feeds one frame's raw gaze ratio. While calibration is
// incomplete the selector is inert and returns false. Otherwise the
// ratio is mapped and smoothed and the current gaze point is returned.
func (s *Selector) Observe(raw eyemetrics.GazeRatio) (Point, bool) {
	if !s.cal.Done() {
		return Point{}, false
	}
	s.smoother.Add(s.cal.Map(raw, s.grid.Width, s.grid.Height))
	return s.smoother.Value()
}

// Select resolves the current smoothed gaze point to a letter. Called
// on a debounce-confirmed blink. Returns false while calibration is
// incomplete, before any gaze sample, or when the gazed cell has no
// letter bound.
func (s *Selector) Select(now time.Time) (rune, bool) {
	point, ok := s.point()
	if !ok {
		return 0, false
	}
	cell := s.grid.CellAt(point)
	letter, ok := s.grid.Letter(cell)
	if !ok {
		return 0, false
	}
	s.flash = Flash{Cell: cell, At: now}
	return letter, true
}

func (s *Selector) point() (Point, bool) {
	if !s.cal.Done() {
		return Point{}, false
	}
	return s.smoother.Value()
}

// Flash returns the most recent selection marker for the renderer.
func (s *Selector) Flash() Flash {
	return s.flash
}
