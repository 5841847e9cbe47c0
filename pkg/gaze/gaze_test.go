package gaze

import (
	"math"
	"testing"
	"time"

	"github.com/blinktalk/go-blinktalk/pkg/eyemetrics"
)

const eps = 0.00001

func ratio(x, y float64) eyemetrics.GazeRatio {
	return eyemetrics.GazeRatio{X: x, Y: y}
}

func calibrated(t *testing.T) *Calibrator {
	t.Helper()
	c := NewCalibrator()
	c.Capture(ratio(0.1, 0.1))
	c.Capture(ratio(0.9, 0.1))
	c.Capture(ratio(0.1, 0.9))
	c.Capture(ratio(0.9, 0.9))
	return c
}

func TestCalibrator_CornerOrder(t *testing.T) {
	c := NewCalibrator()
	wantOrder := []Corner{TopLeft, TopRight, BottomLeft, BottomRight}
	for _, want := range wantOrder {
		if c.Done() {
			t.Fatal("Done before all corners captured")
		}
		if c.Pending() != want {
			t.Errorf("pending: got %v, want %v", c.Pending(), want)
		}
		got := c.Capture(ratio(0.5, 0.5))
		if got != want {
			t.Errorf("captured: got %v, want %v", got, want)
		}
	}
	if !c.Done() {
		t.Error("not Done after four captures")
	}
}

func TestCalibrator_Bounds(t *testing.T) {
	c := calibrated(t)
	b := c.Bounds()
	want := Bounds{MinX: 0.1, MaxX: 0.9, MinY: 0.1, MaxY: 0.9}
	if b != want {
		t.Errorf("bounds: got %+v, want %+v", b, want)
	}
}

func TestCalibrator_MapMidpoint(t *testing.T) {
	c := calibrated(t)
	p := c.Map(ratio(0.5, 0.5), 900, 300)
	if math.Abs(p.X-450) > eps || math.Abs(p.Y-150) > eps {
		t.Errorf("midpoint: got (%v, %v), want (450, 150)", p.X, p.Y)
	}
}

func TestCalibrator_MapClamps(t *testing.T) {
	c := calibrated(t)
	p := c.Map(ratio(0.0, 1.0), 900, 300)
	if p.X != 0 {
		t.Errorf("below-range x: got %v, want 0", p.X)
	}
	if p.Y != 299 {
		t.Errorf("above-range y: got %v, want 299", p.Y)
	}
}

func TestCalibrator_DegenerateAxisPassthrough(t *testing.T) {
	c := NewCalibrator()
	// Same x ratio at every corner: x axis has no span.
	c.Capture(ratio(0.5, 0.1))
	c.Capture(ratio(0.5, 0.1))
	c.Capture(ratio(0.5, 0.9))
	c.Capture(ratio(0.5, 0.9))

	p := c.Map(ratio(0.4, 0.5), 1000, 500)
	if math.Abs(p.X-400) > eps {
		t.Errorf("degenerate x: got %v, want raw*width = 400", p.X)
	}
	if math.Abs(p.Y-250) > eps {
		t.Errorf("mapped y: got %v, want 250", p.Y)
	}
}

func TestMovingAverage_WindowEviction(t *testing.T) {
	m := NewMovingAverage(3)
	if _, ok := m.Value(); ok {
		t.Error("empty window reported a value")
	}

	m.Add(Point{X: 0, Y: 0})
	m.Add(Point{X: 30, Y: 30})
	m.Add(Point{X: 60, Y: 60})
	p, _ := m.Value()
	if math.Abs(p.X-30) > eps {
		t.Errorf("mean of full window: got %v, want 30", p.X)
	}

	// Fourth point evicts the oldest (0,0).
	m.Add(Point{X: 90, Y: 90})
	p, _ = m.Value()
	if math.Abs(p.X-60) > eps {
		t.Errorf("mean after eviction: got %v, want 60", p.X)
	}

	m.Reset()
	if _, ok := m.Value(); ok {
		t.Error("reset window reported a value")
	}
}

func TestKalman_SeedAndSteadyState(t *testing.T) {
	k := NewKalman(1.0 / 30)
	if _, ok := k.Value(); ok {
		t.Error("unfed filter reported a value")
	}

	// The first measurement seeds the state exactly.
	k.Add(Point{X: 0.5, Y: 0.5})
	p, ok := k.Value()
	if !ok {
		t.Fatal("no value after first measurement")
	}
	if math.Abs(p.X-0.5) > eps || math.Abs(p.Y-0.5) > eps {
		t.Errorf("seed state: got %v, want (0.5,0.5)", p)
	}

	// A steady gaze keeps the estimate at the measurement.
	for i := 0; i < 10; i++ {
		k.Add(Point{X: 0.5, Y: 0.5})
	}
	p, _ = k.Value()
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		t.Fatal("estimate diverged to NaN")
	}
	if math.Abs(p.X-0.5) > 0.1 || math.Abs(p.Y-0.5) > 0.1 {
		t.Errorf("steady state: got %v, want near (0.5,0.5)", p)
	}

	k.Reset()
	if _, ok := k.Value(); ok {
		t.Error("reset filter reported a value")
	}
	k.Add(Point{X: 0.2, Y: 0.8})
	p, _ = k.Value()
	if math.Abs(p.X-0.2) > eps || math.Abs(p.Y-0.8) > eps {
		t.Errorf("re-seeded state: got %v, want (0.2,0.8)", p)
	}
}

func TestKalman_NonPositiveIntervalFallsBack(t *testing.T) {
	for _, dt := range []float64{0, -1, math.Inf(1), math.NaN()} {
		k := NewKalman(dt)
		for i := 0; i < 5; i++ {
			k.Add(Point{X: 0.3, Y: 0.3})
		}
		p, ok := k.Value()
		if !ok || math.IsNaN(p.X) || math.IsInf(p.X, 0) {
			t.Fatalf("dt=%v: estimate %v, ok=%v", dt, p, ok)
		}
		if math.Abs(p.X-0.3) > 0.1 || math.Abs(p.Y-0.3) > 0.1 {
			t.Errorf("dt=%v: steady state %v, want near (0.3,0.3)", dt, p)
		}
	}
}

func TestGrid_CellAndLetter(t *testing.T) {
	g := NewGrid(3, 9, 900, 300)

	cases := []struct {
		p      Point
		cell   Cell
		letter rune
		bound  bool
	}{
		{Point{X: 50, Y: 50}, Cell{0, 0}, 'A', true},
		{Point{X: 150, Y: 50}, Cell{0, 1}, 'B', true},
		{Point{X: 50, Y: 150}, Cell{1, 0}, 'J', true},
		{Point{X: 850, Y: 150}, Cell{1, 8}, 'R', true},
		{Point{X: 750, Y: 250}, Cell{2, 7}, 'Z', true},
		// Linear index 26 is past the 26-letter alphabet.
		{Point{X: 850, Y: 250}, Cell{2, 8}, 0, false},
	}
	for _, tc := range cases {
		cell := g.CellAt(tc.p)
		if cell != tc.cell {
			t.Errorf("CellAt(%v): got %+v, want %+v", tc.p, cell, tc.cell)
			continue
		}
		letter, ok := g.Letter(cell)
		if ok != tc.bound || (ok && letter != tc.letter) {
			t.Errorf("Letter(%+v): got %q ok=%v, want %q ok=%v", cell, letter, ok, tc.letter, tc.bound)
		}
	}
}

func TestGrid_ClampsOutOfFramePoints(t *testing.T) {
	g := NewGrid(3, 9, 900, 300)
	if got := g.CellAt(Point{X: -10, Y: -10}); got != (Cell{0, 0}) {
		t.Errorf("negative point: got %+v, want {0 0}", got)
	}
	if got := g.CellAt(Point{X: 5000, Y: 5000}); got != (Cell{2, 8}) {
		t.Errorf("far point: got %+v, want {2 8}", got)
	}
}

func TestSelector_InertUntilCalibrated(t *testing.T) {
	cal := NewCalibrator()
	s := NewSelector(NewGrid(3, 9, 900, 300), cal, nil)

	if _, ok := s.Observe(ratio(0.5, 0.5)); ok {
		t.Error("Observe produced a point before calibration")
	}
	if _, ok := s.Select(time.Now()); ok {
		t.Error("Select fired before calibration")
	}
}

func TestSelector_SelectsGazedLetter(t *testing.T) {
	cal := calibrated(t)
	s := NewSelector(NewGrid(3, 9, 900, 300), cal, NewMovingAverage(5))

	// Steady gaze at the top-left region: ratio 0.15 maps to x=56.25.
	for i := 0; i < 5; i++ {
		if _, ok := s.Observe(ratio(0.15, 0.2)); !ok {
			t.Fatal("Observe returned no point after calibration")
		}
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	letter, ok := s.Select(now)
	if !ok || letter != 'A' {
		t.Fatalf("Select: got %q ok=%v, want 'A' true", letter, ok)
	}

	flash := s.Flash()
	if flash.Cell != (Cell{0, 0}) {
		t.Errorf("flash cell: got %+v, want {0 0}", flash.Cell)
	}
	if !flash.Active(now.Add(400 * time.Millisecond)) {
		t.Error("flash inactive before the display window elapsed")
	}
	if flash.Active(now.Add(600 * time.Millisecond)) {
		t.Error("flash still active after the display window")
	}
}

func TestSelector_UnboundCellSelectsNothing(t *testing.T) {
	cal := calibrated(t)
	s := NewSelector(NewGrid(3, 9, 900, 300), cal, NewMovingAverage(1))

	// Bottom-right region maps to cell (2,8), linear index 26.
	s.Observe(ratio(0.88, 0.88))
	if letter, ok := s.Select(time.Now()); ok {
		t.Errorf("unbound cell selected %q", letter)
	}
	if s.Flash().Active(time.Now()) {
		t.Error("failed selection left a flash marker")
	}
}
