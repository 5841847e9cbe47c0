// Package blink converts a per-frame eye aspect ratio stream into
// discrete blink events. A blink starts when the averaged EAR drops
// below threshold and completes when it rises back above; the debounced
// variant additionally requires a minimum number of consecutive closed
// frames so that eyelid flutter and detection noise are rejected.
package blink

import (
	"fmt"
	"time"
)

// State is the eyelid state tracked between frames.
type State int

const (
	// StateOpen - eyelids above the EAR threshold.
	StateOpen State = iota
	// StateClosed - eyelids below the EAR threshold, blink in progress.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// Event is one completed blink. Immutable once emitted.
type Event struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// Config holds the tunable parameters of the detector.
type Config struct {
	// EARThreshold is the averaged EAR below which the eyes count as
	// closed. Typical values for landmark-derived EAR are 0.2-0.25.
	EARThreshold float64

	// MinClosedFrames is the number of consecutive frames the EAR must
	// stay below threshold for the release to count as a blink.
	// 1 accepts every closure (duration-classification mode).
	MinClosedFrames int
}

// DefaultConfig returns the duration-classification configuration used
// by Morse typing: every closure is a candidate symbol.
func DefaultConfig() Config {
	return Config{
		EARThreshold:    0.22,
		MinClosedFrames: 1,
	}
}

// DebouncedConfig returns the presence/absence configuration used by
// gaze typing, where a blink is a deliberate selection trigger and
// single-frame closures are treated as noise.
func DebouncedConfig() Config {
	cfg := DefaultConfig()
	cfg.MinClosedFrames = 2
	return cfg
}

// Detector is the per-subject blink state machine. At most one blink is
// open at a time; state is mutated only through Observe.
type Detector struct {
	cfg          Config
	state        State
	closedSince  time.Time
	closedFrames int
}

// New creates a detector in the OPEN state.
func New(cfg Config) *Detector {
	if cfg.MinClosedFrames < 1 {
		cfg.MinClosedFrames = 1
	}
	return &Detector{cfg: cfg}
}

// State returns the current eyelid state.
func (d *Detector) State() State {
	return d.state
}

// Observe feeds one frame's averaged EAR at the frame's wall-clock time.
// It returns a completed Event and true exactly when a blink that passed
// the debounce requirement is released this frame.
func (d *Detector) Observe(now time.Time, avgEAR float64) (Event, bool) {
	closed := avgEAR < d.cfg.EARThreshold

	switch d.state {
	case StateOpen:
		if closed {
			d.state = StateClosed
			d.closedSince = now
			d.closedFrames = 1
		}

	case StateClosed:
		if closed {
			d.closedFrames++
			break
		}
		accepted := d.closedFrames >= d.cfg.MinClosedFrames
		d.state = StateOpen
		d.closedFrames = 0
		if accepted {
			return Event{
				Start:    d.closedSince,
				End:      now,
				Duration: now.Sub(d.closedSince),
			}, true
		}
	}

	return Event{}, false
}

// Reset returns the detector to the OPEN state, discarding any blink in
// progress.
func (d *Detector) Reset() {
	d.state = StateOpen
	d.closedFrames = 0
}
