// Package session wires the metric, blink and decoding components into
// a per-subject typing session. Process is a pure per-frame transition:
// it consumes one frame's landmark-derived measurements and returns the
// events produced, with no I/O of its own. The driver loop that owns
// the camera, keyboard and rendering lives in Runner.
package session

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blinktalk/go-blinktalk/internal/log"
	"github.com/blinktalk/go-blinktalk/pkg/blink"
	"github.com/blinktalk/go-blinktalk/pkg/eyemetrics"
	"github.com/blinktalk/go-blinktalk/pkg/gaze"
	"github.com/blinktalk/go-blinktalk/pkg/morse"
)

// Mode selects the decoding front-end.
type Mode int

const (
	// ModeMorse types through blink-duration Morse code.
	ModeMorse Mode = iota
	// ModeCalibrating is the gaze-typing calibration phase. All
	// decoding is suspended until the four corners are captured.
	ModeCalibrating
	// ModeGaze types by gazing at a letter grid and blinking.
	ModeGaze
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMorse:
		return "morse"
	case ModeCalibrating:
		return "calibrating"
	case ModeGaze:
		return "gaze"
	default:
		return "unknown"
	}
}

// Config holds every tunable of a typing session.
type Config struct {
	Mode  Mode
	Blink blink.Config
	Morse morse.Config

	// Gaze typing.
	SmoothingWindow int
	GridRows        int
	GridCols        int
	FrameWidth      int
	FrameHeight     int
	// Smoother overrides the default moving average when set.
	Smoother gaze.Smoother
}

// DefaultConfig returns a Morse typing session configuration.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeMorse,
		Blink:           blink.DefaultConfig(),
		Morse:           morse.DefaultConfig(),
		SmoothingWindow: gaze.DefaultSmoothingWindow,
		GridRows:        gaze.DefaultRows,
		GridCols:        gaze.DefaultCols,
		FrameWidth:      640,
		FrameHeight:     480,
	}
}

// GazeConfig returns a gaze typing configuration: debounced blink
// detection and the session starting in calibration.
func GazeConfig() Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeCalibrating
	cfg.Blink = blink.DebouncedConfig()
	return cfg
}

// FrameInput is one frame's measurements. Landmark extraction happens
// upstream; a frame with no detected face has FaceFound false and
// preserves all session state.
type FrameInput struct {
	Time      time.Time
	FaceFound bool
	Left      eyemetrics.Eye
	Right     eyemetrics.Eye
	Gaze      eyemetrics.GazeRatio
	HasGaze   bool
}

// Output collects the events one frame produced.
type Output struct {
	// Blink is set when a completed blink was accepted this frame.
	Blink *blink.Event
	// Symbol is the dot/dash appended by the blink, 0 otherwise.
	Symbol morse.Symbol
	// Boundary is set when a letter or word pause fired.
	Boundary *morse.Boundary
	// Selected is the grid letter appended this frame, 0 otherwise.
	Selected rune
	// GazePoint is the smoothed gaze position, when available.
	GazePoint *gaze.Point
	// Changed reports that the visible state (message, pending
	// sequence) moved this frame.
	Changed bool
}

// Session is the per-subject decoding state. It is single threaded:
// exactly one Process call per captured frame.
type Session struct {
	ID  uuid.UUID
	cfg Config

	mode     Mode
	detector *blink.Detector

	// Morse mode.
	decoder *morse.Decoder

	// Gaze mode.
	calibrator  *gaze.Calibrator
	selector    *gaze.Selector
	calSmoother *gaze.MovingAverage
	typed       strings.Builder

	logger *slog.Logger
}

// New creates a session for the configured mode.
func New(cfg Config) *Session {
	s := &Session{
		ID:       uuid.New(),
		cfg:      cfg,
		mode:     cfg.Mode,
		detector: blink.New(cfg.Blink),
		logger:   log.Component("session"),
	}

	switch cfg.Mode {
	case ModeMorse:
		s.decoder = morse.New(cfg.Morse)
	default:
		grid := gaze.NewGrid(cfg.GridRows, cfg.GridCols, cfg.FrameWidth, cfg.FrameHeight)
		s.calibrator = gaze.NewCalibrator()
		smoother := cfg.Smoother
		if smoother == nil {
			smoother = gaze.NewMovingAverage(cfg.SmoothingWindow)
		}
		s.selector = gaze.NewSelector(grid, s.calibrator, smoother)
		s.calSmoother = gaze.NewMovingAverage(cfg.SmoothingWindow)
	}
	return s
}

// Mode returns the current mode. A gaze session moves from
// ModeCalibrating to ModeGaze when the fourth corner is captured.
func (s *Session) Mode() Mode {
	return s.mode
}

// Message returns the decoded text so far.
func (s *Session) Message() string {
	if s.decoder != nil {
		return s.decoder.Message()
	}
	return s.typed.String()
}

// Pending returns the dot/dash sequence accumulated since the last
// boundary. Empty outside Morse mode.
func (s *Session) Pending() string {
	if s.decoder != nil {
		return s.decoder.Pending()
	}
	return ""
}

// Selector returns the gaze selector for rendering, nil in Morse mode.
func (s *Session) Selector() *gaze.Selector {
	return s.selector
}

// Process consumes one frame's measurements and returns the events it
// produced. Boundary detection advances on every frame, including
// frames with no detected face, so a subject leaving the frame does
// not stall a pending letter.
func (s *Session) Process(in FrameInput) Output {
	switch s.mode {
	case ModeMorse:
		return s.processMorse(in)
	case ModeCalibrating:
		return s.processCalibrating(in)
	default:
		return s.processGaze(in)
	}
}

func (s *Session) processMorse(in FrameInput) Output {
	var out Output

	if in.FaceFound {
		ear := eyemetrics.AverageEAR(in.Left, in.Right)
		if ev, ok := s.detector.Observe(in.Time, ear); ok {
			sym := s.decoder.OnBlink(ev)
			out.Blink = &ev
			out.Symbol = sym
			out.Changed = true
			s.logger.Info("symbol",
				"symbol", sym.String(),
				"duration_ms", ev.Duration.Milliseconds(),
				"pending", s.decoder.Pending())
		}
	}

	if b, ok := s.decoder.Tick(in.Time); ok {
		out.Boundary = &b
		out.Changed = true
		s.logger.Info("character",
			"char", string(b.Char),
			"word", b.Word,
			"message", s.decoder.Message())
	}

	return out
}

func (s *Session) processCalibrating(in FrameInput) Output {
	var out Output
	if in.FaceFound && in.HasGaze {
		s.calSmoother.Add(gaze.Point{X: in.Gaze.X, Y: in.Gaze.Y})
	}
	return out
}

func (s *Session) processGaze(in FrameInput) Output {
	var out Output
	if !in.FaceFound {
		return out
	}

	if in.HasGaze {
		if p, ok := s.selector.Observe(in.Gaze); ok {
			out.GazePoint = &p
		}
	}

	ear := eyemetrics.AverageEAR(in.Left, in.Right)
	ev, ok := s.detector.Observe(in.Time, ear)
	if !ok {
		return out
	}
	out.Blink = &ev

	letter, ok := s.selector.Select(in.Time)
	if !ok {
		return out
	}
	s.typed.WriteRune(letter)
	out.Selected = letter
	out.Changed = true
	s.logger.Info("selection",
		"letter", string(letter),
		"message", s.typed.String())
	return out
}

// CaptureCorner records the current smoothed gaze ratio for the pending
// calibration corner. Returns false outside calibration or before any
// gaze sample has arrived. Capturing the fourth corner switches the
// session to ModeGaze.
func (s *Session) CaptureCorner() (gaze.Corner, bool) {
	if s.mode != ModeCalibrating {
		return 0, false
	}
	p, ok := s.calSmoother.Value()
	if !ok {
		return 0, false
	}
	corner := s.calibrator.Capture(eyemetrics.GazeRatio{X: p.X, Y: p.Y})
	s.logger.Info("corner captured", "corner", corner.String())
	if s.calibrator.Done() {
		s.mode = ModeGaze
		s.logger.Info("calibration complete", "bounds", s.calibrator.Bounds())
	}
	return corner, true
}

// PendingCorner returns the calibration corner awaiting capture, or
// false when calibration is not in progress.
func (s *Session) PendingCorner() (gaze.Corner, bool) {
	if s.mode != ModeCalibrating {
		return 0, false
	}
	return s.calibrator.Pending(), true
}

// Snapshot is the externally visible session state, pushed to the
// monitor after every change.
type Snapshot struct {
	SessionID       string    `json:"session_id"`
	Mode            string    `json:"mode"`
	Message         string    `json:"message"`
	Pending         string    `json:"pending"`
	CalibrationDone bool      `json:"calibration_done"`
	PendingCorner   string    `json:"pending_corner,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Snapshot captures the current visible state.
func (s *Session) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		SessionID:       s.ID.String(),
		Mode:            s.mode.String(),
		Message:         s.Message(),
		Pending:         s.Pending(),
		CalibrationDone: s.calibrator == nil || s.calibrator.Done(),
		UpdatedAt:       now,
	}
	if corner, ok := s.PendingCorner(); ok {
		snap.PendingCorner = corner.String()
	}
	return snap
}
