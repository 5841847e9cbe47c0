package session

import (
	"context"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/blinktalk/go-blinktalk/internal/metrics"
	"github.com/blinktalk/go-blinktalk/pkg/eyemetrics"
	"github.com/blinktalk/go-blinktalk/pkg/gaze"
	"github.com/blinktalk/go-blinktalk/pkg/morse"
	"github.com/blinktalk/go-blinktalk/pkg/vision"
)

// Command is a driver action requested by the renderer's key handling.
type Command int

const (
	CommandNone Command = iota
	// CommandQuit ends the session.
	CommandQuit
	// CommandCapture captures the pending calibration corner.
	CommandCapture
)

// View is everything a renderer needs to draw one frame's overlay. The
// renderer is a one-way sink; nothing it does feeds back into decoding.
type View struct {
	Mode          Mode
	Message       string
	Pending       string
	GazePoint     *gaze.Point
	Grid          *gaze.Grid
	Flash         gaze.Flash
	PendingCorner string
}

// Renderer displays a frame with its overlay and reports the subject's
// key command for this frame. Implementations own all UI concerns.
type Renderer interface {
	Render(frame vision.Frame, view View) Command
	Close() error
}

// Runner owns the frame-driven I/O loop around a Session: capture,
// face detection, eye extraction, per-frame Process, rendering and
// metrics. One iteration per captured frame, no parallelism.
type Runner struct {
	session  *Session
	source   vision.FrameSource
	detector vision.FaceDetector
	eyes     vision.EyeExtractor
	renderer Renderer
	metrics  *metrics.Metrics

	// OnChange is invoked with a fresh snapshot after every visible
	// state change. Used to feed the monitor server.
	OnChange func(Snapshot)

	gray gocv.Mat
}

// NewRunner wires a runner. renderer and m may be nil for headless use.
func NewRunner(s *Session, source vision.FrameSource, detector vision.FaceDetector, eyes vision.EyeExtractor, renderer Renderer, m *metrics.Metrics) *Runner {
	return &Runner{
		session:  s,
		source:   source,
		detector: detector,
		eyes:     eyes,
		renderer: renderer,
		metrics:  m,
		gray:     gocv.NewMat(),
	}
}

// Run drives the session until the context is cancelled, the renderer
// requests quit, or the frame source fails. A source failure is fatal
// and is returned; cancellation and quit return nil.
func (r *Runner) Run(ctx context.Context) error {
	defer r.gray.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := r.source.Read()
		if err != nil {
			return errors.Wrap(err, "frame acquisition failed")
		}
		r.count(func(m *metrics.Metrics) { m.FramesTotal.Inc() })

		in := r.measure(frame)
		out := r.session.Process(in)
		r.observe(in, out)

		if out.Changed && r.OnChange != nil {
			r.OnChange(r.session.Snapshot(frame.Time))
		}

		if r.renderer != nil {
			switch r.renderer.Render(frame, r.view(out)) {
			case CommandQuit:
				return nil
			case CommandCapture:
				if _, ok := r.session.CaptureCorner(); ok && r.session.Mode() == ModeGaze {
					r.count(func(m *metrics.Metrics) { m.CalibrationDone.Set(1) })
				}
				if r.OnChange != nil {
					r.OnChange(r.session.Snapshot(frame.Time))
				}
			}
		}
	}
}

// measure turns a captured frame into the session's FrameInput: gray
// conversion, face detection, primary-face selection, eye contours and
// (for gaze modes) the pupil ratio.
func (r *Runner) measure(frame vision.Frame) FrameInput {
	in := FrameInput{Time: frame.Time}

	gocv.CvtColor(frame.Image, &r.gray, gocv.ColorBGRToGray)

	faces, err := r.detector.Detect(r.gray)
	if err != nil {
		return in
	}
	face, ok := vision.SelectPrimary(faces)
	if !ok {
		return in
	}

	eyes, err := r.eyes.Eyes(r.gray, face)
	if err != nil {
		// Degenerate region: treat as a no-face frame.
		return in
	}

	in.FaceFound = true
	in.Left = eyes.Left
	in.Right = eyes.Right

	if r.session.Mode() != ModeMorse {
		in.Gaze = eyemetrics.AveragePupilRatio(r.gray, eyes.Left, eyes.Right)
		in.HasGaze = true
	}
	return in
}

func (r *Runner) observe(in FrameInput, out Output) {
	if r.metrics == nil {
		return
	}
	if !in.FaceFound {
		r.metrics.NoFaceFrames.Inc()
	}
	if out.Blink != nil {
		r.metrics.Blinks.Inc()
	}
	switch out.Symbol {
	case morse.Dot:
		r.metrics.Dots.Inc()
	case morse.Dash:
		r.metrics.Dashes.Inc()
	}
	if out.Boundary != nil {
		r.metrics.Characters.Inc()
		if !out.Boundary.Mapped {
			r.metrics.UnknownSymbols.Inc()
		}
	}
	if out.Selected != 0 {
		r.metrics.CellSelections.Inc()
	}
}

func (r *Runner) count(fn func(*metrics.Metrics)) {
	if r.metrics != nil {
		fn(r.metrics)
	}
}

func (r *Runner) view(out Output) View {
	view := View{
		Mode:      r.session.Mode(),
		Message:   r.session.Message(),
		Pending:   r.session.Pending(),
		GazePoint: out.GazePoint,
	}
	if sel := r.session.Selector(); sel != nil {
		grid := sel.Grid()
		view.Grid = &grid
		view.Flash = sel.Flash()
	}
	if corner, ok := r.session.PendingCorner(); ok {
		view.PendingCorner = corner.String()
	}
	return view
}

// Close releases the runner's collaborators.
func (r *Runner) Close() {
	if r.renderer != nil {
		_ = r.renderer.Close()
	}
	_ = r.eyes.Close()
	_ = r.detector.Close()
	_ = r.source.Close()
}
