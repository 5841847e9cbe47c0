// Package vision provides the capture-side collaborators of the typing
// pipeline: a frame source, a face detector and an eye landmark
// extractor. The decoding engine only ever sees landmark coordinates
// and frame timestamps, so every implementation here is replaceable.
package vision

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Frame is one captured image with its wall-clock timestamp. All timing
// downstream is driven by Time, never by frame counts.
type Frame struct {
	Image gocv.Mat
	Time  time.Time
}

// FrameSource produces frames until the device fails. Read blocks until
// the next frame is available; a read error is fatal to the session.
type FrameSource interface {
	Read() (Frame, error)
	Close() error
}

// Camera is a FrameSource over a local capture device.
type Camera struct {
	capture *gocv.VideoCapture
	buf     gocv.Mat
}

// OpenCamera opens capture device deviceID.
func OpenCamera(deviceID int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open capture device %d", deviceID)
	}
	return &Camera{capture: capture, buf: gocv.NewMat()}, nil
}

// Read blocks for the next frame and stamps it with the current time.
func (c *Camera) Read() (Frame, error) {
	if ok := c.capture.Read(&c.buf); !ok {
		return Frame{}, errors.New("capture device closed or failed")
	}
	if c.buf.Empty() {
		return Frame{}, errors.New("capture device produced an empty frame")
	}
	return Frame{Image: c.buf, Time: time.Now()}, nil
}

// FrameSize reports the capture frame dimensions in pixels. Falls back
// to decoding one frame when the backend does not report dimensions
// before the first read.
func (c *Camera) FrameSize() (width, height int) {
	w := int(c.capture.Get(gocv.VideoCaptureFrameWidth))
	h := int(c.capture.Get(gocv.VideoCaptureFrameHeight))
	if w > 0 && h > 0 {
		return w, h
	}
	if frame, err := c.Read(); err == nil {
		return frame.Image.Cols(), frame.Image.Rows()
	}
	return 0, 0
}

// Close releases the device and the frame buffer.
func (c *Camera) Close() error {
	c.buf.Close()
	if err := c.capture.Close(); err != nil {
		return errors.Wrap(err, "closing capture device")
	}
	return nil
}
