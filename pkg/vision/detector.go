package vision

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FaceDetector finds face regions in a grayscale frame. Zero detections
// is a normal outcome (no-op frame), not an error.
type FaceDetector interface {
	Detect(gray gocv.Mat) ([]image.Rectangle, error)
	Close() error
}

// CascadeDetector is a Haar-cascade face detector.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
}

// NewCascadeDetector loads a Haar cascade XML file.
func NewCascadeDetector(cascadePath string) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if ok := classifier.Load(cascadePath); !ok {
		classifier.Close()
		return nil, errors.Errorf("can't load cascade file %s", cascadePath)
	}
	return &CascadeDetector{classifier: classifier}, nil
}

// Detect returns all face rectangles found in the frame.
func (d *CascadeDetector) Detect(gray gocv.Mat) ([]image.Rectangle, error) {
	if gray.Empty() {
		return nil, errors.New("empty frame")
	}
	return d.classifier.DetectMultiScale(gray), nil
}

// Close releases the classifier.
func (d *CascadeDetector) Close() error {
	d.classifier.Close()
	return nil
}

// SelectPrimary picks the single subject face from multiple detections:
// the largest by area. The pipeline tracks one subject only.
func SelectPrimary(faces []image.Rectangle) (image.Rectangle, bool) {
	if len(faces) == 0 {
		return image.Rectangle{}, false
	}
	best := faces[0]
	bestArea := best.Dx() * best.Dy()
	for _, f := range faces[1:] {
		if area := f.Dx() * f.Dy(); area > bestArea {
			best = f
			bestArea = area
		}
	}
	return best, true
}
