package vision

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/blinktalk/go-blinktalk/pkg/eyemetrics"
)

// ErrNoLandmarks is returned when a face region is degenerate or the
// backend can't resolve eye geometry inside it. The caller treats it as
// a no-op frame.
var ErrNoLandmarks = errors.New("no landmarks in face region")

// Eyes holds both eye contours in frame coordinates.
type Eyes struct {
	Left  eyemetrics.Eye
	Right eyemetrics.Eye
}

// EyeExtractor resolves the two 6-point eye contours for a face region.
type EyeExtractor interface {
	Eyes(gray gocv.Mat, face image.Rectangle) (Eyes, error)
	Close() error
}

// Fixed anatomical eye indices in the 68-point landmark layout.
const (
	leftEyeStart  = 36
	rightEyeStart = 42
	landmarkCount = 68
)

// LandmarkProvider is the full 68-point landmark capability, typically
// backed by an external dlib-grade model.
type LandmarkProvider interface {
	Landmarks(gray gocv.Mat, face image.Rectangle) ([landmarkCount]image.Point, error)
	Close() error
}

// landmarkEyes adapts a LandmarkProvider into an EyeExtractor by
// slicing the fixed eye-contour index ranges.
type landmarkEyes struct {
	provider LandmarkProvider
}

// EyesFromLandmarks wraps a 68-point provider as an EyeExtractor.
func EyesFromLandmarks(provider LandmarkProvider) EyeExtractor {
	return &landmarkEyes{provider: provider}
}

func (l *landmarkEyes) Eyes(gray gocv.Mat, face image.Rectangle) (Eyes, error) {
	points, err := l.provider.Landmarks(gray, face)
	if err != nil {
		return Eyes{}, err
	}
	var left, right [6]image.Point
	copy(left[:], points[leftEyeStart:leftEyeStart+6])
	copy(right[:], points[rightEyeStart:rightEyeStart+6])
	return Eyes{
		Left:  eyemetrics.EyeFromImagePoints(left),
		Right: eyemetrics.EyeFromImagePoints(right),
	}, nil
}

func (l *landmarkEyes) Close() error {
	return l.provider.Close()
}

// CascadeEyeExtractor approximates eye contours with a Haar eye
// cascade. A detected eye box is turned into a 6-point contour whose
// EAR tracks the box's height/width ratio; an eye the cascade can't
// find (which is what happens when the eyelid is shut) reads as a
// closed eye. Coarser than a landmark model but needs no extra weights.
type CascadeEyeExtractor struct {
	classifier gocv.CascadeClassifier
}

// NewCascadeEyeExtractor loads a Haar eye cascade XML file.
func NewCascadeEyeExtractor(cascadePath string) (*CascadeEyeExtractor, error) {
	classifier := gocv.NewCascadeClassifier()
	if ok := classifier.Load(cascadePath); !ok {
		classifier.Close()
		return nil, errors.Errorf("can't load eye cascade file %s", cascadePath)
	}
	return &CascadeEyeExtractor{classifier: classifier}, nil
}

// Eyes searches the upper half of the face region for eye boxes and
// assigns them to the left/right eye by their position relative to the
// face midline.
func (c *CascadeEyeExtractor) Eyes(gray gocv.Mat, face image.Rectangle) (Eyes, error) {
	face = face.Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))
	if face.Dx() <= 0 || face.Dy() <= 0 {
		return Eyes{}, ErrNoLandmarks
	}

	// Eyes sit in the upper half of the face; searching only there
	// keeps nostrils and mouth corners out of the candidate set.
	upper := image.Rect(face.Min.X, face.Min.Y, face.Max.X, face.Min.Y+face.Dy()/2)
	region := gray.Region(upper)
	defer region.Close()

	// Both-eyes-closed is a zero-detection frame, so the contours
	// default to closed and are only overwritten by found boxes.
	eyes := Eyes{
		Left:  closedContour(upper, false),
		Right: closedContour(upper, true),
	}

	midX := face.Min.X + face.Dx()/2
	for _, box := range c.classifier.DetectMultiScale(region) {
		box = box.Add(upper.Min)
		contour := boxContour(box)
		if box.Min.X+box.Dx()/2 < midX {
			eyes.Left = contour
		} else {
			eyes.Right = contour
		}
	}
	return eyes, nil
}

// Close releases the classifier.
func (c *CascadeEyeExtractor) Close() error {
	c.classifier.Close()
	return nil
}

// boxContour synthesizes the 6-point contour for a detected eye box.
// The resulting EAR equals the box's height/width ratio.
func boxContour(box image.Rectangle) eyemetrics.Eye {
	minX, minY := float64(box.Min.X), float64(box.Min.Y)
	w, h := float64(box.Dx()), float64(box.Dy())
	midY := minY + h/2
	return eyemetrics.Eye{
		{X: minX, Y: midY},
		{X: minX + w/3, Y: minY},
		{X: minX + 2*w/3, Y: minY},
		{X: minX + w, Y: midY},
		{X: minX + 2*w/3, Y: minY + h},
		{X: minX + w/3, Y: minY + h},
	}
}

// closedContour places a flat contour (EAR 0) in the half of the eye
// band where the missing eye would be, so pupil crops stay plausible.
func closedContour(upper image.Rectangle, right bool) eyemetrics.Eye {
	quarter := upper.Dx() / 4
	cx := float64(upper.Min.X + quarter)
	if right {
		cx = float64(upper.Max.X - quarter)
	}
	cy := float64(upper.Min.Y + upper.Dy()/2)
	w := float64(quarter)
	return eyemetrics.Eye{
		{X: cx - w/2, Y: cy},
		{X: cx - w/6, Y: cy},
		{X: cx + w/6, Y: cy},
		{X: cx + w/2, Y: cy},
		{X: cx + w/6, Y: cy},
		{X: cx - w/6, Y: cy},
	}
}
