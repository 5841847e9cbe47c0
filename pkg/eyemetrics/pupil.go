package eyemetrics

import (
	"image"

	"gocv.io/x/gocv"
)

// Pupil isolation parameters. The iris is the darkest region of the eye
// crop, so a blur followed by an inverted binary threshold leaves it as
// the dominant white blob.
const (
	pupilBlurKernel  = 7
	pupilThreshold   = 42
	eyeCropMargin    = 2
	neutralGazeRatio = 0.5
)

// GazeRatio is the pupil centroid normalized to [0,1] within the eye
// bounding box. (0,0) is the top-left of the eye region.
type GazeRatio struct {
	X float64
	Y float64
}

// NeutralGaze is the ratio reported when no pupil can be isolated.
func NeutralGaze() GazeRatio {
	return GazeRatio{X: neutralGazeRatio, Y: neutralGazeRatio}
}

// PupilRatio locates the darkest blob inside the eye contour of a
// grayscale frame and returns its centroid as a normalized ratio.
// Gaze input is best-effort: an empty crop, an out-of-frame contour or
// a crop with no dark region all yield the neutral ratio, never an error.
func PupilRatio(gray gocv.Mat, eye Eye) GazeRatio {
	if gray.Empty() {
		return NeutralGaze()
	}

	bounds := eye.Bounds(eyeCropMargin)
	frame := image.Rect(0, 0, gray.Cols(), gray.Rows())
	bounds = bounds.Intersect(frame)
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return NeutralGaze()
	}

	crop := gray.Region(bounds)
	defer crop.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(crop, &blurred, image.Pt(pupilBlurKernel, pupilBlurKernel), 0, 0, gocv.BorderDefault)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(blurred, &binary, pupilThreshold, 255, gocv.ThresholdBinaryInv)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	bestArea := 0.0
	var bestRect image.Rectangle
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area > bestArea {
			bestArea = area
			bestRect = gocv.BoundingRect(contour)
		}
	}
	if bestArea == 0 {
		return NeutralGaze()
	}

	cx := float64(bestRect.Min.X) + float64(bestRect.Dx())/2
	cy := float64(bestRect.Min.Y) + float64(bestRect.Dy())/2
	return GazeRatio{
		X: cx / float64(bounds.Dx()),
		Y: cy / float64(bounds.Dy()),
	}
}

// AveragePupilRatio returns the mean gaze ratio of both eyes.
func AveragePupilRatio(gray gocv.Mat, left, right Eye) GazeRatio {
	l := PupilRatio(gray, left)
	r := PupilRatio(gray, right)
	return GazeRatio{X: (l.X + r.X) / 2, Y: (l.Y + r.Y) / 2}
}
