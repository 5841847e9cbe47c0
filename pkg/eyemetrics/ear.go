// Package eyemetrics computes eyelid and pupil geometry from eye-contour
// landmarks: the eye aspect ratio (EAR) used for blink detection and the
// normalized pupil position used as a gaze proxy.
package eyemetrics

import "image"

// Eye holds the six contour points of one eye in the fixed anatomical
// order: outer corner, two upper-lid points, inner corner, two lower-lid
// points (dlib indices 36-41 for the left eye, 42-47 for the right).
type Eye [6]Point

// EyeFromImagePoints converts six integer landmark coordinates.
func EyeFromImagePoints(pts [6]image.Point) Eye {
	var eye Eye
	for i, p := range pts {
		eye[i] = NewPointFrom(p)
	}
	return eye
}

// EAR returns the eye aspect ratio
//
//	(|p2-p6| + |p3-p5|) / (2 * |p1-p4|)
//
// Low values indicate a closed eyelid. A degenerate contour with zero
// horizontal span has no defined ratio; it is reported as 0 (closed) so
// that a bad detection reads as a shut eye rather than a crash.
func (e Eye) EAR() float64 {
	horizontal := euclideanDistance(e[0], e[3])
	if horizontal == 0 {
		return 0
	}
	vertical := euclideanDistance(e[1], e[5]) + euclideanDistance(e[2], e[4])
	return vertical / (2 * horizontal)
}

// AverageEAR returns the mean EAR of both eyes.
func AverageEAR(left, right Eye) float64 {
	return (left.EAR() + right.EAR()) / 2
}

// Bounds returns the bounding box of the eye contour, grown by margin
// pixels on every side. Used to crop the eye region for pupil isolation.
func (e Eye) Bounds(margin int) image.Rectangle {
	minX, minY := e[0].X, e[0].Y
	maxX, maxY := e[0].X, e[0].Y
	for _, p := range e[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(int(minX)-margin, int(minY)-margin, int(maxX)+margin, int(maxY)+margin)
}
