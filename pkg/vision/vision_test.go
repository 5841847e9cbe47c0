package vision

import (
	"image"
	"math"
	"testing"
)

func TestSelectPrimary(t *testing.T) {
	if _, ok := SelectPrimary(nil); ok {
		t.Error("empty detection list selected a face")
	}

	faces := []image.Rectangle{
		image.Rect(0, 0, 50, 50),
		image.Rect(100, 100, 300, 300), // largest
		image.Rect(400, 400, 460, 460),
	}
	best, ok := SelectPrimary(faces)
	if !ok {
		t.Fatal("no face selected")
	}
	if best != faces[1] {
		t.Errorf("primary face: got %v, want %v", best, faces[1])
	}
}

func TestBoxContourEAR(t *testing.T) {
	// A detected eye box's synthesized contour has EAR = height/width.
	eye := boxContour(image.Rect(10, 20, 50, 36)) // 40x16
	want := 16.0 / 40.0
	if got := eye.EAR(); math.Abs(got-want) > 1e-9 {
		t.Errorf("EAR: got %v, want %v", got, want)
	}
}

func TestClosedContourReadsAsClosed(t *testing.T) {
	upper := image.Rect(100, 100, 300, 180)
	for _, right := range []bool{false, true} {
		eye := closedContour(upper, right)
		if got := eye.EAR(); got != 0 {
			t.Errorf("closed contour (right=%v) EAR: got %v, want 0", right, got)
		}
		bounds := eye.Bounds(0)
		if !bounds.In(upper.Inset(-1)) {
			t.Errorf("closed contour (right=%v) outside eye band: %v", right, bounds)
		}
	}
}
