package eyemetrics

import (
	"image"
	"math"
)

// Point is a 2D point in frame or eye-crop coordinates.
type Point struct {
	X float64
	Y float64
}

// NewPoint creates a point from float coordinates.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// NewPointFrom converts an integer landmark coordinate.
func NewPointFrom(p image.Point) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}
