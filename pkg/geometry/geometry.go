package geometry

import (
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

// LineSegment is a straight stroke from A to B.
type LineSegment struct {
	A Point
	B Point
}

type Rectangle struct {
	Min Point
	Max Point
}

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

// Scale returns the point scaled by the given factor f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Translate returns the segment moved by d.
func (s LineSegment) Translate(d Vector2) LineSegment {
	return LineSegment{A: s.A.Add(d), B: s.B.Add(d)}
}

// Bounds returns the smallest rectangle holding both endpoints.
func (s LineSegment) Bounds() Rectangle {
	return Rectangle{
		Min: Point{X: math.Min(s.A.X, s.B.X), Y: math.Min(s.A.Y, s.B.Y)},
		Max: Point{X: math.Max(s.A.X, s.B.X), Y: math.Max(s.A.Y, s.B.Y)},
	}
}

func (r Rectangle) Width() float64 {
	return r.Max.X - r.Min.X
}

func (r Rectangle) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the midpoint of the rectangle.
func (r Rectangle) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}
