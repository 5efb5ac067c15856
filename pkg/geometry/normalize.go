package geometry

import (
	"errors"
	"math"
)

// DeviceUnitsPerInch is the plotter resolution of HPGL device units.
const DeviceUnitsPerInch = 1016

// DeviceUnitMM converts one HPGL device unit to millimetres.
const DeviceUnitMM = 25.4 / DeviceUnitsPerInch

// ErrDegenerateBounds is returned when a bounding box is requested for no segments.
var ErrDegenerateBounds = errors.New("degenerate bounds: no segments")

// Drawing is a list of segments whose bounding box starts at the origin.
type Drawing struct {
	Segments []LineSegment
	Width    float64
	Height   float64
}

// Bounds returns the bounding box over all segment endpoints.
func Bounds(segments []LineSegment) (Rectangle, error) {
	if len(segments) == 0 {
		return Rectangle{}, ErrDegenerateBounds
	}
	b := Rectangle{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, s := range segments {
		for _, p := range []Point{s.A, s.B} {
			b.Min.X = math.Min(b.Min.X, p.X)
			b.Min.Y = math.Min(b.Min.Y, p.Y)
			b.Max.X = math.Max(b.Max.X, p.X)
			b.Max.Y = math.Max(b.Max.Y, p.Y)
		}
	}
	return b, nil
}

// Normalize moves the bounding box minimum to the origin and scales every
// coordinate by scale. The Y axis keeps its direction.
func Normalize(segments []LineSegment, scale float64) (Drawing, error) {
	bounds, err := Bounds(segments)
	if err != nil {
		return Drawing{}, err
	}

	normalize := func(p Point) Point {
		return p.Minus(bounds.Min).Scale(scale)
	}
	out := make([]LineSegment, len(segments))
	for i, s := range segments {
		out[i] = LineSegment{A: normalize(s.A), B: normalize(s.B)}
	}
	return Drawing{
		Segments: out,
		Width:    bounds.Width() * scale,
		Height:   bounds.Height() * scale,
	}, nil
}

// NormalizeDevice normalizes device-unit segments to millimetres.
func NormalizeDevice(segments []LineSegment) (Drawing, error) {
	return Normalize(segments, DeviceUnitMM)
}
