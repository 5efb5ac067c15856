// Package render draws planned pages onto a Sink.
//
// Sink coordinates are millimetres in page-local space with the origin at the
// bottom-left corner of the page and Y pointing up. Sinks whose output space
// is Y-down flip on output.
package render

// PointMM is one typographic point in millimetres.
const PointMM = 25.4 / 72

// GuideDash is the dash pattern of overlap guide lines: 3pt on, 3pt off.
var GuideDash = []float64{3 * PointMM, 3 * PointMM}

// Sink receives the drawing, one page at a time.
type Sink interface {
	BeginPage(width, height float64)
	DrawLine(x1, y1, x2, y2 float64)
	DrawDashedLine(x1, y1, x2, y2 float64, dash []float64)
	DrawText(x, y float64, text string, fontSize float64, bold bool)
	// EndPage completes the open page.
	EndPage()
	// Finish writes the document. Errors from earlier calls surface here.
	Finish() error
}
