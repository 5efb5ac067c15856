package render

import (
	"fmt"
	"math"
	"strings"

	"pltpages/pkg/geometry"
	"pltpages/pkg/layout"
)

const (
	labelFontSize = 12
	hintFontSize  = 6
)

// Sheet draws the single-sheet layout as one page.
func Sheet(d geometry.Drawing, sheet layout.Sheet, sink Sink) int {
	sink.BeginPage(sheet.Page.Width, sheet.Page.Height)
	for _, s := range d.Segments {
		s = s.Translate(sheet.Offset)
		sink.DrawLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
	}
	sink.EndPage()
	return 1
}

// pageStyle places the decorations of one tiling policy on a page.
type pageStyle struct {
	labelAt  geometry.Point
	infoAt   geometry.Point
	infoSize float64
	info     func(page int) string
	// guides are the dashed lines towards the next column and the next row.
	rightGuide  geometry.LineSegment
	bottomGuide geometry.LineSegment
	// hintsAt is where paste hints are written; nil for no hints.
	hintsAt *geometry.Point
}

func styleFor(d geometry.Drawing, g *layout.Grid) pageStyle {
	w, h := g.Page.Width, g.Page.Height
	switch p := g.Policy.(type) {
	case layout.MarginOverlay:
		m := p.Margin
		x := m + g.Advance.X
		y := m + g.Advance.Y
		return pageStyle{
			labelAt:  geometry.Point{X: 10, Y: h - 10},
			infoAt:   geometry.Point{X: 10, Y: 10},
			infoSize: 8,
			info: func(page int) string {
				return fmt.Sprintf("Page %d | Drawing: %.0fx%.0fmm | %s overlap",
					page, d.Width, d.Height, FormatLength(p.Overlap))
			},
			rightGuide:  geometry.LineSegment{A: geometry.Point{X: x, Y: m}, B: geometry.Point{X: x, Y: h - m}},
			bottomGuide: geometry.LineSegment{A: geometry.Point{X: m, Y: y}, B: geometry.Point{X: w - m, Y: y}},
			hintsAt:     &geometry.Point{X: 10, Y: 15},
		}
	default:
		overlap := w - g.Advance.X
		if s, ok := p.(layout.Step); ok {
			overlap = s.Overlap
		}
		return pageStyle{
			labelAt:  geometry.Point{X: 5, Y: h - 5},
			infoAt:   geometry.Point{X: 5, Y: 5},
			infoSize: 7,
			info: func(page int) string {
				return fmt.Sprintf("Page %d | %s overlap", page, FormatLength(overlap))
			},
			rightGuide:  geometry.LineSegment{A: geometry.Point{X: w - overlap, Y: 0}, B: geometry.Point{X: w - overlap, Y: h}},
			bottomGuide: geometry.LineSegment{A: geometry.Point{X: 0, Y: overlap}, B: geometry.Point{X: w, Y: overlap}},
		}
	}
}

// Grid draws every non-empty tile of g as its own page, in row-major order,
// and returns the number of pages drawn.
func Grid(d geometry.Drawing, g *layout.Grid, sink Sink) int {
	style := styleFor(d, g)
	page := 0
	for _, tile := range g.Tiles {
		page++
		sink.BeginPage(g.Page.Width, g.Page.Height)

		shift := geometry.Vector2{X: g.Inset, Y: g.Inset}.Minus(tile.Window.Min)
		for _, s := range tile.Segments {
			s = s.Translate(shift)
			sink.DrawLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
		}

		lastCol := tile.Col == g.Cols-1
		lastRow := tile.Row == g.Rows-1
		if !lastCol {
			l := style.rightGuide
			sink.DrawDashedLine(l.A.X, l.A.Y, l.B.X, l.B.Y, GuideDash)
		}
		if !lastRow {
			l := style.bottomGuide
			sink.DrawDashedLine(l.A.X, l.A.Y, l.B.X, l.B.Y, GuideDash)
		}

		sink.DrawText(style.labelAt.X, style.labelAt.Y, tile.Label(), labelFontSize, true)
		sink.DrawText(style.infoAt.X, style.infoAt.Y, style.info(page), style.infoSize, false)

		if style.hintsAt != nil {
			var hints []string
			if !lastCol {
				hints = append(hints, "Right: paste with "+layout.Label(tile.Row, tile.Col+1))
			}
			if !lastRow {
				hints = append(hints, "Bottom: paste with "+layout.Label(tile.Row+1, tile.Col))
			}
			if len(hints) > 0 {
				sink.DrawText(style.hintsAt.X, style.hintsAt.Y, strings.Join(hints, " | "), hintFontSize, false)
			}
		}

		sink.EndPage()
	}
	return page
}

// FormatLength writes a length in millimetres, switching to centimetres for
// whole multiples of ten: 20 is "2cm", 15 is "15mm".
func FormatLength(mm float64) string {
	if mm != 0 && math.Mod(mm, 10) == 0 {
		return fmt.Sprintf("%gcm", mm/10)
	}
	return fmt.Sprintf("%gmm", mm)
}
