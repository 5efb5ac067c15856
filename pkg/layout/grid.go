package layout

import (
	"math"

	"pltpages/pkg/geometry"
)

// tiled is implemented by the policies that split a drawing into a grid.
type tiled interface {
	Policy
	page() PageSize
	inset() float64
	window() PageSize
	advance() geometry.Vector2
}

func (p Step) page() PageSize   { return p.Page }
func (p Step) inset() float64   { return 0 }
func (p Step) window() PageSize { return p.Page }
func (p Step) advance() geometry.Vector2 {
	return geometry.Vector2{X: p.Page.Width - p.Overlap, Y: p.Page.Height - p.Overlap}
}

func (p MarginOverlay) page() PageSize { return p.Page }
func (p MarginOverlay) inset() float64 { return p.Margin }
func (p MarginOverlay) window() PageSize {
	return PageSize{Width: p.Page.Width - 2*p.Margin, Height: p.Page.Height - 2*p.Margin}
}
func (p MarginOverlay) advance() geometry.Vector2 {
	w := p.window()
	return geometry.Vector2{X: w.Width - p.Overlap, Y: w.Height - p.Overlap}
}

// Tile is one non-empty page of a grid.
type Tile struct {
	Row, Col int
	// Window is the area of the drawing shown on this page.
	Window   geometry.Rectangle
	Segments []geometry.LineSegment
}

// Grid is a planned tiling of a drawing.
type Grid struct {
	Policy Policy
	Page   PageSize
	// Inset is where the window origin lands on the page, on both axes.
	Inset   float64
	Window  PageSize
	Advance geometry.Vector2
	Rows    int
	Cols    int
	// Tiles holds only the tiles that show at least one segment, in row-major order.
	Tiles []Tile
}

// cells returns ceil(extent/advance), but never less than one cell.
func cells(extent, advance float64) int {
	n := int(math.Ceil(extent / advance))
	if n < 1 {
		n = 1
	}
	return n
}

// touches is the open-interval overlap test between a segment's bounds and a
// window: a segment that only meets the window on its edge is excluded.
func touches(b, w geometry.Rectangle) bool {
	return b.Min.X < w.Max.X && b.Max.X > w.Min.X &&
		b.Min.Y < w.Max.Y && b.Max.Y > w.Min.Y
}

// PlanGrid partitions a normalized drawing into pages for a Step or
// MarginOverlay policy and assigns every segment to each tile it touches.
// Tiles showing nothing are left out.
func PlanGrid(d geometry.Drawing, policy Policy) (*Grid, error) {
	t, ok := policy.(tiled)
	if !ok {
		return nil, invalid("policy %q does not tile", policy.Name())
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	advance := t.advance()
	window := t.window()
	g := &Grid{
		Policy:  policy,
		Page:    t.page(),
		Inset:   t.inset(),
		Window:  window,
		Advance: advance,
		Cols:    cells(d.Width, advance.X),
		Rows:    cells(d.Height, advance.Y),
	}

	bounds := make([]geometry.Rectangle, len(d.Segments))
	for i, s := range d.Segments {
		bounds[i] = s.Bounds()
	}
	index := newSegmentIndex(bounds)

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			origin := geometry.Point{X: float64(col) * advance.X, Y: float64(row) * advance.Y}
			w := geometry.Rectangle{
				Min: origin,
				Max: origin.Add(geometry.Point{X: window.Width, Y: window.Height}),
			}

			// The outer edge of the grid is open so segments lying on the
			// drawing's own minimum edge are still shown.
			reach := w
			if col == 0 {
				reach.Min.X = math.Inf(-1)
			}
			if row == 0 {
				reach.Min.Y = math.Inf(-1)
			}

			var segments []geometry.LineSegment
			for _, i := range index.candidates(w) {
				if touches(bounds[i], reach) {
					segments = append(segments, d.Segments[i])
				}
			}
			if len(segments) == 0 {
				continue
			}
			g.Tiles = append(g.Tiles, Tile{Row: row, Col: col, Window: w, Segments: segments})
		}
	}
	return g, nil
}

// Label is the page label of the tile, for example "A1".
func (t Tile) Label() string {
	return Label(t.Row, t.Col)
}
