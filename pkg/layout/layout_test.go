package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/asim/quadtree"
	"github.com/google/go-cmp/cmp"

	"pltpages/pkg/geometry"
)

func seg(x1, y1, x2, y2 float64) geometry.LineSegment {
	return geometry.LineSegment{A: geometry.Point{X: x1, Y: y1}, B: geometry.Point{X: x2, Y: y2}}
}

func rect(x1, y1, x2, y2 float64) geometry.Rectangle {
	return geometry.Rectangle{Min: geometry.Point{X: x1, Y: y1}, Max: geometry.Point{X: x2, Y: y2}}
}

func tileLabels(g *Grid) []string {
	var labels []string
	for _, tile := range g.Tiles {
		labels = append(labels, tile.Label())
	}
	return labels
}

func TestGridSizeStep(t *testing.T) {
	d := geometry.Drawing{
		Segments: []geometry.LineSegment{seg(0, 0, 400, 300)},
		Width:    400,
		Height:   300,
	}
	g, err := PlanGrid(d, Step{Page: A4, Overlap: 20})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	if g.Cols != 3 || g.Rows != 2 {
		t.Errorf("expected 2 rows x 3 cols, got %d x %d", g.Rows, g.Cols)
	}
	if diff := cmp.Diff(geometry.Vector2{X: 190, Y: 277}, g.Advance); diff != "" {
		t.Errorf("incorrect advance: %s", diff)
	}
	if g.Inset != 0 || g.Window != A4 {
		t.Errorf("step windows are whole pages, got inset %g window %v", g.Inset, g.Window)
	}
}

func TestGridSizeMarginOverlay(t *testing.T) {
	d := geometry.Drawing{
		Segments: []geometry.LineSegment{seg(0, 0, 400, 300)},
		Width:    400,
		Height:   300,
	}
	g, err := PlanGrid(d, MarginOverlay{Page: A4, Margin: 20, Overlap: 20})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	// printable 170x257, advance 150x237
	if g.Cols != 3 || g.Rows != 2 {
		t.Errorf("expected 2 rows x 3 cols, got %d x %d", g.Rows, g.Cols)
	}
	if diff := cmp.Diff(PageSize{Width: 170, Height: 257}, g.Window); diff != "" {
		t.Errorf("incorrect window: %s", diff)
	}
	if g.Inset != 20 {
		t.Errorf("expected inset 20, got %g", g.Inset)
	}
}

func TestTileWindowsCoverAndOverlap(t *testing.T) {
	d := geometry.Drawing{
		Segments: []geometry.LineSegment{seg(0, 0, 600, 0), seg(600, 0, 600, 600)},
		Width:    600,
		Height:   600,
	}
	for _, policy := range []Policy{
		Step{Page: A4, Overlap: 20},
		MarginOverlay{Page: A4, Margin: 20, Overlap: 15},
	} {
		g, err := PlanGrid(d, policy)
		if err != nil {
			t.Fatalf("%s: PlanGrid failed: %s", policy.Name(), err)
		}
		windows := map[[2]int]geometry.Rectangle{}
		for _, tile := range g.Tiles {
			windows[[2]int{tile.Row, tile.Col}] = tile.Window
		}
		for key, w := range windows {
			if right, ok := windows[[2]int{key[0], key[1] + 1}]; ok {
				if overlap := w.Max.X - right.Min.X; math.Abs(overlap-overlapOf(policy)) > 1e-9 {
					t.Errorf("%s: horizontal overlap %g", policy.Name(), overlap)
				}
			}
			if below, ok := windows[[2]int{key[0] + 1, key[1]}]; ok {
				if overlap := w.Max.Y - below.Min.Y; math.Abs(overlap-overlapOf(policy)) > 1e-9 {
					t.Errorf("%s: vertical overlap %g", policy.Name(), overlap)
				}
			}
		}
		lastX := float64(g.Cols-1)*g.Advance.X + g.Window.Width
		lastY := float64(g.Rows-1)*g.Advance.Y + g.Window.Height
		if lastX < d.Width || lastY < d.Height {
			t.Errorf("%s: grid %gx%g does not cover drawing %gx%g", policy.Name(), lastX, lastY, d.Width, d.Height)
		}
	}
}

func overlapOf(p Policy) float64 {
	switch p := p.(type) {
	case Step:
		return p.Overlap
	case MarginOverlay:
		return p.Overlap
	}
	return 0
}

func TestEmptyTilesSkipped(t *testing.T) {
	// An L shape leaves the top-right tile empty.
	d := geometry.Drawing{
		Segments: []geometry.LineSegment{
			seg(0, 0, 300, 0),
			seg(0, 0, 0, 400),
		},
		Width:  300,
		Height: 400,
	}
	g, err := PlanGrid(d, Step{Page: A4, Overlap: 20})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	if g.Rows != 2 || g.Cols != 2 {
		t.Fatalf("expected 2x2 grid, got %dx%d", g.Rows, g.Cols)
	}
	if diff := cmp.Diff([]string{"A1", "A2", "B1"}, tileLabels(g)); diff != "" {
		t.Errorf("incorrect tiles: %s", diff)
	}
}

func TestBoundaryExclusive(t *testing.T) {
	d := geometry.Drawing{
		Segments: []geometry.LineSegment{
			seg(0, 10, 5, 10),   // ends exactly where a later column starts
			seg(95, 10, 95, 20), // vertical, inside column 0 only
			seg(10, 0, 20, 0),   // zero height on the drawing's bottom edge
			seg(0, 50, 0, 60),   // zero width on the drawing's left edge
			seg(150, 80, 150, 80),
		},
		Width:  150,
		Height: 80,
	}
	g, err := PlanGrid(d, Step{Page: PageSize{Width: 100, Height: 100}, Overlap: 5})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	// advance 95: columns start at 0 and 95. The first column and row are
	// open towards -Inf, so the two edge segments above land in A1 although
	// a strict open interval on [0, 100] would drop them.
	if g.Cols != 2 || g.Rows != 1 {
		t.Fatalf("expected 1x2 grid, got %dx%d", g.Rows, g.Cols)
	}
	want := []Tile{
		{
			Row: 0, Col: 0, Window: rect(0, 0, 100, 100),
			Segments: []geometry.LineSegment{
				seg(0, 10, 5, 10),
				seg(95, 10, 95, 20),
				seg(10, 0, 20, 0),
				seg(0, 50, 0, 60),
			},
		},
		{
			Row: 0, Col: 1, Window: rect(95, 0, 195, 100),
			Segments: []geometry.LineSegment{
				seg(150, 80, 150, 80),
			},
		},
	}
	if diff := cmp.Diff(want, g.Tiles); diff != "" {
		t.Errorf("incorrect tiles: %s", diff)
	}
}

func TestRepeatedSegments(t *testing.T) {
	var segments []geometry.LineSegment
	for i := 0; i < 2000; i++ {
		x := float64(i%100) * 4
		y := float64(i/100) * 4
		segments = append(segments, seg(x, y, x+1, y+1))
	}
	// A stroke plotted many times over, plus spokes through one centre.
	for i := 0; i < 12; i++ {
		segments = append(segments, seg(50, 50, 60, 60))
	}
	for i := 0; i < 12; i++ {
		segments = append(segments, seg(55-float64(i), 55+float64(i), 55+float64(i), 55-float64(i)))
	}
	d := geometry.Drawing{Segments: segments, Width: 397, Height: 77}
	g, err := PlanGrid(d, Step{Page: A4, Overlap: 20})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	repeated := 0
	for _, s := range g.Tiles[0].Segments {
		if s.Bounds().Center() == (geometry.Point{X: 55, Y: 55}) {
			repeated++
		}
	}
	if repeated != 24 {
		t.Errorf("expected all 24 segments centred on (55,55) in A1, got %d", repeated)
	}
}

func TestIndexSharesPoints(t *testing.T) {
	bounds := []geometry.Rectangle{
		rect(0, 0, 2, 2),
		rect(1, 1, 1, 1),
		rect(0, 0, 2, 2),
		rect(10, 10, 12, 12),
	}
	ix := newSegmentIndex(bounds)
	if diff := cmp.Diff([]int{0, 1, 2}, ix.candidates(rect(0, 0, 3, 3))); diff != "" {
		t.Errorf("incorrect candidates: %s", diff)
	}
	if got := len(ix.tree.Search(quadtree.NewAABB(
		quadtree.NewPoint(6, 6, nil), quadtree.NewPoint(10, 10, nil)))); got != 2 {
		t.Errorf("expected 2 distinct tree points, got %d", got)
	}
}

func TestGridSizeTrueCeiling(t *testing.T) {
	// 190.5mm needs a second 190mm step; the missing half millimetre
	// would otherwise fall off the last page.
	d := geometry.Drawing{Segments: []geometry.LineSegment{seg(0, 0, 190.5, 10)}, Width: 190.5, Height: 10}
	g, err := PlanGrid(d, Step{Page: A4, Overlap: 20})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	if g.Cols != 2 {
		t.Errorf("expected 2 columns, got %d", g.Cols)
	}
}

func TestSegmentOnBoundaryNotInFarTile(t *testing.T) {
	// x in [0,5] never reaches a tile whose window starts at x >= 5.
	d := geometry.Drawing{
		Segments: []geometry.LineSegment{seg(0, 1, 5, 2), seg(5, 3, 5, 4), seg(0, 0, 30, 8)},
		Width:    30,
		Height:   8,
	}
	g, err := PlanGrid(d, Step{Page: PageSize{Width: 10, Height: 10}, Overlap: 5})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	for _, tile := range g.Tiles {
		if tile.Window.Min.X < 5 {
			continue
		}
		for _, s := range tile.Segments {
			if math.Max(s.A.X, s.B.X) <= 5 {
				t.Errorf("tile %s starting at x=%g holds %v", tile.Label(), tile.Window.Min.X, s)
			}
		}
	}
}

func TestSegmentOrderPreserved(t *testing.T) {
	var segments []geometry.LineSegment
	for i := 0; i < 200; i++ {
		x := float64((i * 37) % 300)
		segments = append(segments, seg(x, 10, x+1, 11))
	}
	d := geometry.Drawing{Segments: segments, Width: 301, Height: 11}
	g, err := PlanGrid(d, Step{Page: A4, Overlap: 20})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	total := 0
	for _, tile := range g.Tiles {
		var want []geometry.LineSegment
		for _, s := range segments {
			if touches(s.Bounds(), tile.Window) {
				want = append(want, s)
			}
		}
		if diff := cmp.Diff(want, tile.Segments); diff != "" {
			t.Errorf("tile %s: incorrect segments: %s", tile.Label(), diff)
		}
		total += len(tile.Segments)
	}
	if total < len(segments) {
		t.Errorf("only %d of %d segments assigned", total, len(segments))
	}
}

func TestZeroSizeDrawing(t *testing.T) {
	d := geometry.Drawing{Segments: []geometry.LineSegment{seg(0, 0, 0, 0)}}
	g, err := PlanGrid(d, MarginOverlay{Page: A4, Margin: 20, Overlap: 20})
	if err != nil {
		t.Fatalf("PlanGrid failed: %s", err)
	}
	if g.Rows != 1 || g.Cols != 1 || len(g.Tiles) != 1 {
		t.Errorf("expected a single tile, got %dx%d with %d tiles", g.Rows, g.Cols, len(g.Tiles))
	}
}

func TestInvalidConfig(t *testing.T) {
	d := geometry.Drawing{Segments: []geometry.LineSegment{seg(0, 0, 1, 1)}, Width: 1, Height: 1}
	tests := []struct {
		name   string
		policy Policy
	}{
		{"overlap equals width", Step{Page: A4, Overlap: 210}},
		{"overlap above height", Step{Page: PageSize{Width: 300, Height: 100}, Overlap: 150}},
		{"zero overlap", Step{Page: A4, Overlap: 0}},
		{"negative overlap", MarginOverlay{Page: A4, Margin: 10, Overlap: -1}},
		{"zero page", Step{Page: PageSize{}, Overlap: 1}},
		{"margin eats advance", MarginOverlay{Page: A4, Margin: 95, Overlap: 20}},
		{"negative margin", MarginOverlay{Page: A4, Margin: -1, Overlap: 20}},
		{"single sheet does not tile", SingleSheet{Margin: 20}},
		{"NaN overlap", Step{Page: A4, Overlap: math.NaN()}},
	}
	for _, test := range tests {
		if _, err := PlanGrid(d, test.policy); !errors.Is(err, ErrInvalidTilingConfig) {
			t.Errorf("%s: expected ErrInvalidTilingConfig, got %v", test.name, err)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name string
		want Policy
	}{
		{SingleSheetName, SingleSheet{Margin: 15}},
		{StepName, Step{Page: A4, Overlap: 20}},
		{MarginOverlayName, MarginOverlay{Page: A4, Margin: 10, Overlap: 20}},
	}
	for _, test := range tests {
		got, err := ParsePolicy(test.name, A4, 20, 10, 15)
		if err != nil {
			t.Fatalf("ParsePolicy(%q) failed: %s", test.name, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("ParsePolicy(%q): %s", test.name, diff)
		}
	}
	if _, err := ParsePolicy("spiral", A4, 20, 10, 15); !errors.Is(err, ErrInvalidTilingConfig) {
		t.Errorf("expected ErrInvalidTilingConfig for unknown policy, got %v", err)
	}
	if _, err := ParsePolicy(StepName, A4, 300, 10, 15); !errors.Is(err, ErrInvalidTilingConfig) {
		t.Errorf("expected ErrInvalidTilingConfig for oversized overlap, got %v", err)
	}
}

func TestPlanSheet(t *testing.T) {
	d := geometry.Drawing{Segments: []geometry.LineSegment{seg(0, 0, 100, 50)}, Width: 100, Height: 50}
	got, err := PlanSheet(d, SingleSheet{Margin: 20})
	if err != nil {
		t.Fatalf("PlanSheet failed: %s", err)
	}
	want := Sheet{Page: PageSize{Width: 140, Height: 90}, Offset: geometry.Vector2{X: 20, Y: 20}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect sheet: %s", diff)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "A1"},
		{1, 2, "B3"},
		{25, 0, "Z1"},
		{26, 9, "AA10"},
		{27, 0, "AB1"},
		{51, 0, "AZ1"},
		{52, 0, "BA1"},
	}
	for _, test := range tests {
		if got := Label(test.row, test.col); got != test.want {
			t.Errorf("Label(%d, %d) = %q, want %q", test.row, test.col, got, test.want)
		}
	}
}
