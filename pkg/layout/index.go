package layout

import (
	"math"
	"sort"

	"github.com/asim/quadtree"

	"pltpages/pkg/geometry"
)

// segmentIndex finds the segments that may touch a window. Each segment is
// stored as the centre of its bounding box; a window query is widened by the
// largest half extent of any segment, so every touching segment is returned.
// Segments sharing a centre share one tree point.
type segmentIndex struct {
	tree *quadtree.QuadTree
	// overflow holds segments the tree refused.
	overflow []int
	halfW    float64
	halfH    float64
}

// bucket is the data of one tree point.
type bucket struct {
	segments []int
}

var zeroPoint = quadtree.NewPoint(0, 0, nil)

// snap rounds a centre to a fixed grid so distinct tree points are never
// closer than the grid step. Queries are widened by far more than the step.
func snap(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func newSegmentIndex(bounds []geometry.Rectangle) *segmentIndex {
	ix := &segmentIndex{}
	if len(bounds) == 0 {
		return ix
	}

	all := bounds[0]
	for _, b := range bounds {
		all.Min.X = math.Min(all.Min.X, b.Min.X)
		all.Min.Y = math.Min(all.Min.Y, b.Min.Y)
		all.Max.X = math.Max(all.Max.X, b.Max.X)
		all.Max.Y = math.Max(all.Max.Y, b.Max.Y)
		ix.halfW = math.Max(ix.halfW, b.Width()/2)
		ix.halfH = math.Max(ix.halfH, b.Height()/2)
	}

	// Add a small margin to avoid dropping objects at the edges
	center := all.Center()
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(center.X, center.Y, nil),
		quadtree.NewPoint(all.Width()/2+1, all.Height()/2+1, nil))
	ix.tree = quadtree.New(aabb, 0, nil)

	for i, b := range bounds {
		c := b.Center()
		ix.add(snap(c.X), snap(c.Y), i)
	}
	return ix
}

// add files segment i under the point (x, y), reusing an existing point at
// exactly those coordinates, so no tree cell ever fills with identical
// points.
func (ix *segmentIndex) add(x, y float64, i int) {
	point := quadtree.NewPoint(x, y, nil)
	points := ix.tree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
	if len(points) > 0 {
		px, py := points[0].Coordinates()
		if px == x && py == y {
			b := points[0].Data().(*bucket)
			b.segments = append(b.segments, i)
			return
		}
	}
	if !ix.tree.Insert(quadtree.NewPoint(x, y, &bucket{segments: []int{i}})) {
		ix.overflow = append(ix.overflow, i)
	}
}

// candidates returns the indexes of segments whose bounds may touch w, in
// ascending order.
func (ix *segmentIndex) candidates(w geometry.Rectangle) []int {
	if ix.tree == nil {
		return nil
	}
	center := w.Center()
	query := quadtree.NewAABB(
		quadtree.NewPoint(center.X, center.Y, nil),
		quadtree.NewPoint(w.Width()/2+ix.halfW+1, w.Height()/2+ix.halfH+1, nil))

	found := append([]int(nil), ix.overflow...)
	for _, point := range ix.tree.Search(query) {
		found = append(found, point.Data().(*bucket).segments...)
	}
	sort.Ints(found)
	return found
}
