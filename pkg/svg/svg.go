// Package svg is a render.Sink writing one SVG document in millimetres with
// the pages stacked top to bottom.
package svg

import (
	"fmt"
	"io"
	"math"
	"strings"

	"pltpages/pkg/render"
)

// PageGap is the vertical space between stacked pages, in mm.
const PageGap = 10

const (
	strokeStyle = "fill:none;stroke:#000000;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round"
	guideStyle  = "fill:none;stroke:#b3b3b3;stroke-width:%s;stroke-dasharray:%s"
	pageStyle   = "fill:#ffffff;stroke:#cccccc;stroke-width:0.2"
)

type page struct {
	node   *Node
	path   *Node
	d      strings.Builder
	width  float64
	height float64
}

// Sink collects pages in memory and writes the document on Finish.
type Sink struct {
	w     io.Writer
	pages []*page
}

func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

func (s *Sink) current() *page {
	if len(s.pages) == 0 {
		s.BeginPage(0, 0)
	}
	return s.pages[len(s.pages)-1]
}

func (s *Sink) BeginPage(width, height float64) {
	n := element("svg")
	n.ID = fmt.Sprintf("page-%d", len(s.pages)+1)
	n.Width = FormatNumber(width)
	n.Height = FormatNumber(height)
	n.ViewBox = fmt.Sprintf("0 0 %s %s", FormatNumber(width), FormatNumber(height))

	background := element("rect")
	background.Width = n.Width
	background.Height = n.Height
	background.Styles = pageStyle
	n.Children = append(n.Children, background)

	s.pages = append(s.pages, &page{node: n, width: width, height: height})
}

// point converts to SVG's top-left origin.
func (p *page) point(x, y float64) string {
	return FormatNumber(x) + " " + FormatNumber(p.height-y)
}

func (s *Sink) DrawLine(x1, y1, x2, y2 float64) {
	p := s.current()
	if p.path == nil {
		p.path = element("path")
		p.path.Styles = fmt.Sprintf(strokeStyle, FormatNumber(0.5*render.PointMM))
		p.node.Children = append(p.node.Children, p.path)
	}
	if p.d.Len() > 0 {
		p.d.WriteString(" ")
	}
	p.d.WriteString("M " + p.point(x1, y1) + " L " + p.point(x2, y2))
}

func (s *Sink) DrawDashedLine(x1, y1, x2, y2 float64, dash []float64) {
	p := s.current()
	var pattern []string
	for _, d := range dash {
		pattern = append(pattern, FormatNumber(d))
	}
	line := element("line")
	line.X1, line.Y1 = FormatNumber(x1), FormatNumber(p.height-y1)
	line.X2, line.Y2 = FormatNumber(x2), FormatNumber(p.height-y2)
	line.Styles = fmt.Sprintf(guideStyle, FormatNumber(0.3*render.PointMM), strings.Join(pattern, ","))
	p.node.Children = append(p.node.Children, line)
}

func (s *Sink) DrawText(x, y float64, text string, fontSize float64, bold bool) {
	p := s.current()
	t := element("text")
	t.X, t.Y = FormatNumber(x), FormatNumber(p.height-y)
	t.Styles = "font-family:Helvetica,Arial,sans-serif;font-size:" + FormatNumber(fontSize*render.PointMM)
	if bold {
		t.Styles += ";font-weight:bold"
	}
	t.Text = text
	p.node.Children = append(p.node.Children, t)
}

func (s *Sink) EndPage() {
	p := s.current()
	if p.path != nil {
		p.path.D = p.d.String()
	}
}

func (s *Sink) Finish() error {
	root := element("svg")
	root.Version = "1.1"

	width, y := 0.0, 0.0
	for i, p := range s.pages {
		if i > 0 {
			y += PageGap
		}
		if p.path != nil {
			p.path.D = p.d.String()
		}
		p.node.X = "0"
		p.node.Y = FormatNumber(y)
		root.Children = append(root.Children, p.node)
		width = math.Max(width, p.width)
		y += p.height
	}
	root.Width = FormatNumber(width) + "mm"
	root.Height = FormatNumber(y) + "mm"
	root.ViewBox = fmt.Sprintf("0 0 %s %s", FormatNumber(width), FormatNumber(y))

	out, err := root.Marshal()
	if err != nil {
		return err
	}
	_, err = s.w.Write(out)
	return err
}
