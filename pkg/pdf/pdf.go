// Package pdf is a render.Sink producing a PDF document, one PDF page per
// drawn page, at true size.
package pdf

import (
	"io"

	"github.com/go-pdf/fpdf"

	"pltpages/pkg/render"
)

// Options tune the look of the document.
type Options struct {
	// GuideGray is the gray level of dashed guide lines, 0 black to 1 white.
	GuideGray float64
	Creator   string
}

var DefaultOptions = Options{GuideGray: 0.7, Creator: "plt2pdf"}

// Sink draws onto an in-memory PDF and writes it to w on Finish.
type Sink struct {
	w       io.Writer
	doc     *fpdf.Fpdf
	options Options
	// height of the open page, for flipping to PDF's top-left origin.
	height float64
}

func New(w io.Writer, options Options) *Sink {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 210, Ht: 297},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	if options.Creator != "" {
		doc.SetCreator(options.Creator, true)
	}
	return &Sink{w: w, doc: doc, options: options}
}

func gray(level float64) int {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	return int(level*255 + 0.5)
}

func (s *Sink) BeginPage(width, height float64) {
	s.height = height
	s.doc.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	s.doc.SetLineCapStyle("round")
	s.doc.SetLineJoinStyle("round")
}

func (s *Sink) DrawLine(x1, y1, x2, y2 float64) {
	s.doc.SetDrawColor(0, 0, 0)
	s.doc.SetLineWidth(0.5 * render.PointMM)
	s.doc.SetDashPattern([]float64{}, 0)
	s.doc.Line(x1, s.height-y1, x2, s.height-y2)
}

func (s *Sink) DrawDashedLine(x1, y1, x2, y2 float64, dash []float64) {
	g := gray(s.options.GuideGray)
	s.doc.SetDrawColor(g, g, g)
	s.doc.SetLineWidth(0.3 * render.PointMM)
	s.doc.SetDashPattern(dash, 0)
	s.doc.Line(x1, s.height-y1, x2, s.height-y2)
	s.doc.SetDashPattern([]float64{}, 0)
}

func (s *Sink) DrawText(x, y float64, text string, fontSize float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	s.doc.SetFont("Helvetica", style, fontSize)
	s.doc.SetTextColor(0, 0, 0)
	s.doc.Text(x, s.height-y, text)
}

// EndPage is a no-op: fpdf closes a page when the next one starts.
func (s *Sink) EndPage() {}

func (s *Sink) Finish() error {
	return s.doc.Output(s.w)
}
