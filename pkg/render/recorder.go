package render

// Line is a recorded stroke.
type Line struct {
	X1, Y1, X2, Y2 float64
	Dashed         bool
}

// Text is a recorded text label.
type Text struct {
	X, Y     float64
	Text     string
	FontSize float64
	Bold     bool
}

// RecordedPage is everything drawn between BeginPage and EndPage.
type RecordedPage struct {
	Width, Height float64
	Lines         []Line
	Texts         []Text
	Complete      bool
}

// Recorder is a Sink that keeps every call in memory.
type Recorder struct {
	Pages    []*RecordedPage
	Finished bool
}

func (r *Recorder) current() *RecordedPage {
	if len(r.Pages) == 0 {
		r.Pages = append(r.Pages, &RecordedPage{})
	}
	return r.Pages[len(r.Pages)-1]
}

func (r *Recorder) BeginPage(width, height float64) {
	r.Pages = append(r.Pages, &RecordedPage{Width: width, Height: height})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	p := r.current()
	p.Lines = append(p.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

func (r *Recorder) DrawDashedLine(x1, y1, x2, y2 float64, dash []float64) {
	p := r.current()
	p.Lines = append(p.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Dashed: true})
}

func (r *Recorder) DrawText(x, y float64, text string, fontSize float64, bold bool) {
	p := r.current()
	p.Texts = append(p.Texts, Text{X: x, Y: y, Text: text, FontSize: fontSize, Bold: bold})
}

func (r *Recorder) EndPage() {
	r.current().Complete = true
}

func (r *Recorder) Finish() error {
	r.Finished = true
	return nil
}

// Solid returns the solid lines of the page.
func (p *RecordedPage) Solid() []Line {
	var lines []Line
	for _, l := range p.Lines {
		if !l.Dashed {
			lines = append(lines, l)
		}
	}
	return lines
}

// Dashed returns the guide lines of the page.
func (p *RecordedPage) Dashed() []Line {
	var lines []Line
	for _, l := range p.Lines {
		if l.Dashed {
			lines = append(lines, l)
		}
	}
	return lines
}
