// Package gcode is a render.Sink emitting G-code for a pen plotter. Pages are
// separated by an M0 pause so the operator can change the sheet.
package gcode

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
)

// Options hold the machine settings written into the program.
type Options struct {
	TravelRate float64
	FeedRate   float64
	PenUpZ     float64
	PenDownZ   float64
	PenUpSpeed float64
}

var DefaultOptions = Options{
	TravelRate: 10000,
	FeedRate:   1500,
	PenUpZ:     2,
	PenDownZ:   -2,
	PenUpSpeed: 3300,
}

// Sink writes machine coordinates in mm with Y up, which the plotter shares
// with the renderer, so no transform is applied.
type Sink struct {
	w       io.Writer
	buf     bytes.Buffer
	options Options
	pages   int
	down    bool
	// pen position, valid once moved is set
	x, y  float64
	moved bool
}

func New(w io.Writer, options Options) *Sink {
	s := &Sink{w: w, options: options}
	s.header()
	return s
}

func (s *Sink) header() {
	o := s.options
	fmt.Fprintln(&s.buf, "G21 (metric)")
	fmt.Fprintln(&s.buf, "G90 (absolute mode)")
	fmt.Fprintf(&s.buf, "G92 X%.2f Y%.2f Z%.2f (you are here)\n", 0.0, 0.0, 0.0)
	fmt.Fprintf(&s.buf, "G0 F%.2f (travel feed rate)\n", o.TravelRate)
	fmt.Fprintf(&s.buf, "G1 F%.2f (draw feed rate)\n", o.FeedRate)
	fmt.Fprintf(&s.buf, "S%.2f (pen up speed)\n", o.PenUpSpeed)
	fmt.Fprintln(&s.buf, "M3 (start)")
	fmt.Fprintf(&s.buf, "G0 Z%.2f (pen up)\n", o.PenUpZ)
}

func (s *Sink) footer() {
	s.penUp()
	fmt.Fprintln(&s.buf)
	fmt.Fprintln(&s.buf, "(end of job)")
	fmt.Fprintln(&s.buf, "M5 (stop)")
	fmt.Fprintf(&s.buf, "G0 X%.2f Y%.2f F%.2f (go home)\n", 0.0, 0.0, s.options.TravelRate)
}

func (s *Sink) penUp() {
	if s.down {
		fmt.Fprintf(&s.buf, "G0 Z%.2f (pen up)\n", s.options.PenUpZ)
		s.down = false
	}
}

func (s *Sink) penDown() {
	if !s.down {
		fmt.Fprintf(&s.buf, "G0 Z%.2f (pen down)\n", s.options.PenDownZ)
		s.down = true
	}
}

// stroke draws a straight line, travelling first if the pen is elsewhere.
func (s *Sink) stroke(x1, y1, x2, y2 float64) {
	if !s.moved || math.Abs(s.x-x1)+math.Abs(s.y-y1) > 0.01 {
		s.penUp()
		fmt.Fprintf(&s.buf, "G0 X%.2f Y%.2f\n", x1, y1)
	}
	s.penDown()
	fmt.Fprintf(&s.buf, "G1 X%.2f Y%.2f\n", x2, y2)
	s.x, s.y, s.moved = x2, y2, true
}

func (s *Sink) BeginPage(width, height float64) {
	s.penUp()
	if s.pages > 0 {
		fmt.Fprintln(&s.buf, "M0 (change sheet)")
	}
	s.pages++
	fmt.Fprintf(&s.buf, "\n(page %d: %.0fx%.0fmm)\n", s.pages, width, height)
	s.moved = false
}

func (s *Sink) DrawLine(x1, y1, x2, y2 float64) {
	s.stroke(x1, y1, x2, y2)
}

func (s *Sink) DrawDashedLine(x1, y1, x2, y2 float64, dash []float64) {
	for _, d := range Dashes(x1, y1, x2, y2, dash) {
		s.stroke(d[0], d[1], d[2], d[3])
	}
}

// DrawText is written as a comment; plotters have no font.
func (s *Sink) DrawText(x, y float64, text string, fontSize float64, bold bool) {
	clean := strings.NewReplacer("(", "[", ")", "]", "\n", " ").Replace(text)
	fmt.Fprintf(&s.buf, "(text at X%.2f Y%.2f: %s)\n", x, y, clean)
}

func (s *Sink) EndPage() {
	s.penUp()
}

func (s *Sink) Finish() error {
	s.footer()
	_, err := s.w.Write(s.buf.Bytes())
	return err
}

// Dashes splits a line into the inked pieces of an on/off dash pattern.
// A pattern without a positive length yields the whole line.
func Dashes(x1, y1, x2, y2 float64, pattern []float64) [][4]float64 {
	period := 0.0
	for _, p := range pattern {
		if p < 0 {
			return [][4]float64{{x1, y1, x2, y2}}
		}
		period += p
	}
	length := math.Hypot(x2-x1, y2-y1)
	if period <= 0 || length == 0 {
		return [][4]float64{{x1, y1, x2, y2}}
	}
	ux, uy := (x2-x1)/length, (y2-y1)/length

	var out [][4]float64
	pos := 0.0
	for i := 0; pos < length; i++ {
		step := pattern[i%len(pattern)]
		end := math.Min(pos+step, length)
		if i%2 == 0 && end > pos {
			out = append(out, [4]float64{x1 + ux*pos, y1 + uy*pos, x1 + ux*end, y1 + uy*end})
		}
		pos = end
	}
	return out
}
