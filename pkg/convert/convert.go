// Package convert runs one plot file through the whole pipeline: decode,
// tokenize, interpret, normalize, plan and render.
package convert

import (
	"fmt"
	"io"
	"log"

	"pltpages/pkg/geometry"
	"pltpages/pkg/hpgl"
	"pltpages/pkg/layout"
	"pltpages/pkg/render"
)

// Result describes a finished conversion.
type Result struct {
	Segments int
	Pages    int
	// Rows and Cols are 1 for the single-sheet policy.
	Rows, Cols int
	// Width and Height of the normalized drawing in mm.
	Width, Height float64
}

// Converter is safe for concurrent use if Logger is.
type Converter struct {
	// Logger receives progress lines. Nil is silent.
	Logger *log.Logger
}

func (c *Converter) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// Load decodes and interprets r into a normalized drawing.
func (c *Converter) Load(r io.Reader) (geometry.Drawing, error) {
	src, err := hpgl.Decode(r)
	if err != nil {
		return geometry.Drawing{}, fmt.Errorf("read input: %w", err)
	}
	tokens := hpgl.Tokenize(src)
	if len(tokens) == 0 {
		return geometry.Drawing{}, hpgl.ErrNoCommands
	}
	c.logf("parsed %d commands", len(tokens))

	segments, err := hpgl.Interpret(tokens)
	if err != nil {
		return geometry.Drawing{}, err
	}
	c.logf("found %d line segments", len(segments))

	d, err := geometry.NormalizeDevice(segments)
	if err != nil {
		return geometry.Drawing{}, err
	}
	c.logf("drawing size: %.1f x %.1f mm", d.Width, d.Height)
	return d, nil
}

// Convert renders the plot in r onto sink using policy. Planning finishes
// before the first sink call, so on error nothing has been drawn.
func (c *Converter) Convert(r io.Reader, policy layout.Policy, sink render.Sink) (Result, error) {
	d, err := c.Load(r)
	if err != nil {
		return Result{}, err
	}
	res := Result{Segments: len(d.Segments), Width: d.Width, Height: d.Height, Rows: 1, Cols: 1}

	switch p := policy.(type) {
	case layout.SingleSheet:
		sheet, err := layout.PlanSheet(d, p)
		if err != nil {
			return Result{}, err
		}
		c.logf("single sheet %.1f x %.1f mm", sheet.Page.Width, sheet.Page.Height)
		res.Pages = render.Sheet(d, sheet, sink)
	default:
		g, err := layout.PlanGrid(d, policy)
		if err != nil {
			return Result{}, err
		}
		c.logf("%s grid: %d rows x %d cols = %d pages", policy.Name(), g.Rows, g.Cols, len(g.Tiles))
		res.Rows, res.Cols = g.Rows, g.Cols
		res.Pages = render.Grid(d, g, sink)
	}

	if err := sink.Finish(); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}
	c.logf("wrote %d pages", res.Pages)
	return res, nil
}
