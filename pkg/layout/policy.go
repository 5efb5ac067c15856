package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTilingConfig is returned for page, margin or overlap settings
// that cannot produce a grid.
var ErrInvalidTilingConfig = errors.New("invalid tiling config")

// PageSize is a physical page in millimetres.
type PageSize struct {
	Width  float64
	Height float64
}

var (
	A3     = PageSize{Width: 297, Height: 420}
	A4     = PageSize{Width: 210, Height: 297}
	Letter = PageSize{Width: 215.9, Height: 279.4}
)

// Policy names accepted by ParsePolicy and reported by Policy.Name.
const (
	SingleSheetName   = "single-sheet"
	StepName          = "step"
	MarginOverlayName = "margin-overlay"
)

// Policy selects how a drawing is laid out on pages. It is one of
// SingleSheet, Step or MarginOverlay.
type Policy interface {
	Name() string
	Validate() error
}

// SingleSheet puts the whole drawing on one page sized to fit it plus Margin
// on every edge.
type SingleSheet struct {
	Margin float64
}

// Step tiles the drawing on full pages that advance by the page size minus
// Overlap.
type Step struct {
	Page    PageSize
	Overlap float64
}

// MarginOverlay tiles the drawing inside a Margin reserved on every page
// edge; consecutive printable areas share Overlap.
type MarginOverlay struct {
	Page    PageSize
	Margin  float64
	Overlap float64
}

func (SingleSheet) Name() string   { return SingleSheetName }
func (Step) Name() string          { return StepName }
func (MarginOverlay) Name() string { return MarginOverlayName }

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTilingConfig, fmt.Sprintf(format, args...))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p SingleSheet) Validate() error {
	if !finite(p.Margin) || p.Margin < 0 {
		return invalid("margin %g must be a non-negative number", p.Margin)
	}
	return nil
}

func (p PageSize) validate() error {
	if !finite(p.Width, p.Height) || p.Width <= 0 || p.Height <= 0 {
		return invalid("page size %gx%g must be positive", p.Width, p.Height)
	}
	return nil
}

func validateOverlap(overlap float64, page PageSize) error {
	if !finite(overlap) || overlap <= 0 {
		return invalid("overlap %g must be positive", overlap)
	}
	if overlap >= math.Min(page.Width, page.Height) {
		return invalid("overlap %g must be smaller than the page %gx%g", overlap, page.Width, page.Height)
	}
	return nil
}

func (p Step) Validate() error {
	if err := p.Page.validate(); err != nil {
		return err
	}
	return validateOverlap(p.Overlap, p.Page)
}

func (p MarginOverlay) Validate() error {
	if err := p.Page.validate(); err != nil {
		return err
	}
	if err := validateOverlap(p.Overlap, p.Page); err != nil {
		return err
	}
	if !finite(p.Margin) || p.Margin < 0 {
		return invalid("margin %g must be a non-negative number", p.Margin)
	}
	advance := p.advance()
	if advance.X <= 0 || advance.Y <= 0 {
		return invalid("margin %g and overlap %g leave no advance on a %gx%g page",
			p.Margin, p.Overlap, p.Page.Width, p.Page.Height)
	}
	return nil
}

// ParsePolicy builds the named policy. Step ignores margin and SingleSheet
// ignores page and overlap; the result is validated.
func ParsePolicy(name string, page PageSize, overlap, margin, sheetMargin float64) (Policy, error) {
	var p Policy
	switch name {
	case SingleSheetName:
		p = SingleSheet{Margin: sheetMargin}
	case StepName:
		p = Step{Page: page, Overlap: overlap}
	case MarginOverlayName:
		p = MarginOverlay{Page: page, Margin: margin, Overlap: overlap}
	default:
		return nil, invalid("unknown tiling policy %q", name)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
