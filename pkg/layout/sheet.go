package layout

import "pltpages/pkg/geometry"

// Sheet is the single page of the SingleSheet policy.
type Sheet struct {
	Page PageSize
	// Offset is added to every segment before drawing.
	Offset geometry.Vector2
}

// PlanSheet sizes one page to the drawing plus the margin on every edge.
func PlanSheet(d geometry.Drawing, policy SingleSheet) (Sheet, error) {
	if err := policy.Validate(); err != nil {
		return Sheet{}, err
	}
	m := policy.Margin
	return Sheet{
		Page:   PageSize{Width: d.Width + 2*m, Height: d.Height + 2*m},
		Offset: geometry.Vector2{X: m, Y: m},
	}, nil
}
