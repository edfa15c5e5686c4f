package filters

import (
	"math"

	"github.com/formscan/boxfinder/contours"
)

// SquarenessFilter keeps a contour iff it passes AreaFilter's condition and
// its axis-aligned bounding box is square to within SquarenessTolerance
// pixels. Rejects elongated blobs, but a circle's bounding box is square too,
// so curved shapes near the target size still pass.
type SquarenessFilter struct {
	ExpectedArea        float64
	Tolerance           float64
	SquarenessTolerance float64
}

// Name implements Criterion.
func (f SquarenessFilter) Name() string { return "squareness" }

// Apply implements Criterion.
func (f SquarenessFilter) Apply(list []contours.Contour) []contours.Contour {
	area := AreaFilter{ExpectedArea: f.ExpectedArea, Tolerance: f.Tolerance}
	out := make([]contours.Contour, 0, len(list))
	for _, c := range list {
		if !area.keep(c) {
			continue
		}
		bb := c.BoundingBox()
		if math.Abs(float64(bb.Width()-bb.Height())) <= f.SquarenessTolerance {
			out = append(out, c)
		}
	}
	return out
}
