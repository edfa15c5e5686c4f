package filters

import (
	"math"

	"github.com/formscan/boxfinder/contours"
)

// AreaFilter keeps a contour iff its shoelace area lies within Tolerance of
// ExpectedArea. Cheap and high-recall: circles and irregular blobs near the
// target size pass too.
type AreaFilter struct {
	ExpectedArea float64
	Tolerance    float64
}

// Name implements Criterion.
func (f AreaFilter) Name() string { return "area" }

// Apply implements Criterion.
func (f AreaFilter) Apply(list []contours.Contour) []contours.Contour {
	out := make([]contours.Contour, 0, len(list))
	for _, c := range list {
		if f.keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f AreaFilter) keep(c contours.Contour) bool {
	return math.Abs(c.Area()-f.ExpectedArea) <= f.Tolerance
}
