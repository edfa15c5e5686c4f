package filters

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/formscan/boxfinder/contours"
)

// ShapeMatchFilter keeps a contour iff it passes AreaFilter's condition (with
// expected area SquareSide squared) and its Hu-moment signature is close to
// that of a fixed square template.
//
// The distance is the sum over the seven scale/translation/rotation-invariant
// Hu moments of the absolute differences of their signed-log transforms
// (OpenCV's I2 contour match mode). This is the most discriminating criterion
// in the cascade: circular and curved blobs that survive the cruder filters
// measurably differ from a square's moment signature. The cost is sensitivity
// to simplification noise on small contours.
type ShapeMatchFilter struct {
	SquareSide       float64
	ContourTolerance float64
	AreaTolerance    float64
}

// Name implements Criterion.
func (f ShapeMatchFilter) Name() string { return "shape" }

// Apply implements Criterion.
func (f ShapeMatchFilter) Apply(list []contours.Contour) []contours.Contour {
	area := AreaFilter{ExpectedArea: f.SquareSide * f.SquareSide, Tolerance: f.AreaTolerance}

	tmpl := gocv.NewPointVectorFromPoints(squareTemplate(f.SquareSide))
	defer tmpl.Close()

	out := make([]contours.Contour, 0, len(list))
	for _, c := range list {
		if !area.keep(c) {
			continue
		}
		pv := gocv.NewPointVectorFromPoints(c)
		distance := gocv.MatchShapes(pv, tmpl, gocv.ContoursMatchI2, 0)
		pv.Close()
		if distance <= f.ContourTolerance {
			out = append(out, c)
		}
	}
	return out
}

// squareTemplate builds the reference contour: the corner polygon of an
// axis-aligned square. The Hu invariants are scale-free, so the side length
// only matters for numeric conditioning. The template is rebuilt per Apply
// call; no mutable state is shared between runs.
func squareTemplate(side float64) []image.Point {
	s := int(math.Round(side))
	if s < 1 {
		s = 1
	}
	return []image.Point{
		image.Pt(0, 0),
		image.Pt(s, 0),
		image.Pt(s, s),
		image.Pt(0, s),
	}
}
