package contours

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/formscan/boxfinder/mask"
)

// Extract traces the external boundary of each maximal connected foreground
// component in the mask using border following (Suzuki-Abe). Only outermost
// boundaries are retained; nested and hole contours are discarded. Boundary
// points are simplified to direction-changing vertices.
//
// Extraction order across components is implementation-defined and carries no
// meaning. A region touching the frame edge is traced like any other, so an
// all-foreground mask yields a single full-frame contour while an
// all-background mask yields an empty list (not an error).
//
// Arguments:
//   - m: The binary mask (or edge map) to trace.
//
// Returns:
//   - []Contour: External contours, each with >= 3 points.
//   - error: Nil mask only.
func Extract(m *mask.Mask) ([]Contour, error) {
	if m == nil {
		return nil, errors.New("mask is nil")
	}

	pv := gocv.FindContours(m.Mat(), gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer pv.Close()

	out := make([]Contour, 0, pv.Size())
	for i := 0; i < pv.Size(); i++ {
		pts := pv.At(i).ToPoints()
		// Single- and two-pixel blobs trace to degenerate polylines.
		if len(pts) < 3 {
			continue
		}
		out = append(out, Contour(pts))
	}
	return out, nil
}
