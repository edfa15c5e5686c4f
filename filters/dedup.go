package filters

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/formscan/boxfinder/contours"
)

// DedupConfig defines parameters for overlap suppression.
type DedupConfig struct {
	// IoUThreshold is the bounding-box overlap above which the weaker of two
	// candidates is suppressed.
	IoUThreshold float32
	// ExpectedArea ranks candidates: the one whose area is closest to the
	// expected checkbox area survives.
	ExpectedArea float64
}

// DeduplicateOverlapping suppresses near-duplicate candidates by greedy
// bounding-box IoU. Masks merged from several preprocessing orientations can
// trace the same checkbox border twice with slightly different vertices; this
// keeps only the best-fitting trace per region.
//
// The result is a subset of the input and the input is not modified.
//
// Arguments:
//   - list: Candidate contours.
//   - config: Suppression parameters.
//
// Returns:
//   - Filtered slice ordered best-fit first. Nil for an empty input.
func DeduplicateOverlapping(list []contours.Contour, config DedupConfig) []contours.Contour {
	n := len(list)
	if n == 0 {
		return nil
	}

	// Rank by area distance to the expected checkbox size, best first.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	fitness := func(i int) float32 {
		return math32.Abs(float32(list[i].Area() - config.ExpectedArea))
	}
	sort.Slice(order, func(a, b int) bool {
		return fitness(order[a]) < fitness(order[b])
	})

	boxes := make([]contours.Rect, n)
	for i, c := range list {
		boxes[i] = c.BoundingBox()
	}

	filtered := make([]contours.Contour, 0, n)
	used := make([]bool, n)

	for _, i := range order {
		if used[i] {
			continue
		}
		filtered = append(filtered, list[i])
		used[i] = true

		for _, j := range order {
			if used[j] {
				continue
			}
			if contours.CalculateIoU(boxes[i], boxes[j]) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
