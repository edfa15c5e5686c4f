// Package filters - composable geometric criteria that narrow a contour list
// down to checkbox candidates.
//
// Every criterion is pure: it returns a new slice referencing a subset of the
// input contours, never mutates the input and never invents contours. Criteria
// compose by intersection via Chain.
package filters

import (
	"strings"

	"github.com/formscan/boxfinder/contours"
)

// Criterion is a swappable filtering strategy over a contour list.
type Criterion interface {
	// Name identifies the criterion in logs and diagnostics.
	Name() string
	// Apply returns the subset of list that satisfies the criterion.
	Apply(list []contours.Contour) []contours.Contour
}

// Chain applies criteria in sequence, each consuming the previous stage's
// output, so the result is the intersection of all member criteria.
type Chain []Criterion

// NewChain composes criteria into a single Criterion.
func NewChain(criteria ...Criterion) Chain {
	return Chain(criteria)
}

// Name returns the member names joined for diagnostics.
func (ch Chain) Name() string {
	names := make([]string, len(ch))
	for i, c := range ch {
		names[i] = c.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Apply runs each member criterion over the shrinking candidate list.
func (ch Chain) Apply(list []contours.Contour) []contours.Contour {
	out := list
	for _, c := range ch {
		out = c.Apply(out)
	}
	return out
}
