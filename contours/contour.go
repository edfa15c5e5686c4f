// Package contours - boundary extraction and contour geometry.
package contours

import "image"

// Contour is the ordered, closed boundary polyline of one connected
// foreground region. Points are direction-changing vertices only (collinear
// runs are collapsed during extraction) and a valid contour has at least 3 of
// them. Self-intersecting foreground blobs inherit the border-following
// algorithm's limitation: their contours are undefined.
type Contour []image.Point

// Area returns the absolute polygon area via the shoelace formula.
func (c Contour) Area() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum int64
	for i := 0; i < n; i++ {
		p, q := c[i], c[(i+1)%n]
		sum += int64(p.X)*int64(q.Y) - int64(q.X)*int64(p.Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// BoundingBox returns the minimal axis-aligned rectangle enclosing the
// contour. X2/Y2 are exclusive, so width and height are always >= 1.
func (c Contour) BoundingBox() Rect {
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X1: minX, Y1: minY, X2: maxX + 1, Y2: maxY + 1}
}

// Rect is a lightweight bounding box.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// Width returns the box width in pixels.
func (r Rect) Width() int { return r.X2 - r.X1 }

// Height returns the box height in pixels.
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// CalculateIoU measures the overlap of two boxes as intersection area over
// union area, between 0.0 (disjoint) and 1.0 (identical).
//
// Arguments:
//   - r, o: The rectangles to compare.
//
// Returns:
//   - float32: The IoU score.
func CalculateIoU(r, o Rect) float32 {
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	areaR := r.Width() * r.Height()
	areaO := o.Width() * o.Height()
	union := areaR + areaO - interArea

	return float32(interArea) / float32(union)
}
