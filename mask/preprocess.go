package mask

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/formscan/boxfinder/images"
)

// Orientation selects the axis of a directional structuring element.
type Orientation int

const (
	// Horizontal uses a 1 x kernelLength structuring element, preserving long
	// horizontal runs.
	Horizontal Orientation = iota
	// Vertical uses a kernelLength x 1 structuring element, preserving long
	// vertical runs.
	Vertical
)

// BinarizeOptions tunes Binarize. The zero value selects automatic Otsu
// thresholding.
type BinarizeOptions struct {
	// ThresholdOverride, when non-nil, replaces the Otsu-selected global
	// threshold with a manual value in [0, 255].
	ThresholdOverride *float32
}

// Binarize converts an image to an inverted binary mask: ink and marks become
// foreground (255), page background becomes 0.
//
// The global threshold is chosen by Otsu's criterion (maximum inter-class
// variance between the foreground and background intensity histograms) unless
// opts.ThresholdOverride is set. Deterministic for a fixed input.
//
// Arguments:
//   - img: The source image.
//   - opts: Binarization options.
//
// Returns:
//   - *Mask: The inverted binary mask. Caller owns it.
//   - float32: The threshold actually applied, for diagnostics.
//   - error: Never fails on a valid Image; reserved for nil input.
func Binarize(img *images.Image, opts BinarizeOptions) (*Mask, float32, error) {
	if img == nil {
		return nil, 0, errors.New("image is nil")
	}

	gray := grayscale(img)
	defer gray.Close()

	bin := gocv.NewMat()
	var applied float32
	if opts.ThresholdOverride != nil {
		applied = gocv.Threshold(gray, &bin, *opts.ThresholdOverride, 255, gocv.ThresholdBinaryInv)
	} else {
		applied = gocv.Threshold(gray, &bin, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)
	}

	return &Mask{mat: bin}, applied, nil
}

// DirectionalOpen applies a morphological opening (erosion followed by
// dilation) with a 1xN or Nx1 rectangular structuring element. Features
// narrower than kernelLength along the opposite axis are removed while long
// straight runs along the kernel's axis survive, which isolates the straight
// border strokes of checkboxes.
//
// Arguments:
//   - m: The input mask. Not modified.
//   - kernelLength: Structuring element length in pixels. Must be >= 1.
//   - o: Kernel orientation.
//
// Returns:
//   - *Mask: A new opened mask. Caller owns it.
//   - error: Invalid kernelLength or orientation.
func DirectionalOpen(m *Mask, kernelLength int, o Orientation) (*Mask, error) {
	if kernelLength < 1 {
		return nil, errors.Errorf("kernelLength must be >= 1, got %d", kernelLength)
	}

	var size image.Point
	switch o {
	case Horizontal:
		size = image.Pt(kernelLength, 1)
	case Vertical:
		size = image.Pt(1, kernelLength)
	default:
		return nil, errors.Errorf("unknown orientation %d", o)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, size)
	defer kernel.Close()

	opened := gocv.NewMat()
	gocv.MorphologyEx(m.mat, &opened, gocv.MorphOpen, kernel)

	return &Mask{mat: opened}, nil
}

// Combine blends two masks by weighted per-pixel sum and re-binarises the
// result: any pixel left non-zero after weighting counts as foreground. Used
// to merge vertically- and horizontally-opened masks so rectangular structure
// from both orientations is retained.
//
// Arguments:
//   - a, b: Input masks of identical dimensions. Not modified.
//   - wa, wb: Blend weights for a and b.
//
// Returns:
//   - *Mask: The merged mask. Caller owns it.
//   - error: Dimension mismatch.
func Combine(a, b *Mask, wa, wb float64) (*Mask, error) {
	if a.Cols() != b.Cols() || a.Rows() != b.Rows() {
		return nil, errors.Errorf("mask dimensions differ: %dx%d vs %dx%d",
			a.Cols(), a.Rows(), b.Cols(), b.Rows())
	}

	sum := gocv.NewMat()
	gocv.AddWeighted(a.mat, wa, b.mat, wb, 0, &sum)
	defer sum.Close()

	out := gocv.NewMat()
	gocv.Threshold(sum, &out, 0, 255, gocv.ThresholdBinary)

	return &Mask{mat: out}, nil
}

// EdgeDetect produces a binary edge map via the Canny detector with a single
// symmetric threshold (low = high = threshold). The result represents boundary
// pixels rather than filled regions but is consumed identically by contour
// extraction.
//
// Arguments:
//   - img: The source image.
//   - threshold: Hysteresis threshold used for both bounds.
//
// Returns:
//   - *Mask: The edge map. Caller owns it.
//   - error: Reserved for nil input.
func EdgeDetect(img *images.Image, threshold float32) (*Mask, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}

	gray := grayscale(img)
	defer gray.Close()

	edges := gocv.NewMat()
	gocv.Canny(gray, &edges, threshold, threshold)

	return &Mask{mat: edges}, nil
}
