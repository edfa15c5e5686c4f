// Package detector - the end-to-end checkbox candidate detection pipeline.
package detector

import "fmt"

// Variant selects the preprocessing strategy for a run.
type Variant string

const (
	// VariantBinarize uses the inverted Otsu binarization alone.
	VariantBinarize Variant = "binarize"
	// VariantMorphological binarizes, then opens with vertical and horizontal
	// line kernels and merges the two masks, isolating straight border
	// strokes.
	VariantMorphological Variant = "morphological"
	// VariantEdges uses a Canny edge map instead of a filled mask.
	VariantEdges Variant = "edges"
)

// FilterKind names one of the filter criteria. Listing several kinds chains
// them in order.
type FilterKind string

const (
	// FilterArea keeps contours near the expected area.
	FilterArea FilterKind = "area"
	// FilterSquareness additionally requires a square bounding box.
	FilterSquareness FilterKind = "squareness"
	// FilterShapeMatch additionally requires a square Hu-moment signature.
	FilterShapeMatch FilterKind = "shape"
)

// ConfigError reports a stage parameter that violates its constraint. It is
// returned before any pipeline stage executes.
type ConfigError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

// Config carries every tunable of the pipeline. The defaults come from the
// reference form scan and are illustrative, not load-bearing; they were tuned
// at one resolution and should be adjusted per document class.
type Config struct {
	// Variant selects the preprocessing strategy.
	Variant Variant

	// Filters lists the criteria to chain, in order. Must not be empty.
	Filters []FilterKind

	// OtsuThresholdOverride, when non-nil, replaces automatic Otsu threshold
	// selection with a manual global threshold.
	OtsuThresholdOverride *float32

	// KernelLength is the directional structuring element length for
	// VariantMorphological.
	KernelLength int

	// CannyThreshold is the symmetric hysteresis threshold for VariantEdges.
	CannyThreshold float32

	// ExpectedArea is the anticipated checkbox contour area in pixels.
	ExpectedArea float64

	// AreaTolerance is the accepted deviation from ExpectedArea.
	AreaTolerance float64

	// SquarenessTolerance is the accepted width/height difference of a
	// candidate's bounding box, in pixels.
	SquarenessTolerance float64

	// SquareSide is the reference square side for the shape-match criterion.
	SquareSide float64

	// ShapeContourTolerance is the maximum Hu-moment distance to the square
	// template.
	ShapeContourTolerance float64

	// MaxDimension, when > 0, downscales oversized inputs so their longest
	// side is at most this many pixels before any stage runs.
	MaxDimension int

	// DedupIoU, when > 0, suppresses near-duplicate candidates whose
	// bounding boxes overlap above this IoU after filtering.
	DedupIoU float32
}

// DefaultConfig returns the reference-use-case configuration.
func DefaultConfig() Config {
	return Config{
		Variant:               VariantMorphological,
		Filters:               []FilterKind{FilterShapeMatch},
		KernelLength:          15,
		CannyThreshold:        100,
		ExpectedArea:          625,
		AreaTolerance:         200,
		SquarenessTolerance:   5,
		SquareSide:            25,
		ShapeContourTolerance: 0.0015,
	}
}

// Validate checks every parameter constraint. The first violation is returned
// as a *ConfigError; a non-nil result guarantees no stage will run.
func (c Config) Validate() error {
	switch c.Variant {
	case VariantBinarize, VariantMorphological, VariantEdges:
	default:
		return &ConfigError{Param: "variant", Value: string(c.Variant), Reason: "unknown preprocessing variant"}
	}

	if len(c.Filters) == 0 {
		return &ConfigError{Param: "filters", Value: c.Filters, Reason: "at least one filter is required"}
	}
	for _, f := range c.Filters {
		switch f {
		case FilterArea, FilterSquareness, FilterShapeMatch:
		default:
			return &ConfigError{Param: "filters", Value: string(f), Reason: "unknown filter kind"}
		}
	}

	if c.OtsuThresholdOverride != nil {
		v := *c.OtsuThresholdOverride
		if v < 0 || v > 255 {
			return &ConfigError{Param: "otsu_threshold_override", Value: v, Reason: "must be within [0, 255]"}
		}
	}
	if c.Variant == VariantMorphological && c.KernelLength < 1 {
		return &ConfigError{Param: "kernel_length", Value: c.KernelLength, Reason: "must be a positive integer"}
	}
	if c.Variant == VariantEdges && c.CannyThreshold <= 0 {
		return &ConfigError{Param: "canny_threshold", Value: c.CannyThreshold, Reason: "must be positive"}
	}
	if c.ExpectedArea <= 0 {
		return &ConfigError{Param: "expected_area", Value: c.ExpectedArea, Reason: "must be positive"}
	}
	if c.AreaTolerance < 0 {
		return &ConfigError{Param: "area_tolerance", Value: c.AreaTolerance, Reason: "must not be negative"}
	}
	if c.SquarenessTolerance < 0 {
		return &ConfigError{Param: "squareness_tolerance", Value: c.SquarenessTolerance, Reason: "must not be negative"}
	}
	if c.SquareSide <= 0 {
		return &ConfigError{Param: "square_side", Value: c.SquareSide, Reason: "must be positive"}
	}
	if c.ShapeContourTolerance < 0 {
		return &ConfigError{Param: "shape_contour_tolerance", Value: c.ShapeContourTolerance, Reason: "must not be negative"}
	}
	if c.MaxDimension < 0 {
		return &ConfigError{Param: "max_dimension", Value: c.MaxDimension, Reason: "must not be negative"}
	}
	if c.DedupIoU < 0 || c.DedupIoU > 1 {
		return &ConfigError{Param: "dedup_iou", Value: c.DedupIoU, Reason: "must be within [0, 1]"}
	}

	return nil
}
