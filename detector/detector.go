package detector

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/formscan/boxfinder/contours"
	"github.com/formscan/boxfinder/filters"
	"github.com/formscan/boxfinder/images"
	"github.com/formscan/boxfinder/mask"
)

// Detector runs the pipeline for one configuration. It holds no mutable
// per-run state, so a single Detector may process independent images from
// multiple goroutines concurrently.
type Detector struct {
	cfg Config
	log zerolog.Logger
}

// Result is the outcome of one pipeline run. The mask (or edge map) that fed
// contour extraction is exposed for diagnostics; callers must Close the
// Result to release it.
type Result struct {
	// Contours are the final checkbox candidates. Empty is a valid outcome.
	Contours []contours.Contour
	// Mask is the binary mask or edge map the candidates were traced from.
	Mask *mask.Mask
	// Threshold is the applied global threshold (0 for VariantEdges).
	Threshold float32
	// Variant records the preprocessing strategy that produced Mask.
	Variant Variant
}

// Close releases the diagnostic mask.
func (r *Result) Close() {
	if r.Mask != nil {
		r.Mask.Close()
	}
}

// New builds a Detector, validating the configuration up front.
//
// Arguments:
//   - cfg: The pipeline configuration.
//
// Returns:
//   - *Detector: A ready detector with logging disabled.
//   - error: *ConfigError if any parameter violates its constraint.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg, log: zerolog.Nop()}, nil
}

// WithLogger returns a copy of the detector that logs stage transitions.
func (d *Detector) WithLogger(log zerolog.Logger) *Detector {
	return &Detector{cfg: d.cfg, log: log}
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config { return d.cfg }

// Detect executes the pipeline end to end: preprocessing per the configured
// variant, contour extraction, then the configured filter chain. The run is
// single-pass and synchronous; it either completes or fails without side
// effects. Zero candidates is a success, not an error.
//
// Arguments:
//   - img: The input image. Not modified and not retained.
//
// Returns:
//   - *Result: Candidates plus the diagnostic mask. Caller must Close it.
//   - error: Preprocessing or extraction failure.
func (d *Detector) Detect(img *images.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}

	working := img
	if d.cfg.MaxDimension > 0 {
		scaled, err := images.Downscale(img, d.cfg.MaxDimension)
		if err != nil {
			return nil, errors.Wrap(err, "downscaling input")
		}
		defer scaled.Close()
		working = scaled
	}

	m, threshold, err := d.preprocess(working)
	if err != nil {
		return nil, errors.Wrap(err, "preprocessing")
	}

	extracted, err := contours.Extract(m)
	if err != nil {
		m.Close()
		return nil, errors.Wrap(err, "extracting contours")
	}
	d.log.Debug().
		Str("variant", string(d.cfg.Variant)).
		Float32("threshold", threshold).
		Int("contours", len(extracted)).
		Msg("contours extracted")

	criterion := d.criterion()
	candidates := criterion.Apply(extracted)

	if d.cfg.DedupIoU > 0 {
		candidates = filters.DeduplicateOverlapping(candidates, filters.DedupConfig{
			IoUThreshold: d.cfg.DedupIoU,
			ExpectedArea: d.cfg.ExpectedArea,
		})
	}
	d.log.Debug().
		Str("criterion", criterion.Name()).
		Int("candidates", len(candidates)).
		Msg("filter cascade applied")

	return &Result{
		Contours:  candidates,
		Mask:      m,
		Threshold: threshold,
		Variant:   d.cfg.Variant,
	}, nil
}

// preprocess produces the mask for the configured variant. The returned
// threshold is 0 for the edge variant.
func (d *Detector) preprocess(img *images.Image) (*mask.Mask, float32, error) {
	opts := mask.BinarizeOptions{ThresholdOverride: d.cfg.OtsuThresholdOverride}

	switch d.cfg.Variant {
	case VariantBinarize:
		return mask.Binarize(img, opts)

	case VariantMorphological:
		bin, threshold, err := mask.Binarize(img, opts)
		if err != nil {
			return nil, 0, err
		}
		defer bin.Close()

		vertical, err := mask.DirectionalOpen(bin, d.cfg.KernelLength, mask.Vertical)
		if err != nil {
			return nil, 0, err
		}
		defer vertical.Close()

		horizontal, err := mask.DirectionalOpen(bin, d.cfg.KernelLength, mask.Horizontal)
		if err != nil {
			return nil, 0, err
		}
		defer horizontal.Close()

		combined, err := mask.Combine(vertical, horizontal, 0.5, 0.5)
		if err != nil {
			return nil, 0, err
		}
		return combined, threshold, nil

	case VariantEdges:
		m, err := mask.EdgeDetect(img, d.cfg.CannyThreshold)
		return m, 0, err

	default:
		// Unreachable after Validate.
		return nil, 0, errors.Errorf("unknown variant %q", d.cfg.Variant)
	}
}

// criterion assembles the configured filter chain.
func (d *Detector) criterion() filters.Criterion {
	built := make([]filters.Criterion, 0, len(d.cfg.Filters))
	for _, kind := range d.cfg.Filters {
		switch kind {
		case FilterArea:
			built = append(built, filters.AreaFilter{
				ExpectedArea: d.cfg.ExpectedArea,
				Tolerance:    d.cfg.AreaTolerance,
			})
		case FilterSquareness:
			built = append(built, filters.SquarenessFilter{
				ExpectedArea:        d.cfg.ExpectedArea,
				Tolerance:           d.cfg.AreaTolerance,
				SquarenessTolerance: d.cfg.SquarenessTolerance,
			})
		case FilterShapeMatch:
			built = append(built, filters.ShapeMatchFilter{
				SquareSide:       d.cfg.SquareSide,
				ContourTolerance: d.cfg.ShapeContourTolerance,
				AreaTolerance:    d.cfg.AreaTolerance,
			})
		}
	}
	if len(built) == 1 {
		return built[0]
	}
	return filters.NewChain(built...)
}
