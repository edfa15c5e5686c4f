// Package config - YAML run configuration for the boxfinder CLI.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/formscan/boxfinder/detector"
	"github.com/formscan/boxfinder/loader"
	"github.com/formscan/boxfinder/visualizer"
)

// OverlayConfig controls optional overlay rendering.
type OverlayConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Dir         string  `yaml:"dir"`
	LineWidth   float64 `yaml:"line_width"`
	BlendMask   bool    `yaml:"blend_mask"`
	MaskOpacity float64 `yaml:"mask_opacity"`
}

// RunConfig binds every pipeline, acquisition and rendering parameter of a
// CLI run. Fields left out of the YAML file keep the reference defaults.
type RunConfig struct {
	Variant               string        `yaml:"variant"`
	Filters               []string      `yaml:"filters"`
	OtsuThresholdOverride *float32      `yaml:"otsu_threshold_override"`
	KernelLength          int           `yaml:"kernel_length"`
	CannyThreshold        float32       `yaml:"canny_threshold"`
	ExpectedArea          float64       `yaml:"expected_area"`
	AreaTolerance         float64       `yaml:"area_tolerance"`
	SquarenessTolerance   float64       `yaml:"squareness_tolerance"`
	SquareSide            float64       `yaml:"square_side"`
	ShapeContourTolerance float64       `yaml:"shape_contour_tolerance"`
	MaxDimension          int           `yaml:"max_dimension"`
	DedupIoU              float32       `yaml:"dedup_iou"`
	PDFPage               int           `yaml:"pdf_page"`
	PDFDPI                int           `yaml:"pdf_dpi"`
	Overlay               OverlayConfig `yaml:"overlay"`
}

// Defaults returns a RunConfig mirroring the reference use case.
func Defaults() RunConfig {
	d := detector.DefaultConfig()
	l := loader.DefaultOptions()
	v := visualizer.DefaultOptions()

	filterNames := make([]string, len(d.Filters))
	for i, f := range d.Filters {
		filterNames[i] = string(f)
	}

	return RunConfig{
		Variant:               string(d.Variant),
		Filters:               filterNames,
		KernelLength:          d.KernelLength,
		CannyThreshold:        d.CannyThreshold,
		ExpectedArea:          d.ExpectedArea,
		AreaTolerance:         d.AreaTolerance,
		SquarenessTolerance:   d.SquarenessTolerance,
		SquareSide:            d.SquareSide,
		ShapeContourTolerance: d.ShapeContourTolerance,
		PDFPage:               l.PDFPage,
		PDFDPI:                l.PDFDPI,
		Overlay: OverlayConfig{
			LineWidth:   v.LineWidth,
			MaskOpacity: v.MaskOpacity,
		},
	}
}

// Load reads a YAML run file over the defaults. Unknown keys are rejected so
// typos fail loudly instead of silently keeping a default.
func Load(path string) (RunConfig, error) {
	cfg := Defaults()

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "opening config %s", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// DetectorConfig converts the run file into a detector configuration. The
// result still needs detector.New's validation.
func (rc RunConfig) DetectorConfig() detector.Config {
	kinds := make([]detector.FilterKind, len(rc.Filters))
	for i, f := range rc.Filters {
		kinds[i] = detector.FilterKind(f)
	}
	return detector.Config{
		Variant:               detector.Variant(rc.Variant),
		Filters:               kinds,
		OtsuThresholdOverride: rc.OtsuThresholdOverride,
		KernelLength:          rc.KernelLength,
		CannyThreshold:        rc.CannyThreshold,
		ExpectedArea:          rc.ExpectedArea,
		AreaTolerance:         rc.AreaTolerance,
		SquarenessTolerance:   rc.SquarenessTolerance,
		SquareSide:            rc.SquareSide,
		ShapeContourTolerance: rc.ShapeContourTolerance,
		MaxDimension:          rc.MaxDimension,
		DedupIoU:              rc.DedupIoU,
	}
}

// LoaderOptions converts the run file into acquisition options.
func (rc RunConfig) LoaderOptions() loader.Options {
	return loader.Options{PDFPage: rc.PDFPage, PDFDPI: rc.PDFDPI}
}

// VisualizerOptions converts the run file into rendering options.
func (rc RunConfig) VisualizerOptions() visualizer.Options {
	return visualizer.Options{
		LineWidth:   rc.Overlay.LineWidth,
		BlendMask:   rc.Overlay.BlendMask,
		MaskOpacity: rc.Overlay.MaskOpacity,
	}
}
