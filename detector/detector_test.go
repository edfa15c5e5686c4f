package detector

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/formscan/boxfinder/images"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// scenarioImage draws the reference synthetic form: white page, one 25x25
// filled square, one circle of comparable area and two small noise blobs.
func scenarioImage(t *testing.T) *images.Image {
	t.Helper()

	mat := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&mat, image.Rect(0, 0, 200, 200), white, -1)
	gocv.Rectangle(&mat, image.Rect(50, 50, 75, 75), black, -1)
	gocv.Circle(&mat, image.Pt(120, 120), 14, black, -1)
	gocv.Rectangle(&mat, image.Rect(10, 180, 14, 184), black, -1)
	gocv.Rectangle(&mat, image.Rect(180, 10, 184, 14), black, -1)

	img, err := images.FromMat(mat)
	require.NoError(t, err)
	return img
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantBad  string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"unknown variant", func(c *Config) { c.Variant = "fourier" }, "variant"},
		{"no filters", func(c *Config) { c.Filters = nil }, "filters"},
		{"unknown filter", func(c *Config) { c.Filters = []FilterKind{"perimeter"} }, "filters"},
		{"zero kernel", func(c *Config) { c.KernelLength = 0 }, "kernel_length"},
		{"negative expected area", func(c *Config) { c.ExpectedArea = -1 }, "expected_area"},
		{"negative area tolerance", func(c *Config) { c.AreaTolerance = -0.1 }, "area_tolerance"},
		{"zero square side", func(c *Config) { c.SquareSide = 0 }, "square_side"},
		{
			"override out of range",
			func(c *Config) { v := float32(300); c.OtsuThresholdOverride = &v },
			"otsu_threshold_override",
		},
		{
			"canny threshold checked for edges variant",
			func(c *Config) { c.Variant = VariantEdges; c.CannyThreshold = 0 },
			"canny_threshold",
		},
		{"dedup iou above one", func(c *Config) { c.DedupIoU = 1.5 }, "dedup_iou"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantBad == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantBad, cfgErr.Param)
		})
	}
}

func TestNewRejectsInvalidConfigBeforeAnyProcessing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KernelLength = 0

	det, err := New(cfg)
	assert.Nil(t, det)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "kernel_length", cfgErr.Param)
}

func TestDetectBinarizeWithShapeFilter(t *testing.T) {
	img := scenarioImage(t)
	defer img.Close()

	cfg := DefaultConfig()
	cfg.Variant = VariantBinarize

	det, err := New(cfg)
	require.NoError(t, err)

	result, err := det.Detect(img)
	require.NoError(t, err)
	defer result.Close()

	require.Len(t, result.Contours, 1, "only the square should survive the shape filter")
	bb := result.Contours[0].BoundingBox()
	assert.Equal(t, 50, bb.X1)
	assert.Equal(t, 50, bb.Y1)
	assert.Equal(t, 25, bb.Width())
	assert.Equal(t, 25, bb.Height())

	assert.NotNil(t, result.Mask)
	assert.Greater(t, result.Threshold, float32(0))
	assert.Equal(t, VariantBinarize, result.Variant)
}

func TestDetectBinarizeWithAreaFilterKeepsCircleToo(t *testing.T) {
	img := scenarioImage(t)
	defer img.Close()

	cfg := DefaultConfig()
	cfg.Variant = VariantBinarize
	cfg.Filters = []FilterKind{FilterArea}

	det, err := New(cfg)
	require.NoError(t, err)

	result, err := det.Detect(img)
	require.NoError(t, err)
	defer result.Close()

	assert.Len(t, result.Contours, 2)
}

func TestDetectMorphologicalVariant(t *testing.T) {
	img := scenarioImage(t)
	defer img.Close()

	cfg := DefaultConfig() // morphological + shape filter

	det, err := New(cfg)
	require.NoError(t, err)

	result, err := det.Detect(img)
	require.NoError(t, err)
	defer result.Close()

	require.NotEmpty(t, result.Contours)
	assert.True(t, func() bool {
		for _, c := range result.Contours {
			bb := c.BoundingBox()
			if bb.X1 == 50 && bb.Y1 == 50 {
				return true
			}
		}
		return false
	}(), "the square must survive the morphological variant")
}

func TestDetectEdgesVariantRuns(t *testing.T) {
	img := scenarioImage(t)
	defer img.Close()

	cfg := DefaultConfig()
	cfg.Variant = VariantEdges
	cfg.Filters = []FilterKind{FilterArea}

	det, err := New(cfg)
	require.NoError(t, err)

	result, err := det.Detect(img)
	require.NoError(t, err)
	defer result.Close()

	assert.Equal(t, float32(0), result.Threshold, "edge variant reports no threshold")
	assert.Greater(t, result.Mask.ForegroundCount(), 0)
}

func TestDetectEmptyResultIsSuccess(t *testing.T) {
	mat := gocv.NewMatWithSize(120, 120, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&mat, image.Rect(0, 0, 120, 120), white, -1)
	img, err := images.FromMat(mat)
	require.NoError(t, err)
	defer img.Close()

	cfg := DefaultConfig()
	cfg.Variant = VariantBinarize
	override := float32(128)
	cfg.OtsuThresholdOverride = &override

	det, err := New(cfg)
	require.NoError(t, err)

	result, err := det.Detect(img)
	require.NoError(t, err, "zero candidates is a valid outcome, not an error")
	defer result.Close()

	assert.Empty(t, result.Contours)
	assert.NotNil(t, result.Mask)
}

func TestDetectNilImage(t *testing.T) {
	det, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = det.Detect(nil)
	assert.Error(t, err)
}

func TestDetectWithDownscale(t *testing.T) {
	img := scenarioImage(t)
	defer img.Close()

	cfg := DefaultConfig()
	cfg.Variant = VariantBinarize
	cfg.Filters = []FilterKind{FilterArea}
	cfg.MaxDimension = 100

	det, err := New(cfg)
	require.NoError(t, err)

	result, err := det.Detect(img)
	require.NoError(t, err)
	defer result.Close()

	// Candidates are reported in downscaled coordinates; the diagnostic mask
	// matches them.
	assert.Equal(t, 100, result.Mask.Cols())
	assert.Equal(t, 100, result.Mask.Rows())
}
