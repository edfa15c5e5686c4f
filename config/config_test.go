package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formscan/boxfinder/detector"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsMirrorDetector(t *testing.T) {
	cfg := Defaults().DetectorConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, detector.DefaultConfig(), cfg)
}

func TestLoadOverridesSelectedFields(t *testing.T) {
	path := writeConfig(t, `
variant: binarize
filters: [area, shape]
expected_area: 900
kernel_length: 21
overlay:
  enabled: true
  dir: /tmp/overlays
  line_width: 3
`)

	rc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "binarize", rc.Variant)
	assert.Equal(t, []string{"area", "shape"}, rc.Filters)
	assert.Equal(t, float64(900), rc.ExpectedArea)
	assert.Equal(t, 21, rc.KernelLength)
	assert.True(t, rc.Overlay.Enabled)
	assert.Equal(t, float64(3), rc.Overlay.LineWidth)

	// Untouched fields keep the reference defaults.
	assert.Equal(t, float64(200), rc.AreaTolerance)
	assert.Equal(t, float64(25), rc.SquareSide)
	assert.Equal(t, 150, rc.PDFDPI)

	dc := rc.DetectorConfig()
	require.NoError(t, dc.Validate())
	assert.Equal(t, detector.VariantBinarize, dc.Variant)
	assert.Equal(t,
		[]detector.FilterKind{detector.FilterArea, detector.FilterShapeMatch},
		dc.Filters)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "kernel_lenght: 15\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestInvalidValuesSurfaceThroughValidate(t *testing.T) {
	path := writeConfig(t, "kernel_length: 0\n")

	rc, err := Load(path)
	require.NoError(t, err)

	err = rc.DetectorConfig().Validate()
	var cfgErr *detector.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "kernel_length", cfgErr.Param)
}
