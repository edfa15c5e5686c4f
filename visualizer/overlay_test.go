package visualizer

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/formscan/boxfinder/contours"
	"github.com/formscan/boxfinder/images"
	"github.com/formscan/boxfinder/mask"
)

func testImage(t *testing.T, w, h int) *images.Image {
	t.Helper()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&mat, image.Rect(0, 0, w, h), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	img, err := images.FromMat(mat)
	require.NoError(t, err)
	return img
}

func TestOverlayPreservesDimensions(t *testing.T) {
	img := testImage(t, 120, 80)
	defer img.Close()

	candidates := []contours.Contour{
		{image.Pt(10, 10), image.Pt(40, 10), image.Pt(40, 40), image.Pt(10, 40)},
		{image.Pt(60, 20), image.Pt(90, 20), image.Pt(90, 50), image.Pt(60, 50)},
	}

	rendered, err := Overlay(img, candidates, nil, DefaultOptions())
	require.NoError(t, err)

	bounds := rendered.Bounds()
	assert.Equal(t, 120, bounds.Dx())
	assert.Equal(t, 80, bounds.Dy())
}

func TestOverlayWithBlendedMask(t *testing.T) {
	img := testImage(t, 60, 60)
	defer img.Close()

	maskMat := gocv.NewMatWithSize(60, 60, gocv.MatTypeCV8UC1)
	gocv.Rectangle(&maskMat, image.Rect(5, 5, 30, 30), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	m, err := mask.FromMat(maskMat)
	require.NoError(t, err)
	defer m.Close()

	opts := DefaultOptions()
	opts.BlendMask = true

	rendered, err := Overlay(img, nil, m, opts)
	require.NoError(t, err)
	assert.Equal(t, 60, rendered.Bounds().Dx())
}

func TestSaveWritesFile(t *testing.T) {
	img := testImage(t, 20, 20)
	defer img.Close()

	rendered, err := Overlay(img, nil, nil, DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "overlay.png")
	require.NoError(t, Save(rendered, path))
	assert.FileExists(t, path)
}
