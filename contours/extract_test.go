package contours

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/formscan/boxfinder/mask"
)

var fg = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func drawMask(t *testing.T, w, h int, draw func(mat *gocv.Mat)) *mask.Mask {
	t.Helper()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	if draw != nil {
		draw(&mat)
	}
	m, err := mask.FromMat(mat)
	require.NoError(t, err)
	return m
}

func TestExtractAllBackgroundYieldsEmptyList(t *testing.T) {
	m := drawMask(t, 64, 64, nil)
	defer m.Close()

	got, err := Extract(m)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractAllForegroundYieldsFullFrameContour(t *testing.T) {
	m := drawMask(t, 64, 48, func(mat *gocv.Mat) {
		gocv.Rectangle(mat, image.Rect(0, 0, 64, 48), fg, -1)
	})
	defer m.Close()

	got, err := Extract(m)
	require.NoError(t, err)
	require.Len(t, got, 1)

	bb := got[0].BoundingBox()
	assert.Equal(t, 64, bb.Width())
	assert.Equal(t, 48, bb.Height())
}

func TestExtractFilledSquare(t *testing.T) {
	m := drawMask(t, 200, 200, func(mat *gocv.Mat) {
		gocv.Rectangle(mat, image.Rect(50, 50, 75, 75), fg, -1)
	})
	defer m.Close()

	got, err := Extract(m)
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.GreaterOrEqual(t, len(c), 3)
	// A 25px filled block traces to a 24x24 polygon under the pixel-corner
	// convention.
	assert.InDelta(t, 576, c.Area(), 1)

	bb := c.BoundingBox()
	assert.Equal(t, Rect{X1: 50, Y1: 50, X2: 75, Y2: 75}, bb)
}

func TestExtractSeparatesComponents(t *testing.T) {
	m := drawMask(t, 200, 200, func(mat *gocv.Mat) {
		gocv.Rectangle(mat, image.Rect(10, 10, 30, 30), fg, -1)
		gocv.Rectangle(mat, image.Rect(100, 100, 140, 150), fg, -1)
		gocv.Circle(mat, image.Pt(170, 40), 12, fg, -1)
	})
	defer m.Close()

	got, err := Extract(m)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestExtractDiscardsNestedBoundaries(t *testing.T) {
	// A thick ring: the inner hole boundary must not be reported.
	m := drawMask(t, 100, 100, func(mat *gocv.Mat) {
		gocv.Rectangle(mat, image.Rect(20, 20, 80, 80), fg, -1)
		zero := color.RGBA{A: 255}
		gocv.Rectangle(mat, image.Rect(35, 35, 65, 65), zero, -1)
	})
	defer m.Close()

	got, err := Extract(m)
	require.NoError(t, err)
	require.Len(t, got, 1)

	bb := got[0].BoundingBox()
	assert.Equal(t, 60, bb.Width())
	assert.Equal(t, 60, bb.Height())
}

func TestExtractNilMask(t *testing.T) {
	_, err := Extract(nil)
	assert.Error(t, err)
}
