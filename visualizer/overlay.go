// Package visualizer - renders detection results for human inspection.
//
// A strict consumer of the pipeline's output: nothing rendered here ever
// feeds back into detection.
package visualizer

import (
	"image"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/formscan/boxfinder/contours"
	"github.com/formscan/boxfinder/images"
	"github.com/formscan/boxfinder/mask"
)

// Options tunes overlay rendering.
type Options struct {
	// LineWidth is the contour outline stroke width in pixels.
	LineWidth float64
	// BlendMask, when true, composites the diagnostic mask under the
	// outlines so filtered-away foreground stays visible.
	BlendMask bool
	// MaskOpacity is the mask blend strength in [0, 1].
	MaskOpacity float64
}

// DefaultOptions returns rendering defaults.
func DefaultOptions() Options {
	return Options{LineWidth: 2, BlendMask: false, MaskOpacity: 0.35}
}

// Overlay draws each candidate contour outline in a distinct color over the
// source image.
//
// Arguments:
//   - img: The image the candidates were detected on.
//   - list: Candidate contours.
//   - m: Optional diagnostic mask to blend under the outlines; may be nil.
//   - opts: Rendering options.
//
// Returns:
//   - image.Image: The rendered overlay.
//   - error: Mat conversion failure.
func Overlay(img *images.Image, list []contours.Contour, m *mask.Mask, opts Options) (image.Image, error) {
	base, err := img.Mat().ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting image for overlay")
	}

	if opts.BlendMask && m != nil {
		maskImg, err := m.Mat().ToImage()
		if err != nil {
			return nil, errors.Wrap(err, "converting mask for overlay")
		}
		base = blend.Opacity(base, maskImg, opts.MaskOpacity)
	}

	dc := gg.NewContextForImage(base)
	dc.SetLineWidth(opts.LineWidth)

	for i, c := range list {
		col := paletteColor(i, len(list))
		dc.SetRGB(col.R, col.G, col.B)

		dc.MoveTo(float64(c[0].X), float64(c[0].Y))
		for _, p := range c[1:] {
			dc.LineTo(float64(p.X), float64(p.Y))
		}
		dc.ClosePath()
		dc.Stroke()
	}

	return dc.Image(), nil
}

// Save writes a rendered overlay to disk; the format follows the extension.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}

// paletteColor spreads hues evenly so adjacent candidates stay tellable
// apart.
func paletteColor(i, n int) colorful.Color {
	if n < 1 {
		n = 1
	}
	hue := float64(i) * 360.0 / float64(n)
	return colorful.Hsv(hue, 0.85, 0.95)
}
