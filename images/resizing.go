package images

import (
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Downscale returns a copy of img whose longest side is at most maxDim pixels,
// preserving aspect ratio. Scans straight off a flatbed can be enormous; the
// geometric filters only need enough resolution to keep checkbox borders a few
// pixels wide. If the image already fits, an independent clone is returned.
//
// Arguments:
//   - img: The source image. Not modified.
//   - maxDim: Maximum allowed width/height in pixels. Must be >= 1.
//
// Returns:
//   - *Image: The downscaled (or cloned) image. Caller owns it.
//   - error: Conversion failure or invalid maxDim.
func Downscale(img *Image, maxDim int) (*Image, error) {
	if maxDim < 1 {
		return nil, errors.Errorf("maxDim must be >= 1, got %d", maxDim)
	}
	if img.Width() <= maxDim && img.Height() <= maxDim {
		return img.Clone(), nil
	}

	src, err := img.Mat().ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting Mat for downscale")
	}

	var w, h uint
	if img.Width() >= img.Height() {
		w, h = uint(maxDim), 0
	} else {
		w, h = 0, uint(maxDim)
	}
	scaled := resize.Resize(w, h, src, resize.Lanczos3)

	out, err := FromGoImage(scaled)
	if err != nil {
		return nil, errors.Wrap(err, "rewrapping downscaled image")
	}
	return out, nil
}
