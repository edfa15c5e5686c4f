// Package mask - binary foreground masks and the preprocessing operations
// that produce them.
//
// Every operation here is a pure function over its inputs: a new Mask is
// allocated for each result and no input Mat is ever written in place. Masks
// hold exactly two values, 0 (background) and 255 (foreground), so downstream
// contour extraction can treat any non-zero pixel as ink.
package mask

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/formscan/boxfinder/images"
)

// Mask is a single-channel 0/255 raster. It owns a native Mat and must be
// released with Close.
type Mask struct {
	mat gocv.Mat
}

// FromMat wraps a single-channel Mat as a Mask, taking ownership of it.
func FromMat(mat gocv.Mat) (*Mask, error) {
	if mat.Empty() || mat.Cols() <= 0 || mat.Rows() <= 0 {
		return nil, errors.New("mask must have non-zero area")
	}
	if mat.Channels() != 1 {
		return nil, errors.Errorf("mask must be single-channel, got %d channels", mat.Channels())
	}
	return &Mask{mat: mat}, nil
}

// Mat exposes the underlying Mat. Callers must treat it as read-only.
func (m *Mask) Mat() gocv.Mat { return m.mat }

// Cols returns the mask width in pixels.
func (m *Mask) Cols() int { return m.mat.Cols() }

// Rows returns the mask height in pixels.
func (m *Mask) Rows() int { return m.mat.Rows() }

// ForegroundCount returns the number of non-zero pixels.
func (m *Mask) ForegroundCount() int {
	return gocv.CountNonZero(m.mat)
}

// Checksum returns a deterministic digest of the mask contents.
func (m *Mask) Checksum() string {
	return images.ComputeMatChecksum(m.mat)
}

// Clone returns an independent deep copy of the mask.
func (m *Mask) Clone() *Mask {
	return &Mask{mat: m.mat.Clone()}
}

// Close releases the native Mat. The Mask is unusable afterwards.
func (m *Mask) Close() {
	m.mat.Close()
}

// grayscale converts an Image of any supported channel count to a fresh
// single-channel Mat. The caller owns the returned Mat.
func grayscale(img *images.Image) gocv.Mat {
	src := img.Mat()
	if img.Channels() == 1 {
		return src.Clone()
	}
	gray := gocv.NewMat()
	if img.Channels() == 4 {
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	} else {
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	}
	return gray
}
