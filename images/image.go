// Package images - typed image values consumed by the detection pipeline.
package images

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Image is an immutable decoded raster. It owns a native OpenCV Mat and must
// be released with Close when no longer needed. Pipeline stages never mutate
// an Image; every transform produces a new value.
type Image struct {
	mat gocv.Mat
}

// FormatError reports a decoded image whose shape the pipeline cannot accept.
type FormatError struct {
	Width    int
	Height   int
	Channels int
	Reason   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported image format: %dx%d with %d channel(s): %s",
		e.Width, e.Height, e.Channels, e.Reason)
}

// validateMat enforces the shape invariants shared by all constructors:
// non-zero area and a channel count of 1, 3 or 4.
func validateMat(mat gocv.Mat) *FormatError {
	w, h, ch := mat.Cols(), mat.Rows(), mat.Channels()
	if mat.Empty() || w <= 0 || h <= 0 {
		return &FormatError{Width: w, Height: h, Channels: ch, Reason: "zero area"}
	}
	switch ch {
	case 1, 3, 4:
		return nil
	default:
		return &FormatError{Width: w, Height: h, Channels: ch, Reason: "channel count must be 1, 3 or 4"}
	}
}

// FromMat wraps an existing Mat as an Image, taking ownership of it.
//
// Arguments:
//   - mat: The Mat to wrap. Closed by the caller only if an error is returned.
//
// Returns:
//   - *Image: The validated image.
//   - error: *FormatError if the Mat violates the shape invariants.
func FromMat(mat gocv.Mat) (*Image, error) {
	if err := validateMat(mat); err != nil {
		return nil, err
	}
	return &Image{mat: mat}, nil
}

// Decode decodes raw image bytes (JPEG, PNG, BMP, ...) into an Image.
//
// Arguments:
//   - data: Encoded image bytes.
//
// Returns:
//   - *Image: The decoded image.
//   - error: Decode failure, or *FormatError for an unusable shape.
func Decode(data []byte) (*Image, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return nil, err
	}
	img, err := FromMat(mat)
	if err != nil {
		mat.Close()
		return nil, err
	}
	return img, nil
}

// FromGoImage converts a Go-native image.Image into an Image.
func FromGoImage(src image.Image) (*Image, error) {
	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, err
	}
	img, err := FromMat(mat)
	if err != nil {
		mat.Close()
		return nil, err
	}
	return img, nil
}

// Mat exposes the underlying Mat. Callers must treat it as read-only.
func (i *Image) Mat() gocv.Mat { return i.mat }

// Width returns the image width in pixels.
func (i *Image) Width() int { return i.mat.Cols() }

// Height returns the image height in pixels.
func (i *Image) Height() int { return i.mat.Rows() }

// Channels returns the channel count (1, 3 or 4).
func (i *Image) Channels() int { return i.mat.Channels() }

// Clone returns an independent deep copy of the image.
func (i *Image) Clone() *Image {
	return &Image{mat: i.mat.Clone()}
}

// Close releases the native Mat. The Image is unusable afterwards.
func (i *Image) Close() {
	i.mat.Close()
}
