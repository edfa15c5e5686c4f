// Package loader - resolves image URIs into decoded images for the pipeline.
//
// The pipeline core is agnostic to where images come from; this package is
// the acquisition collaborator. It understands local paths, remote
// scheme://bucket/key style URIs (s3, gs, http) fetched via go-getter, and
// PDF documents whose pages are rasterised on the fly.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/hashicorp/go-getter"
	"github.com/pkg/errors"

	"github.com/formscan/boxfinder/images"
)

// IOError reports a failed image acquisition. The underlying cause is
// preserved for errors.Is/As; the loader never retries.
type IOError struct {
	URI string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.URI, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Options tunes acquisition.
type Options struct {
	// PDFPage is the zero-based page to rasterise from PDF sources.
	PDFPage int
	// PDFDPI is the rasterisation density for PDF pages.
	PDFDPI int
}

// DefaultOptions returns acquisition defaults suitable for form scans.
func DefaultOptions() Options {
	return Options{PDFPage: 0, PDFDPI: 150}
}

// Loader resolves URIs to decoded images.
type Loader struct {
	opts Options
}

// New builds a Loader. Zero-valued option fields fall back to defaults.
func New(opts Options) *Loader {
	if opts.PDFDPI <= 0 {
		opts.PDFDPI = DefaultOptions().PDFDPI
	}
	if opts.PDFPage < 0 {
		opts.PDFPage = 0
	}
	return &Loader{opts: opts}
}

// Load resolves a URI to a decoded Image.
//
// Local paths are read directly. URIs with a remote scheme are fetched to a
// temporary file first. A ".pdf" source is rasterised at the configured page
// and DPI.
//
// Arguments:
//   - ctx: Cancels an in-flight remote fetch.
//   - uri: Local path or scheme://bucket/key style URI.
//
// Returns:
//   - *images.Image: The decoded image. Caller owns it.
//   - error: *IOError for acquisition failures, *images.FormatError for an
//     undecodable or unusable raster.
func (l *Loader) Load(ctx context.Context, uri string) (*images.Image, error) {
	path := uri
	if isRemote(uri) {
		fetched, cleanup, err := fetch(ctx, uri)
		if err != nil {
			return nil, &IOError{URI: uri, Err: err}
		}
		defer cleanup()
		path = fetched
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return l.loadPDF(uri, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{URI: uri, Err: err}
	}
	img, err := images.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", uri)
	}
	return img, nil
}

// loadPDF rasterises one page of a PDF document.
func (l *Loader) loadPDF(uri, path string) (*images.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, &IOError{URI: uri, Err: err}
	}
	defer doc.Close()

	if l.opts.PDFPage >= doc.NumPage() {
		return nil, &IOError{
			URI: uri,
			Err: errors.Errorf("page %d out of range, document has %d page(s)", l.opts.PDFPage, doc.NumPage()),
		}
	}

	page, err := doc.ImageDPI(l.opts.PDFPage, float64(l.opts.PDFDPI))
	if err != nil {
		return nil, &IOError{URI: uri, Err: err}
	}

	img, err := images.FromGoImage(page)
	if err != nil {
		return nil, errors.Wrapf(err, "rasterising %s", uri)
	}
	return img, nil
}

func isRemote(uri string) bool {
	for _, scheme := range []string{"s3://", "gs://", "http://", "https://"} {
		if strings.HasPrefix(uri, scheme) {
			return true
		}
	}
	return false
}

// fetch downloads a remote URI to a temporary file and returns its path plus
// a cleanup func.
func fetch(ctx context.Context, uri string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "boxfinder-fetch-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	dst := filepath.Join(dir, filepath.Base(uri))
	client := &getter.Client{
		Ctx:  ctx,
		Src:  uri,
		Dst:  dst,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		cleanup()
		return "", nil, err
	}
	return dst, cleanup, nil
}

// ListImages returns the loadable files directly under dir, sorted by name.
// Used by the CLI to fan a directory of scans out to pipeline workers.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".pdf":
			found = append(found, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(found)
	return found, nil
}
