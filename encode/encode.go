// Package encode hands an assembled raster to an image codec.
package encode

import (
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	mandel "github.com/marben/mandelraster"
)

// Format is an output image format.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

// JPEGQuality is used for every JPEG encode.
const JPEGQuality = 95

var formats = []struct {
	f    Format
	name string
	exts []string
	mime string
}{
	{PNG, "png", []string{".png"}, "image/png"},
	{JPEG, "jpeg", []string{".jpg", ".jpeg"}, "image/jpeg"},
	{BMP, "bmp", []string{".bmp"}, "image/bmp"},
	{TIFF, "tiff", []string{".tif", ".tiff"}, "image/tiff"},
}

func (f Format) String() string {
	for _, e := range formats {
		if e.f == f {
			return e.name
		}
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	for _, e := range formats {
		if e.f == f {
			return e.mime
		}
	}
	return "application/octet-stream"
}

// ParseFormat accepts a format name or a file extension ("jpg", ".tif").
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for _, e := range formats {
		if s == e.name {
			return e.f, nil
		}
		for _, ext := range e.exts {
			if "."+s == ext {
				return e.f, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown image format %q", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("no extension in %q", path)
	}
	return ParseFormat(ext)
}

// Encode writes r to w in format f.
func Encode(w io.Writer, r mandel.Raster, f Format) error {
	if err := r.Check(); err != nil {
		return err
	}
	img := r.Image()
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("encode: unsupported format %v", f)
	}
	if err != nil {
		return fmt.Errorf("encode %v: %w", f, err)
	}
	return nil
}

// WriteFile encodes r into a new file at path. On failure the partially
// written file is removed.
func WriteFile(path string, r mandel.Raster, f Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(path))
		}
	}()

	return Encode(file, r, f)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
