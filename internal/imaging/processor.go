// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded raster images and renders thumbnails
// using pure Go codecs.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/sitecms-go/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Quality used when re-encoding JPEG output.
const (
	OriginalQuality  = 92
	ThumbnailQuality = 82
)

// maxPixels rejects decompression bombs before a full decode.
const maxPixels = 50_000_000

// Image is an encoded image with its dimensions.
type Image struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
	Ext      string // file extension including the dot
}

// Result is the outcome of processing one upload.
type Result struct {
	Original  Image
	Thumbnail *Image // nil when the source already fits the thumbnail box
}

// Process decodes an uploaded image, applies its EXIF orientation and renders
// a thumbnail no larger than thumbSize on either side. JPEG and PNG originals
// are re-encoded, which also strips embedded metadata such as GPS tags. GIF
// and WebP originals are kept byte-for-byte: re-encoding would drop GIF
// animation, and there is no pure Go WebP encoder.
func Process(data []byte, thumbSize int) (*Result, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("image dimensions %dx%d out of range", cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	if format == "jpeg" {
		img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	}

	res := &Result{}
	switch format {
	case "jpeg", "png":
		encoded, err := encodeImage(img, format, OriginalQuality)
		if err != nil {
			return nil, fmt.Errorf("encoding image: %w", err)
		}
		res.Original = newImage(encoded, img, format)
	default:
		res.Original = newImage(data, img, format)
	}

	thumb, err := Thumbnail(img, format, thumbSize)
	if err != nil {
		return nil, err
	}
	res.Thumbnail = thumb
	return res, nil
}

// Thumbnail fits img within a size x size box. It returns nil when img already
// fits. Formats with transparency produce PNG thumbnails, others JPEG.
func Thumbnail(img image.Image, format string, size int) (*Image, error) {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return nil, nil
	}

	resized := imaging.Fit(img, size, size, imaging.Lanczos)

	out := "jpeg"
	if format == "png" || format == "gif" {
		out = "png"
	}
	encoded, err := encodeImage(resized, out, ThumbnailQuality)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	t := newImage(encoded, resized, out)
	return &t, nil
}

func newImage(data []byte, img image.Image, format string) Image {
	b := img.Bounds()
	return Image{
		Data:     data,
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: formatToMimeType(format),
		Ext:      formatToExt(format),
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes an EXIF orientation so the pixels are upright.
//
//	1 normal            5 transpose
//	2 mirrored          6 rotated 90° CW
//	3 rotated 180°      7 transverse
//	4 flipped           8 rotated 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected outright (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

func formatToExt(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	default:
		return "." + format
	}
}
