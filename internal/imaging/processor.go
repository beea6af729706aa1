// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging converts uploaded images into compact base64 data URLs that
// are stored as plain string fields inside the content document (logo,
// favicon, hero image). The content core treats this package as an opaque
// string producer.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // GIF decoder
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MaxWidth is the default bound for processed images.
const MaxWidth = 1920

// MaxUploadBytes bounds how much image data an upload may carry.
const MaxUploadBytes = 10 << 20 // 10 MB

// DataURL reads an uploaded image, corrects EXIF orientation, scales it down
// to fit maxWidth, and returns it encoded as a base64 data URL. JPEG quality
// steps down for large source files, mirroring the tiered compression the
// admin panel always applied.
func DataURL(r io.Reader, maxWidth int) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("image exceeds %d byte upload limit", MaxUploadBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if maxWidth <= 0 {
		maxWidth = MaxWidth
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	// PNG keeps transparency (logos); everything else becomes JPEG.
	if format == "png" {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("encoding png: %w", err)
		}
		return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: qualityFor(len(data))}); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// qualityFor picks a JPEG quality tier from the source file size: larger
// uploads compress more aggressively.
func qualityFor(size int) int {
	switch {
	case size > 5<<20:
		return 60
	case size > 2<<20:
		return 70
	default:
		return 80
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

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
