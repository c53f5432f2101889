// Package export turns surfaces into self-contained data URL payloads.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/example/maskpaint/internal/surface"
)

// PNGPrefix starts every payload produced by Encode.
const PNGPrefix = "data:image/png;base64,"

// ErrNotDataURL is returned by Decode for input that is not a base64 data URL.
var ErrNotDataURL = errors.New("not a base64 image data URL")

// Encode copies img and returns it as a PNG data URL. The payload is a
// snapshot: later changes to img do not affect it.
func Encode(img *image.RGBA) (string, error) {
	if img == nil {
		return "", errors.New("export: nil image")
	}
	snap := &image.RGBA{
		Pix:    bytes.Clone(img.Pix),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	var buf bytes.Buffer
	buf.WriteString(PNGPrefix)
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := png.Encode(enc, snap); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode base64: %w", err)
	}
	return buf.String(), nil
}

// Images exports the working image and the mask at their native size. The
// composited visible output is never used, so neither payload contains
// letterboxing or the mask's display opacity.
func Images(reg *surface.Registry) (base, mask string, err error) {
	base, err = Encode(reg.Working().RGBA())
	if err != nil {
		return "", "", fmt.Errorf("export %s: %w", surface.WorkingImage, err)
	}
	mask, err = Encode(reg.Mask().RGBA())
	if err != nil {
		return "", "", fmt.Errorf("export %s: %w", surface.Mask, err)
	}
	return base, mask, nil
}

// Decode parses a base64 image data URL of any registered image format.
func Decode(payload string) (image.Image, error) {
	data, err := Bytes(payload)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return img, nil
}

// Bytes returns the encoded image bytes carried by a base64 data URL.
func Bytes(payload string) ([]byte, error) {
	if !strings.HasPrefix(payload, "data:image/") {
		return nil, ErrNotDataURL
	}
	meta, body, ok := strings.Cut(payload, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	return data, nil
}
