// Package imaging normalizes uploaded meal photos into bounded-size JPEG
// data URLs suitable for inline storage and AI submission.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxEdge is the maximum length of the longer image edge after normalization.
	MaxEdge = 800

	// Quality is the JPEG quality used when re-encoding (0.7 on a 0-1 scale).
	Quality = 70

	// MediaType is the media type of every normalized image.
	MediaType = "image/jpeg"
)

// ErrDecode is returned when the input cannot be decoded as an image.
var ErrDecode = errors.New("image decode failed")

// Image is a normalized photo.
type Image struct {
	Width  int
	Height int

	// JPEG holds the encoded bytes.
	JPEG []byte
}

// DataURL returns the persisted representation of the image.
func (img *Image) DataURL() string {
	return EncodeDataURL(MediaType, img.JPEG)
}

// Normalizer bounds upload size before decoding.
type Normalizer struct {
	maxInputBytes int64
}

// NewNormalizer creates a Normalizer rejecting inputs larger than maxInputBytes.
// Zero disables the limit.
func NewNormalizer(maxInputBytes int64) *Normalizer {
	return &Normalizer{maxInputBytes: maxInputBytes}
}

// Normalize decodes data, scales it so the longer edge is at most MaxEdge
// and re-encodes it as JPEG at Quality.
func (n *Normalizer) Normalize(data []byte) (*Image, error) {
	if err := n.checkSize(data); err != nil {
		return nil, err
	}
	return Normalize(data)
}

func (n *Normalizer) checkSize(data []byte) error {
	if n.maxInputBytes > 0 && int64(len(data)) > n.maxInputBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrDecode, len(data), n.maxInputBytes)
	}
	return nil
}

// NormalizeDataURL normalizes an image given as a data URL.
func (n *Normalizer) NormalizeDataURL(dataURL string) (*Image, error) {
	_, payload, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return n.Normalize(payload)
}

// Ensure returns dataURL unchanged when it already holds a JPEG within
// MaxEdge and the normalized data URL otherwise. The input size limit
// applies in both cases.
func (n *Normalizer) Ensure(dataURL string) (string, error) {
	mediaType, payload, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	if err := n.checkSize(payload); err != nil {
		return "", err
	}
	if mediaType == MediaType {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(payload))
		if err == nil && cfg.Width <= MaxEdge && cfg.Height <= MaxEdge {
			return dataURL, nil
		}
	}

	img, err := n.Normalize(payload)
	if err != nil {
		return "", err
	}
	return img.DataURL(), nil
}

// Normalize is Normalize without an input size limit.
func Normalize(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := src.Bounds()
	width, height := FitWithin(b.Dx(), b.Dy(), MaxEdge)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return &Image{Width: width, Height: height, JPEG: buf.Bytes()}, nil
}

// FitWithin scales (width, height) so the longer edge is at most maxEdge,
// preserving the aspect ratio with rounding. Smaller images are unchanged.
func FitWithin(width, height, maxEdge int) (int, int) {
	if width >= height {
		if width > maxEdge {
			height = roundDiv(height*maxEdge, width)
			width = maxEdge
		}
	} else if height > maxEdge {
		width = roundDiv(width*maxEdge, height)
		height = maxEdge
	}
	return max(width, 1), max(height, 1)
}

func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
