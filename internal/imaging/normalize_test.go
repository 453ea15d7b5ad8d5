package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_Dimensions(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape downscaled", 1600, 900, 800, 450},
		{"portrait downscaled", 600, 1200, 400, 800},
		{"square downscaled", 1000, 1000, 800, 800},
		{"small kept", 320, 240, 320, 240},
		{"exact bound kept", 800, 600, 800, 600},
		{"rounding", 1001, 333, 800, 266},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Normalize(pngBytes(t, tt.w, tt.h))
			require.NoError(t, err)

			assert.Equal(t, tt.wantW, img.Width)
			assert.Equal(t, tt.wantH, img.Height)

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(img.JPEG))
			require.NoError(t, err, "output must be a JPEG")
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestFitWithin_PreservesRatio(t *testing.T) {
	for w := 801; w <= 4000; w += 397 {
		for h := 1; h <= w; h += 211 {
			gotW, gotH := FitWithin(w, h, MaxEdge)
			if gotW > MaxEdge {
				t.Fatalf("FitWithin(%d, %d) width = %d > %d", w, h, gotW, MaxEdge)
			}
			want := float64(h) / float64(w)
			got := float64(gotH) / float64(gotW)
			// One pixel of rounding on the short edge.
			if math.Abs(got-want) > 1.0/float64(gotW)+1e-9 {
				t.Errorf("FitWithin(%d, %d) = (%d, %d): ratio %f, want %f", w, h, gotW, gotH, got, want)
			}
		}
	}
}

func TestNormalize_DecodeError(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestNormalizer_InputLimit(t *testing.T) {
	data := pngBytes(t, 64, 64)

	_, err := NewNormalizer(int64(len(data)) - 1).Normalize(data)
	assert.ErrorIs(t, err, ErrDecode)

	img, err := NewNormalizer(0).Normalize(data)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Width)
}

func TestNormalizeDataURL(t *testing.T) {
	in := EncodeDataURL("image/png", pngBytes(t, 1200, 400))

	img, err := NewNormalizer(testInputLimit).NormalizeDataURL(in)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Width)
	assert.Equal(t, 267, img.Height)

	out := img.DataURL()
	assert.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	mediaType, payload, err := ParseDataURL(out)
	require.NoError(t, err)
	assert.Equal(t, MediaType, mediaType)
	assert.Equal(t, img.JPEG, payload)
}

const testInputLimit = 10 << 20

func TestParseDataURL_Errors(t *testing.T) {
	tests := []string{
		"",
		"no comma here",
		"data:image/png,not-base64-marked",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,%%%",
		"http://example.com/photo.jpg,",
	}
	for _, in := range tests {
		_, _, err := ParseDataURL(in)
		assert.ErrorIs(t, err, ErrDecode, "input %q", in)
	}
}

func TestNormalizer_Ensure(t *testing.T) {
	n := NewNormalizer(testInputLimit)

	t.Run("bounded jpeg is kept", func(t *testing.T) {
		img, err := Normalize(pngBytes(t, 300, 200))
		require.NoError(t, err)
		in := img.DataURL()

		out, err := n.Ensure(in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("large png is normalized", func(t *testing.T) {
		out, err := n.Ensure(EncodeDataURL("image/png", pngBytes(t, 1000, 500)))
		require.NoError(t, err)

		mediaType, payload, err := ParseDataURL(out)
		require.NoError(t, err)
		assert.Equal(t, MediaType, mediaType)
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, 800, cfg.Width)
		assert.Equal(t, 400, cfg.Height)
	})

	t.Run("bounded jpeg over the input limit fails", func(t *testing.T) {
		img, err := Normalize(pngBytes(t, 300, 200))
		require.NoError(t, err)

		small := NewNormalizer(int64(len(img.JPEG) - 1))
		_, err = small.Ensure(img.DataURL())
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("garbage fails", func(t *testing.T) {
		_, err := n.Ensure("data:image/jpeg;base64,bm90IGFuIGltYWdl")
		assert.ErrorIs(t, err, ErrDecode)
	})
}
