package convert

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/samcharles93/caff2jpg/pkg/caff"
)

const (
	// MaxDimension is the largest width or height a JPEG frame header can hold.
	MaxDimension = 65535

	DefaultQuality = 85
)

var ErrDimensions = errors.New("image dimensions not encodable")

// EncodeJPEG writes interleaved RGB pixels as a baseline JPEG.
func EncodeJPEG(w io.Writer, width, height uint64, pixels []byte, quality int) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d is empty", ErrDimensions, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrDimensions, width, height, MaxDimension)
	}
	if uint64(len(pixels)) != width*height*caff.BytesPerPixel {
		return fmt.Errorf("%w: %d pixel bytes for %dx%d", ErrDimensions, len(pixels), width, height)
	}

	img := rgbToRGBA(int(width), int(height), pixels)
	return jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)})
}

func rgbToRGBA(width, height int, pixels []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	src := 0
	for dst := 0; dst < len(img.Pix); dst += 4 {
		img.Pix[dst+0] = pixels[src+0]
		img.Pix[dst+1] = pixels[src+1]
		img.Pix[dst+2] = pixels[src+2]
		img.Pix[dst+3] = 0xFF
		src += caff.BytesPerPixel
	}
	return img
}

func clampQuality(q int) int {
	switch {
	case q <= 0:
		return DefaultQuality
	case q > 100:
		return 100
	default:
		return q
	}
}
