package caff

import (
	"fmt"
	"math"
)

// DecodeCIFF decodes one CIFF record at the cursor and leaves the cursor at
// the end of its pixel payload.
func DecodeCIFF(c *Cursor) (*CIFF, error) {
	ciff, err := decodeCIFF(c, true)
	if err != nil {
		return nil, fmt.Errorf("ciff: %w", err)
	}
	return ciff, nil
}

// DecodeCIFFFile decodes a standalone CIFF file held entirely in data.
func DecodeCIFFFile(data []byte, opts Options) (*CIFF, error) {
	c := NewCursor(data)
	ciff, err := DecodeCIFF(c)
	if err != nil {
		return nil, err
	}
	if opts.Strict && c.Remaining() != 0 {
		return nil, fmt.Errorf("ciff: %w: %d bytes after pixel data", ErrTrailingData, c.Remaining())
	}
	return ciff, nil
}

func decodeCIFF(c *Cursor, keepPixels bool) (*CIFF, error) {
	start := c.Pos()
	var (
		ciff CIFF
		err  error
	)

	if ciff.Magic, err = c.ReadMagic(); err != nil {
		return nil, fmt.Errorf("magic: %w", err)
	}
	if string(ciff.Magic[:]) != MagicCIFF {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrInvalidMagic, ciff.Magic[:], MagicCIFF)
	}

	if ciff.HeaderSize, err = c.ReadU64(); err != nil {
		return nil, fmt.Errorf("header_size: %w", err)
	}
	if ciff.HeaderSize < CIFFMinHeaderSize {
		return nil, fmt.Errorf("%w: header_size %d is below %d", ErrFormat, ciff.HeaderSize, CIFFMinHeaderSize)
	}

	if ciff.ContentSize, err = c.ReadU64(); err != nil {
		return nil, fmt.Errorf("content_size: %w", err)
	}
	if ciff.Width, err = c.ReadU64(); err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	if ciff.Height, err = c.ReadU64(); err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	if err := checkDimensions(ciff.Width, ciff.Height, ciff.ContentSize); err != nil {
		return nil, err
	}

	// The header may be longer than its fixed fields; the rest is an
	// uninterpreted caption/tag area.
	if err := c.SkipBlock(start, ciff.HeaderSize); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	if !keepPixels {
		if err := c.Skip(ciff.ContentSize); err != nil {
			return nil, fmt.Errorf("pixels: %w", err)
		}
		return &ciff, nil
	}
	if ciff.Pixels, err = c.ReadBytes(ciff.ContentSize); err != nil {
		return nil, fmt.Errorf("pixels: %w", err)
	}
	return &ciff, nil
}

// checkDimensions verifies content_size == width*height*3 without letting any
// intermediate product wrap.
func checkDimensions(width, height, contentSize uint64) error {
	if width > contentSize || height > contentSize {
		return fmt.Errorf("%w: %dx%d image cannot fit content_size %d", ErrFormat, width, height, contentSize)
	}
	if width != 0 && height != 0 {
		if width > math.MaxUint64/BytesPerPixel/height || height > math.MaxUint64/BytesPerPixel/width {
			return fmt.Errorf("%w: %dx%dx%d overflows", ErrSize, width, height, BytesPerPixel)
		}
	}
	if width*height*BytesPerPixel != contentSize {
		return fmt.Errorf("%w: content_size %d, want %dx%dx%d", ErrFormat, contentSize, width, height, BytesPerPixel)
	}
	return nil
}
