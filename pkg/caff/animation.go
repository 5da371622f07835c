package caff

import "fmt"

func decodeAnimation(c *Cursor, blockLength uint64, keepPixels, strict bool) (Animation, error) {
	start := c.Pos()
	var (
		a   Animation
		err error
	)

	if a.Duration, err = c.ReadU64(); err != nil {
		return Animation{}, fmt.Errorf("duration: %w", err)
	}

	ciff, err := decodeCIFF(c, keepPixels)
	if err != nil {
		return Animation{}, fmt.Errorf("ciff: %w", err)
	}
	a.CIFF = *ciff

	if strict {
		if consumed := c.Pos() - start; consumed != blockLength {
			return Animation{}, fmt.Errorf("%w: block declares %d bytes, content takes %d", ErrBlockLengthMismatch, blockLength, consumed)
		}
	}

	if err := c.SkipBlock(start, blockLength); err != nil {
		return Animation{}, err
	}
	return a, nil
}
