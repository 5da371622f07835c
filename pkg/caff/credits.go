package caff

import (
	"fmt"
	"math"
)

func decodeCredits(c *Cursor, blockLength uint64) (Credits, error) {
	start := c.Pos()
	cr := Credits{Present: true}
	var err error

	if cr.Year, err = c.ReadU16(); err != nil {
		return Credits{}, fmt.Errorf("year: %w", err)
	}
	if cr.Month, err = c.ReadU8(); err != nil {
		return Credits{}, fmt.Errorf("month: %w", err)
	}
	if cr.Day, err = c.ReadU8(); err != nil {
		return Credits{}, fmt.Errorf("day: %w", err)
	}
	if cr.Hour, err = c.ReadU8(); err != nil {
		return Credits{}, fmt.Errorf("hour: %w", err)
	}
	if cr.Minute, err = c.ReadU8(); err != nil {
		return Credits{}, fmt.Errorf("minute: %w", err)
	}
	creatorLen, err := c.ReadU64()
	if err != nil {
		return Credits{}, fmt.Errorf("creator_len: %w", err)
	}

	total, ok := addU64(creditsFixedSize, creatorLen)
	if !ok {
		return Credits{}, fmt.Errorf("%w: creator_len %d overflows block size", ErrSize, creatorLen)
	}
	if total != blockLength {
		return Credits{}, fmt.Errorf("%w: block declares %d bytes, fields take %d", ErrBlockLengthMismatch, blockLength, total)
	}
	if creatorLen > math.MaxInt-1 {
		return Credits{}, fmt.Errorf("%w: creator_len %d cannot be allocated", ErrSize, creatorLen)
	}

	creator, err := c.ReadBytes(creatorLen)
	if err != nil {
		return Credits{}, fmt.Errorf("creator: %w", err)
	}
	cr.Creator = string(creator)

	if err := c.SkipBlock(start, blockLength); err != nil {
		return Credits{}, err
	}
	return cr, nil
}
