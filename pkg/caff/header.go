package caff

import "fmt"

func decodeHeader(c *Cursor, blockLength uint64) (Header, error) {
	start := c.Pos()
	var (
		h   Header
		err error
	)

	if h.Magic, err = c.ReadMagic(); err != nil {
		return Header{}, fmt.Errorf("magic: %w", err)
	}
	if string(h.Magic[:]) != MagicCAFF {
		return Header{}, fmt.Errorf("%w: got %q, want %q", ErrInvalidMagic, h.Magic[:], MagicCAFF)
	}

	if h.HeaderSize, err = c.ReadU64(); err != nil {
		return Header{}, fmt.Errorf("header_size: %w", err)
	}
	if h.HeaderSize != HeaderSize {
		return Header{}, fmt.Errorf("%w: header_size %d, want %d", ErrFormat, h.HeaderSize, HeaderSize)
	}
	if blockLength != h.HeaderSize {
		return Header{}, fmt.Errorf("%w: block declares %d bytes, header_size is %d", ErrBlockLengthMismatch, blockLength, h.HeaderSize)
	}

	if h.NumAnim, err = c.ReadU64(); err != nil {
		return Header{}, fmt.Errorf("num_anim: %w", err)
	}

	if err := c.SkipBlock(start, blockLength); err != nil {
		return Header{}, err
	}
	return h, nil
}
