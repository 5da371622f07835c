package caff

import "fmt"

// Decode parses a complete CAFF file held in data: one header block, an
// optional credits block, then header.NumAnim animation blocks.
func Decode(data []byte, opts Options) (*File, error) {
	c := NewCursor(data)
	f := &File{}

	tag, err := c.ReadBlockTag()
	if err != nil {
		return nil, fmt.Errorf("caff: first block: %w", err)
	}
	if tag.ID != BlockHeader {
		return nil, fmt.Errorf("caff: %w: first block is %#x, want %#x", ErrUnexpectedBlock, uint8(tag.ID), uint8(BlockHeader))
	}
	if f.Header, err = decodeHeader(c, tag.Length); err != nil {
		return nil, fmt.Errorf("caff: header: %w", err)
	}

	// Credits are optional. Only a buffer that ends right after the header
	// has no second block; a partial tag is truncated input.
	if c.Remaining() > 0 {
		next, err := c.PeekBlockTag()
		if err != nil {
			return nil, fmt.Errorf("caff: second block: %w", err)
		}
		if next.ID == BlockCredits {
			c.pos += blockTagSize
			if f.Credits, err = decodeCredits(c, next.Length); err != nil {
				return nil, fmt.Errorf("caff: credits: %w", err)
			}
		}
	}

	// num_anim is attacker controlled; never reserve more frames than the
	// remaining bytes could hold.
	f.Animations = make([]Animation, 0, min(f.Header.NumAnim, c.Remaining()/minAnimationBlock))
	for i := uint64(0); i < f.Header.NumAnim; i++ {
		tag, err := c.ReadBlockTag()
		if err != nil {
			return nil, fmt.Errorf("caff: animation %d of %d: %w", i+1, f.Header.NumAnim, err)
		}
		if tag.ID != BlockAnimation {
			return nil, fmt.Errorf("caff: animation %d of %d: %w: block id %#x at offset %d", i+1, f.Header.NumAnim, ErrUnexpectedBlock, uint8(tag.ID), tag.Start)
		}
		keepPixels := !opts.FirstFrameOnly || i == 0
		a, err := decodeAnimation(c, tag.Length, keepPixels, opts.Strict)
		if err != nil {
			return nil, fmt.Errorf("caff: animation %d of %d: %w", i+1, f.Header.NumAnim, err)
		}
		f.Animations = append(f.Animations, a)
	}

	if opts.Strict && c.Remaining() != 0 {
		return nil, fmt.Errorf("caff: %w: %d bytes after last block", ErrTrailingData, c.Remaining())
	}
	return f, nil
}
