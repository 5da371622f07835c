package caff

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cursor reads fixed-width fields sequentially from an immutable buffer.
// A failed read never moves the position.
type Cursor struct {
	buf []byte
	pos uint64
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Pos() uint64 {
	return c.pos
}

func (c *Cursor) Len() uint64 {
	return uint64(len(c.buf))
}

func (c *Cursor) Remaining() uint64 {
	return c.Len() - c.pos
}

// Advance moves the cursor count bytes forward, copying them into dst first
// when dst is non-nil. A nil dst validates and skips.
func (c *Cursor) Advance(dst []byte, count uint64) error {
	if dst != nil && uint64(len(dst)) < count {
		return fmt.Errorf("%w: destination holds %d bytes, need %d", ErrSize, len(dst), count)
	}
	end, ok := addU64(c.pos, count)
	if !ok {
		return fmt.Errorf("%w: offset %d + %d overflows", ErrSize, c.pos, count)
	}
	if end > c.Len() {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, count, c.pos, c.Remaining())
	}
	if dst != nil {
		copy(dst, c.buf[c.pos:end])
	}
	c.pos = end
	return nil
}

func (c *Cursor) Skip(count uint64) error {
	return c.Advance(nil, count)
}

func (c *Cursor) ReadU8() (uint8, error) {
	var b [1]byte
	if err := c.Advance(b[:], 1); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	var b [2]byte
	if err := c.Advance(b[:], 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	var b [8]byte
	if err := c.Advance(b[:], 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (c *Cursor) ReadMagic() ([4]byte, error) {
	var m [4]byte
	err := c.Advance(m[:], 4)
	return m, err
}

// ReadBytes copies n bytes into a new slice. The length is checked against
// the host int range and the remaining buffer before anything is allocated.
func (c *Cursor) ReadBytes(n uint64) ([]byte, error) {
	if n > math.MaxInt {
		return nil, fmt.Errorf("%w: %d bytes cannot be allocated", ErrSize, n)
	}
	if n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.pos, c.Remaining())
	}
	out := make([]byte, n)
	if err := c.Advance(out, n); err != nil {
		return nil, err
	}
	return out, nil
}

// SkipBlock positions the cursor at start+length, the end of a block whose
// fields were read forward from start.
func (c *Cursor) SkipBlock(start, length uint64) error {
	end, ok := addU64(start, length)
	if !ok {
		return fmt.Errorf("%w: block at %d with length %d overflows", ErrSize, start, length)
	}
	if end > c.Len() {
		return fmt.Errorf("%w: block at %d with length %d ends past %d", ErrTruncated, start, length, c.Len())
	}
	c.pos = end
	return nil
}

func (c *Cursor) ReadBlockTag() (BlockTag, error) {
	tag, err := c.PeekBlockTag()
	if err != nil {
		return BlockTag{}, err
	}
	c.pos += blockTagSize
	return tag, nil
}

// PeekBlockTag decodes the block tag at the current position without
// consuming it.
func (c *Cursor) PeekBlockTag() (BlockTag, error) {
	p := Cursor{buf: c.buf, pos: c.pos}
	id, err := p.ReadU8()
	if err != nil {
		return BlockTag{}, fmt.Errorf("block id: %w", err)
	}
	length, err := p.ReadU64()
	if err != nil {
		return BlockTag{}, fmt.Errorf("block length: %w", err)
	}
	return BlockTag{ID: BlockID(id), Length: length, Start: c.pos}, nil
}

func addU64(a, b uint64) (uint64, bool) {
	if b > math.MaxUint64-a {
		return 0, false
	}
	return a + b, true
}
