// Package caff decodes CAFF animation containers and the CIFF raw-pixel images
// they carry.
//
// Every length, size and dimension field in a CAFF or CIFF file comes from
// untrusted input. Decoders validate each one against the buffer before it is
// used for arithmetic, allocation or copying, and never return partially
// built records.
package caff

import (
	"math"
	"time"
)

// Wire constants. All integers are little-endian.
const (
	MagicCAFF = "CAFF"
	MagicCIFF = "CIFF"

	// HeaderSize is the only valid header_size of a CAFF header block.
	HeaderSize = 4 + 8 + 8

	// CIFFMinHeaderSize covers magic, header_size, content_size, width and height.
	CIFFMinHeaderSize = 4 + 8 + 8 + 8 + 8

	// BytesPerPixel is fixed: CIFF pixels are interleaved 8-bit RGB.
	BytesPerPixel = 3

	blockTagSize       = 1 + 8
	creditsFixedSize   = 2 + 1 + 1 + 1 + 1 + 8
	animationFixedSize = 8

	// Smallest possible animation block including its tag.
	minAnimationBlock = blockTagSize + animationFixedSize + CIFFMinHeaderSize
)

type BlockID uint8

const (
	BlockHeader    BlockID = 0x1
	BlockCredits   BlockID = 0x2
	BlockAnimation BlockID = 0x3
)

func (id BlockID) String() string {
	switch id {
	case BlockHeader:
		return "header"
	case BlockCredits:
		return "credits"
	case BlockAnimation:
		return "animation"
	default:
		return "unknown"
	}
}

// BlockTag is the id and declared payload length that precede every CAFF block.
// Start is the offset of the tag itself.
type BlockTag struct {
	ID     BlockID
	Length uint64
	Start  uint64
}

type CIFF struct {
	Magic       [4]byte
	HeaderSize  uint64
	ContentSize uint64
	Width       uint64
	Height      uint64

	// Pixels holds ContentSize bytes of RGB data, row-major. It is nil for
	// frames decoded with Options.FirstFrameOnly after the first.
	Pixels []byte
}

type Header struct {
	Magic      [4]byte
	HeaderSize uint64
	NumAnim    uint64
}

type Credits struct {
	// Present is false when the file has no credits block.
	Present bool

	Year    uint16
	Month   uint8
	Day     uint8
	Hour    uint8
	Minute  uint8
	Creator string
}

// Time returns the credits timestamp in UTC. Out-of-range fields are
// normalised the way time.Date does.
func (c Credits) Time() time.Time {
	return time.Date(int(c.Year), time.Month(c.Month), int(c.Day), int(c.Hour), int(c.Minute), 0, 0, time.UTC)
}

type Animation struct {
	// Duration is the display time of the frame in milliseconds.
	Duration uint64
	CIFF     CIFF
}

// DisplayTime converts Duration to a time.Duration, saturating on overflow.
func (a Animation) DisplayTime() time.Duration {
	if a.Duration > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(a.Duration) * time.Millisecond
}

type File struct {
	Header     Header
	Credits    Credits
	Animations []Animation
}

// FirstFrame returns the image of the first animation block.
func (f *File) FirstFrame() (*CIFF, error) {
	if f == nil || len(f.Animations) == 0 {
		return nil, ErrNoFrames
	}
	return &f.Animations[0].CIFF, nil
}

// TotalDuration sums frame durations in milliseconds, saturating on overflow.
func (f *File) TotalDuration() uint64 {
	var total uint64
	for _, a := range f.Animations {
		if a.Duration > math.MaxUint64-total {
			return math.MaxUint64
		}
		total += a.Duration
	}
	return total
}

// Options tunes how strictly input is validated.
type Options struct {
	// Strict rejects bytes the decoders would otherwise skip: padding inside
	// an animation block beyond its CIFF, and data after the last block.
	Strict bool

	// FirstFrameOnly validates every frame but keeps pixel data only for the
	// first one.
	FirstFrameOnly bool
}
