package convert

import (
	"fmt"
	"time"

	"github.com/samcharles93/caff2jpg/pkg/caff"
)

// Summary describes a decoded input without its pixel data.
type Summary struct {
	Mode            Mode            `json:"mode"`
	NumAnim         uint64          `json:"num_anim"`
	Credits         *CreditsSummary `json:"credits,omitempty"`
	Frames          []FrameSummary  `json:"frames"`
	TotalDurationMS uint64          `json:"total_duration_ms"`
}

type CreditsSummary struct {
	Created time.Time `json:"created"`
	Creator string    `json:"creator"`
}

type FrameSummary struct {
	Index       int    `json:"index"`
	DurationMS  uint64 `json:"duration_ms,omitempty"`
	Width       uint64 `json:"width"`
	Height      uint64 `json:"height"`
	HeaderSize  uint64 `json:"header_size"`
	ContentSize uint64 `json:"content_size"`
}

// Inspect decodes data and summarises it. Pixel data beyond the first frame
// is validated but not retained. A CAFF without animations is summarised
// with an empty frame list.
func Inspect(data []byte, mode Mode, opts caff.Options) (*Summary, error) {
	switch mode {
	case ModeCAFF:
		opts.FirstFrameOnly = true
		f, err := caff.Decode(data, opts)
		if err != nil {
			return nil, err
		}
		return summarizeFile(f), nil
	case ModeCIFF:
		ciff, err := caff.DecodeCIFFFile(data, opts)
		if err != nil {
			return nil, err
		}
		return summarizeCIFF(ciff), nil
	default:
		return nil, fmt.Errorf("unknown input type %q", mode)
	}
}

func summarizeCIFF(c *caff.CIFF) *Summary {
	return &Summary{
		Mode:    ModeCIFF,
		NumAnim: 1,
		Frames:  []FrameSummary{frameSummary(0, 0, c)},
	}
}

func summarizeFile(f *caff.File) *Summary {
	s := &Summary{
		Mode:            ModeCAFF,
		NumAnim:         f.Header.NumAnim,
		TotalDurationMS: f.TotalDuration(),
		Frames:          make([]FrameSummary, 0, len(f.Animations)),
	}
	if f.Credits.Present {
		s.Credits = &CreditsSummary{
			Created: f.Credits.Time(),
			Creator: f.Credits.Creator,
		}
	}
	for i := range f.Animations {
		a := &f.Animations[i]
		s.Frames = append(s.Frames, frameSummary(i, a.Duration, &a.CIFF))
	}
	return s
}

func frameSummary(i int, duration uint64, c *caff.CIFF) FrameSummary {
	return FrameSummary{
		Index:       i,
		DurationMS:  duration,
		Width:       c.Width,
		Height:      c.Height,
		HeaderSize:  c.HeaderSize,
		ContentSize: c.ContentSize,
	}
}
