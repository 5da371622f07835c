package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/samcharles93/caff2jpg/internal/logger"
	"github.com/samcharles93/caff2jpg/pkg/caff"
)

type Request struct {
	Input string
	// Output defaults to Input with its extension replaced by ".jpg".
	Output  string
	Mode    Mode
	Quality int
	Options caff.Options
}

type Result struct {
	Input    string
	Output   string
	Mode     Mode
	Width    uint64
	Height   uint64
	Frames   int
	Credits  caff.Credits
	Bytes    int
	Duration time.Duration
}

// Frame is the image chosen for conversion. File is nil for CIFF input.
type Frame struct {
	Mode Mode
	File *caff.File
	CIFF *caff.CIFF
}

func (f *Frame) Frames() int {
	if f.File == nil {
		return 1
	}
	return len(f.File.Animations)
}

// DecodeFirstFrame decodes data as mode and returns its first image. Only the
// first frame's pixels are retained.
func DecodeFirstFrame(data []byte, mode Mode, opts caff.Options) (*Frame, error) {
	switch mode {
	case ModeCIFF:
		ciff, err := caff.DecodeCIFFFile(data, opts)
		if err != nil {
			return nil, err
		}
		return &Frame{Mode: mode, CIFF: ciff}, nil
	case ModeCAFF:
		opts.FirstFrameOnly = true
		f, err := caff.Decode(data, opts)
		if err != nil {
			return nil, err
		}
		ciff, err := f.FirstFrame()
		if err != nil {
			return nil, err
		}
		return &Frame{Mode: mode, File: f, CIFF: ciff}, nil
	default:
		return nil, fmt.Errorf("unknown input type %q", mode)
	}
}

// Encode writes the frame as a JPEG.
func (f *Frame) Encode(w io.Writer, quality int) error {
	return EncodeJPEG(w, f.CIFF.Width, f.CIFF.Height, f.CIFF.Pixels, quality)
}

// Convert reads req.Input, decodes its first image and writes it as a JPEG.
// Nothing is written unless every step succeeds.
func Convert(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromContext(ctx).With("input", req.Input, "mode", string(req.Mode))
	start := time.Now()

	if err := CheckPath(req.Mode, req.Input); err != nil {
		return nil, err
	}
	out := req.Output
	if out == "" {
		out = OutputPath(req.Input)
	}

	src, err := caff.ReadFile(req.Input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	log.Debug("input loaded", "bytes", len(src.Data))

	frame, err := DecodeFirstFrame(src.Data, req.Mode, req.Options)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", req.Input, err)
	}
	// Pixels are copied out of the source; release the mapping early.
	_ = src.Close()
	log.Debug("decoded", "width", frame.CIFF.Width, "height", frame.CIFF.Height, "frames", frame.Frames())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Encode in memory first so dimension errors never create the output.
	var buf bytes.Buffer
	if err := frame.Encode(&buf, req.Quality); err != nil {
		return nil, fmt.Errorf("encode %s: %w", out, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := WriteFileAtomic(out, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", caff.ErrIO, err)
	}

	res := &Result{
		Input:    req.Input,
		Output:   out,
		Mode:     req.Mode,
		Width:    frame.CIFF.Width,
		Height:   frame.CIFF.Height,
		Frames:   frame.Frames(),
		Bytes:    buf.Len(),
		Duration: time.Since(start),
	}
	if frame.File != nil {
		res.Credits = frame.File.Credits
	}
	return res, nil
}
