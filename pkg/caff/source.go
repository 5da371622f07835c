package caff

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Source is a whole input file held in memory, either mapped read-only or
// copied into a heap buffer.
type Source struct {
	Data    []byte
	mmapped bool
}

// ReadFile loads the file at path into one buffer. The returned source must be
// closed; slices of Data must not be retained after Close. Decoded records
// never alias Data.
func ReadFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !stat.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrIO, path)
	}
	size64 := stat.Size()
	if size64 < 0 || size64 > math.MaxInt {
		return nil, fmt.Errorf("%w: %s has size %d", ErrSize, path, size64)
	}
	size := int(size64)
	if size == 0 {
		return &Source{Data: []byte{}}, nil
	}

	if data, ok := mapFile(f, size); ok {
		return &Source{Data: data, mmapped: true}, nil
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &Source{Data: data}, nil
}

// Close releases the mapping, if any.
func (s *Source) Close() error {
	if s == nil || s.Data == nil {
		return nil
	}
	var err error
	if s.mmapped {
		err = unmapFile(s.Data)
	}
	s.Data = nil
	s.mmapped = false
	return err
}

// OpenCAFF reads and decodes the CAFF file at path.
func OpenCAFF(path string, opts Options) (*File, error) {
	src, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return Decode(src.Data, opts)
}

// OpenCIFF reads and decodes the standalone CIFF file at path.
func OpenCIFF(path string, opts Options) (*CIFF, error) {
	src, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return DecodeCIFFFile(src.Data, opts)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
