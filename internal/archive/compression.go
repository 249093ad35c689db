package archive

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies the outer compression of an archive.
type Compression uint8

// Supported compressions.
const (
	None Compression = iota
	Zstd
	Gzip
	Bzip2
)

// ErrUnknownCompression is returned for a compression name or codec that is not supported.
var ErrUnknownCompression = errors.New("unknown compression")

var (
	zstdMagic  = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic  = []byte{0x1F, 0x8B}
	bzip2Magic = []byte("BZh")
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	default:
		return "unknown"
	}
}

// ParseCompression maps a configuration value to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	case "gzip", "gz":
		return Gzip, nil
	case "bzip2", "bz2":
		return Bzip2, nil
	}
	return None, ErrUnknownCompression
}

// Detect peeks at the magic bytes of br without consuming them.
// Streams shorter than any magic are reported as uncompressed.
func Detect(br *bufio.Reader) (Compression, error) {
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return None, err
	}
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd, nil
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip, nil
	case bytes.HasPrefix(head, bzip2Magic):
		return Bzip2, nil
	}
	return None, nil
}

// NewReader returns a decompressing reader over r and, when the decoder
// holds resources, a closer for them.
func (c Compression) NewReader(r io.Reader) (io.Reader, io.Closer, error) {
	switch c {
	case None:
		return r, nil, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, zstdCloser{dec}, nil
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, gz, nil
	case Bzip2:
		return bzip2.NewReader(r), nil, nil
	}
	return nil, nil, ErrUnknownCompression
}

// NewWriter wraps w in a compressor. Only None and Zstd are supported for output.
func (c Compression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	}
	return nil, ErrUnknownCompression
}

// zstdCloser adapts zstd.Decoder, whose Close returns nothing.
type zstdCloser struct{ dec *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.dec.Close()
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
