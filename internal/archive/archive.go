// Package archive walks a compressed tar archive of knowledge CSV files.
package archive

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Entry is one member of the archive. Body is only valid until the next call
// to Source.Next.
type Entry struct {
	Name    string
	Size    int64
	Regular bool
	Body    io.Reader
}

// Source yields archive entries in archive order. Next returns io.EOF after
// the last entry.
type Source interface {
	Next() (*Entry, error)
}

// OpenError reports an archive that could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open archive %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// TarSource reads entries from a (possibly compressed) tar stream.
type TarSource struct {
	tr          *tar.Reader
	compression Compression
	closers     []io.Closer
}

// Open opens the archive at path, detecting its compression from the
// leading magic bytes.
func Open(path string) (*TarSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	src, err := NewTarSource(f)
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	src.closers = append(src.closers, f)
	return src, nil
}

// NewTarSource wraps r, which may be zstd, gzip or bzip2 compressed or a
// plain tar stream.
func NewTarSource(r io.Reader) (*TarSource, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	c, err := Detect(br)
	if err != nil {
		return nil, err
	}
	dr, closer, err := c.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("%s reader: %w", c, err)
	}
	src := &TarSource{
		tr:          tar.NewReader(dr),
		compression: c,
	}
	if closer != nil {
		src.closers = append(src.closers, closer)
	}
	return src, nil
}

// Compression returns the detected compression.
func (s *TarSource) Compression() Compression { return s.compression }

// Next advances to the next entry.
func (s *TarSource) Next() (*Entry, error) {
	hdr, err := s.tr.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read archive entry: %w", err)
	}
	return &Entry{
		Name:    hdr.Name,
		Size:    hdr.Size,
		Regular: hdr.Typeflag == tar.TypeReg,
		Body:    s.tr,
	}, nil
}

// Close releases the decompressor and the underlying file.
func (s *TarSource) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
