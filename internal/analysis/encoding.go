package analysis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Packed record layout: 8 + 8 + 1 + 1 = 18 bytes
// - Board[0] (uint64 LE): 8 bytes
// - Board[1] (uint64 LE): 8 bytes
// - Bounds[0] (int8): 1 byte
// - Bounds[1] (int8): 1 byte

const RecordSize = 8 + 8 + 1 + 1 // 18 bytes

// Encode packs rec into its 18-byte form.
func Encode(rec Record) [RecordSize]byte {
	var buf [RecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], rec.Board[0])
	binary.LittleEndian.PutUint64(buf[8:16], rec.Board[1])
	buf[16] = uint8(rec.Bounds[0])
	buf[17] = uint8(rec.Bounds[1])
	return buf
}

// Decode unpacks an 18-byte record. Settings and Nodes are not stored and
// come back zero.
func Decode(data []byte) (Record, error) {
	if len(data) < RecordSize {
		return Record{}, fmt.Errorf("%w: got %d bytes, need %d", ErrShortRecord, len(data), RecordSize)
	}
	var rec Record
	rec.Board[0] = binary.LittleEndian.Uint64(data[0:8])
	rec.Board[1] = binary.LittleEndian.Uint64(data[8:16])
	if rec.Board[0]&rec.Board[1] != 0 {
		return Record{}, fmt.Errorf("%w: %016x & %016x", ErrOverlappingBoard, rec.Board[0], rec.Board[1])
	}
	rec.Bounds[0] = int8(data[16])
	rec.Bounds[1] = int8(data[17])
	return rec, nil
}

// Reader streams packed records.
type Reader struct {
	r   io.Reader
	buf [RecordSize]byte
	n   int64
}

// NewReader returns a Reader over a flat array of packed records.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next record, or io.EOF once the stream ends on a record
// boundary. A trailing partial record yields ErrShortRecord.
func (r *Reader) Next() (Record, error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return Record{}, fmt.Errorf("%w: record %d has %d trailing bytes", ErrShortRecord, r.n, n)
	}
	if err != nil {
		return Record{}, err
	}
	rec, err := Decode(r.buf[:])
	if err != nil {
		return Record{}, fmt.Errorf("record %d: %w", r.n, err)
	}
	r.n++
	return rec, nil
}

// Count returns the number of records read so far.
func (r *Reader) Count() int64 { return r.n }
