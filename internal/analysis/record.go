package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Errors returned by Parse, ParseBoard, Decode and Reader.
var (
	ErrMalformedRecord  = errors.New("malformed record")
	ErrNumericOverflow  = errors.New("numeric overflow")
	ErrShortRecord      = errors.New("short record")
	ErrOverlappingBoard = errors.New("overlapping board masks")
)

// Record is one parsed knowledge line.
type Record struct {
	Board    Board
	Settings [2]uint8 // search depth, search strength
	Bounds   [2]int8  // lower, upper score bound
	Nodes    int64    // nodes searched; negative when Edax ran with other options
}

// ParseError reports a line that could not be parsed.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }

var recordPattern = regexp.MustCompile(`^([-OX]{64}) X;,(\d+),(\d+),(-?\d+),(-?\d+),(-?\d+)$`)

// Parse decodes a single knowledge line.
// Errors wrap ErrMalformedRecord when the line does not match the grammar and
// ErrNumericOverflow when a field does not fit its type.
func Parse(line string) (Record, error) {
	m := recordPattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, &ParseError{Line: line, Err: ErrMalformedRecord}
	}

	var rec Record
	var err error
	if rec.Settings[0], err = parseUint8("depth", m[2]); err != nil {
		return Record{}, &ParseError{Line: line, Err: err}
	}
	if rec.Settings[1], err = parseUint8("strength", m[3]); err != nil {
		return Record{}, &ParseError{Line: line, Err: err}
	}
	if rec.Bounds[0], err = parseInt8("lower bound", m[4]); err != nil {
		return Record{}, &ParseError{Line: line, Err: err}
	}
	if rec.Bounds[1], err = parseInt8("upper bound", m[5]); err != nil {
		return Record{}, &ParseError{Line: line, Err: err}
	}
	if rec.Nodes, err = strconv.ParseInt(m[6], 10, 64); err != nil {
		return Record{}, &ParseError{Line: line, Err: numericError("nodes", err)}
	}
	rec.Board = decodeBoard(m[1])
	return rec, nil
}

func parseUint8(field, s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, numericError(field, err)
	}
	return uint8(v), nil
}

func parseInt8(field, s string) (int8, error) {
	v, err := strconv.ParseInt(s, 10, 8)
	if err != nil {
		return 0, numericError(field, err)
	}
	return int8(v), nil
}

func numericError(field string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: %s", ErrNumericOverflow, field)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedRecord, field, err)
}
