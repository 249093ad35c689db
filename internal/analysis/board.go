package analysis

import (
	"fmt"
	"math/bits"
	"regexp"
)

// Cell is the state of a single board cell.
type Cell uint8

// Cell states.
const (
	Empty Cell = iota
	SideO
	SideX
)

// Symbol returns the signature character for the cell.
func (c Cell) Symbol() byte {
	switch c {
	case SideO:
		return 'O'
	case SideX:
		return 'X'
	default:
		return '-'
	}
}

// Board holds the occupied cells of each side as bitmasks.
// Bit i of Board[0] is set when cell i holds O, bit i of Board[1] when it holds X.
type Board [2]uint64

var signaturePattern = regexp.MustCompile(`^[-OX]{64}$`)

// ParseBoard decodes a 64-character board signature.
func ParseBoard(sig string) (Board, error) {
	if !signaturePattern.MatchString(sig) {
		return Board{}, fmt.Errorf("%w: invalid board signature %q", ErrMalformedRecord, sig)
	}
	return decodeBoard(sig), nil
}

// decodeBoard expects a signature already matched against the record grammar.
func decodeBoard(sig string) Board {
	var b Board
	for i := 0; i < len(sig); i++ {
		switch sig[i] {
		case 'O':
			b[0] |= 1 << uint(i)
		case 'X':
			b[1] |= 1 << uint(i)
		case '-':
		default:
			panic(fmt.Sprintf("analysis: invalid board character %q at %d", sig[i], i))
		}
	}
	return b
}

// Cell returns the state of cell i (0-63).
func (b Board) Cell(i int) Cell {
	mask := uint64(1) << uint(i)
	switch {
	case b[0]&mask != 0:
		return SideO
	case b[1]&mask != 0:
		return SideX
	default:
		return Empty
	}
}

// Occupied returns the number of cells held by either side.
func (b Board) Occupied() int {
	return bits.OnesCount64(b[0] | b[1])
}

// String renders the board signature.
func (b Board) String() string {
	buf := make([]byte, CellCount)
	for i := range buf {
		buf[i] = b.Cell(i).Symbol()
	}
	return string(buf)
}
