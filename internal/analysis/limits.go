package analysis

// Domain constants for the knowledge archive.
const (
	CellCount     = 64      // Cells on the board
	DepthLimit    = 36      // Maximum search depth, equal to the empty cells per record
	StrengthLimit = 100     // Search strength of a complete (exact) analysis
	BoundLimit    = 64      // Maximum absolute score bound (disc differential)
	NodeBound     = 1 << 47 // Exclusive bound on |nodes|
	EmptyCells    = 36      // Empty cells in every record's position
)

// Limits bundles the constants Validate and Select check a record against.
type Limits struct {
	Cells         int
	DepthLimit    uint8
	StrengthLimit uint8
	BoundLimit    int
	NodeBound     int64
	EmptyCells    int
}

// DefaultLimits returns the limits used by the knowledge archive.
func DefaultLimits() Limits {
	return Limits{
		Cells:         CellCount,
		DepthLimit:    DepthLimit,
		StrengthLimit: StrengthLimit,
		BoundLimit:    BoundLimit,
		NodeBound:     NodeBound,
		EmptyCells:    EmptyCells,
	}
}
