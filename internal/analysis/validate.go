package analysis

import "fmt"

// Invariant is a named predicate every record must satisfy.
type Invariant struct {
	Name  string
	Holds func(rec Record, lim Limits) bool
}

// Invariants lists the checks Validate applies, in order.
var Invariants = []Invariant{
	{"empty-cells", func(r Record, l Limits) bool {
		return l.Cells-r.Board.Occupied() == l.EmptyCells
	}},
	{"depth-limit", func(r Record, l Limits) bool {
		return r.Settings[0] <= l.DepthLimit
	}},
	{"strength-limit", func(r Record, l Limits) bool {
		return r.Settings[1] <= l.StrengthLimit
	}},
	{"bound-magnitude", func(r Record, l Limits) bool {
		return abs(int64(r.Bounds[0])) <= int64(l.BoundLimit) && abs(int64(r.Bounds[1])) <= int64(l.BoundLimit)
	}},
	{"bound-parity", func(r Record, _ Limits) bool {
		// Truncated remainder: -3 and 1 do not share parity.
		return r.Bounds[0]%2 == r.Bounds[1]%2
	}},
	{"bound-order", func(r Record, _ Limits) bool {
		return r.Bounds[0] <= r.Bounds[1]
	}},
	{"node-budget", func(r Record, l Limits) bool {
		return r.Nodes < l.NodeBound && r.Nodes > -l.NodeBound
	}},
	{"bound-sign", func(r Record, _ Limits) bool {
		return r.Bounds[0] == r.Bounds[1] || r.Bounds[1] < 0 || r.Bounds[0] > 0
	}},
}

// InvariantError reports the first invariant a record violates.
type InvariantError struct {
	Invariant string
	Record    Record
}

func (e *InvariantError) Error() string {
	r := e.Record
	return fmt.Sprintf("invariant %s violated: board=%s settings=%v bounds=%v nodes=%d",
		e.Invariant, r.Board, r.Settings, r.Bounds, r.Nodes)
}

// Validate checks rec against every invariant and returns an *InvariantError
// for the first one that fails.
func Validate(rec Record, lim Limits) error {
	for _, inv := range Invariants {
		if !inv.Holds(rec, lim) {
			return &InvariantError{Invariant: inv.Name, Record: rec}
		}
	}
	return nil
}

// Select reports whether rec is an exact, fully searched result and belongs
// in the packed output.
func Select(rec Record, lim Limits) bool {
	return rec.Settings[0] == lim.DepthLimit && rec.Settings[1] == lim.StrengthLimit
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
