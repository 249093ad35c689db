package archive

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// PlaceholderCount is the number of empty cells in the board signature of
// every entry name.
const PlaceholderCount = 50

// ErrEntryName is wrapped by every NameError.
var ErrEntryName = errors.New("invalid entry name")

// NameError reports an entry whose name does not follow the
// knowledge_<signature>.csv convention.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrEntryName, e.Name, e.Reason)
}

func (e *NameError) Unwrap() error { return ErrEntryName }

var entryNamePattern = regexp.MustCompile(`^knowledge_([-OX]{64})\.csv$`)

// ParseEntryName validates an entry name and returns its board signature.
// Only the base name is matched, so entries under a directory such as
// knowledge_archive/ are accepted.
func ParseEntryName(name string) (string, error) {
	m := entryNamePattern.FindStringSubmatch(path.Base(name))
	if m == nil {
		return "", &NameError{Name: name, Reason: "does not match knowledge_<board>.csv"}
	}
	sig := m[1]
	if n := strings.Count(sig, "-"); n != PlaceholderCount {
		return "", &NameError{Name: name, Reason: fmt.Sprintf("board has %d empty cells, want %d", n, PlaceholderCount)}
	}
	return sig, nil
}
