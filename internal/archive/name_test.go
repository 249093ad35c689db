package archive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signature returns a board signature with the given number of empty cells.
func signature(empty int) string {
	occupied := 64 - empty
	return strings.Repeat("O", occupied/2) + strings.Repeat("X", occupied-occupied/2) + strings.Repeat("-", empty)
}

func TestParseEntryName(t *testing.T) {
	sig := signature(50)
	tests := []struct {
		name string
		ok   bool
	}{
		{"knowledge_" + sig + ".csv", true},
		{"knowledge_archive/knowledge_" + sig + ".csv", true},
		{"knowledge_" + signature(49) + ".csv", false},
		{"knowledge_" + signature(51) + ".csv", false},
		{"knowledge_" + sig + ".txt", false},
		{"knowledge_" + sig + ".csv.bak", false},
		{"knowledge_" + sig[:63] + ".csv", false},
		{"knowledge_" + strings.Replace(sig, "O", "o", 1) + ".csv", false},
		{"other_" + sig + ".csv", false},
		{"knowledge_archive/", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := ParseEntryName(tt.name)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrEntryName, tt.name)
			var ne *NameError
			assert.ErrorAs(t, err, &ne, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, sig, got)
	}
}
