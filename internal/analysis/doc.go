// Package analysis parses, validates and packs Edax knowledge records.
//
// A knowledge record is one CSV line describing a searched Othello position:
//
//	<64-char board signature> X;,<depth>,<strength>,<lower>,<upper>,<nodes>
//
// The signature uses '-' for an empty cell, 'O' and 'X' for the two sides.
// Accepted records are packed into a fixed 18-byte little-endian layout:
//
//	offset  size  field
//	0       8     board[0] (cells held by O)
//	8       8     board[1] (cells held by X)
//	16      1     lower bound (two's complement)
//	17      1     upper bound (two's complement)
//
// Search settings and node counts only drive validation and selection and
// are not part of the packed form.
package analysis
