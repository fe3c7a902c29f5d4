package simon

import (
	"fmt"
	"strings"
)

// Sequence is an ordered list of pad colors.
type Sequence []Color

// String encodes the sequence as one digit per color ("0213").
func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		b.WriteByte(byte('0' + c))
	}
	return b.String()
}

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sequences hold the same colors.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseSequence decodes the digit form produced by String.
// The empty string is the empty sequence.
func ParseSequence(s string) (Sequence, error) {
	if len(s) > MaxSequence {
		return nil, fmt.Errorf("simon: sequence of %d colors exceeds %d", len(s), MaxSequence)
	}
	out := make(Sequence, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := Color(s[i] - '0')
		if s[i] < '0' || !c.Valid() {
			return nil, fmt.Errorf("simon: bad color %q at %d in sequence %q", s[i], i, s)
		}
		out = append(out, c)
	}
	return out, nil
}
