package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Symbol is a single character of an L-system alphabet.
type Symbol rune

// String returns the symbol as a one character string.
func (s Symbol) String() string {
	return string(s)
}

// MarshalText encodes the symbol as a one character string.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(string(s)), nil
}

// UnmarshalText decodes a symbol from a string holding exactly one character.
func (s *Symbol) UnmarshalText(text []byte) error {
	if utf8.RuneCount(text) != 1 {
		return fmt.Errorf("%w: symbol %q must be a single character", ErrInvalidRule, text)
	}
	r, _ := utf8.DecodeRune(text)
	*s = Symbol(r)
	return nil
}

// Sequence is an ordered list of symbols.
// It is treated as immutable: rewriting builds a new Sequence.
type Sequence []Symbol

// ParseSequence converts a string into a Sequence, one Symbol per rune.
func ParseSequence(s string) Sequence {
	seq := make(Sequence, 0, len(s))
	for _, r := range s {
		seq = append(seq, Symbol(r))
	}
	return seq
}

// String renders the sequence back to text.
func (seq Sequence) String() string {
	var sb strings.Builder
	sb.Grow(len(seq))
	for _, s := range seq {
		sb.WriteRune(rune(s))
	}
	return sb.String()
}

// Count returns how many times sym appears in the sequence.
func (seq Sequence) Count(sym Symbol) int {
	n := 0
	for _, s := range seq {
		if s == sym {
			n++
		}
	}
	return n
}

// Equal reports whether both sequences hold the same symbols in the same order.
func (seq Sequence) Equal(other Sequence) bool {
	if len(seq) != len(other) {
		return false
	}
	for i := range seq {
		if seq[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalText encodes the sequence as its string form, so JSON and YAML
// carry "F[+F]F" instead of an array of code points.
func (seq Sequence) MarshalText() ([]byte, error) {
	return []byte(seq.String()), nil
}

// UnmarshalText decodes a sequence from its string form.
func (seq *Sequence) UnmarshalText(text []byte) error {
	*seq = ParseSequence(string(text))
	return nil
}
