package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalancedBracket is returned when a ']' is interpreted with no matching '['.
var ErrUnbalancedBracket = errors.New("unbalanced bracket")

// ErrGrammarNotFound is returned when a named grammar cannot be found by a loader.
var ErrGrammarNotFound = errors.New("grammar not found")

// ErrInvalidGrammar is returned when a grammar definition fails validation.
var ErrInvalidGrammar = errors.New("invalid grammar")

// ErrInvalidRule is returned when a production rule cannot be parsed.
var ErrInvalidRule = errors.New("invalid rule")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrIterationLimit is returned by network surfaces when a request asks for
// more rewriting passes than they allow.
var ErrIterationLimit = errors.New("iteration limit exceeded")

// BracketError locates a malformed bracket in an interpreted sequence.
type BracketError struct {
	Offset int
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("%s: ']' at offset %d pops an empty stack", ErrUnbalancedBracket, e.Offset)
}

func (e *BracketError) Unwrap() error {
	return ErrUnbalancedBracket
}

// ValidationError collects every issue found while validating a grammar.
type ValidationError struct {
	Grammar string
	Issues  []string
}

func (e *ValidationError) Error() string {
	name := e.Grammar
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("%s %s: found %d issues:\n- %s", ErrInvalidGrammar, name, len(e.Issues), strings.Join(e.Issues, "\n- "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidGrammar
}
