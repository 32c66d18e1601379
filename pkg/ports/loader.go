package ports

import "context"

// GrammarLoader defines how the engine retrieves grammar definitions.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type GrammarLoader interface {
	// GetGrammar retrieves the raw definition of a grammar by name.
	// It returns the raw bytes (which the compiler will parse) or an error
	// wrapping domain.ErrGrammarNotFound.
	GetGrammar(name string) ([]byte, error)

	// ListGrammars returns the names of every grammar available.
	// This is used for introspection tools (e.g. 'arbor presets').
	ListGrammars() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed grammar.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
