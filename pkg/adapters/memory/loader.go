package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/pkg/domain"
)

// Loader implements ports.GrammarLoader using an in-memory map.
type Loader struct {
	grammars map[string][]byte
}

// NewLoader creates a new Loader with the provided raw documents (YAML or JSON).
func NewLoader(data map[string]string) *Loader {
	grammars := make(map[string][]byte)
	for k, v := range data {
		grammars[k] = []byte(v)
	}
	return &Loader{
		grammars: grammars,
	}
}

// NewFromGrammars creates a new Loader from domain objects.
// This handles serialization automatically, improving DX for tests.
func NewFromGrammars(grammars ...domain.Grammar) (*Loader, error) {
	data := make(map[string][]byte)
	for _, g := range grammars {
		if g.Name == "" {
			return nil, fmt.Errorf("grammar missing name")
		}
		bytes, err := json.Marshal(compiler.ToMetadata(&g))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal grammar %s: %w", g.Name, err)
		}
		data[g.Name] = bytes
	}
	return &Loader{grammars: data}, nil
}

// GetGrammar retrieves the raw definition of a grammar by name.
func (l *Loader) GetGrammar(name string) ([]byte, error) {
	content, ok := l.grammars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrammarNotFound, name)
	}
	return content, nil
}

// ListGrammars returns all available grammar names.
func (l *Loader) ListGrammars() ([]string, error) {
	keys := make([]string, 0, len(l.grammars))
	for k := range l.grammars {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
