package tests

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// GrammarLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.GrammarLoader.
// expected maps grammar names to a substring their raw definition must contain (usually the axiom).
func GrammarLoaderContractTest(t *testing.T, loader ports.GrammarLoader, expected map[string]string) {
	t.Helper()

	// 1. Test GetGrammar (Success)
	t.Run("GetGrammar_Success", func(t *testing.T) {
		for name, fragment := range expected {
			raw, err := loader.GetGrammar(name)
			if err != nil {
				t.Fatalf("unexpected error getting grammar %s: %v", name, err)
			}
			if !strings.Contains(string(raw), fragment) {
				t.Errorf("grammar %s does not contain %q: %s", name, fragment, raw)
			}
		}
	})

	// 2. Test GetGrammar (NotFound)
	t.Run("GetGrammar_NotFound", func(t *testing.T) {
		_, err := loader.GetGrammar("non-existent-grammar")
		if err == nil {
			t.Fatal("expected error for non-existent grammar, got nil")
		}
		if !errors.Is(err, domain.ErrGrammarNotFound) {
			t.Errorf("expected ErrGrammarNotFound, got %v", err)
		}
	})

	// 3. Test ListGrammars
	t.Run("ListGrammars", func(t *testing.T) {
		names, err := loader.ListGrammars()
		if err != nil {
			t.Fatalf("unexpected error listing grammars: %v", err)
		}

		if len(names) != len(expected) {
			t.Errorf("expected %d grammars, got %d (%v)", len(expected), len(names), names)
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range expected {
			if !lookup[name] {
				t.Errorf("grammar %s missing from list", name)
			}
		}
	})
}
