package loam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts the Loam library to the GrammarLoader interface.
// A grammar is a Markdown document with YAML frontmatter, or a plain JSON/YAML file.
type Loader struct {
	Repo *loam.TypedRepository[GrammarMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[GrammarMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// GetGrammar retrieves a grammar document and re-encodes it as JSON for the compiler.
// The Markdown body is used as description when the frontmatter has none.
func (l *Loader) GetGrammar(name string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || !l.exists(name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGrammarNotFound, name)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	meta := doc.Data
	grammarName := meta.Name
	if grammarName == "" {
		grammarName = meta.ID
	}
	if grammarName == "" {
		grammarName = doc.ID
	}

	description := meta.Description
	if description == "" {
		description = strings.TrimSpace(doc.Content)
	}

	data := dto.GrammarMetadata{
		Name:        trimExtension(grammarName),
		Description: description,
		Axiom:       meta.Axiom,
		Rules:       meta.Rules,
		Iterations:  meta.Iterations,
		Turtle:      meta.Turtle,
		Metadata:    meta.Metadata,
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grammar data: %w", err)
	}
	return bytes, nil
}

// ListGrammars returns the normalized name of every document in the repository.
// Two documents resolving to the same name are reported as an error.
func (l *Loader) ListGrammars() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		name := trimExtension(rawID)

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: grammar '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	return names, nil
}

// exists reports whether a listed document resolves to name.
// Loam's lookup errors are not typed, so a failed Get is confirmed against the listing.
func (l *Loader) exists(name string) bool {
	names, err := l.ListGrammars()
	if err != nil {
		return true
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
