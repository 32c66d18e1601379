package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/ports"
)

// debounce lets editors finish writing before a library is re-validated.
const debounce = 100 * time.Millisecond

// ValidateOptions configures RunValidate.
type ValidateOptions struct {
	Options
	Watch bool
}

// ErrWatchUnsupported is returned when --watch is used on a library that cannot be watched.
var ErrWatchUnsupported = errors.New("grammar library does not support watching")

// RunValidate checks every grammar of the library.
// With Watch it keeps re-validating on every change until interrupted.
func RunValidate(ctx context.Context, opts ValidateOptions) error {
	engine, closeEngine, err := NewEngine(opts.Options)
	if err != nil {
		return err
	}
	defer closeEngine()

	w := opts.out()
	parser := compiler.NewParser()
	err = validateOnce(w, engine, parser)
	if !opts.Watch {
		return err
	}

	watchable, ok := engine.Loader().(ports.Watchable)
	if !ok {
		return ErrWatchUnsupported
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	events, err := watchable.Watch(sigCtx)
	if err != nil {
		return fmt.Errorf("failed to watch library: %w", err)
	}
	engine.Logger().Info("starting watcher", "library", engine.Name)
	printSystemMessage(w, "Watching '%s' for changes...", engine.Name)

	for {
		select {
		case <-sigCtx.Done():
			printSystemMessage(w, "Watcher stopped.")
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			drain(sigCtx, events)
			printSystemMessage(w, "Change detected in '%s'.", event)
			// Failures are already printed; keep watching for the fix.
			_ = validateOnce(w, engine, parser)
		}
	}
}

// drain swallows the burst of events a single save usually produces.
func drain(ctx context.Context, events <-chan string) {
	timer := time.NewTimer(debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case _, ok := <-events:
			if !ok {
				return
			}
		}
	}
}

func validateOnce(w io.Writer, engine *arbor.Engine, parser *compiler.Parser) error {
	reports, err := validator.ValidateLibrary(engine.Loader(), parser)
	for _, r := range reports {
		mark := "✓"
		if len(r.Issues) > 0 {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s\n", mark, r.Grammar)
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "    warning: %s\n", warning)
		}
	}
	if err != nil {
		fmt.Fprintf(w, "Validation failed: %v\n", err)
		return err
	}
	fmt.Fprintf(w, "%d grammars are valid! ✅\n", len(reports))
	return nil
}
