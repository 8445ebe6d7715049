package cli

import (
	"context"
	"fmt"

	"github.com/philipparndt/printbase/pkg/watcher"
	"github.com/rs/zerolog"
)

// watchInput re-runs run after every debounced change to input until ctx ends
func watchInput(ctx context.Context, e *env, input string, run func() error) error {
	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce, e.log)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Watch(input); err != nil {
		return err
	}
	fw.Start()

	fmt.Fprintf(e.out, "Watching %s for changes (Ctrl+C to stop)...\n", input)
	watchLoop(ctx, fw.Changes(), run, e.log)
	return nil
}

// watchLoop runs one pipeline at a time; changes arriving during a run are
// picked up after it.
func watchLoop(ctx context.Context, changes <-chan string, run func() error, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-changes:
			log.Info().Str("file", path).Msg("change detected, re-running pipeline")
			if err := run(); err != nil {
				log.Error().Err(err).Msg("pipeline run failed")
			}
		}
	}
}
