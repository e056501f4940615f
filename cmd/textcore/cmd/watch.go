package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/engine/change"
	"github.com/dshills/textcore/internal/project/watcher"
	"github.com/dshills/textcore/internal/syntax/lexcache"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-highlight a file whenever it changes on disk",
	Long: `Print a file highlighted, then keep watching it. Each time the file is
saved the new contents are diffed against the previous ones and only the
edit is applied to the lexical cache, which retokenizes from the first
changed line.

Example:
  textcore watch --debounce 200ms config.toml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		cache, err := openCache(path)
		if err != nil {
			return err
		}
		defer cache.Close()

		w, err := watcher.New(watcher.WithDebounceDelay(debounce), watcher.WithLogger(logger))
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Watch(path); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		if err := decorate(out, cache, theme, 1, 0); err != nil {
			return err
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case err, ok := <-w.Errors():
				if !ok {
					return nil
				}
				logger.Warn("watch failed", "error", err)
			case ev, ok := <-w.Events():
				if !ok {
					return nil
				}
				if ev.Op.Has(watcher.OpRemove) || ev.Op.Has(watcher.OpRename) {
					if _, err := os.Stat(path); err != nil {
						logger.Info("file gone, waiting for it to return", "path", path, "op", ev.Op)
						continue
					}
				}
				changed, err := reload(ctx, cache, path)
				if err != nil {
					return err
				}
				if !changed {
					continue
				}
				fmt.Fprintln(out)
				if err := decorate(out, cache, theme, 1, 0); err != nil {
					return err
				}
			}
		}
	},
}

// reload reads path, applies the difference from the cached document to the
// cache and waits for the cache to tokenize the new document. It reports
// false when the contents did not change.
func reload(ctx context.Context, cache lexcache.Any, path string) (bool, error) {
	doc, err := readDoc(path)
	if err != nil {
		return false, err
	}
	old := cache.Doc()
	changes := change.Diff(old, doc)
	if changes.Empty() {
		return false, nil
	}
	if err := cache.Apply(lexcache.Transaction{Doc: doc, Changes: changes}); err != nil {
		return false, err
	}

	start := time.Now()
	req := cache.AdvanceFrontier(doc.Len())
	if err := req.Wait(ctx); err != nil && ctx.Err() == nil {
		return false, err
	}
	from, _ := old.LineAt(changes.MinFrom())
	pos, line := cache.Frontier()
	logger.Info("reloaded",
		"path", path,
		"request", req.ID(),
		"first_changed_line", from.Number,
		"delta", changes.LengthDelta(),
		"frontier", pos,
		"frontier_line", line,
		"elapsed", time.Since(start),
	)
	return true, nil
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "quiet period before a change is processed")
	rootCmd.AddCommand(watchCmd)
}
