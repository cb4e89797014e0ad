package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/medrag/internal/logger"
)

// DefaultSettleDelay is how long a file must stay unchanged before upload.
const DefaultSettleDelay = 2 * time.Second

// minPollInterval bounds how often pending files are checked.
const minPollInterval = 10 * time.Millisecond

var watchSettle time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Upload files as they appear in a directory",
	Long: `Watch a directory and upload supported files when they are created or
modified. A file is uploaded once it has stopped changing for the settle
delay, so large copies are not ingested half-written.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", DefaultSettleDelay, "quiet period before uploading a changed file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	fw := newFolderWatcher(watchSettle, uploadService.Supports, func(ctx context.Context, path string) error {
		return uploadFile(ctx, cmd, path)
	})

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	return fw.run(ctx, watcher.Events, watcher.Errors)
}

// folderWatcher debounces file events and uploads settled files.
type folderWatcher struct {
	settle   time.Duration
	supports func(string) bool
	upload   func(context.Context, string) error
	pending  map[string]time.Time
	now      func() time.Time
}

func newFolderWatcher(
	settle time.Duration, supports func(string) bool, upload func(context.Context, string) error,
) *folderWatcher {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &folderWatcher{
		settle:   settle,
		supports: supports,
		upload:   upload,
		pending:  make(map[string]time.Time),
		now:      time.Now,
	}
}

func (w *folderWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	ticker := time.NewTicker(w.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// pollInterval is a quarter of the settle delay, never below minPollInterval.
func (w *folderWatcher) pollInterval() time.Duration {
	return max(w.settle/4, minPollInterval)
}

// handleEvent records create and write events for supported, visible files.
func (w *folderWatcher) handleEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") || !w.supports(ev.Name) {
		return false
	}
	if info, err := os.Stat(ev.Name); err != nil || info.IsDir() {
		return false
	}
	w.pending[ev.Name] = w.now()
	return true
}

// due removes and returns the paths that have been quiet for the settle delay.
func (w *folderWatcher) due() []string {
	now := w.now()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

func (w *folderWatcher) flush(ctx context.Context) {
	for _, path := range w.due() {
		logger.Debug("uploading %s", path)
		if err := w.upload(ctx, path); err != nil {
			logger.Warn("upload %s: %v", path, err)
		}
	}
}
