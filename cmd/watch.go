package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/corpeningc/cmt/internal/conflict"
	"github.com/corpeningc/cmt/internal/document"
	"github.com/corpeningc/cmt/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch PATH...",
	Short: "Report conflict counts whenever watched files change",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w, err := watch.New(watch.WithLogger(logger))
		if err != nil {
			return err
		}
		defer w.Close()

		for _, path := range args {
			if err := w.Add(path); err != nil {
				return err
			}
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				reportCount(os.Stdout, path)
			}
		}
		fmt.Fprintln(os.Stderr, dimColor.Sprint("Watching for changes, press Ctrl+C to stop"))
		return watchLoop(ctx, w, os.Stdout)
	},
}

// watchLoop prints a conflict count for every changed file until ctx is done
// or the watcher closes.
func watchLoop(ctx context.Context, w *watch.Watcher, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			reportCount(out, ev.Path)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

func reportCount(out io.Writer, path string) {
	doc, err := document.Load(path)
	if err != nil {
		logger.Debug("skipping unreadable file", "path", path, "error", err)
		return
	}
	n := len(conflict.Parse(doc))
	logger.Info("rebuilt conflict index", "path", path, "conflicts", n)

	count := currentColor.Sprintf("%d conflict(s)", n)
	if n > 0 {
		count = errorColor.Sprintf("%d conflict(s)", n)
	}
	fmt.Fprintf(out, "%s: %s\n", fileColor.Sprint(path), count)
}
