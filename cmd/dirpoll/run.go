package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/dirpoll/internal/config"
	"github.com/joe/dirpoll/internal/console"
	"github.com/joe/dirpoll/internal/tui"
	"github.com/joe/dirpoll/internal/tui/shared"
	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/filesystem"
)

// shutdownTimeout bounds how long a cycle in progress may delay exit.
const shutdownTimeout = 10 * time.Second

// run watches cfg.Roots until ctx is cancelled, the user quits the live view,
// or, with --once, after a single scan.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	fsys, paths, closeFS, err := filesystem.Open(ctx, cfg.Roots, cfg.ConnectOptions())
	if err != nil {
		return err
	}
	defer closeFS()

	useTUI := cfg.TUI && isTerminal(stdout)
	if cfg.TUI && !useTUI {
		log.Warn("stdout is not a terminal, printing changes instead of the live view")
	}

	opts := watcher.Options{
		Interval:                cfg.Interval,
		InitialScanNotification: cfg.InitialNotify || cfg.Once,
		FileSystem:              fsys,
		Logger:                  log,
		Ignore:                  cfg.Ignore,
	}

	var (
		sink   watcher.Sink = console.NewPrinter(stdout, console.WithHidden(!cfg.HideHidden))
		bridge *shared.EventBridge
	)

	if useTUI {
		bridge = shared.NewEventBridge()
		sink = bridge
		opts.Emitter = bridge
	}

	w, err := watcher.New(opts)
	if err != nil {
		return err
	}

	paths, nested, err := foldNested(fsys, paths)
	if err != nil {
		return err
	}

	for _, n := range nested {
		log.WithFields(logrus.Fields{"root": n.Path, "under": n.Under}).Warn("root is inside another root, watching it once")
	}

	for _, path := range paths {
		if _, err := w.RegisterListener(sink, path); err != nil {
			return errors.Wrapf(err, "cannot watch %s", path)
		}

		log.WithField("root", path).Info("watching")
	}

	if cfg.Once {
		return w.Poll()
	}

	if _, err := w.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	if useTUI {
		group.Go(func() error {
			defer cancel()
			return tui.Run(groupCtx, tui.NewModel(w, bridge), tea.WithAltScreen())
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()

		stats := w.Stats()
		log.WithFields(logrus.Fields{
			"cycles":  stats.Cycles,
			"creates": stats.Creates,
			"deletes": stats.Deletes,
			"skipped": stats.Skipped,
		}).Info("shutting down")

		return errors.Wrap(w.Shutdown(shutdownCtx), "shutdown")
	})

	return group.Wait()
}

// newLogger builds the process logger. With a log file it writes a start
// banner and returns a closer that writes the end banner.
func newLogger(cfg *config.Config) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetLevel(logrus.Level(cfg.LogLevel))
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	if cfg.LogFile == "" {
		return log, func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:mnd // log file mode
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create log file")
	}

	fmt.Fprintf(f, "=== dirpoll started: %s ===\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(f, "Roots: %s\n", strings.Join(cfg.Roots, ", "))
	fmt.Fprintf(f, "Interval: %s, Ignore: %v\n\n", cfg.Interval, cfg.Ignore)

	log.SetOutput(f)

	closer := func() {
		fmt.Fprintf(f, "=== dirpoll stopped: %s ===\n", time.Now().Format(time.RFC3339))
		_ = f.Close()
	}

	return log, closer, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// nestedRoot is a root argument already covered by another one.
type nestedRoot struct {
	Path  string
	Under string
}

// foldNested resolves paths and drops those at or beneath another path in
// the list, so one sink never sees a change twice. Order is kept.
func foldNested(fsys filesystem.FileSystem, paths []string) ([]string, []nestedRoot, error) {
	abs := make([]string, len(paths))

	for i, path := range paths {
		resolved, err := fsys.Abs(path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot watch %s", path)
		}

		abs[i] = resolved
	}

	kept := make([]string, 0, len(abs))

	var nested []nestedRoot

	for i, path := range abs {
		if outer, ok := coveringRoot(abs, i); ok {
			nested = append(nested, nestedRoot{Path: path, Under: outer})
			continue
		}

		kept = append(kept, path)
	}

	return kept, nested, nil
}

// coveringRoot returns a strict ancestor of roots[i] from roots, or an
// earlier duplicate of it.
func coveringRoot(roots []string, i int) (string, bool) {
	for j, other := range roots {
		switch {
		case j == i:
		case other == roots[i]:
			if j < i {
				return other, true
			}
		case strings.HasPrefix(roots[i], strings.TrimSuffix(other, "/")+"/"):
			return other, true
		}
	}

	return "", false
}
