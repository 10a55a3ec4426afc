// Package watch reports modifications of files on disk so that their
// conflict index can be rebuilt while live matching is on.
package watch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var ErrClosed = errors.New("watcher closed")

// Event reports that a watched file changed on disk.
type Event struct {
	Path string
	Op   fsnotify.Op
}

type Option func(*Watcher)

// WithDebounce coalesces bursts of events for the same path. Editors usually
// write a file in several steps.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// Watcher watches individual files, or every file of a directory. Files are
// watched through their parent directory so that atomic saves (write to a
// temporary file, then rename) are still seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	events chan Event
	errors chan error

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		events:   make(chan Event, 16),
		errors:   make(chan error, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add starts watching path, a file or a directory.
func (w *Watcher) Add(path string) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.mu.Lock()
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
	}
	w.mu.Unlock()

	w.log.Debug("watching", "path", abs, "dir", info.IsDir())
	return nil
}

func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errors)
	})
	return err
}

func (w *Watcher) interested(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := make(map[string]fsnotify.Op)
	var timer <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.interested(ev) {
				continue
			}
			pending[filepath.Clean(ev.Name)] |= ev.Op
			if timer == nil {
				timer = time.After(w.debounce)
			}

		case <-timer:
			timer = nil
			for path, op := range pending {
				select {
				case w.events <- Event{Path: path, Op: op}:
				case <-w.done:
					return
				}
			}
			pending = make(map[string]fsnotify.Op)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}
