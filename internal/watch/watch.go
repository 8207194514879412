// Package watch reports changes to a fixed set of source files.
//
// The parent directory of every file is watched rather than the file
// itself, so editors that save by renaming a temporary file over the
// original keep producing events.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes what happened to a file.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	names := []struct {
		op   Op
		name string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpChmod, "chmod"},
	}

	s := ""
	for _, n := range names {
		if op&n.op != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Event is a change to one watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Options configures a Watcher.
type Options struct {
	// Debounce merges events for the same file arriving within this window.
	Debounce time.Duration
}

// DefaultOptions returns the options used by pl0c watch.
func DefaultOptions() Options {
	return Options{Debounce: 100 * time.Millisecond}
}

// Watcher delivers events for its target files on Events.
type Watcher struct {
	w        *fsnotify.Watcher
	targets  map[string]struct{}
	debounce time.Duration

	evC  chan Event
	erC  chan error
	done chan struct{}

	closeOnce sync.Once
}

// New starts watching paths.
func New(paths []string, opts Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	fw := &Watcher{
		w:        w,
		targets:  make(map[string]struct{}, len(paths)),
		debounce: opts.Debounce,
		evC:      make(chan Event, 128),
		erC:      make(chan error, 1),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		fw.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)

	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			path := filepath.Clean(ev.Name)
			if _, ok := fw.targets[path]; !ok {
				continue
			}
			select {
			case fw.evC <- Event{Path: path, Op: convertOp(ev.Op), Time: time.Now()}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func convertOp(in fsnotify.Op) Op {
	var op Op
	if in&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if in&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if in&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if in&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if in&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return op
}

// Targets returns the absolute paths being watched, sorted.
func (fw *Watcher) Targets() []string {
	out := make([]string, 0, len(fw.targets))
	for p := range fw.targets {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (fw *Watcher) Events() <-chan Event { return fw.evC }
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops the watcher and closes Events.
func (fw *Watcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// Run calls handle for every debounced change until ctx is done or the
// watcher fails. Events for the same file inside the debounce window are
// merged into one call. Run closes the watcher before returning.
func (fw *Watcher) Run(ctx context.Context, handle func(Event)) error {
	defer fw.Close()

	pending := make(map[string]Event)
	var fire <-chan time.Time

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			handle(pending[p])
			delete(pending, p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.evC:
			if !ok {
				flush()
				return nil
			}
			if fw.debounce <= 0 {
				handle(ev)
				continue
			}
			if prev, ok := pending[ev.Path]; ok {
				ev.Op |= prev.Op
			}
			pending[ev.Path] = ev
			if fire == nil {
				fire = time.After(fw.debounce)
			}

		case <-fire:
			fire = nil
			flush()

		case err := <-fw.erC:
			return fmt.Errorf("watch: %w", err)
		}
	}
}
