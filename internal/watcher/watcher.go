// Package watcher polls a small set of files (the settings file in practice)
// and reports content changes.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type Kind int

const (
	Created Kind = iota
	Modified
	Removed
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

type Event struct {
	Path string
	Kind Kind
}

type Options struct {
	Interval time.Duration
	Buffer   int
}

// state is what the last scan saw. present=false means the file did not exist.
type state struct {
	present bool
	mod     time.Time
	size    int64
	digest  string
}

type Watcher struct {
	mu       sync.Mutex
	files    map[string]state
	events   chan Event
	interval time.Duration
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
}

const (
	defaultInterval = time.Second
	defaultBuffer   = 8
)

func New(opts Options) *Watcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Watcher{
		files:    make(map[string]state),
		events:   make(chan Event, buffer),
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Events is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Watch records the current state of path. A file that does not exist yet is
// tracked too and reported as Created once it appears.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	clean := filepath.Clean(path)
	st := observe(clean)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.files[clean] = st
}

func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, filepath.Clean(path))
}

func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Scan checks every watched file once and queues an event per change. Events
// are dropped when the buffer is full; the next change is still reported.
func (w *Watcher) Scan() {
	for _, path := range w.Paths() {
		w.mu.Lock()
		prev, ok := w.files[path]
		w.mu.Unlock()
		if !ok {
			continue
		}

		next := prev
		if !prev.present || !statUnchanged(path, prev) {
			next = observe(path)
		}
		kind, changed := diff(prev, next)

		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		if _, still := w.files[path]; still {
			w.files[path] = next
		}
		if changed {
			select {
			case w.events <- Event{Path: path, Kind: kind}:
			default:
			}
		}
		w.mu.Unlock()
	}
}

// Start scans every interval until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case <-ticker.C:
				w.Scan()
			}
		}
	}()
}

func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
}

func diff(prev, next state) (Kind, bool) {
	switch {
	case !prev.present && next.present:
		return Created, true
	case prev.present && !next.present:
		return Removed, true
	case prev.present && next.digest != prev.digest:
		return Modified, true
	default:
		return 0, false
	}
}

// statUnchanged skips hashing when size and modtime match the last scan.
func statUnchanged(path string, prev state) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() == prev.size && info.ModTime().Equal(prev.mod)
}

func observe(path string) state {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return state{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return state{}
	}
	sum := sha256.Sum256(data)
	return state{
		present: true,
		mod:     info.ModTime(),
		size:    info.Size(),
		digest:  hex.EncodeToString(sum[:]),
	}
}
