package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case evt := <-w.Events():
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func expectNoEvent(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case evt := <-w.Events():
		t.Fatalf("unexpected event %s %s", evt.Kind, evt.Path)
	default:
	}
}

func TestScanReportsModification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, "[log]\nverbose = false\n")

	w := New(Options{})
	defer w.Close()
	w.Watch(path)

	w.Scan()
	expectNoEvent(t, w)

	writeFile(t, path, "[log]\nverbose = true\n")
	w.Scan()
	evt := nextEvent(t, w)
	if evt.Kind != Modified || evt.Path != path {
		t.Fatalf("expected modified %s, got %s %s", path, evt.Kind, evt.Path)
	}

	w.Scan()
	expectNoEvent(t, w)
}

func TestScanIgnoresTouchWithSameContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, "x = 1\n")

	w := New(Options{})
	defer w.Close()
	w.Watch(path)

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	w.Scan()
	expectNoEvent(t, w)
}

func TestScanReportsCreateAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	w := New(Options{})
	defer w.Close()
	w.Watch(path)

	w.Scan()
	expectNoEvent(t, w)

	writeFile(t, path, "log:\n  verbose: true\n")
	w.Scan()
	if evt := nextEvent(t, w); evt.Kind != Created {
		t.Fatalf("expected created, got %s", evt.Kind)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	w.Scan()
	if evt := nextEvent(t, w); evt.Kind != Removed {
		t.Fatalf("expected removed, got %s", evt.Kind)
	}
}

func TestUnwatchStopsReporting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	writeFile(t, path, "{}")

	w := New(Options{})
	defer w.Close()
	w.Watch(path)
	w.Unwatch(path)
	if got := len(w.Paths()); got != 0 {
		t.Fatalf("expected no watched paths, got %d", got)
	}

	writeFile(t, path, `{"log": {}}`)
	w.Scan()
	expectNoEvent(t, w)
}

func TestStartPollsUntilClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, path, "a = 1\n")

	w := New(Options{Interval: 10 * time.Millisecond})
	w.Watch(path)
	w.Start(context.Background())

	writeFile(t, path, "a = 2\n")
	if evt := nextEvent(t, w); evt.Kind != Modified {
		t.Fatalf("expected modified, got %s", evt.Kind)
	}

	w.Close()
	for range w.Events() {
	}
	w.Close()
}
