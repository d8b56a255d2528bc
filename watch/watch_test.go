package watch

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case name := <-w.Events:
		return name
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ""
}

func TestWatcherReportsLevelFileChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "level1.json")
	if err := os.WriteFile(path, []byte(`{"width":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := waitEvent(t, w); got != path {
		t.Fatalf("event = %q, want %q", got, path)
	}
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case name := <-w.Events:
		t.Fatalf("unexpected event for %q", name)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherReportsScriptChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "hooks.tengo")
	if err := os.WriteFile(path, []byte(`hooks := {}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := waitEvent(t, w); got != path {
		t.Fatalf("event = %q, want %q", got, path)
	}
}

func TestWatcherCloseWithUndrainedEvents(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	// More changes than the event buffer holds, none of them consumed.
	for i := 0; i < 32; i++ {
		name := filepath.Join(dir, "level"+strconv.Itoa(i)+".json")
		if err := os.WriteFile(name, []byte(`{"width":1}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(200 * time.Millisecond)

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for range w.Events {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events channel never closed after Close")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
