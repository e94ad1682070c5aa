package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.cn")
	if err := os.WriteFile(path, []byte("void f() { }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{dir})
	if err != nil {
		t.Fatalf("watcher setup failed: %v", err)
	}
	defer w.Close()

	changed := make(chan string, 1)
	go w.Run(func(p string) {
		select {
		case changed <- p:
		default:
		}
	}, func(err error) {
		t.Errorf("watch error: %v", err)
	})

	// Give the watch loop a moment to start before writing.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("void f() { return; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Fatalf("changed path = %q, want %q", got, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification received")
	}
}

func TestWatcherRejectsMissingPath(t *testing.T) {
	if _, err := New([]string{"/no/such/path/anywhere"}); err == nil {
		t.Fatal("expected an error for a missing watch path")
	}
}
