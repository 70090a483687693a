package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gnlog "github.com/msto63/galnotes/foundation/core/log"
)

func TestRunReportsWrites(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(notes, []byte("glob is I\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(Options{Logger: gnlog.Discard(), Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()
	if err := w.Add(notes); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, path string) { changed <- path })
	}()

	if err := os.WriteFile(other, []byte("ignored\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(notes, []byte("glob is I\nprok is V\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		want, _ := filepath.Abs(notes)
		if path != want {
			t.Errorf("changed path = %q, want %q", path, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAddMissingDirectory(t *testing.T) {
	w, err := New(Options{Logger: gnlog.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Add(filepath.Join(t.TempDir(), "missing", "notes.txt")); err == nil {
		t.Error("Add() accepted a file in a missing directory")
	}
	if len(w.Files()) != 0 {
		t.Errorf("Files() = %v, want none", w.Files())
	}
}

func TestFilesSorted(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Options{Logger: gnlog.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	for _, name := range []string{"b.txt", "a.txt"} {
		if err := w.Add(filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
	files := w.Files()
	if len(files) != 2 || filepath.Base(files[0]) != "a.txt" {
		t.Errorf("Files() = %v", files)
	}
}
