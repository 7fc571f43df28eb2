package lock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("unexpected error releasing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Fatalf("expected lock file to be gone after release")
	}
}

func TestAcquire_AlreadyHeld(t *testing.T) {
	dir := t.TempDir()

	l1, err := Acquire(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer l1.Release()

	_, err = Acquire(dir)
	if err != ErrHeld {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}

func TestRelease_IdempotentAndToleratesMissingFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Remove(l.Path()); err != nil {
		t.Fatal(err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("release should tolerate a missing lock file: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("release should be idempotent: %v", err)
	}
}
