package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"retentions/internal/config"
	"retentions/internal/logging"
)

func writeAged(t *testing.T, dir, name string, age time.Time) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(p, age, age); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun_MaxFilesExample(t *testing.T) {
	// spec.md §8 scenario 6: --max-files 2 with 5 retained files of
	// distinct days; the two newest survive.
	dir := t.TempDir()
	now := time.Now()
	for i := 0; i < 5; i++ {
		writeAged(t, dir, "f"+string(rune('0'+i))+".log", now.AddDate(0, 0, -i))
	}

	cfg, err := config.Validate(config.Raw{BasePath: dir, Pattern: "*.log", Days: 5, MaxFiles: 2, NoLockFile: true})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	log := logging.New(io.Discard, config.VerboseError)
	res, err := Run(cfg, log, now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(res.Retained) != 2 {
		t.Fatalf("expected 2 retained, got %d", len(res.Retained))
	}
	if len(res.Pruned) != 3 {
		t.Fatalf("expected 3 pruned, got %d", len(res.Pruned))
	}
}

func TestRun_ProtectPattern(t *testing.T) {
	// spec.md §8 scenario 5: *.keep is always Protected.
	dir := t.TempDir()
	now := time.Now()
	writeAged(t, dir, "x.keep", now.AddDate(0, 0, -100))
	writeAged(t, dir, "y.log", now)

	cfg, err := config.Validate(config.Raw{BasePath: dir, Pattern: "*", Days: 1, Protect: "*.keep", NoLockFile: true})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	log := logging.New(io.Discard, config.VerboseError)
	res, err := Run(cfg, log, now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, e := range append(res.Retained, res.Pruned...) {
		if e.Name == "x.keep" {
			t.Fatalf("x.keep must never appear in retained/pruned sets")
		}
	}
}

func TestRun_LockAlreadyHeld(t *testing.T) {
	// spec.md §8 scenario 4: lock file already present -> concurrency error,
	// no entries touched.
	dir := t.TempDir()
	now := time.Now()
	p := writeAged(t, dir, "a.log", now)

	if err := os.WriteFile(filepath.Join(dir, ".retentions.lock"), []byte("12345 2026-01-01T00:00:00Z\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Validate(config.Raw{BasePath: dir, Pattern: "*.log", Days: 1})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	log := logging.New(io.Discard, config.VerboseError)
	_, err = Run(cfg, log, now)
	if err == nil {
		t.Fatal("expected concurrency error")
	}
	if _, statErr := os.Stat(p); statErr != nil {
		t.Fatalf("entry must not be touched when lock is held: %v", statErr)
	}
}
