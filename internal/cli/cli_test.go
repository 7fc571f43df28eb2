package cli

import (
	"testing"

	"retentions/internal/config"
)

func TestBuild_PopulatesPositionalArgs(t *testing.T) {
	var got config.Raw
	root := Build(func(raw config.Raw) error {
		got = raw
		return nil
	})
	root.SetArgs([]string{"/tmp/base", "*.log", "--days", "3"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BasePath != "/tmp/base" || got.Pattern != "*.log" {
		t.Fatalf("unexpected raw: %+v", got)
	}
	if got.Days != 3 {
		t.Fatalf("expected --days 3, got %d", got.Days)
	}
}

func TestBuild_UnknownFlagSuggestsClosest(t *testing.T) {
	root := Build(func(raw config.Raw) error { return nil })
	root.SetArgs([]string{"/tmp/base", "*.log", "--dry-ru"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if want := "did you mean --dry-run"; !contains(err.Error(), want) {
		t.Fatalf("error %q does not suggest %q", err.Error(), want)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestBuild_ListOnlyDefaultsSeparator(t *testing.T) {
	var got config.Raw
	root := Build(func(raw config.Raw) error {
		got = raw
		return nil
	})
	root.SetArgs([]string{"/tmp/base", "*.log", "--days", "1", "--list-only"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.ListOnly {
		t.Fatal("expected ListOnly to be true")
	}
	if got.ListSep != "\n" {
		t.Fatalf("expected default separator newline, got %q", got.ListSep)
	}
}
