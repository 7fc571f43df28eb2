package exitcode

import "testing"

func TestString_KnownCodes(t *testing.T) {
	cases := map[int]string{
		Success:     "success",
		IOError:     "I/O or filesystem error",
		ConfigError: "invalid or conflicting arguments",
		Concurrency: "concurrent run detected (lock present)",
		Integrity:   "integrity violation",
		Unexpected:  "unexpected internal error",
	}
	for code, want := range cases {
		if got := String(code); got != want {
			t.Errorf("String(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestString_UnknownCode(t *testing.T) {
	if got := String(42); got != "unknown exit code" {
		t.Errorf("got %q, want %q", got, "unknown exit code")
	}
}
