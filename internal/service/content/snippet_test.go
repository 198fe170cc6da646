package content

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildSnippet(t *testing.T) {
	t.Run("short body returned cleaned", func(t *testing.T) {
		got := BuildSnippet("# Title\n\nSome **bold**  text", "bold")
		if got != "Title Some bold text" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("match deep in a long body", func(t *testing.T) {
		body := strings.Repeat("a", 300) + " postgres " + strings.Repeat("b", 190)
		got := BuildSnippet(body, "postgres")

		if !strings.Contains(got, "postgres") {
			t.Errorf("snippet %q does not contain the query", got)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("snippet %q does not end with an ellipsis", got)
		}
		if n := utf8.RuneCountInString(got); n > 180 {
			t.Errorf("snippet has %d runes, want at most 180", n)
		}
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		body := strings.Repeat("x ", 150) + "PostgreSQL rocks " + strings.Repeat("y ", 100)
		got := BuildSnippet(body, "postgresql")
		if !strings.Contains(got, "PostgreSQL") {
			t.Errorf("snippet %q misses the match", got)
		}
	})

	t.Run("no match falls back to the head", func(t *testing.T) {
		body := strings.Repeat("z", 500)
		got := BuildSnippet(body, "absent")
		if got != strings.Repeat("z", 200)+"..." {
			t.Errorf("unexpected fallback %q", got)
		}
	})

	t.Run("fallback is trimmed before the ellipsis", func(t *testing.T) {
		body := strings.Repeat("w", 199) + " " + strings.Repeat("v", 100)
		got := BuildSnippet(body, "absent")
		if got != strings.Repeat("w", 199)+"..." {
			t.Errorf("unexpected fallback %q", got)
		}
	})

	t.Run("lengths count runes", func(t *testing.T) {
		body := strings.Repeat("я", 250)
		got := BuildSnippet(body, "nothing")
		if n := utf8.RuneCountInString(got); n != 203 {
			t.Errorf("got %d runes, want 203", n)
		}
		if !utf8.ValidString(got) {
			t.Error("snippet is not valid UTF-8")
		}
	})
}
