package sections

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	text := `Here is the assignment.

<title>
Sum of a Slice
</title>

<background>Slices are everywhere.
Summing them teaches iteration.</background>

<requirements>
1. Do not use external packages.
</requirements>`

	got := Extract(text, []string{"title", "background", "requirements", "hints"})

	if got["title"] != "Sum of a Slice" {
		t.Errorf("title = %q", got["title"])
	}
	if !strings.Contains(got["background"], "Summing them teaches iteration.") {
		t.Errorf("background = %q", got["background"])
	}
	if got["requirements"] != "1. Do not use external packages." {
		t.Errorf("requirements = %q", got["requirements"])
	}
	if got["hints"] != Missing("hints") {
		t.Errorf("missing tag should yield placeholder, got %q", got["hints"])
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	got := Extract("<VERDICT>Yes</VERDICT>", []string{"verdict"})
	if got["verdict"] != "Yes" {
		t.Errorf("verdict = %q", got["verdict"])
	}
}

func TestExtractNonGreedy(t *testing.T) {
	got := Extract("<hints>first</hints> junk <hints>second</hints>", []string{"hints"})
	if got["hints"] != "first" {
		t.Errorf("expected first match, got %q", got["hints"])
	}
}

func TestExtractEmptyInput(t *testing.T) {
	got := Extract("", []string{"title"})
	if len(got) != 0 {
		t.Errorf("empty input should yield empty map, got %v", got)
	}
}

func TestMissingPlaceholder(t *testing.T) {
	want := "<title> section not found or format error."
	if Missing("title") != want {
		t.Errorf("Missing = %q, want %q", Missing("title"), want)
	}
}

func TestFencedBlock(t *testing.T) {
	tests := []struct {
		name string
		text string
		lang string
		want string
	}{
		{
			"python fence",
			"```python\ndef solve(xs):\n    return sum(xs)\n```",
			"python",
			"def solve(xs):\n    return sum(xs)",
		},
		{
			"generic fence",
			"Example:\n```\nInput: [1, 2, 3]\nOutput: 6\n```\nDone.",
			"",
			"Input: [1, 2, 3]\nOutput: 6",
		},
		{
			"no fence falls back to whole text",
			"def solve(xs):\n    return sum(xs)",
			"python",
			"def solve(xs):\n    return sum(xs)",
		},
		{
			"wrong language falls back to whole text",
			"```\nplain fence\n```",
			"python",
			"```\nplain fence\n```",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FencedBlock(tt.text, tt.lang); got != tt.want {
				t.Errorf("FencedBlock = %q, want %q", got, tt.want)
			}
		})
	}
}
