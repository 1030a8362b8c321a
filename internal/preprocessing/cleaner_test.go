package preprocessing

import (
	"strings"
	"testing"
)

func TestCleanStripsMarkup(t *testing.T) {
	input := "<p>The   new   clinic </p> is <b>great</b>"
	got := Clean(input)

	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("HTML tags should be removed, got %q", got)
	}
	if !strings.Contains(got, "clinic") || !strings.Contains(got, "great") {
		t.Errorf("content words should survive cleaning, got %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("whitespace should be collapsed, got %q", got)
	}
}

func TestCleanRemovesURLsAndEmails(t *testing.T) {
	input := "See https://example.com/plan and mail me at someone@example.com please"
	got := Clean(input)

	if strings.Contains(got, "example.com") {
		t.Errorf("URLs and emails should be removed, got %q", got)
	}
	if !strings.Contains(got, "please") {
		t.Errorf("surrounding text should survive, got %q", got)
	}
}

func TestCleanMarkdownLinksKeepText(t *testing.T) {
	input := "Read [the consultation](https://example.org/doc) carefully"
	got := Clean(input)

	if !strings.Contains(got, "the consultation") {
		t.Errorf("link text should be kept, got %q", got)
	}
	if strings.Contains(got, "example.org") {
		t.Errorf("link target should be removed, got %q", got)
	}
}

func TestCleanEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		if got := Clean(input); got != "" {
			t.Errorf("Clean(%q) = %q, want empty", input, got)
		}
	}
}
