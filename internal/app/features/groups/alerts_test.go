package groups

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAlertMessage_TruncatesOnRuneBoundary(t *testing.T) {
	// 600 Arabic letters, each two bytes in UTF-8; a byte-indexed cut
	// would land mid-rune.
	long := strings.Repeat("م", 600)

	got := alertMessage(long)
	if !utf8.ValidString(got) {
		t.Fatal("truncated message is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != maxAlertRunes {
		t.Errorf("rune count: got %d, want %d", n, maxAlertRunes)
	}
}

func TestAlertMessage_ShortMessageUntouched(t *testing.T) {
	if got := alertMessage("  تجمعوا عند الباب  "); got != "تجمعوا عند الباب" {
		t.Errorf("got %q, want the trimmed original", got)
	}
}

func TestAlertMessage_MarkupOnlyBecomesEmpty(t *testing.T) {
	if got := alertMessage("<script>alert(1)</script>"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
