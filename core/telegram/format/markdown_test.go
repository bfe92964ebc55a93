package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("a_b*c`d[e", MarkdownV1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `a\_b\*c\` + "`" + `d\[e`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV1LeavesPlainText(t *testing.T) {
	got, err := EscapeMarkdown("Jane Doe, +1 555-123", MarkdownV1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Jane Doe, +1 555-123" {
		t.Fatalf("plain text changed: %q", got)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("a.b!c-d", MarkdownV2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `a\.b\!c\-d`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	// Digits and letters are not special and must pass through untouched.
	got, err = EscapeMarkdown("abc 123,", MarkdownV2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abc 123," {
		t.Fatalf("non-special text changed: %q", got)
	}
}

func TestEscapeMarkdownV2Code(t *testing.T) {
	got, err := EscapeMarkdown("x`y\\z.", MarkdownV2, "code")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "x\\`y\\\\z."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownUnknownVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
