package logger

import (
	"context"
	"testing"
	"time"
)

func TestDetachContextKeepsCorrelation(t *testing.T) {
	parent, cancel := context.WithTimeout(Background(), time.Millisecond)
	parent = WithRID(parent, "rid-77")
	parent = WithHandler(parent, "book")
	parent = WithUpdateMeta(parent, 5, 11, 13)
	cancel()

	out := DetachContext(parent)

	if err := out.Err(); err != nil {
		t.Fatalf("detached context should not inherit cancellation: %v", err)
	}
	if got := RIDFrom(out); got != "rid-77" {
		t.Fatalf("rid = %q, expected rid-77", got)
	}
	if got := HandlerFrom(out); got != "book" {
		t.Fatalf("handler = %q, expected book", got)
	}
	if got := UserIDFrom(out); got != 11 {
		t.Fatalf("user_id = %d, expected 11", got)
	}
	if got := ChatIDFrom(out); got != 13 {
		t.Fatalf("chat_id = %d, expected 13", got)
	}
}

func TestDetachContextNil(t *testing.T) {
	out := DetachContext(nil)
	if out == nil {
		t.Fatal("expected non-nil context")
	}
	if RIDFrom(out) != "" {
		t.Fatal("expected empty rid")
	}
}
