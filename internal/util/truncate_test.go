package util

import (
	"strings"
	"testing"
)

func TestTailRunes(t *testing.T) {
	input := strings.Repeat("a", 300) + strings.Repeat("z", 245)
	got, truncated := TailRunes(input, 245)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	if got != strings.Repeat("z", 245) {
		t.Fatalf("expected last 245 chars, got %q", got)
	}

	short, truncated := TailRunes("short", 245)
	if truncated || short != "short" {
		t.Fatalf("expected untouched input, got %q", short)
	}

	multi, _ := TailRunes("héllo wörld", 5)
	if multi != "wörld" {
		t.Fatalf("expected rune-aware tail, got %q", multi)
	}
}

func TestTruncateBytesKeepsRunes(t *testing.T) {
	got, truncated := TruncateBytes("aé", 2)
	if !truncated || got != "a" {
		t.Fatalf("expected %q, got %q", "a", got)
	}
}

func TestPreview(t *testing.T) {
	text := "one\ntwo\nthree\nfour"
	if got := Preview(text, 2, 0); got != "one\ntwo" {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := Preview(text, 0, 7); got != "one\ntwo" {
		t.Fatalf("unexpected byte-limited preview %q", got)
	}
}
