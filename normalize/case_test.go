package normalize

import (
	"testing"

	"github.com/ovtok/tokenizers/ragged"
)

func TestCaseFoldASCIIPassesNonASCIIThrough(t *testing.T) {
	var b ragged.Builder
	b.Add([]byte("HELLO Ünïcode"), false)
	in := b.Build()

	out := CaseFold(in, "")
	if string(out.Get(0)) != "hello Ünïcode" {
		t.Fatalf("got %q", out.Get(0))
	}
}

func TestCaseFoldUTF8FoldsUnicode(t *testing.T) {
	var b ragged.Builder
	b.Add([]byte("HELLO"), false)
	in := b.Build()

	out := CaseFold(in, "utf-8")
	if string(out.Get(0)) != "hello" {
		t.Fatalf("got %q", out.Get(0))
	}
}

func TestCaseFoldSkipsMarkedElements(t *testing.T) {
	var b ragged.Builder
	b.Add([]byte("KEEP"), true)
	in := b.Build()

	out := CaseFold(in, "")
	if string(out.Get(0)) != "KEEP" {
		t.Fatalf("skipped element should be untouched, got %q", out.Get(0))
	}
}
