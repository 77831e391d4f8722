package normalize

import (
	"testing"

	"github.com/ovtok/tokenizers/ragged"
)

func TestByteFallbackConvertsByteTokens(t *testing.T) {
	var b ragged.Builder
	b.Add([]byte("<0xEA>"), false)
	b.Add([]byte("plain"), false)
	in := b.Build()

	out := ByteFallback(in)
	if len(out.Get(0)) != 1 || out.Get(0)[0] != 0xEA {
		t.Fatalf("got %v, want single byte 0xEA", out.Get(0))
	}
	if string(out.Get(1)) != "plain" {
		t.Fatalf("got %q, want unchanged", out.Get(1))
	}
}
