package normalize

import (
	"testing"

	"github.com/ovtok/tokenizers/ragged"
)

func TestByteToRuneRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		r := ByteToRune(byte(b))
		got, ok := RuneToByte(r)
		if !ok || got != byte(b) {
			t.Fatalf("byte %d: got %d ok=%v", b, got, ok)
		}
	}
}

func TestBytesToCharsSkipsMarkedElements(t *testing.T) {
	var b ragged.Builder
	b.Add([]byte{0x00, 0x41}, false)
	b.Add([]byte("[CLS]"), true)
	in := b.Build()

	out := BytesToChars(in)
	if !out.Skip(1) {
		t.Fatalf("element 1 should remain skipped")
	}
	if string(out.Get(1)) != "[CLS]" {
		t.Fatalf("skipped element altered: got %q", out.Get(1))
	}
}

func TestCharsToBytesInvertsBytesToChars(t *testing.T) {
	var b ragged.Builder
	b.Add([]byte{0x00, 0x20, 0x41, 0x7f, 0xad}, false)
	in := b.Build()

	chars := BytesToChars(in)
	back := CharsToBytes(chars)

	if string(back.Get(0)) != string([]byte{0x00, 0x20, 0x41, 0x7f, 0xad}) {
		t.Fatalf("got %v, want original bytes", back.Get(0))
	}
}
