package normalize

import (
	"strings"

	"github.com/ovtok/tokenizers/ragged"
)

// ByteToRune implements the GPT-2 byte-level reversible encoding: every
// byte maps to a distinct visible rune so that byte-level BPE can treat
// arbitrary binary input as printable text. The three cases below are the
// closed-form equivalent of the 256-entry lookup table GPT-2's reference
// implementation builds by walking bytes not already in the printable
// ASCII/Latin-1 ranges and assigning them codepoints starting at U+0100.
func ByteToRune(b byte) rune {
	r := rune(b)
	switch {
	case r == 0x00ad:
		r = 0x0143
	case r <= 0x0020:
		r += 0x0100
	case r >= 0x007f && r <= 0x00a0:
		r += 0x00a2
	}
	return r
}

// RuneToByte inverts ByteToRune.
func RuneToByte(r rune) (b byte, ok bool) {
	switch {
	case r == 0x0100:
		return 0, true
	case r == 0x0143:
		return 0x00ad, true
	case r > 0x0100 && r <= 0x0120:
		return byte(r - 0x0100), true
	case r > 0x0120 && r <= 0x0142:
		return byte(r - 0x00a2), true
	default:
		return byte(r), true
	}
}

// BytesToChars applies the GPT-2 byte-level remap to every element of in,
// concatenating the per-byte expansions. Elements with skip[j] set are
// copied through unchanged.
func BytesToChars(in ragged.Strings) ragged.Strings {
	var b ragged.Builder
	for j := 0; j < in.Len(); j++ {
		if in.Skip(j) {
			b.Add(in.Get(j), true)
			continue
		}

		var sb strings.Builder
		for _, raw := range in.Get(j) {
			sb.WriteRune(ByteToRune(raw))
		}
		b.Add([]byte(sb.String()), false)
	}
	return b.Build()
}

// CharsToBytes inverts BytesToChars.
func CharsToBytes(in ragged.Strings) ragged.Strings {
	var b ragged.Builder
	for j := 0; j < in.Len(); j++ {
		if in.Skip(j) {
			b.Add(in.Get(j), true)
			continue
		}

		var out []byte
		for _, r := range string(in.Get(j)) {
			if by, ok := RuneToByte(r); ok {
				out = append(out, by)
			}
		}
		b.Add(out, false)
	}
	return b.Build()
}
