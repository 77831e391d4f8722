package normalize

import (
	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/rx"
)

// ByteFallback replaces any element matching the literal SentencePiece
// byte-token format <0xHH> with the single raw byte; other elements pass
// through unchanged.
func ByteFallback(in ragged.Strings) ragged.Strings {
	var b ragged.Builder
	for j := 0; j < in.Len(); j++ {
		value := in.Get(j)
		if by, ok := rx.MustParseByteToken(string(value)); ok {
			b.Add([]byte{by}, in.Skip(j))
			continue
		}
		b.Add(value, in.Skip(j))
	}
	return b.Build()
}
