package normalize

import (
	"golang.org/x/text/cases"

	"github.com/ovtok/tokenizers/ragged"
)

// CaseFold implements the CaseFold operator. encoding == "" selects the
// ASCII-only fast path (bytes A-Z lowered, everything else including
// non-ASCII bytes passed through unchanged); encoding == "utf-8" selects a
// full Unicode case fold via golang.org/x/text/cases, standing in for the
// charsmap normalizer's baked-in Unicode case-fold table.
func CaseFold(in ragged.Strings, encoding string) ragged.Strings {
	var b ragged.Builder
	for j := 0; j < in.Len(); j++ {
		if in.Skip(j) {
			b.Add(in.Get(j), true)
			continue
		}

		if encoding == "utf-8" {
			b.Add([]byte(caseFolder.String(string(in.Get(j)))), false)
			continue
		}

		b.Add(foldASCII(in.Get(j)), false)
	}
	return b.Build()
}

var caseFolder = cases.Fold(cases.HandleFinalSigma(false))

func foldASCII(data []byte) []byte {
	out := make([]byte, len(data))
	for i, c := range data {
		if c >= 'A' && c <= 'Z' {
			c += 0x20
		}
		out[i] = c
	}
	return out
}
