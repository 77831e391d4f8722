// Package split implements the two pre-tokenization splitters that run
// ahead of normalization and the tokenizer models proper:
// SpecialTokensSplit isolates registered special tokens so downstream
// normalization never touches them, and RegexSplit performs the
// pattern-driven word segmentation the tokenizer models consume.
package split

import (
	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/rx"
)

// SpecialTokensSplit isolates every match of pattern (an alternation of
// registered special tokens, one capture group per token) as its own
// skip=true element; everything else passes through unmarked.
// Elements already marked skip in in are passed through untouched.
func SpecialTokensSplit(in ragged.Strings, pattern *rx.Regex) ragged.Strings {
	var out ragged.Builder

	for j := 0; j < in.Len(); j++ {
		value := in.Get(j)
		if in.Skip(j) {
			out.Add(value, true)
			continue
		}

		text := []rune(string(value))
		it := pattern.Iterate(text)

		var cursor int
		for {
			full, group, ok := it.NextWithGroup()
			if !ok {
				break
			}

			if full.Start > cursor {
				out.Add([]byte(string(text[cursor:full.Start])), false)
			}
			out.Add([]byte(string(text[group.Start:group.End])), true)
			cursor = full.End
		}

		if cursor < len(text) {
			out.Add([]byte(string(text[cursor:])), false)
		} else if cursor == 0 {
			// no match at all and an empty element: still emit it so row
			// structure is preserved.
			out.Add(value, false)
		}
	}

	return out.Build()
}
