package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/spm"
)

const escapedSpace = "\xE2\x96\x81" // U+2581 LOWER ONE EIGHTH BLOCK, SentencePiece's visible space

// CharsMapOptions mirrors CharsMapNormalization's construction-time
// attributes.
type CharsMapOptions struct {
	AddDummyPrefix         bool
	RemoveExtraWhitespaces bool
	EscapeWhitespaces      bool
}

// CharsMapNormalization applies a SentencePiece-compatible precompiled
// charsmap: at each position, the longest matching prefix rule is
// substituted; positions with no rule fall back to copying one UTF-8
// rune verbatim (or U+FFFD for an invalid one). It takes no named form and
// no case-fold option; only the charsmap in cm is applied. NormalizeUnicode
// accepts the names NFC, NFD, NFKC and NFKD; "identity" and lowercase names
// are rejected there.
func CharsMapNormalization(in ragged.Strings, cm *spm.CharsMap, opts CharsMapOptions) (ragged.Strings, error) {
	var b ragged.Builder
	for j := 0; j < in.Len(); j++ {
		if in.Skip(j) {
			b.Add(in.Get(j), true)
			continue
		}

		out, err := applyCharsMap(string(in.Get(j)), cm, opts)
		if err != nil {
			return ragged.Strings{}, err
		}
		b.Add([]byte(out), false)
	}
	return b.Build(), nil
}

func applyCharsMap(input string, cm *spm.CharsMap, opts CharsMapOptions) (string, error) {
	var sb strings.Builder

	if opts.AddDummyPrefix && input != "" {
		if opts.EscapeWhitespaces {
			sb.WriteString(escapedSpace)
		} else {
			sb.WriteByte(' ')
		}
	}

	var prevWasSpace bool
	for len(input) > 0 {
		replacement, consumed, err := longestMatch(input, cm)
		if err != nil {
			return "", err
		}

		for i := 0; i < len(replacement); i++ {
			c := replacement[i]
			isSpace := c == ' '

			if isSpace && opts.RemoveExtraWhitespaces && prevWasSpace {
				continue
			}

			if isSpace && opts.EscapeWhitespaces {
				sb.WriteString(escapedSpace)
			} else {
				sb.WriteByte(c)
			}
			prevWasSpace = isSpace
		}

		input = input[consumed:]
	}

	return sb.String(), nil
}

// longestMatch consults cm (when supplied) for a registered replacement,
// falling back to copying a single verbatim rune (U+FFFD for invalid
// UTF-8), the same fallback CharsMap-driven normalizers use when no rule
// covers the current position.
func longestMatch(input string, cm *spm.CharsMap) (replacement string, consumed int, err error) {
	if cm != nil {
		replacement, consumed, err = cm.LongestPrefix(input)
		if err != nil {
			return "", 0, err
		}
		if consumed > 0 {
			return replacement, consumed, nil
		}
	}

	r, size := utf8.DecodeRuneInString(input)
	if r == utf8.RuneError && size <= 1 {
		return "�", 1, nil
	}
	return input[:size], size, nil
}
