// Package rx wraps github.com/dlclark/regexp2 as this module's stand-in for
// the PCRE2 regex engine spec.md's operators are written against:
// regexp2 supports the lookaround and inline-flag syntax (\p{L}, (?!\S),
// (?i:...), \1..\9 backreferences) that Go's stdlib RE2 engine cannot
// express, which is exactly the feature set HuggingFace-style pretokenizer
// and split patterns rely on.
package rx

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/ovtok/tokenizers/envconfig"
	"github.com/ovtok/tokenizers/tokenerr"
)

// legacyRewrites maps a handful of historical search patterns emitted by
// older serialized tokenizers to equivalent modern forms, preserved for
// backward compatibility the same way the historical RE2-to-PCRE2
// migration required.
var legacyRewrites = map[string]string{
	`'s|'t|'re|'ve|'m|'ll|'d`: `(?:'s|'t|'re|'ve|'m|'ll|'d)`,
}

var backref = regexp.MustCompile(`\\([1-9])`)

// rewriteBackreferences converts legacy `\1`..`\9` replacement syntax to
// regexp2's `$1`..`$9` form.
func rewriteBackreferences(replacement string) string {
	return backref.ReplaceAllString(replacement, "$$$1")
}

// Regex is a compile-once, thread-safe wrapper over a single pattern. The
// zero value is not usable; construct with Compile.
type Regex struct {
	pattern string
	re      *regexp2.Regexp // nil if the pattern is empty or failed to compile
	err     error
}

// Compile compiles pattern once. An empty pattern, or one that fails to
// compile, produces a Regex that behaves as a no-op: its iterators report
// no match and Substitute returns its input unchanged. The caller-supplied op
// name is used only for diagnostics.
func Compile(op, pattern string) *Regex {
	if rewritten, ok := legacyRewrites[pattern]; ok {
		pattern = rewritten
	}

	r := &Regex{pattern: pattern}
	if pattern == "" {
		return r
	}

	re, err := regexp2.Compile(pattern, regexp2.RE2)
	if err != nil {
		r.err = &tokenerr.PatternError{Op: op, Pattern: pattern, Cause: err}
		if envconfig.PrintDebugInfo() {
			slog.Warn("rx: pattern compile failed, degrading to no-op", "op", op, "pattern", pattern, "error", err)
		}
		return r
	}

	re.MatchTimeout = 0
	r.re = re
	return r
}

// Err returns the PatternError recorded at Compile time, or nil.
func (r *Regex) Err() error {
	return r.err
}

// Span is a half-open [Start, End) index pair into the rune slice the
// match was found in.
type Span struct {
	Start, End int
}

func (s Span) Empty() bool { return s.Start == s.End }

// Iter walks successive leftmost matches of a Regex over one rune slice,
// mirroring the teacher's own FindRunesMatch/FindNextMatch loop. An empty
// match ends the iteration so callers never spin without making progress.
type Iter struct {
	re   *regexp2.Regexp
	text []rune
	m    *regexp2.Match
	done bool
}

// Iterate returns a fresh cursor over text. Next and NextWithGroup
// consume it sequentially; there is no random-access "start at" query
// because every caller in this module (RegexSplit, SpecialTokensSplit)
// only ever walks a string left to right.
func (r *Regex) Iterate(text []rune) *Iter {
	return &Iter{re: r.re, text: text}
}

func (it *Iter) advance() bool {
	if it.re == nil || it.done {
		return false
	}

	var m *regexp2.Match
	var err error
	if it.m == nil {
		m, err = it.re.FindRunesMatch(it.text)
	} else {
		m, err = it.re.FindNextMatch(it.m)
	}

	if err != nil || m == nil {
		it.done = true
		return false
	}
	it.m = m

	if m.Length == 0 {
		// Empty matches would never let the caller make progress;
		// treat the rest of the input as exhausted rather than loop.
		it.done = true
		return false
	}

	return true
}

// Next returns the span of the next match, or ok=false when exhausted.
func (it *Iter) Next() (Span, bool) {
	if !it.advance() {
		return Span{}, false
	}
	return Span{Start: it.m.Index, End: it.m.Index + it.m.Length}, true
}

// NextWithGroup returns the next match's full span plus the span of the
// single capturing group nested in it (SpecialTokensSplit's contract:
// the tokenizer's alternation compiles one capture group per special
// token, so exactly one group has a non-empty capture per match).
func (it *Iter) NextWithGroup() (full, group Span, ok bool) {
	if !it.advance() {
		return Span{}, Span{}, false
	}

	full = Span{Start: it.m.Index, End: it.m.Index + it.m.Length}
	group = full
	for _, g := range it.m.Groups() {
		if g.Name == "0" || len(g.Captures) == 0 {
			continue
		}
		c := g.Captures[0]
		if c.Length > 0 {
			group = Span{Start: c.Index, End: c.Index + c.Length}
			break
		}
	}

	return full, group, true
}

// Substitute replaces the first (global=false) or all (global=true)
// matches in text with replacement, which uses regexp2's `$1`..`$9`
// back-reference syntax; legacy `\1`..`\9` inputs are rewritten first.
func (r *Regex) Substitute(text, replacement string, global bool) string {
	if r.re == nil {
		return text
	}

	replacement = rewriteBackreferences(replacement)

	count := 1
	if global {
		count = -1
	}

	out, err := r.re.Replace(text, replacement, -1, count)
	if err != nil {
		return text
	}
	return out
}

// MustParseByteToken parses the SentencePiece byte-token literal <0xHH>
// used by ByteFallback, BPE seeding and detokenization; ok is false unless
// s has exactly the 6-byte "<0xHH>" shape.
func MustParseByteToken(s string) (b byte, ok bool) {
	if len(s) != 6 || s[0] != '<' || s[5] != '>' || !strings.HasPrefix(s[1:], "0x") {
		return 0, false
	}
	v, err := strconv.ParseUint(s[3:5], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}
