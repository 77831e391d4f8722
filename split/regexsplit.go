package split

import (
	"strings"

	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/rx"
)

// Behaviour selects how RegexSplit emits matched vs. non-matched spans.
type Behaviour int

const (
	Removed Behaviour = iota
	Isolated
	Contiguous
	MergedWithPrevious
	MergedWithNext
)

// RegexSplitOptions mirrors the operator's construction-time attributes.
type RegexSplitOptions struct {
	Behaviour Behaviour
	Invert    bool
	MaxSplits int // <= 0 means unlimited
}

// CompilePattern applies the contiguous-mode rewrite: if behaviour is
// Contiguous and pattern doesn't already end in '+', it's wrapped as
// (?:<pattern>)+ and treated as Isolated from then on.
func CompilePattern(op, pattern string, behaviour Behaviour) (*rx.Regex, Behaviour) {
	if behaviour == Contiguous && !strings.HasSuffix(pattern, "+") {
		pattern = "(?:" + pattern + ")+"
		behaviour = Isolated
	}
	return rx.Compile(op, pattern), behaviour
}

type piece struct {
	start, end int
	isMatch    bool
}

// RegexSplit segments each non-skipped element of in by pattern according
// to opts.Behaviour, opts.Invert, and opts.MaxSplits. Pre-skipped elements
// pass through unchanged.
func RegexSplit(in ragged.Strings, pattern *rx.Regex, opts RegexSplitOptions) ragged.Strings {
	var out ragged.Builder

	for j := 0; j < in.Len(); j++ {
		value := in.Get(j)
		if in.Skip(j) {
			out.Add(value, true)
			continue
		}

		text := []rune(string(value))
		pieces := splitPieces(text, pattern, opts)
		emitPieces(&out, text, pieces, opts)
	}

	return out.Build()
}

func splitPieces(text []rune, pattern *rx.Regex, opts RegexSplitOptions) []piece {
	var pieces []piece
	it := pattern.Iterate(text)

	var cursor int
	splits := 0
	for {
		if opts.MaxSplits > 0 && splits >= opts.MaxSplits {
			break
		}

		sp, ok := it.Next()
		if !ok {
			break
		}

		if sp.Start > cursor {
			pieces = append(pieces, piece{cursor, sp.Start, false})
		}
		pieces = append(pieces, piece{sp.Start, sp.End, true})
		cursor = sp.End
		splits++
	}

	if cursor < len(text) {
		pieces = append(pieces, piece{cursor, len(text), false})
	}

	if opts.Invert {
		for i := range pieces {
			pieces[i].isMatch = !pieces[i].isMatch
		}
	}

	return pieces
}

func emitPieces(out *ragged.Builder, text []rune, pieces []piece, opts RegexSplitOptions) {
	emit := func(start, end int) {
		if start >= end {
			return
		}
		out.Add([]byte(string(text[start:end])), false)
	}

	switch opts.Behaviour {
	case Removed:
		for _, p := range pieces {
			if !p.isMatch {
				emit(p.start, p.end)
			}
		}

	case Isolated:
		for _, p := range pieces {
			emit(p.start, p.end)
		}

	case MergedWithPrevious:
		// A non-match opens a pending window (deferred, not yet emitted);
		// the next match closes the window by emitting through the
		// match's own end -- i.e. every match attaches to the piece
		// before it. A pending window left open at the end (a trailing
		// non-match with no following match) is flushed alone.
		pending := -1
		for _, p := range pieces {
			if p.isMatch {
				start := p.start
				if pending >= 0 {
					start = pending
				}
				emit(start, p.end)
				pending = -1
				continue
			}
			if pending == -1 {
				pending = p.start
			}
		}
		if pending >= 0 {
			emit(pending, pieces[len(pieces)-1].end)
		}

	case MergedWithNext:
		// A match opens a pending window; the next non-match closes it by
		// emitting from the window's start through its own end -- every
		// match attaches to the piece after it. A pending window left
		// open at the end (a trailing match with no following non-match)
		// is flushed alone.
		pending := -1
		for _, p := range pieces {
			if !p.isMatch {
				start := p.start
				if pending >= 0 {
					start = pending
				}
				emit(start, p.end)
				pending = -1
				continue
			}
			if pending == -1 {
				pending = p.start
			}
		}
		if pending >= 0 {
			emit(pending, pieces[len(pieces)-1].end)
		}

	case Contiguous:
		// CompilePattern always rewrites Contiguous to Isolated before
		// RegexSplit runs; kept as a defensive fallback.
		for _, p := range pieces {
			emit(p.start, p.end)
		}
	}
}
