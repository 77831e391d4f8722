// Package spm additionally provides the thin encode/decode adapters
// SentencepieceTokenizer wraps: a shared model.TextProcessor plus the
// per-call bos/eos/reverse options and the special-tokens pre-split path.
package spm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ovtok/tokenizers/model"
	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/rx"
	"github.com/ovtok/tokenizers/split"
)

const escapedSpace = "\xE2\x96\x81"

// EncodeOptions are the operator's per-call encode-extra-options.
type EncodeOptions struct {
	AddBOS  bool
	AddEOS  bool
	Reverse bool
}

// Tokenizer adapts a model.TextProcessor (Unigram, BPE, or the legacy
// score-ranked SentencePiece merge model) with the bos/eos/reverse
// options and an optional special-tokens isolation pass.
type Tokenizer struct {
	proc    model.TextProcessor
	special *rx.Regex // nil if no special-tokens table was supplied
}

// NewTokenizer wraps proc. special, if non-nil, is a compiled alternation
// of registered special tokens (one capture group per token); it forces
// per-segment encoding so specials are never merged into a neighboring
// piece.
func NewTokenizer(proc model.TextProcessor, special *rx.Regex) *Tokenizer {
	return &Tokenizer{proc: proc, special: special}
}

func oneRow(s string) ragged.Strings {
	var b ragged.Builder
	b.Add([]byte(s), false)
	return b.Build()
}

// Encode tokenizes s. When a special-tokens table is active, reverse is
// suppressed during per-segment encoding and the original segment order
// is restored afterward rather than reversing the whole output, since
// reversing across a special-token boundary would move the special out
// of its original position.
func (t *Tokenizer) Encode(s string, opts EncodeOptions) ([]int32, error) {
	vocab := t.proc.Vocabulary()

	var ids []int32
	if t.special != nil {
		segments := split.SpecialTokensSplit(oneRow(s), t.special)
		for j := 0; j < segments.Len(); j++ {
			text := string(segments.Get(j))
			if segments.Skip(j) {
				if id := vocab.Encode(text); id >= 0 {
					ids = append(ids, id)
				}
				continue
			}

			segIDs, err := t.proc.Encode(text, false)
			if err != nil {
				return nil, err
			}
			if opts.Reverse {
				slices.Reverse(segIDs)
			}
			ids = append(ids, segIDs...)
		}
	} else {
		var err error
		ids, err = t.proc.Encode(s, false)
		if err != nil {
			return nil, err
		}
		if opts.Reverse {
			slices.Reverse(ids)
		}
	}

	if opts.AddBOS && len(vocab.BOS) > 0 {
		ids = append([]int32{vocab.BOS[0]}, ids...)
	}
	if opts.AddEOS && len(vocab.EOS) > 0 {
		ids = append(ids, vocab.EOS[0])
	}

	return ids, nil
}

// Decode runs the wrapped processor's Decode.
func (t *Tokenizer) Decode(ids []int32) (string, error) {
	return t.proc.Decode(ids)
}

// StreamDetokenizer decodes one token at a time, suitable for streaming
// generation loops that need each piece's text as soon as a token id is
// produced rather than waiting to batch-decode the whole sequence.
type StreamDetokenizer struct {
	vocab *model.Vocabulary
}

func NewStreamDetokenizer(vocab *model.Vocabulary) *StreamDetokenizer {
	return &StreamDetokenizer{vocab: vocab}
}

// Next returns the text fragment for a single token id: its raw byte if
// the piece is a <0xHH> byte-fallback literal, otherwise its piece
// string with SentencePiece's escaped-space marker restored to a literal
// space. Callers accumulate a decoded stream by concatenating fragments.
func (d *StreamDetokenizer) Next(id int32) (string, error) {
	if id < 0 || int(id) >= len(d.vocab.Values) {
		return "", fmt.Errorf("spm: invalid token id: %d", id)
	}

	piece := d.vocab.Values[id]
	if b, ok := rx.MustParseByteToken(piece); ok {
		return string(b), nil
	}

	return strings.ReplaceAll(piece, escapedSpace, " "), nil
}
