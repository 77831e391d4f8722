// Package pipeline composes the leaf primitives (normalize, split,
// tokenize, assemble) into the two end-to-end flows spec.md's overview
// describes: string batch in, token-ID tensor out for encoding; token-ID
// tensor in, string batch out for decoding. It is a convenience layer
// over packages that remain independently usable.
package pipeline

import (
	"github.com/ovtok/tokenizers/assemble"
	"github.com/ovtok/tokenizers/model"
	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/rx"
	"github.com/ovtok/tokenizers/split"
)

// TruncationConfig configures the single-input Truncate stage. A nil
// *TruncationConfig disables truncation entirely.
type TruncationConfig struct {
	MaxLength int
	Side      assemble.Side
}

// Encoder runs one text-tokenizer model over a batch of strings, with an
// optional special-tokens isolation pass ahead of tokenization and an
// optional length truncation pass after it.
type Encoder struct {
	Model       model.TextProcessor
	Special     *rx.Regex // nil disables special-tokens isolation
	AddSpecials bool      // prepend/append BOS/EOS per the model's Vocabulary
	Truncation  *TruncationConfig
}

// Encode tokenizes every element of texts independently, returning one
// row of token IDs per input element.
func (e *Encoder) Encode(texts []string) (ragged.Ints, error) {
	var b ragged.IntsBuilder
	for _, text := range texts {
		row, err := e.encodeOne(text)
		if err != nil {
			return ragged.Ints{}, err
		}
		b.Add(row)
	}

	out := b.Build()
	if e.Truncation != nil {
		var err error
		out, err = assemble.Truncate(out, e.Truncation.MaxLength, e.Truncation.Side)
		if err != nil {
			return ragged.Ints{}, err
		}
	}
	return out, nil
}

// encodeOne tokenizes a single string, applying special-tokens isolation
// (each isolated special is looked up as a whole vocabulary entry rather
// than tokenized) and the model's own AddSpecials bookending.
func (e *Encoder) encodeOne(text string) ([]int32, error) {
	vocab := e.Model.Vocabulary()

	var ids []int32
	if e.Special != nil {
		var b ragged.Builder
		b.Add([]byte(text), false)
		segments := split.SpecialTokensSplit(b.Build(), e.Special)
		for j := 0; j < segments.Len(); j++ {
			seg := string(segments.Get(j))
			if segments.Skip(j) {
				if id := vocab.Encode(seg); id >= 0 {
					ids = append(ids, id)
				}
				continue
			}
			segIDs, err := e.Model.Encode(seg, false)
			if err != nil {
				return nil, err
			}
			ids = append(ids, segIDs...)
		}
	} else {
		var err error
		ids, err = e.Model.Encode(text, false)
		if err != nil {
			return nil, err
		}
	}

	if e.AddSpecials {
		ids = vocab.AddSpecials(ids)
	}
	return ids, nil
}

// PairEncoder runs an Encoder over two texts per example and assembles
// them with CombineSegments and TruncatePair, e.g. for
// "[CLS] A [SEP] B [SEP]"-style sequence-pair inputs.
type PairEncoder struct {
	Model     model.TextProcessor
	Special   *rx.Regex
	Template  []assemble.TemplateItem
	MaxLength int
	Side      assemble.Side
	TruncMode assemble.Mode
}

// Encode tokenizes firsts[i]/seconds[i] pairs, truncates them jointly to
// fit MaxLength (leaving room for the template's literal tokens), then
// interleaves them per Template.
func (p *PairEncoder) Encode(firsts, seconds []string) (ragged.Ints, error) {
	e := &Encoder{Model: p.Model, Special: p.Special}

	firstIDs, err := e.Encode(firsts)
	if err != nil {
		return ragged.Ints{}, err
	}
	secondIDs, err := e.Encode(seconds)
	if err != nil {
		return ragged.Ints{}, err
	}

	literalCount := 0
	for _, item := range p.Template {
		if item.Literal {
			literalCount++
		}
	}
	budget := p.MaxLength - literalCount
	if budget < 0 {
		budget = 0
	}

	firstIDs, secondIDs, err = assemble.TruncatePair(firstIDs, secondIDs, budget, p.Side, p.TruncMode)
	if err != nil {
		return ragged.Ints{}, err
	}

	return assemble.CombineSegments([]ragged.Ints{firstIDs, secondIDs}, p.Template)
}

// Decoder decodes a token-ID tensor back into one string per row.
type Decoder struct {
	Model model.TextProcessor
}

// Decode converts each row of ids back to text via the wrapped model.
func (d *Decoder) Decode(ids ragged.Ints) ([]string, error) {
	out := make([]string, ids.Len())
	for i := 0; i < ids.Len(); i++ {
		s, err := d.Model.Decode(ids.Get(i))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
