package convert

import (
	"fmt"

	"github.com/ovtok/tokenizers/model"
	"github.com/ovtok/tokenizers/spm"
	"github.com/ovtok/tokenizers/tokenize/bpe"
)

// specialIDs resolves bos/eos ID lists from t.SpecialVocabulary, in the
// same shape model.Vocabulary expects.
func (t *Tokenizer) specialIDs(key string) []int32 {
	for _, sv := range t.SpecialVocabulary {
		if sv.Key() != key {
			continue
		}
		if len(sv.IDs) > 0 {
			return sv.IDs
		}
		return []int32{int32(sv.ID)}
	}
	return nil
}

func (t *Tokenizer) addSpecial(key string) bool {
	for _, sv := range t.SpecialVocabulary {
		if sv.Key() == key {
			return sv.AddToken
		}
	}
	return false
}

// vocabulary builds a runnable model.Vocabulary from the resolved
// tokenizer fields.
func (t *Tokenizer) vocabulary() *model.Vocabulary {
	bos, eos := t.specialIDs("bos"), t.specialIDs("eos")
	return model.NewVocabulary(t.Tokens, t.Types, t.Scores, t.Merges, bos, eos, t.addSpecial("bos"), t.addSpecial("eos"))
}

// unkID returns the vocabulary ID of the "unknown" special token, or -1
// if none is registered.
func (t *Tokenizer) unkID() int32 {
	if ids := t.specialIDs("unknown"); len(ids) > 0 {
		return ids[0]
	}
	return -1
}

// Build resolves t into a runnable model.TextProcessor: a bpe.Model for
// "gpt2"-family byte-level BPE vocabularies, or a *model.SentencePiece for
// "llama"-family SentencePiece vocabularies.
func (t *Tokenizer) Build() (model.TextProcessor, error) {
	vocab := t.vocabulary()

	switch t.Model {
	case "gpt2":
		m, err := bpe.New(vocab, bpe.Options{
			UnkTokenID:   t.unkID(),
			ByteFallback: true,
		})
		if err != nil {
			return nil, err
		}
		return m, nil

	case "llama":
		proc := model.NewSentencePiece(vocab)
		return &proc, nil

	default:
		return nil, fmt.Errorf("convert: unsupported tokenizer model %q", t.Model)
	}
}

// SpmTokenizer builds a spm.Tokenizer around t's model. Register a
// special-tokens split pattern on the returned Tokenizer's caller side
// when registered specials must be matched as whole tokens.
func (t *Tokenizer) SpmTokenizer() (*spm.Tokenizer, error) {
	proc, err := t.Build()
	if err != nil {
		return nil, err
	}
	return spm.NewTokenizer(proc, nil), nil
}
