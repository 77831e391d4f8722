package spm

import (
	"testing"

	"github.com/ovtok/tokenizers/model"
	"github.com/ovtok/tokenizers/rx"
)

func buildVocab(values []string, bos, eos []int32) *model.Vocabulary {
	types := make([]int32, len(values))
	scores := make([]float32, len(values))
	for i := range types {
		types[i] = model.TOKEN_TYPE_NORMAL
	}
	return model.NewVocabulary(values, types, scores, nil, bos, eos, false, false)
}

func TestTokenizerAddsBOSAndEOS(t *testing.T) {
	v := buildVocab([]string{"\xE2\x96\x81hi"}, []int32{10}, []int32{11})
	proc := model.NewSentencePiece(v)
	tok := NewTokenizer(&proc, nil)

	ids, err := tok.Encode(" hi", EncodeOptions{AddBOS: true, AddEOS: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) < 2 || ids[0] != 10 || ids[len(ids)-1] != 11 {
		t.Fatalf("got %v, want bos=10 first and eos=11 last", ids)
	}
}

func TestTokenizerReversesWithoutSpecialTokens(t *testing.T) {
	v := buildVocab([]string{"\xE2\x96\x81a", "\xE2\x96\x81b"}, nil, nil)
	proc := model.NewSentencePiece(v)
	tok := NewTokenizer(&proc, nil)

	forward, err := tok.Encode(" a b", EncodeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reversed, err := tok.Encode(" a b", EncodeOptions{Reverse: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forward) != len(reversed) {
		t.Fatalf("length mismatch: %v vs %v", forward, reversed)
	}
	for i := range forward {
		if forward[i] != reversed[len(reversed)-1-i] {
			t.Fatalf("expected reversed order: %v vs %v", forward, reversed)
		}
	}
}

func TestTokenizerIsolatesSpecialTokensAsWholeIDs(t *testing.T) {
	v := buildVocab([]string{"\xE2\x96\x81hi", "[SEP]"}, nil, nil)
	v.Types[1] = model.TOKEN_TYPE_CONTROL
	proc := model.NewSentencePiece(v)

	pattern := rx.Compile("special", `(\[SEP\])`)
	tok := NewTokenizer(&proc, pattern)

	ids, err := tok.Encode("[SEP]", EncodeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("got %v, want [1] (the [SEP] token, matched whole)", ids)
	}
}

func TestStreamDetokenizerConvertsByteFallback(t *testing.T) {
	v := buildVocab([]string{"<0x41>", "\xE2\x96\x81world"}, nil, nil)
	d := NewStreamDetokenizer(v)

	frag, err := d.Next(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag != "A" {
		t.Fatalf("got %q, want %q", frag, "A")
	}

	frag, err = d.Next(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag != " world" {
		t.Fatalf("got %q, want %q", frag, " world")
	}
}

func TestStreamDetokenizerRejectsOutOfRangeID(t *testing.T) {
	v := buildVocab([]string{"a"}, nil, nil)
	d := NewStreamDetokenizer(v)

	if _, err := d.Next(5); err == nil {
		t.Fatalf("expected error for out-of-range id")
	}
}
