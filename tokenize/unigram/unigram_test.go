package unigram

import (
	"testing"

	"github.com/ovtok/tokenizers/model"
)

func newTestVocab() *model.Vocabulary {
	values := []string{"a", "b", "ab", "<unk>"}
	types := []int32{model.TOKEN_TYPE_NORMAL, model.TOKEN_TYPE_NORMAL, model.TOKEN_TYPE_NORMAL, model.TOKEN_TYPE_UNKNOWN}
	scores := []float32{-1, -1, -0.1, 0}
	return model.NewVocabulary(values, types, scores, nil, nil, nil, false, false)
}

func TestEncodePrefersHigherScoringMerge(t *testing.T) {
	v := newTestVocab()
	m := New(v, nil, 3)

	ids, err := m.Encode("ab", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("got %v, want [2] (the merged \"ab\" token)", ids)
	}
}

func TestEncodeFallsBackToUnknownForUnmatchedInput(t *testing.T) {
	v := newTestVocab()
	m := New(v, nil, 3)

	ids, err := m.Encode("z", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("got %v, want [3] (unk)", ids)
	}
}

func TestEncodeCollapsesAdjacentUnknowns(t *testing.T) {
	v := newTestVocab()
	m := New(v, nil, 3)

	ids, err := m.Encode("zzz", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("adjacent unk spans should collapse into one token, got %v", ids)
	}
}

func TestEncodeAddsSpacePrefixWhenConfigured(t *testing.T) {
	values := []string{"\xE2\x96\x81hi", "<unk>"}
	types := []int32{model.TOKEN_TYPE_NORMAL, model.TOKEN_TYPE_UNKNOWN}
	scores := []float32{-1, 0}
	v := model.NewVocabulary(values, types, scores, nil, nil, nil, false, false)
	v.AddSpacePrefix = true

	m := New(v, nil, 1)
	ids, err := m.Encode("hi", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 0 {
		t.Fatalf("got %v, want [0] (space-prefixed \"hi\")", ids)
	}
}

func TestDecodeInsertsSeparatorBetweenWordPieces(t *testing.T) {
	values := []string{"\xE2\x96\x81hello", "\xE2\x96\x81world"}
	types := []int32{model.TOKEN_TYPE_NORMAL, model.TOKEN_TYPE_NORMAL}
	scores := []float32{-1, -1}
	v := model.NewVocabulary(values, types, scores, nil, nil, nil, false, false)

	m := New(v, nil, 0)
	got, err := m.Decode([]int32{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestDecodeRejectsOutOfRangeID(t *testing.T) {
	v := newTestVocab()
	m := New(v, nil, 3)

	if _, err := m.Decode([]int32{99}); err == nil {
		t.Fatalf("expected error for out-of-range id")
	}
}
