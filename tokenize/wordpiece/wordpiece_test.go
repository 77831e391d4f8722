package wordpiece

import (
	"testing"

	"github.com/ovtok/tokenizers/model"
)

func buildVocab(values []string) *model.Vocabulary {
	types := make([]int32, len(values))
	for i := range types {
		types[i] = model.TOKEN_TYPE_NORMAL
	}
	return model.NewVocabulary(values, types, nil, nil, nil, nil, false, false)
}

func TestEncodeSplitsRootAndSubwordPieces(t *testing.T) {
	v := buildVocab([]string{"un", "##able", "[UNK]"})
	m := New(v, 2, Options{})

	ids, err := m.Encode("unable", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Fatalf("got %v, want [0 1]", ids)
	}
}

func TestEncodeRevertsToUnkWhenRootHasNoMatch(t *testing.T) {
	v := buildVocab([]string{"un", "##able", "[UNK]"})
	m := New(v, 2, Options{})

	ids, err := m.Encode("zzz", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("got %v, want [2]", ids)
	}
}

func TestEncodeRevertsToUnkWhenSubwordsCantConsumeRemainder(t *testing.T) {
	// "un" matches the root trie, but nothing in trieSubwords covers "fit",
	// so the whole word must revert to a single unk.
	v := buildVocab([]string{"un", "##able", "[UNK]"})
	m := New(v, 2, Options{})

	ids, err := m.Encode("unfit", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("got %v, want [2]", ids)
	}
}

func TestEncodeEmitsUnkForOverlongWord(t *testing.T) {
	v := buildVocab([]string{"a", "[UNK]"})
	m := New(v, 1, Options{MaxBytesPerWord: 3})

	ids, err := m.Encode("aaaa", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("got %v, want [1]", ids)
	}
}

func TestDecodeJoinsSubwordsWithoutSpace(t *testing.T) {
	v := buildVocab([]string{"un", "##able"})
	m := New(v, -1, Options{})

	got, err := m.Decode([]int32{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "unable" {
		t.Fatalf("got %q, want %q", got, "unable")
	}
}

func TestDecodeSeparatesDistinctWords(t *testing.T) {
	v := buildVocab([]string{"hello", "world"})
	m := New(v, -1, Options{})

	got, err := m.Decode([]int32{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}
