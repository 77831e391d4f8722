package pipeline

import (
	"testing"

	"github.com/ovtok/tokenizers/assemble"
	"github.com/ovtok/tokenizers/model"
	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/rx"
	"github.com/ovtok/tokenizers/tokenize/bpe"
)

func buildVocab(values []string, merges []string, bos, eos []int32, addBOS, addEOS bool) *model.Vocabulary {
	types := make([]int32, len(values))
	for i := range types {
		types[i] = model.TOKEN_TYPE_NORMAL
	}
	return model.NewVocabulary(values, types, nil, merges, bos, eos, addBOS, addEOS)
}

func TestEncoderTokenizesEachRowIndependently(t *testing.T) {
	v := buildVocab([]string{"c", "a", "t", "cat", "d", "o", "g", "dog"}, nil, nil, nil, false, false)
	m, err := bpe.New(v, bpe.Options{UnkTokenID: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := &Encoder{Model: m}
	out, err := e.Encode([]string{"cat", "dog"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("got %d rows, want 2", out.Len())
	}
	if got := out.Get(0); len(got) != 1 || got[0] != 3 {
		t.Fatalf("row 0 = %v, want [3]", got)
	}
	if got := out.Get(1); len(got) != 1 || got[0] != 7 {
		t.Fatalf("row 1 = %v, want [7]", got)
	}
}

func TestEncoderAddsSpecialsAndTruncates(t *testing.T) {
	v := buildVocab([]string{"c", "a", "t", "cat", "<s>", "</s>"}, nil, []int32{4}, []int32{5}, true, true)
	m, err := bpe.New(v, bpe.Options{UnkTokenID: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := &Encoder{Model: m, AddSpecials: true, Truncation: &TruncationConfig{MaxLength: 2, Side: assemble.Right}}
	out, err := e.Encode([]string{"cat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Get(0); len(got) != 2 || got[0] != 4 || got[1] != 3 {
		t.Fatalf("got %v, want [4 3] (bos, cat token; eos cropped off by right-side truncation to 2)", got)
	}
}

func TestEncoderIsolatesSpecialTokensBeforeTokenizing(t *testing.T) {
	v := buildVocab([]string{"c", "a", "t", "cat", "[SEP]"}, nil, nil, nil, false, false)
	v.Types[4] = model.TOKEN_TYPE_CONTROL
	m, err := bpe.New(v, bpe.Options{UnkTokenID: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pattern := rx.Compile("special", `(\[SEP\])`)
	e := &Encoder{Model: m, Special: pattern}

	out, err := e.Encode([]string{"cat[SEP]cat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int32{3, 4, 3}
	if got := out.Get(0); len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	}
}

func TestPairEncoderCombinesAndTruncatesJointly(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e", "[CLS]", "[SEP]"}
	v := buildVocab(values, nil, nil, nil, false, false)
	m, err := bpe.New(v, bpe.Options{UnkTokenID: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := &PairEncoder{
		Model:     m,
		Template:  []assemble.TemplateItem{assemble.Lit(5), assemble.Seg(0), assemble.Lit(6), assemble.Seg(1), assemble.Lit(6)},
		MaxLength: 5,
		Side:      assemble.Right,
		TruncMode: assemble.LongestFirst,
	}

	out, err := p.Encode([]string{"ab"}, []string{"cde"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// budget = 5 - 3 literals = 2, split evenly 1/1 (longest_first, "cde"
	// longer): first crops to 1 ("a"), second crops to 1 ("c").
	want := []int32{5, 0, 6, 2, 6}
	if got := out.Get(0); len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	}
}

func TestDecoderDecodesEachRow(t *testing.T) {
	v := buildVocab([]string{"c", "a", "t", "cat"}, nil, nil, nil, false, false)
	m, err := bpe.New(v, bpe.Options{UnkTokenID: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var b ragged.IntsBuilder
	b.Add([]int32{0, 1, 2})
	b.Add([]int32{3})

	d := &Decoder{Model: m}
	rows, err := d.Decode(b.Build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0] != "cat" || rows[1] != "cat" {
		t.Fatalf("got %v, want [\"cat\" \"cat\"]", rows)
	}
}
