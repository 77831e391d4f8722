package convert

import (
	"io"
	"strings"
	"testing"
)

func TestBuildGPT2ProducesRunnableBPEModel(t *testing.T) {
	fsys := createTokenizerFS(t, t.TempDir(), map[string]io.Reader{
		"tokenizer.json": strings.NewReader(`{
			"model": {"vocab": {"c": 0, "a": 1, "t": 2, "cat": 3, "<unk>": 4}},
			"added_tokens": [{"id": 4, "content": "<unk>", "special": true}]
		}`),
		"tokenizer_config.json": strings.NewReader(`{
			"unk_token": "<unk>"
		}`),
	})

	tok, err := Load(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Model != "gpt2" {
		t.Fatalf("got model %q, want gpt2", tok.Model)
	}

	proc, err := tok.Build()
	if err != nil {
		t.Fatalf("unexpected error building processor: %v", err)
	}

	ids, err := proc.Encode("cat", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("got %v, want [3] (\"cat\" matched whole)", ids)
	}
}

func TestBuildRejectsUnsupportedModel(t *testing.T) {
	tok := &Tokenizer{Vocabulary: &Vocabulary{Model: "wordpiece"}}
	if _, err := tok.Build(); err == nil {
		t.Fatalf("expected error for unsupported model kind")
	}
}
