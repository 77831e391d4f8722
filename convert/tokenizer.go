package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"
)

const (
	_ int32 = iota
	tokenTypeNormal
	tokenTypeUnknown
	tokenTypeControl
	tokenTypeUserDefined
	tokenTypeUnused
	tokenTypeByte
)

// Tokenizer is a fully-resolved tokenizer directory: the base vocabulary,
// its merge rules (BPE-family only), and whatever special-token roles and
// chat template the surrounding config files declared.
type Tokenizer struct {
	*Vocabulary
	SpecialVocabulary []*SpecialVocabulary
	Merges            []string

	Pre      string
	Template string
}

// defaultSpecialTokenTypes are the roles Load resolves from
// tokenizer_config.json/generation_config.json when a caller doesn't name
// its own set.
var defaultSpecialTokenTypes = []string{"bos", "eos", "unk", "pad"}

// Load reads a tokenizer directory (a tokenizer.model or tokenizer.json,
// plus optional tokenizer_config.json/generation_config.json/
// added_tokens.json siblings) and resolves it into a Tokenizer, the public
// entry point other packages build a runnable model.TextProcessor from.
func Load(fsys fs.FS) (*Tokenizer, error) {
	return parseTokenizer(fsys, defaultSpecialTokenTypes)
}

func parseTokenizer(fsys fs.FS, specialTokenTypes []string) (*Tokenizer, error) {
	v, err := parseVocabulary(fsys)
	if err != nil {
		return nil, err
	}

	t := &Tokenizer{Vocabulary: v, Pre: "default"}

	addedTokens, err := loadTokenizerJSON(fsys, t)
	if err != nil {
		return nil, err
	}

	if err := loadSpecialTokensFromConfig(fsys, t, specialTokenTypes, addedTokens); err != nil {
		return nil, err
	}

	if err := loadSpecialTokenIDsFromGenerationConfig(fsys, t, specialTokenTypes); err != nil {
		return nil, err
	}

	return t, nil
}

// loadTokenizerJSON reads tokenizer.json (if present), filling in t's merge
// rules and pretokenizer family and returning the file's added_tokens table
// keyed by token content for the special-token resolution pass that follows.
func loadTokenizerJSON(fsys fs.FS, t *Tokenizer) (map[string]token, error) {
	addedTokens := make(map[string]token)

	f, err := fsys.Open("tokenizer.json")
	if errors.Is(err, os.ErrNotExist) {
		return addedTokens, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	var tt tokenizerJSON
	if err := json.NewDecoder(f).Decode(&tt); err != nil {
		return nil, err
	}

	for _, at := range tt.AddedTokens {
		addedTokens[at.Content] = at
	}

	if err := decodeMerges(tt.Model.Merges, t); err != nil {
		return nil, err
	}

	t.Pre = classifyPreTokenizer(tt.PreTokenizer.PreTokenizers)

	return addedTokens, nil
}

// decodeMerges accepts either merge-list shape HuggingFace tokenizers have
// shipped: a flat "left right" string per rule, or a two-element array.
func decodeMerges(raw json.RawMessage, t *Tokenizer) error {
	switch {
	case len(raw) == 0:
		return nil
	case json.Unmarshal(raw, &t.Merges) == nil:
		return nil
	}

	var pairs [][]string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return fmt.Errorf("could not parse tokenizer merges. expected []string or [][]string: %w", err)
	}
	t.Merges = make([]string, len(pairs))
	for i := range pairs {
		t.Merges[i] = strings.Join(pairs[i], " ")
	}
	return nil
}

// classifyPreTokenizer fingerprints the pretokenizer's Split regexes and
// matches the digest against the handful of pretokenizer families known to
// ship under these vocabularies. An unrecognized fingerprint falls back to
// "default" rather than failing the load.
func classifyPreTokenizer(splitters []preTokenizerEntry) string {
	sum := sha256.New()
	for _, pt := range splitters {
		if pt.Type == "Split" && pt.Pattern.Regex != "" {
			sum.Write([]byte(pt.Pattern.Regex))
		}
	}

	switch digest := hex.EncodeToString(sum.Sum(nil)); digest {
	case "d98f9631be1e9607a9848c26c1f9eac1aa9fc21ac6ba82a2fc0741af9780a48f":
		return "llama-bpe"
	case "03df5c5863ad70781dcfdef491ead25140f895fe8010964be0daefe27be32b02":
		return "deepseek-llm"
	case "21cde974d587f0d54dc8d56b183cc1e6239600172035c68fbd6d4b9f8da0576e":
		return "deepseek-coder"
	case "1ff7f41064896984db5d1bb6ff64fa4bc29007d08c1b439e505b7392777a319e":
		return "qwen2"
	case "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855":
		return "default" // empty pretokenizer
	default:
		slog.Warn("unknown pretokenizer, using default", "digest", digest)
		return "default"
	}
}

// loadSpecialTokensFromConfig reads tokenizer_config.json (if present),
// resolving the chat template and, for each role in specialTokenTypes, its
// add_<role>_token/<role>_token attributes matched back against a token in
// addedTokens to recover a numeric ID.
func loadSpecialTokensFromConfig(fsys fs.FS, t *Tokenizer, specialTokenTypes []string, addedTokens map[string]token) error {
	f, err := fsys.Open("tokenizer_config.json")
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	var cfg map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return err
	}

	if err := decodeChatTemplate(cfg, t); err != nil {
		return err
	}

	for _, role := range specialTokenTypes {
		sv := SpecialVocabulary{Type: role}

		if raw, ok := cfg[fmt.Sprintf("add_%s_token", role)]; ok {
			if err := json.Unmarshal(raw, &sv.AddToken); err != nil {
				return err
			}
		}

		if raw, ok := cfg[fmt.Sprintf("%s_token", role)]; ok {
			sv.Content = specialTokenContent(raw)
		}

		if id, ok := addedTokens[sv.Content]; ok {
			sv.ID = id.ID
			t.SpecialVocabulary = append(t.SpecialVocabulary, &sv)
		}
	}

	return nil
}

// specialTokenContent unwraps a <role>_token attribute that is either a
// bare string or an object carrying a "content" field, returning "" if
// neither shape matches.
func specialTokenContent(raw json.RawMessage) string {
	var content string
	if err := json.Unmarshal(raw, &content); err == nil {
		return content
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	content, _ = obj["content"].(string)
	return content
}

func decodeChatTemplate(cfg map[string]json.RawMessage, t *Tokenizer) error {
	raw, ok := cfg["chat_template"]
	if !ok {
		return nil
	}

	if err := json.Unmarshal(raw, &t.Template); err == nil {
		return nil
	}

	var named []struct {
		Name     string `json:"name"`
		Template string `json:"template"`
	}
	if err := json.Unmarshal(raw, &named); err != nil {
		return fmt.Errorf("invalid chat_template: %w", err)
	}
	for _, e := range named {
		if e.Name == "default" {
			t.Template = e.Template
			break
		}
	}
	return nil
}

// loadSpecialTokenIDsFromGenerationConfig reads generation_config.json (if
// present); a role whose *_token_id attribute is a list overrides that
// role's resolved SpecialVocabulary.IDs (some checkpoints declare more than
// one EOS ID, for instance).
func loadSpecialTokenIDsFromGenerationConfig(fsys fs.FS, t *Tokenizer, specialTokenTypes []string) error {
	f, err := fsys.Open("generation_config.json")
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	var cfg map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return err
	}

	for _, role := range specialTokenTypes {
		raw, ok := cfg[fmt.Sprintf("%s_token_id", role)]
		if !ok {
			continue
		}

		var ids []int32
		if err := json.Unmarshal(raw, &ids); err != nil {
			continue // not a list; keep whatever ID tokenizer_config.json resolved
		}

		if i := slices.IndexFunc(t.SpecialVocabulary, func(sv *SpecialVocabulary) bool {
			return sv.Type == role
		}); i >= 0 {
			t.SpecialVocabulary[i].IDs = ids
		}
	}

	return nil
}

type tokenizerJSON struct {
	AddedTokens []token `json:"added_tokens"`
	Model       struct {
		Type   string          `json:"type"`
		Vocab  map[string]int  `json:"vocab"`
		Merges json.RawMessage `json:"merges"`
	} `json:"model"`

	PreTokenizer struct {
		PreTokenizers []preTokenizerEntry `json:"pretokenizers"`
	} `json:"pre_tokenizer"`
}

type preTokenizerEntry struct {
	Type    string `json:"type"`
	Pattern struct {
		Regex string `json:"Regex"`
	} `json:"pattern"`
}

type token struct {
	ID          int    `json:"id"`
	Content     string `json:"content"`
	Special     bool   `json:"special"`
	UserDefined bool
}

// Vocabulary is the base token table shared by every tokenizer family this
// package resolves: parallel Tokens/Scores/Types slices indexed by token ID.
type Vocabulary struct {
	Model  string
	Tokens []string
	Scores []float32
	Types  []int32
}

func parseVocabularyFromTokenizer(fsys fs.FS) (*Vocabulary, error) {
	f, err := fsys.Open("tokenizer.json")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var t tokenizerJSON
	if err := json.NewDecoder(f).Decode(&t); err != nil {
		return nil, err
	}

	byID := make(map[int]token, len(t.Model.Vocab))
	for content, id := range t.Model.Vocab {
		byID[id] = token{ID: id, Content: content}
	}
	for _, at := range t.AddedTokens {
		at.UserDefined = true
		byID[at.ID] = at
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	v := Vocabulary{Model: "gpt2"}
	for _, id := range ids {
		tok := byID[id]
		v.Tokens = append(v.Tokens, tok.Content)
		v.Scores = append(v.Scores, float32(tok.ID))

		switch {
		case tok.Special:
			v.Types = append(v.Types, tokenTypeControl)
		case tok.UserDefined:
			v.Types = append(v.Types, tokenTypeUserDefined)
		default:
			v.Types = append(v.Types, tokenTypeNormal)
		}
	}

	return &v, nil
}

// parseVocabulary picks the vocabulary parser by which base file the
// directory actually ships: a raw SentencePiece proto (tokenizer.model)
// takes priority over a HuggingFace tokenizer.json.
func parseVocabulary(fsys fs.FS) (*Vocabulary, error) {
	sources := []struct {
		file string
		fn   func(fs.FS) (*Vocabulary, error)
	}{
		{"tokenizer.model", parseSentencePiece},
		{"tokenizer.json", parseVocabularyFromTokenizer},
	}

	for _, src := range sources {
		if _, err := fs.Stat(fsys, src.file); errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		return src.fn(fsys)
	}

	return nil, errors.New("unknown tokenizer format")
}

// SpecialVocabulary is one resolved special-token role (bos, eos, pad, …):
// its content string, numeric ID(s), and whether the tokenizer should
// prepend/append it automatically.
type SpecialVocabulary struct {
	Type     string
	ID       int
	Content  string
	AddToken bool

	// IDs is populated from generation_config.json when a role names more
	// than one acceptable ID (multiple EOS variants, for instance).
	IDs []int32
}

// Key maps a raw special-token role name to the model.Vocabulary attribute
// name it feeds.
func (sv SpecialVocabulary) Key() string {
	switch t := sv.Type; t {
	case "bos", "eos", "cls", "mask":
		return t
	case "unk":
		return "unknown"
	case "sep":
		//nolint:misspell // this is an upstream typo
		return "seperator"
	case "pad":
		return "padding"
	}

	panic("unknown special vocabulary type")
}
