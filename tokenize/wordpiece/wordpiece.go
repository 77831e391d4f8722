// Package wordpiece implements two-Trie WordPiece tokenization: one Trie
// for whole-word entries, a second for suffix-indicator continuations,
// each built once and reused across every element.
package wordpiece

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ovtok/tokenizers/bytetrie"
	"github.com/ovtok/tokenizers/model"
)

// Options mirrors the operator's construction-time attributes.
type Options struct {
	SuffixIndicator string // default "##"
	MaxBytesPerWord int    // default 100
}

func (o Options) withDefaults() Options {
	if o.SuffixIndicator == "" {
		o.SuffixIndicator = "##"
	}
	if o.MaxBytesPerWord == 0 {
		o.MaxBytesPerWord = 100
	}
	return o
}

// Model is a two-Trie WordPiece tokenizer over a fixed vocabulary. The
// Tries are built lazily on first Encode, matching the "built at first
// evaluate" construction the operator specifies.
type Model struct {
	vocab      *model.Vocabulary
	unkTokenID int32
	opts       Options

	buildOnce    sync.Once
	trieRoot     *bytetrie.Trie
	trieSubwords *bytetrie.Trie
}

var _ model.TextProcessor = (*Model)(nil)

// New builds a Model. unkTokenID is emitted whenever an element fails to
// tokenize; it is not required to itself appear in vocab.
func New(vocab *model.Vocabulary, unkTokenID int32, opts Options) *Model {
	return &Model{vocab: vocab, unkTokenID: unkTokenID, opts: opts.withDefaults()}
}

func (m *Model) build() {
	m.buildOnce.Do(func() {
		m.trieRoot = bytetrie.New()
		m.trieSubwords = bytetrie.New()

		for id, value := range m.vocab.Values {
			if strings.HasPrefix(value, m.opts.SuffixIndicator) {
				m.trieSubwords.Add([]byte(strings.TrimPrefix(value, m.opts.SuffixIndicator)), int32(id))
			} else {
				m.trieRoot.Add([]byte(value), int32(id))
			}
		}
	})
}

func (m *Model) Vocabulary() *model.Vocabulary { return m.vocab }

func (m *Model) Is(id int32, special model.Special) bool { return m.vocab.Is(id, special) }

// Encode tokenizes s as a single word: a leading Trie match against
// trieRoot followed by repeated trieSubwords matches over the remainder.
// Any failure to consume the whole word reverts to a single unk token.
func (m *Model) Encode(s string, addSpecial bool) ([]int32, error) {
	m.build()

	buffer := []byte(s)
	var ids []int32

	if len(buffer) > m.opts.MaxBytesPerWord {
		ids = []int32{m.unkTokenID}
	} else {
		idx := 0
		id := m.trieRoot.FindLongest(buffer, &idx)
		if id < 0 {
			ids = []int32{m.unkTokenID}
		} else {
			ids = append(ids, id)
			for idx < len(buffer) {
				sub := m.trieSubwords.FindLongest(buffer, &idx)
				if sub < 0 {
					ids = []int32{m.unkTokenID}
					break
				}
				ids = append(ids, sub)
			}
		}
	}

	if addSpecial {
		ids = m.vocab.AddSpecials(ids)
	}

	return ids, nil
}

// Decode reverses the suffix-indicator convention: pieces after the first
// in a word are joined without a separating space.
func (m *Model) Decode(ids []int32) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		if id < 0 || int(id) >= len(m.vocab.Values) {
			return "", fmt.Errorf("wordpiece: invalid token id: %d", id)
		}

		piece := m.vocab.Values[id]
		if strings.HasPrefix(piece, m.opts.SuffixIndicator) {
			sb.WriteString(strings.TrimPrefix(piece, m.opts.SuffixIndicator))
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(piece)
	}
	return sb.String(), nil
}
