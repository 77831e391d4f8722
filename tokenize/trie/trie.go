// Package trie implements the standalone longest-match Trie tokenizer:
// repeated FindLongest calls over a byte buffer, one Trie built from a
// vocabulary with explicit token IDs.
package trie

import (
	"fmt"

	"github.com/ovtok/tokenizers/bytetrie"
	"github.com/ovtok/tokenizers/model"
)

// Model repeatedly longest-matches from the current position in each
// input element, emitting the vocabulary IDs found. A position that
// matches nothing is advanced by one byte with no token emitted, per the
// Trie's find_longest contract of leaving idx unchanged on a miss.
type Model struct {
	vocab *model.Vocabulary
	trie  *bytetrie.Trie
}

var _ model.TextProcessor = (*Model)(nil)

func New(vocab *model.Vocabulary) *Model {
	t := bytetrie.New()
	for id, value := range vocab.Values {
		t.Add([]byte(value), int32(id))
	}
	return &Model{vocab: vocab, trie: t}
}

func (m *Model) Encode(s string, addSpecial bool) ([]int32, error) {
	buffer := []byte(s)
	var ids []int32

	idx := 0
	for idx < len(buffer) {
		id := m.trie.FindLongest(buffer, &idx)
		if id < 0 {
			idx++
			continue
		}
		ids = append(ids, id)
	}

	if addSpecial {
		ids = m.vocab.AddSpecials(ids)
	}

	return ids, nil
}

func (m *Model) Decode(ids []int32) (string, error) {
	buf := make([]byte, 0, len(ids)*2)
	for _, id := range ids {
		if id < 0 || int(id) >= len(m.vocab.Values) {
			return "", fmt.Errorf("trie: invalid token id: %d", id)
		}
		buf = append(buf, m.vocab.Values[id]...)
	}
	return string(buf), nil
}

func (m *Model) Is(id int32, special model.Special) bool { return m.vocab.Is(id, special) }

func (m *Model) Vocabulary() *model.Vocabulary { return m.vocab }
