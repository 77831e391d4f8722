// Package bpe implements ranked-merge byte pair encoding over an already
// pre-tokenized ragged element: a Trie seed phase produces an initial
// token sequence, then a doubly linked list plus a min-priority queue
// repeatedly fires the lowest-rank eligible merge.
package bpe

import (
	"cmp"
	"fmt"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ovtok/tokenizers/bytetrie"
	"github.com/ovtok/tokenizers/model"
	"github.com/ovtok/tokenizers/rx"
	"github.com/ovtok/tokenizers/tokenerr"
)

// Options mirrors the operator's construction-time attributes.
type Options struct {
	UnkTokenID       int32
	FuseUnk          bool
	SuffixIndicator  string
	EndSuffix        string
	ByteFallback     bool
	CacheCapacity    int
	AddedTokens      map[string]int32 // merged into the seed Trie ahead of vocab entries
}

// Model is a Trie-seeded, priority-queue-merged BPE tokenizer.
type Model struct {
	vocab *model.Vocabulary
	trie  *bytetrie.Trie
	opts  Options
	cache *lru.Cache[string, []int32]
}

var _ model.TextProcessor = (*Model)(nil)

// New builds a Model. It returns a ConfigError if a merge rule's
// concatenation is missing from vocab, since the runtime merge phase
// assumes every rank it might encounter resolves to a real token id.
func New(vocab *model.Vocabulary, opts Options) (*Model, error) {
	m := &Model{vocab: vocab, opts: opts, trie: bytetrie.New()}

	mergeResults := make(map[string]bool, len(vocab.Merges))
	for _, mergeRule := range vocab.Merges {
		var left, right string
		if _, err := fmt.Sscanf(mergeRule, "%s %s", &left, &right); err != nil {
			continue
		}
		if vocab.Encode(left+right) < 0 {
			return nil, &tokenerr.ConfigError{Op: "bpe.New", Message: fmt.Sprintf("merge %q has no vocabulary entry for its concatenation", mergeRule)}
		}
		mergeResults[left+right] = true
	}

	// The seed Trie only knows base/added tokens: a merged piece's own
	// vocabulary entry is withheld so the merge phase, not longest-prefix
	// seeding, decides when it gets emitted.
	for id, value := range vocab.Values {
		if mergeResults[value] {
			continue
		}
		m.trie.Add([]byte(value), int32(id))
	}
	for token, id := range opts.AddedTokens {
		m.trie.Add([]byte(token), id)
	}

	if opts.CacheCapacity > 0 {
		c, err := lru.New[string, []int32](opts.CacheCapacity)
		if err != nil {
			return nil, &tokenerr.ConfigError{Op: "bpe.New", Message: err.Error()}
		}
		m.cache = c
	}

	return m, nil
}

func (m *Model) Vocabulary() *model.Vocabulary { return m.vocab }

func (m *Model) Is(id int32, special model.Special) bool { return m.vocab.Is(id, special) }

type llNode struct {
	id, pos    int32
	prev, next *llNode
}

type pairEntry struct {
	left, right *llNode
	rank        int
	mergedID    int32
}

// Encode tokenizes s as a single pre-tokenized element: a word, a
// whitespace-delimited fragment, or whatever unit the caller's
// pre-tokenization stage produced.
func (m *Model) Encode(s string, addSpecial bool) ([]int32, error) {
	if m.cache != nil {
		if ids, ok := m.cache.Get(s); ok {
			return append([]int32(nil), ids...), nil
		}
	}

	buffer := []byte(s + m.opts.EndSuffix)
	seed := m.seed(buffer)

	ids := m.merge(seed)

	if len(seed) > 2 && m.cache != nil {
		m.cache.Add(s, append([]int32(nil), ids...))
	}

	if addSpecial {
		ids = m.vocab.AddSpecials(ids)
	}

	return ids, nil
}

func (m *Model) seed(buffer []byte) []int32 {
	var ids []int32
	idx := 0
	lastWasUnk := false

	for idx < len(buffer) {
		id := m.trie.FindLongest(buffer, &idx)
		if id >= 0 {
			ids = append(ids, id)
			lastWasUnk = false
			continue
		}

		if m.opts.ByteFallback {
			token := fmt.Sprintf("<0x%02X>", buffer[idx])
			if bid := m.vocab.Encode(token); bid >= 0 {
				ids = append(ids, bid)
			} else {
				ids = append(ids, m.opts.UnkTokenID)
			}
			idx++
			lastWasUnk = false
			continue
		}

		if !(m.opts.FuseUnk && lastWasUnk) {
			ids = append(ids, m.opts.UnkTokenID)
		}
		lastWasUnk = true
		idx++
	}

	return ids
}

func (m *Model) merge(seed []int32) []int32 {
	if len(seed) < 2 {
		return seed
	}

	nodes := make([]*llNode, len(seed))
	for i, id := range seed {
		nodes[i] = &llNode{id: id, pos: int32(i)}
		if i > 0 {
			nodes[i].prev = nodes[i-1]
			nodes[i-1].next = nodes[i]
		}
	}
	head := nodes[0]

	pq := heap.NewWith(func(a, b *pairEntry) int {
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		return cmp.Compare(a.left.pos, b.left.pos)
	})

	tryPair := func(left, right *llNode) *pairEntry {
		if left == nil || right == nil {
			return nil
		}
		rank := m.vocab.Merge(m.vocab.Decode(left.id), m.vocab.Decode(right.id))
		if rank < 0 {
			return nil
		}
		mergedID := m.vocab.Encode(m.vocab.Decode(left.id) + m.vocab.Decode(right.id))
		if mergedID < 0 {
			return nil
		}
		return &pairEntry{left: left, right: right, rank: rank, mergedID: mergedID}
	}

	for n := head; n != nil && n.next != nil; n = n.next {
		if p := tryPair(n, n.next); p != nil {
			pq.Push(p)
		}
	}

	for !pq.Empty() {
		e, _ := pq.Pop()

		// Stale if the list has moved on since this pair was pushed.
		if e.left.next != e.right {
			continue
		}

		merged := &llNode{id: e.mergedID, pos: e.left.pos, prev: e.left.prev, next: e.right.next}
		if merged.prev != nil {
			merged.prev.next = merged
		} else {
			head = merged
		}
		if merged.next != nil {
			merged.next.prev = merged
		}
		// Detach the consumed nodes so queued pairs naming them fail the
		// staleness check above.
		e.left.next, e.right.next = nil, nil

		if p := tryPair(merged.prev, merged); p != nil {
			pq.Push(p)
		}
		if p := tryPair(merged, merged.next); p != nil {
			pq.Push(p)
		}
	}

	var out []int32
	for n := head; n != nil; n = n.next {
		out = append(out, n.id)
	}
	return out
}

// Decode concatenates piece text for ids, converting byte-fallback
// literals (<0xHH>) back to their raw byte.
func (m *Model) Decode(ids []int32) (string, error) {
	buf := make([]byte, 0, len(ids)*2)
	for _, id := range ids {
		if id < 0 || int(id) >= len(m.vocab.Values) {
			return "", fmt.Errorf("bpe: invalid token id: %d", id)
		}

		piece := m.vocab.Values[id]
		if b, ok := rx.MustParseByteToken(piece); ok {
			buf = append(buf, b)
			continue
		}
		buf = append(buf, piece...)
	}
	return string(buf), nil
}
