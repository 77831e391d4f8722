package assemble

import (
	"sync"

	"github.com/ovtok/tokenizers/ragged"
)

// Encoder maps strings to vocabulary IDs, emitting a default value for
// misses. The lookup table is built once, lazily, the first time Encode
// runs, so construction stays cheap when an operator is created but
// never evaluated.
type Encoder struct {
	values       []string
	defaultValue int32

	once  sync.Once
	table map[string]int32
}

// NewEncoder builds an Encoder over values (values[i] maps to id i).
func NewEncoder(values []string, defaultValue int32) *Encoder {
	return &Encoder{values: values, defaultValue: defaultValue}
}

func (e *Encoder) build() {
	e.table = make(map[string]int32, len(e.values))
	for id, v := range e.values {
		if _, exists := e.table[v]; !exists {
			e.table[v] = int32(id)
		}
	}
}

// Encode returns s's vocabulary ID, or e.defaultValue if s is absent.
func (e *Encoder) Encode(s string) int32 {
	e.once.Do(e.build)
	if id, ok := e.table[s]; ok {
		return id
	}
	return e.defaultValue
}

// EncodeStrings encodes every element of a non-ragged string batch.
func (e *Encoder) EncodeStrings(in ragged.Strings) ragged.Ints {
	var b ragged.IntsBuilder
	for j := 0; j < in.Len(); j++ {
		b.Add([]int32{e.Encode(string(in.Get(j)))})
	}
	return b.Build()
}

// Decoder maps vocabulary IDs back to their strings, skipping any ID
// present in its skip set. skipTokens is the compile-time attribute;
// callers may override it per call with a runtime list.
type Decoder struct {
	values     []string
	skipTokens map[int32]bool
}

// NewDecoder builds a Decoder over values, skipping any ID in skipTokens.
func NewDecoder(values []string, skipTokens []int32) *Decoder {
	skip := toSkipSet(skipTokens)
	return &Decoder{values: values, skipTokens: skip}
}

func toSkipSet(ids []int32) map[int32]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int32]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Decode converts ids to their per-token strings, nested one row of
// output elements per input row of ids -- a Ragged whose Elements holds
// one string per surviving (non-skipped, in-range) token ID. Callers
// typically flatten the result with ragged.FuzeRagged to get one string
// per input row. runtimeSkip, when non-nil, overrides the Decoder's
// compile-time skip set for this call only.
func (d *Decoder) Decode(ids ragged.Ints, runtimeSkip []int32) ragged.Ragged {
	skip := d.skipTokens
	if runtimeSkip != nil {
		skip = toSkipSet(runtimeSkip)
	}

	var out ragged.Ragged
	var b ragged.Builder
	for i := 0; i < ids.Len(); i++ {
		rowBegin := int32(0)
		if out.Elements.Begins != nil {
			rowBegin = int32(len(out.Elements.Begins))
		}
		for _, id := range ids.Get(i) {
			if skip[id] {
				continue
			}
			if id < 0 || int(id) >= len(d.values) {
				continue
			}
			b.Add([]byte(d.values[id]), false)
		}
		out.Elements = b.Build()
		out.RaggedBegins = append(out.RaggedBegins, rowBegin)
		out.RaggedEnds = append(out.RaggedEnds, int32(len(out.Elements.Begins)))
	}
	return out
}
