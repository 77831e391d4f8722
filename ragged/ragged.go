// Package ragged implements the batched, variable-length string and
// integer tensor conventions the tokenizer operators pass between each
// other: flat begin/end offset pairs into a shared buffer, with an
// optional second level of nesting for per-row grouping.
package ragged

import "github.com/ovtok/tokenizers/tokenerr"

// Strings is a non-ragged batch of string elements: begins[j]/ends[j]
// are half-open byte ranges into chars.
type Strings struct {
	Begins []int32
	Ends   []int32
	Chars  []byte

	// Skips marks elements already isolated as special tokens; nil means
	// no element is skipped.
	Skips []bool
}

func (s Strings) Len() int { return len(s.Begins) }

// Get returns the j-th element's bytes.
func (s Strings) Get(j int) []byte {
	return s.Chars[s.Begins[j]:s.Ends[j]]
}

// Skip reports whether element j is marked skip.
func (s Strings) Skip(j int) bool {
	return s.Skips != nil && s.Skips[j]
}

// ToRows returns all elements as a single row of strings.
func (s Strings) ToRows() [][]string {
	row := make([]string, s.Len())
	for j := 0; j < s.Len(); j++ {
		row[j] = string(s.Get(j))
	}
	return [][]string{row}
}

// Validate checks the invariants begins[j] <= ends[j] <= len(chars).
func (s Strings) Validate(op string) error {
	for j := range s.Begins {
		if s.Begins[j] > s.Ends[j] {
			return &tokenerr.ShapeError{Op: op, Input: "strings", Message: "begins[j] > ends[j]"}
		}
		if int(s.Ends[j]) > len(s.Chars) {
			return &tokenerr.ShapeError{Op: op, Input: "strings", Message: "ends[j] exceeds chars length"}
		}
	}
	if s.Skips != nil && len(s.Skips) != len(s.Begins) {
		return &tokenerr.ShapeError{Op: op, Input: "strings", Message: "skips length mismatch"}
	}
	return nil
}

// Builder accumulates elements into a fresh Strings batch, concatenating
// bytes into one contiguous buffer as it goes -- the shape every
// normalization/splitter operator produces its output in.
type Builder struct {
	out Strings
}

func (b *Builder) Add(value []byte, skip bool) {
	begin := int32(len(b.out.Chars))
	b.out.Chars = append(b.out.Chars, value...)
	b.out.Begins = append(b.out.Begins, begin)
	b.out.Ends = append(b.out.Ends, int32(len(b.out.Chars)))
	if skip {
		for len(b.out.Skips) < len(b.out.Begins)-1 {
			b.out.Skips = append(b.out.Skips, false)
		}
		b.out.Skips = append(b.out.Skips, true)
	} else if b.out.Skips != nil {
		b.out.Skips = append(b.out.Skips, false)
	}
}

func (b *Builder) Build() Strings { return b.out }

// Ragged is a two-level nesting of Strings: RaggedBegins[i]/RaggedEnds[i]
// select the half-open range of Elements belonging to row i.
type Ragged struct {
	RaggedBegins []int32
	RaggedEnds   []int32
	Elements     Strings
}

func (r Ragged) NumRows() int { return len(r.RaggedBegins) }

// Row returns the element indices [begin, end) belonging to row i.
func (r Ragged) Row(i int) (begin, end int32) {
	return r.RaggedBegins[i], r.RaggedEnds[i]
}

// FromRows packs a [][]string into the flat ragged-string representation.
func FromRows(rows [][]string) Ragged {
	var r Ragged
	for _, row := range rows {
		rb := int32(len(r.Elements.Begins))
		for _, s := range row {
			begin := int32(len(r.Elements.Chars))
			r.Elements.Chars = append(r.Elements.Chars, s...)
			r.Elements.Begins = append(r.Elements.Begins, begin)
			r.Elements.Ends = append(r.Elements.Ends, int32(len(r.Elements.Chars)))
		}
		r.RaggedBegins = append(r.RaggedBegins, rb)
		r.RaggedEnds = append(r.RaggedEnds, int32(len(r.Elements.Begins)))
	}
	return r
}

// ToRows unpacks the flat ragged-string representation back into [][]string.
func (r Ragged) ToRows() [][]string {
	rows := make([][]string, r.NumRows())
	for i := range rows {
		begin, end := r.Row(i)
		row := make([]string, 0, end-begin)
		for j := begin; j < end; j++ {
			row = append(row, string(r.Elements.Get(int(j))))
		}
		rows[i] = row
	}
	return rows
}

// Ints is a non-ragged batch of int32 elements, the integer-tensor
// analogue of Strings used for token-ID sequences.
type Ints struct {
	Begins []int32
	Ends   []int32
	Values []int32
}

func (s Ints) Len() int { return len(s.Begins) }

func (s Ints) Get(j int) []int32 {
	return s.Values[s.Begins[j]:s.Ends[j]]
}

// IntsBuilder accumulates rows of token IDs into an Ints batch.
type IntsBuilder struct {
	out Ints
}

func (b *IntsBuilder) Add(ids []int32) {
	begin := int32(len(b.out.Values))
	b.out.Values = append(b.out.Values, ids...)
	b.out.Begins = append(b.out.Begins, begin)
	b.out.Ends = append(b.out.Ends, int32(len(b.out.Values)))
}

func (b *IntsBuilder) Build() Ints { return b.out }

// RaggedInts nests Ints one level, mirroring Ragged for token-ID rows
// grouped by input batch element.
type RaggedInts struct {
	RaggedBegins []int32
	RaggedEnds   []int32
	Elements     Ints
}

func (r RaggedInts) NumRows() int { return len(r.RaggedBegins) }

func (r RaggedInts) Row(i int) (begin, end int32) {
	return r.RaggedBegins[i], r.RaggedEnds[i]
}

// FuzeRagged flattens one level of raggedness: new element i spans from
// the first inner element's begin to the last inner element's end.
func FuzeRagged(r Ragged) Strings {
	out := Strings{}
	for i := 0; i < r.NumRows(); i++ {
		begin, end := r.Row(i)
		if begin == end {
			out.Begins = append(out.Begins, 0)
			out.Ends = append(out.Ends, 0)
			continue
		}
		out.Begins = append(out.Begins, r.Elements.Begins[begin])
		out.Ends = append(out.Ends, r.Elements.Ends[end-1])
	}
	out.Chars = r.Elements.Chars
	return out
}

// FuzeRaggedInts is FuzeRagged's integer-tensor counterpart: it flattens a
// per-input-row token-ID grouping down to one contiguous ID sequence per
// row.
func FuzeRaggedInts(r RaggedInts) Ints {
	out := Ints{}
	for i := 0; i < r.NumRows(); i++ {
		begin, end := r.Row(i)
		if begin == end {
			out.Begins = append(out.Begins, int32(len(out.Values)))
			out.Ends = append(out.Ends, int32(len(out.Values)))
			continue
		}
		out.Begins = append(out.Begins, r.Elements.Begins[begin])
		out.Ends = append(out.Ends, r.Elements.Ends[end-1])
	}
	out.Values = r.Elements.Values
	return out
}
