// Package assemble implements the operators that stitch tokenized
// segments into a model's final input layout: interleaving segments per
// a template, truncating to a length budget, ragged-to-dense/sparse
// reshaping helpers, vocabulary encode/decode, and the small string
// utility operators (equality, hash bucketing) that support them.
package assemble

import (
	"fmt"

	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/tokenerr"
)

// TemplateItem is one slot in a CombineSegments template: either a
// literal token id (e.g. [CLS], [SEP]) or a reference to one row of one
// of the input segments (e.g. "A" or "B" in "[CLS] A [SEP] B [SEP]").
type TemplateItem struct {
	Literal      bool
	ID           int32
	SegmentIndex int
}

// Lit builds a literal-id template item.
func Lit(id int32) TemplateItem { return TemplateItem{Literal: true, ID: id} }

// Seg builds a segment-reference template item.
func Seg(index int) TemplateItem { return TemplateItem{SegmentIndex: index} }

// CombineSegments interleaves segments (row-aligned ragged integer
// tensors, one per input segment) according to template, producing one
// combined ragged.Ints row per input row.
func CombineSegments(segments []ragged.Ints, template []TemplateItem) (ragged.Ints, error) {
	if len(segments) == 0 {
		return ragged.Ints{}, &tokenerr.ShapeError{Op: "assemble.CombineSegments", Input: "segments", Message: "at least one segment is required"}
	}

	rows := segments[0].Len()
	for i, seg := range segments {
		if seg.Len() != rows {
			return ragged.Ints{}, &tokenerr.ShapeError{Op: "assemble.CombineSegments", Input: fmt.Sprintf("segments[%d]", i), Message: "row count mismatch across segments"}
		}
	}

	for _, item := range template {
		if !item.Literal && (item.SegmentIndex < 0 || item.SegmentIndex >= len(segments)) {
			return ragged.Ints{}, &tokenerr.ConfigError{Op: "assemble.CombineSegments", Attr: "template", Message: fmt.Sprintf("references out-of-range segment %d", item.SegmentIndex)}
		}
	}

	var b ragged.IntsBuilder
	for row := 0; row < rows; row++ {
		var ids []int32
		for _, item := range template {
			if item.Literal {
				ids = append(ids, item.ID)
				continue
			}
			ids = append(ids, segments[item.SegmentIndex].Get(row)...)
		}
		b.Add(ids)
	}

	return b.Build(), nil
}
