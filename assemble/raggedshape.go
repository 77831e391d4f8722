package assemble

import "github.com/ovtok/tokenizers/ragged"

// DenseResult is RaggedToDense's output: a [rows][cols]int32 dense
// tensor plus a same-shape {0,1} attention mask (1 on data, 0 on
// padding).
type DenseResult struct {
	Rows [][]int32
	Mask [][]int32
	Cols int
}

// RaggedToDense pads or truncates every row of in to targetDim columns;
// the output shape is always [rows, targetDim] regardless of padMaxLength.
// padRight places real data first and padding after it when true, padding
// first and real data last when false. padMaxLength does not change the
// result: true caps each row's copy at targetDim, false at the longest
// row's length (capped at targetDim), and since no row is longer than the
// longest one, both copy min(rowLen, targetDim) values and default-fill
// the rest.
func RaggedToDense(in ragged.Ints, targetDim int, defaultValue int32, padRight, padMaxLength bool) DenseResult {
	cols := targetDim
	copyLimit := targetDim
	if !padMaxLength {
		longest := 0
		for i := 0; i < in.Len(); i++ {
			if n := len(in.Get(i)); n > longest {
				longest = n
			}
		}
		copyLimit = min(longest, targetDim)
	}

	res := DenseResult{
		Rows: make([][]int32, in.Len()),
		Mask: make([][]int32, in.Len()),
		Cols: cols,
	}

	for i := 0; i < in.Len(); i++ {
		row := in.Get(i)
		if len(row) > copyLimit {
			row = row[:copyLimit]
		}

		data := make([]int32, cols)
		mask := make([]int32, cols)
		for j := range data {
			data[j] = defaultValue
		}

		if padRight {
			copy(data, row)
			for j := range row {
				mask[j] = 1
			}
		} else {
			offset := cols - len(row)
			copy(data[offset:], row)
			for j := offset; j < cols; j++ {
				mask[j] = 1
			}
		}

		res.Rows[i] = data
		res.Mask[i] = mask
	}

	return res
}

// SparseIndex is one (row, col) coordinate of a RaggedToSparse output.
type SparseIndex struct {
	Row, Col int32
}

// RaggedToSparse emits one (row, col) index per value in in, in row-major
// order matching in's flat Values buffer.
func RaggedToSparse(in ragged.Ints) []SparseIndex {
	var out []SparseIndex
	for i := 0; i < in.Len(); i++ {
		row := in.Get(i)
		for col := range row {
			out = append(out, SparseIndex{Row: int32(i), Col: int32(col)})
		}
	}
	return out
}

// RaggedToRagged converts a row-IDs representation (rowids[k] names which
// row the k-th value belongs to, in non-decreasing order; firstDimSize is
// the total row count) into (begins, ends) spans. A row with no entries
// gets an empty span anchored at the first value index of the next
// populated row, or at len(rowids) for a run of trailing empty rows.
func RaggedToRagged(rowids []int32, firstDimSize int) (begins, ends []int32) {
	begins = make([]int32, firstDimSize)
	ends = make([]int32, firstDimSize)
	populated := make([]bool, firstDimSize)

	start := 0
	for k := 1; k <= len(rowids); k++ {
		if k == len(rowids) || rowids[k] != rowids[start] {
			r := int(rowids[start])
			begins[r] = int32(start)
			ends[r] = int32(k)
			populated[r] = true
			start = k
		}
	}

	nextStart := int32(len(rowids))
	for row := firstDimSize - 1; row >= 0; row-- {
		if populated[row] {
			nextStart = begins[row]
			continue
		}
		begins[row] = nextStart
		ends[row] = nextStart
	}

	return begins, ends
}
