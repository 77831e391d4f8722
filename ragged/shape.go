package ragged

// DenseResult is RaggedToDense's output: a padded/truncated (numRows x
// targetDim) grid of int32 IDs plus a parallel boolean attention mask.
type DenseResult struct {
	Values [][]int32
	Mask   [][]bool
}

// RaggedToDenseOptions mirrors the operator's attributes; PadRight
// overrides come from a runtime tensor when PadRightOverride is non-nil.
type RaggedToDenseOptions struct {
	PadRight         bool
	PadMaxLength     bool
	PadValue         int32
	PadRightOverride *bool
}

// RaggedToDense pads or truncates each row of r to targetDim.
//
// Each row copies min(rowLen, targetDim) values and fills the rest of its
// targetDim columns with PadValue. PadMaxLength is not read: the output is
// the same full-width [][]int32 for either setting.
func RaggedToDense(r Ints, targetDim int, opts RaggedToDenseOptions) DenseResult {
	padRight := opts.PadRight
	if opts.PadRightOverride != nil {
		padRight = *opts.PadRightOverride
	}

	res := DenseResult{
		Values: make([][]int32, r.Len()),
		Mask:   make([][]bool, r.Len()),
	}

	for i := 0; i < r.Len(); i++ {
		row := r.Get(i)
		n := min(len(row), targetDim)

		values := make([]int32, targetDim)
		mask := make([]bool, targetDim)
		for k := range values {
			values[k] = opts.PadValue
		}

		if padRight {
			copy(values[:n], row[:n])
			for k := 0; k < n; k++ {
				mask[k] = true
			}
		} else {
			offset := targetDim - n
			copy(values[offset:], row[:n])
			for k := offset; k < targetDim; k++ {
				mask[k] = true
			}
		}

		res.Values[i] = values
		res.Mask[i] = mask
	}

	return res
}

// SparseResult is RaggedToSparse's output: a (total_values, 2) (row, col)
// index list plus the flattened values in the same order.
type SparseResult struct {
	Indices [][2]int32
	Values  []int32
}

// RaggedToSparse emits one (row, col) index per value, in row-major order.
func RaggedToSparse(r Ints) SparseResult {
	var res SparseResult
	for i := 0; i < r.Len(); i++ {
		row := r.Get(i)
		for col, v := range row {
			res.Indices = append(res.Indices, [2]int32{int32(i), int32(col)})
			res.Values = append(res.Values, v)
		}
	}
	return res
}

// RaggedToRagged converts a row-IDs representation (rowids[k] names the
// row each flat value k belongs to, values are monotonically
// non-decreasing) into (begins, ends). Rows with no entries get empty
// spans anchored at the first value index of the next populated row, or
// at len(rowids) for trailing empty rows.
func RaggedToRagged(rowids []int32, firstDimSize int) (begins, ends []int32) {
	begins = make([]int32, firstDimSize)
	ends = make([]int32, firstDimSize)

	// Walk rows back to front so an empty row can borrow the begin index
	// of the next non-empty (or end-of-buffer) row.
	next := int32(len(rowids))
	row := firstDimSize - 1
	for k := len(rowids) - 1; k >= 0; {
		r := int(rowids[k])
		for ; row > r; row-- {
			begins[row] = next
			ends[row] = next
		}

		end := int32(k + 1)
		for k >= 0 && rowids[k] == int32(r) {
			k--
		}
		begins[r] = int32(k + 1)
		ends[r] = end
		next = begins[r]
		row = r - 1
	}
	for ; row >= 0; row-- {
		begins[row] = next
		ends[row] = next
	}

	return begins, ends
}
