package ragged

import "testing"

func intsFromRows(rows [][]int32) Ints {
	var b IntsBuilder
	for _, row := range rows {
		b.Add(row)
	}
	return b.Build()
}

func TestRaggedToDensePadRight(t *testing.T) {
	r := intsFromRows([][]int32{{1, 2, 3}, {4}})
	res := RaggedToDense(r, 4, RaggedToDenseOptions{PadRight: true, PadValue: 0})

	want := [][]int32{{1, 2, 3, 0}, {4, 0, 0, 0}}
	for i, row := range want {
		for j, v := range row {
			if res.Values[i][j] != v {
				t.Fatalf("row %d: got %v want %v", i, res.Values[i], row)
			}
		}
	}
	if !res.Mask[0][2] || res.Mask[0][3] {
		t.Fatalf("row 0 mask: got %v", res.Mask[0])
	}
}

func TestRaggedToDensePadLeft(t *testing.T) {
	r := intsFromRows([][]int32{{1, 2}})
	res := RaggedToDense(r, 4, RaggedToDenseOptions{PadRight: false, PadValue: 9})

	want := []int32{9, 9, 1, 2}
	for j, v := range want {
		if res.Values[0][j] != v {
			t.Fatalf("got %v want %v", res.Values[0], want)
		}
	}
	if res.Mask[0][0] || res.Mask[0][1] || !res.Mask[0][2] || !res.Mask[0][3] {
		t.Fatalf("mask: got %v", res.Mask[0])
	}
}

func TestRaggedToDenseTruncates(t *testing.T) {
	r := intsFromRows([][]int32{{1, 2, 3, 4, 5}})
	res := RaggedToDense(r, 3, RaggedToDenseOptions{PadRight: true})

	want := []int32{1, 2, 3}
	for j, v := range want {
		if res.Values[0][j] != v {
			t.Fatalf("got %v want %v", res.Values[0], want)
		}
	}
}

func TestRaggedToSparse(t *testing.T) {
	r := intsFromRows([][]int32{{1, 2}, {}, {3}})
	res := RaggedToSparse(r)

	wantIdx := [][2]int32{{0, 0}, {0, 1}, {2, 0}}
	wantVal := []int32{1, 2, 3}

	if len(res.Indices) != len(wantIdx) {
		t.Fatalf("got %d indices, want %d", len(res.Indices), len(wantIdx))
	}
	for i := range wantIdx {
		if res.Indices[i] != wantIdx[i] || res.Values[i] != wantVal[i] {
			t.Fatalf("entry %d: got idx=%v val=%d, want idx=%v val=%d", i, res.Indices[i], res.Values[i], wantIdx[i], wantVal[i])
		}
	}
}

func TestRaggedToRagged(t *testing.T) {
	// rowids says values 0,1 belong to row 0, value 2 belongs to row 2;
	// row 1 has no entries and should borrow row 2's begin index.
	rowids := []int32{0, 0, 2}
	begins, ends := RaggedToRagged(rowids, 4)

	wantBegins := []int32{0, 2, 2, 3}
	wantEnds := []int32{2, 2, 3, 3}

	for i := range wantBegins {
		if begins[i] != wantBegins[i] || ends[i] != wantEnds[i] {
			t.Fatalf("row %d: got begin=%d end=%d, want begin=%d end=%d", i, begins[i], ends[i], wantBegins[i], wantEnds[i])
		}
	}
}
