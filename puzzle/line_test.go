package puzzle

import (
	"reflect"
	"testing"
)

/*

Line solver tests.  Lines are fabricated directly so each case can
control the cell constraints exactly.

*/

// makeLine builds a free-standing line of cells that can take any of
// ncolor colors.
func makeLine(ncolor, length int) []*cell {
	cells := make([]*cell, length)
	for j := range cells {
		cells[j] = &cell{index: j, possible: allColors(ncolor), n: ncolor}
	}
	return cells
}

// pin restricts one cell of a fabricated line to a single color.
func pin(cells []*cell, j, color int) {
	cells[j].possible = singleColor(color)
	cells[j].n = 1
}

func TestLeftPlacement(t *testing.T) {
	tcs := []struct {
		name   string
		ncolor int
		length int
		runs   []Run
		pins   [][2]int // (cell, color)
		want   []int    // nil means no placement
	}{
		{"free single run", 2, 5, blackRuns(3), nil, []int{0}},
		{"run pulled right by pin", 2, 5, blackRuns(1), [][2]int{{4, 1}}, []int{4}},
		{"run too long", 2, 2, blackRuns(3), nil, nil},
		{"same color runs need a gap", 2, 5, blackRuns(2, 2), nil, []int{0, 3}},
		{"gap cannot fit", 2, 4, blackRuns(2, 2), nil, nil},
		{"different colors may abut", 3, 4,
			[]Run{{2, 1}, {2, 2}}, nil, []int{0, 2}},
		{"pinned background splits line", 2, 5, blackRuns(2), [][2]int{{1, 0}}, []int{2}},
		{"empty clue", 2, 3, nil, nil, []int{}},
		{"empty clue with pinned black", 2, 3, nil, [][2]int{{1, 1}}, nil},
	}
	for i, tc := range tcs {
		cells := makeLine(tc.ncolor, tc.length)
		for _, pn := range tc.pins {
			pin(cells, pn[0], pn[1])
		}
		got := leftPlacement(cells, tc.runs)
		if tc.want == nil {
			if got != nil {
				t.Errorf("case %d (%s): got placement %v, expected none", i+1, tc.name, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("case %d (%s): no placement, expected %v", i+1, tc.name, tc.want)
			continue
		}
		if len(tc.want) == 0 {
			if len(got) != 0 {
				t.Errorf("case %d (%s): got %v, expected empty", i+1, tc.name, got)
			}
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("case %d (%s): got %v, expected %v", i+1, tc.name, got, tc.want)
		}
	}
}

func TestRightPlacement(t *testing.T) {
	cells := makeLine(2, 5)
	if got := rightPlacement(cells, blackRuns(3)); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("rightPlacement of [3] in 5 is %v, expected [2]", got)
	}
	cells = makeLine(2, 5)
	if got := rightPlacement(cells, blackRuns(2, 2)); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Errorf("rightPlacement of [2 2] in 5 is %v, expected [0 3]", got)
	}
}

func TestLroSolve(t *testing.T) {
	// a 3-run in a 5-line forces only the center cell
	cells := makeLine(2, 5)
	tight := lroSolve(cells, blackRuns(3))
	if tight == nil {
		t.Fatalf("lroSolve found no placement for [3] in 5")
	}
	want := []colorSet{
		allColors(2), allColors(2), singleColor(1), allColors(2), allColors(2),
	}
	if !reflect.DeepEqual(tight, want) {
		t.Errorf("overlap of [3] in 5 is %v, expected %v", tight, want)
	}

	// zero slack forces the whole line
	cells = makeLine(2, 5)
	tight = lroSolve(cells, blackRuns(2, 2))
	want = []colorSet{
		singleColor(1), singleColor(1), singleColor(0),
		singleColor(1), singleColor(1),
	}
	if !reflect.DeepEqual(tight, want) {
		t.Errorf("overlap of [2 2] in 5 is %v, expected %v", tight, want)
	}

	// a pinned cell narrows the placements of the run covering it
	cells = makeLine(2, 5)
	pin(cells, 4, 1)
	tight = lroSolve(cells, blackRuns(2))
	if tight == nil {
		t.Fatalf("lroSolve found no placement for pinned [2] in 5")
	}
	// the run must cover cell 4, so it sits on cells 3 and 4
	want = []colorSet{
		singleColor(0), singleColor(0), singleColor(0),
		singleColor(1), singleColor(1),
	}
	if !reflect.DeepEqual(tight, want) {
		t.Errorf("overlap of pinned [2] in 5 is %v, expected %v", tight, want)
	}

	// contradiction: no placement at all
	cells = makeLine(2, 2)
	if got := lroSolve(cells, blackRuns(3)); got != nil {
		t.Errorf("lroSolve of [3] in 2 returned %v, expected nil", got)
	}

	// three colors: differently colored runs abutting exactly
	cells = makeLine(3, 4)
	tight = lroSolve(cells, []Run{{2, 1}, {2, 2}})
	want = []colorSet{
		singleColor(1), singleColor(1), singleColor(2), singleColor(2),
	}
	if !reflect.DeepEqual(tight, want) {
		t.Errorf("overlap of [2/1 2/2] in 4 is %v, expected %v", tight, want)
	}
}

// A second pass over a quiescent line changes nothing: the overlap
// computation is a fixed point.
func TestLroIdempotent(t *testing.T) {
	cells := makeLine(2, 7)
	pin(cells, 3, 1)
	runs := blackRuns(2, 1)
	first := lroSolve(cells, runs)
	if first == nil {
		t.Fatalf("lroSolve found no placement")
	}
	for j := range cells {
		cells[j].possible &= first[j]
		cells[j].n = cells[j].possible.count()
	}
	second := lroSolve(cells, runs)
	if second == nil {
		t.Fatalf("second lroSolve found no placement")
	}
	for j := range cells {
		if cells[j].possible&second[j] != cells[j].possible {
			t.Errorf("cell %d tightened again on the second pass: %v -> %v",
				j, cells[j].possible.colors(), (cells[j].possible & second[j]).colors())
		}
	}
}
