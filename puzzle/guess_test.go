package puzzle

import (
	"testing"
)

/*

Heuristic guess tests

*/

func TestCountNeighbors(t *testing.T) {
	s := newTestSolver(t, rooksSummary, DefaultOptions())
	p := s.puz

	// edges count as solved neighbors in all four directions
	tcs := []struct {
		i, j int
		want int
	}{
		{0, 0, 2}, // two edges
		{0, 1, 1}, // one edge
		{1, 1, 0}, // interior, nothing solved
		{2, 2, 2}, // two edges
	}
	for n, tc := range tcs {
		if got := s.countNeighbors(tc.i, tc.j); got != tc.want {
			t.Errorf("case %d: countNeighbors(%d,%d) is %d, expected %d",
				n+1, tc.i, tc.j, got, tc.want)
		}
	}

	// solving a cell raises its neighbors' counts
	c := p.lines[DirRow][0][1]
	c.possible, c.n = singleColor(0), 1
	p.nsolved++
	if got := s.countNeighbors(1, 1); got != 1 {
		t.Errorf("countNeighbors(1,1) is %d after solving (0,1), expected 1", got)
	}
	if got := s.countNeighbors(0, 0); got != 3 {
		t.Errorf("countNeighbors(0,0) is %d after solving (0,1), expected 3", got)
	}
}

func TestPickCellPrefersNeighbors(t *testing.T) {
	s := newTestSolver(t, rooksSummary, DefaultOptions())
	p := s.puz

	// with everything free, the first corner wins (two edges)
	if c := s.pickCell(); c == nil || c.pos != [2]int{0, 0} {
		t.Errorf("pickCell chose %v, expected the first corner", c)
	}

	// a cell with all four neighbors solved is taken on the spot
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == 1 && j == 1 {
				continue
			}
			c := p.lines[DirRow][i][j]
			c.possible, c.n = singleColor(0), 1
			p.nsolved++
		}
	}
	if c := s.pickCell(); c == nil || c.pos != [2]int{1, 1} {
		t.Errorf("pickCell chose %v, expected the surrounded center", c)
	}
}

func TestRatingPolicies(t *testing.T) {
	p, e := New(plusSummary)
	if e != nil {
		t.Fatalf("Failed to create plus puzzle: %v", e)
	}
	if got := rateSimple(p, 0, 0); got != 0 {
		t.Errorf("simple rating is %v, expected 0", got)
	}
	// adhoc: row 2 and column 2 have no slack and one run each, so
	// (2,2) rates far better (lower) than the slack-4 corner
	if corner, center := rateAdhoc(p, 0, 0), rateAdhoc(p, 2, 2); center >= corner {
		t.Errorf("adhoc rates center %v >= corner %v", center, corner)
	}
	// math agrees: fewer placements rate lower
	if corner, center := rateMath(p, 0, 0), rateMath(p, 2, 2); center >= corner {
		t.Errorf("math rates center %v >= corner %v", center, corner)
	}
	// zero-slack single-run lines admit exactly one placement
	if got := rateMath(p, 2, 2); got != 0 {
		t.Errorf("math rating of a forced line is %v, expected 0", got)
	}
}

// threeColorSummary is a 3x3 three-color puzzle with one green
// given, used to tell the color policies apart.
func threeColorSummary() *Summary {
	return &Summary{
		Colors: []ColorDef{
			{Name: "white", Char: "."},
			{Name: "red", Char: "r"},
			{Name: "green", Char: "g"},
		},
		Rows:   [][]Run{{{1, 2}}, {}, {}},
		Cols:   [][]Run{{}, {{1, 2}}, {}},
		Givens: []Given{{Row: 0, Col: 1, Color: 2}},
	}
}

func TestColorPolicies(t *testing.T) {
	p, e := New(threeColorSummary())
	if e != nil {
		t.Fatalf("Failed to create three-color puzzle: %v", e)
	}
	allowed := []int{0, 1, 2}
	if got := colorMax(p, 1, 1, allowed, nil); got != 2 {
		t.Errorf("max picked %d, expected 2", got)
	}
	if got := colorMin(p, 1, 1, allowed, nil); got != 0 {
		t.Errorf("min picked %d, expected 0", got)
	}
	// contrast at (1,1): the solved green neighbor above rejects
	// white and red but accepts green, so green scores worst and
	// white (first of the tied best) wins
	if got := colorContrast(p, 1, 1, allowed, nil); got != 0 {
		t.Errorf("contrast picked %d, expected 0", got)
	}
	// at the top-left corner the border behaves as background, so
	// red and green clash with more neighbors than white does; red
	// also clashes with the green cell beside it
	if got := colorContrast(p, 0, 0, allowed, nil); got != 1 {
		t.Errorf("contrast picked %d at the corner, expected 1", got)
	}
}

// The configured color policy drives the first guess: the same
// puzzle state guesses differently under contrast and max.
func TestColorPolicySelection(t *testing.T) {
	first := func(color string) Choice {
		p, e := New(threeColorSummary())
		if e != nil {
			t.Fatalf("Failed to create three-color puzzle: %v", e)
		}
		opts := heuristicOptions()
		opts.Color = color
		s, e := NewSolver(p, opts)
		if e != nil {
			t.Fatalf("Failed to create solver: %v", e)
		}
		p.flushJobs() // guess from the raw state, no propagation
		choice, e := s.Guess()
		if e != nil {
			t.Fatalf("Guess with %q policy failed: %v", color, e)
		}
		return choice
	}
	contrast := first("contrast")
	max := first("max")
	if contrast.Row != max.Row || contrast.Col != max.Col {
		t.Fatalf("Policies picked different cells: %+v vs %+v", contrast, max)
	}
	if contrast.Color == max.Color {
		t.Errorf("Both policies picked color %d from the same cell", contrast.Color)
	}
}

func TestRandColorPolicy(t *testing.T) {
	s := newTestSolver(t, rooksSummary, DefaultOptions())
	allowed := []int{0, 1}
	for i := 0; i < 10; i++ {
		got := colorRand(s.puz, 0, 0, allowed, s.rng)
		if got != 0 && got != 1 {
			t.Fatalf("rand picked %d, not an allowed color", got)
		}
	}
}
