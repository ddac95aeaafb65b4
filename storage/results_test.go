package storage

import (
	"encoding/json"
	"testing"

	"github.com/nonogo/nonogo.go/puzzle"
)

// The backends need live Redis and Postgres servers, so these tests
// only cover the pure pieces: digests and record construction.

func testSummary() *puzzle.Summary {
	return &puzzle.Summary{
		ID:     "t1",
		Colors: []puzzle.ColorDef{{Name: "white", Char: "."}, {Name: "black", Char: "X"}},
		Rows:   [][]puzzle.Run{{{Length: 1, Color: 1}}},
		Cols:   [][]puzzle.Run{{{Length: 1, Color: 1}}},
	}
}

func TestDigest(t *testing.T) {
	sum := testSummary()
	d1, err := Digest(sum)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if len(d1) != 64 {
		t.Errorf("Digest is %d characters, expected 64", len(d1))
	}
	d2, err := Digest(sum)
	if err != nil || d1 != d2 {
		t.Errorf("Digest is not stable: %q then %q (%v)", d1, d2, err)
	}

	// a preset cell changes the key
	sum.Givens = []puzzle.Given{{Row: 0, Col: 0, Color: 1}}
	d3, err := Digest(sum)
	if err != nil {
		t.Fatalf("Digest with given failed: %v", err)
	}
	if d3 == d1 {
		t.Errorf("Digest ignored the preset cell")
	}
}

func TestNewSolveRecord(t *testing.T) {
	res := puzzle.Result{
		Status:      puzzle.StatusSolved,
		Unique:      true,
		UniqueKnown: true,
		Counts:      puzzle.Counts{Lines: 7, Guesses: 1},
	}
	rec := NewSolveRecord("abc", res, "X")
	if rec.Digest != "abc" || rec.Status != "solved" || rec.Unique != "true" ||
		rec.Grid != "X" || rec.Saved == "" {
		t.Errorf("Record is wrong: %+v", rec)
	}
	var counts puzzle.Counts
	if err := json.Unmarshal([]byte(rec.Counts), &counts); err != nil {
		t.Fatalf("Counters don't parse: %v", err)
	}
	if counts.Lines != 7 || counts.Guesses != 1 {
		t.Errorf("Counters round-tripped to %+v", counts)
	}

	// an unchecked solve leaves the uniqueness field empty
	rec = NewSolveRecord("abc", puzzle.Result{Status: puzzle.StatusStuck}, "")
	if rec.Unique != "" || rec.Status != "stuck" {
		t.Errorf("Unchecked record is wrong: %+v", rec)
	}
}
