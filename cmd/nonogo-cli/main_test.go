package main

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/nonogo/nonogo.go/puzzle"
)

// runHandler captures one handler's output in a temp file.
func runHandler(t *testing.T, handler func(*os.File, *request), r *request) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "cli-out")
	if err != nil {
		t.Fatalf("Couldn't create output file: %v", err)
	}
	defer f.Close()
	handler(f, r)
	bytes, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("Couldn't read handler output: %v", err)
	}
	return string(bytes)
}

func TestSummaryFromGrid(t *testing.T) {
	sum := summaryFromGrid("t", "test", blackWhite, []string{
		".X.",
		"XXX",
	})
	wantRows := [][]puzzle.Run{
		{{Length: 1, Color: 1}},
		{{Length: 3, Color: 1}},
	}
	wantCols := [][]puzzle.Run{
		{{Length: 1, Color: 1}},
		{{Length: 2, Color: 1}},
		{{Length: 1, Color: 1}},
	}
	if !reflect.DeepEqual(sum.Rows, wantRows) {
		t.Errorf("Rows are %v, expected %v", sum.Rows, wantRows)
	}
	if !reflect.DeepEqual(sum.Cols, wantCols) {
		t.Errorf("Cols are %v, expected %v", sum.Cols, wantCols)
	}
}

func TestSummaryCommand(t *testing.T) {
	defer func() { current, currentSum, lastCounts = nil, nil, nil }()

	out := runHandler(t, summaryHandler, &request{command: "summary"})
	if !strings.Contains(out, "no puzzle loaded") {
		t.Errorf("summary with no puzzle printed %q", out)
	}

	currentSum = samples["plus"]
	out = runHandler(t, summaryHandler, &request{command: "summary"})
	for _, want := range []string{"Plus sign: 5 rows, 5 columns.", "Rows:", "Columns:", "0: 1", "2: 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output %q is missing %q", out, want)
		}
	}
	// every foreground color carries its character in a
	// multicolor summary
	currentSum = samples["flag"]
	out = runHandler(t, summaryHandler, &request{command: "summary"})
	if !strings.Contains(out, "6r") || !strings.Contains(out, "2r 2g") {
		t.Errorf("flag summary output %q is missing colored runs", out)
	}
}

func TestUniqueCommand(t *testing.T) {
	defer func() { current, currentSum, lastCounts = nil, nil, nil }()

	out := runHandler(t, uniqueHandler, &request{command: "unique"})
	if !strings.Contains(out, "no puzzle loaded") {
		t.Errorf("unique with no puzzle printed %q", out)
	}

	currentSum = samples["plus"]
	out = runHandler(t, uniqueHandler, &request{command: "unique"})
	if !strings.Contains(out, "The solution is unique.") {
		t.Errorf("unique on the plus puzzle printed %q", out)
	}
	if lastCounts == nil {
		t.Errorf("unique didn't record solve counters")
	}

	// an ambiguous puzzle reports the second solution
	currentSum = summaryFromGrid("amb", "Ambiguous", blackWhite, []string{
		"X.",
		".X",
	})
	out = runHandler(t, uniqueHandler, &request{command: "unique"})
	if !strings.Contains(out, "not unique") {
		t.Errorf("unique on an ambiguous puzzle printed %q", out)
	}
}

// Every built-in puzzle loads and solves back to the picture it was
// drawn from.
func TestSamplesSolve(t *testing.T) {
	for name, sum := range samples {
		p, err := puzzle.New(sum)
		if err != nil {
			t.Errorf("Sample %q didn't load: %v", name, err)
			continue
		}
		res, err := puzzle.Solve(p, puzzle.DefaultOptions())
		if err != nil {
			t.Errorf("Sample %q didn't solve: %v", name, err)
			continue
		}
		if res.Status != puzzle.StatusSolved {
			t.Errorf("Sample %q finished %v", name, res.Status)
			continue
		}
		if !p.Check() {
			t.Errorf("Sample %q solution doesn't satisfy its clues:\n%v", name, p)
		}
	}
}
