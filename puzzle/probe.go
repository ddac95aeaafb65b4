package puzzle

import "fmt"

/*

Probing

A probe is a trial: set one cell to one color, propagate, measure
how much of the puzzle the trial settles, and undo it.  A probe
sequence runs trials over the candidate cells and keeps the
best-scoring (cell, color) pair as the guess to commit.  Two
shortcuts can end a sequence early: a trial that contradicts proves
its color impossible, and the merge buffer can surface consequences
common to every trial on a cell.  Either way a fact has been learned
without guessing.

The probe pad suppresses redundant trials.  Every color a cell is
set to in the course of a sequence is ORed into the pad; a later
trial assigning one of those (cell, color) pairs would only re-derive
a subset of the earlier trial's consequences, so it is skipped.

*/

type probeKind int

const (
	probeGuess  probeKind = iota // best guess found, nothing committed
	probeFact                    // a necessary consequence was set
	probeSolved                  // a trial solved the whole puzzle
)

type probeResult struct {
	kind  probeKind
	cell  *cell
	color int
}

// initProbePad creates or clears the pad.
func (s *Solver) initProbePad() {
	if s.probePad == nil {
		s.probePad = make([]colorSet, s.puz.ncells)
		return
	}
	for i := range s.probePad {
		s.probePad[i] = 0
	}
}

// padProbe records the settled cells of a completed trial in the
// pad.  Must run after propagation and before the trial is undone:
// it walks the history down to the trial's branch entry and ORs in
// the single color of every cell the trial solved.
func (s *Solver) padProbe() {
	hist := s.puz.history
	for k := len(hist) - 1; k >= 0; k-- {
		h := hist[k]
		if h.cell.n == 1 {
			s.probePad[h.cell.index] |= h.cell.possible
		}
		if h.branch {
			return
		}
	}
}

// probeCell runs one trial per remaining color of a cell.  best
// carries the running best guess across calls and is updated in
// place.  The returned kind is probeGuess both when a better guess
// was found and when none was; probeFact and probeSolved end the
// whole sequence.
func (s *Solver) probeCell(c *cell, best *bestProbe) probeResult {
	p := s.puz
	s.mergeReset()

	for color := 0; color < p.ncolor; color++ {
		if !c.mayBe(color) {
			continue
		}
		if s.probePad[c.index].has(color) {
			// a prior trial already settled this cell to this color;
			// its consequences are a subset of that trial's, so skip
			// it, at the price of not merging on this cell
			s.mergeCancel()
			continue
		}

		s.counts.Probes++
		s.mergeGuess()
		s.guessCell(c, color)

		if s.LogicSolve() == Contradiction {
			// what luck: the color is impossible, which is a fact
			s.mergeCancel()
			if !p.backtrack() {
				// we just made a guess, so there is a branch
				panic(fmt.Sprintf("could not backtrack after probe on cell (%d,%d)",
					c.pos[DirRow], c.pos[DirCol]))
			}
			s.counts.Backtracks++
			s.probing = false
			return probeResult{kind: probeFact, cell: c, color: color}
		}

		if p.Solved() {
			s.mergeCancel()
			s.probing = false
			return probeResult{kind: probeSolved}
		}

		// trial complete: score it, bank its settled cells in the
		// pad, and undo it
		left := p.ncells - p.nsolved
		if left < best.left {
			best.left = left
			best.cell = c
			best.color = color
		}
		s.padProbe()
		p.undoOneLevel()
	}

	// anything every trial on this cell agreed on is a fact
	if s.mergeCheck() {
		s.counts.Merges++
		s.probing = false
		return probeResult{kind: probeFact, cell: c, color: -1}
	}
	return probeResult{kind: probeGuess}
}

type bestProbe struct {
	left  int
	cell  *cell
	color int
}

// probe runs a full probe sequence and returns either the guess
// that made the most progress, a fact that was set, or the solved
// puzzle.
func (s *Solver) probe() probeResult {
	p := s.puz
	s.initProbePad()
	s.probing = true
	best := bestProbe{left: int(^uint(0) >> 1)}

	// Neighborhood pass: cells changed since the last guess are
	// where the action is, so trial their unsolved neighbors first.
	if s.opts.ProbeLevel > 1 {
		for k := len(p.history) - 1; k >= 0; k-- {
			h := p.history[k]
			ci, cj := h.cell.pos[DirRow], h.cell.pos[DirCol]
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				i, j := ci+d[0], cj+d[1]
				if i < 0 || i >= p.n[DirRow] || j < 0 || j >= p.n[DirCol] {
					continue
				}
				nc := p.lines[DirRow][i][j]
				if nc.n < 2 {
					continue
				}
				if res := s.probeCell(nc, &best); res.kind != probeGuess {
					return res
				}
			}
			if h.branch {
				// reached the cell of the last guess
				break
			}
		}
	}

	// Full pass: every unsolved cell with two or more solved (or
	// off-grid) neighbors.
	for i := 0; i < p.n[DirRow]; i++ {
		for j := 0; j < p.n[DirCol]; j++ {
			c := p.lines[DirRow][i][j]
			if c.n < 2 {
				continue
			}
			if s.countNeighbors(i, j) < 2 {
				continue
			}
			if res := s.probeCell(c, &best); res.kind != probeGuess {
				return res
			}
		}
	}

	s.probing = false
	if best.cell == nil {
		panic(fmt.Sprintf("found no cells to probe on with %d of %d cells solved",
			p.nsolved, p.ncells))
	}
	return probeResult{kind: probeGuess, cell: best.cell, color: best.color}
}
