package puzzle

/*

Probe merge buffer

While the solver probes a cell, each possible color of the cell is
tried in turn; call each trial a sibling.  A consequence reached by
every sibling holds no matter which color the cell finally takes, so
it is a fact.  The buffer tracks, per cell touched during the
siblings, the set of colors eliminated in every sibling so far, plus
the last sibling that contributed.  Folding a sibling's
contributions happens after the trial is undone, when every cell is
back at its pre-probe state; a cell untouched by some sibling kept
its pre-probe colors through that sibling, so only colors already
outside the pre-probe set count as eliminated there.

Merging is all-or-nothing for one probed cell: a sibling that is
skipped (its consequences are a subset of an earlier probe's) leaves
the remaining siblings unable to speak for every alternative, so a
cancel discards the whole buffer and disables merging until the next
probed cell.

*/

// A mergeElem accumulates one touched cell's eliminations.
type mergeElem struct {
	cell *cell
	acc  colorSet // colors eliminated by every folded sibling
	last int      // index of the last sibling folded in
}

// mergeReset clears the buffer and re-arms merging for a new probed
// cell.
func (s *Solver) mergeReset() {
	s.merging = s.opts.MergeProbe
	s.mergeAcc = nil
	s.mergeCur = nil
	s.mergePending = false
	s.mergeSibs = 0
	if s.merging {
		s.mergeAcc = make(map[int]*mergeElem)
		s.mergeCur = make(map[int]colorSet)
	}
}

// mergeGuess opens the next sibling, folding the previous one first.
// Called just before each sibling probe is made.
func (s *Solver) mergeGuess() {
	if !s.merging {
		return
	}
	s.mergeFold()
	s.mergePending = true
}

// mergeCancel discards the current sibling's contributions and
// disables merging for the rest of this probed cell.
func (s *Solver) mergeCancel() {
	s.merging = false
	s.mergeAcc = nil
	s.mergeCur = nil
	s.mergePending = false
	s.mergeSibs = 0
}

// mergeFold commits the pending sibling: its per-cell final color
// sets, recorded by setCell into mergeCur, are intersected into the
// accumulated eliminations.  Must run when the trial has been undone
// and every cell is back at its pre-probe state.
func (s *Solver) mergeFold() {
	if !s.merging || !s.mergePending {
		return
	}
	s.mergeSibs++
	all := allColors(s.puz.ncolor)
	for idx, post := range s.mergeCur {
		c := &s.puz.cells[idx]
		elim := all &^ post
		e := s.mergeAcc[idx]
		if e == nil {
			e = &mergeElem{cell: c, acc: all}
			if s.mergeSibs > 1 {
				// earlier siblings never touched this cell
				e.acc = all &^ c.possible
			}
			s.mergeAcc[idx] = e
		} else if e.last < s.mergeSibs-1 {
			// some sibling in between never touched this cell
			e.acc &= all &^ c.possible
		}
		e.acc &= elim
		e.last = s.mergeSibs
		delete(s.mergeCur, idx)
	}
	s.mergePending = false
}

// mergeCheck runs after the last sibling of a probed cell.  Any cell
// whose accumulated eliminations cover every sibling yields facts:
// those colors are inconsistent with every color the probed cell can
// take, so they are removed for good.  Returns true when at least
// one color was eliminated.
func (s *Solver) mergeCheck() bool {
	if !s.merging {
		return false
	}
	s.mergeFold()
	found := false
	for _, e := range s.mergeAcc {
		if e.last != s.mergeSibs {
			continue
		}
		elim := e.acc & e.cell.possible
		if elim == 0 {
			continue
		}
		found = true
		s.setCell(e.cell, e.cell.possible&^elim, -1)
	}
	s.mergeAcc = nil
	s.mergeCur = nil
	s.mergeSibs = 0
	s.mergePending = false
	return found
}
