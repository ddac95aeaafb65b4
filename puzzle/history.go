package puzzle

/*

Undo history

The history is a LIFO log of per-cell prior states.  Recording is
off until the first guess: facts deduced with no speculation
outstanding are permanent and need no undo.  A guess pushes an entry
with the branch flag set; every later mutation pushes a plain entry.
Undo pops entries in reverse, so the stack is the ground-truth
serialization of the mutation order.

*/

// A histEntry is a cell's state before one mutation, plus a flag
// marking speculative branch points.
type histEntry struct {
	cell     *cell
	n        int
	possible colorSet
	branch   bool
}

// addHist records a cell's current state ahead of a mutation.  A
// branch entry turns recording on; plain entries are dropped while
// recording is off.
func (p *Puzzle) addHist(c *cell, branch bool) {
	if branch {
		p.logging = true
		p.nbranch++
	} else if !p.logging {
		return
	}
	p.history = append(p.history, histEntry{c, c.n, c.possible, branch})
}

// restore puts one entry's cell back to its recorded state, keeping
// the solved counter in step.  Mutations only shrink possible sets,
// so a restore can only unsolve a cell, never solve one.
func (p *Puzzle) restore(h histEntry) {
	if h.cell.n == 1 && h.n > 1 {
		p.nsolved--
	}
	h.cell.n = h.n
	h.cell.possible = h.possible
}

// undoOneLevel pops entries up to and including the most recent
// branch, restoring each cell.  It reports false if the history
// holds no branch.
func (p *Puzzle) undoOneLevel() bool {
	for len(p.history) > 0 {
		h := p.history[len(p.history)-1]
		p.history = p.history[:len(p.history)-1]
		p.restore(h)
		if h.branch {
			p.nbranch--
			if p.nbranch == 0 {
				p.logging = false
			}
			return true
		}
	}
	return false
}

// backtrack responds to a contradiction: it flushes the job queue,
// rewinds to the most recent branch, and inverts the guess made
// there, removing the guessed color from the cell instead of
// restoring it.  An inversion that empties the cell means the
// alternatives at that branch are exhausted too, so backtracking
// continues to the branch before it.  Returns false when no branch
// is left to invert, i.e. the puzzle has no solution.
func (p *Puzzle) backtrack() bool {
	p.flushJobs()
	for {
		// rewind plain entries to reach the branch
		var h histEntry
		found := false
		for len(p.history) > 0 {
			h = p.history[len(p.history)-1]
			p.history = p.history[:len(p.history)-1]
			if h.branch {
				found = true
				break
			}
			p.restore(h)
		}
		if !found {
			return false
		}
		p.nbranch--

		// the cell now holds exactly the guessed color; invert
		guessed := h.cell.possible
		inverted := h.possible &^ guessed
		if inverted == 0 {
			// every alternative at this branch is gone; restore the
			// cell and take the backtrack one branch further
			p.restore(h)
			if p.nbranch == 0 {
				p.logging = false
				p.history = p.history[:0]
			}
			continue
		}

		if p.nbranch > 0 {
			// the inversion itself is speculative relative to the
			// outer branches, so it must be undoable
			p.history = append(p.history, histEntry{h.cell, h.n, h.possible, false})
		} else {
			// no speculation left: the inversion is permanent
			p.logging = false
			p.history = p.history[:0]
		}
		h.cell.possible = inverted
		h.cell.n = inverted.count()
		if h.cell.n > 1 {
			p.nsolved--
		}
		p.addJobs(h.cell, -1)
		return true
	}
}
