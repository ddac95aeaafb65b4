package puzzle

/*

Try everything

A desperate last gasp before guessing: for every remaining color of
every unsolved cell, tentatively set the cell to that color and ask
whether each crossing line still has a leftmost placement.  A line
with none proves the color impossible, and it is removed for good.
This covers for the inadequacies of the overlap line solver, which
only reasons about one line at a time; it is not fast, but it keeps
the solver from guessing while logic can still get somewhere.

The pass runs only when nothing speculative is outstanding, so the
eliminations are permanent and no history is recorded.

*/

// tryEverything returns the number of color eliminations it made.
// Any elimination requeues the cell's crossing lines, so propagation
// has work to do when the count is positive.
func (s *Solver) tryEverything() int {
	p := s.puz
	hits := 0
	s.counts.ExhaustRuns++

	for i := 0; i < p.n[DirRow]; i++ {
	cells:
		for j := 0; j < p.n[DirCol]; j++ {
			c := p.lines[DirRow][i][j]
			if c.n == 1 {
				continue
			}

			// save the cell, then trial each of its colors in turn
			realbits := c.possible
			realn := c.n
			for color := 0; color < p.ncolor; color++ {
				if !realbits.has(color) {
					continue
				}
				c.possible = singleColor(color)
				c.n = 1
				for dir := DirRow; dir <= DirCol; dir++ {
					line := p.lines[dir][c.pos[dir]]
					if leftPlacement(line, p.clues[dir][c.pos[dir]].runs) != nil {
						// the line still works; we learned nothing
						continue
					}
					// contradiction: the color is impossible
					hits++
					s.counts.ExhaustHits++
					realbits = realbits.without(color)
					realn--
					p.addJobs(c, -1)
					if realn == 1 {
						p.nsolved++
						c.possible = realbits
						c.n = realn
						continue cells
					}
					break // no need to check the other direction
				}
			}
			c.possible = realbits
			c.n = realn
		}
	}
	return hits
}
