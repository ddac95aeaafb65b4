package puzzle

import (
	"fmt"
	"math/rand"
)

/*

Search driver

The solver alternates two activities.  Propagation drains the job
queue through the line solver until the puzzle is quiescent or some
line is contradictory.  When quiescence leaves unsolved cells, the
driver speculates: the try-everything pass first if it is enabled
and nothing speculative is outstanding, then either a probing pass
or a single heuristic guess.  A contradiction backtracks to the most
recent guess and inverts it; running out of guesses to invert proves
the puzzle unsolvable.

*/

// A Solver bundles one puzzle with the solve configuration, the
// instrumentation counters, and the scratch state used by probing
// and merging.  Nothing here is shared between goroutines; a Solver
// drives exactly one puzzle on one goroutine.
type Solver struct {
	puz    *Puzzle
	opts   Options
	counts Counts

	rate  RatingFunc
	color ColorFunc
	rng   *rand.Rand

	probing bool
	merging bool

	probePad []colorSet

	// merge buffer state, see merge.go
	mergeAcc     map[int]*mergeElem
	mergeCur     map[int]colorSet
	mergePending bool
	mergeSibs    int
}

// NewSolver prepares a solver for one puzzle.  The rating and color
// policy names in the options are resolved against the registries;
// an unknown name is an Error.
func NewSolver(p *Puzzle, opts Options) (*Solver, error) {
	s := &Solver{puz: p, opts: opts}
	name := opts.Rating
	if name == "" {
		name = "adhoc"
	}
	rate, ok := lookupRating(name)
	if !ok {
		return nil, argError(RatingAttribute, UnknownPolicyCondition, name)
	}
	name = opts.Color
	if name == "" {
		name = "contrast"
	}
	color, ok := lookupColor(name)
	if !ok {
		return nil, argError(ColorPolicyAttribute, UnknownPolicyCondition, name)
	}
	s.rate, s.color = rate, color
	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}
	s.rng = rand.New(rand.NewSource(seed))
	return s, nil
}

// Counts returns a copy of the instrumentation counters.
func (s *Solver) Counts() Counts { return s.counts }

// Puzzle returns the puzzle the solver is driving.
func (s *Solver) Puzzle() *Puzzle { return s.puz }

// setCell tightens one cell to the given non-empty color set,
// recording the prior state, keeping the counters in step, feeding
// the merge buffer when a probe sibling is being merged, and
// queueing the crossing lines.  except names a direction whose line
// is already being worked and need not be requeued; pass -1 to
// queue them all.
func (s *Solver) setCell(c *cell, nb colorSet, except Direction) {
	p := s.puz
	p.addHist(c, false)
	if s.merging && s.mergePending {
		s.mergeCur[c.index] = nb
	}
	oldn := c.n
	c.possible = nb
	c.n = nb.count()
	if c.n == 1 && oldn > 1 {
		p.nsolved++
	}
	p.addJobs(c, except)
}

// guessCell commits a speculative single-color assignment: a branch
// entry in the history, the cell set to just that color, and the
// crossing lines queued.
func (s *Solver) guessCell(c *cell, color int) {
	p := s.puz
	p.addHist(c, true)
	c.possible = singleColor(color)
	c.n = 1
	p.nsolved++
	p.addJobs(c, -1)
}

// LogicSolve finds all logical consequences of the current puzzle
// state by draining the job queue through the line solver.  It
// returns Contradiction as soon as any line admits no placement,
// Quiescent when the queue empties.  Running it twice in a row
// changes nothing: a quiescent puzzle is a fixed point.
func (s *Solver) LogicSolve() Propagation {
	p := s.puz
	if !s.opts.LineSolve {
		p.flushJobs()
		return Quiescent
	}
	for {
		dir, i, ok := p.nextJob()
		if !ok {
			return Quiescent
		}
		s.counts.Lines++
		if s.solveLine(dir, i) == Contradiction {
			return Contradiction
		}
	}
}

// Guess returns the speculative assignment the solver would commit
// next, without committing it.  Under probing the full probe
// sequence runs first; if it derives a necessary fact instead of a
// guess, the fact is already applied and the returned Choice has
// Forced set.  Calling Guess on a solved puzzle is an error.
func (s *Solver) Guess() (Choice, error) {
	p := s.puz
	if p.Solved() {
		return Choice{}, Error{Scope: ArgumentScope, Condition: GeneralCondition,
			Values: ErrorData{"puzzle is already solved"}}
	}
	if s.opts.Probe {
		switch res := s.probe(); res.kind {
		case probeGuess:
			return Choice{Row: res.cell.pos[DirRow], Col: res.cell.pos[DirCol],
				Color: res.color}, nil
		case probeFact, probeSolved:
			return Choice{Forced: true}, nil
		}
	}
	c := s.pickCell()
	if c == nil {
		return Choice{}, Error{Scope: InternalScope, Condition: GeneralCondition,
			Values: ErrorData{"no unsolved cell to guess on"}}
	}
	return Choice{Row: c.pos[DirRow], Col: c.pos[DirCol], Color: s.pickColor(c)}, nil
}

// Solve runs the search to a terminal state, mutating the puzzle in
// place.
func (s *Solver) Solve() Status {
	p := s.puz

	// one-color puzzles were born solved
	if p.ncolor < 2 {
		return StatusSolved
	}

	for {
		if s.LogicSolve() == Contradiction {
			// a contradiction ends any probe sequence in progress
			s.probing = false
			if !p.backtrack() {
				return StatusUnsat
			}
			s.counts.Backtracks++
			continue
		}

		// line solving hit a dead end but not a contradiction
		if p.Solved() {
			return StatusSolved
		}

		// look for markable cells the overlap solver misses; if the
		// pass eliminates anything, resume line solving
		if s.opts.Exhaust && p.nbranch == 0 && s.tryEverything() > 0 {
			continue
		}

		if !s.opts.Backtrack {
			return StatusStuck
		}

		if s.opts.Probe {
			switch res := s.probe(); res.kind {
			case probeFact:
				// a necessary consequence was set; resume logic
				continue
			case probeSolved:
				return StatusSolved
			case probeGuess:
				s.counts.Guesses++
				s.guessCell(res.cell, res.color)
			}
		} else {
			c := s.pickCell()
			if c == nil {
				panic(fmt.Sprintf("no cell to guess on with %d of %d cells solved",
					p.nsolved, p.ncells))
			}
			s.counts.Guesses++
			s.guessCell(c, s.pickColor(c))
		}
	}
}

// Solve builds a solver for the puzzle and runs it to a terminal
// state.  The puzzle's cells and counters are mutated in place; the
// returned Result carries the terminal status, the solved grid, and
// the counters.  With CheckUnique set, a solved puzzle is probed for
// a second solution by inverting the last guess and re-solving; the
// puzzle is left in the state of the last solution found.
func Solve(p *Puzzle, opts Options) (Result, error) {
	s, err := NewSolver(p, opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Status: s.Solve()}
	if res.Status == StatusSolved {
		res.Grid = p.Grid()
		if opts.CheckUnique {
			res.UniqueKnown = true
			res.Unique = true
			first := append([]cell(nil), p.cells...)
			if second, ok := s.findSecond(); ok {
				res.Unique = false
				res.Alternate = second
			} else {
				// a failed search leaves the cells mid-contradiction;
				// put the first solution back
				copy(p.cells, first)
				p.nsolved = p.ncells
			}
		}
	}
	res.Counts = s.counts
	return res, nil
}

// findSecond looks for a second solution after one has been found.
// A solution reached with no outstanding guesses is a pure logical
// consequence of the clues, so it is necessarily unique.  Otherwise
// the last guess is inverted and the search resumed; any new
// terminal solve is a distinct second solution.
func (s *Solver) findSecond() ([]int, bool) {
	p := s.puz
	if p.nbranch == 0 {
		return nil, false
	}
	if !p.backtrack() {
		return nil, false
	}
	s.counts.Backtracks++
	if s.Solve() == StatusSolved {
		return p.Grid(), true
	}
	return nil, false
}
