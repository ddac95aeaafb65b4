package puzzle

/*

Paint-by-number puzzle representation

For each cell in the grid there is one cell structure holding the
set of colors the cell can still take and a count of that set.  The
grid is a single flat array of cells; on top of it sit two parallel
indexing structures, lines[DirRow] and lines[DirCol], whose entries
point into the flat array.  lines[DirRow][3] is the slice of cell
pointers for row 3, and lines[DirCol][0] is the slice for the first
column, so lines[DirRow][3][0] and lines[DirCol][0][3] point at the
same cell.  This slightly redundant structure makes rows and columns
work exactly alike in the solver, and would extend to a third
direction without redesign.  Cells never own lines and lines never
own cells.

*/

// A cell holds its coordinates, the set of colors it may still
// take, and the count of that set.  n is kept in step with possible
// at every mutation; n == 1 means the cell is solved, and n == 0 is
// never stored (an empty set is a contradiction, which is signalled
// instead).
type cell struct {
	index    int    // position in the flat cell array
	pos      [2]int // pos[DirRow] is the row index, pos[DirCol] the column
	possible colorSet
	n        int
}

// mayBe reports whether the cell can still take color c.
func (c *cell) mayBe(color int) bool {
	return c.possible.has(color)
}

// A clue describes one line's runs.  slack is the line length minus
// the minimum layout length of the runs; it bounds how far each run
// can shift, and a negative value means the line is impossible.
// jobindex is the clue's position on the job queue, -1 if absent.
type clue struct {
	runs     []Run
	slack    int
	jobindex int
}

// minLength returns the minimum layout length for a run sequence:
// the run lengths plus one mandatory gap between adjacent runs of
// the same color.
func minLength(runs []Run) int {
	total := 0
	for i, r := range runs {
		total += r.Length
		if i > 0 && runs[i-1].Color == r.Color {
			total++
		}
	}
	return total
}

// A Puzzle owns the palette, the clue sets for each direction, the
// cell array and its line views, the solved-cell counters, the job
// queue, and the undo history.
type Puzzle struct {
	id     string
	title  string
	colors []ColorDef
	ncolor int

	cells []cell
	lines [2][][]*cell
	clues [2][]clue
	n     [2]int // number of lines in each direction

	ncells  int
	nsolved int

	jobs    jobQueue
	history []histEntry
	nbranch int  // live branch points in the history
	logging bool // whether mutations are recorded in the history
}

// New builds a Puzzle from a Summary.  The palette, clues, and
// preset cells are validated; on failure the returned error is an
// Error value.  All lines are placed on the job queue, so the
// returned puzzle is ready to propagate.
func New(sum *Summary) (*Puzzle, error) {
	if sum == nil || len(sum.Rows) == 0 || len(sum.Cols) == 0 {
		return nil, argError(UnknownAttribute, EmptyArgumentCondition)
	}
	ncolor := len(sum.Colors)
	if ncolor < 1 {
		return nil, argError(PaletteAttribute, TooSmallCondition, ncolor, 1)
	}
	if ncolor > MaxColors {
		return nil, argError(PaletteAttribute, TooLargeCondition, ncolor, MaxColors)
	}

	nrow, ncol := len(sum.Rows), len(sum.Cols)
	p := &Puzzle{
		id:     sum.ID,
		title:  sum.Title,
		colors: append([]ColorDef(nil), sum.Colors...),
		ncolor: ncolor,
		ncells: nrow * ncol,
	}
	p.n[DirRow], p.n[DirCol] = nrow, ncol

	// validate and install the clues
	var err error
	p.clues[DirRow], err = makeClues(DirRow, sum.Rows, ncolor)
	if err != nil {
		return nil, err
	}
	p.clues[DirCol], err = makeClues(DirCol, sum.Cols, ncolor)
	if err != nil {
		return nil, err
	}
	for i := range p.clues[DirRow] {
		p.clues[DirRow][i].slack = ncol - minLength(p.clues[DirRow][i].runs)
	}
	for j := range p.clues[DirCol] {
		p.clues[DirCol][j].slack = nrow - minLength(p.clues[DirCol][j].runs)
	}

	// build the flat cell array and the two line views over it
	all := allColors(ncolor)
	p.cells = make([]cell, p.ncells)
	for i := 0; i < nrow; i++ {
		for j := 0; j < ncol; j++ {
			c := &p.cells[i*ncol+j]
			c.index = i*ncol + j
			c.pos[DirRow], c.pos[DirCol] = i, j
			c.possible = all
			c.n = ncolor
		}
	}
	p.lines[DirRow] = make([][]*cell, nrow)
	for i := 0; i < nrow; i++ {
		line := make([]*cell, ncol)
		for j := 0; j < ncol; j++ {
			line[j] = &p.cells[i*ncol+j]
		}
		p.lines[DirRow][i] = line
	}
	p.lines[DirCol] = make([][]*cell, ncol)
	for j := 0; j < ncol; j++ {
		line := make([]*cell, nrow)
		for i := 0; i < nrow; i++ {
			line[i] = &p.cells[i*ncol+j]
		}
		p.lines[DirCol][j] = line
	}

	// single-color puzzles are born solved
	if ncolor == 1 {
		p.nsolved = p.ncells
	}

	// apply any preset cells
	seen := make(map[int]bool)
	for _, g := range sum.Givens {
		if g.Row < 0 || g.Row >= nrow || g.Col < 0 || g.Col >= ncol {
			return nil, argError(GivenAttribute, GeneralCondition,
				"cell coordinates out of range")
		}
		if g.Color < 0 || g.Color >= ncolor {
			return nil, argError(GivenAttribute, BadColorCondition, g.Color)
		}
		c := &p.cells[g.Row*ncol+g.Col]
		if seen[c.index] {
			return nil, argError(GivenAttribute, DuplicateGivenCondition, c.index)
		}
		seen[c.index] = true
		if c.n > 1 {
			p.nsolved++
		}
		c.possible = singleColor(g.Color)
		c.n = 1
	}

	// schedule every line for an initial solving pass
	p.initJobs()
	return p, nil
}

// makeClues validates one direction's clue set.
func makeClues(dir Direction, raw [][]Run, ncolor int) ([]clue, error) {
	clues := make([]clue, len(raw))
	for i, runs := range raw {
		for _, r := range runs {
			if r.Length < 1 {
				return nil, clueError(dir, i, BadRunLengthCondition, r.Length)
			}
			if r.Color < 1 || r.Color >= ncolor {
				return nil, clueError(dir, i, BadColorCondition, r.Color)
			}
		}
		clues[i] = clue{runs: append([]Run(nil), runs...), jobindex: -1}
	}
	return clues, nil
}

/*

accessors

*/

// ID returns the puzzle's identifier from its Summary.
func (p *Puzzle) ID() string { return p.id }

// Title returns the puzzle's title from its Summary.
func (p *Puzzle) Title() string { return p.title }

// NRows returns the number of rows in the grid.
func (p *Puzzle) NRows() int { return p.n[DirRow] }

// NCols returns the number of columns in the grid.
func (p *Puzzle) NCols() int { return p.n[DirCol] }

// NColors returns the palette size, including the background color.
func (p *Puzzle) NColors() int { return p.ncolor }

// NCells returns the number of cells in the grid.
func (p *Puzzle) NCells() int { return p.ncells }

// NSolved returns the number of cells with exactly one remaining
// color.
func (p *Puzzle) NSolved() int { return p.nsolved }

// Solved reports whether every cell has exactly one remaining color.
func (p *Puzzle) Solved() bool { return p.nsolved == p.ncells }

// Clue returns the runs and slack of one line.
func (p *Puzzle) Clue(dir Direction, i int) (runs []Run, slack int) {
	cl := &p.clues[dir][i]
	return append([]Run(nil), cl.runs...), cl.slack
}

// MayBe reports whether the cell at (row, col) can still take the
// given color.  Out-of-range coordinates name the implicit border of
// the grid, which behaves as background: MayBe returns true there
// exactly for color 0.
func (p *Puzzle) MayBe(row, col, color int) bool {
	if row < 0 || row >= p.n[DirRow] || col < 0 || col >= p.n[DirCol] {
		return color == 0
	}
	return p.lines[DirRow][row][col].mayBe(color)
}

// PossibleColors returns the remaining colors of the cell at
// (row, col), in increasing order.
func (p *Puzzle) PossibleColors(row, col int) []int {
	return p.lines[DirRow][row][col].possible.colors()
}

// Grid returns the row-major colors of the grid, -1 for cells that
// are not yet solved.
func (p *Puzzle) Grid() []int {
	out := make([]int, p.ncells)
	for i := range p.cells {
		if p.cells[i].n == 1 {
			out[i] = p.cells[i].possible.single()
		} else {
			out[i] = -1
		}
	}
	return out
}

// Summary rebuilds a Summary for the puzzle: its palette and clues,
// with the currently solved cells exported as givens.  The result
// does not share storage with the puzzle.
func (p *Puzzle) Summary() *Summary {
	sum := &Summary{
		ID:     p.id,
		Title:  p.title,
		Colors: append([]ColorDef(nil), p.colors...),
		Rows:   make([][]Run, p.n[DirRow]),
		Cols:   make([][]Run, p.n[DirCol]),
	}
	for i := range p.clues[DirRow] {
		sum.Rows[i] = append([]Run(nil), p.clues[DirRow][i].runs...)
	}
	for j := range p.clues[DirCol] {
		sum.Cols[j] = append([]Run(nil), p.clues[DirCol][j].runs...)
	}
	for i := range p.cells {
		if c := &p.cells[i]; c.n == 1 {
			sum.Givens = append(sum.Givens, Given{
				Row: c.pos[DirRow], Col: c.pos[DirCol],
				Color: c.possible.single(),
			})
		}
	}
	return sum
}

// Check verifies that a solved grid satisfies every clue.  It
// reports false when the puzzle is not fully solved or some line's
// runs don't match its clue.
func (p *Puzzle) Check() bool {
	if !p.Solved() {
		return false
	}
	for dir := DirRow; dir <= DirCol; dir++ {
		for i := range p.lines[dir] {
			if !p.checkLine(dir, i) {
				return false
			}
		}
	}
	return true
}

// checkLine compares one line's solved colors against its clue.
func (p *Puzzle) checkLine(dir Direction, i int) bool {
	line := p.lines[dir][i]
	runs := p.clues[dir][i].runs
	b := 0
	j := 0
	for j < len(line) {
		c := line[j].possible.single()
		if c == 0 {
			j++
			continue
		}
		length := 0
		for j+length < len(line) && line[j+length].possible.single() == c {
			length++
		}
		if b >= len(runs) || runs[b].Length != length || runs[b].Color != c {
			return false
		}
		b++
		j += length
	}
	return b == len(runs)
}
