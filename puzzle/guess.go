package puzzle

import (
	"math"
	"math/rand"
)

/*

Heuristic guessing

When probing is disabled, the solver makes one guess per stall: a
cell with many solved neighbors (the guess will touch lines that are
already well constrained), tie-broken by a rating of its row and
column (lower is better), filled with a color chosen by the color
policy.

*/

// countNeighbors counts the orthogonal neighbors of a cell that are
// solved, counting positions beyond the grid edge as solved in all
// four directions.
func (s *Solver) countNeighbors(i, j int) int {
	p := s.puz
	count := 0
	if i == 0 || p.lines[DirRow][i-1][j].n == 1 {
		count++
	}
	if i == p.n[DirRow]-1 || p.lines[DirRow][i+1][j].n == 1 {
		count++
	}
	if j == 0 || p.lines[DirRow][i][j-1].n == 1 {
		count++
	}
	if j == p.n[DirCol]-1 || p.lines[DirRow][i][j+1].n == 1 {
		count++
	}
	return count
}

// pickCell chooses the cell to guess on: the unsolved cell with the
// most solved neighbors, rating as the tie-break.  A cell with all
// four neighbors solved is taken on the spot.  Returns nil only when
// every cell is solved.
func (s *Solver) pickCell() *cell {
	p := s.puz
	maxv := -1
	var minrate float64
	var favorite *cell
	for i := 0; i < p.n[DirRow]; i++ {
		for j := 0; j < p.n[DirCol]; j++ {
			c := p.lines[DirRow][i][j]
			if c.n == 1 {
				continue
			}
			v := s.countNeighbors(i, j)
			if v == 4 {
				return c
			}
			if v >= maxv {
				r := s.rate(p, i, j)
				if v > maxv || r < minrate {
					maxv = v
					minrate = r
					favorite = c
				}
			}
		}
	}
	return favorite
}

// pickColor applies the configured color policy to a cell with at
// least two remaining colors.
func (s *Solver) pickColor(c *cell) int {
	return s.color(s.puz, c.pos[DirRow], c.pos[DirCol], c.possible.colors(), s.rng)
}

/*

rating policies

*/

// rateSimple scores every cell alike; the neighbor count alone
// decides.
func rateSimple(p *Puzzle, i, j int) float64 {
	return 0
}

// rateAdhoc prefers cells whose lines have low slack and few runs.
func rateAdhoc(p *Puzzle, i, j int) float64 {
	si := p.clues[DirRow][i].slack + 2*len(p.clues[DirRow][i].runs)
	sj := p.clues[DirCol][j].slack + 2*len(p.clues[DirCol][j].runs)
	if si < sj {
		return float64(3*si + sj)
	}
	return float64(3*sj + si)
}

// rateMath prefers cells in lines with few placements: a line with
// n runs and s slack has C(s+n, n) of them, compared in log space.
func rateMath(p *Puzzle, i, j int) float64 {
	si := logBinomial(p.clues[DirRow][i].slack+len(p.clues[DirRow][i].runs),
		len(p.clues[DirRow][i].runs))
	sj := logBinomial(p.clues[DirCol][j].slack+len(p.clues[DirCol][j].runs),
		len(p.clues[DirCol][j].runs))
	return math.Min(si, sj)
}

// logBinomial returns ln C(n, k).
func logBinomial(n, k int) float64 {
	if k < 0 || n < k {
		return 0
	}
	ln, _ := math.Lgamma(float64(n + 1))
	lk, _ := math.Lgamma(float64(k + 1))
	lnk, _ := math.Lgamma(float64(n - k + 1))
	return ln - lk - lnk
}

/*

color policies

*/

// colorMax guesses the highest allowed color.
func colorMax(p *Puzzle, i, j int, allowed []int, rng *rand.Rand) int {
	return allowed[len(allowed)-1]
}

// colorMin guesses the lowest allowed color.
func colorMin(p *Puzzle, i, j int, allowed []int, rng *rand.Rand) int {
	return allowed[0]
}

// colorRand guesses uniformly over the allowed colors.
func colorRand(p *Puzzle, i, j int, allowed []int, rng *rand.Rand) int {
	return allowed[rng.Intn(len(allowed))]
}

// colorContrast guesses the color that clashes with the most
// neighbors: for each allowed color, count the orthogonal neighbors
// that cannot take it, treating the grid border as background.
func colorContrast(p *Puzzle, i, j int, allowed []int, rng *rand.Rand) int {
	best, bestn := allowed[0], -1
	for _, c := range allowed {
		n := 0
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			if !p.MayBe(i+d[0], j+d[1], c) {
				n++
			}
		}
		if n > bestn {
			best, bestn = c, n
		}
	}
	return best
}

func init() {
	RegisterRating("simple", rateSimple)
	RegisterRating("adhoc", rateAdhoc)
	RegisterRating("math", rateMath)
	RegisterColor("max", colorMax)
	RegisterColor("min", colorMin)
	RegisterColor("rand", colorRand)
	RegisterColor("contrast", colorContrast)
}
