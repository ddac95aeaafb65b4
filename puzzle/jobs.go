package puzzle

/*

Job queue

A job is a scheduled re-solve of one line.  The queue is a binary
max-heap keyed on priority, with a monotonic sequence number breaking
ties first-in-first-out so runs are deterministic.  Each clue carries
its current index into the heap, -1 when it isn't queued; at most one
job per line exists at a time.

*/

// A job names a line that needs work.  Higher priority means a more
// promising line.
type job struct {
	priority int
	seq      int
	dir      Direction
	line     int
}

type jobQueue struct {
	heap []job
	seq  int
}

// before is the heap ordering: higher priority first, then FIFO.
func (q *jobQueue) before(a, b job) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.seq < b.seq
}

// initJobs schedules every line of the puzzle, the way a fresh
// puzzle starts solving.
func (p *Puzzle) initJobs() {
	for dir := DirRow; dir <= DirCol; dir++ {
		for i := range p.clues[dir] {
			p.addJob(dir, i, 0)
		}
	}
}

// addJob schedules one line with priority 2*changed - slack, where
// changed is the number of cells whose change prompted the job.  It
// is a no-op when the line is already queued.
func (p *Puzzle) addJob(dir Direction, i int, changed int) {
	cl := &p.clues[dir][i]
	if cl.jobindex >= 0 {
		return
	}
	j := job{
		priority: 2*changed - cl.slack,
		seq:      p.jobs.seq,
		dir:      dir,
		line:     i,
	}
	p.jobs.seq++
	p.jobs.heap = append(p.jobs.heap, j)
	p.siftUp(len(p.jobs.heap) - 1)
}

// addJobs schedules the lines crossing a cell.  except skips one
// direction: the line solver passes the direction it is currently
// working, since re-running that line immediately would find nothing
// new.  Pass -1 to schedule every crossing line.
func (p *Puzzle) addJobs(c *cell, except Direction) {
	for dir := DirRow; dir <= DirCol; dir++ {
		if dir == except {
			continue
		}
		p.addJob(dir, c.pos[dir], 1)
	}
}

// nextJob pops the highest-priority job.  It returns false when the
// queue is empty.
func (p *Puzzle) nextJob() (dir Direction, i int, ok bool) {
	if len(p.jobs.heap) == 0 {
		return 0, 0, false
	}
	top := p.jobs.heap[0]
	p.clues[top.dir][top.line].jobindex = -1
	last := len(p.jobs.heap) - 1
	p.jobs.heap[0] = p.jobs.heap[last]
	p.jobs.heap = p.jobs.heap[:last]
	if last > 0 {
		p.setJob(0, p.jobs.heap[0])
		p.siftDown(0)
	}
	return top.dir, top.line, true
}

// flushJobs empties the queue, clearing every clue's queue index.
func (p *Puzzle) flushJobs() {
	for _, j := range p.jobs.heap {
		p.clues[j.dir][j.line].jobindex = -1
	}
	p.jobs.heap = p.jobs.heap[:0]
}

// setJob stores a job at a heap slot and updates its clue's index.
func (p *Puzzle) setJob(at int, j job) {
	p.jobs.heap[at] = j
	p.clues[j.dir][j.line].jobindex = at
}

func (p *Puzzle) siftUp(at int) {
	j := p.jobs.heap[at]
	for at > 0 {
		parent := (at - 1) / 2
		if !p.jobs.before(j, p.jobs.heap[parent]) {
			break
		}
		p.setJob(at, p.jobs.heap[parent])
		at = parent
	}
	p.setJob(at, j)
}

func (p *Puzzle) siftDown(at int) {
	j := p.jobs.heap[at]
	n := len(p.jobs.heap)
	for {
		kid := 2*at + 1
		if kid >= n {
			break
		}
		if kid+1 < n && p.jobs.before(p.jobs.heap[kid+1], p.jobs.heap[kid]) {
			kid++
		}
		if !p.jobs.before(p.jobs.heap[kid], j) {
			break
		}
		p.setJob(at, p.jobs.heap[kid])
		at = kid
	}
	p.setJob(at, j)
}
