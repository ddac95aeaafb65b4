// Copyright 2017 the nonogo authors.  All rights reserved.

package puzzle

import (
	"bytes"
	"fmt"
)

/*

Textual forms of puzzles, used by the command-line tools, the
storage layer, and the tests.

*/

// charFor returns the rendering character for a color, defaulting
// to '.' for background and the color's decimal digit otherwise.
func (p *Puzzle) charFor(color int) string {
	if color >= 0 && color < len(p.colors) && p.colors[color].Char != "" {
		return p.colors[color].Char
	}
	if color == 0 {
		return "."
	}
	return fmt.Sprintf("%d", color%10)
}

// String renders the grid one row per line: solved cells as their
// color's character, unsolved cells as '?'.
func (p *Puzzle) String() string {
	var buf bytes.Buffer
	for i := 0; i < p.n[DirRow]; i++ {
		for j := 0; j < p.n[DirCol]; j++ {
			c := p.lines[DirRow][i][j]
			if c.n == 1 {
				buf.WriteString(p.charFor(c.possible.single()))
			} else {
				buf.WriteByte('?')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// ValuesString renders a solved grid as a single row-major string of
// color characters, the compact form the storage layer archives.
// Unsolved cells render as '?'.
func (p *Puzzle) ValuesString() string {
	var buf bytes.Buffer
	for i := range p.cells {
		c := &p.cells[i]
		if c.n == 1 {
			buf.WriteString(p.charFor(c.possible.single()))
		} else {
			buf.WriteByte('?')
		}
	}
	return buf.String()
}

// LineString renders one line's current state, for diagnostics.
func (p *Puzzle) LineString(dir Direction, i int) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%v %d:", dir, i)
	for _, c := range p.lines[dir][i] {
		if c.n == 1 {
			fmt.Fprintf(&buf, " %s", p.charFor(c.possible.single()))
		} else {
			fmt.Fprintf(&buf, " ?%d", c.n)
		}
	}
	return buf.String()
}
