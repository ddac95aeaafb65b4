package puzzle

import "math/bits"

/*

Color sets

*/

// A colorSet is a set of colors, one bit per color.  A single word
// is plenty: puzzles with more than 32 colors don't occur in
// practice, and MaxColors enforces the cap at construction time.
type colorSet uint32

// MaxColors is the largest palette a puzzle may have, including the
// background color.
const MaxColors = 32

// singleColor returns the set containing only color c.
func singleColor(c int) colorSet {
	return colorSet(1) << uint(c)
}

// allColors returns the set of all colors 0..n-1.
func allColors(n int) colorSet {
	if n >= MaxColors {
		return ^colorSet(0)
	}
	return colorSet(1)<<uint(n) - 1
}

// has reports whether color c is in the set.
func (cs colorSet) has(c int) bool {
	return cs&singleColor(c) != 0
}

// with returns the set plus color c.
func (cs colorSet) with(c int) colorSet {
	return cs | singleColor(c)
}

// without returns the set minus color c.
func (cs colorSet) without(c int) colorSet {
	return cs &^ singleColor(c)
}

// count returns the number of colors in the set.
func (cs colorSet) count() int {
	return bits.OnesCount32(uint32(cs))
}

// single returns the only color in a one-color set.  It must not be
// called on sets of any other size.
func (cs colorSet) single() int {
	return bits.TrailingZeros32(uint32(cs))
}

// colors returns the members of the set in increasing order.
func (cs colorSet) colors() []int {
	out := make([]int, 0, cs.count())
	for v := uint32(cs); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros32(v))
	}
	return out
}
