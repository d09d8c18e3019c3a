package cydur

import (
	"strconv"
)

// Unit is one rung of a Ladder: a label and its size in the ladder's base unit.
type Unit struct {
	Label string
	Size  uint64
}

// Term is a non-zero count of a single Unit.
type Term struct {
	Unit
	Count uint64
}

func (t Term) String() string {
	return strconv.FormatUint(t.Count, 10) + t.Label
}

// Ladder is an ordered unit table, largest unit first. Sizes must be non-zero
// and strictly descending, and the last unit must have Size 1 so that every
// value decomposes exactly.
type Ladder []Unit

// Zero returns the string rendered for a zero value, "0" followed by the
// label of the smallest unit.
func (l Ladder) Zero() string {
	if len(l) == 0 {
		return "0"
	}
	return "0" + l[len(l)-1].Label
}

// Decompose splits value into the non-zero terms of the ladder, largest first.
// Only the first unit may hold a count larger than its natural range.
func (l Ladder) Decompose(value uint64) []Term {
	var terms []Term
	l.walk(value, func(u Unit, count uint64) {
		terms = append(terms, Term{Unit: u, Count: count})
	})
	return terms
}

// Format renders value as concatenated count+label terms with zero terms
// omitted, e.g. 6000000 on the day ladder is "69d10h40m".
func (l Ladder) Format(value uint64) string {
	if value == 0 {
		return l.Zero()
	}
	buf := make([]byte, 0, 32)
	l.walk(value, func(u Unit, count uint64) {
		buf = strconv.AppendUint(buf, count, 10)
		buf = append(buf, u.Label...)
	})
	return string(buf)
}

// walk calls fn for every unit whose count is non-zero.
func (l Ladder) walk(value uint64, fn func(u Unit, count uint64)) {
	rem := value
	for _, u := range l {
		count := rem / u.Size
		rem %= u.Size
		if count != 0 {
			fn(u, count)
		}
	}
}
