package codec

import "strconv"

// Count selects how many elements a reader produces. The zero value is
// Single.
type Count struct {
	n         int
	many      bool
	unbounded bool
	untilZero bool
}

// Single requests one bare element rather than a one-element sequence.
func Single() Count { return Count{} }

// Fixed requests exactly n elements. Negative n reads nothing.
func Fixed(n int) Count {
	if n < 0 {
		n = 0
	}
	return Count{n: n, many: true}
}

// UntilZero reads elements until, and including, the first zero value. The
// scan is bounded only by the buffer extent.
func UntilZero() Count { return Count{many: true, unbounded: true, untilZero: true} }

// FixedUntilZero reads at most n elements, stopping early after a zero.
func FixedUntilZero(n int) Count {
	c := Fixed(n)
	c.untilZero = true
	return c
}

// IsSingle reports whether the count requests a bare element.
func (c Count) IsSingle() bool { return !c.many }

// IsUntilZero reports whether reading stops after a zero value.
func (c Count) IsUntilZero() bool { return c.untilZero }

// N returns the element bound; ok is false for an unbounded count.
func (c Count) N() (n int, ok bool) {
	if c.unbounded {
		return 0, false
	}
	return c.limit(), true
}

func (c Count) limit() int {
	switch {
	case c.unbounded:
		return -1
	case !c.many:
		return 1
	default:
		return c.n
	}
}

func (c Count) String() string {
	switch {
	case !c.many:
		return "single"
	case c.unbounded:
		return "until-zero"
	case c.untilZero:
		return "until-zero(" + strconv.Itoa(c.n) + ")"
	default:
		return strconv.Itoa(c.n)
	}
}
