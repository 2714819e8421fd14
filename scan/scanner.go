// Package scan implements the scanner algebra: stateful, forward-only
// cursors over index-ordered component sequences, and the combinators
// (Map, Join, Opt, Not, Limit, Singleton) that compose them without
// buffering an unbounded amount of intermediate state.
package scan

import "iter"

// Scanner advances over a strictly ascending sequence of (index, item)
// pairs. Scan(until) returns the first remaining item at an index >= the
// value pointed to by until (or from wherever the scanner currently sits,
// if until is nil), or ok=false once exhausted. Implementations must never
// rewind: successive calls only ever move forward.
type Scanner[I any] interface {
	Scan(until *int) (item I, index int, ok bool)
}

// U boxes n for use as a Scan "until" argument.
func U(n int) *int {
	return &n
}

// Iter adapts a Scanner into a range-over-func sequence, discarding
// indices and stopping at the first exhausted result.
func Iter[I any](s Scanner[I]) iter.Seq[I] {
	return func(yield func(I) bool) {
		for {
			item, _, ok := s.Scan(nil)
			if !ok {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}
