package internal

import (
	"iter"
)

// IterSeqConcat concatenates multiple iterators into a single iterator sequence.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// IterSeqTap returns a sequence that calls tap on every value of seq before
// yielding it.
func IterSeqTap[T any](seq iter.Seq[T], tap func(T)) iter.Seq[T] {
	return func(yield func(T) bool) {
		for val := range seq {
			tap(val)
			if !yield(val) {
				return
			}
		}
	}
}

// IterSeqLazy returns a sequence of a single value, computed by fn only when
// the sequence is iterated.
func IterSeqLazy[T any](fn func() T) iter.Seq[T] {
	return func(yield func(T) bool) {
		yield(fn())
	}
}
