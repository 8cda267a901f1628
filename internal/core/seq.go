package core

import "iter"

// Problems is a lazy, single-pass sequence of problems. A non-nil error is
// fatal: producers yield it once and stop, consumers must stop too.
type Problems = iter.Seq2[Problem, error]

// None yields nothing.
func None() Problems {
	return func(yield func(Problem, error) bool) {}
}

// Emit yields the given problems in order.
func Emit(ps ...Problem) Problems {
	return func(yield func(Problem, error) bool) {
		for _, p := range ps {
			if !yield(p, nil) {
				return
			}
		}
	}
}

// Fail yields a single fatal error.
func Fail(err error) Problems {
	return func(yield func(Problem, error) bool) {
		yield(Problem{}, err)
	}
}

// Concat yields every sequence in turn.
func Concat(seqs ...Problems) Problems {
	return func(yield func(Problem, error) bool) {
		for _, seq := range seqs {
			for p, err := range seq {
				if !yield(p, err) || err != nil {
					return
				}
			}
		}
	}
}

// FlatMap applies f to each item lazily and yields the resulting sequences
// in item order.
func FlatMap[T any](items []T, f func(T) Problems) Problems {
	return func(yield func(Problem, error) bool) {
		for _, item := range items {
			for p, err := range f(item) {
				if !yield(p, err) || err != nil {
					return
				}
			}
		}
	}
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect(seq Problems) ([]Problem, error) {
	var res []Problem
	for p, err := range seq {
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}
