// Package permcode encodes task sequences as integers using a factorial
// number system (Lehmer code), and derives a sequence from an execution
// schedule by argsort.
package permcode

import (
	"fmt"

	"github.com/chansched/chansched/internal/schederr"
)

// factorial returns n!.
func factorial(n int) int64 {
	result := int64(1)
	for i := int64(2); i <= int64(n); i++ {
		result *= i
	}
	return result
}

// SeqToInt encodes a permutation of {0, ..., len(seq)-1} as its rank in
// lexicographic order over all such permutations, via the standard Lehmer
// code construction: digit_k = (number of elements to the right of seq[k]
// that are smaller than seq[k]), and the result is Σ digit_k * (n-1-k)!.
func SeqToInt(seq []int) (int64, error) {
	n := len(seq)
	seen := make([]bool, n)
	for _, s := range seq {
		if s < 0 || s >= n || seen[s] {
			return 0, fmt.Errorf("%w: seq is not a permutation of 0..%d", schederr.ErrBadSequence, n-1)
		}
		seen[s] = true
	}

	var num int64
	for k := 0; k < n; k++ {
		smaller := 0
		for j := k + 1; j < n; j++ {
			if seq[j] < seq[k] {
				smaller++
			}
		}
		num += int64(smaller) * factorial(n-1-k)
	}
	return num, nil
}

// IntToSeq is the inverse of SeqToInt: given a rank and the permutation
// length, it reconstructs the permutation.
func IntToSeq(num int64, length int) ([]int, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length", schederr.ErrBadShape)
	}
	if num < 0 || num >= factorial(length) {
		return nil, fmt.Errorf("%w: num out of range for length %d", schederr.ErrBadShape, length)
	}

	available := make([]int, length)
	for i := range available {
		available[i] = i
	}

	seq := make([]int, length)
	remaining := num
	for k := 0; k < length; k++ {
		f := factorial(length - 1 - k)
		idx := remaining / f
		remaining -= idx * f
		seq[k] = available[idx]
		available = append(available[:idx], available[idx+1:]...)
	}
	return seq, nil
}

// ArgsortExecution derives the scheduled order of tasks from their execution
// times, ties broken by smaller channel index and then by smaller task
// index. This recovers seq from a (t_ex, ch_ex) pair produced outside of a
// schedule.Node walk.
func ArgsortExecution(tEx []float64, chEx []int) []int {
	n := len(tEx)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Simple insertion sort: n is the task count, expected small, and this
	// keeps the comparator inline without pulling in sort.Slice's overhead.
	for i := 1; i < n; i++ {
		j := i
		for j > 0 && less(tEx, chEx, order[j], order[j-1]) {
			order[j], order[j-1] = order[j-1], order[j]
			j--
		}
	}
	return order
}

func less(tEx []float64, chEx []int, a, b int) bool {
	if tEx[a] != tEx[b] {
		return tEx[a] < tEx[b]
	}
	return chEx[a] < chEx[b]
}
