package permcode

import (
	"errors"
	"reflect"
	"testing"

	"github.com/chansched/chansched/internal/schederr"
)

func TestSeqToInt_IdentityIsZero(t *testing.T) {
	got, err := SeqToInt([]int{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("SeqToInt(identity) = %d, want 0", got)
	}
}

func TestSeqToInt_ReverseIsFactorialMinusOne(t *testing.T) {
	got, err := SeqToInt([]int{3, 2, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if got != factorial(4)-1 {
		t.Errorf("SeqToInt(reverse) = %d, want %d", got, factorial(4)-1)
	}
}

func TestSeqToInt_RejectsNonPermutation(t *testing.T) {
	if _, err := SeqToInt([]int{0, 0, 2}); !errors.Is(err, schederr.ErrBadSequence) {
		t.Errorf("expected ErrBadSequence, got %v", err)
	}
	if _, err := SeqToInt([]int{0, 1, 5}); !errors.Is(err, schederr.ErrBadSequence) {
		t.Errorf("expected ErrBadSequence, got %v", err)
	}
}

func TestRoundTrip_AllPermutationsOfFour(t *testing.T) {
	n := 4
	total := factorial(n)
	seen := make(map[string]bool)
	for num := int64(0); num < total; num++ {
		seq, err := IntToSeq(num, n)
		if err != nil {
			t.Fatalf("IntToSeq(%d): %v", num, err)
		}
		back, err := SeqToInt(seq)
		if err != nil {
			t.Fatalf("SeqToInt(%v): %v", seq, err)
		}
		if back != num {
			t.Errorf("round trip: num=%d seq=%v back=%d", num, seq, back)
		}
		seen[seqKey(seq)] = true
	}
	if len(seen) != int(total) {
		t.Errorf("IntToSeq produced %d distinct permutations, want %d", len(seen), total)
	}
}

func seqKey(seq []int) string {
	s := ""
	for _, v := range seq {
		s += string(rune('a' + v))
	}
	return s
}

func TestIntToSeq_RejectsOutOfRange(t *testing.T) {
	if _, err := IntToSeq(-1, 3); !errors.Is(err, schederr.ErrBadShape) {
		t.Errorf("expected ErrBadShape for negative num, got %v", err)
	}
	if _, err := IntToSeq(factorial(3), 3); !errors.Is(err, schederr.ErrBadShape) {
		t.Errorf("expected ErrBadShape for num == n!, got %v", err)
	}
}

func TestIntToSeq_LengthZero(t *testing.T) {
	seq, err := IntToSeq(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq) != 0 {
		t.Errorf("IntToSeq(0, 0) = %v, want empty", seq)
	}
}

func TestArgsortExecution_OrdersByTimeThenChannel(t *testing.T) {
	tEx := []float64{5, 0, 0, 3}
	chEx := []int{0, 1, 0, 0}
	got := ArgsortExecution(tEx, chEx)
	want := []int{2, 1, 3, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ArgsortExecution = %v, want %v", got, want)
	}
}
