package usecase

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSequenceMatcherRatio(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "banana", b: "banana", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "rice", b: "", want: 0.0},
		{name: "shifted window", a: "abcd", b: "bcde", want: 0.75},
		{name: "plural", a: "apple", b: "apples", want: 10.0 / 11.0},
		{name: "transposed letters", a: "bananna", b: "banana", want: 12.0 / 13.0},
		{name: "nothing in common", a: "abc", b: "xyz", want: 0.0},
		{name: "compares runes not bytes", a: "café", b: "cafe", want: 0.75},
		{name: "case sensitive", a: "Egg", b: "egg", want: 4.0 / 6.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewSequenceMatcher(tc.a, tc.b).Ratio()
			if !almostEqual(got, tc.want) {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSequenceMatcherUpperBounds(t *testing.T) {
	pairs := [][2]string{
		{"abcd", "bcde"},
		{"chicken breast", "chiken brest"},
		{"slice of bread", "bread"},
		{"oats", "toast"},
	}

	for _, p := range pairs {
		m := NewSequenceMatcher(p[0], p[1])
		ratio, quick, realQuick := m.Ratio(), m.QuickRatio(), m.RealQuickRatio()
		if quick < ratio {
			t.Errorf("QuickRatio(%q, %q) = %v, below Ratio %v", p[0], p[1], quick, ratio)
		}
		if realQuick < quick {
			t.Errorf("RealQuickRatio(%q, %q) = %v, below QuickRatio %v", p[0], p[1], realQuick, quick)
		}
	}
}

func TestFindLongestMatch(t *testing.T) {
	t.Run("prefers earliest block in a", func(t *testing.T) {
		m := NewSequenceMatcher(" abcd", "abcd abcd")
		got := m.FindLongestMatch(0, 5, 0, 9)
		want := Match{A: 0, B: 4, Size: 5}
		if got != want {
			t.Errorf("FindLongestMatch() = %+v, want %+v", got, want)
		}
	})

	t.Run("no match returns empty block at the lower bounds", func(t *testing.T) {
		m := NewSequenceMatcher("abc", "xyz")
		got := m.FindLongestMatch(0, 3, 0, 3)
		want := Match{A: 0, B: 0, Size: 0}
		if got != want {
			t.Errorf("FindLongestMatch() = %+v, want %+v", got, want)
		}
	})

	t.Run("extends across popular elements", func(t *testing.T) {
		b := strings.Repeat("x", 200) + "y"
		m := NewSequenceMatcher("xxxy", b)
		got := m.FindLongestMatch(0, 4, 0, len(b))
		want := Match{A: 0, B: 197, Size: 4}
		if got != want {
			t.Errorf("FindLongestMatch() = %+v, want %+v", got, want)
		}
	})
}

func TestMatchingBlocks(t *testing.T) {
	m := NewSequenceMatcher("abxcd", "abcd")
	got := m.MatchingBlocks()
	want := []Match{{A: 0, B: 0, Size: 2}, {A: 3, B: 2, Size: 2}, {A: 5, B: 4, Size: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchingBlocks() = %+v, want %+v", got, want)
	}

	m.SetSeq1("abcd")
	got = m.MatchingBlocks()
	want = []Match{{A: 0, B: 0, Size: 4}, {A: 4, B: 4, Size: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchingBlocks() after SetSeq1 = %+v, want %+v", got, want)
	}
}

func TestCloseMatches(t *testing.T) {
	t.Run("returns best candidates first", func(t *testing.T) {
		got := CloseMatches("appel", []string{"ape", "apple", "peach", "puppy"}, 3, 0.6)
		want := []string{"apple", "ape"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("CloseMatches() = %v, want %v", got, want)
		}
	})

	t.Run("limits the result to n", func(t *testing.T) {
		got := CloseMatches("appel", []string{"ape", "apple", "peach", "puppy"}, 1, 0.6)
		if !reflect.DeepEqual(got, []string{"apple"}) {
			t.Errorf("CloseMatches() = %v, want [apple]", got)
		}
	})

	t.Run("orders equal scores by greater string first", func(t *testing.T) {
		got := CloseMatches("ab", []string{"ac", "ad"}, 2, 0.5)
		want := []string{"ad", "ac"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("CloseMatches() = %v, want %v", got, want)
		}
	})

	t.Run("keeps a score equal to the cutoff", func(t *testing.T) {
		got := ScoreCloseMatches("bcde", []string{"abcd"}, 1, 0.75)
		if len(got) != 1 || !almostEqual(got[0].Score, 0.75) {
			t.Errorf("ScoreCloseMatches() = %+v, want abcd at 0.75", got)
		}
	})

	t.Run("returns nil below the cutoff", func(t *testing.T) {
		if got := CloseMatches("xyz", []string{"rice", "bread"}, 3, 0.6); got != nil {
			t.Errorf("CloseMatches() = %v, want nil", got)
		}
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		pool := []string{"rice"}
		if got := ScoreCloseMatches("rice", pool, 0, 0.6); got != nil {
			t.Errorf("n=0: got %v, want nil", got)
		}
		if got := ScoreCloseMatches("rice", pool, 1, -0.1); got != nil {
			t.Errorf("cutoff=-0.1: got %v, want nil", got)
		}
		if got := ScoreCloseMatches("rice", pool, 1, 1.1); got != nil {
			t.Errorf("cutoff=1.1: got %v, want nil", got)
		}
	})
}
