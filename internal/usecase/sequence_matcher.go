package usecase

import "sort"

// autoJunkMinLength is the length of the second sequence from which
// elements occurring in more than 1% of positions are ignored as popular.
const autoJunkMinLength = 200

// Match describes a matching block: a[A:A+Size] == b[B:B+Size].
type Match struct {
	A    int
	B    int
	Size int
}

// SequenceMatcher computes the similarity of two strings from their
// longest contiguous matching blocks, compared rune by rune.
//
// The second sequence is indexed once, so comparing many candidates
// against one fixed string should set that string with SetSeq2 and swap
// candidates in with SetSeq1.
type SequenceMatcher struct {
	a []rune
	b []rune

	b2j        map[rune][]int
	fullBCount map[rune]int
	blocks     []Match
	autoJunk   bool
}

// NewSequenceMatcher creates a matcher comparing a against b.
func NewSequenceMatcher(a, b string) *SequenceMatcher {
	m := &SequenceMatcher{autoJunk: true}
	m.SetSeqs(a, b)
	return m
}

// SetSeqs replaces both sequences.
func (m *SequenceMatcher) SetSeqs(a, b string) {
	m.SetSeq1(a)
	m.SetSeq2(b)
}

// SetSeq1 replaces the first sequence.
func (m *SequenceMatcher) SetSeq1(a string) {
	m.a = []rune(a)
	m.blocks = nil
}

// SetSeq2 replaces the second sequence and rebuilds its index.
func (m *SequenceMatcher) SetSeq2(b string) {
	m.b = []rune(b)
	m.blocks = nil
	m.fullBCount = nil
	m.chainB()
}

func (m *SequenceMatcher) chainB() {
	b2j := make(map[rune][]int)
	for i, r := range m.b {
		b2j[r] = append(b2j[r], i)
	}

	if n := len(m.b); m.autoJunk && n >= autoJunkMinLength {
		ntest := n/100 + 1
		for r, idxs := range b2j {
			if len(idxs) > ntest {
				delete(b2j, r)
			}
		}
	}

	m.b2j = b2j
}

// FindLongestMatch returns the longest matching block in a[alo:ahi] and
// b[blo:bhi]. Among equally long blocks it returns the one starting
// earliest in a, and of those the one starting earliest in b.
func (m *SequenceMatcher) FindLongestMatch(alo, ahi, blo, bhi int) Match {
	besti, bestj, bestsize := alo, blo, 0

	// j2len[j] is the length of the longest match ending with a[i-1] and b[j]
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	// Popular elements are absent from b2j; let equal neighbours extend the block.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi && m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}

	return Match{A: besti, B: bestj, Size: bestsize}
}

// MatchingBlocks returns the non-overlapping matching blocks in increasing
// order, adjacent blocks merged, terminated by the sentinel
// Match{len(a), len(b), 0}.
func (m *SequenceMatcher) MatchingBlocks() []Match {
	if m.blocks != nil {
		return m.blocks
	}

	la, lb := len(m.a), len(m.b)
	queue := [][4]int{{0, la, 0, lb}}
	var found []Match
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]

		x := m.FindLongestMatch(alo, ahi, blo, bhi)
		if x.Size == 0 {
			continue
		}
		found = append(found, x)
		if alo < x.A && blo < x.B {
			queue = append(queue, [4]int{alo, x.A, blo, x.B})
		}
		if x.A+x.Size < ahi && x.B+x.Size < bhi {
			queue = append(queue, [4]int{x.A + x.Size, ahi, x.B + x.Size, bhi})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].A != found[j].A {
			return found[i].A < found[j].A
		}
		if found[i].B != found[j].B {
			return found[i].B < found[j].B
		}
		return found[i].Size < found[j].Size
	})

	blocks := make([]Match, 0, len(found)+1)
	var cur Match
	for _, x := range found {
		if cur.A+cur.Size == x.A && cur.B+cur.Size == x.B {
			cur.Size += x.Size
			continue
		}
		if cur.Size > 0 {
			blocks = append(blocks, cur)
		}
		cur = x
	}
	if cur.Size > 0 {
		blocks = append(blocks, cur)
	}
	blocks = append(blocks, Match{A: la, B: lb, Size: 0})

	m.blocks = blocks
	return blocks
}

// Ratio returns 2*M/T where T is the total number of runes in both
// sequences and M the number of runes in matching blocks. 1.0 for two
// empty sequences.
func (m *SequenceMatcher) Ratio() float64 {
	matches := 0
	for _, blk := range m.MatchingBlocks() {
		matches += blk.Size
	}
	return calculateRatio(matches, len(m.a)+len(m.b))
}

// QuickRatio returns an upper bound on Ratio from rune counts alone.
func (m *SequenceMatcher) QuickRatio() float64 {
	if m.fullBCount == nil {
		m.fullBCount = make(map[rune]int, len(m.b))
		for _, r := range m.b {
			m.fullBCount[r]++
		}
	}

	avail := make(map[rune]int)
	matches := 0
	for _, r := range m.a {
		numb, ok := avail[r]
		if !ok {
			numb = m.fullBCount[r]
		}
		avail[r] = numb - 1
		if numb > 0 {
			matches++
		}
	}
	return calculateRatio(matches, len(m.a)+len(m.b))
}

// RealQuickRatio returns an upper bound on Ratio from lengths alone.
func (m *SequenceMatcher) RealQuickRatio() float64 {
	la, lb := len(m.a), len(m.b)
	return calculateRatio(min(la, lb), la+lb)
}

func calculateRatio(matches, length int) float64 {
	if length == 0 {
		return 1.0
	}
	return 2.0 * float64(matches) / float64(length)
}

// ScoredMatch is a candidate with its similarity ratio.
type ScoredMatch struct {
	Value string
	Score float64
}

// ScoreCloseMatches returns up to n candidates from possibilities whose
// ratio against word is at least cutoff, best first. Equal scores are
// ordered by the candidate string, greater first. It returns nil when n
// is not positive or cutoff lies outside [0, 1].
func ScoreCloseMatches(word string, possibilities []string, n int, cutoff float64) []ScoredMatch {
	if n <= 0 || cutoff < 0 || cutoff > 1 {
		return nil
	}

	s := NewSequenceMatcher("", "")
	s.SetSeq2(word)

	var result []ScoredMatch
	for _, x := range possibilities {
		s.SetSeq1(x)
		if s.RealQuickRatio() >= cutoff && s.QuickRatio() >= cutoff {
			if score := s.Ratio(); score >= cutoff {
				result = append(result, ScoredMatch{Value: x, Score: score})
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Value > result[j].Value
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}

// CloseMatches is ScoreCloseMatches without the scores.
func CloseMatches(word string, possibilities []string, n int, cutoff float64) []string {
	scored := ScoreCloseMatches(word, possibilities, n, cutoff)
	if len(scored) == 0 {
		return nil
	}
	out := make([]string, len(scored))
	for i, sm := range scored {
		out[i] = sm.Value
	}
	return out
}
