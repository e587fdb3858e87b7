package seq

import (
	"fmt"
	"math"
	"strings"

	"github.com/svbio/varcat/internal/errs"
)

// MarginMode controls how leading gaps of a global alignment are
// scored. Align's left mode applies to residues of a placed before the
// first residue of b, its right mode to residues of b placed before the
// first residue of a. Trailing gaps are not affected by the mode: they
// always cost the regular gap penalties.
type MarginMode int

const (
	// Free leaves marginal gaps unpenalized.
	Free MarginMode = iota
	// Penalize scores marginal gaps like internal ones.
	Penalize
	// Forbid makes marginal gaps on that side effectively unreachable.
	Forbid
)

// Alignment is the result of a global sequence alignment. A and B are
// the gapped renditions of the input sequences and always have equal
// length.
type Alignment struct {
	Score int
	A     string
	B     string
}

// Align computes a gap-affine Needleman-Wunsch global alignment of a
// and b. Indels are expressed with respect to a: insertions walk
// vertically, deletions horizontally. Gap penalties are passed as
// positive values. Layer scores are compared in the order insertion,
// deletion, match, and a later layer replaces the current best only
// when strictly greater: on equal scores the insertion layer wins over
// the deletion layer, which wins over the match layer.
func Align(a, b string, scoring Scoring, gapOpen, gapExtend int, left, right MarginMode) (Alignment, error) {
	n, m := len(a), len(b)
	align := newMatrix(n+1, m+1)
	ins := newMatrix(n+1, m+1)
	del := newMatrix(n+1, m+1)
	traceback := make([][]byte, n+1)
	for i := range traceback {
		traceback[i] = make([]byte, m+1)
	}

	for i := 1; i <= n; i++ {
		gapCost := marginCost(left, gapOpen, gapExtend, i, n)
		align[i][0] = gapCost
		ins[i][0] = gapCost
		del[i][0] = gapCost
		traceback[i][0] = 'I'
	}
	for j := 1; j <= m; j++ {
		gapCost := marginCost(right, gapOpen, gapExtend, j, m)
		align[0][j] = gapCost
		ins[0][j] = gapCost
		del[0][j] = gapCost
		traceback[0][j] = 'D'
	}

	for i := 1; i <= n; i++ {
		si, ok := scoring.Index[a[i-1]]
		if !ok {
			return Alignment{}, &errs.BioError{Message: fmt.Sprintf("symbol %q not covered by scoring matrix", a[i-1])}
		}
		for j := 1; j <= m; j++ {
			sj, ok := scoring.Index[b[j-1]]
			if !ok {
				return Alignment{}, &errs.BioError{Message: fmt.Sprintf("symbol %q not covered by scoring matrix", b[j-1])}
			}
			match := align[i-1][j-1] + scoring.Matrix[si][sj]
			ins[i][j] = max(align[i-1][j]-gapOpen, ins[i-1][j]-gapExtend)
			del[i][j] = max(align[i][j-1]-gapOpen, del[i][j-1]-gapExtend)

			best := math.MinInt
			if ins[i][j] > best {
				best = ins[i][j]
				align[i][j] = best
				traceback[i][j] = 'I'
			}
			if del[i][j] > best {
				best = del[i][j]
				align[i][j] = best
				traceback[i][j] = 'D'
			}
			if match > best {
				best = match
				align[i][j] = best
				traceback[i][j] = 'M'
			}
		}
	}

	// Walk the traceback from (n,m) to (0,0).
	var path []byte
	i, j := n, m
	for i != 0 || j != 0 {
		switch traceback[i][j] {
		case 'M':
			path = append(path, 'M')
			i--
			j--
		case 'D':
			path = append(path, 'D')
			j--
		case 'I':
			path = append(path, 'I')
			i--
		}
	}

	var gappedA, gappedB strings.Builder
	gappedA.Grow(len(path))
	gappedB.Grow(len(path))
	ai, bi := 0, 0
	for k := len(path) - 1; k >= 0; k-- {
		switch path[k] {
		case 'M':
			gappedA.WriteByte(a[ai])
			gappedB.WriteByte(b[bi])
			ai++
			bi++
		case 'D':
			gappedA.WriteByte(Gap)
			gappedB.WriteByte(b[bi])
			bi++
		case 'I':
			gappedA.WriteByte(a[ai])
			gappedB.WriteByte(Gap)
			ai++
		}
	}

	return Alignment{Score: align[n][m], A: gappedA.String(), B: gappedB.String()}, nil
}

// marginCost scores a marginal gap prefix of length k against a
// sequence of length total.
func marginCost(mode MarginMode, gapOpen, gapExtend, k, total int) int {
	switch mode {
	case Penalize:
		return -gapOpen - (k-1)*gapExtend
	case Forbid:
		return -gapOpen * total
	default:
		return 0
	}
}

func newMatrix(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}
