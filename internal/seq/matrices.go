package seq

// Scoring pairs a symbol index table with a symmetric substitution
// matrix for alignment computation.
type Scoring struct {
	Index  map[byte]int
	Matrix [][]int
}

// PAM120 substitution matrix extended with rows for 'X' (-1 against
// residues, 0 against itself) and '*' (-4 against residues and 'X', 0
// against itself).
var pam120Matrix = [][]int{
	{1, -1, 0, 0, -1, 0, 0, 0, -1, 0, -1, -1, -1, -1, 0, 0, 0, -2, -1, 0, -1, -4},
	{-1, 2, 0, -1, -1, 0, -1, -1, 0, -1, -1, 1, 0, -2, 0, 0, -1, 0, -2, -1, -1, -4},
	{0, 0, 1, 1, -2, 0, 0, 0, 1, -1, -1, 0, -1, -1, -1, 0, 0, -2, -1, -1, -1, -4},
	{0, -1, 1, 2, -2, 0, 1, 0, 0, -1, -2, 0, -1, -2, -1, 0, 0, -3, -2, -1, -1, -4},
	{-1, -1, -2, -2, 3, -2, -2, -2, -1, -1, -3, -2, -2, -2, -1, 0, -1, -3, 0, -1, -1, -4},
	{0, 0, 0, 0, -2, 2, 1, -1, 1, -1, -1, 0, 0, -2, 0, -1, -1, -2, -2, -1, -1, -4},
	{0, -1, 0, 1, -2, 1, 2, 0, 0, -1, -2, 0, -1, -2, -1, 0, -1, -3, -2, -1, -1, -4},
	{0, -1, 0, 0, -2, -1, 0, 2, -1, -1, -2, -1, -1, -2, -1, 0, 0, -3, -2, -1, -1, -4},
	{-1, 0, 1, 0, -1, 1, 0, -1, 2, -1, -1, -1, -1, -1, 0, -1, -1, -1, 0, -1, -1, -4},
	{0, -1, -1, -1, -1, -1, -1, -1, -1, 2, 0, -1, 1, 0, -1, -1, 0, -2, -1, 1, -1, -4},
	{-1, -1, -1, -2, -3, -1, -2, -2, -1, 0, 2, -1, 1, 0, -1, -1, -1, -1, -1, 0, -1, -4},
	{-1, 1, 0, 0, -2, 0, 0, -1, -1, -1, -1, 2, 0, -2, -1, 0, 0, -2, -2, -1, -1, -4},
	{-1, 0, -1, -1, -2, 0, -1, -1, -1, 1, 1, 0, 3, 0, -1, -1, 0, -2, -1, 0, -1, -4},
	{-1, -2, -1, -2, -2, -2, -2, -2, -1, 0, 0, -2, 0, 3, -2, -1, -1, 0, 2, -1, -1, -4},
	{0, 0, -1, -1, -1, 0, -1, -1, 0, -1, -1, -1, -1, -2, 2, 0, 0, -2, -2, -1, -1, -4},
	{0, 0, 0, 0, 0, -1, 0, 0, -1, -1, -1, 0, -1, -1, 0, 1, 1, -1, -1, -1, -1, -4},
	{0, -1, 0, 0, -1, -1, -1, 0, -1, 0, -1, 0, 0, -1, 0, 1, 1, -2, -1, 0, -1, -4},
	{-2, 0, -2, -3, -3, -2, -3, -3, -1, -2, -1, -2, -2, 0, -2, -1, -2, 4, -1, -3, -1, -4},
	{-1, -2, -1, -2, 0, -2, -2, -2, 0, -1, -1, -2, -1, 2, -2, -1, -1, -1, 3, -1, -1, -4},
	{0, -1, -1, -1, -1, -1, -1, -1, -1, 1, 0, -1, 0, -1, -1, -1, 0, -3, -1, 2, -1, -4},
	{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 0, -4},
	{-4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, 0},
}

var pam120Index = map[byte]int{
	'A': 0, 'R': 1, 'N': 2, 'D': 3, 'C': 4, 'Q': 5, 'E': 6, 'G': 7,
	'H': 8, 'I': 9, 'L': 10, 'K': 11, 'M': 12, 'F': 13, 'P': 14,
	'S': 15, 'T': 16, 'W': 17, 'Y': 18, 'V': 19, AnyAA: 20, Termination: 21,
}

// ProteinScoring returns the PAM120 scoring used for amino-acid
// alignments, including entries for 'X' and '*'.
func ProteinScoring() Scoring {
	return Scoring{Index: pam120Index, Matrix: pam120Matrix}
}

var nucleotideIndex = map[byte]int{'A': 0, 'C': 1, 'G': 2, 'T': 3, 'N': 4}

var nucleotideMatrix = [][]int{
	{1, -1, -1, -1, -1},
	{-1, 1, -1, -1, -1},
	{-1, -1, 1, -1, -1},
	{-1, -1, -1, 1, -1},
	{-1, -1, -1, -1, 1},
}

// NucleotideScoring returns the simple match/mismatch scoring for
// nucleotide alignments (match 1, mismatch -1, 'N' scored like any
// other symbol).
func NucleotideScoring() Scoring {
	return Scoring{Index: nucleotideIndex, Matrix: nucleotideMatrix}
}
