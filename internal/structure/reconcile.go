package structure

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/svbio/varcat/internal/errs"
	"github.com/svbio/varcat/internal/seq"
)

// Gap penalties for chain-to-reference alignment.
const (
	chainGapOpen   = 5
	chainGapExtend = 4
)

// Reconcile aligns every chain sequence of the structure against the
// translated reference sequence and renumbers the structure's residues
// so that structure indices agree with reference positions.
//
// The returned map holds the padded chain sequences: chain residues in
// uppercase, reference residues missing from the structure in
// lowercase. Each chain residue is renumbered with the 1-based index
// of its uppercase position in the padded sequence, which is its
// position on the translated reference; lowercase positions receive no
// residue number.
func Reconcile(s *Structure, featureName, translatedReference string, logger *zap.Logger) (map[string]string, string, error) {
	padded := make(map[string]string, len(s.Chains()))
	for _, chain := range s.Chains() {
		chainSequence := chain.Sequence()
		alignment, err := seq.Align(chainSequence, translatedReference, seq.ProteinScoring(),
			chainGapOpen, chainGapExtend, seq.Free, seq.Free)
		if err != nil {
			return nil, "", err
		}

		var paddedBuilder strings.Builder
		paddedBuilder.Grow(len(alignment.A))
		for i := 0; i < len(alignment.A); i++ {
			chainChar := alignment.A[i]
			referenceChar := alignment.B[i]
			switch {
			case chainChar == seq.Gap && referenceChar == seq.Gap:
				continue
			case chainChar == seq.Gap:
				paddedBuilder.WriteByte(byte(unicode.ToLower(rune(referenceChar))))
			case referenceChar == seq.Gap:
				return nil, "", &errs.BioError{
					Message: fmt.Sprintf("chain %s extends beyond the translated sequence of feature %s", chain.ID, featureName),
				}
			default:
				paddedBuilder.WriteByte(chainChar)
			}
		}
		paddedSequence := paddedBuilder.String()

		// Residue numbers follow the uppercase positions of the
		// padded sequence.
		var numbers []int
		for pos := 1; pos <= len(paddedSequence); pos++ {
			if unicode.IsLower(rune(paddedSequence[pos-1])) {
				continue
			}
			numbers = append(numbers, pos)
		}
		chain.Renumber(numbers)

		if n := countDivergentSegments(paddedSequence); n > 2 {
			logger.Warn("structure chain disaccords with translated feature sequence",
				zap.String("feature", featureName),
				zap.String("chain", chain.ID),
				zap.Int("segments", n))
		}
		padded[chain.ID] = paddedSequence
	}
	return padded, s.ToPDB(), nil
}

// countDivergentSegments splits the padded sequence before every
// uppercase letter and counts segments longer than one, i.e. residues
// followed by a run of structure-missing positions.
func countDivergentSegments(padded string) int {
	count := 0
	segmentLength := 0
	for i := 0; i < len(padded); i++ {
		if unicode.IsUpper(rune(padded[i])) && segmentLength > 0 {
			if segmentLength > 1 {
				count++
			}
			segmentLength = 0
		}
		segmentLength++
	}
	if segmentLength > 1 {
		count++
	}
	return count
}
