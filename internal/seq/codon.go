// Package seq provides the sequence kernels shared by reconstruction,
// proteoform inference and structure reconciliation: codon translation,
// reverse complementation and gap-affine global alignment.
package seq

import (
	"strings"

	"github.com/svbio/varcat/internal/errs"
)

// Symbols with special meaning in variant contents and alignments.
const (
	Gap         = '-' // alignment gap / deleted position
	Termination = '*' // translated stop codon
	AnyAA       = 'X' // untranslatable or incomplete codon
)

// Standard genetic code: DNA codon to amino acid (single letter).
// Stop codons map to '*'.
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// TranslateCodon translates one DNA codon. Codons containing 'N' and
// codons absent from the genetic code translate to 'X'. Stop codons
// translate to '*' when includeTermination is set, otherwise to the
// empty string.
func TranslateCodon(codon string, includeTermination bool) string {
	if len(codon) != 3 || strings.ContainsRune(codon, 'N') {
		return string(AnyAA)
	}
	aa, ok := codonTable[codon]
	if !ok {
		return string(AnyAA)
	}
	if aa == Termination && !includeTermination {
		return ""
	}
	return string(aa)
}

// Translate translates a nucleotide sequence into single-letter amino
// acids. Antisense sequences are reverse-complemented before codon
// partitioning. A tail shorter than one codon fails unless
// includeIncomplete is set, in which case it translates to 'X'.
func Translate(sequence string, includeTermination, includeIncomplete, asSense bool) (string, error) {
	if !asSense {
		sequence = ReverseComplement(sequence)
	}
	var b strings.Builder
	b.Grow(len(sequence)/3 + 1)
	for i := 0; i < len(sequence); i += 3 {
		end := i + 3
		if end > len(sequence) {
			if !includeIncomplete {
				return "", &errs.BioError{
					Message: "cannot translate sequence containing codon of length unequal three",
				}
			}
			b.WriteByte(AnyAA)
			break
		}
		b.WriteString(TranslateCodon(sequence[i:end], includeTermination))
	}
	return b.String(), nil
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// Non-ACGT bytes pass through unchanged.
func ReverseComplement(sequence string) string {
	n := len(sequence)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = Complement(sequence[n-1-i])
	}
	return string(result)
}

// Complement returns the complement of a single base; the identity for
// anything that is not A, C, G or T.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	default:
		return base
	}
}
