// Package build drives a BUILD run: it reads and filters per-sample
// variant calls, reconstructs per-feature sequences, funnels variant
// sets into the aggregation core and assembles the catalog.
package build

import (
	"sort"
	"strings"

	"github.com/svbio/varcat/internal/catalog"
	"github.com/svbio/varcat/internal/reference"
	"github.com/svbio/varcat/internal/seq"
	"github.com/svbio/varcat/internal/vcf"
)

// Gap penalties for proteoform inference alignments.
const (
	proteoformGapOpen   = 4
	proteoformGapExtend = 3
)

// variantContent converts a call's ref/alt pair into the stored
// variant content: deletions keep the anchor and mark each deleted
// base with a gap, insertions keep the anchor plus the inserted bases.
func variantContent(ref, alt string) string {
	if len(ref) > len(alt) {
		return alt + strings.Repeat(string(seq.Gap), len(ref)-len(alt))
	}
	return alt
}

// acceptedVariant converts an accepted call record into the submission
// form.
func acceptedVariant(r vcf.Record) catalog.NucleotideVariant {
	return catalog.NucleotideVariant{
		Position:  r.Position,
		Content:   variantContent(r.Ref, r.Alt),
		Reference: r.Ref,
		IsPrimary: r.IsPrimary,
	}
}

// ReconstructSequence rebuilds a sample's nucleotide sequence for a
// feature from the reference subsequence and the accepted variants,
// applied in ascending position order. Deleted bases appear as gap
// characters; inserted bases extend the sequence after their anchor.
func ReconstructSequence(f *reference.Feature, variants []catalog.NucleotideVariant) string {
	sorted := make([]catalog.NucleotideVariant, len(variants))
	copy(sorted, variants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var b strings.Builder
	b.Grow(len(f.NucleotideSequence) + 16)
	cursor := f.Start
	for _, v := range sorted {
		if v.Position < cursor || v.Position > f.End {
			continue
		}
		b.WriteString(f.NucleotideSequence[cursor-f.Start : v.Position-f.Start])
		b.WriteString(v.Content)
		cursor = v.Position + len(v.Reference)
		if cursor > f.End+1 {
			cursor = f.End + 1
		}
	}
	b.WriteString(f.NucleotideSequence[cursor-f.Start:])
	return b.String()
}

// DeriveProteoformVariants translates the reconstructed sequence and
// extracts the induced amino-acid variants from its alignment against
// the translated reference. Positions are keyed P+I: P is the 1-based
// reference residue, I the insertion offset after it.
func DeriveProteoformVariants(f *reference.Feature, reconstructed string) ([]catalog.AminoacidVariant, error) {
	sampleNucleotides := strings.ReplaceAll(reconstructed, string(seq.Gap), "")
	sampleProtein, err := seq.Translate(sampleNucleotides, true, true, f.IsSense)
	if err != nil {
		return nil, err
	}

	alignment, err := seq.Align(f.TranslatedNucleotideSequence, sampleProtein, seq.ProteinScoring(),
		proteoformGapOpen, proteoformGapExtend, seq.Forbid, seq.Penalize)
	if err != nil {
		return nil, err
	}

	var variants []catalog.AminoacidVariant
	consecutiveInsertions := 0
	totalInsertions := 0
	for i := 0; i < len(alignment.A); i++ {
		referenceChar := alignment.A[i]
		sampleChar := alignment.B[i]
		if referenceChar == sampleChar {
			consecutiveInsertions = 0
			continue
		}
		switch {
		case sampleChar == seq.Gap:
			consecutiveInsertions = 0
		case referenceChar == seq.Gap:
			consecutiveInsertions++
			totalInsertions++
		default:
			consecutiveInsertions = 0
		}
		variants = append(variants, catalog.AminoacidVariant{
			Position: catalog.AminoPosition{P: i - totalInsertions + 1, I: consecutiveInsertions},
			Content:  string(sampleChar),
		})
	}
	return variants, nil
}
