package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/svbio/varcat/internal/errs"
	"github.com/svbio/varcat/internal/seq"
)

// ComputeStatistics fills the statistics annotations of every allele,
// proteoform and variant site of the feature. start and end are the
// feature's reference coordinates, translatedLength the length of the
// translated reference (0 for non-coding features), totalSamples the
// number of analyzed samples.
//
// Insertion and deletion runs are counted over each record's variants
// sorted by position; the per-site frequency pass does not depend on
// the order in which sites are visited.
func (fi *FeatureIndex) ComputeStatistics(start, end, translatedLength, totalSamples int) error {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	featureLength := end - start + 1
	for _, allele := range fi.alleles {
		if err := alleleStatistics(allele, start, end, featureLength, totalSamples); err != nil {
			return err
		}
	}
	for _, proteoform := range fi.proteoforms {
		if err := proteoformStatistics(proteoform, translatedLength, totalSamples); err != nil {
			return err
		}
	}

	// Frequency across samples per variant record. Sample sets of the
	// occurring alleles are disjoint, so sizes add up.
	for _, site := range fi.nucleotideVariants {
		for _, record := range site {
			carriers := 0
			for _, id := range record.Occurrence {
				allele, ok := fi.alleles[id]
				if !ok {
					return &errs.InternalError{Message: fmt.Sprintf("variant occurrence references unknown allele %s", id)}
				}
				carriers += len(allele.Samples)
			}
			record.Annotations[KeyFrequency] = formatRatio(carriers, totalSamples)
		}
	}
	for _, site := range fi.aminoacidVariants {
		for _, record := range site {
			carriers := 0
			for _, id := range record.Occurrence {
				proteoform, ok := fi.proteoforms[id]
				if !ok {
					return &errs.InternalError{Message: fmt.Sprintf("variant occurrence references unknown proteoform %s", id)}
				}
				carriers += len(proteoform.Samples)
			}
			record.Annotations[KeyFrequency] = formatRatio(carriers, totalSamples)
		}
	}
	return nil
}

func alleleStatistics(allele *Allele, start, end, featureLength, totalSamples int) error {
	substitutions, insertions, deletions := 0, 0, 0
	positions := make(map[int]struct{})

	for _, descriptor := range splitVariants(allele.Annotations[KeyVariants]) {
		content, posToken, err := SplitDescriptor(descriptor)
		if err != nil {
			return err
		}
		pos, err := strconv.Atoi(posToken)
		if err != nil {
			return &errs.InternalError{Message: fmt.Sprintf("malformed nucleotide descriptor %q", descriptor)}
		}
		switch {
		case strings.ContainsRune(content, seq.Gap):
			deletions++
			// A deletion descriptor covers the anchor plus the
			// deleted reference positions.
			for i := 0; i < len(content); i++ {
				positions[pos+i] = struct{}{}
			}
			continue
		case len(content) > 1:
			insertions++
		default:
			substitutions++
		}
		positions[pos] = struct{}{}
	}

	variable := 0
	for pos := range positions {
		if pos >= start && pos <= end {
			variable++
		}
	}

	allele.Annotations[KeySubstitutions] = strconv.Itoa(substitutions)
	allele.Annotations[KeyInsertions] = strconv.Itoa(insertions)
	allele.Annotations[KeyDeletions] = strconv.Itoa(deletions)
	allele.Annotations[KeyFrequency] = formatRatio(len(allele.Samples), totalSamples)
	allele.Annotations[KeyVariablePositions] = formatPercentage(variable, featureLength)
	return nil
}

type aminoVariant struct {
	pos     AminoPosition
	content string
}

func proteoformStatistics(proteoform *Proteoform, translatedLength, totalSamples int) error {
	variants := make([]aminoVariant, 0)
	for _, descriptor := range splitVariants(proteoform.Annotations[KeyVariants]) {
		content, posToken, err := SplitDescriptor(descriptor)
		if err != nil {
			return err
		}
		pos, err := ParseAminoPosition(posToken)
		if err != nil {
			return err
		}
		variants = append(variants, aminoVariant{pos: pos, content: content})
	}
	sortAminoVariants(variants)

	substitutions, insertions, deletions := 0, 0, 0
	termination := AminoPosition{}
	hasTermination := false
	var prev *aminoVariant
	for i := range variants {
		v := variants[i]
		switch {
		case v.content == string(seq.Gap):
			if prev == nil || prev.content != string(seq.Gap) || prev.pos.P+1 != v.pos.P {
				deletions++
			}
		case v.pos.I > 0:
			if prev == nil || prev.pos.P != v.pos.P || prev.pos.I+1 != v.pos.I {
				insertions++
			}
		default:
			substitutions++
		}
		if v.content == string(seq.Termination) && !hasTermination {
			termination = v.pos
			hasTermination = true
		}
		prev = &variants[i]
	}

	// Variable positions are counted up to the first novel
	// termination when one exists.
	segmentLength := translatedLength
	if hasTermination {
		segmentLength = termination.P
	}
	variable := 0
	for _, v := range variants {
		if v.pos.P <= segmentLength {
			variable++
		}
	}

	proteoform.Annotations[KeySubstitutions] = strconv.Itoa(substitutions)
	proteoform.Annotations[KeyInsertions] = strconv.Itoa(insertions)
	proteoform.Annotations[KeyDeletions] = strconv.Itoa(deletions)
	proteoform.Annotations[KeyFrequency] = formatRatio(len(proteoform.Samples), totalSamples)
	proteoform.Annotations[KeyVariablePositions] = formatPercentage(variable, segmentLength)
	if hasTermination {
		proteoform.Annotations[KeyDivergentTermination] = termination.String()
		truncation := 100 * (1 - float64(termination.P)/float64(translatedLength))
		proteoform.Annotations[KeyTruncationPercentage] = fmt.Sprintf("%.2f", truncation)
	} else {
		proteoform.Annotations[KeyDivergentTermination] = NoDivergentTermination
		proteoform.Annotations[KeyTruncationPercentage] = "0.00"
	}
	return nil
}

func splitVariants(canonical string) []string {
	if canonical == "" {
		return nil
	}
	return strings.Split(canonical, ";")
}

func sortAminoVariants(variants []aminoVariant) {
	sort.Slice(variants, func(i, j int) bool { return variants[i].pos.Less(variants[j].pos) })
}

func formatRatio(count, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(count)/float64(total))
}

func formatPercentage(count, length int) string {
	if length == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", 100*float64(count)/float64(length))
}
