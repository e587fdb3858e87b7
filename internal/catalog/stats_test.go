package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlleleStatistics(t *testing.T) {
	fi := NewFeatureIndex()
	variants := []NucleotideVariant{
		{Position: 4, Content: "G", Reference: "A"},    // substitution
		{Position: 6, Content: "AAT", Reference: "A"},  // insertion
		{Position: 8, Content: "A--", Reference: "AAT"}, // deletion of two bases
	}
	id := fi.SubmitAllele("a", variants)
	fi.SubmitAllele("b", nil)

	require.NoError(t, fi.ComputeStatistics(1, 12, 0, 2))

	allele, _ := fi.Allele(id)
	assert.Equal(t, "1", allele.Annotations[KeySubstitutions])
	assert.Equal(t, "1", allele.Annotations[KeyInsertions])
	assert.Equal(t, "1", allele.Annotations[KeyDeletions])
	assert.Equal(t, "0.50", allele.Annotations[KeyFrequency])
	// Positions 4, 6 and the deletion span 8-10 on a feature of
	// length 12.
	assert.Equal(t, "41.67", allele.Annotations[KeyVariablePositions])

	reference, _ := fi.Allele(ReferenceAlleleID)
	assert.Equal(t, "0.50", reference.Annotations[KeyFrequency])
	assert.Equal(t, "0", reference.Annotations[KeySubstitutions])
}

func TestProteoformStatisticsTermination(t *testing.T) {
	fi := NewFeatureIndex()
	id := fi.SubmitProteoform("a", []AminoacidVariant{
		{Position: AminoPosition{P: 2, I: 0}, Content: "*"},
	})
	require.NoError(t, fi.ComputeStatistics(1, 9, 3, 1))

	proteoform, _ := fi.Proteoform(id)
	assert.Equal(t, "2+0", proteoform.Annotations[KeyDivergentTermination])
	assert.Equal(t, "33.33", proteoform.Annotations[KeyTruncationPercentage])
	assert.Equal(t, "1", proteoform.Annotations[KeySubstitutions])
	// One variant position of the two residues up to and including the
	// novel termination.
	assert.Equal(t, "50.00", proteoform.Annotations[KeyVariablePositions])
}

func TestProteoformStatisticsWithoutTermination(t *testing.T) {
	fi := NewFeatureIndex()
	id := fi.SubmitProteoform("a", []AminoacidVariant{
		{Position: AminoPosition{P: 2, I: 0}, Content: "E"},
	})
	require.NoError(t, fi.ComputeStatistics(1, 9, 3, 1))

	proteoform, _ := fi.Proteoform(id)
	assert.Equal(t, NoDivergentTermination, proteoform.Annotations[KeyDivergentTermination])
	assert.Equal(t, "0.00", proteoform.Annotations[KeyTruncationPercentage])
}

func TestProteoformInsertionRuns(t *testing.T) {
	fi := NewFeatureIndex()
	// One consecutive insertion run of length two after residue 3 and
	// a separate single insertion after residue 7.
	id := fi.SubmitProteoform("a", []AminoacidVariant{
		{Position: AminoPosition{P: 3, I: 1}, Content: "A"},
		{Position: AminoPosition{P: 3, I: 2}, Content: "G"},
		{Position: AminoPosition{P: 7, I: 1}, Content: "S"},
	})
	require.NoError(t, fi.ComputeStatistics(1, 30, 10, 1))

	proteoform, _ := fi.Proteoform(id)
	assert.Equal(t, "2", proteoform.Annotations[KeyInsertions])
	assert.Equal(t, "0", proteoform.Annotations[KeySubstitutions])
	assert.Equal(t, "0", proteoform.Annotations[KeyDeletions])
}

func TestProteoformDeletionRuns(t *testing.T) {
	fi := NewFeatureIndex()
	// Residues 4 and 5 form one deletion run; residue 9 a second.
	id := fi.SubmitProteoform("a", []AminoacidVariant{
		{Position: AminoPosition{P: 4, I: 0}, Content: "-"},
		{Position: AminoPosition{P: 5, I: 0}, Content: "-"},
		{Position: AminoPosition{P: 9, I: 0}, Content: "-"},
	})
	require.NoError(t, fi.ComputeStatistics(1, 30, 10, 1))

	proteoform, _ := fi.Proteoform(id)
	assert.Equal(t, "2", proteoform.Annotations[KeyDeletions])
}

func TestVariantSiteFrequency(t *testing.T) {
	fi := NewFeatureIndex()
	snp := []NucleotideVariant{{Position: 4, Content: "G", Reference: "A"}}
	fi.SubmitAllele("a", snp)
	fi.SubmitAllele("b", snp)
	fi.SubmitAllele("c", nil)
	fi.SubmitAllele("d", nil)

	require.NoError(t, fi.ComputeStatistics(1, 9, 0, 4))
	site := fi.NucleotideSite(4)
	assert.Equal(t, "0.50", site["G"].Annotations[KeyFrequency])
}
