package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/svbio/varcat/internal/catalog"
	"github.com/svbio/varcat/internal/reference"
	"github.com/svbio/varcat/internal/vcf"
)

func testFeature(t *testing.T) *reference.Feature {
	t.Helper()
	g, err := reference.ReadFastaFromString(">chr1\nATGAAATAA\n")
	require.NoError(t, err)
	f, err := reference.NewFeature("g", "chr1", 1, 9, true, true)
	require.NoError(t, err)
	require.NoError(t, f.Impute(g, zap.NewNop()))
	return f
}

func TestVariantContent(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		alt  string
		want string
	}{
		{"substitution", "A", "G", "G"},
		{"insertion keeps anchor", "A", "AAT", "AAT"},
		{"deletion marks gaps", "AAT", "A", "A--"},
		{"longer deletion", "ACGT", "A", "A---"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, variantContent(tt.ref, tt.alt))
		})
	}
}

func TestReconstructSequence(t *testing.T) {
	f := testFeature(t)

	tests := []struct {
		name     string
		variants []catalog.NucleotideVariant
		want     string
	}{
		{"no variants", nil, "ATGAAATAA"},
		{"substitution", []catalog.NucleotideVariant{
			{Position: 4, Content: "G", Reference: "A"},
		}, "ATGGAATAA"},
		{"insertion", []catalog.NucleotideVariant{
			{Position: 6, Content: "AAT", Reference: "A"},
		}, "ATGAAAATTAA"},
		{"deletion shows gaps", []catalog.NucleotideVariant{
			{Position: 4, Content: "A--", Reference: "AAA"},
		}, "ATGA--TAA"},
		{"unsorted input applied in position order", []catalog.NucleotideVariant{
			{Position: 7, Content: "G", Reference: "T"},
			{Position: 4, Content: "G", Reference: "A"},
		}, "ATGGAAGAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconstructSequence(f, tt.variants))
		})
	}
}

// A novel stop codon: position 4 A>T turns codon 2 into TAA.
func TestDeriveProteoformVariantsNovelStop(t *testing.T) {
	f := testFeature(t)
	reconstructed := ReconstructSequence(f, []catalog.NucleotideVariant{
		{Position: 4, Content: "T", Reference: "A"},
	})
	require.Equal(t, "ATGTAATAA", reconstructed)

	variants, err := DeriveProteoformVariants(f, reconstructed)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, catalog.AminoPosition{P: 2, I: 0}, variants[0].Position)
	assert.Equal(t, "*", variants[0].Content)
}

// An insertion after position 6: the reading frame shifts and an
// inserted residue is reported at an insertion offset.
func TestDeriveProteoformVariantsInsertion(t *testing.T) {
	f := testFeature(t)
	record := vcf.Record{Contig: "chr1", Position: 6, Ref: "A", Alt: "AT"}
	variant := acceptedVariant(record)
	assert.Equal(t, "AT", variant.Content)

	reconstructed := ReconstructSequence(f, []catalog.NucleotideVariant{variant})
	require.Equal(t, "ATGAAATTAA", reconstructed)

	variants, err := DeriveProteoformVariants(f, reconstructed)
	require.NoError(t, err)

	inserted := 0
	for _, v := range variants {
		if v.Position.I > 0 {
			inserted++
			assert.Equal(t, 1, v.Position.I)
		}
	}
	assert.Equal(t, 1, inserted, "expected exactly one inserted residue")
}

func TestDeriveProteoformVariantsIdentical(t *testing.T) {
	f := testFeature(t)
	variants, err := DeriveProteoformVariants(f, f.NucleotideSequence)
	require.NoError(t, err)
	assert.Empty(t, variants)
}
