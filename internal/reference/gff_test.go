package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGFF = `##gff-version 3
chr1	ena	gene	1	9	.	+	.	ID=gene:g1;Name=geneA
chr1	ena	CDS	12	20	.	-	0	ID=cds:c1;Name=geneB;product=hypothetical%20protein
chr2	ena	gene	5	40	.	+	.	ID=gene:g2;Name=geneA
malformed line without tabs
`

func TestParseGFF(t *testing.T) {
	a, err := parseGFF(strings.NewReader(testGFF))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())
}

func TestSelectByAttribute(t *testing.T) {
	a, err := parseGFF(strings.NewReader(testGFF))
	require.NoError(t, err)

	matches := a.SelectByAttribute("ID", "cds:c1")
	require.Len(t, matches, 1)
	rec := matches[0]
	assert.Equal(t, "chr1", rec.Contig)
	assert.Equal(t, "CDS", rec.Type)
	assert.Equal(t, 12, rec.Start)
	assert.Equal(t, 20, rec.End)
	assert.Equal(t, "-", rec.Strand)
	// Percent-encoded attribute values are decoded.
	assert.Equal(t, "hypothetical protein", rec.Attributes["product"])

	assert.Len(t, a.SelectByAttribute("Name", "geneA"), 2)
	assert.Empty(t, a.SelectByAttribute("Name", "missing"))
}

func TestFeatureFromMatch(t *testing.T) {
	a, err := parseGFF(strings.NewReader(testGFF))
	require.NoError(t, err)

	f, err := FeatureFromMatch("g1", a, "ID", "gene:g1", true)
	require.NoError(t, err)
	assert.Equal(t, "chr1", f.Contig)
	assert.Equal(t, 1, f.Start)
	assert.Equal(t, 9, f.End)
	assert.True(t, f.IsSense)
	assert.True(t, f.IsCodingSequence)

	// Antisense records keep normalized coordinates.
	f, err = FeatureFromMatch("c1", a, "ID", "cds:c1", true)
	require.NoError(t, err)
	assert.False(t, f.IsSense)
	assert.Equal(t, 12, f.Start)
	assert.Equal(t, 20, f.End)
}

func TestFeatureFromMatchAmbiguous(t *testing.T) {
	a, err := parseGFF(strings.NewReader(testGFF))
	require.NoError(t, err)

	_, err = FeatureFromMatch("x", a, "Name", "geneA", false)
	assert.Error(t, err, "ambiguous match must fail")

	_, err = FeatureFromMatch("x", a, "Name", "missing", false)
	assert.Error(t, err, "missing match must fail")
}
