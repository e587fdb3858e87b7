package vcf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVCF = `##fileformat=VCFv4.2
##source=test
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	4	.	A	G	99.5	PASS	DP=42;AF=0.95
chr1	6	.	A	AT,AAT	50	PASS	DP=30;AF=0.2,0.7
chr1	8	.	AAT	A	60	PASS	DP=25;AF=1.0
`

func TestParserHeader(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)
	assert.Len(t, p.Header(), 3)
}

func TestParserRecords(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)

	records, err := p.Next()
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "chr1", r.Contig)
	assert.Equal(t, 4, r.Position)
	assert.Equal(t, "A", r.Ref)
	assert.Equal(t, "G", r.Alt)
	assert.Equal(t, 42.0, r.Depth)
	assert.Equal(t, 0.95, r.Frequency)
	assert.Equal(t, 99.5, r.Quality)
	assert.True(t, r.IsPrimary)
	assert.True(t, r.IsSNV())
}

func TestParserMultiAllelicPrimary(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)

	_, err = p.Next()
	require.NoError(t, err)

	records, err := p.Next()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The higher-frequency alternate is primary.
	assert.Equal(t, "AT", records[0].Alt)
	assert.Equal(t, 0.2, records[0].Frequency)
	assert.False(t, records[0].IsPrimary)

	assert.Equal(t, "AAT", records[1].Alt)
	assert.Equal(t, 0.7, records[1].Frequency)
	assert.True(t, records[1].IsPrimary)

	assert.True(t, records[0].IsInsertion())
}

func TestParserDeletion(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)

	_, _ = p.Next()
	_, _ = p.Next()
	records, err := p.Next()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsDeletion())
	assert.True(t, records[0].IsPrimary)
}

func TestParserEOF(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := p.Next()
		require.NoError(t, err)
	}
	records, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestParserMissingHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("chr1\t4\t.\tA\tG\t99\tPASS\tDP=1\n"))
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParserMalformedLine(t *testing.T) {
	input := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\nchr1\tabc\t.\tA\tG\t99\tPASS\tDP=1\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)
	_, err = p.Next()
	assert.Error(t, err)
}
