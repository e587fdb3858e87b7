package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFasta(t *testing.T) {
	content := `>chr1 Escherichia coli test contig
ATGAAA
TAA
;comment line
>chr2
acgt
`
	g, err := parseFasta(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"chr1", "chr2"}, g.Contigs())

	seq, ok := g.Sequence("chr1")
	require.True(t, ok)
	assert.Equal(t, "ATGAAATAA", seq)

	// Lowercase input is normalized.
	seq, ok = g.Sequence("chr2")
	require.True(t, ok)
	assert.Equal(t, "ACGT", seq)
}

func TestSubsequence(t *testing.T) {
	g, err := parseFasta(strings.NewReader(">c\nATGAAATAA\n"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		start   int
		end     int
		want    string
		wantErr bool
	}{
		{"full range", 1, 9, "ATGAAATAA", false},
		{"inner codon", 4, 6, "AAA", false},
		{"single base", 7, 7, "T", false},
		{"start below one", 0, 3, "", true},
		{"end beyond contig", 1, 10, "", true},
		{"inverted range", 5, 4, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Subsequence("c", tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubsequenceUnknownContig(t *testing.T) {
	g, err := parseFasta(strings.NewReader(">c\nATG\n"))
	require.NoError(t, err)
	_, err = g.Subsequence("missing", 1, 3)
	assert.Error(t, err)
}
