package structure

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pdbLines renders minimal ATOM records for a chain of one-letter
// residues, one CA atom per residue, starting at the given residue
// number.
func pdbLines(chain string, residues string, firstSeq int) string {
	oneToThree := map[byte]string{
		'A': "ALA", 'K': "LYS", 'M': "MET", 'G': "GLY", 'S': "SER",
	}
	var b strings.Builder
	serial := 1
	for i := 0; i < len(residues); i++ {
		name := oneToThree[residues[i]]
		b.WriteString(atomLine(serial, name, chain, firstSeq+i))
		b.WriteByte('\n')
		serial++
	}
	return b.String()
}

func atomLine(serial int, resName, chain string, resSeq int) string {
	// Fixed-column PDB ATOM record, CA atom only.
	line := []byte(strings.Repeat(" ", 80))
	copy(line[0:], "ATOM")
	copy(line[6:], padLeft(serial, 5))
	copy(line[13:], "CA")
	copy(line[17:], resName)
	copy(line[21:], chain)
	copy(line[22:], padLeft(resSeq, 4))
	return string(line)
}

func padLeft(v, width int) string {
	return fmt.Sprintf("%*d", width, v)
}

func TestParseChainSequence(t *testing.T) {
	s, err := Parse(strings.NewReader(pdbLines("A", "AAAAK", 1)))
	require.NoError(t, err)
	require.Len(t, s.Chains(), 1)
	assert.Equal(t, "AAAAK", s.Chains()[0].Sequence())
}

func TestParseSkipsWaterAndMembrane(t *testing.T) {
	water := []byte(strings.Repeat(" ", 80))
	copy(water[0:], "HETATM")
	copy(water[13:], "O")
	copy(water[17:], "HOH")
	copy(water[21:], "A")
	copy(water[22:], padLeft(99, 4))
	content := pdbLines("A", "AK", 1) + string(water) + "\n" + pdbLines("x", "GG", 1)
	s, err := Parse(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, s.Chains(), 1)
	assert.Equal(t, "AK", s.Chains()[0].Sequence())
}

// A chain missing the leading methionine: padded sequence carries the
// reference residue in lowercase and the chain residues are numbered
// by their padded positions.
func TestReconcileMissingPrefix(t *testing.T) {
	s, err := Parse(strings.NewReader(pdbLines("A", "AAAAK", 1)))
	require.NoError(t, err)

	padded, text, err := Reconcile(s, "g", "MAAAAK", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "mAAAAK", padded["A"])

	chain := s.Chain("A")
	require.Len(t, chain.Residues, 5)
	for i, r := range chain.Residues {
		assert.Equal(t, i+2, r.newSeq, "residue %d", i)
	}
	assert.NotEmpty(t, text)
	// The rewritten text numbers the first residue 2.
	assert.Contains(t, text, "ALA A   2")
}

func TestReconcileIdentical(t *testing.T) {
	s, err := Parse(strings.NewReader(pdbLines("A", "MAAAAK", 10)))
	require.NoError(t, err)

	padded, text, err := Reconcile(s, "g", "MAAAAK", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "MAAAAK", padded["A"])
	// Renumbering rebases residue numbers to 1..N.
	assert.Contains(t, text, "MET A   1")
}

func TestReconcileChainLongerThanReference(t *testing.T) {
	s, err := Parse(strings.NewReader(pdbLines("A", "MAAAAKGGS", 1)))
	require.NoError(t, err)

	_, _, err = Reconcile(s, "g", "MAAAAK", zap.NewNop())
	assert.Error(t, err, "chain residues beyond the reference translation must fail")
}

func TestCountDivergentSegments(t *testing.T) {
	tests := []struct {
		padded string
		want   int
	}{
		{"mAAAAK", 0},
		{"MAAAAK", 0},
		{"MaaAK", 1},
		{"MaaAkkKssG", 3},
	}
	for _, tt := range tests {
		if got := countDivergentSegments(tt.padded); got != tt.want {
			t.Errorf("countDivergentSegments(%q) = %d, want %d", tt.padded, got, tt.want)
		}
	}
}
