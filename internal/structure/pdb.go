// Package structure reads protein structures in PDB format and
// reconciles their chain residue numbering with a translated reference
// sequence.
package structure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/svbio/varcat/internal/errs"
)

// Three-letter to one-letter residue codes. Unknown residues map to
// 'X'.
var threeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
}

// Residue is one residue of a chain with the indices of its ATOM
// lines.
type Residue struct {
	Name  string
	Seq   int
	ICode byte

	lineIndices []int
	newSeq      int
	renumbered  bool
	dropped     bool
}

// Chain is an ordered list of residues sharing one chain identifier.
type Chain struct {
	ID       string
	Residues []*Residue
}

// Sequence returns the one-letter residue sequence of the chain in
// atom-record order.
func (c *Chain) Sequence() string {
	var b strings.Builder
	b.Grow(len(c.Residues))
	for _, r := range c.Residues {
		aa, ok := threeToOne[r.Name]
		if !ok {
			aa = 'X'
		}
		b.WriteByte(aa)
	}
	return b.String()
}

// Renumber assigns new residue numbers in residue order. Residues
// beyond the provided numbers are dropped from the rewritten
// structure.
func (c *Chain) Renumber(numbers []int) {
	for i, r := range c.Residues {
		if i < len(numbers) {
			r.newSeq = numbers[i]
			r.renumbered = true
		} else {
			r.dropped = true
		}
	}
}

// Structure is a parsed PDB file: its raw lines plus the chain and
// residue model extracted from the ATOM records.
type Structure struct {
	lines  []string
	chains []*Chain
	// residueByLine maps a line index to its residue, for rewriting.
	residueByLine map[int]*Residue
}

// ReadPDB parses a PDB file from disk.
func ReadPDB(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses PDB text. Water residues and the membrane
// pseudo-chain "x" are skipped.
func Parse(reader io.Reader) (*Structure, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	s := &Structure{residueByLine: make(map[int]*Residue)}
	chainsByID := make(map[string]*Chain)
	var current *Residue
	var currentChain *Chain

	lineIndex := 0
	for scanner.Scan() {
		line := scanner.Text()
		s.lines = append(s.lines, line)
		idx := lineIndex
		lineIndex++

		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}
		if len(line) < 27 {
			return nil, fmt.Errorf("malformed atom record at line %d", idx+1)
		}
		resName := strings.TrimSpace(line[17:20])
		chainID := strings.TrimSpace(line[21:22])
		seqStr := strings.TrimSpace(line[22:26])
		iCode := line[26]

		if resName == "HOH" || chainID == "x" {
			continue
		}
		seqNum, err := strconv.Atoi(seqStr)
		if err != nil {
			return nil, fmt.Errorf("malformed residue number at line %d: %q", idx+1, seqStr)
		}

		chain, ok := chainsByID[chainID]
		if !ok {
			chain = &Chain{ID: chainID}
			chainsByID[chainID] = chain
			s.chains = append(s.chains, chain)
		}
		if current == nil || currentChain != chain || current.Seq != seqNum || current.ICode != iCode || current.Name != resName {
			current = &Residue{Name: resName, Seq: seqNum, ICode: iCode}
			chain.Residues = append(chain.Residues, current)
			currentChain = chain
		}
		current.lineIndices = append(current.lineIndices, idx)
		s.residueByLine[idx] = current
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan pdb: %w", err)
	}
	return s, nil
}

// Chains returns the chains in file order.
func (s *Structure) Chains() []*Chain {
	return s.chains
}

// Chain returns the chain with the given identifier.
func (s *Structure) Chain(id string) *Chain {
	for _, c := range s.chains {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ToPDB rewrites the structure text, applying residue renumbering and
// omitting dropped residues.
func (s *Structure) ToPDB() string {
	var b strings.Builder
	for idx, line := range s.lines {
		r, ok := s.residueByLine[idx]
		if !ok {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		if r.dropped {
			continue
		}
		if r.renumbered {
			line = patchResidueNumber(line, r.newSeq)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// patchResidueNumber rewrites the residue sequence columns (23-26) and
// clears the insertion code column.
func patchResidueNumber(line string, seq int) string {
	bytes := []byte(line)
	patched := fmt.Sprintf("%4d", seq)
	copy(bytes[22:26], patched)
	bytes[26] = ' '
	return string(bytes)
}
