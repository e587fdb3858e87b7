// Package reference holds the immutable reference data of a build run:
// the contig sequences, the parsed annotation and the feature records
// derived from both.
package reference

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/svbio/varcat/internal/errs"
)

// Genome stores reference contig sequences indexed by header name.
type Genome struct {
	sequences map[string]string
	order     []string
}

// ReadFasta parses a FASTA file (plain or gzipped) into a Genome.
// Headers are truncated at the first whitespace; comment lines
// starting with ';' are skipped.
func ReadFasta(path string) (*Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parseFasta(reader)
}

// ReadFastaFromString parses FASTA content held in memory.
func ReadFastaFromString(content string) (*Genome, error) {
	return parseFasta(strings.NewReader(content))
}

func parseFasta(reader io.Reader) (*Genome, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	g := &Genome{sequences: make(map[string]string)}
	var currentHeader string
	var currentSeq strings.Builder

	flush := func() {
		if currentHeader != "" {
			g.sequences[currentHeader] = currentSeq.String()
			g.order = append(g.order, currentHeader)
		}
		currentSeq.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ">"):
			flush()
			currentHeader = strings.TrimPrefix(line, ">")
			if idx := strings.IndexAny(currentHeader, " \t"); idx != -1 {
				currentHeader = currentHeader[:idx]
			}
		case strings.HasPrefix(line, ";"):
			continue
		default:
			currentSeq.WriteString(strings.ToUpper(strings.TrimSpace(line)))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta: %w", err)
	}
	return g, nil
}

// Sequence returns the full sequence of a contig.
func (g *Genome) Sequence(contig string) (string, bool) {
	s, ok := g.sequences[contig]
	return s, ok
}

// Subsequence extracts the 1-based inclusive range [start, end] from a
// contig.
func (g *Genome) Subsequence(contig string, start, end int) (string, error) {
	s, ok := g.sequences[contig]
	if !ok {
		return "", &errs.ReferenceError{Message: fmt.Sprintf("unknown contig %q", contig)}
	}
	if start < 1 || end < start || end > len(s) {
		return "", &errs.ReferenceError{
			Message: fmt.Sprintf("range [%d, %d] out of bounds for contig %q of length %d", start, end, contig, len(s)),
		}
	}
	return s[start-1 : end], nil
}

// Contigs returns the contig names in file order.
func (g *Genome) Contigs() []string {
	return g.order
}
