package build

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/svbio/varcat/internal/catalog"
	"github.com/svbio/varcat/internal/errs"
	"github.com/svbio/varcat/internal/seq"
)

// ExportVCF writes the catalog's aggregated nucleotide variants as a
// minimal VCF file for downstream extraction tooling. Gap characters
// of deletion contents are stripped from the ALT column.
func ExportVCF(c *catalog.Catalog, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "##fileformat=VCFv4.2")
	fmt.Fprintln(w, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")

	contigs := make([]string, 0, len(c.NucleotideVariants))
	for contig := range c.NucleotideVariants {
		contigs = append(contigs, contig)
	}
	sort.Strings(contigs)

	for _, contig := range contigs {
		sites := c.NucleotideVariants[contig]
		positions := make([]int, 0, len(sites))
		for key := range sites {
			pos, err := strconv.Atoi(key)
			if err != nil {
				return &errs.InternalError{Message: fmt.Sprintf("malformed variant position key %q", key)}
			}
			positions = append(positions, pos)
		}
		sort.Ints(positions)

		for _, pos := range positions {
			site := sites[strconv.Itoa(pos)]
			contents := make([]string, 0, len(site))
			for content := range site {
				contents = append(contents, content)
			}
			sort.Strings(contents)
			for _, content := range contents {
				record := site[content]
				fmt.Fprintf(w, "%s\t%d\t.\t%s\t%s\t1000\t.\t\n",
					contig,
					pos,
					record.Annotations[catalog.KeyReferenceContent],
					strings.ReplaceAll(content, string(seq.Gap), ""),
				)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	return nil
}

// WriteFasta writes named sequences as a FASTA file with 80-column
// wrapping.
func WriteFasta(path string, entries []FastaEntry) error {
	out, err := os.Create(path)
	if err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, entry := range entries {
		fmt.Fprintf(w, ">%s\n", entry.Header)
		for start := 0; start < len(entry.Sequence); start += 80 {
			end := start + 80
			if end > len(entry.Sequence) {
				end = len(entry.Sequence)
			}
			fmt.Fprintln(w, entry.Sequence[start:end])
		}
	}
	if err := w.Flush(); err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	return nil
}

// FastaEntry is one header/sequence pair for WriteFasta.
type FastaEntry struct {
	Header   string
	Sequence string
}
