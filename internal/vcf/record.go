// Package vcf reads per-sample variant call files into typed genotype
// call records.
package vcf

// Record is a single genotype call observation of one sample.
type Record struct {
	Contig    string  // contig / chromosome name
	Position  int     // 1-based genomic position
	Ref       string  // reference content
	Alt       string  // alternate content (single allele after splitting)
	Depth     float64 // read depth at the site (INFO DP)
	Frequency float64 // allele frequency of this alternate (INFO AF)
	Quality   float64 // call quality (QUAL column)
	IsPrimary bool    // highest-frequency alternate at this site
}

// IsSNV returns true if the record describes a single nucleotide
// variant.
func (r *Record) IsSNV() bool {
	return len(r.Ref) == 1 && len(r.Alt) == 1
}

// IsInsertion returns true if the alternate is longer than the
// reference content.
func (r *Record) IsInsertion() bool {
	return len(r.Alt) > len(r.Ref)
}

// IsDeletion returns true if the reference content is longer than the
// alternate.
func (r *Record) IsDeletion() bool {
	return len(r.Ref) > len(r.Alt)
}
