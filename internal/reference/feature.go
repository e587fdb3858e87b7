package reference

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/svbio/varcat/internal/errs"
	"github.com/svbio/varcat/internal/seq"
)

// Feature is a reference sequence location subject to analysis: a
// gene, a coding sequence, or with genome analysis enabled a whole
// contig. Coordinates are 1-based inclusive and normalized so that
// Start <= End always holds; IsSense carries directionality.
type Feature struct {
	Name             string
	Contig           string
	Start            int
	End              int
	IsSense          bool
	IsCodingSequence bool

	// PDBPath optionally points to a protein structure for coding
	// features; consumed by the structure reconciler.
	PDBPath     string
	Annotations map[string]string

	// Imputed from the reference genome.
	NucleotideSequence           string
	TranslatedNucleotideSequence string
	ProteinSequences             map[string]string
	Structure                    string
}

// NewFeature validates coordinates and builds a feature record.
func NewFeature(name, contig string, start, end int, isSense, isCoding bool) (*Feature, error) {
	if start < 1 || end < start {
		return nil, &errs.ReferenceError{
			Feature: name,
			Message: fmt.Sprintf("impossible coordinates (start, end) = (%d, %d)", start, end),
		}
	}
	return &Feature{
		Name:             name,
		Contig:           contig,
		Start:            start,
		End:              end,
		IsSense:          isSense,
		IsCodingSequence: isCoding,
		Annotations:      make(map[string]string),
		ProteinSequences: make(map[string]string),
	}, nil
}

// Length returns the feature length on the reference.
func (f *Feature) Length() int {
	return f.End - f.Start + 1
}

// Contains reports whether a 1-based contig position falls inside the
// feature.
func (f *Feature) Contains(contig string, pos int) bool {
	return contig == f.Contig && pos >= f.Start && pos <= f.End
}

// Impute extracts the feature's nucleotide sequence from the genome
// and, for coding features, its translation. Internal terminations and
// a missing terminal stop are logged, not fatal.
func (f *Feature) Impute(genome *Genome, logger *zap.Logger) error {
	sub, err := genome.Subsequence(f.Contig, f.Start, f.End)
	if err != nil {
		return err
	}
	f.NucleotideSequence = sub
	if !f.IsCodingSequence {
		return nil
	}
	translated, err := seq.Translate(sub, true, true, f.IsSense)
	if err != nil {
		return err
	}
	f.TranslatedNucleotideSequence = translated
	if strings.HasSuffix(translated, string(seq.Termination)) {
		if strings.ContainsRune(translated[:len(translated)-1], seq.Termination) {
			logger.Warn("translated feature sequence contains internal terminations",
				zap.String("feature", f.Name))
		}
	} else {
		logger.Warn("translated feature sequence does not end with a termination",
			zap.String("feature", f.Name))
	}
	return nil
}

// FeatureFromMatch resolves one configured feature against the
// annotation via its MATCH_<attr>=<value> pair. Zero or multiple
// matches are fatal.
func FeatureFromMatch(name string, ann *Annotation, matchKey, matchValue string, isCoding bool) (*Feature, error) {
	matches := ann.SelectByAttribute(matchKey, matchValue)
	switch len(matches) {
	case 0:
		return nil, &errs.ReferenceError{
			Feature: name,
			Message: fmt.Sprintf("no annotation record matches %s=%s", matchKey, matchValue),
		}
	case 1:
		rec := matches[0]
		return NewFeature(name, rec.Contig, rec.Start, rec.End, rec.Strand != "-", isCoding)
	default:
		return nil, &errs.ReferenceError{
			Feature: name,
			Message: fmt.Sprintf("annotation records match %s=%s %d times", matchKey, matchValue, len(matches)),
		}
	}
}
