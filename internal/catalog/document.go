package catalog

import (
	"strconv"

	"github.com/svbio/varcat/internal/reference"
)

// Catalog is the emitted document: the contract between the build core
// and downstream consumers. The uncompressed JSON rendering is the
// canonical form.
type Catalog struct {
	Software           string                                          `json:"software"`
	Date               string                                          `json:"date"`
	Parameters         map[string]string                               `json:"parameters"`
	ExcludedPositions  map[string][]int                                `json:"excludedPositions"`
	Samples            map[string]*SampleRecord                        `json:"samples"`
	Features           map[string]*FeatureRecord                       `json:"features"`
	NucleotideVariants map[string]map[string]map[string]*VariantRecord `json:"nucleotideVariants"`
}

// SampleRecord is one analyzed sample. Annotations include the
// per-feature allele and proteoform assignments under the keys
// `AL!<feature>` and `PF!<feature>`.
type SampleRecord struct {
	Name        string            `json:"name"`
	Annotations map[string]string `json:"annotations"`
}

// FeatureRecord is one analyzed reference feature with its aggregated
// alleles, proteoforms and amino-acid variant sites.
type FeatureRecord struct {
	Name                         string                               `json:"name"`
	Chromosome                   string                               `json:"chromosome"`
	Start                        int                                  `json:"start"`
	End                          int                                  `json:"end"`
	IsSense                      bool                                 `json:"isSense"`
	IsCodingSequence             bool                                 `json:"isCodingSequence"`
	NucleotideSequence           string                               `json:"nucleotideSequence"`
	TranslatedNucleotideSequence string                               `json:"translatedNucleotideSequence,omitempty"`
	ProteinSequences             map[string]string                    `json:"proteinSequences,omitempty"`
	Structure                    string                               `json:"structure,omitempty"`
	Annotations                  map[string]string                    `json:"annotations,omitempty"`
	Alleles                      map[string]*Allele                   `json:"alleles"`
	Proteoforms                  map[string]*Proteoform               `json:"proteoforms,omitempty"`
	AminoacidVariants            map[string]map[string]*VariantRecord `json:"aminoacidVariants,omitempty"`
}

// AssignmentKey renders the sample annotation key of a feature's
// allele (`AL!<feature>`) or proteoform (`PF!<feature>`) assignment.
func AssignmentKey(prefix, featureName string) string {
	return prefix + "!" + featureName
}

// Assemble builds the catalog from the completed per-feature indices.
// Per-feature nucleotide variant sites are merged into the top-level
// contig-keyed map.
func Assemble(software, date string, parameters map[string]string, excluded map[string][]int,
	samples map[string]*SampleRecord, features []*reference.Feature, indices map[string]*FeatureIndex) *Catalog {

	c := &Catalog{
		Software:           software,
		Date:               date,
		Parameters:         parameters,
		ExcludedPositions:  excluded,
		Samples:            samples,
		Features:           make(map[string]*FeatureRecord, len(features)),
		NucleotideVariants: make(map[string]map[string]map[string]*VariantRecord),
	}
	if c.ExcludedPositions == nil {
		c.ExcludedPositions = make(map[string][]int)
	}

	for _, f := range features {
		fi := indices[f.Name]
		record := &FeatureRecord{
			Name:                         f.Name,
			Chromosome:                   f.Contig,
			Start:                        f.Start,
			End:                          f.End,
			IsSense:                      f.IsSense,
			IsCodingSequence:             f.IsCodingSequence,
			NucleotideSequence:           f.NucleotideSequence,
			TranslatedNucleotideSequence: f.TranslatedNucleotideSequence,
			Structure:                    f.Structure,
			Annotations:                  f.Annotations,
			Alleles:                      make(map[string]*Allele),
		}
		if len(f.ProteinSequences) > 0 {
			record.ProteinSequences = f.ProteinSequences
		}
		for _, id := range fi.AlleleIDs() {
			allele, _ := fi.Allele(id)
			record.Alleles[id] = allele
		}
		if f.IsCodingSequence {
			record.Proteoforms = make(map[string]*Proteoform)
			for _, id := range fi.ProteoformIDs() {
				proteoform, _ := fi.Proteoform(id)
				record.Proteoforms[id] = proteoform
			}
			record.AminoacidVariants = make(map[string]map[string]*VariantRecord)
			for _, pos := range fi.AminoPositions() {
				site := make(map[string]*VariantRecord)
				for content, variantRecord := range fi.AminoSite(pos) {
					site[content] = variantRecord
				}
				record.AminoacidVariants[pos.String()] = site
			}
		}
		c.Features[f.Name] = record

		contigSites, ok := c.NucleotideVariants[f.Contig]
		if !ok {
			contigSites = make(map[string]map[string]*VariantRecord)
			c.NucleotideVariants[f.Contig] = contigSites
		}
		for _, pos := range fi.NucleotidePositions() {
			key := strconv.Itoa(pos)
			site, ok := contigSites[key]
			if !ok {
				site = make(map[string]*VariantRecord)
				contigSites[key] = site
			}
			for content, variantRecord := range fi.NucleotideSite(pos) {
				if existing, ok := site[content]; ok && existing != variantRecord {
					// Overlapping features share the site; merge the
					// occurrence sets.
					for _, id := range variantRecord.Occurrence {
						existing.addOccurrence(id)
					}
					continue
				}
				site[content] = variantRecord
			}
		}
	}
	return c
}
