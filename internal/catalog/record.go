package catalog

import "sort"

// Allele groups the samples sharing one set of accepted nucleotide
// variants on a feature. Annotations carry the canonical VARIANTS
// serialization and the computed statistics.
type Allele struct {
	Annotations map[string]string `json:"annotations"`
	Samples     []string          `json:"samples"`
}

// Proteoform groups the samples sharing one set of induced amino-acid
// variants on a coding feature.
type Proteoform struct {
	Annotations map[string]string `json:"annotations"`
	Samples     []string          `json:"samples"`
}

// VariantRecord is one alternate content observed at a variant site.
// Occurrence lists the allele or proteoform ids whose descriptor set
// contains this variant; a record with an empty occurrence set does
// not exist.
type VariantRecord struct {
	Annotations map[string]string `json:"annotations"`
	Occurrence  []string          `json:"occurrence"`
}

// insertSorted adds s to a sorted string slice, keeping it sorted and
// duplicate-free.
func insertSorted(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	if i < len(list) && list[i] == s {
		return list
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}

func (a *Allele) addSample(sampleID string) {
	a.Samples = insertSorted(a.Samples, sampleID)
}

func (p *Proteoform) addSample(sampleID string) {
	p.Samples = insertSorted(p.Samples, sampleID)
}

func (v *VariantRecord) addOccurrence(id string) {
	v.Occurrence = insertSorted(v.Occurrence, id)
}
