package catalog

import (
	"sort"
	"strconv"
	"sync"
)

// NucleotideVariant is one accepted variant observation submitted for
// allele aggregation. Content preserves deletion gaps ('-') and keeps
// the anchor base of insertions.
type NucleotideVariant struct {
	Position  int    // 1-based contig position of the anchor
	Content   string // alternate content
	Reference string // reference content at the site
	IsPrimary bool   // highest-frequency alternate within the sample
}

// AminoacidVariant is one induced amino-acid variant submitted for
// proteoform aggregation.
type AminoacidVariant struct {
	Position AminoPosition
	Content  string
}

// FeatureIndex is the per-feature aggregation state: the allele and
// proteoform interners plus the variant-site reverse indices. All
// mutation goes through Submit* under the feature lock, so concurrent
// submitters either observe a fully wired record or create it
// themselves.
type FeatureIndex struct {
	mu sync.Mutex

	alleles            map[string]*Allele
	proteoforms        map[string]*Proteoform
	nucleotideVariants map[int]map[string]*VariantRecord
	aminoacidVariants  map[AminoPosition]map[string]*VariantRecord
}

// NewFeatureIndex creates an empty per-feature aggregation state.
func NewFeatureIndex() *FeatureIndex {
	return &FeatureIndex{
		alleles:            make(map[string]*Allele),
		proteoforms:        make(map[string]*Proteoform),
		nucleotideVariants: make(map[int]map[string]*VariantRecord),
		aminoacidVariants:  make(map[AminoPosition]map[string]*VariantRecord),
	}
}

// SubmitAllele interns the variant set of one sample and returns the
// assigned allele id. The first submitter of a new fingerprint creates
// the record and wires its variant sites; later submitters only extend
// the sample set.
func (fi *FeatureIndex) SubmitAllele(sampleID string, variants []NucleotideVariant) string {
	descriptors := make([]string, 0, len(variants))
	for _, v := range variants {
		descriptors = append(descriptors, NucleotideDescriptor(v.Content, v.Position))
	}
	canonical := Canonicalize(descriptors)
	id := Fingerprint(AllelePrefix, canonical)

	fi.mu.Lock()
	defer fi.mu.Unlock()

	if allele, ok := fi.alleles[id]; ok {
		allele.addSample(sampleID)
		return id
	}

	allele := &Allele{
		Annotations: map[string]string{KeyVariants: canonical},
		Samples:     []string{sampleID},
	}
	fi.alleles[id] = allele
	for _, v := range variants {
		site, ok := fi.nucleotideVariants[v.Position]
		if !ok {
			site = make(map[string]*VariantRecord)
			fi.nucleotideVariants[v.Position] = site
		}
		record, ok := site[v.Content]
		if !ok {
			record = &VariantRecord{Annotations: map[string]string{
				KeyReferenceContent: v.Reference,
				KeyPrimary:          strconv.FormatBool(v.IsPrimary),
			}}
			site[v.Content] = record
		} else if v.IsPrimary && record.Annotations[KeyPrimary] != "true" {
			// Primary is monotone across submissions to keep the
			// aggregate independent of arrival order.
			record.Annotations[KeyPrimary] = "true"
		}
		record.addOccurrence(id)
	}
	return id
}

// SubmitProteoform interns the amino-acid variant set of one sample
// and returns the assigned proteoform id.
func (fi *FeatureIndex) SubmitProteoform(sampleID string, variants []AminoacidVariant) string {
	descriptors := make([]string, 0, len(variants))
	for _, v := range variants {
		descriptors = append(descriptors, AminoDescriptor(v.Content, v.Position))
	}
	canonical := Canonicalize(descriptors)
	id := Fingerprint(ProteoformPrefix, canonical)

	fi.mu.Lock()
	defer fi.mu.Unlock()

	if proteoform, ok := fi.proteoforms[id]; ok {
		proteoform.addSample(sampleID)
		return id
	}

	proteoform := &Proteoform{
		Annotations: map[string]string{KeyVariants: canonical},
		Samples:     []string{sampleID},
	}
	fi.proteoforms[id] = proteoform
	for _, v := range variants {
		site, ok := fi.aminoacidVariants[v.Position]
		if !ok {
			site = make(map[string]*VariantRecord)
			fi.aminoacidVariants[v.Position] = site
		}
		record, ok := site[v.Content]
		if !ok {
			record = &VariantRecord{Annotations: make(map[string]string)}
			site[v.Content] = record
		}
		record.addOccurrence(id)
	}
	return id
}

// Allele returns the record for an allele id.
func (fi *FeatureIndex) Allele(id string) (*Allele, bool) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	a, ok := fi.alleles[id]
	return a, ok
}

// Proteoform returns the record for a proteoform id.
func (fi *FeatureIndex) Proteoform(id string) (*Proteoform, bool) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	p, ok := fi.proteoforms[id]
	return p, ok
}

// AlleleIDs returns the interned allele ids in sorted order.
func (fi *FeatureIndex) AlleleIDs() []string {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	ids := make([]string, 0, len(fi.alleles))
	for id := range fi.alleles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ProteoformIDs returns the interned proteoform ids in sorted order.
func (fi *FeatureIndex) ProteoformIDs() []string {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	ids := make([]string, 0, len(fi.proteoforms))
	for id := range fi.proteoforms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NucleotidePositions returns the variant-site positions in ascending
// numeric order.
func (fi *FeatureIndex) NucleotidePositions() []int {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	positions := make([]int, 0, len(fi.nucleotideVariants))
	for pos := range fi.nucleotideVariants {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}

// NucleotideSite returns the alternate-content records at a position.
func (fi *FeatureIndex) NucleotideSite(pos int) map[string]*VariantRecord {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	return fi.nucleotideVariants[pos]
}

// AminoPositions returns the amino-acid variant positions ordered by
// residue index, then insertion offset.
func (fi *FeatureIndex) AminoPositions() []AminoPosition {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	positions := make([]AminoPosition, 0, len(fi.aminoacidVariants))
	for pos := range fi.aminoacidVariants {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Less(positions[j]) })
	return positions
}

// AminoSite returns the alternate-content records at an amino-acid
// position.
func (fi *FeatureIndex) AminoSite(pos AminoPosition) map[string]*VariantRecord {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	return fi.aminoacidVariants[pos]
}
