// Package filter decides which genotype call records become accepted
// variants.
package filter

import (
	"github.com/svbio/varcat/internal/vcf"
)

// Thresholds holds the per-site acceptance configuration of a build
// run.
type Thresholds struct {
	MinCoverage     float64 // reject records with Depth below this
	MinQuality      float64 // reject records with Quality below this
	MinHomFrequency float64 // lower bound of the homozygous window
	MinHetFrequency float64 // lower bound of the heterozygous window
	MaxHetFrequency float64 // upper bound of the heterozygous window
}

// Filter applies thresholds and position exclusions.
type Filter struct {
	Thresholds
	excluded map[string]map[int]struct{}
}

// New builds a filter from thresholds and an excluded-positions
// mapping (contig name to 1-based positions).
func New(t Thresholds, excluded map[string][]int) *Filter {
	f := &Filter{Thresholds: t, excluded: make(map[string]map[int]struct{})}
	for contig, positions := range excluded {
		set := make(map[int]struct{}, len(positions))
		for _, pos := range positions {
			set[pos] = struct{}{}
		}
		f.excluded[contig] = set
	}
	return f
}

// Accept reports whether a record passes coverage and quality
// thresholds and falls into the homozygous or heterozygous frequency
// window. Excluded positions are rejected even when the thresholds
// pass.
func (f *Filter) Accept(r vcf.Record) bool {
	if r.Depth < f.MinCoverage || r.Quality < f.MinQuality {
		return false
	}
	if f.Excluded(r.Contig, r.Position) {
		return false
	}
	if r.Frequency >= f.MinHomFrequency {
		return true
	}
	return r.Frequency >= f.MinHetFrequency && r.Frequency <= f.MaxHetFrequency
}

// Excluded reports whether a 1-based position on a contig is excluded
// from analysis.
func (f *Filter) Excluded(contig string, pos int) bool {
	set, ok := f.excluded[contig]
	if !ok {
		return false
	}
	_, ok = set[pos]
	return ok
}
