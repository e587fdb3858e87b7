// Package config parses and validates the BUILD configuration
// document.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"

	"github.com/svbio/varcat/internal/errs"
)

// Sample configures one input sample.
type Sample struct {
	VCFFile     string            `json:"vcfFile"`
	Annotations map[string]string `json:"annotations"`
}

// Feature configures one reference feature to analyze. MatchKey and
// MatchValue are taken from the single `MATCH_<attr>` entry and locate
// the feature in the annotation file.
type Feature struct {
	PDBFile          string            `json:"pdbFile"`
	IsCodingSequence bool              `json:"isCodingSequence"`
	Annotations      map[string]string `json:"annotations"`
	MatchKey         string            `json:"-"`
	MatchValue       string            `json:"-"`
}

// UnmarshalJSON captures the MATCH_<attr> entry next to the declared
// fields.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Feature(p)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if !strings.HasPrefix(key, "MATCH_") {
			continue
		}
		if f.MatchKey != "" {
			return fmt.Errorf("multiple MATCH_ entries")
		}
		var v string
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("MATCH_ value must be a string: %w", err)
		}
		f.MatchKey = strings.TrimPrefix(key, "MATCH_")
		f.MatchValue = v
	}
	return nil
}

// Build is the parsed BUILD configuration document.
type Build struct {
	Module            string              `json:"module"`
	MinCoverage       *float64            `json:"minCoverage"`
	MinQuality        *float64            `json:"minQuality"`
	MinHomFrequency   *float64            `json:"minHomFrequency"`
	MinHetFrequency   *float64            `json:"minHetFrequency"`
	MaxHetFrequency   *float64            `json:"maxHetFrequency"`
	Threads           int                 `json:"threads"`
	GenomeAnalysis    bool                `json:"genomeAnalysis"`
	ExcludedPositions map[string][]int    `json:"excludedPositions"`
	ReferenceFASTA    string              `json:"referenceFASTA"`
	ReferenceGFF      string              `json:"referenceGFF"`
	OutputFile        string              `json:"outputFile"`
	SamplesDir        string              `json:"samplesDir"`
	Samples           map[string]*Sample  `json:"samples"`
	Features          map[string]*Feature `json:"features"`
}

// Load reads and validates a BUILD configuration document.
func Load(path string) (*Build, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	var b Build
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &errs.ConfigError{Message: fmt.Sprintf("malformed document: %v", err)}
	}
	if b.Samples == nil {
		b.Samples = make(map[string]*Sample)
	}
	if err := b.discoverSamples(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// discoverSamples adds every .vcf file of the configured samples
// directory as a sample named by its basename.
func (b *Build) discoverSamples() error {
	if b.SamplesDir == "" {
		return nil
	}
	entries, err := os.ReadDir(b.SamplesDir)
	if err != nil {
		return &errs.IOError{Path: b.SamplesDir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".vcf") {
			continue
		}
		sampleName := strings.TrimSuffix(name, filepath.Ext(name))
		if _, ok := b.Samples[sampleName]; ok {
			continue
		}
		b.Samples[sampleName] = &Sample{VCFFile: filepath.Join(b.SamplesDir, name)}
	}
	return nil
}

func (b *Build) validate() error {
	var err error

	requireThreshold := func(option string, value *float64, percentage bool) {
		switch {
		case value == nil:
			err = multierr.Append(err, &errs.ConfigError{Option: option, Message: "missing; expected a number"})
		case *value < 0:
			err = multierr.Append(err, &errs.ConfigError{Option: option, Message: "expected a non-negative number"})
		case percentage && *value > 1:
			err = multierr.Append(err, &errs.ConfigError{Option: option, Message: "expected a value between 0.0 and 1.0"})
		}
	}
	requireThreshold("minCoverage", b.MinCoverage, false)
	requireThreshold("minQuality", b.MinQuality, false)
	requireThreshold("minHomFrequency", b.MinHomFrequency, true)
	requireThreshold("minHetFrequency", b.MinHetFrequency, true)
	requireThreshold("maxHetFrequency", b.MaxHetFrequency, true)

	requireFile := func(option, path string) {
		if path == "" {
			err = multierr.Append(err, &errs.ConfigError{Option: option, Message: "missing; expected a path"})
			return
		}
		if info, statErr := os.Stat(path); statErr != nil || info.IsDir() {
			err = multierr.Append(err, &errs.ConfigError{Option: option, Message: fmt.Sprintf("cannot read file %q", path)})
		}
	}
	requireFile("referenceFASTA", b.ReferenceFASTA)
	requireFile("referenceGFF", b.ReferenceGFF)

	if b.OutputFile == "" {
		err = multierr.Append(err, &errs.ConfigError{Option: "outputFile", Message: "missing; expected a path"})
	} else if _, statErr := os.Stat(b.OutputFile); statErr == nil {
		err = multierr.Append(err, &errs.ConfigError{Option: "outputFile", Message: fmt.Sprintf("%q already exists", b.OutputFile)})
	}

	if b.Threads < 0 {
		err = multierr.Append(err, &errs.ConfigError{Option: "threads", Message: "expected a non-negative count"})
	}

	if len(b.Samples) == 0 {
		err = multierr.Append(err, &errs.ConfigError{Option: "samples", Message: "expected at least one sample"})
	}
	for name, sample := range b.Samples {
		if sample.VCFFile == "" {
			err = multierr.Append(err, &errs.ConfigError{Option: "samples", Message: fmt.Sprintf("sample %q has no vcfFile", name)})
			continue
		}
		requireFile(fmt.Sprintf("samples.%s.vcfFile", name), sample.VCFFile)
	}

	if len(b.Features) == 0 && !b.GenomeAnalysis {
		err = multierr.Append(err, &errs.ConfigError{Option: "features", Message: "expected at least one feature"})
	}
	for name, feature := range b.Features {
		if feature.MatchKey == "" {
			err = multierr.Append(err, &errs.ConfigError{
				Option:  "features",
				Message: fmt.Sprintf("feature %q has no MATCH_<attr> entry", name),
			})
		}
		if feature.PDBFile != "" {
			requireFile(fmt.Sprintf("features.%s.pdbFile", name), feature.PDBFile)
			// A structure implies a coding sequence.
			feature.IsCodingSequence = true
		}
	}

	return err
}

// Parameters echoes the configured thresholds for the catalog
// document.
func (b *Build) Parameters() map[string]string {
	return map[string]string{
		"minCoverage":     fmt.Sprintf("%g", *b.MinCoverage),
		"minQuality":      fmt.Sprintf("%g", *b.MinQuality),
		"minHomFrequency": fmt.Sprintf("%g", *b.MinHomFrequency),
		"minHetFrequency": fmt.Sprintf("%g", *b.MinHetFrequency),
		"maxHetFrequency": fmt.Sprintf("%g", *b.MaxHetFrequency),
	}
}
