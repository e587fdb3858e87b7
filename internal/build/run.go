package build

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/svbio/varcat/internal/catalog"
	"github.com/svbio/varcat/internal/config"
	"github.com/svbio/varcat/internal/errs"
	"github.com/svbio/varcat/internal/filter"
	"github.com/svbio/varcat/internal/reference"
	"github.com/svbio/varcat/internal/structure"
	"github.com/svbio/varcat/internal/vcf"
)

// Runner executes one BUILD run.
type Runner struct {
	cfg      *config.Build
	logger   *zap.Logger
	software string
}

// NewRunner creates a runner for a validated configuration.
func NewRunner(cfg *config.Build, logger *zap.Logger, software string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger, software: software}
}

// Run executes the full pipeline and returns the assembled catalog.
// Any failing job cancels the run; no partial catalog is produced.
func (r *Runner) Run(ctx context.Context) (*catalog.Catalog, error) {
	genome, err := reference.ReadFasta(r.cfg.ReferenceFASTA)
	if err != nil {
		return nil, err
	}
	annotation, err := reference.ReadGFF(r.cfg.ReferenceGFF)
	if err != nil {
		return nil, err
	}

	features, err := r.resolveFeatures(genome, annotation)
	if err != nil {
		return nil, err
	}

	sampleNames := make([]string, 0, len(r.cfg.Samples))
	for name := range r.cfg.Samples {
		sampleNames = append(sampleNames, name)
	}
	sort.Strings(sampleNames)

	flt := filter.New(filter.Thresholds{
		MinCoverage:     *r.cfg.MinCoverage,
		MinQuality:      *r.cfg.MinQuality,
		MinHomFrequency: *r.cfg.MinHomFrequency,
		MinHetFrequency: *r.cfg.MinHetFrequency,
		MaxHetFrequency: *r.cfg.MaxHetFrequency,
	}, r.cfg.ExcludedPositions)

	threads := r.cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	// Stage 1: read and filter every sample's calls in parallel. Each
	// goroutine fills its own slot; no shared mutable state.
	accepted := make([]map[string][]catalog.NucleotideVariant, len(sampleNames))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)
	for i, name := range sampleNames {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			perFeature, err := r.readSample(r.cfg.Samples[name], features, flt)
			if err != nil {
				return fmt.Errorf("sample %s: %w", name, err)
			}
			accepted[i] = perFeature
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	r.logger.Info("samples read and filtered", zap.Int("samples", len(sampleNames)))

	// Stage 2: (sample, feature) reconstruction jobs submitting into
	// the per-feature aggregators.
	indices := make(map[string]*catalog.FeatureIndex, len(features))
	for _, f := range features {
		indices[f.Name] = catalog.NewFeatureIndex()
	}
	type assignment struct {
		alleleID     string
		proteoformID string
	}
	assignments := make([]assignment, len(sampleNames)*len(features))

	group, groupCtx = errgroup.WithContext(ctx)
	group.SetLimit(threads)
	for i, name := range sampleNames {
		for j, f := range features {
			slot := i*len(features) + j
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				variants := accepted[i][f.Name]
				fi := indices[f.Name]
				alleleID := fi.SubmitAllele(name, variants)
				a := assignment{alleleID: alleleID}
				if f.IsCodingSequence {
					reconstructed := ReconstructSequence(f, variants)
					aminoVariants, err := DeriveProteoformVariants(f, reconstructed)
					if err != nil {
						return fmt.Errorf("sample %s, feature %s: %w", name, f.Name, err)
					}
					a.proteoformID = fi.SubmitProteoform(name, aminoVariants)
				}
				assignments[slot] = a
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	r.logger.Info("variant sets aggregated", zap.Int("features", len(features)))

	// Structure reconciliation over completed features.
	for _, f := range features {
		if f.PDBPath == "" {
			continue
		}
		pdb, err := structure.ReadPDB(f.PDBPath)
		if err != nil {
			return nil, err
		}
		padded, renumbered, err := structure.Reconcile(pdb, f.Name, f.TranslatedNucleotideSequence, r.logger)
		if err != nil {
			return nil, err
		}
		f.ProteinSequences = padded
		f.Structure = renumbered
	}

	// Statistics over completed features.
	for _, f := range features {
		if err := indices[f.Name].ComputeStatistics(f.Start, f.End,
			len(f.TranslatedNucleotideSequence), len(sampleNames)); err != nil {
			return nil, err
		}
	}

	samples := make(map[string]*catalog.SampleRecord, len(sampleNames))
	for i, name := range sampleNames {
		annotations := make(map[string]string)
		for key, value := range r.cfg.Samples[name].Annotations {
			annotations[key] = value
		}
		for j, f := range features {
			a := assignments[i*len(features)+j]
			annotations[catalog.AssignmentKey(catalog.AllelePrefix, f.Name)] = a.alleleID
			if a.proteoformID != "" {
				annotations[catalog.AssignmentKey(catalog.ProteoformPrefix, f.Name)] = a.proteoformID
			}
		}
		samples[name] = &catalog.SampleRecord{Name: name, Annotations: annotations}
	}

	return catalog.Assemble(
		r.software,
		time.Now().Format("2006-01-02"),
		r.cfg.Parameters(),
		r.cfg.ExcludedPositions,
		samples,
		features,
		indices,
	), nil
}

// resolveFeatures matches every configured feature against the
// annotation and imputes its sequences. With genome analysis enabled,
// every contig additionally becomes a non-coding feature.
func (r *Runner) resolveFeatures(genome *reference.Genome, annotation *reference.Annotation) ([]*reference.Feature, error) {
	names := make([]string, 0, len(r.cfg.Features))
	for name := range r.cfg.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	var features []*reference.Feature
	for _, name := range names {
		fc := r.cfg.Features[name]
		f, err := reference.FeatureFromMatch(name, annotation, fc.MatchKey, fc.MatchValue, fc.IsCodingSequence)
		if err != nil {
			return nil, err
		}
		f.PDBPath = fc.PDBFile
		for key, value := range fc.Annotations {
			f.Annotations[key] = value
		}
		features = append(features, f)
	}

	if r.cfg.GenomeAnalysis {
		for _, contig := range genome.Contigs() {
			sequence, _ := genome.Sequence(contig)
			f, err := reference.NewFeature(contig, contig, 1, len(sequence), true, false)
			if err != nil {
				return nil, err
			}
			features = append(features, f)
		}
	}

	if len(features) == 0 {
		return nil, &errs.ConfigError{Option: "features", Message: "no features to analyze"}
	}
	for _, f := range features {
		if err := f.Impute(genome, r.logger); err != nil {
			return nil, err
		}
	}
	return features, nil
}

// readSample parses one sample's calls and groups the accepted ones by
// feature.
func (r *Runner) readSample(sample *config.Sample, features []*reference.Feature, flt *filter.Filter) (map[string][]catalog.NucleotideVariant, error) {
	parser, err := vcf.NewParser(sample.VCFFile)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	perFeature := make(map[string][]catalog.NucleotideVariant)
	for {
		records, err := parser.Next()
		if err != nil {
			return nil, err
		}
		if records == nil {
			return perFeature, nil
		}
		for _, record := range records {
			if !flt.Accept(record) {
				continue
			}
			for _, f := range features {
				if f.Contains(record.Contig, record.Position) {
					perFeature[f.Name] = append(perFeature[f.Name], acceptedVariant(record))
				}
			}
		}
	}
}

// Write marshals the catalog and writes it to the configured output
// path; a path ending in .gz is gzip-compressed.
func (r *Runner) Write(c *catalog.Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	out, err := os.Create(r.cfg.OutputFile)
	if err != nil {
		return &errs.IOError{Path: r.cfg.OutputFile, Err: err}
	}
	defer out.Close()

	if strings.HasSuffix(r.cfg.OutputFile, ".gz") {
		gz := gzip.NewWriter(out)
		_, writeErr := gz.Write(data)
		if closeErr := gz.Close(); writeErr == nil {
			writeErr = closeErr
		}
		if writeErr == nil {
			return nil
		}
		// Failing compression downgrades to an uncompressed catalog.
		r.logger.Warn("unable to compress output, writing uncompressed",
			zap.String("path", r.cfg.OutputFile), zap.Error(writeErr))
		if err := out.Truncate(0); err != nil {
			return &errs.IOError{Path: r.cfg.OutputFile, Err: err}
		}
		if _, err := out.Seek(0, 0); err != nil {
			return &errs.IOError{Path: r.cfg.OutputFile, Err: err}
		}
	}
	if _, err := out.Write(data); err != nil {
		return &errs.IOError{Path: r.cfg.OutputFile, Err: err}
	}
	return nil
}
