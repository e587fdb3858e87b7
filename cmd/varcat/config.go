package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/svbio/varcat/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect BUILD configuration documents",
		Long: `Validate a BUILD configuration document, summarize what a build run
would analyze, or write a template document to start from.`,
		Example: `  varcat config validate build.json   # check thresholds, paths and MATCH_ entries
  varcat config show build.json       # summarize samples and features
  varcat config init build.json       # write a template document`,
	}

	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a BUILD configuration document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: valid (%d samples, %d features)\n", args[0], len(cfg.Samples), len(cfg.Features))
			return nil
		},
	}
}

// configSummary is the rendering of a validated document for
// `config show`.
type configSummary struct {
	Module     string            `yaml:"module"`
	Thresholds map[string]string `yaml:"thresholds"`
	Threads    int               `yaml:"threads"`
	Reference  struct {
		FASTA string `yaml:"fasta"`
		GFF   string `yaml:"gff"`
	} `yaml:"reference"`
	Output            string            `yaml:"output"`
	GenomeAnalysis    bool              `yaml:"genomeAnalysis"`
	ExcludedPositions map[string]int    `yaml:"excludedPositions,omitempty"`
	Samples           map[string]string `yaml:"samples"`
	Features          map[string]string `yaml:"features"`
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <document>",
		Short: "Summarize a BUILD configuration document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			summary := configSummary{
				Module:         cfg.Module,
				Thresholds:     cfg.Parameters(),
				Threads:        cfg.Threads,
				Output:         cfg.OutputFile,
				GenomeAnalysis: cfg.GenomeAnalysis,
				Samples:        make(map[string]string, len(cfg.Samples)),
				Features:       make(map[string]string, len(cfg.Features)),
			}
			summary.Reference.FASTA = cfg.ReferenceFASTA
			summary.Reference.GFF = cfg.ReferenceGFF
			if len(cfg.ExcludedPositions) > 0 {
				summary.ExcludedPositions = make(map[string]int, len(cfg.ExcludedPositions))
				for contig, positions := range cfg.ExcludedPositions {
					summary.ExcludedPositions[contig] = len(positions)
				}
			}
			for name, sample := range cfg.Samples {
				summary.Samples[name] = sample.VCFFile
			}
			for name, feature := range cfg.Features {
				desc := fmt.Sprintf("%s=%s", feature.MatchKey, feature.MatchValue)
				if feature.IsCodingSequence {
					desc += ", coding"
				}
				if feature.PDBFile != "" {
					desc += ", structure " + feature.PDBFile
				}
				summary.Features[name] = desc
			}

			out, err := yaml.Marshal(summary)
			if err != nil {
				return fmt.Errorf("marshaling summary: %w", err)
			}
			fmt.Print(string(out))
			warnSharedCallFiles(cfg)
			return nil
		},
	}
}

// warnSharedCallFiles flags samples that point at the same call
// file, a likely copy-paste slip in hand-written documents.
func warnSharedCallFiles(cfg *config.Build) {
	byFile := make(map[string][]string)
	for name, sample := range cfg.Samples {
		byFile[sample.VCFFile] = append(byFile[sample.VCFFile], name)
	}
	for file, names := range byFile {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "Warning: samples %v share the call file %s\n", names, file)
	}
}

// configTemplate is written by `config init`: every required option
// of the BUILD document with placeholder values.
const configTemplate = `{
  "module": "BUILD",
  "minCoverage": 5.0,
  "minQuality": 30.0,
  "minHomFrequency": 0.9,
  "minHetFrequency": 0.45,
  "maxHetFrequency": 0.55,
  "threads": 4,
  "genomeAnalysis": false,
  "excludedPositions": {},
  "referenceFASTA": "reference.fasta",
  "referenceGFF": "reference.gff3",
  "outputFile": "catalog.json.gz",
  "samples": {
    "sample1": {"vcfFile": "sample1.vcf", "annotations": {}}
  },
  "features": {
    "gene1": {"isCodingSequence": true, "MATCH_Name": "gene1", "annotations": {}}
  }
}
`

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <document>",
		Short: "Write a template BUILD configuration document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
				return fmt.Errorf("writing template: %w", err)
			}
			fmt.Printf("Wrote template document to %s\n", path)
			return nil
		},
	}
}
