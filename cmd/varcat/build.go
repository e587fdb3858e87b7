package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svbio/varcat/internal/build"
	"github.com/svbio/varcat/internal/config"
)

func newBuildCmd() *cobra.Command {
	var (
		configPath string
		threads    int
		exportVCF  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an allele/proteoform catalog from per-sample variant calls",
		Long: `Build reads per-sample VCF files against a shared reference genome and
annotation, filters the calls with the configured thresholds, groups
samples into alleles and proteoforms per feature and writes one
self-contained JSON catalog.`,
		Example: `  varcat build --config build.json
  varcat build -c build.json --threads 8
  varcat build -c build.json --export-vcf variants.vcf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if threads > 0 {
				cfg.Threads = threads
			}

			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			runner := build.NewRunner(cfg, logger, "varcat "+version)
			catalog, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := runner.Write(catalog); err != nil {
				return err
			}
			if exportVCF != "" {
				if err := build.ExportVCF(catalog, exportVCF); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the BUILD configuration document (required)")
	cmd.Flags().IntVar(&threads, "threads", 0, "Worker count; overrides the configuration document")
	cmd.Flags().StringVar(&exportVCF, "export-vcf", "", "Additionally export aggregated nucleotide variants as VCF")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
