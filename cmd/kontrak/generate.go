package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/RaulQD/kontrak-backend-sub001/internal/config"
	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/ingest"
	"github.com/RaulQD/kontrak-backend-sub001/internal/pipeline"
	"github.com/RaulQD/kontrak-backend-sub001/internal/render"
)

var (
	generateInput   string
	generateOutput  string
	generateSheet   string
	generateConfig  string
	generateVerbose bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the contract bundle from a local workbook",
	Long:  `Validate a local XLSX batch and write the generated document bundle to a zip file on disk.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateInput, "input", "", "Path to the employee workbook (required)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "Path of the output zip (default contratos_<date>.zip)")
	generateCmd.Flags().StringVar(&generateSheet, "sheet", "", "Sheet name (default: first sheet)")
	generateCmd.Flags().StringVar(&generateConfig, "config", "", "Path to JSON config file")
	generateCmd.Flags().BoolVar(&generateVerbose, "verbose", false, "Print detailed progress")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(generateConfig)
	if err != nil {
		return err
	}
	cfg = cfg.ApplyEnv()
	if generateVerbose {
		cfg.Verbose = true
	}

	mapping := fieldmap.DefaultTable()
	if cfg.MappingPath != "" {
		if mapping, err = fieldmap.LoadTable(cfg.MappingPath); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(generateInput)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	pool := render.NewBrowserPool(time.Duration(cfg.RenderTimeout)*time.Second, cfg.Verbose)
	p, err := pipeline.New(pool, pipeline.Options{
		Concurrency: cfg.Concurrency,
		Signers:     cfg.Signers,
		Mapping:     mapping,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return err
	}

	rows, err := p.ReadRows(data, ingest.Options{Sheet: generateSheet, SkipEmpty: true})
	if err != nil {
		return err
	}
	batch := p.ValidateBatch(rows)
	if len(batch.Errors) > 0 {
		for _, ve := range batch.Errors {
			fmt.Fprintf(os.Stderr, "fila %d, %s: %s\n", ve.Row, ve.Field, ve.Message)
		}
	}
	if len(batch.Records) == 0 {
		return fmt.Errorf("no valid records in %s", generateInput)
	}

	output := generateOutput
	if output == "" {
		output = fmt.Sprintf("contratos_%s.zip", time.Now().Format("2006-01-02"))
	}
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	summary, err := p.GenerateArchive(context.Background(), batch, out)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d/%d documentos generados en %s\n",
		summary.RunID, summary.Generated, summary.Generated+summary.Failed, output)
	return nil
}
