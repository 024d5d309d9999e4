package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"failsafe/internal/format"
	"failsafe/internal/scan"
)

var batchFlags struct {
	outputDir string
	workers   int
	dryRun    bool
	record    bool
}

var batchCmd = &cobra.Command{
	Use:   "batch <file.xml>...",
	Short: "Classify many XML documents, one CSV per input",
	Long: `Batch scans each document independently and writes <name>.csv into the
output directory. A failing document is reported and does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.outputDir, "output-dir", "", "Directory for CSV files (default from config)")
	f.IntVar(&batchFlags.workers, "workers", 0, "Concurrent scans (default from config)")
	f.BoolVar(&batchFlags.dryRun, "dry-run", false, "Scan without writing CSV files")
	f.BoolVar(&batchFlags.record, "record", false, "Save every successful run to the history store")
}

func runBatch(cmd *cobra.Command, args []string) error {
	opts := scan.BatchOptions{
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		DryRun:    batchFlags.dryRun,
	}
	if batchFlags.outputDir != "" {
		opts.OutputDir = batchFlags.outputDir
	}
	if batchFlags.workers > 0 {
		opts.Workers = batchFlags.workers
	}

	results, err := scan.New(cfg.Rules).Batch(cmd.Context(), args, opts)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	tb := format.NewTable(tableMode(false))
	tb.Header("File", "Blocks", "Records", "Output")
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			tb.Row(r.Path, "-", "-", "error: "+r.Err.Error())
		case r.Result.Empty():
			tb.Row(r.Path, r.Result.Blocks, 0, "no blocks found")
		case r.Output == "":
			tb.Row(r.Path, r.Result.Blocks, len(r.Result.Records), "(dry run)")
		default:
			tb.Row(r.Path, r.Result.Blocks, len(r.Result.Records), r.Output)
		}
	}
	tb.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, MaxWidth: 60},
	)
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())

	if batchFlags.record || cfg.Record {
		if err := recordBatch(cmd, results); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func recordBatch(cmd *cobra.Command, results []scan.BatchResult) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	n := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if _, err := st.SaveRun(r.Result.Run(), r.Result.Records); err != nil {
			return fmt.Errorf("record run for %s: %w", r.Path, err)
		}
		n++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d runs\n", n)
	return nil
}
