package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"failsafe/internal/failsafe"
	"failsafe/internal/format"
	"failsafe/internal/logging"
	"failsafe/internal/report"
	"failsafe/internal/scan"
)

// DefaultInput is scanned when no file argument is given.
const DefaultInput = "test.xml"

var scanFlags struct {
	output   string
	record   bool
	dryRun   bool
	markdown bool
}

var scanCmd = &cobra.Command{
	Use:   "scan [file.xml]",
	Short: "Classify one XML document and write the CSV report",
	Long: `Scan parses one document (default test.xml), prints the resolved
instances and a per-type summary, and writes them to the CSV output.
When no qualifying block is found nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVarP(&scanFlags.output, "output", "o", "", "CSV output path (default from config, xmlout.csv)")
	f.BoolVar(&scanFlags.record, "record", false, "Save the run to the history store")
	f.BoolVar(&scanFlags.dryRun, "dry-run", false, "Print results without writing the CSV")
	f.BoolVar(&scanFlags.markdown, "markdown", false, "Print tables as Markdown (same as --table markdown)")
}

func runScan(cmd *cobra.Command, args []string) error {
	input := DefaultInput
	if len(args) == 1 {
		input = args[0]
	}
	output := cfg.Output
	if scanFlags.output != "" {
		output = scanFlags.output
	}
	out := cmd.OutOrStdout()

	res, err := scan.New(cfg.Rules).File(input)
	if err != nil {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "Error processing XML: %v\n", err)
		fmt.Fprintf(errOut, "Add the requested XML file %q then try again.\n", input)
		return errReported
	}
	logging.New("scan").Info("scan complete",
		"source", input, "blocks", res.Blocks, "records", len(res.Records))

	if scanFlags.record || cfg.Record {
		if err := recordRun(cmd, res); err != nil {
			return err
		}
	}

	if res.Empty() {
		fmt.Fprintln(out, "\nNo blocks found in the XML file.")
		return nil
	}

	mode := tableMode(scanFlags.markdown)
	fmt.Fprintln(out, format.Records(mode, res.Records))
	fmt.Fprintln(out, format.Summary(mode, failsafe.Tally(res.Records)))

	if scanFlags.dryRun {
		fmt.Fprintln(out, "Dry run: no file written.")
		return nil
	}
	fmt.Fprintf(out, "\nFinished processing. Writing to %s...\n", output)
	if err := report.WriteFile(output, res.Records); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(out, "Output saved to %s\n", output)
	return nil
}

func recordRun(cmd *cobra.Command, res *scan.Result) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	id, err := st.SaveRun(res.Run(), res.Records)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded run #%d\n", id)
	return nil
}
