package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"failsafe/internal/failsafe"
	"failsafe/internal/format"
)

var historyFlags struct {
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded scan runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run and its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "Maximum runs to list (0 = all)")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(historyFlags.limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded. Use 'failsafe scan --record' to record one.")
		return nil
	}
	fmt.Fprintln(out, format.Runs(tableMode(false), runs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(id)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run #%d not found", id)
	}
	records, err := st.Records(id)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      #%d\n", run.ID)
	fmt.Fprintf(out, "Source:   %s\n", run.Source)
	fmt.Fprintf(out, "SHA-256:  %s\n", run.SHA256)
	fmt.Fprintf(out, "Scanned:  %s\n", run.CreatedAt)
	fmt.Fprintf(out, "Blocks:   %d\n", run.Blocks)
	fmt.Fprintf(out, "Records:  %d\n", run.RecordCount)
	if len(records) == 0 {
		fmt.Fprintln(out, "\nNo blocks found in the XML file.")
		return nil
	}
	mode := tableMode(false)
	fmt.Fprintln(out)
	fmt.Fprintln(out, format.Records(mode, records))
	fmt.Fprintln(out, format.Summary(mode, failsafe.Tally(records)))
	return nil
}
