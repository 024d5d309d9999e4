package scan

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"failsafe/internal/logging"
	"failsafe/internal/report"
)

// BatchOptions configures Batch.
type BatchOptions struct {
	// OutputDir receives one CSV per input, named after the input file.
	OutputDir string
	// Workers bounds concurrent scans; values below 1 mean 1.
	Workers int
	// DryRun scans without writing files.
	DryRun bool
}

// BatchResult is the outcome for one input of a batch.
type BatchResult struct {
	Path   string
	Output string // empty when nothing was written
	Result *Result
	Err    error
}

// OutputPath maps an input document to its CSV path inside dir.
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".csv")
}

// outputPaths assigns each input a distinct CSV path, suffixing "-2", "-3"...
// until the name is not taken by an earlier input.
func outputPaths(dir string, inputs []string) []string {
	used := make(map[string]bool, len(inputs))
	out := make([]string, len(inputs))
	for i, in := range inputs {
		p := OutputPath(dir, in)
		stem := strings.TrimSuffix(p, ".csv")
		for n := 2; used[p]; n++ {
			p = stem + "-" + strconv.Itoa(n) + ".csv"
		}
		used[p] = true
		out[i] = p
	}
	return out
}

// Batch scans every file independently, bounded by opts.Workers. Results
// keep the input order. A failing file is reported in its BatchResult and
// does not stop the others; the returned error is only set when ctx ends.
func (s *Scanner) Batch(ctx context.Context, paths []string, opts BatchOptions) ([]BatchResult, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := logging.New("batch")
	logger.Info("batch started", "files", len(paths), "workers", workers)

	results := make([]BatchResult, len(paths))
	outputs := outputPaths(opts.OutputDir, paths)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.one(p, outputs[i], opts.DryRun)
			if results[i].Err != nil {
				logger.Warn("file failed", "path", p, "error", results[i].Err)
			}
			return nil
		})
	}
	return results, g.Wait()
}

func (s *Scanner) one(path, out string, dryRun bool) BatchResult {
	br := BatchResult{Path: path}
	res, err := s.File(path)
	if err != nil {
		br.Err = err
		return br
	}
	br.Result = res
	if dryRun || res.Empty() {
		return br
	}
	if err := report.WriteFile(out, res.Records); err != nil {
		br.Err = err
		return br
	}
	br.Output = out
	return br
}
