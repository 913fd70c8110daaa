package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmagro/ethrpc-types/internal/output"
)

func checkCmd(gf *globalFlags) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "check <kind> <files...>",
		Short: "Verify that documents decode and re-encode canonically",
		Long: `Decodes every file as the given kind, encodes the result, decodes that again and
checks the second encoding is byte-identical to the first. Files are checked
concurrently; the command fails if any document fails.

Examples:
  ethrpc check call testdata/calls/*.json
  ethrpc check transaction tx1.json tx2.json --format json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), args[0], args[1:], workers, gf)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Files checked in parallel")
	return cmd
}

func runCheck(ctx context.Context, w io.Writer, kindName string, files []string, workers int, gf *globalFlags) error {
	k, err := lookupKind(kindName)
	if err != nil {
		return err
	}

	results := checkFiles(ctx, k, files, workers)

	if gf.saveDir != "" {
		if err := saveReport(gf.saveDir, "check-"+kindName, output.NewCheckReport(kindName, results)); err != nil {
			return err
		}
	}

	if gf.format == "json" {
		if err := output.RenderCheckJSON(w, kindName, results); err != nil {
			return err
		}
	} else {
		output.RenderCheckTerminal(w, kindName, results)
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// checkFiles runs checkDocument over files with at most workers in flight. Results
// keep the order of files.
func checkFiles(ctx context.Context, k kind, files []string, workers int) []output.CheckResult {
	results := make([]output.CheckResult, len(files))
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = output.CheckResult{Source: path, Stage: "read", Err: err}
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				results[i] = output.CheckResult{Source: path, Stage: "read", Err: err}
				return nil
			}
			results[i] = checkDocument(k, path, data)
			logger.Debug("checked document", "source", path, "ok", results[i].OK())
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// checkDocument decodes data, encodes it, then decodes and encodes the encoding
// again. Both encodings must match.
func checkDocument(k kind, source string, data []byte) output.CheckResult {
	r := output.CheckResult{Source: source}

	v, err := k.decode(data)
	if err != nil {
		r.Stage, r.Err = "decode", err
		return r
	}
	first, err := k.encode(v)
	if err != nil {
		r.Stage, r.Err = "encode", err
		return r
	}
	v2, err := k.decode(first)
	if err != nil {
		r.Stage, r.Err = "redecode", err
		return r
	}
	second, err := k.encode(v2)
	if err != nil {
		r.Stage, r.Err = "encode", err
		return r
	}
	if !bytes.Equal(first, second) {
		r.Stage, r.Err = "stable", fmt.Errorf("re-encoding changed: %s != %s", first, second)
		return r
	}
	r.Canonical = first
	return r
}
