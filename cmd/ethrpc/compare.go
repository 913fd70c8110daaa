package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmagro/ethrpc-types/internal/config"
	"github.com/dmagro/ethrpc-types/internal/output"
	"github.com/dmagro/ethrpc-types/internal/rpc"
)

func compareCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [block]",
		Short: "Fetch the same block from all providers and compare hashes",
		Long: `Detects stale data or chain forks by comparing block hashes across providers.

Examples:
  ethrpc compare
  ethrpc compare finalized
  ethrpc compare 19000000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			block := "latest"
			if len(args) > 0 {
				block = args[0]
			}
			return runCompare(cmd.Context(), cmd.OutOrStdout(), block, gf)
		},
	}
}

func runCompare(ctx context.Context, w io.Writer, blockArg string, gf *globalFlags) error {
	n, err := rpc.ParseBlockArg(blockArg)
	if err != nil {
		return err
	}
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Defaults.Timeout*2)
	defer cancel()

	results := compareProviders(ctx, cfg, n)

	report := newCompareReport(n, results)
	if gf.saveDir != "" {
		if err := saveReport(gf.saveDir, "compare", report); err != nil {
			return err
		}
	}
	if gf.format == "json" {
		return output.WriteJSON(w, report, gf.pretty)
	}

	output.RenderCompareTerminal(w, n.String(), results)
	return nil
}

type compareRow struct {
	Provider  string  `json:"provider"`
	Number    *uint64 `json:"number,omitempty"`
	Hash      string  `json:"hash,omitempty"`
	LatencyMs int64   `json:"latencyMs"`
	Error     string  `json:"error,omitempty"`
}

type compareReport struct {
	Block      rpc.BlockNumber `json:"block"`
	Results    []compareRow    `json:"results"`
	Consistent bool            `json:"consistent"`
}

func newCompareReport(n rpc.BlockNumber, results []output.CompareResult) compareReport {
	rows := make([]compareRow, len(results))
	for i, r := range results {
		rows[i] = compareRow{Provider: r.Provider, LatencyMs: r.Latency.Milliseconds()}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
			continue
		}
		if r.Number != nil {
			v := uint64(*r.Number)
			rows[i].Number = &v
		}
		if r.Hash != nil {
			rows[i].Hash = r.Hash.String()
		}
	}
	return compareReport{Block: n, Results: rows, Consistent: len(output.HashGroups(results)) == 1}
}

// compareProviders asks every configured provider for block n concurrently.
func compareProviders(ctx context.Context, cfg *config.Config, n rpc.BlockNumber) []output.CompareResult {
	results := make([]output.CompareResult, len(cfg.Providers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range cfg.Providers {
		i, p := i, p
		g.Go(func() error {
			client := clients.GetOrCreate(clientConfig(cfg, p))
			block, latency, err := client.BlockByNumber(gctx, n, false)

			r := output.CompareResult{Provider: p.Name, Latency: latency, Err: err}
			if err == nil && block == nil {
				r.Err = fmt.Errorf("block %s not found", n)
			}
			if r.Err == nil {
				r.Number = block.Number
				r.Hash = block.Hash
			}

			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
