// Command ethrpc decodes, checks and fetches Ethereum JSON-RPC values using the
// canonical wire codec.
//
// Usage:
//
//	ethrpc decode call request.json
//	ethrpc check transaction testdata/*.json
//	ethrpc fetch block latest --provider local
//	ethrpc methods trace
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cmtflags "github.com/cometbft/cometbft/libs/cli/flags"
	"github.com/cometbft/cometbft/libs/log"
	"github.com/spf13/cobra"

	"github.com/dmagro/ethrpc-types/internal/env"
	"github.com/dmagro/ethrpc-types/internal/output"
)

const flagLogLevel = "log-level"

var logger = log.NewTMLogger(log.NewSyncWriter(os.Stderr))

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	provider   string
	format     string
	pretty     bool
	logLevel   string
	saveDir    string
}

func rootCmd() *cobra.Command {
	var gf globalFlags

	cmd := &cobra.Command{
		Use:   "ethrpc",
		Short: "Canonical Ethereum JSON-RPC codec toolkit",
		Long: `Decode, validate and fetch Ethereum JSON-RPC values.

Every value is read with the strict decoder and written back in canonical form:
minimal lowercase hex quantities, even-length byte strings and fixed key order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := env.Load(".env"); err != nil {
				return err
			}
			switch gf.format {
			case "terminal":
				if !output.IsTerminal() {
					output.DisableColors()
				}
			case "json":
				output.DisableColors()
			default:
				return fmt.Errorf("unknown format %q (expected terminal or json)", gf.format)
			}
			logger, err = cmtflags.ParseLogLevel(gf.logLevel, logger.With("module", "main"), cmd.Flag(flagLogLevel).DefValue)
			return err
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&gf.configPath, "config", "config/providers.yaml", "Config file path")
	pf.StringVar(&gf.provider, "provider", "", "Provider to query (default from config)")
	pf.StringVar(&gf.format, "format", "terminal", "Output format: terminal|json")
	pf.BoolVar(&gf.pretty, "pretty", false, "Indent JSON output")
	pf.StringVar(&gf.saveDir, "save", "", "Also write check/compare reports as timestamped JSON files into this directory")
	pf.StringVar(&gf.logLevel, flagLogLevel, "info", "level of logging, can be debug, info, error, none or comma-separated list of module:level pairs")

	cmd.AddCommand(
		decodeCmd(&gf),
		checkCmd(&gf),
		fetchCmd(&gf),
		compareCmd(&gf),
		methodsCmd(&gf),
		kindsCmd(),
	)
	return cmd
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd().ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
