package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
	"github.com/dmagro/ethrpc-types/internal/output"
	"github.com/dmagro/ethrpc-types/internal/rpc"
)

func fetchCmd(gf *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Call a configured provider and decode the result",
		Long: `Sends one JSON-RPC request to the selected provider and decodes the result with
the strict decoder. When decoding fails the raw result is printed with the error.`,
	}
	cmd.AddCommand(
		fetchSyncingCmd(gf),
		fetchBlockCmd(gf),
		fetchTxCmd(gf),
		fetchReceiptCmd(gf),
		fetchLogsCmd(gf),
		fetchBalanceCmd(gf),
	)
	return cmd
}

func fetchSyncingCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "syncing",
		Short: "eth_syncing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := providerClient(gf)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Defaults.Timeout*2)
			defer cancel()

			status, latency, err := client.Syncing(ctx)
			if err != nil {
				return err
			}
			src := output.Source{Provider: client.Name(), Latency: latency}
			w := cmd.OutOrStdout()
			if gf.format == "json" {
				return output.WriteJSON(w, output.FetchReport{
					Method: rpc.MethodSyncing,
					Params: []interface{}{},
					Result: status,
					Meta:   fetchMeta(src),
				}, gf.pretty)
			}
			output.RenderSyncStatus(w, status, src)
			return nil
		},
	}
}

func fetchBlockCmd(gf *globalFlags) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "block [number|tag|hash]",
		Short: "eth_getBlockByNumber / eth_getBlockByHash",
		Long: `Fetch a block by number, tag or hash.

Examples:
  ethrpc fetch block
  ethrpc fetch block finalized
  ethrpc fetch block 19000000 --full
  ethrpc fetch block 0x2a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "latest"
			if len(args) > 0 {
				arg = args[0]
			}
			method, params, err := blockRequest(arg, full)
			if err != nil {
				return err
			}
			var b rpc.Block
			return runFetch(cmd, gf, &b, func(w io.Writer, src output.Source) {
				output.RenderBlock(w, &b, src, time.Now())
			}, method, params...)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Include full transaction objects")
	return cmd
}

// blockRequest picks the method for a block argument: a 32-byte hash goes to
// eth_getBlockByHash, anything else must parse as a block number or tag.
func blockRequest(arg string, full bool) (string, []interface{}, error) {
	if len(arg) == 66 {
		h, err := hexcodec.ParseHash(arg)
		if err != nil {
			return "", nil, fmt.Errorf("invalid block hash: %w", err)
		}
		return rpc.MethodGetBlockByHash, []interface{}{h, full}, nil
	}
	n, err := rpc.ParseBlockArg(arg)
	if err != nil {
		return "", nil, err
	}
	return rpc.MethodGetBlockByNumber, []interface{}{n, full}, nil
}

func fetchTxCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "eth_getTransactionByHash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hexcodec.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction hash: %w", err)
			}
			var tx rpc.Transaction
			return runFetch(cmd, gf, &tx, func(w io.Writer, src output.Source) {
				output.RenderTransaction(w, &tx, src)
			}, rpc.MethodGetTransactionByHash, h)
		},
	}
}

func fetchReceiptCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <hash>",
		Short: "eth_getTransactionReceipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hexcodec.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction hash: %w", err)
			}
			var r rpc.TransactionReceipt
			return runFetch(cmd, gf, &r, func(w io.Writer, src output.Source) {
				output.RenderReceipt(w, &r, src)
			}, rpc.MethodGetTransactionReceipt, h)
		},
	}
}

type logsFlags struct {
	from, to   string
	blockHash  string
	addresses  []string
	topics     []string
	filterFile string
}

func fetchLogsCmd(gf *globalFlags) *cobra.Command {
	var lf logsFlags

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "eth_getLogs",
		Long: `Fetch logs matching a filter built from flags or read from a file.

Each --topic fills the next slot. A slot is "*" (any topic) or one or more hashes
separated by "|".

Examples:
  ethrpc fetch logs --from 19000000 --to 19000010 --address 0xa0b8...eb48
  ethrpc fetch logs --block-hash 0x... --topic 0xddf2...3ef --topic '*' --topic 0xaa..|0xbb..
  ethrpc fetch logs --filter filter.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := lf.build(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var logs []rpc.TransactionLog
			return runFetch(cmd, gf, &logs, func(w io.Writer, src output.Source) {
				output.RenderLogs(w, logs, src)
			}, rpc.MethodGetLogs, filter)
		},
	}

	f := cmd.Flags()
	f.StringVar(&lf.from, "from", "", "First block (number or tag)")
	f.StringVar(&lf.to, "to", "", "Last block (number or tag)")
	f.StringVar(&lf.blockHash, "block-hash", "", "Single block by hash (excludes --from/--to)")
	f.StringArrayVar(&lf.addresses, "address", nil, "Emitting contract; repeat for several")
	f.StringArrayVar(&lf.topics, "topic", nil, "Topic slot; repeat for the next slot")
	f.StringVar(&lf.filterFile, "filter", "", "Read the filter as JSON from a file (- for stdin)")
	return cmd
}

func (lf *logsFlags) build(stdin io.Reader) (rpc.LogFilter, error) {
	var filter rpc.LogFilter
	if lf.filterFile != "" {
		data, err := readSource(stdin, lf.filterFile)
		if err != nil {
			return filter, err
		}
		if err := filter.UnmarshalJSON(data); err != nil {
			return filter, fmt.Errorf("decode filter: %w", err)
		}
		return filter, nil
	}

	switch {
	case lf.blockHash != "" && (lf.from != "" || lf.to != ""):
		return filter, errors.New("--block-hash cannot be combined with --from/--to")
	case lf.blockHash != "":
		h, err := hexcodec.ParseHash(lf.blockHash)
		if err != nil {
			return filter, fmt.Errorf("invalid --block-hash: %w", err)
		}
		filter.Block = rpc.ExactBlock(h)
	case lf.from != "" || lf.to != "":
		from, err := optionalBlock(lf.from)
		if err != nil {
			return filter, fmt.Errorf("invalid --from: %w", err)
		}
		to, err := optionalBlock(lf.to)
		if err != nil {
			return filter, fmt.Errorf("invalid --to: %w", err)
		}
		filter.Block = rpc.BlockRange(from, to)
	}

	if len(lf.addresses) > 0 {
		addrs := make(rpc.AddressFilter, 0, len(lf.addresses))
		for _, s := range lf.addresses {
			a, err := hexcodec.ParseAddress(s)
			if err != nil {
				return filter, fmt.Errorf("invalid --address %q: %w", s, err)
			}
			addrs = append(addrs, a)
		}
		filter.Address = &addrs
	}

	if len(lf.topics) > 0 {
		topics, err := parseTopics(lf.topics)
		if err != nil {
			return filter, err
		}
		filter.Topics = &topics
	}
	return filter, nil
}

func optionalBlock(s string) (*rpc.BlockNumber, error) {
	if s == "" {
		return nil, nil
	}
	n, err := rpc.ParseBlockArg(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseTopics turns --topic values into slots: "*" is a wildcard, "a|b" is either.
func parseTopics(slots []string) (rpc.Topics, error) {
	if len(slots) > rpc.MaxTopics {
		return nil, codec.Errorf(codec.ErrTooManySlots, "%d topic slots, at most %d", len(slots), rpc.MaxTopics)
	}
	topics := make(rpc.Topics, 0, len(slots))
	for i, slot := range slots {
		if slot == "*" || slot == "" {
			topics = append(topics, rpc.AnyTopic)
			continue
		}
		var hs []hexcodec.Hash
		for _, s := range strings.Split(slot, "|") {
			h, err := hexcodec.ParseHash(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("invalid --topic #%d: %w", i+1, err)
			}
			hs = append(hs, h)
		}
		topics = append(topics, rpc.OneOf(hs...))
	}
	return topics, nil
}

func fetchBalanceCmd(gf *globalFlags) *cobra.Command {
	var (
		decimals int32
		symbol   string
		block    string
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "balance <token> <holder>",
		Short: "ERC-20 balanceOf via eth_call",
		Long: `Query the token balance of an address.

Examples:
  ethrpc fetch balance 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --decimals 6 --symbol USDC`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := hexcodec.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("invalid token address: %w", err)
			}
			holder, err := hexcodec.ParseAddress(args[1])
			if err != nil {
				return fmt.Errorf("invalid holder address: %w", err)
			}
			at, err := rpc.ParseBlockArg(block)
			if err != nil {
				return err
			}

			cfg, client, err := providerClient(gf)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Defaults.Timeout*2)
			defer cancel()

			call := rpc.BalanceOfCall(token, holder)
			ret, latency, err := client.CallContract(ctx, call, at)
			if err != nil {
				return fmt.Errorf("eth_call failed: %w", err)
			}
			amount, err := rpc.DecodeWord(ret)
			if err != nil {
				return fmt.Errorf("failed to decode balance: %w", err)
			}

			src := output.Source{Provider: client.Name(), Latency: latency}
			w := cmd.OutOrStdout()
			if gf.format == "json" {
				report := output.FetchReport{
					Method: rpc.MethodCall,
					Params: []interface{}{rpc.NewCallArgs(call), at},
					Result: map[string]interface{}{
						"amount":    amount,
						"formatted": output.FormatTokenAmount(amount, decimals, symbol),
					},
					Meta: fetchMeta(src),
				}
				if raw {
					report.Raw = []byte(`"` + ret.String() + `"`)
				}
				return output.WriteJSON(w, report, gf.pretty)
			}
			if raw {
				fmt.Fprintf(w, "\n  calldata: %s\n  result:   %s\n", *call.Data, ret)
			}
			output.RenderBalance(w, token, holder, amount, decimals, symbol, src)
			return nil
		},
	}

	cmd.Flags().Int32Var(&decimals, "decimals", 18, "Token decimals")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Token symbol for display")
	cmd.Flags().StringVar(&block, "block", "latest", "Block number or tag")
	cmd.Flags().BoolVar(&raw, "raw", false, "Show raw calldata and response")
	return cmd
}

// runFetch performs one request against the selected provider, decoding the result
// into v. On a decode failure the raw result is printed before the error is returned.
func runFetch(cmd *cobra.Command, gf *globalFlags, v interface{}, render func(io.Writer, output.Source), method string, params ...interface{}) error {
	cfg, client, err := providerClient(gf)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Defaults.Timeout*2)
	defer cancel()

	rc, err := callDecode(ctx, client, v, method, params...)
	src := output.Source{Provider: client.Name(), Latency: rc.latency}
	w := cmd.OutOrStdout()

	switch {
	case errors.Is(err, errNotFound):
		return fmt.Errorf("%s returned null", method)
	case err != nil && rc.raw != nil:
		logger.Error("result rejected by decoder", "method", method, "path", codec.PathOf(err), "err", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "raw result:")
		_ = output.WriteRaw(cmd.ErrOrStderr(), rc.raw, true)
		return err
	case err != nil:
		return err
	}

	if gf.format == "json" {
		report := output.FetchReport{
			Method: method,
			Params: params,
			Result: v,
			Meta:   fetchMeta(src),
		}
		return output.WriteJSON(w, report, gf.pretty)
	}
	render(w, src)
	return nil
}

func fetchMeta(src output.Source) output.FetchMeta {
	return output.FetchMeta{Provider: src.Provider, LatencyMs: src.Latency.Milliseconds()}
}
