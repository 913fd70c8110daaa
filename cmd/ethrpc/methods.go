package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmagro/ethrpc-types/internal/output"
	"github.com/dmagro/ethrpc-types/internal/rpc"
)

func methodsCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "methods [namespace|method]",
		Short: "List known JSON-RPC methods with their parameter and result types",
		Long: `Without arguments every namespace is listed. A namespace (eth, trace, ots, ...)
lists its methods; a full method name shows that method only.

Examples:
  ethrpc methods
  ethrpc methods engine
  ethrpc methods eth_getLogs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			return runMethods(cmd.OutOrStdout(), arg, gf)
		},
	}
}

func runMethods(w io.Writer, arg string, gf *globalFlags) error {
	var methods []rpc.MethodInfo
	switch {
	case arg == "":
		for _, ns := range rpc.Namespaces() {
			methods = append(methods, rpc.Methods(ns)...)
		}
	default:
		if m, ok := rpc.LookupMethod(arg); ok {
			methods = []rpc.MethodInfo{m}
			break
		}
		methods = rpc.Methods(arg)
		if len(methods) == 0 {
			return fmt.Errorf("unknown namespace or method %q", arg)
		}
	}

	if gf.format == "json" {
		type entry struct {
			Name   string   `json:"name"`
			Params []string `json:"params"`
			Result string   `json:"result"`
		}
		entries := make([]entry, len(methods))
		for i, m := range methods {
			params := m.Params
			if params == nil {
				params = []string{}
			}
			entries[i] = entry{Name: m.Name, Params: params, Result: m.Result}
		}
		return output.WriteJSON(w, entries, gf.pretty)
	}

	output.RenderMethods(w, methods)
	return nil
}
