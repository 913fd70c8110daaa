package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
	"github.com/dmagro/ethrpc-types/internal/output"
	"github.com/dmagro/ethrpc-types/internal/rpc"
)

// kind is one decodable wire type.
type kind struct {
	name   string
	desc   string
	decode func([]byte) (interface{}, error)
	encode func(interface{}) ([]byte, error)
	// render draws a decoded value for the terminal; nil falls back to JSON.
	render func(w io.Writer, v interface{})
}

// jsonKind decodes through T's json.Unmarshaler (or struct tags) and encodes the
// decoded pointer back. A null document is rejected, as no kind has a null value.
func jsonKind[T any](name, desc string) kind {
	return kind{
		name: name,
		desc: desc,
		decode: func(data []byte) (interface{}, error) {
			if codec.IsNull(data) {
				return nil, codec.Errorf(codec.ErrMalformedJSON, "%s: got null", name)
			}
			v := new(T)
			if err := json.Unmarshal(data, v); err != nil {
				return nil, err
			}
			return v, nil
		},
		encode: func(v interface{}) ([]byte, error) { return json.Marshal(v) },
	}
}

func (k kind) withRender(render func(w io.Writer, v interface{})) kind {
	k.render = render
	return k
}

var kinds = map[string]kind{}

func registerKinds(ks ...kind) {
	for _, k := range ks {
		if _, dup := kinds[k.name]; dup {
			panic(fmt.Sprintf("duplicate kind %q", k.name))
		}
		kinds[k.name] = k
	}
}

func init() {
	registerKinds(
		jsonKind[hexcodec.U64]("quantity", "64-bit hex quantity"),
		jsonKind[hexcodec.U256]("u256", "256-bit hex quantity"),
		jsonKind[hexcodec.Bytes]("bytes", "hex byte string"),
		jsonKind[hexcodec.Address]("address", "20-byte address"),
		jsonKind[hexcodec.Hash]("hash", "32-byte hash"),
		kind{
			name: "call",
			desc: "eth_call / eth_estimateGas message (untagged union)",
			decode: func(data []byte) (interface{}, error) {
				return rpc.DecodeMessageCall(data)
			},
			encode: func(v interface{}) ([]byte, error) {
				return rpc.EncodeMessageCall(v.(rpc.MessageCall))
			},
		},
		kind{
			name: "txmsg",
			desc: "typed transaction message (tagged union)",
			decode: func(data []byte) (interface{}, error) {
				return rpc.DecodeTransactionMessage(data)
			},
			encode: func(v interface{}) ([]byte, error) {
				return rpc.EncodeTransactionMessage(v.(rpc.TransactionMessage))
			},
		},
		jsonKind[rpc.Tx]("tx", "transaction hash or full transaction"),
		jsonKind[rpc.Transaction]("transaction", "signed transaction with inclusion info").
			withRender(func(w io.Writer, v interface{}) {
				output.RenderTransaction(w, v.(*rpc.Transaction), output.Source{})
			}),
		jsonKind[rpc.SyncStatus]("syncing", "eth_syncing result").
			withRender(func(w io.Writer, v interface{}) {
				output.RenderSyncStatus(w, *v.(*rpc.SyncStatus), output.Source{})
			}),
		jsonKind[rpc.LogFilter]("filter", "eth_getLogs filter"),
		jsonKind[rpc.BlockID]("block-id", "block number, tag or hash"),
		jsonKind[rpc.Block]("block", "eth_getBlockBy* result").
			withRender(func(w io.Writer, v interface{}) {
				output.RenderBlock(w, v.(*rpc.Block), output.Source{}, time.Now())
			}),
		jsonKind[rpc.TransactionReceipt]("receipt", "eth_getTransactionReceipt result").
			withRender(func(w io.Writer, v interface{}) {
				output.RenderReceipt(w, v.(*rpc.TransactionReceipt), output.Source{})
			}),
		jsonKind[[]rpc.TransactionLog]("logs", "eth_getLogs result").
			withRender(func(w io.Writer, v interface{}) {
				output.RenderLogs(w, *v.(*[]rpc.TransactionLog), output.Source{})
			}),
		jsonKind[rpc.PayloadStatus]("payload-status", "engine API payload status"),
		jsonKind[rpc.ForkchoiceUpdatedResponse]("forkchoice-response", "engine_forkchoiceUpdated result"),
		jsonKind[rpc.TraceFilter]("trace-filter", "trace_filter request"),
		jsonKind[rpc.TraceTypes]("trace-types", "trace_* result selection"),
	)
}

func lookupKind(name string) (kind, error) {
	k, ok := kinds[name]
	if !ok {
		return kind{}, fmt.Errorf("unknown kind %q (see 'ethrpc kinds')", name)
	}
	return k, nil
}

func kindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the value kinds decode and check accept",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, name := range kindNames() {
				fmt.Fprintf(w, "  %-20s %s\n", name, kinds[name].desc)
			}
		},
	}
}
