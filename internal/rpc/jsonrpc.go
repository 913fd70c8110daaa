// =============================================================================
// FILE: internal/rpc/jsonrpc.go
// ROLE: JSON-RPC 2.0 envelope shared by the client and the CLI
// =============================================================================
//
// Every exchange with a node is wrapped the same way:
//
//   Client ──[ Request  {jsonrpc, method, params, id} ]──▶ Node
//   Client ◀──[ Response {jsonrpc, id, result | error} ]── Node
//
// The envelope is deliberately dumb. Result stays a json.RawMessage until the
// caller, who knows which method it called, decodes it into one of the model
// types in this package (Block, Transaction, SyncStatus, ...). Decode failures
// of the model are therefore reported by the model codecs, with field paths,
// and never by the envelope.
// =============================================================================

package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/dmagro/ethrpc-types/internal/codec"
)

// Version is the protocol version string every message carries.
const Version = "2.0"

// Request is a JSON-RPC 2.0 request.
//
//	{"jsonrpc": "2.0", "method": "eth_blockNumber", "params": [], "id": 1}
//
// Params is never nil on the wire; an empty list is sent as [].
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// NewRequest builds a request with the given id.
func NewRequest(id int, method string, params ...interface{}) Request {
	if params == nil {
		params = []interface{}{}
	}
	return Request{JSONRPC: Version, Method: method, Params: params, ID: id}
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result and Error is meaningful;
// Error is nil on success.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// IsNull reports whether the result is absent or the literal null, which methods such
// as eth_getTransactionByHash use for "not found".
func (r *Response) IsNull() bool {
	return len(r.Result) == 0 || codec.IsNull(r.Result)
}

// Decode unmarshals the result into v. Model decode failures keep their kind and path.
func (r *Response) Decode(v interface{}) error {
	if r.Error != nil {
		return r.Error
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// RPCError is the error object of a failed call.
//
// Standard codes:
//
//	-32700  Parse error
//	-32600  Invalid request
//	-32601  Method not found
//	-32602  Invalid params
//	-32603  Internal error
//
// Nodes add their own, e.g. -32000 for execution reverted, with revert data in Data.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}
