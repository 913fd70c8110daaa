package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// OperationType classifies an internal value transfer. It travels as a JSON number.
type OperationType uint8

const (
	OpTransfer OperationType = iota
	OpSelfDestruct
	OpCreate
	OpCreate2
)

func (t OperationType) String() string {
	switch t {
	case OpTransfer:
		return "TRANSFER"
	case OpSelfDestruct:
		return "SELF_DESTRUCT"
	case OpCreate:
		return "CREATE"
	case OpCreate2:
		return "CREATE2"
	}
	return fmt.Sprintf("OperationType(%d)", uint8(t))
}

func (t *OperationType) UnmarshalJSON(data []byte) error {
	var n uint8
	if err := json.Unmarshal(data, &n); err != nil {
		return codec.Errorf(codec.ErrNoMatchingVariant, "OperationType: %s", data)
	}
	if OperationType(n) > OpCreate2 {
		return codec.Errorf(codec.ErrNoMatchingVariant, "OperationType: %d", n)
	}
	*t = OperationType(n)
	return nil
}

// InternalOperation is a value transfer that happened inside a transaction.
type InternalOperation struct {
	Type  OperationType    `json:"type"`
	From  hexcodec.Address `json:"from"`
	To    hexcodec.Address `json:"to"`
	Value hexcodec.U256    `json:"value"`
}

func (op *InternalOperation) UnmarshalJSON(data []byte) error { return decodeResponse(data, op) }

// TraceOperation is the call kind of a trace entry.
type TraceOperation string

const (
	TraceCall         TraceOperation = "CALL"
	TraceStaticCall   TraceOperation = "STATICCALL"
	TraceDelegateCall TraceOperation = "DELEGATECALL"
	TraceCallCode     TraceOperation = "CALLCODE"
	TraceCreate       TraceOperation = "CREATE"
)

func (o *TraceOperation) UnmarshalText(b []byte) error {
	switch v := TraceOperation(b); v {
	case TraceCall, TraceStaticCall, TraceDelegateCall, TraceCallCode, TraceCreate:
		*o = v
		return nil
	}
	return codec.Errorf(codec.ErrNoMatchingVariant, "TraceOperation: %q", b)
}

// TraceEntry is one frame of ots_traceTransaction.
type TraceEntry struct {
	Type  TraceOperation   `json:"type"`
	Depth uint16           `json:"depth"`
	From  hexcodec.Address `json:"from"`
	To    hexcodec.Address `json:"to"`
	Value hexcodec.U256    `json:"value"`
	Input hexcodec.Bytes   `json:"input"`
}

func (e *TraceEntry) UnmarshalJSON(data []byte) error { return decodeResponse(data, e) }

type ReceiptWithTimestamp struct {
	TransactionReceipt
	Timestamp hexcodec.U64 `json:"timestamp"`
}

func (r *ReceiptWithTimestamp) UnmarshalJSON(data []byte) error { return decodeResponse(data, r) }

// TransactionsWithReceipts is one page of an address history search.
type TransactionsWithReceipts struct {
	Txs       []Transaction          `json:"txs"`
	Receipts  []ReceiptWithTimestamp `json:"receipts"`
	FirstPage bool                   `json:"firstPage"`
	LastPage  bool                   `json:"lastPage"`
}

func (p *TransactionsWithReceipts) UnmarshalJSON(data []byte) error { return decodeResponse(data, p) }

type Issuance struct {
	BlockReward hexcodec.U256 `json:"blockReward"`
	UncleReward hexcodec.U256 `json:"uncleReward"`
	Issuance    hexcodec.U256 `json:"issuance"`
}

func (i *Issuance) UnmarshalJSON(data []byte) error { return decodeResponse(data, i) }

// BlockData is a block annotated with its transaction count.
type BlockData struct {
	Block
	TransactionCount uint64 `json:"transactionCount"`
}

func (b *BlockData) UnmarshalJSON(data []byte) error { return decodeResponse(data, b) }

type BlockDetails struct {
	Block     BlockData     `json:"block"`
	Issuance  Issuance      `json:"issuance"`
	TotalFees hexcodec.U256 `json:"totalFees"`
}

func (d *BlockDetails) UnmarshalJSON(data []byte) error { return decodeResponse(data, d) }

// BlockTransactions is one page of ots_getBlockTransactions.
type BlockTransactions struct {
	FullBlock Block                `json:"fullblock"`
	Receipts  []TransactionReceipt `json:"receipts"`
}

func (p *BlockTransactions) UnmarshalJSON(data []byte) error { return decodeResponse(data, p) }

// ContractCreatorData names the transaction and account that deployed a contract.
type ContractCreatorData struct {
	Tx      hexcodec.Hash    `json:"tx"`
	Creator hexcodec.Address `json:"creator"`
}

func (c *ContractCreatorData) UnmarshalJSON(data []byte) error { return decodeResponse(data, c) }
