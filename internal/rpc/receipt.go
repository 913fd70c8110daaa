package rpc

import (
	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// TransactionLog is an event emitted during execution. Location fields are nil for
// logs of pending transactions.
type TransactionLog struct {
	Address          hexcodec.Address `json:"address"`
	Topics           []hexcodec.Hash  `json:"topics"`
	Data             hexcodec.Bytes   `json:"data"`
	BlockNumber      *hexcodec.U64    `json:"blockNumber"`
	BlockHash        *hexcodec.Hash   `json:"blockHash"`
	TransactionHash  *hexcodec.Hash   `json:"transactionHash"`
	TransactionIndex *hexcodec.U64    `json:"transactionIndex"`
	LogIndex         *hexcodec.U64    `json:"logIndex"`
	Removed          bool             `json:"removed"`
}

func (l *TransactionLog) UnmarshalJSON(data []byte) error { return decodeResponse(data, l) }

// TransactionReceipt is the outcome of an included transaction. Status is set after
// Byzantium, Root before it.
type TransactionReceipt struct {
	TransactionHash   hexcodec.Hash     `json:"transactionHash"`
	TransactionIndex  hexcodec.U64      `json:"transactionIndex"`
	BlockHash         hexcodec.Hash     `json:"blockHash"`
	BlockNumber       hexcodec.U64      `json:"blockNumber"`
	From              hexcodec.Address  `json:"from"`
	To                *hexcodec.Address `json:"to"`
	CumulativeGasUsed hexcodec.U64      `json:"cumulativeGasUsed"`
	GasUsed           hexcodec.U64      `json:"gasUsed"`
	EffectiveGasPrice *hexcodec.U256    `json:"effectiveGasPrice,omitempty"`
	ContractAddress   *hexcodec.Address `json:"contractAddress"`
	Logs              []TransactionLog  `json:"logs"`
	LogsBloom         hexcodec.Bloom    `json:"logsBloom"`
	Type              *hexcodec.U64     `json:"type,omitempty"`
	Status            *hexcodec.U64     `json:"status,omitempty"`
	Root              *hexcodec.Hash    `json:"root,omitempty"`
}

func (r *TransactionReceipt) UnmarshalJSON(data []byte) error { return decodeResponse(data, r) }

// Succeeded reports whether execution did not revert. Pre-Byzantium receipts carry no
// status and report true.
func (r *TransactionReceipt) Succeeded() bool {
	return r.Status == nil || *r.Status == 1
}

// CreatedContract reports whether the transaction deployed a contract.
func (r *TransactionReceipt) CreatedContract() bool { return r.ContractAddress != nil }

// decodeResponse reads a node response object into *dst field by field, so that a bad
// or missing field is reported by its path. Unknown keys are ignored; dst is left as it
// was on failure.
func decodeResponse[T any](data []byte, dst *T) error {
	var out T
	if err := codec.DecodeFields(data, &out); err != nil {
		return err
	}
	*dst = out
	return nil
}
