package rpc

import (
	"encoding/json"
	"errors"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// TxType identifies a transaction format generation.
type TxType uint8

// Transaction types, append only.
const (
	LegacyTxType     TxType = iota // pre-EIP-2718
	AccessListTxType               // EIP-2930
	DynamicFeeTxType               // EIP-1559
)

// Wire literals of the type tag. Transaction objects use the short form, call requests
// the two-digit form.
var (
	txTypeTags = codec.NewTagTable(map[TxType]string{
		LegacyTxType:     "0x0",
		AccessListTxType: "0x1",
		DynamicFeeTxType: "0x2",
	})
	callTypeTags = codec.NewTagTable(map[TxType]string{
		LegacyTxType:     "0x00",
		AccessListTxType: "0x01",
		DynamicFeeTxType: "0x02",
	})
)

func (t TxType) String() string {
	switch t {
	case LegacyTxType:
		return "legacy"
	case AccessListTxType:
		return "access-list"
	case DynamicFeeTxType:
		return "dynamic-fee"
	default:
		return "unknown"
	}
}

// parseTag resolves a type tag against one of the tag tables. The exact literal is
// matched first; any other spelling of the same quantity ("0x2" for "0x02") is accepted.
func parseTag(tags codec.TagTable[TxType], raw json.RawMessage) (TxType, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, &codec.DecodeError{Kind: codec.ErrUnknownTransactionType, Path: "type", Detail: "tag must be a string"}
	}
	if t, ok := tags.Lookup(s); ok {
		return t, nil
	}
	n, err := hexcodec.DecodeUint64(s)
	if err != nil || n > 0xff || !tags.Contains(TxType(n)) {
		return 0, &codec.DecodeError{Kind: codec.ErrUnknownTransactionType, Path: "type", Detail: s}
	}
	return TxType(n), nil
}

// tag returns the literal for t; t is always one of the known types here.
func tag(tags codec.TagTable[TxType], t TxType) string {
	s, _ := tags.Tag(t)
	return s
}

// AccessListEntry declares an address and the storage slots a transaction will touch.
type AccessListEntry struct {
	Address     hexcodec.Address
	StorageKeys []hexcodec.Hash
}

var accessListEntryKeys = codec.Keys("address", "storageKeys")

func (e AccessListEntry) MarshalJSON() ([]byte, error) {
	keys := e.StorageKeys
	if keys == nil {
		keys = []hexcodec.Hash{}
	}
	return codec.EncodeObject(
		codec.F("address", e.Address),
		codec.F("storageKeys", keys),
	)
}

func (e *AccessListEntry) UnmarshalJSON(data []byte) error {
	obj, err := codec.ReadObject(data)
	if err != nil {
		return err
	}
	if err := obj.Allow(accessListEntryKeys); err != nil {
		return err
	}
	var out AccessListEntry
	if err := obj.Required("address", &out.Address); err != nil {
		return err
	}
	if err := obj.Required("storageKeys", &out.StorageKeys); err != nil {
		return err
	}
	*e = out
	return nil
}

// AccessList is an ordered list of entries. Entries are neither merged nor deduplicated.
type AccessList []AccessListEntry

func (l AccessList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]AccessListEntry(l))
}

func (l *AccessList) UnmarshalJSON(data []byte) error {
	if codec.Kind(data) != '[' {
		return codec.Errorf(codec.ErrMalformedJSON, "access list: expected array, got %s", codec.Describe(data))
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return codec.Errorf(codec.ErrMalformedJSON, "%v", err)
	}
	out := make(AccessList, len(raws))
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return codec.WithIndex(err, i)
		}
	}
	*l = out
	return nil
}

// TransactionMessage is the signed body of a transaction; one of *LegacyTx,
// *AccessListTx or *DynamicFeeTx.
type TransactionMessage interface {
	Type() TxType
	fields() []codec.Field
}

// LegacyTx is a pre-EIP-2718 transaction body. ChainID is present for EIP-155 signed
// transactions.
type LegacyTx struct {
	ChainID  *hexcodec.U64
	Nonce    hexcodec.U64
	To       *hexcodec.Address
	Gas      hexcodec.U64
	GasPrice hexcodec.U256
	Value    hexcodec.U256
	Input    hexcodec.Bytes
}

// AccessListTx is an EIP-2930 transaction body.
type AccessListTx struct {
	ChainID    hexcodec.U64
	Nonce      hexcodec.U64
	To         *hexcodec.Address
	Gas        hexcodec.U64
	GasPrice   hexcodec.U256
	Value      hexcodec.U256
	Input      hexcodec.Bytes
	AccessList AccessList
}

// DynamicFeeTx is an EIP-1559 transaction body.
type DynamicFeeTx struct {
	ChainID              hexcodec.U64
	Nonce                hexcodec.U64
	To                   *hexcodec.Address
	Gas                  hexcodec.U64
	MaxFeePerGas         hexcodec.U256
	MaxPriorityFeePerGas hexcodec.U256
	Value                hexcodec.U256
	Input                hexcodec.Bytes
	AccessList           AccessList
}

func (*LegacyTx) Type() TxType     { return LegacyTxType }
func (*AccessListTx) Type() TxType { return AccessListTxType }
func (*DynamicFeeTx) Type() TxType { return DynamicFeeTxType }

var (
	legacyTxKeys     = codec.Keys("type", "chainId", "nonce", "to", "gas", "gasPrice", "value", "input")
	accessListTxKeys = codec.Keys("type", "chainId", "nonce", "to", "gas", "gasPrice", "value", "input", "accessList")
	dynamicFeeTxKeys = codec.Keys("type", "chainId", "nonce", "to", "gas", "maxFeePerGas", "maxPriorityFeePerGas", "value", "input", "accessList")
)

func (tx *LegacyTx) fields() []codec.Field {
	return []codec.Field{
		codec.F("type", tag(txTypeTags, LegacyTxType)),
		codec.Opt("chainId", tx.ChainID),
		codec.F("nonce", tx.Nonce),
		codec.Opt("to", tx.To),
		codec.F("gas", tx.Gas),
		codec.F("gasPrice", tx.GasPrice),
		codec.F("value", tx.Value),
		codec.F("input", tx.Input),
	}
}

func (tx *AccessListTx) fields() []codec.Field {
	return []codec.Field{
		codec.F("type", tag(txTypeTags, AccessListTxType)),
		codec.F("chainId", tx.ChainID),
		codec.F("nonce", tx.Nonce),
		codec.Opt("to", tx.To),
		codec.F("gas", tx.Gas),
		codec.F("gasPrice", tx.GasPrice),
		codec.F("value", tx.Value),
		codec.F("input", tx.Input),
		codec.F("accessList", tx.AccessList),
	}
}

func (tx *DynamicFeeTx) fields() []codec.Field {
	return []codec.Field{
		codec.F("type", tag(txTypeTags, DynamicFeeTxType)),
		codec.F("chainId", tx.ChainID),
		codec.F("nonce", tx.Nonce),
		codec.Opt("to", tx.To),
		codec.F("gas", tx.Gas),
		codec.F("maxFeePerGas", tx.MaxFeePerGas),
		codec.F("maxPriorityFeePerGas", tx.MaxPriorityFeePerGas),
		codec.F("value", tx.Value),
		codec.F("input", tx.Input),
		codec.F("accessList", tx.AccessList),
	}
}

// EncodeTransactionMessage writes msg with its type tag.
func EncodeTransactionMessage(msg TransactionMessage) ([]byte, error) {
	if msg == nil {
		return nil, errors.New("nil transaction message")
	}
	return codec.EncodeObject(msg.fields()...)
}

// DecodeTransactionMessage reads a tagged transaction body.
func DecodeTransactionMessage(data []byte) (TransactionMessage, error) {
	obj, err := codec.ReadObject(data)
	if err != nil {
		return nil, err
	}
	return decodeMessage(obj)
}

// decodeMessage selects the variant from the mandatory type tag, then checks keys
// against that variant and any extra keys the enclosing object owns.
func decodeMessage(obj codec.Object, extra ...codec.KeySet) (TransactionMessage, error) {
	raw, ok := obj["type"]
	if !ok || codec.IsNull(raw) {
		return nil, codec.MissingField("type")
	}
	t, err := parseTag(txTypeTags, raw)
	if err != nil {
		return nil, err
	}
	var (
		keys codec.KeySet
		read func(codec.Object) (TransactionMessage, error)
	)
	switch t {
	case LegacyTxType:
		keys, read = legacyTxKeys, decodeLegacyTx
	case AccessListTxType:
		keys, read = accessListTxKeys, decodeAccessListTx
	default:
		keys, read = dynamicFeeTxKeys, decodeDynamicFeeTx
	}
	if err := obj.Allow(append(extra, keys)...); err != nil {
		return nil, err
	}
	return read(obj)
}

func decodeLegacyTx(obj codec.Object) (TransactionMessage, error) {
	tx := new(LegacyTx)
	err := readAll(obj,
		opt("chainId", &tx.ChainID),
		req("nonce", &tx.Nonce),
		opt("to", &tx.To),
		req("gas", &tx.Gas),
		req("gasPrice", &tx.GasPrice),
		req("value", &tx.Value),
		req("input", &tx.Input),
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func decodeAccessListTx(obj codec.Object) (TransactionMessage, error) {
	tx := new(AccessListTx)
	err := readAll(obj,
		req("chainId", &tx.ChainID),
		req("nonce", &tx.Nonce),
		opt("to", &tx.To),
		req("gas", &tx.Gas),
		req("gasPrice", &tx.GasPrice),
		req("value", &tx.Value),
		req("input", &tx.Input),
		req("accessList", &tx.AccessList),
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func decodeDynamicFeeTx(obj codec.Object) (TransactionMessage, error) {
	tx := new(DynamicFeeTx)
	err := readAll(obj,
		req("chainId", &tx.ChainID),
		req("nonce", &tx.Nonce),
		opt("to", &tx.To),
		req("gas", &tx.Gas),
		req("maxFeePerGas", &tx.MaxFeePerGas),
		req("maxPriorityFeePerGas", &tx.MaxPriorityFeePerGas),
		req("value", &tx.Value),
		req("input", &tx.Input),
		req("accessList", &tx.AccessList),
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Transaction is a transaction as returned by the node: the message, its signature and,
// once mined, where it was included. Inclusion fields are nil while pending.
type Transaction struct {
	Message TransactionMessage

	V       hexcodec.U64
	R       hexcodec.U256
	S       hexcodec.U256
	YParity *hexcodec.U64

	From             hexcodec.Address
	Hash             hexcodec.Hash
	TransactionIndex *hexcodec.U64
	BlockNumber      *hexcodec.U64
	BlockHash        *hexcodec.Hash
}

var transactionKeys = codec.Keys("v", "r", "s", "yParity", "from", "hash", "transactionIndex", "blockNumber", "blockHash")

// Pending reports whether the transaction has not been included in a block yet.
func (tx *Transaction) Pending() bool { return tx.BlockHash == nil }

func (tx Transaction) MarshalJSON() ([]byte, error) {
	if tx.Message == nil {
		return nil, errors.New("transaction has no message")
	}
	fields := append(tx.Message.fields(),
		codec.F("v", tx.V),
		codec.F("r", tx.R),
		codec.F("s", tx.S),
		codec.Opt("yParity", tx.YParity),
		codec.F("from", tx.From),
		codec.F("hash", tx.Hash),
		codec.Opt("transactionIndex", tx.TransactionIndex),
		codec.Opt("blockNumber", tx.BlockNumber),
		codec.Opt("blockHash", tx.BlockHash),
	)
	return codec.EncodeObject(fields...)
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	obj, err := codec.ReadObject(data)
	if err != nil {
		return err
	}
	msg, err := decodeMessage(obj, transactionKeys)
	if err != nil {
		return err
	}
	out := Transaction{Message: msg}
	err = readAll(obj,
		req("v", &out.V),
		req("r", &out.R),
		req("s", &out.S),
		opt("yParity", &out.YParity),
		req("from", &out.From),
		req("hash", &out.Hash),
		opt("transactionIndex", &out.TransactionIndex),
		opt("blockNumber", &out.BlockNumber),
		opt("blockHash", &out.BlockHash),
	)
	if err != nil {
		return err
	}
	*tx = out
	return nil
}

// Tx is either a full transaction or only its hash, depending on what the caller asked
// the node for.
type Tx struct {
	Hash        hexcodec.Hash
	Transaction *Transaction
}

// TxHash wraps a bare hash.
func TxHash(h hexcodec.Hash) Tx { return Tx{Hash: h} }

// FullTx wraps a full transaction.
func FullTx(tx *Transaction) Tx { return Tx{Hash: tx.Hash, Transaction: tx} }

// IsFull reports whether the full transaction object is held.
func (t Tx) IsFull() bool { return t.Transaction != nil }

func (t Tx) MarshalJSON() ([]byte, error) {
	if t.Transaction != nil {
		return json.Marshal(t.Transaction)
	}
	return json.Marshal(t.Hash)
}

func (t *Tx) UnmarshalJSON(data []byte) error {
	switch codec.Kind(data) {
	case '"':
		var h hexcodec.Hash
		if err := json.Unmarshal(data, &h); err != nil {
			return err
		}
		*t = TxHash(h)
		return nil
	case '{':
		tx := new(Transaction)
		if err := json.Unmarshal(data, tx); err != nil {
			return err
		}
		*t = FullTx(tx)
		return nil
	default:
		return codec.Errorf(codec.ErrNoMatchingVariant, "Tx: expected hash string or transaction object, got %s", codec.Describe(data))
	}
}
