package rpc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// BlockNumber is a block height or one of the named positions of the chain. Named
// positions use negative values so that every height stays representable.
type BlockNumber int64

const (
	EarliestBlockNumber  = BlockNumber(-5)
	SafeBlockNumber      = BlockNumber(-4)
	FinalizedBlockNumber = BlockNumber(-3)
	LatestBlockNumber    = BlockNumber(-2)
	PendingBlockNumber   = BlockNumber(-1)
)

var blockTags = codec.NewTagTable(map[BlockNumber]string{
	EarliestBlockNumber:  "earliest",
	SafeBlockNumber:      "safe",
	FinalizedBlockNumber: "finalized",
	LatestBlockNumber:    "latest",
	PendingBlockNumber:   "pending",
})

// Height returns the block height and whether n is a height rather than a tag.
func (n BlockNumber) Height() (uint64, bool) {
	if n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// IsTag reports whether n is a named position.
func (n BlockNumber) IsTag() bool { return n < 0 }

func (n BlockNumber) String() string {
	if s, ok := blockTags.Tag(n); ok {
		return s
	}
	return hexcodec.EncodeUint64(uint64(n))
}

func (n BlockNumber) MarshalText() ([]byte, error) {
	if n < 0 && !blockTags.Contains(n) {
		return nil, fmt.Errorf("invalid block number %d", int64(n))
	}
	return []byte(n.String()), nil
}

// ParseBlockNumber parses a tag or a quantity.
func ParseBlockNumber(s string) (BlockNumber, error) {
	if n, ok := blockTags.Lookup(strings.ToLower(s)); ok {
		return n, nil
	}
	v, err := hexcodec.DecodeUint64(s)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt64 {
		return 0, codec.Errorf(codec.ErrOverflow, "block number %s", s)
	}
	return BlockNumber(v), nil
}

func (n *BlockNumber) UnmarshalJSON(data []byte) error {
	if codec.Kind(data) != '"' {
		return codec.Errorf(codec.ErrMalformedHex, "block number: expected string, got %s", codec.Describe(data))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return codec.Errorf(codec.ErrMalformedJSON, "%v", err)
	}
	v, err := ParseBlockNumber(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// BlockID selects a block by number, tag or hash.
type BlockID struct {
	Number *BlockNumber
	Hash   *hexcodec.Hash
}

// BlockByNumber selects by height or tag.
func BlockByNumber(n BlockNumber) BlockID { return BlockID{Number: &n} }

// BlockByHash selects by hash.
func BlockByHash(h hexcodec.Hash) BlockID { return BlockID{Hash: &h} }

func (id BlockID) String() string {
	switch {
	case id.Hash != nil:
		return id.Hash.String()
	case id.Number != nil:
		return id.Number.String()
	default:
		return LatestBlockNumber.String()
	}
}

func (id BlockID) MarshalJSON() ([]byte, error) {
	if id.Hash != nil && id.Number != nil {
		return nil, codec.Errorf(codec.ErrNoMatchingVariant, "BlockID: both number and hash set")
	}
	if id.Number != nil {
		b, err := id.Number.MarshalText()
		if err != nil {
			return nil, err
		}
		return json.Marshal(string(b))
	}
	return json.Marshal(id.String())
}

var blockIDObjectKeys = codec.Keys("blockNumber", "blockHash", "requireCanonical")

// UnmarshalJSON accepts a tag, a quantity, a 32-byte hash, or the object form
// {"blockNumber": ...} / {"blockHash": ...}.
func (id *BlockID) UnmarshalJSON(data []byte) error {
	switch codec.Kind(data) {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return codec.Errorf(codec.ErrMalformedJSON, "%v", err)
		}
		if len(s) == 2+2*len(hexcodec.Hash{}) {
			h, err := hexcodec.ParseHash(s)
			if err != nil {
				return err
			}
			*id = BlockByHash(h)
			return nil
		}
		n, err := ParseBlockNumber(s)
		if err != nil {
			return err
		}
		*id = BlockByNumber(n)
		return nil
	case '{':
		obj, err := codec.ReadObject(data)
		if err != nil {
			return err
		}
		if err := obj.Allow(blockIDObjectKeys); err != nil {
			return err
		}
		var out BlockID
		if err := readAll(obj,
			opt("blockNumber", &out.Number),
			opt("blockHash", &out.Hash),
		); err != nil {
			return err
		}
		if (out.Number == nil) == (out.Hash == nil) {
			return &codec.DecodeError{Kind: codec.ErrNoMatchingVariant, Detail: "BlockID: exactly one of blockNumber and blockHash is required"}
		}
		*id = out
		return nil
	default:
		return &codec.DecodeError{Kind: codec.ErrNoMatchingVariant, Detail: "BlockID: got " + codec.Describe(data)}
	}
}

// Header holds the consensus fields of a block. Number, Hash and Nonce are nil for a
// pending block.
type Header struct {
	Number           *hexcodec.U64    `json:"number"`
	Hash             *hexcodec.Hash   `json:"hash"`
	ParentHash       hexcodec.Hash    `json:"parentHash"`
	Nonce            *hexcodec.Nonce  `json:"nonce"`
	Sha3Uncles       hexcodec.Hash    `json:"sha3Uncles"`
	LogsBloom        hexcodec.Bloom   `json:"logsBloom"`
	TransactionsRoot hexcodec.Hash    `json:"transactionsRoot"`
	StateRoot        hexcodec.Hash    `json:"stateRoot"`
	ReceiptsRoot     hexcodec.Hash    `json:"receiptsRoot"`
	Miner            hexcodec.Address `json:"miner"`
	Difficulty       hexcodec.U256    `json:"difficulty"`
	ExtraData        hexcodec.Bytes   `json:"extraData"`
	GasLimit         hexcodec.U64     `json:"gasLimit"`
	GasUsed          hexcodec.U64     `json:"gasUsed"`
	Timestamp        hexcodec.U64     `json:"timestamp"`
	MixHash          *hexcodec.Hash   `json:"mixHash,omitempty"`
	BaseFeePerGas    *hexcodec.U256   `json:"baseFeePerGas,omitempty"`
	WithdrawalsRoot  *hexcodec.Hash   `json:"withdrawalsRoot,omitempty"`
}

func (h *Header) UnmarshalJSON(data []byte) error { return decodeResponse(data, h) }

// Block is a header with its body. Transactions hold either hashes or full objects,
// as requested.
type Block struct {
	Header
	TotalDifficulty *hexcodec.U256  `json:"totalDifficulty,omitempty"`
	Size            hexcodec.U64    `json:"size"`
	Transactions    []Tx            `json:"transactions"`
	Uncles          []hexcodec.Hash `json:"uncles"`
}

func (b *Block) UnmarshalJSON(data []byte) error { return decodeResponse(data, b) }

// Pending reports whether the block has not been sealed yet.
func (b *Block) Pending() bool { return b.Hash == nil }

// FullTransactions reports whether the block carries transaction objects. An empty
// block reports false.
func (b *Block) FullTransactions() bool {
	return len(b.Transactions) > 0 && b.Transactions[0].IsFull()
}

// ParseBlockArg reads a block argument as typed by a user: a tag, a 0x quantity or a
// decimal height. Empty input means latest.
func ParseBlockArg(arg string) (BlockNumber, error) {
	arg = strings.TrimSpace(strings.ToLower(arg))
	if arg == "" {
		return LatestBlockNumber, nil
	}
	if strings.HasPrefix(arg, "0x") {
		return ParseBlockNumber(arg)
	}
	if n, ok := blockTags.Lookup(arg); ok {
		return n, nil
	}
	v, err := strconv.ParseUint(arg, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid block %q: want a tag, a 0x quantity or a decimal number", arg)
	}
	return BlockNumber(v), nil
}
