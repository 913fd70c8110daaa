package rpc

import (
	"encoding/json"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// MaxTopics is the number of indexed topic positions a log can carry.
const MaxTopics = 4

// BlockFilter restricts a log query either to one block by hash or to a range of
// blocks. Exactly one of BlockHash and the range is set.
type BlockFilter struct {
	BlockHash *hexcodec.Hash
	FromBlock *BlockNumber
	ToBlock   *BlockNumber
}

// ExactBlock filters on a single block.
func ExactBlock(h hexcodec.Hash) *BlockFilter { return &BlockFilter{BlockHash: &h} }

// BlockRange filters on an inclusive range. Either bound may be nil.
func BlockRange(from, to *BlockNumber) *BlockFilter {
	return &BlockFilter{FromBlock: from, ToBlock: to}
}

// IsExact reports whether the filter names a single block hash.
func (f *BlockFilter) IsExact() bool { return f.BlockHash != nil }

// AddressFilter matches logs emitted by any of the listed contracts.
type AddressFilter = codec.OneOrMany[hexcodec.Address]

// TopicSlot is one topic position: nil matches anything, otherwise any listed value.
type TopicSlot = *codec.OneOrMany[hexcodec.Hash]

// AnyTopic is the wildcard slot.
var AnyTopic TopicSlot

// OneOf builds a slot matching any of hs.
func OneOf(hs ...hexcodec.Hash) TopicSlot {
	s := codec.OneOrMany[hexcodec.Hash](hs)
	return &s
}

// Topics is the positional topic filter. Matching is AND across positions and OR inside
// a position; the filter itself only carries the structure.
type Topics []TopicSlot

func (t Topics) MarshalJSON() ([]byte, error) {
	if len(t) > MaxTopics {
		return nil, codec.Errorf(codec.ErrTooManySlots, "%d slots, at most %d allowed", len(t), MaxTopics)
	}
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TopicSlot(t))
}

func (t *Topics) UnmarshalJSON(data []byte) error {
	if codec.Kind(data) != '[' {
		return codec.Errorf(codec.ErrMalformedJSON, "topics: expected array, got %s", codec.Describe(data))
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return codec.Errorf(codec.ErrMalformedJSON, "%v", err)
	}
	if len(raws) > MaxTopics {
		return codec.Errorf(codec.ErrTooManySlots, "%d slots, at most %d allowed", len(raws), MaxTopics)
	}
	if len(raws) == 0 {
		*t = nil
		return nil
	}
	out := make(Topics, len(raws))
	for i, raw := range raws {
		if codec.IsNull(raw) {
			continue
		}
		slot := new(codec.OneOrMany[hexcodec.Hash])
		if err := json.Unmarshal(raw, slot); err != nil {
			return codec.WithIndex(err, i)
		}
		out[i] = slot
	}
	*t = out
	return nil
}

// LogFilter is the argument of eth_getLogs and eth_newFilter. The block selection is
// flattened into the same object as address and topics.
type LogFilter struct {
	Block   *BlockFilter
	Address *AddressFilter
	Topics  *Topics
}

var (
	exactBlockKeys   = codec.Keys("blockHash")
	blockRangeKeys   = codec.Keys("fromBlock", "toBlock")
	logFilterOwnKeys = codec.Keys("address", "topics")
)

func (f LogFilter) MarshalJSON() ([]byte, error) {
	var fields []codec.Field
	if b := f.Block; b != nil {
		if b.BlockHash != nil {
			if b.FromBlock != nil || b.ToBlock != nil {
				return nil, codec.Errorf(codec.ErrNoMatchingVariant, "BlockFilter: blockHash together with a block range")
			}
			fields = append(fields, codec.F("blockHash", b.BlockHash))
		} else {
			fields = append(fields, codec.Null("fromBlock", b.FromBlock), codec.Null("toBlock", b.ToBlock))
		}
	}
	fields = append(fields, codec.Null("address", f.Address), codec.Null("topics", f.Topics))
	return codec.EncodeObject(fields...)
}

func (f *LogFilter) UnmarshalJSON(data []byte) error {
	obj, err := codec.ReadObject(data)
	if err != nil {
		return err
	}
	if err := obj.Allow(exactBlockKeys, blockRangeKeys, logFilterOwnKeys); err != nil {
		return err
	}
	var out LogFilter
	exact := obj.Has("blockHash")
	ranged := obj.Has("fromBlock") || obj.Has("toBlock")
	switch {
	case exact && ranged:
		return &codec.DecodeError{Kind: codec.ErrNoMatchingVariant, Detail: "BlockFilter: blockHash together with fromBlock/toBlock"}
	case exact:
		out.Block = new(BlockFilter)
		if err := obj.Required("blockHash", &out.Block.BlockHash); err != nil {
			return err
		}
	case ranged:
		out.Block = new(BlockFilter)
		if err := readAll(obj,
			opt("fromBlock", &out.Block.FromBlock),
			opt("toBlock", &out.Block.ToBlock),
		); err != nil {
			return err
		}
	}
	if err := readAll(obj,
		opt("address", &out.Address),
		opt("topics", &out.Topics),
	); err != nil {
		return err
	}
	*f = out
	return nil
}
