package rpc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

var (
	topicA = "0x" + strings.Repeat("aa", 32)
	topicB = "0x" + strings.Repeat("bb", 32)
	topicC = "0x" + strings.Repeat("cc", 32)
)

func TestTopicsDecode(t *testing.T) {
	var topics Topics
	require.NoError(t, json.Unmarshal([]byte(`[null,"`+topicA+`",["`+topicB+`","`+topicC+`"]]`), &topics))
	require.Len(t, topics, 3)

	assert.Nil(t, topics[0], "null is a wildcard")
	require.NotNil(t, topics[1])
	assert.Equal(t, codec.OneOrMany[hexcodec.Hash]{hexcodec.MustHash(topicA)}, *topics[1])
	require.NotNil(t, topics[2])
	assert.Equal(t, codec.OneOrMany[hexcodec.Hash]{hexcodec.MustHash(topicB), hexcodec.MustHash(topicC)}, *topics[2])

	out, err := json.Marshal(topics)
	require.NoError(t, err)
	assert.Equal(t, `[null,"`+topicA+`",["`+topicB+`","`+topicC+`"]]`, string(out))
}

func TestTopicsSlotLimit(t *testing.T) {
	five := `["` + topicA + `",null,null,null,"` + topicB + `"]`
	var topics Topics
	err := json.Unmarshal([]byte(five), &topics)
	assert.ErrorIs(t, err, codec.ErrTooManySlots)

	four := `[null,null,null,"` + topicA + `"]`
	require.NoError(t, json.Unmarshal([]byte(four), &topics))
	assert.Len(t, topics, MaxTopics)

	_, err = json.Marshal(Topics{AnyTopic, AnyTopic, AnyTopic, AnyTopic, AnyTopic})
	assert.ErrorIs(t, err, codec.ErrTooManySlots)
}

func TestTopicsEdgeCases(t *testing.T) {
	var topics Topics
	require.NoError(t, json.Unmarshal([]byte(`[]`), &topics))
	assert.Nil(t, topics)

	out, err := json.Marshal(Topics(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(out))

	assert.ErrorIs(t, json.Unmarshal([]byte(`"`+topicA+`"`), &topics), codec.ErrMalformedJSON)

	err = json.Unmarshal([]byte(`[null,["`+topicA+`","0x01"]]`), &topics)
	require.ErrorIs(t, err, codec.ErrMalformedHex)
	assert.Equal(t, "[1][1]", codec.PathOf(err))

	out, err = json.Marshal(Topics{AnyTopic, OneOf(hexcodec.MustHash(topicA))})
	require.NoError(t, err)
	assert.Equal(t, `[null,"`+topicA+`"]`, string(out))
}

func TestAddressFilter(t *testing.T) {
	var f LogFilter
	require.NoError(t, json.Unmarshal([]byte(`{"address":"`+testTo+`"}`), &f))
	require.NotNil(t, f.Address)
	assert.Equal(t, AddressFilter{hexcodec.MustAddress(testTo)}, *f.Address)

	require.NoError(t, json.Unmarshal([]byte(`{"address":["`+testTo+`","`+testFrom+`"]}`), &f))
	require.NotNil(t, f.Address)
	assert.Len(t, *f.Address, 2)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"address":["`+testTo+`","`+testFrom+`"],"topics":null}`, string(out))
}

func TestLogFilterDecode(t *testing.T) {
	var f LogFilter
	require.NoError(t, json.Unmarshal([]byte(`{"fromBlock":"0x10","toBlock":"latest","topics":[null,"`+topicA+`"]}`), &f))
	require.NotNil(t, f.Block)
	assert.False(t, f.Block.IsExact())
	assert.Equal(t, BlockNumber(16), *f.Block.FromBlock)
	assert.Equal(t, LatestBlockNumber, *f.Block.ToBlock)
	require.NotNil(t, f.Topics)
	assert.Len(t, *f.Topics, 2)
	assert.Nil(t, f.Address)

	require.NoError(t, json.Unmarshal([]byte(`{"blockHash":"`+testBlockHash+`"}`), &f))
	require.NotNil(t, f.Block)
	assert.True(t, f.Block.IsExact())
	assert.Equal(t, hexcodec.MustHash(testBlockHash), *f.Block.BlockHash)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &f))
	assert.Nil(t, f.Block)
}

func TestLogFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind error
		path string
	}{
		{name: "hash_and_range", in: `{"blockHash":"` + testBlockHash + `","fromBlock":"0x1"}`, kind: codec.ErrNoMatchingVariant},
		{name: "unknown_key", in: `{"limit":10}`, kind: codec.ErrUnknownField, path: "limit"},
		{name: "too_many_topics", in: `{"topics":[null,null,null,null,null]}`, kind: codec.ErrTooManySlots, path: "topics"},
		{name: "bad_address", in: `{"address":["` + testTo + `","0x12"]}`, kind: codec.ErrMalformedHex, path: "address[1]"},
		{name: "bad_block", in: `{"fromBlock":"newest"}`, kind: codec.ErrMalformedHex, path: "fromBlock"},
		{name: "null_block_hash", in: `{"blockHash":null}`, kind: codec.ErrMissingField, path: "blockHash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f LogFilter
			err := json.Unmarshal([]byte(tt.in), &f)
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.path, codec.PathOf(err))
		})
	}
}

func TestLogFilterEncode(t *testing.T) {
	from := BlockNumber(1)
	f := LogFilter{
		Block:  BlockRange(&from, nil),
		Topics: &Topics{OneOf(hexcodec.MustHash(topicA))},
	}
	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"fromBlock":"0x1","toBlock":null,"address":null,"topics":["`+topicA+`"]}`, string(out))

	var got LogFilter
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, f, got)

	f = LogFilter{Block: ExactBlock(hexcodec.MustHash(testBlockHash))}
	out, err = json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"blockHash":"`+testBlockHash+`","address":null,"topics":null}`, string(out))

	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, f, got)

	bad := LogFilter{Block: &BlockFilter{BlockHash: f.Block.BlockHash, FromBlock: &from}}
	_, err = json.Marshal(bad)
	assert.ErrorIs(t, err, codec.ErrNoMatchingVariant)
}
