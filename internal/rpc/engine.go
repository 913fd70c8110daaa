package rpc

import (
	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// ExecutionPayload is the execution block exchanged with the consensus layer.
type ExecutionPayload struct {
	ParentHash    hexcodec.Hash    `json:"parentHash"`
	FeeRecipient  hexcodec.Address `json:"feeRecipient"`
	StateRoot     hexcodec.Hash    `json:"stateRoot"`
	ReceiptsRoot  hexcodec.Hash    `json:"receiptsRoot"`
	LogsBloom     hexcodec.Bloom   `json:"logsBloom"`
	PrevRandao    hexcodec.Hash    `json:"prevRandao"`
	BlockNumber   hexcodec.U64     `json:"blockNumber"`
	GasLimit      hexcodec.U64     `json:"gasLimit"`
	GasUsed       hexcodec.U64     `json:"gasUsed"`
	Timestamp     hexcodec.U64     `json:"timestamp"`
	ExtraData     hexcodec.Bytes   `json:"extraData"`
	BaseFeePerGas hexcodec.U256    `json:"baseFeePerGas"`
	BlockHash     hexcodec.Hash    `json:"blockHash"`
	Transactions  []hexcodec.Bytes `json:"transactions"`
}

func (p *ExecutionPayload) UnmarshalJSON(data []byte) error { return decodeResponse(data, p) }

type ForkchoiceState struct {
	HeadBlockHash      hexcodec.Hash `json:"headBlockHash"`
	SafeBlockHash      hexcodec.Hash `json:"safeBlockHash"`
	FinalizedBlockHash hexcodec.Hash `json:"finalizedBlockHash"`
}

func (s *ForkchoiceState) UnmarshalJSON(data []byte) error { return decodeResponse(data, s) }

type PayloadAttributes struct {
	Timestamp             hexcodec.U64     `json:"timestamp"`
	PrevRandao            hexcodec.Hash    `json:"prevRandao"`
	SuggestedFeeRecipient hexcodec.Address `json:"suggestedFeeRecipient"`
}

func (a *PayloadAttributes) UnmarshalJSON(data []byte) error { return decodeResponse(data, a) }

// PayloadValidity is the status tag of a PayloadStatus.
type PayloadValidity uint8

const (
	PayloadValid PayloadValidity = iota
	PayloadInvalid
	PayloadSyncing
	PayloadAccepted
	PayloadInvalidBlockHash
)

var payloadValidityTags = codec.NewTagTable(map[PayloadValidity]string{
	PayloadValid:            "VALID",
	PayloadInvalid:          "INVALID",
	PayloadSyncing:          "SYNCING",
	PayloadAccepted:         "ACCEPTED",
	PayloadInvalidBlockHash: "INVALID_BLOCK_HASH",
})

func (v PayloadValidity) String() string {
	s, _ := payloadValidityTags.Tag(v)
	return s
}

// HasValidationError reports whether statuses of this kind carry a validationError.
func (v PayloadValidity) HasValidationError() bool {
	return v == PayloadInvalid || v == PayloadInvalidBlockHash
}

// PayloadStatus is the verdict on a payload. ValidationError is set exactly for the
// INVALID and INVALID_BLOCK_HASH statuses.
type PayloadStatus struct {
	Status          PayloadValidity
	ValidationError string
	LatestValidHash *hexcodec.Hash
}

var (
	payloadStatusKeys        = codec.Keys("status", "validationError", "latestValidHash")
	payloadStatusNoErrorKeys = codec.Keys("status", "latestValidHash")
)

func (p PayloadStatus) MarshalJSON() ([]byte, error) {
	s, ok := payloadValidityTags.Tag(p.Status)
	if !ok {
		return nil, codec.Errorf(codec.ErrNoMatchingVariant, "PayloadStatus: status %d", p.Status)
	}
	return codec.EncodeObject(
		codec.F("status", s),
		codec.Field{Key: "validationError", Value: p.ValidationError, Omit: !p.Status.HasValidationError()},
		codec.Null("latestValidHash", p.LatestValidHash),
	)
}

func (p *PayloadStatus) UnmarshalJSON(data []byte) error {
	obj, err := codec.ReadObject(data)
	if err != nil {
		return err
	}
	var tag string
	if err := obj.Required("status", &tag); err != nil {
		return err
	}
	status, ok := payloadValidityTags.Lookup(tag)
	if !ok {
		return &codec.DecodeError{Kind: codec.ErrNoMatchingVariant, Path: "status", Detail: "PayloadStatus: " + tag}
	}
	legal := payloadStatusKeys
	if !status.HasValidationError() {
		legal = payloadStatusNoErrorKeys
	}
	if err := obj.Allow(legal); err != nil {
		return err
	}
	out := PayloadStatus{Status: status}
	if status.HasValidationError() {
		if err := obj.Required("validationError", &out.ValidationError); err != nil {
			return err
		}
	}
	if err := readAll(obj, opt("latestValidHash", &out.LatestValidHash)); err != nil {
		return err
	}
	*p = out
	return nil
}

type ForkchoiceUpdatedResponse struct {
	PayloadStatus PayloadStatus   `json:"payloadStatus"`
	PayloadID     *hexcodec.Nonce `json:"payloadId"`
}

func (r *ForkchoiceUpdatedResponse) UnmarshalJSON(data []byte) error { return decodeResponse(data, r) }

type TransitionConfiguration struct {
	TerminalTotalDifficulty hexcodec.U256 `json:"terminalTotalDifficulty"`
	TerminalBlockHash       hexcodec.Hash `json:"terminalBlockHash"`
	TerminalBlockNumber     BlockNumber   `json:"terminalBlockNumber"`
}

func (c *TransitionConfiguration) UnmarshalJSON(data []byte) error { return decodeResponse(data, c) }

