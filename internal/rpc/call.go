package rpc

import (
	"errors"
	"fmt"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// MessageCall is the request object of eth_call, eth_estimateGas and trace_call; one of
// *LegacyCall, *AccessListCall or *DynamicFeeCall.
//
// Every field is optional and the type tag may be left out, so the variant is recovered
// from which keys are present. Tagged records whether a tag was on the wire; it is
// written back only in that case.
type MessageCall interface {
	Type() TxType
	IsTagged() bool
	fields() []codec.Field
}

// LegacyCall is a call priced with a single gas price.
type LegacyCall struct {
	Tagged   bool
	From     *hexcodec.Address
	To       *hexcodec.Address
	Gas      *hexcodec.U64
	GasPrice *hexcodec.U256
	Value    *hexcodec.U256
	Data     *hexcodec.Bytes
}

// AccessListCall is a legacy-priced call carrying an access list.
type AccessListCall struct {
	Tagged     bool
	From       *hexcodec.Address
	To         *hexcodec.Address
	Gas        *hexcodec.U64
	GasPrice   *hexcodec.U256
	Value      *hexcodec.U256
	Data       *hexcodec.Bytes
	AccessList *AccessList
}

// DynamicFeeCall is a call priced with a fee cap and a priority fee.
type DynamicFeeCall struct {
	Tagged               bool
	From                 *hexcodec.Address
	To                   *hexcodec.Address
	Gas                  *hexcodec.U64
	MaxFeePerGas         *hexcodec.U256
	MaxPriorityFeePerGas *hexcodec.U256
	Value                *hexcodec.U256
	Data                 *hexcodec.Bytes
	AccessList           *AccessList
}

func (*LegacyCall) Type() TxType     { return LegacyTxType }
func (*AccessListCall) Type() TxType { return AccessListTxType }
func (*DynamicFeeCall) Type() TxType { return DynamicFeeTxType }

func (c *LegacyCall) IsTagged() bool     { return c.Tagged }
func (c *AccessListCall) IsTagged() bool { return c.Tagged }
func (c *DynamicFeeCall) IsTagged() bool { return c.Tagged }

func callTag(c MessageCall) codec.Field {
	return codec.Field{Key: "type", Value: tag(callTypeTags, c.Type()), Omit: !c.IsTagged()}
}

func (c *LegacyCall) fields() []codec.Field {
	return []codec.Field{
		callTag(c),
		codec.Opt("from", c.From),
		codec.Opt("to", c.To),
		codec.Opt("gas", c.Gas),
		codec.Opt("gasPrice", c.GasPrice),
		codec.Opt("value", c.Value),
		codec.Opt("data", c.Data),
	}
}

func (c *AccessListCall) fields() []codec.Field {
	return []codec.Field{
		callTag(c),
		codec.Opt("from", c.From),
		codec.Opt("to", c.To),
		codec.Opt("gas", c.Gas),
		codec.Opt("gasPrice", c.GasPrice),
		codec.Opt("value", c.Value),
		codec.Opt("data", c.Data),
		codec.Opt("accessList", c.AccessList),
	}
}

func (c *DynamicFeeCall) fields() []codec.Field {
	return []codec.Field{
		callTag(c),
		codec.Opt("from", c.From),
		codec.Opt("to", c.To),
		codec.Opt("gas", c.Gas),
		codec.Opt("maxFeePerGas", c.MaxFeePerGas),
		codec.Opt("maxPriorityFeePerGas", c.MaxPriorityFeePerGas),
		codec.Opt("value", c.Value),
		codec.Opt("data", c.Data),
		codec.Opt("accessList", c.AccessList),
	}
}

// callCandidates is the trial order of the MessageCall union. No entry's key set may be
// a subset of an earlier entry's, or it could never be chosen; init enforces this.
var callCandidates = []codec.Candidate[MessageCall]{
	{
		Name: "Legacy",
		Tag:  tag(callTypeTags, LegacyTxType),
		Keys: codec.Keys("type", "from", "to", "gas", "gasPrice", "value", "data"),
		Decode: func(obj codec.Object) (MessageCall, error) {
			c := new(LegacyCall)
			return c, readCall(obj, &c.Tagged,
				opt("from", &c.From),
				opt("to", &c.To),
				opt("gas", &c.Gas),
				opt("gasPrice", &c.GasPrice),
				opt("value", &c.Value),
				opt("data", &c.Data),
			)
		},
	},
	{
		Name: "EIP2930",
		Tag:  tag(callTypeTags, AccessListTxType),
		Keys: codec.Keys("type", "from", "to", "gas", "gasPrice", "value", "data", "accessList"),
		Decode: func(obj codec.Object) (MessageCall, error) {
			c := new(AccessListCall)
			return c, readCall(obj, &c.Tagged,
				opt("from", &c.From),
				opt("to", &c.To),
				opt("gas", &c.Gas),
				opt("gasPrice", &c.GasPrice),
				opt("value", &c.Value),
				opt("data", &c.Data),
				opt("accessList", &c.AccessList),
			)
		},
	},
	{
		Name: "EIP1559",
		Tag:  tag(callTypeTags, DynamicFeeTxType),
		Keys: codec.Keys("type", "from", "to", "gas", "maxFeePerGas", "maxPriorityFeePerGas", "value", "data", "accessList"),
		Decode: func(obj codec.Object) (MessageCall, error) {
			c := new(DynamicFeeCall)
			return c, readCall(obj, &c.Tagged,
				opt("from", &c.From),
				opt("to", &c.To),
				opt("gas", &c.Gas),
				opt("maxFeePerGas", &c.MaxFeePerGas),
				opt("maxPriorityFeePerGas", &c.MaxPriorityFeePerGas),
				opt("value", &c.Value),
				opt("data", &c.Data),
				opt("accessList", &c.AccessList),
			)
		},
	},
}

func init() {
	if err := codec.CheckReachable(callCandidates...); err != nil {
		panic(fmt.Sprintf("rpc: MessageCall candidates: %v", err))
	}
}

type fieldReader func(codec.Object) error

// opt reads an optional key into *dst, allocating it only when a value is present.
func opt[T any](key string, dst **T) fieldReader {
	return func(obj codec.Object) error {
		v := new(T)
		ok, err := obj.Optional(key, v)
		if err != nil {
			return err
		}
		if ok {
			*dst = v
		}
		return nil
	}
}

// req reads a required key into *dst.
func req[T any](key string, dst *T) fieldReader {
	return func(obj codec.Object) error {
		return obj.Required(key, dst)
	}
}

// readAll runs readers in order and stops at the first failure.
func readAll(obj codec.Object, readers ...fieldReader) error {
	for _, read := range readers {
		if err := read(obj); err != nil {
			return err
		}
	}
	return nil
}

// readCall records whether the accepted candidate carried a tag and reads its fields.
// The tag itself was matched against the candidate before it was chosen.
func readCall(obj codec.Object, tagged *bool, readers ...fieldReader) error {
	if raw, ok := obj["type"]; ok && !codec.IsNull(raw) {
		*tagged = true
	}
	return readAll(obj, readers...)
}

// DecodeMessageCall reads a call request object.
//
// Without a tag the first variant whose keys fit is chosen (Legacy, then EIP2930, then
// EIP1559). With a tag the first fitting variant of that type is chosen, so a tagged
// access-list call without an access list still decodes as one. A tag that names none
// of the fitting variants fails with UnknownTransactionType; it is never ignored.
func DecodeMessageCall(data []byte) (MessageCall, error) {
	obj, err := codec.ReadObject(data)
	if err != nil {
		return nil, err
	}

	raw, ok := obj["type"]
	if !ok || codec.IsNull(raw) {
		return codec.FirstMatch("MessageCall", obj, callCandidates...)
	}
	if _, err := codec.Fitting("MessageCall", obj, callCandidates...); err != nil {
		return nil, err
	}
	t, err := parseTag(callTypeTags, raw)
	if err != nil {
		return nil, err
	}
	c, err := codec.FirstTagged("MessageCall", obj, tag(callTypeTags, t), callCandidates...)
	if errors.Is(err, codec.ErrTagMismatch) {
		return nil, &codec.DecodeError{Kind: codec.ErrUnknownTransactionType, Path: "type", Detail: err.Error()}
	}
	return c, err
}

// EncodeMessageCall writes c, with its tag only if c is tagged.
func EncodeMessageCall(c MessageCall) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil message call")
	}
	return codec.EncodeObject(c.fields()...)
}

// CallArgs carries a MessageCall through encoding/json, e.g. as a request parameter or a
// field of a larger object.
type CallArgs struct {
	MessageCall
}

func (a CallArgs) MarshalJSON() ([]byte, error) {
	return EncodeMessageCall(a.MessageCall)
}

func (a *CallArgs) UnmarshalJSON(data []byte) error {
	c, err := DecodeMessageCall(data)
	if err != nil {
		return err
	}
	a.MessageCall = c
	return nil
}

// NewCallArgs wraps c for use as a JSON value.
func NewCallArgs(c MessageCall) CallArgs { return CallArgs{MessageCall: c} }
