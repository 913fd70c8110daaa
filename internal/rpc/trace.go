package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// TraceType selects an output of the trace_* replay methods.
type TraceType uint8

const (
	TraceTypeTrace TraceType = iota
	TraceTypeVMTrace
	TraceTypeStateDiff
)

var traceTypeTags = codec.NewTagTable(map[TraceType]string{
	TraceTypeTrace:     "trace",
	TraceTypeVMTrace:   "vmTrace",
	TraceTypeStateDiff: "stateDiff",
})

func (t TraceType) String() string {
	s, ok := traceTypeTags.Tag(t)
	if !ok {
		return fmt.Sprintf("TraceType(%d)", uint8(t))
	}
	return s
}

func (t TraceType) MarshalText() ([]byte, error) {
	s, ok := traceTypeTags.Tag(t)
	if !ok {
		return nil, fmt.Errorf("invalid trace type %d", uint8(t))
	}
	return []byte(s), nil
}

func (t *TraceType) UnmarshalText(b []byte) error {
	v, ok := traceTypeTags.Lookup(string(b))
	if !ok {
		return codec.Errorf(codec.ErrNoMatchingVariant, "TraceType: %q", b)
	}
	*t = v
	return nil
}

// TraceTypes is a set of trace outputs. It keeps first-seen order and drops repeats.
type TraceTypes []TraceType

// NewTraceTypes builds a set from ts.
func NewTraceTypes(ts ...TraceType) TraceTypes {
	var out TraceTypes
	for _, t := range ts {
		if !out.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TraceTypes) Has(t TraceType) bool {
	for _, v := range s {
		if v == t {
			return true
		}
	}
	return false
}

func (s TraceTypes) MarshalJSON() ([]byte, error) {
	set := NewTraceTypes(s...)
	if set == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TraceType(set))
}

func (s *TraceTypes) UnmarshalJSON(data []byte) error {
	var ts []TraceType
	if err := json.Unmarshal(data, &ts); err != nil {
		var de *codec.DecodeError
		if errors.As(err, &de) {
			return err
		}
		return codec.Errorf(codec.ErrMalformedJSON, "trace types: %v", err)
	}
	*s = NewTraceTypes(ts...)
	return nil
}

// TraceFilterMode combines the address filters of trace_filter.
type TraceFilterMode string

const (
	TraceFilterUnion        TraceFilterMode = "union"
	TraceFilterIntersection TraceFilterMode = "intersection"
)

func (m *TraceFilterMode) UnmarshalText(b []byte) error {
	switch v := TraceFilterMode(b); v {
	case TraceFilterUnion, TraceFilterIntersection:
		*m = v
		return nil
	default:
		return codec.Errorf(codec.ErrNoMatchingVariant, "TraceFilterMode: %q", b)
	}
}

// TraceFilter is the argument of trace_filter. Address lists are sets; order is kept
// and repeats are dropped on decode.
type TraceFilter struct {
	FromBlock   *BlockID           `json:"fromBlock,omitempty"`
	ToBlock     *BlockID           `json:"toBlock,omitempty"`
	FromAddress []hexcodec.Address `json:"fromAddress,omitempty"`
	ToAddress   []hexcodec.Address `json:"toAddress,omitempty"`
	After       *uint64            `json:"after,omitempty"`
	Count       *uint64            `json:"count,omitempty"`
	Mode        *TraceFilterMode   `json:"mode,omitempty"`
}

var traceFilterKeys = codec.Keys("fromBlock", "toBlock", "fromAddress", "toAddress", "after", "count", "mode")

func (f *TraceFilter) UnmarshalJSON(data []byte) error {
	type plain TraceFilter
	var out plain
	if err := codec.DecodeStrict(data, &out, traceFilterKeys); err != nil {
		return err
	}
	out.FromAddress = uniqueAddresses(out.FromAddress)
	out.ToAddress = uniqueAddresses(out.ToAddress)
	*f = TraceFilter(out)
	return nil
}

// Matches reports whether a trace from -> to passes the address filters.
func (f *TraceFilter) Matches(from, to hexcodec.Address) bool {
	fromOK := len(f.FromAddress) == 0 || containsAddress(f.FromAddress, from)
	toOK := len(f.ToAddress) == 0 || containsAddress(f.ToAddress, to)
	if f.Mode != nil && *f.Mode == TraceFilterIntersection {
		return fromOK && toOK
	}
	if len(f.FromAddress) == 0 && len(f.ToAddress) == 0 {
		return true
	}
	return (len(f.FromAddress) > 0 && fromOK) || (len(f.ToAddress) > 0 && toOK)
}

func uniqueAddresses(in []hexcodec.Address) []hexcodec.Address {
	if in == nil {
		return nil
	}
	out := make([]hexcodec.Address, 0, len(in))
	for _, a := range in {
		if !containsAddress(out, a) {
			out = append(out, a)
		}
	}
	return out
}

func containsAddress(set []hexcodec.Address, a hexcodec.Address) bool {
	for _, v := range set {
		if v == a {
			return true
		}
	}
	return false
}
