package rpc

import (
	"encoding/json"

	"github.com/dmagro/ethrpc-types/internal/codec"
	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// SyncStatus is the result of eth_syncing: the literal false when the node is in sync,
// otherwise a progress object. The zero value is NotSyncing.
type SyncStatus struct {
	progress *SyncProgress
}

// SyncProgress reports how far a syncing node has got. The last three fields are
// reported by some clients only. Other progress keys, such as geth's snap-sync
// counters (healedBytecodes, txIndexRemainingBlocks), are accepted and dropped.
type SyncProgress struct {
	HighestBlock  hexcodec.U64
	CurrentBlock  hexcodec.U64
	StartingBlock *hexcodec.U64
	PulledStates  *hexcodec.U64
	KnownStates   *hexcodec.U64
}

// NotSyncing is the status of a node that is caught up.
var NotSyncing = SyncStatus{}

// Syncing returns the status of a node that is still catching up.
func Syncing(highest, current uint64) SyncStatus {
	return SyncStatus{progress: &SyncProgress{HighestBlock: hexcodec.U64(highest), CurrentBlock: hexcodec.U64(current)}}
}

// SyncingWith returns a syncing status with full progress details.
func SyncingWith(p SyncProgress) SyncStatus {
	return SyncStatus{progress: &p}
}

// IsSyncing reports whether the node is still catching up.
func (s SyncStatus) IsSyncing() bool { return s.progress != nil }

// Progress returns the sync progress, or nil when not syncing.
func (s SyncStatus) Progress() *SyncProgress { return s.progress }

// Equal compares by value.
func (s SyncStatus) Equal(o SyncStatus) bool {
	if s.progress == nil || o.progress == nil {
		return s.progress == o.progress
	}
	a, b := s.progress, o.progress
	return a.HighestBlock == b.HighestBlock &&
		a.CurrentBlock == b.CurrentBlock &&
		equalPtr(a.StartingBlock, b.StartingBlock) &&
		equalPtr(a.PulledStates, b.PulledStates) &&
		equalPtr(a.KnownStates, b.KnownStates)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s SyncStatus) MarshalJSON() ([]byte, error) {
	if s.progress == nil {
		return []byte("false"), nil
	}
	p := s.progress
	return codec.EncodeObject(
		codec.Opt("startingBlock", p.StartingBlock),
		codec.F("currentBlock", p.CurrentBlock),
		codec.F("highestBlock", p.HighestBlock),
		codec.Opt("pulledStates", p.PulledStates),
		codec.Opt("knownStates", p.KnownStates),
	)
}

func (s *SyncStatus) UnmarshalJSON(data []byte) error {
	switch codec.Kind(data) {
	case 'f', 't':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return codec.Errorf(codec.ErrMalformedJSON, "%v", err)
		}
		if b {
			return codec.Errorf(codec.ErrInvalidSyncBoolean, "only false is a valid sync status")
		}
		*s = NotSyncing
		return nil
	case '{':
		obj, err := codec.ReadObject(data)
		if err != nil {
			return err
		}
		var p SyncProgress
		if err := obj.Required("highestBlock", &p.HighestBlock); err != nil {
			return err
		}
		if err := obj.Required("currentBlock", &p.CurrentBlock); err != nil {
			return err
		}
		if err := readAll(obj,
			opt("startingBlock", &p.StartingBlock),
			opt("pulledStates", &p.PulledStates),
			opt("knownStates", &p.KnownStates),
		); err != nil {
			return err
		}
		*s = SyncStatus{progress: &p}
		return nil
	default:
		return &codec.DecodeError{Kind: codec.ErrNoMatchingVariant, Detail: "SyncStatus: expected false or object, got " + codec.Describe(data)}
	}
}
