package hexcodec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/dmagro/ethrpc-types/internal/codec"
)

// U64 is a 64-bit quantity.
type U64 uint64

func (q U64) String() string { return EncodeUint64(uint64(q)) }

func (q U64) MarshalText() ([]byte, error) {
	return []byte(EncodeUint64(uint64(q))), nil
}

func (q *U64) UnmarshalJSON(data []byte) error {
	s, err := jsonString(data)
	if err != nil {
		return err
	}
	v, err := DecodeUint64(s)
	if err != nil {
		return err
	}
	*q = U64(v)
	return nil
}

// U256 is a 256-bit quantity. It is a comparable value type.
type U256 uint256.Int

// NewU256 returns v as a U256.
func NewU256(v uint64) U256 {
	return U256(*uint256.NewInt(v))
}

// U256FromBig converts b, reporting ErrOverflow for negative or oversized values.
func U256FromBig(b *big.Int) (U256, error) {
	if b.Sign() < 0 {
		return U256{}, codec.Errorf(codec.ErrOverflow, "negative value %s", b)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return U256{}, codec.Errorf(codec.ErrOverflow, "%s does not fit in 256 bits", b)
	}
	return U256(*v), nil
}

// U256FromBytes interprets b as a big-endian unsigned integer of at most 32 bytes.
func U256FromBytes(b []byte) U256 {
	return U256(*new(uint256.Int).SetBytes(b))
}

// Int returns a copy as a *uint256.Int.
func (q U256) Int() *uint256.Int {
	v := uint256.Int(q)
	return &v
}

// Big returns the value as a *big.Int.
func (q U256) Big() *big.Int { return q.Int().ToBig() }

func (q U256) IsZero() bool { return q.Int().IsZero() }

func (q U256) String() string { return EncodeU256(q.Int()) }

func (q U256) MarshalText() ([]byte, error) {
	return []byte(EncodeU256(q.Int())), nil
}

func (q *U256) UnmarshalJSON(data []byte) error {
	s, err := jsonString(data)
	if err != nil {
		return err
	}
	v, err := DecodeU256(s)
	if err != nil {
		return err
	}
	*q = U256(*v)
	return nil
}

// Bytes is a variable-length byte string.
type Bytes []byte

func (b Bytes) String() string { return EncodeBytes(b) }

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(EncodeBytes(b)), nil
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	s, err := jsonString(data)
	if err != nil {
		return err
	}
	v, err := DecodeBytes(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Address is a 20-byte account address. It converts freely to common.Address.
type Address common.Address

// ParseAddress decodes a 0x-prefixed 20-byte hex string.
func ParseAddress(s string) (Address, error) {
	var a Address
	err := decodeFixed(a[:], s)
	return a, err
}

// MustAddress is ParseAddress for constants; it panics on bad input.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Common returns the go-ethereum form of a.
func (a Address) Common() common.Address { return common.Address(a) }

func (a Address) String() string { return EncodeBytes(a[:]) }

func (a Address) MarshalText() ([]byte, error) {
	return []byte(EncodeBytes(a[:])), nil
}

func (a *Address) UnmarshalJSON(data []byte) error {
	s, err := jsonString(data)
	if err != nil {
		return err
	}
	return decodeFixed(a[:], s)
}

// Hash is a 32-byte value: block and transaction hashes, storage keys, log topics.
type Hash common.Hash

// ParseHash decodes a 0x-prefixed 32-byte hex string.
func ParseHash(s string) (Hash, error) {
	var h Hash
	err := decodeFixed(h[:], s)
	return h, err
}

// MustHash is ParseHash for constants; it panics on bad input.
func MustHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Common returns the go-ethereum form of h.
func (h Hash) Common() common.Hash { return common.Hash(h) }

func (h Hash) String() string { return EncodeBytes(h[:]) }

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(EncodeBytes(h[:])), nil
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	s, err := jsonString(data)
	if err != nil {
		return err
	}
	return decodeFixed(h[:], s)
}

// Nonce is the 8-byte proof-of-work nonce of a block header.
type Nonce [8]byte

func (n Nonce) String() string { return EncodeBytes(n[:]) }

func (n Nonce) MarshalText() ([]byte, error) {
	return []byte(EncodeBytes(n[:])), nil
}

func (n *Nonce) UnmarshalJSON(data []byte) error {
	s, err := jsonString(data)
	if err != nil {
		return err
	}
	return decodeFixed(n[:], s)
}

// Bloom is the 256-byte log bloom filter.
type Bloom [256]byte

func (b Bloom) MarshalText() ([]byte, error) {
	return []byte(EncodeBytes(b[:])), nil
}

func (b *Bloom) UnmarshalJSON(data []byte) error {
	s, err := jsonString(data)
	if err != nil {
		return err
	}
	return decodeFixed(b[:], s)
}
