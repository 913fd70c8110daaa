package rpc

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// FunctionSelector computes the 4-byte selector of a function signature,
// e.g. "balanceOf(address)" -> 0x70a08231.
func FunctionSelector(signature string) [4]byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(signature))
	var sel [4]byte
	copy(sel[:], hasher.Sum(nil))
	return sel
}

// Word is one 32-byte ABI argument slot.
type Word [32]byte

// AddressWord left-pads an address into a slot.
func AddressWord(a hexcodec.Address) Word {
	var w Word
	copy(w[12:], a[:])
	return w
}

// UintWord encodes v big-endian into a slot.
func UintWord(v hexcodec.U256) Word {
	return Word(v.Int().Bytes32())
}

// CallData builds the input of a call to a function with static arguments only.
func CallData(signature string, args ...Word) hexcodec.Bytes {
	sel := FunctionSelector(signature)
	out := make(hexcodec.Bytes, 0, 4+32*len(args))
	out = append(out, sel[:]...)
	for _, w := range args {
		out = append(out, w[:]...)
	}
	return out
}

// BalanceOfCall is the eth_call request for an ERC-20 balanceOf(holder).
func BalanceOfCall(token, holder hexcodec.Address) *LegacyCall {
	data := CallData("balanceOf(address)", AddressWord(holder))
	return &LegacyCall{To: &token, Data: &data}
}

// DecodeWord reads a single static return value as a 256-bit quantity. Return data
// shorter than a word is an error; extra trailing words are ignored.
func DecodeWord(ret hexcodec.Bytes) (hexcodec.U256, error) {
	if len(ret) < 32 {
		return hexcodec.U256{}, fmt.Errorf("return data is %d bytes, want at least 32", len(ret))
	}
	return hexcodec.U256FromBytes(ret[:32]), nil
}
