package rpc

import (
	"pgregory.net/rapid"

	"github.com/dmagro/ethrpc-types/internal/hexcodec"
)

// Generators for property tests. Values are normalized the way the decoder produces
// them: empty byte strings and lists are non-nil.

func genAddress() *rapid.Generator[hexcodec.Address] {
	return rapid.Custom(func(t *rapid.T) hexcodec.Address {
		var a hexcodec.Address
		copy(a[:], rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(t, "address"))
		return a
	})
}

func genHash() *rapid.Generator[hexcodec.Hash] {
	return rapid.Custom(func(t *rapid.T) hexcodec.Hash {
		var h hexcodec.Hash
		copy(h[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "hash"))
		return h
	})
}

func genU64() *rapid.Generator[hexcodec.U64] {
	return rapid.Custom(func(t *rapid.T) hexcodec.U64 {
		return hexcodec.U64(rapid.Uint64().Draw(t, "u64"))
	})
}

func genU256() *rapid.Generator[hexcodec.U256] {
	return rapid.Custom(func(t *rapid.T) hexcodec.U256 {
		return hexcodec.U256FromBytes(rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(t, "u256"))
	})
}

func genBytes() *rapid.Generator[hexcodec.Bytes] {
	return rapid.Custom(func(t *rapid.T) hexcodec.Bytes {
		b := rapid.SliceOfN(rapid.Byte(), 0, 48).Draw(t, "bytes")
		return append(hexcodec.Bytes{}, b...)
	})
}

func genAccessList() *rapid.Generator[AccessList] {
	return rapid.Custom(func(t *rapid.T) AccessList {
		n := rapid.IntRange(0, 3).Draw(t, "entries")
		al := make(AccessList, n)
		for i := range al {
			al[i].Address = genAddress().Draw(t, "entry")
			al[i].StorageKeys = append([]hexcodec.Hash{}, rapid.SliceOfN(genHash(), 0, 3).Draw(t, "keys")...)
		}
		return al
	})
}

func genMessageCall() *rapid.Generator[MessageCall] {
	return rapid.Custom(func(t *rapid.T) MessageCall {
		tagged := rapid.Bool().Draw(t, "tagged")
		from := rapid.Ptr(genAddress(), true).Draw(t, "from")
		to := rapid.Ptr(genAddress(), true).Draw(t, "to")
		gas := rapid.Ptr(genU64(), true).Draw(t, "gas")
		value := rapid.Ptr(genU256(), true).Draw(t, "value")
		data := rapid.Ptr(genBytes(), true).Draw(t, "data")

		switch rapid.IntRange(0, 2).Draw(t, "variant") {
		case 0:
			return &LegacyCall{
				Tagged: tagged, From: from, To: to, Gas: gas, Value: value, Data: data,
				GasPrice: rapid.Ptr(genU256(), true).Draw(t, "gasPrice"),
			}
		case 1:
			// Untagged, only the access list tells this shape apart from Legacy.
			al := rapid.Ptr(genAccessList(), tagged).Draw(t, "accessList")
			return &AccessListCall{
				Tagged: tagged, From: from, To: to, Gas: gas, Value: value, Data: data,
				GasPrice:   rapid.Ptr(genU256(), true).Draw(t, "gasPrice"),
				AccessList: al,
			}
		default:
			maxFee := rapid.Ptr(genU256(), tagged).Draw(t, "maxFeePerGas")
			return &DynamicFeeCall{
				Tagged: tagged, From: from, To: to, Gas: gas, Value: value, Data: data,
				MaxFeePerGas:         maxFee,
				MaxPriorityFeePerGas: rapid.Ptr(genU256(), true).Draw(t, "maxPriorityFeePerGas"),
				AccessList:           rapid.Ptr(genAccessList(), true).Draw(t, "accessList"),
			}
		}
	})
}

func genTransactionMessage() *rapid.Generator[TransactionMessage] {
	return rapid.Custom(func(t *rapid.T) TransactionMessage {
		nonce := genU64().Draw(t, "nonce")
		to := rapid.Ptr(genAddress(), true).Draw(t, "to")
		gas := genU64().Draw(t, "gas")
		value := genU256().Draw(t, "value")
		input := genBytes().Draw(t, "input")

		switch rapid.IntRange(0, 2).Draw(t, "variant") {
		case 0:
			return &LegacyTx{
				ChainID: rapid.Ptr(genU64(), true).Draw(t, "chainId"),
				Nonce:   nonce, To: to, Gas: gas, Value: value, Input: input,
				GasPrice: genU256().Draw(t, "gasPrice"),
			}
		case 1:
			return &AccessListTx{
				ChainID: genU64().Draw(t, "chainId"),
				Nonce:   nonce, To: to, Gas: gas, Value: value, Input: input,
				GasPrice:   genU256().Draw(t, "gasPrice"),
				AccessList: genAccessList().Draw(t, "accessList"),
			}
		default:
			return &DynamicFeeTx{
				ChainID: genU64().Draw(t, "chainId"),
				Nonce:   nonce, To: to, Gas: gas, Value: value, Input: input,
				MaxFeePerGas:         genU256().Draw(t, "maxFeePerGas"),
				MaxPriorityFeePerGas: genU256().Draw(t, "maxPriorityFeePerGas"),
				AccessList:           genAccessList().Draw(t, "accessList"),
			}
		}
	})
}
