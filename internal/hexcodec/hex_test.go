package hexcodec

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dmagro/ethrpc-types/internal/codec"
)

func TestEncodeUint64(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0x0"},
		{1, "0x1"},
		{255, "0xff"},
		{256, "0x100"},
		{^uint64(0), "0xffffffffffffffff"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeUint64(tt.in))
	}
}

func TestDecodeUint64(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr error
	}{
		{name: "zero", in: "0x0", want: 0},
		{name: "padded_zero", in: "0x00", want: 0},
		{name: "leading_zeros", in: "0x000abc", want: 0xabc},
		{name: "upper_case", in: "0xABC", want: 0xabc},
		{name: "upper_prefix", in: "0X1f", want: 0x1f},
		{name: "max", in: "0xffffffffffffffff", want: ^uint64(0)},
		{name: "padded_max", in: "0x0000ffffffffffffffff", want: ^uint64(0)},
		{name: "overflow", in: "0x10000000000000000", wantErr: codec.ErrOverflow},
		{name: "no_prefix", in: "ff", wantErr: codec.ErrMalformedHex},
		{name: "empty_body", in: "0x", wantErr: codec.ErrMalformedHex},
		{name: "bad_digit", in: "0xfg", wantErr: codec.ErrMalformedHex},
		{name: "empty", in: "", wantErr: codec.ErrMalformedHex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUint64(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeU256(t *testing.T) {
	maxHex := "0x" + strings.Repeat("f", 64)

	v, err := DecodeU256(maxHex)
	require.NoError(t, err)
	assert.Equal(t, maxHex, EncodeU256(v))

	v, err = DecodeU256("0x00000001")
	require.NoError(t, err)
	assert.Equal(t, "0x1", EncodeU256(v))

	v, err = DecodeU256("0xabc")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xabc), v.Uint64())

	_, err = DecodeU256("0x1" + strings.Repeat("0", 64))
	assert.ErrorIs(t, err, codec.ErrOverflow)

	_, err = DecodeU256("0x" + strings.Repeat("0", 70) + "1")
	assert.NoError(t, err, "leading zeros do not count toward the width")
}

func TestDecodeBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr error
	}{
		{name: "empty", in: "0x", want: []byte{}},
		{name: "one_byte", in: "0x0f", want: []byte{0x0f}},
		{name: "upper_case", in: "0xDEADBEEF", want: []byte{0xde, 0xad, 0xbe, 0xef}},
		{name: "odd_length", in: "0xabc", wantErr: codec.ErrOddLengthByteString},
		{name: "no_prefix", in: "abcd", wantErr: codec.ErrMalformedHex},
		{name: "bad_digit", in: "0xzz", wantErr: codec.ErrMalformedHex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBytes(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeBytes(t *testing.T) {
	assert.Equal(t, "0x", EncodeBytes(nil))
	assert.Equal(t, "0x", EncodeBytes([]byte{}))
	assert.Equal(t, "0x00ff", EncodeBytes([]byte{0x00, 0xff}))
}

func TestQuantityRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		s := EncodeUint64(v)
		got, err := DecodeUint64(s)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		if v != 0 {
			assert.NotEqual(t, byte('0'), s[2], "no leading zero in %s", s)
		}
	})
}

func TestQuantityEncodingInjective(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint64().Draw(t, "a")
		b := rapid.Uint64().Draw(t, "b")
		if a != b {
			assert.NotEqual(t, EncodeUint64(a), EncodeUint64(b))
		}
	})
}

func TestQuantityLeadingZerosDecodeSame(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		pad := rapid.IntRange(0, 8).Draw(t, "pad")
		s := "0x" + strings.Repeat("0", pad) + EncodeUint64(v)[2:]
		got, err := DecodeUint64(s)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})
}

func TestU256RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(t, "bytes")
		v := new(uint256.Int).SetBytes(b)
		got, err := DecodeU256(EncodeU256(v))
		require.NoError(t, err)
		assert.True(t, v.Eq(got))
	})
}

func TestBytesRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := rapid.SliceOf(rapid.Byte()).Draw(t, "bytes")
		s := EncodeBytes(b)
		assert.Equal(t, 0, len(s)%2, "even number of characters in %s", s)
		got, err := DecodeBytes(s)
		require.NoError(t, err)
		assert.Equal(t, len(b), len(got))
		if len(b) > 0 {
			assert.Equal(t, b, got)
		}
	})
}

func TestU256FromBig(t *testing.T) {
	v, err := U256FromBig(big.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, "0xf4240", v.String())

	_, err = U256FromBig(big.NewInt(-1))
	assert.ErrorIs(t, err, codec.ErrOverflow)

	_, err = U256FromBig(new(big.Int).Lsh(big.NewInt(1), 256))
	assert.ErrorIs(t, err, codec.ErrOverflow)
}

func TestJSONStringRequired(t *testing.T) {
	var q U64
	err := json.Unmarshal([]byte(`16`), &q)
	assert.ErrorIs(t, err, codec.ErrMalformedHex)

	var b Bytes
	err = json.Unmarshal([]byte(`true`), &b)
	assert.ErrorIs(t, err, codec.ErrMalformedHex)
}
