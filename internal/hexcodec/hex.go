// Package hexcodec implements the hex conventions of the Ethereum JSON-RPC wire format:
// quantities (minimal lowercase hex, "0x0" for zero) and byte strings (even-length
// lowercase hex, "0x" when empty).
//
// Decoding is lenient where producers in the wild are sloppy: hex digits may be upper
// case and quantities may carry leading zeros. Encoding is always canonical.
package hexcodec

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/dmagro/ethrpc-types/internal/codec"
)

// EncodeUint64 returns the canonical quantity form of v.
func EncodeUint64(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

// DecodeUint64 parses a quantity that must fit in 64 bits.
func DecodeUint64(s string) (uint64, error) {
	digits, err := quantityDigits(s)
	if err != nil {
		return 0, err
	}
	if len(digits) > 16 {
		return 0, codec.Errorf(codec.ErrOverflow, "%s does not fit in 64 bits", s)
	}
	return strconv.ParseUint(digits, 16, 64)
}

// EncodeU256 returns the canonical quantity form of v.
func EncodeU256(v *uint256.Int) string {
	return v.Hex()
}

// DecodeU256 parses a quantity that must fit in 256 bits.
func DecodeU256(s string) (*uint256.Int, error) {
	digits, err := quantityDigits(s)
	if err != nil {
		return nil, err
	}
	if len(digits) > 64 {
		return nil, codec.Errorf(codec.ErrOverflow, "%s does not fit in 256 bits", s)
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, codec.Errorf(codec.ErrMalformedHex, "%v", err)
	}
	return new(uint256.Int).SetBytes(b), nil
}

// EncodeBytes returns the canonical byte string form of b.
func EncodeBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// DecodeBytes parses a byte string of any length.
func DecodeBytes(s string) ([]byte, error) {
	body, err := hexBody(s)
	if err != nil {
		return nil, err
	}
	if len(body)%2 == 1 {
		return nil, codec.Errorf(codec.ErrOddLengthByteString, "%d hex digits", len(body))
	}
	if body == "" {
		return []byte{}, nil
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return nil, codec.Errorf(codec.ErrMalformedHex, "%v", err)
	}
	return b, nil
}

// decodeFixed parses a byte string into dst, which fixes the expected length.
func decodeFixed(dst []byte, s string) error {
	b, err := DecodeBytes(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return codec.Errorf(codec.ErrMalformedHex, "want %d bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

// hexBody strips the prefix and validates the digits.
func hexBody(s string) (string, error) {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return "", codec.Errorf(codec.ErrMalformedHex, "missing 0x prefix in %q", s)
	}
	body := s[2:]
	for i := 0; i < len(body); i++ {
		if !isHexDigit(body[i]) {
			return "", codec.Errorf(codec.ErrMalformedHex, "invalid character %q at offset %d", body[i], i+2)
		}
	}
	return body, nil
}

// quantityDigits returns the significant digits of a quantity; "0" for zero.
func quantityDigits(s string) (string, error) {
	body, err := hexBody(s)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", codec.Errorf(codec.ErrMalformedHex, "empty quantity")
	}
	if trimmed := strings.TrimLeft(body, "0"); trimmed != "" {
		return trimmed, nil
	}
	return "0", nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// jsonString unwraps a JSON string literal. Other JSON kinds are malformed hex.
func jsonString(data []byte) (string, error) {
	if codec.Kind(data) != '"' {
		return "", codec.Errorf(codec.ErrMalformedHex, "expected hex string, got %s", codec.Describe(data))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", codec.Errorf(codec.ErrMalformedJSON, "%v", err)
	}
	return s, nil
}
