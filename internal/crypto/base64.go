package crypto

import (
	"encoding/base64"
	"math/big"
)

// ToBase64URL encodes bytes to URL-safe base64 without padding.
func ToBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// FromBase64URL decodes URL-safe base64 without padding.
func FromBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// IntToBase64URL encodes the minimal big-endian bytes of a non-negative x.
// Zero encodes as the empty string.
func IntToBase64URL(x *big.Int) string {
	return ToBase64URL(x.Bytes())
}

// IntFromBase64URL decodes a value produced by IntToBase64URL.
func IntFromBase64URL(s string) (*big.Int, error) {
	b, err := FromBase64URL(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
