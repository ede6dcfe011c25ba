package rsakit

import (
	"fmt"
	"math/big"
)

// Encrypt encrypts message with the public half of key using textbook RSA:
// the message is read as a big-endian unsigned integer m and the result is
// m^e mod n.
//
// m must be strictly smaller than n; otherwise Encrypt returns
// ErrMessageTooLarge. Messages are never reduced, truncated or split into
// blocks. There is no padding: equal messages give equal ciphertexts, and
// the scheme is malleable.
func Encrypt(message []byte, key *KeyPair) (*big.Int, error) {
	return EncryptInt(new(big.Int).SetBytes(message), key)
}

// EncryptInt encrypts the integer m, which must be in [0, n).
func EncryptInt(m *big.Int, key *KeyPair) (*big.Int, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if m == nil || m.Sign() < 0 {
		return nil, ErrNegativeMessage
	}
	if m.Cmp(key.n) >= 0 {
		return nil, fmt.Errorf("%w: message is %d bits, modulus is %d bits", ErrMessageTooLarge, m.BitLen(), key.n.BitLen())
	}

	return new(big.Int).Exp(m, key.e, key.n), nil
}

// Decrypt decrypts c with the private exponent of key and returns the
// plaintext as minimal big-endian bytes.
//
// Leading zero bytes of the original message are not recoverable from the
// integer and are dropped: Encrypt([]byte{0, 'A'}) decrypts to []byte{'A'},
// and a zero message decrypts to an empty slice. Callers that need the
// original width must record it and use DecryptFixed.
//
// c must be in [0, n); otherwise Decrypt returns ErrMalformedCiphertext.
func Decrypt(c *big.Int, key *KeyPair) ([]byte, error) {
	m, err := DecryptInt(c, key)
	if err != nil {
		return nil, err
	}
	return m.Bytes(), nil
}

// DecryptFixed is like Decrypt but left-pads the plaintext with zeros to
// exactly size bytes. It returns ErrMessageTooLarge if the plaintext does
// not fit in size bytes.
func DecryptFixed(c *big.Int, key *KeyPair, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidBitLength, size)
	}

	m, err := DecryptInt(c, key)
	if err != nil {
		return nil, err
	}
	if m.BitLen() > 8*size {
		return nil, fmt.Errorf("%w: plaintext needs %d bytes, have %d", ErrMessageTooLarge, (m.BitLen()+7)/8, size)
	}

	return m.FillBytes(make([]byte, size)), nil
}

// DecryptInt returns c^d mod n for c in [0, n).
func DecryptInt(c *big.Int, key *KeyPair) (*big.Int, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if key.d == nil {
		return nil, ErrMissingPrivateExponent
	}
	if c == nil || c.Sign() < 0 || c.Cmp(key.n) >= 0 {
		return nil, fmt.Errorf("%w: ciphertext must be in [0, n)", ErrMalformedCiphertext)
	}

	return new(big.Int).Exp(c, key.d, key.n), nil
}

func checkKey(key *KeyPair) error {
	if key == nil || key.n == nil || key.e == nil {
		return &KeyError{Field: "key", Message: "is nil or incomplete"}
	}
	return nil
}
