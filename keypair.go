package rsakit

import (
	"math/big"

	"github.com/vaultsandbox/rsakit/internal/crypto"
)

// KeyPair is an RSA key: modulus n, public exponent e and, for private
// keys, private exponent d. The primes and totient used to build it are
// never stored.
//
// A KeyPair is immutable. Accessors return copies, so a KeyPair may be
// shared by any number of goroutines without synchronization.
type KeyPair struct {
	n *big.Int
	e *big.Int
	d *big.Int // nil for public-only keys
}

// NewKeyPair builds a KeyPair from its components. Pass a nil d for a
// public-only key that can encrypt but not decrypt.
//
// The components are range-checked, not proven consistent: NewKeyPair
// cannot tell whether d inverts e without the factors of n. Use
// [ImportKeyPair] for data from untrusted sources.
func NewKeyPair(n, e, d *big.Int) (*KeyPair, error) {
	if n == nil || n.Cmp(big.NewInt(3)) < 0 || n.Bit(0) == 0 {
		return nil, &KeyError{Field: "modulus", Message: "must be an odd integer >= 3"}
	}
	if e == nil || e.Cmp(big.NewInt(3)) < 0 || e.Bit(0) == 0 {
		return nil, &KeyError{Field: "public exponent", Message: "must be odd and >= 3"}
	}
	if d != nil && (d.Sign() <= 0 || d.Cmp(n) >= 0) {
		return nil, &KeyError{Field: "private exponent", Message: "must be in (0, n)"}
	}

	k := &KeyPair{
		n: new(big.Int).Set(n),
		e: new(big.Int).Set(e),
	}
	if d != nil {
		k.d = new(big.Int).Set(d)
	}
	return k, nil
}

// Modulus returns a copy of n.
func (k *KeyPair) Modulus() *big.Int {
	return new(big.Int).Set(k.n)
}

// PublicExponent returns a copy of e.
func (k *KeyPair) PublicExponent() *big.Int {
	return new(big.Int).Set(k.e)
}

// PrivateExponent returns a copy of d, or nil for a public-only key.
func (k *KeyPair) PrivateExponent() *big.Int {
	if k.d == nil {
		return nil
	}
	return new(big.Int).Set(k.d)
}

// HasPrivateExponent reports whether the key can decrypt.
func (k *KeyPair) HasPrivateExponent() bool {
	return k.d != nil
}

// BitLen returns the bit length of the modulus.
func (k *KeyPair) BitLen() int {
	return k.n.BitLen()
}

// Size returns the modulus length in bytes. Messages of Size bytes may
// still be too large; only messages shorter than Size always fit.
func (k *KeyPair) Size() int {
	return (k.n.BitLen() + 7) / 8
}

// Public returns a copy of the key without the private exponent.
func (k *KeyPair) Public() *KeyPair {
	return &KeyPair{
		n: new(big.Int).Set(k.n),
		e: new(big.Int).Set(k.e),
	}
}

// Fingerprint identifies the public half of the key: the BLAKE2b-256 digest
// of (n, e), URL-safe base64 encoded. Public and private copies of the same
// key share a fingerprint.
func (k *KeyPair) Fingerprint() string {
	fp := crypto.Fingerprint(k.n, k.e)
	return crypto.ToBase64URL(fp[:])
}

// Equal reports whether both keys have the same components.
func (k *KeyPair) Equal(other *KeyPair) bool {
	if k == nil || other == nil {
		return k == other
	}
	if k.n.Cmp(other.n) != 0 || k.e.Cmp(other.e) != 0 {
		return false
	}
	if k.d == nil || other.d == nil {
		return k.d == nil && other.d == nil
	}
	return k.d.Cmp(other.d) == 0
}
