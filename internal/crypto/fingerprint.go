package crypto

import (
	"math/big"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns the BLAKE2b-256 digest of the public key (n, e),
// each value length-prefixed with a 4-byte big-endian byte count.
func Fingerprint(n, e *big.Int) [FingerprintSize]byte {
	var buf []byte
	for _, v := range []*big.Int{n, e} {
		b := v.Bytes()
		l := len(b)
		buf = append(buf, byte(l>>24), byte(l>>16), byte(l>>8), byte(l))
		buf = append(buf, b...)
	}
	return blake2b.Sum256(buf)
}
