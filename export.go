package rsakit

import (
	"fmt"
	"math/big"
	"time"

	"github.com/vaultsandbox/rsakit/internal/crypto"
)

// ExportVersion is the current export format version.
const ExportVersion = 1

// ExportedKeyPair is the portable form of a KeyPair.
// WARNING: unless exported with ExportPublic, this contains the private
// exponent - handle securely.
//
// Integers are URL-safe base64 (no padding) of their minimal big-endian
// bytes, so the encoded length is the integer's byte length.
type ExportedKeyPair struct {
	// Version is the export format version. MUST be 1.
	Version int `json:"version"`
	// Bits is the modulus bit length. Informational, checked on import.
	Bits int `json:"bits"`
	// Modulus is n.
	Modulus string `json:"n"`
	// PublicExponent is e.
	PublicExponent string `json:"e"`
	// PrivateExponent is d. Empty for public-only exports.
	PrivateExponent string `json:"d,omitempty"`
	// Fingerprint is KeyPair.Fingerprint of the exported key.
	Fingerprint string `json:"fingerprint"`
	// ExportedAt is the export timestamp (ISO 8601). Informational only.
	ExportedAt time.Time `json:"exportedAt"`
}

// Validate checks that the exported data decodes to a consistent key.
func (x *ExportedKeyPair) Validate() error {
	_, err := x.decode()
	return err
}

func (x *ExportedKeyPair) decode() (*KeyPair, error) {
	if x.Version != ExportVersion {
		return nil, fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidImportData, x.Version, ExportVersion)
	}
	if x.Modulus == "" {
		return nil, fmt.Errorf("%w: n is required", ErrInvalidImportData)
	}
	if x.PublicExponent == "" {
		return nil, fmt.Errorf("%w: e is required", ErrInvalidImportData)
	}

	n, err := crypto.IntFromBase64URL(x.Modulus)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid n encoding", ErrInvalidImportData)
	}
	e, err := crypto.IntFromBase64URL(x.PublicExponent)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid e encoding", ErrInvalidImportData)
	}

	var d *big.Int
	if x.PrivateExponent != "" {
		if d, err = crypto.IntFromBase64URL(x.PrivateExponent); err != nil {
			return nil, fmt.Errorf("%w: invalid d encoding", ErrInvalidImportData)
		}
	}

	key, err := NewKeyPair(n, e, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImportData, err)
	}

	if x.Bits != key.BitLen() {
		return nil, fmt.Errorf("%w: bits %d, modulus has %d", ErrInvalidImportData, x.Bits, key.BitLen())
	}
	if x.Fingerprint != key.Fingerprint() {
		return nil, fmt.Errorf("%w: fingerprint mismatch", ErrInvalidImportData)
	}
	if d != nil && !key.consistent() {
		return nil, fmt.Errorf("%w: d does not invert e", ErrInvalidImportData)
	}

	return key, nil
}

// consistent probes (2^e)^d ≡ 2 (mod n). A failure proves the key is
// broken; a pass does not prove it sound.
func (k *KeyPair) consistent() bool {
	two := big.NewInt(2)
	c := new(big.Int).Exp(two, k.e, k.n)
	return c.Exp(c, k.d, k.n).Cmp(two) == 0
}

// Export returns the exportable form of the key, including the private
// exponent when present.
func (k *KeyPair) Export() *ExportedKeyPair {
	exported := k.ExportPublic()
	if k.d != nil {
		exported.PrivateExponent = crypto.IntToBase64URL(k.d)
	}
	return exported
}

// ExportPublic returns the exportable form of the public half of the key.
func (k *KeyPair) ExportPublic() *ExportedKeyPair {
	return &ExportedKeyPair{
		Version:        ExportVersion,
		Bits:           k.BitLen(),
		Modulus:        crypto.IntToBase64URL(k.n),
		PublicExponent: crypto.IntToBase64URL(k.e),
		Fingerprint:    k.Fingerprint(),
		ExportedAt:     time.Now().UTC(),
	}
}

// ImportKeyPair reconstructs a key from exported data. All failures match
// ErrInvalidImportData.
func ImportKeyPair(data *ExportedKeyPair) (*KeyPair, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrInvalidImportData)
	}
	return data.decode()
}
