package rsakit

import (
	"errors"
	"fmt"

	"github.com/vaultsandbox/rsakit/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidBitLength is returned when a key size is below 4 or odd, or a
	// prime size is below 2.
	ErrInvalidBitLength = errors.New("invalid bit length")

	// ErrInvalidPublicExponent is returned when e is even or below 3.
	ErrInvalidPublicExponent = errors.New("invalid public exponent")

	// ErrInverseNotExist is returned when a modular inverse does not exist.
	ErrInverseNotExist = errors.New("modular inverse does not exist")

	// ErrInvalidModulus is returned when a modulus is not positive.
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrMessageTooLarge is returned when a message, read as a big-endian
	// integer, is not strictly smaller than the key modulus.
	ErrMessageTooLarge = errors.New("message too large for key size")

	// ErrNegativeMessage is returned when an integer message is negative.
	ErrNegativeMessage = errors.New("message must be non-negative")

	// ErrMalformedCiphertext is returned when a ciphertext is not in [0, n).
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrMissingPrivateExponent is returned when decrypting with a public-only key.
	ErrMissingPrivateExponent = errors.New("key has no private exponent")

	// ErrInvalidKey is returned when key components are missing or out of range.
	ErrInvalidKey = errors.New("invalid key")

	// ErrGenerationFailed is returned when a bounded prime or key search
	// exhausts its attempts.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidImportData is returned when exported key data is invalid.
	ErrInvalidImportData = errors.New("invalid import data")
)

// RSAKitError is implemented by all typed errors of this package.
type RSAKitError interface {
	error
	RSAKitError() // marker method
}

// GenerationError reports a failed prime or key pair search.
type GenerationError struct {
	Stage    string // "prime", "keypair"
	Bits     int
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s generation (%d bits) failed after %d attempts: %v", e.Stage, e.Bits, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s generation (%d bits) failed: %v", e.Stage, e.Bits, e.Err)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// RSAKitError implements the RSAKitError interface.
func (e *GenerationError) RSAKitError() {}

// KeyError describes a key component that failed validation.
type KeyError struct {
	Field   string
	Message string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid key: %s %s", e.Field, e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// RSAKitError implements the RSAKitError interface.
func (e *KeyError) RSAKitError() {}

// wrapError converts internal crypto errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, crypto.ErrInvalidBitLength):
		return fmt.Errorf("%w: %v", ErrInvalidBitLength, err)
	case errors.Is(err, crypto.ErrInverseNotExist):
		return ErrInverseNotExist
	case errors.Is(err, crypto.ErrInvalidModulus):
		return ErrInvalidModulus
	case errors.Is(err, crypto.ErrGenerationFailed):
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return err
}
