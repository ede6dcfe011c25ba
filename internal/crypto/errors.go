package crypto

import "errors"

var (
	// ErrInvalidBitLength is returned when a prime of fewer than two bits is requested.
	ErrInvalidBitLength = errors.New("invalid bit length")

	// ErrInverseNotExist is returned when gcd(a, m) != 1.
	ErrInverseNotExist = errors.New("modular inverse does not exist")

	// ErrInvalidModulus is returned when the modulus of an inverse is not positive.
	ErrInvalidModulus = errors.New("modulus must be positive")

	// ErrGenerationFailed is returned when a bounded search runs out of attempts.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidSeed is returned when a stream seed is empty.
	ErrInvalidSeed = errors.New("invalid seed")
)
