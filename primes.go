package rsakit

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/vaultsandbox/rsakit/internal/crypto"
)

// IsProbablePrime reports whether n passes trial division by the primes up
// to 37 and rounds Miller-Rabin trials with witnesses from crypto/rand.
// A rounds value below one selects DefaultRounds.
//
// Primes always pass. A composite passes with probability at most
// 4^-rounds, so true means "prime with overwhelming probability", never
// "proven prime".
func IsProbablePrime(n *big.Int, rounds int) bool {
	// crypto/rand.Reader never returns an error.
	ok, _ := crypto.IsProbablePrime(rand.Reader, n, rounds)
	return ok
}

// GeneratePrime returns a random probable prime of exactly bits bits.
// Sizes below 512 are accepted but offer no security.
//
// The search is bounded by WithMaxPrimeAttempts and honors ctx; on
// exhaustion it returns a *GenerationError matching ErrGenerationFailed.
// WithRand, WithRounds and WithLogger also apply.
func GeneratePrime(ctx context.Context, bits int, opts ...Option) (*big.Int, error) {
	cfg := newGeneratorConfig(opts)

	g := &crypto.PrimeGenerator{
		Rand:        cfg.rand,
		Rounds:      cfg.rounds,
		MaxAttempts: cfg.maxPrimeAttempts,
		Logger:      cfg.logger,
	}

	p, err := g.Generate(ctx, bits)
	if err != nil {
		return nil, generationError("prime", bits, 0, err)
	}
	return p, nil
}

// ModInverse returns x in [0, m) such that a*x ≡ 1 (mod m). It returns
// ErrInverseNotExist when gcd(a, m) != 1 and ErrInvalidModulus when m is
// not positive.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	x, err := crypto.ModInverse(a, m)
	if err != nil {
		return nil, wrapError(err)
	}
	return x, nil
}

// generationError wraps exhaustion errors in a *GenerationError and
// translates everything else to public errors.
func generationError(stage string, bits, attempts int, err error) error {
	err = wrapError(err)
	if errors.Is(err, ErrGenerationFailed) {
		return &GenerationError{Stage: stage, Bits: bits, Attempts: attempts, Err: err}
	}
	return err
}
