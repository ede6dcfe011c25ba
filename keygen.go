package rsakit

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vaultsandbox/rsakit/internal/crypto"
)

// GenerateKeyPair generates an RSA key pair whose modulus is the product of
// two distinct random primes of bits/2 bits each. The modulus has bits or
// bits-1 bits. bits must be even and at least 4; sizes below 1024 are
// accepted for testing but offer no security.
//
// The public exponent defaults to 65537 (see WithPublicExponent). When e is
// not invertible modulo the totient, or both primes collide and cannot be
// separated, fresh primes are drawn, up to WithMaxAttempts times. Exhaustion
// returns a *GenerationError matching ErrGenerationFailed.
//
// The primes and totient are wiped before GenerateKeyPair returns.
func GenerateKeyPair(ctx context.Context, bits int, opts ...Option) (*KeyPair, error) {
	if bits < 4 || bits%2 != 0 {
		return nil, fmt.Errorf("%w: key size must be even and >= 4, got %d", ErrInvalidBitLength, bits)
	}

	cfg := newGeneratorConfig(opts)
	e := cfg.publicExponent
	if e.Cmp(big.NewInt(3)) < 0 || e.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicExponent, e)
	}

	g := &keyGenerator{cfg: cfg, half: bits / 2}
	start := time.Now()

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		key, err := g.attempt(ctx, e)
		if err == nil {
			cfg.logger.Info("key pair generated",
				zap.Int("bits", key.BitLen()),
				zap.Int("attempts", attempt),
				zap.String("fingerprint", key.Fingerprint()),
				zap.Duration("elapsed", time.Since(start)),
			)
			return key, nil
		}
		if !errors.Is(err, errRetry) {
			return nil, generationError("keypair", bits, attempt, err)
		}

		cfg.logger.Debug("retrying key generation",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return nil, &GenerationError{
		Stage:    "keypair",
		Bits:     bits,
		Attempts: cfg.maxAttempts,
		Err:      ErrGenerationFailed,
	}
}

// errRetry marks attempt failures that fresh primes can fix.
var errRetry = errors.New("retry with fresh primes")

// keyGenerator runs the attempts of a single GenerateKeyPair call.
type keyGenerator struct {
	cfg  *generatorConfig
	half int
}

// attempt draws one prime pair and derives a key from it.
func (g *keyGenerator) attempt(ctx context.Context, e *big.Int) (*KeyPair, error) {
	p, q, err := g.primePair(ctx)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(p)
	defer crypto.Wipe(q)

	n, d, err := deriveKey(p, q, e)
	if errors.Is(err, ErrInverseNotExist) {
		return nil, fmt.Errorf("%w: e not invertible mod phi", errRetry)
	}
	if err != nil {
		return nil, err
	}

	return &KeyPair{n: n, e: new(big.Int).Set(e), d: d}, nil
}

// primePair returns two distinct primes of g.half bits. Each prime is
// searched on its own stream, concurrently when parallel is enabled.
func (g *keyGenerator) primePair(ctx context.Context) (p, q *big.Int, err error) {
	streams, err := g.streams()
	if err != nil {
		return nil, nil, err
	}

	pGen := g.primeGenerator(streams[0])
	qGen := g.primeGenerator(streams[1])

	if g.cfg.parallel {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			p, err = pGen.Generate(egCtx, g.half)
			return err
		})
		eg.Go(func() error {
			var err error
			q, err = qGen.Generate(egCtx, g.half)
			return err
		})
		if err := eg.Wait(); err != nil {
			crypto.Wipe(p)
			crypto.Wipe(q)
			return nil, nil, err
		}
	} else {
		if p, err = pGen.Generate(ctx, g.half); err != nil {
			return nil, nil, err
		}
		if q, err = qGen.Generate(ctx, g.half); err != nil {
			crypto.Wipe(p)
			return nil, nil, err
		}
	}

	// A collision would make n a perfect square; draw q again from its stream.
	for i := 0; p.Cmp(q) == 0; i++ {
		if i == g.cfg.maxAttempts {
			crypto.Wipe(p)
			crypto.Wipe(q)
			return nil, nil, fmt.Errorf("%w: p and q collided %d times", errRetry, i)
		}
		g.cfg.logger.Debug("prime collision, regenerating q", zap.Int("bits", g.half))

		crypto.Wipe(q)
		if q, err = qGen.Generate(ctx, g.half); err != nil {
			crypto.Wipe(p)
			return nil, nil, err
		}
	}

	return p, q, nil
}

// streams returns one random source per prime worker. crypto/rand is safe
// for concurrent use; any other reader is forked into independent streams
// so the result does not depend on goroutine scheduling.
func (g *keyGenerator) streams() ([]io.Reader, error) {
	if g.cfg.rand == nil {
		return []io.Reader{rand.Reader, rand.Reader}, nil
	}
	return crypto.ForkStreams(g.cfg.rand, "p", "q")
}

func (g *keyGenerator) primeGenerator(r io.Reader) *crypto.PrimeGenerator {
	return &crypto.PrimeGenerator{
		Rand:        r,
		Rounds:      g.cfg.rounds,
		MaxAttempts: g.cfg.maxPrimeAttempts,
		Logger:      g.cfg.logger,
	}
}

// deriveKey computes n = p*q and d = e^-1 mod (p-1)(q-1). The totient is
// wiped before returning.
func deriveKey(p, q, e *big.Int) (n, d *big.Int, err error) {
	n = new(big.Int).Mul(p, q)

	pMinusOne := new(big.Int).Sub(p, big.NewInt(1))
	qMinusOne := new(big.Int).Sub(q, big.NewInt(1))
	phi := new(big.Int).Mul(pMinusOne, qMinusOne)
	defer crypto.Wipe(phi)
	defer crypto.Wipe(pMinusOne)
	defer crypto.Wipe(qMinusOne)

	d, err = ModInverse(e, phi)
	if err != nil {
		return nil, nil, err
	}
	return n, d, nil
}
