package crypto

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"
)

// PrimeGenerator searches for random probable primes of an exact bit length.
// The zero value draws from crypto/rand with default limits.
//
// A PrimeGenerator is not safe for concurrent use unless Rand is; give each
// goroutine its own generator and stream.
type PrimeGenerator struct {
	// Rand is the source for candidates and witnesses. Nil means crypto/rand.
	Rand io.Reader
	// Rounds is the number of Miller-Rabin witnesses per candidate.
	Rounds int
	// MaxAttempts bounds the number of candidates tested.
	MaxAttempts int
	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger
}

func (g *PrimeGenerator) reader() io.Reader {
	if g.Rand == nil {
		return rand.Reader
	}
	return g.Rand
}

func (g *PrimeGenerator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// Generate returns a probable prime with exactly bits bits. Each candidate
// has its top bit set for the exact length and its bottom bit set for
// oddness. The search stops with ErrGenerationFailed after MaxAttempts
// candidates, or with the context error once ctx is done.
func (g *PrimeGenerator) Generate(ctx context.Context, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitLength, bits)
	}

	maxAttempts := g.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPrimeAttempts
	}

	r := g.reader()
	buf := make([]byte, (bits+7)/8)
	// bits in the leading byte that belong to the candidate
	topBits := uint(bits - 8*(len(buf)-1))

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read candidate: %w", err)
		}

		buf[0] &= byte(1<<topBits - 1)
		buf[0] |= 1 << (topBits - 1)
		buf[len(buf)-1] |= 1

		candidate := new(big.Int).SetBytes(buf)

		ok, err := IsProbablePrime(r, candidate, g.Rounds)
		if err != nil {
			return nil, fmt.Errorf("read witness: %w", err)
		}
		if ok {
			g.logger().Debug("prime found",
				zap.Int("bits", bits),
				zap.Int("attempts", attempt),
			)
			clear(buf)
			return candidate, nil
		}
	}

	clear(buf)
	return nil, fmt.Errorf("%w: no prime of %d bits after %d candidates", ErrGenerationFailed, bits, maxAttempts)
}

// Wipe zeroes the limbs of x and resets it to zero. Use it on secret
// intermediates once they are no longer needed.
func Wipe(x *big.Int) {
	if x == nil {
		return
	}
	clear(x.Bits())
	x.SetInt64(0)
}
