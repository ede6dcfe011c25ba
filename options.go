package rsakit

import (
	"io"
	"math/big"

	"go.uber.org/zap"

	"github.com/vaultsandbox/rsakit/internal/crypto"
)

const (
	// DefaultPublicExponent is the conventional RSA public exponent F4.
	DefaultPublicExponent = 65537

	// DefaultRounds is the default number of Miller-Rabin witnesses.
	DefaultRounds = crypto.DefaultRounds

	// DefaultMaxAttempts bounds how many times key generation draws a fresh
	// pair of primes after a collision or a non-invertible exponent.
	DefaultMaxAttempts = 16

	// DefaultMaxPrimeAttempts bounds the candidates tested per prime search.
	DefaultMaxPrimeAttempts = crypto.DefaultMaxPrimeAttempts
)

// generatorConfig holds configuration for prime and key generation.
type generatorConfig struct {
	rand             io.Reader
	publicExponent   *big.Int
	rounds           int
	maxAttempts      int
	maxPrimeAttempts int
	parallel         bool
	logger           *zap.Logger
}

// Option configures prime and key generation.
type Option func(*generatorConfig)

func defaultGeneratorConfig() *generatorConfig {
	return &generatorConfig{
		publicExponent:   big.NewInt(DefaultPublicExponent),
		rounds:           DefaultRounds,
		maxAttempts:      DefaultMaxAttempts,
		maxPrimeAttempts: DefaultMaxPrimeAttempts,
		parallel:         true,
		logger:           zap.NewNop(),
	}
}

func newGeneratorConfig(opts []Option) *generatorConfig {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRand sets the random source for candidates and witnesses.
// Default: crypto/rand.Reader.
//
// The reader is never shared between goroutines: key generation reads a
// seed from it and derives an independent stream per prime worker. A
// seeded reader therefore yields the same key pair on every run, which is
// useful in tests and unsafe anywhere else.
func WithRand(r io.Reader) Option {
	return func(c *generatorConfig) {
		c.rand = r
	}
}

// WithPublicExponent sets the public exponent e.
// Default: 65537
func WithPublicExponent(e *big.Int) Option {
	return func(c *generatorConfig) {
		if e != nil {
			c.publicExponent = new(big.Int).Set(e)
		}
	}
}

// WithRounds sets the number of Miller-Rabin witnesses per candidate.
// Values below one select the default of 20.
func WithRounds(rounds int) Option {
	return func(c *generatorConfig) {
		if rounds < 1 {
			rounds = DefaultRounds
		}
		c.rounds = rounds
	}
}

// WithMaxAttempts sets how many prime pairs key generation may draw before
// failing with ErrGenerationFailed.
// Default: 16
func WithMaxAttempts(n int) Option {
	return func(c *generatorConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithMaxPrimeAttempts sets how many candidates a single prime search may
// test before failing with ErrGenerationFailed.
// Default: 100000
func WithMaxPrimeAttempts(n int) Option {
	return func(c *generatorConfig) {
		if n > 0 {
			c.maxPrimeAttempts = n
		}
	}
}

// WithParallel controls whether p and q are searched concurrently.
// Default: true
func WithParallel(parallel bool) Option {
	return func(c *generatorConfig) {
		c.parallel = parallel
	}
}

// WithLogger sets the logger for generation progress. Secret values are
// never logged.
// Default: no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *generatorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
