package crypto

const (
	// DefaultRounds is the number of Miller-Rabin witnesses used when the
	// caller does not ask for a specific count. A composite survives all
	// rounds with probability at most 4^-20.
	DefaultRounds = 20

	// DefaultMaxPrimeAttempts bounds the number of candidates drawn by a
	// single prime search. Around 0.35*bits odd candidates are expected
	// before a prime turns up, so this leaves a wide margin at 4096 bits.
	DefaultMaxPrimeAttempts = 100000

	// SeedSize is the size in bytes of the master seed read from a
	// caller-supplied random source before forking worker streams.
	SeedSize = 32

	// FingerprintSize is the size in bytes of a key fingerprint.
	FingerprintSize = 32

	// SeedContext is the HKDF info prefix used for worker seed derivation.
	SeedContext = "rsakit:prime-stream:v1"
)

// smallPrimes is the trial-division table applied before any witness round.
var smallPrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}
