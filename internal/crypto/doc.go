// Package crypto implements the number theory behind rsakit: Miller-Rabin
// probable-prime testing, random prime search, the extended Euclidean
// modular inverse, and the deterministic random streams used to make key
// generation reproducible and safe to parallelize.
//
// # Primality
//
// [IsProbablePrime] trial-divides by the primes up to 37 and then runs the
// requested number of Miller-Rabin rounds with uniformly random witnesses.
// Primes are never rejected. A composite is accepted with probability at
// most 4^-rounds. This is an accepted residual risk: a true result is not a
// proof of primality.
//
// # Randomness
//
// Every function that needs randomness takes an [io.Reader]. Nothing in this
// package reads a global source. [ForkStreams] turns one caller-supplied
// reader into independent SHAKE-256 streams, each keyed by an HKDF-SHA-512
// derived seed, so concurrent workers never share a reader.
//
// # Secrets
//
// Intermediate secrets (primes, totients, seeds) should be cleared with
// [Wipe] or clear once they are no longer needed. This narrows, but does not
// close, the window in which they sit in memory: math/big makes internal
// copies this package cannot reach.
package crypto
