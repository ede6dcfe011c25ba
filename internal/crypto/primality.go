package crypto

import (
	"crypto/rand"
	"io"
	"math/big"
)

// IsProbablePrime runs trial division by the small primes up to 37 and then
// rounds independent Miller-Rabin trials with witnesses drawn uniformly from
// [2, n-2] using r. A rounds value below one selects DefaultRounds.
//
// A true prime always passes. A composite passes with probability at most
// 4^-rounds, so a true result is strong evidence, not a proof. Callers that
// need certainty must use a proving method instead.
//
// The only error is a failure reading from r.
func IsProbablePrime(r io.Reader, n *big.Int, rounds int) (bool, error) {
	if n == nil || n.Cmp(bigTwo) < 0 {
		return false, nil
	}
	if rounds < 1 {
		rounds = DefaultRounds
	}

	rem := new(big.Int)
	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		if rem.Mod(n, bp).Sign() == 0 {
			return n.Cmp(bp) == 0, nil
		}
	}

	// n is odd and at least 41 from here on.
	nMinusOne := new(big.Int).Sub(n, bigOne)
	s := nMinusOne.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinusOne, s)

	// Witnesses come from [0, n-3) shifted up by two.
	span := new(big.Int).Sub(n, big.NewInt(3))

	for i := 0; i < rounds; i++ {
		a, err := rand.Int(r, span)
		if err != nil {
			return false, err
		}
		a.Add(a, bigTwo)

		if !millerRabinRound(a, d, s, n, nMinusOne) {
			return false, nil
		}
	}

	return true, nil
}

// millerRabinRound reports whether n survives the trial with witness a,
// where n-1 = d*2^s.
func millerRabinRound(a, d *big.Int, s uint, n, nMinusOne *big.Int) bool {
	x := new(big.Int).Exp(a, d, n)
	if x.Cmp(bigOne) == 0 || x.Cmp(nMinusOne) == 0 {
		return true
	}

	for j := uint(1); j < s; j++ {
		x.Mul(x, x).Mod(x, n)
		if x.Cmp(nMinusOne) == 0 {
			return true
		}
	}

	return false
}
