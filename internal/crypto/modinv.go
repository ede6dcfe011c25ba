package crypto

import (
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// ExtendedGCD returns (g, x, y) such that a*x + b*y = g = gcd(a, b).
// Both inputs must be non-negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	quo := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		quo.Quo(oldR, r)

		// (oldR, r) = (r, oldR - quo*r), same for s and t
		tmp.Mul(quo, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(quo, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(quo, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}

	return oldR, oldS, oldT
}

// ModInverse returns x in [0, m) with a*x ≡ 1 (mod m).
// It returns ErrInverseNotExist when gcd(a, m) != 1 and ErrInvalidModulus
// when m is not positive.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	if a == nil {
		return nil, ErrInverseNotExist
	}

	// big.Int.Mod is Euclidean, so the reduced value is never negative.
	reduced := new(big.Int).Mod(a, m)

	g, x, _ := ExtendedGCD(reduced, m)
	if g.Cmp(bigOne) != 0 {
		return nil, ErrInverseNotExist
	}

	return x.Mod(x, m), nil
}
