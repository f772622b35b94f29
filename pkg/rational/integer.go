package rational

import "math/big"

// Ceil returns the smallest integer >= num/den using integer division with a
// remainder check. den must be positive.
func Ceil(num, den *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	// QuoRem truncates toward zero, which is already the ceiling for negatives.
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// LCM returns the least common multiple of a and b. LCM(0, x) is 0.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	gcd := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	out := new(big.Int).Quo(new(big.Int).Abs(a), gcd)
	return out.Mul(out, new(big.Int).Abs(b))
}

// DenominatorLCM returns the least common multiple of the denominators of
// values, i.e. the smallest positive integer s such that s*v is an integer
// for every v. It returns 1 for no values.
func DenominatorLCM(values ...Rational) *big.Int {
	out := big.NewInt(1)
	for _, v := range values {
		out = LCM(out, v.rat().Denom())
	}
	return out
}
