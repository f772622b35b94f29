package rational

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrDivisionByZero is returned by [Rational.Div] when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidSyntax is returned by [Parse] when the input is not a number.
	ErrInvalidSyntax = errors.New("invalid rational syntax")
)

// Rational is an immutable exact fraction. The zero value is 0.
type Rational struct {
	r *big.Rat
}

// Zero and One are convenience constants.
var (
	Zero = Rational{}
	One  = FromInt(1)
)

// New returns num/den in lowest terms. It panics if den is zero, mirroring
// [big.Rat.SetFrac64]; use [Parse] for untrusted input.
func New(num, den int64) Rational {
	return Rational{r: new(big.Rat).SetFrac64(num, den)}
}

// FromInt returns n as a Rational.
func FromInt(n int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(n)}
}

// FromBigInt returns a copy of n as a Rational.
func FromBigInt(n *big.Int) Rational {
	return Rational{r: new(big.Rat).SetInt(n)}
}

// Parse reads an exact value from s. Accepted forms are integers ("3"),
// fractions ("3/2"), decimals ("1.5") and exponents ("2e3"). Surrounding
// whitespace is ignored. Decimals are converted exactly, so "0.1" is 1/10.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidSyntax)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidSyntax, s)
	}
	return Rational{r: r}, nil
}

// MustParse is like [Parse] but panics on error. Intended for tests and constants.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (x Rational) rat() *big.Rat {
	if x.r == nil {
		return new(big.Rat)
	}
	return x.r
}

// Add returns x+y.
func (x Rational) Add(y Rational) Rational {
	return Rational{r: new(big.Rat).Add(x.rat(), y.rat())}
}

// Sub returns x-y.
func (x Rational) Sub(y Rational) Rational {
	return Rational{r: new(big.Rat).Sub(x.rat(), y.rat())}
}

// Mul returns x*y.
func (x Rational) Mul(y Rational) Rational {
	return Rational{r: new(big.Rat).Mul(x.rat(), y.rat())}
}

// Div returns x/y, or ErrDivisionByZero if y is zero.
func (x Rational) Div(y Rational) (Rational, error) {
	if y.IsZero() {
		return Zero, ErrDivisionByZero
	}
	return Rational{r: new(big.Rat).Quo(x.rat(), y.rat())}, nil
}

// Neg returns -x.
func (x Rational) Neg() Rational {
	return Rational{r: new(big.Rat).Neg(x.rat())}
}

// MulInt returns x*n.
func (x Rational) MulInt(n *big.Int) Rational {
	return x.Mul(FromBigInt(n))
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Rational) Cmp(y Rational) int { return x.rat().Cmp(y.rat()) }

// Equal reports whether x and y are the same value.
func (x Rational) Equal(y Rational) bool { return x.Cmp(y) == 0 }

// Less reports whether x < y.
func (x Rational) Less(y Rational) bool { return x.Cmp(y) < 0 }

// Sign returns -1, 0 or +1.
func (x Rational) Sign() int { return x.rat().Sign() }

// IsZero reports whether x == 0.
func (x Rational) IsZero() bool { return x.Sign() == 0 }

// IsPositive reports whether x > 0.
func (x Rational) IsPositive() bool { return x.Sign() > 0 }

// IsInt reports whether the denominator of x is 1.
func (x Rational) IsInt() bool { return x.rat().IsInt() }

// Num returns a copy of the numerator.
func (x Rational) Num() *big.Int { return new(big.Int).Set(x.rat().Num()) }

// Denom returns a copy of the denominator. It is always positive.
func (x Rational) Denom() *big.Int { return new(big.Int).Set(x.rat().Denom()) }

// Ceil returns the smallest integer >= x.
func (x Rational) Ceil() *big.Int {
	return Ceil(x.rat().Num(), x.rat().Denom())
}

// Min returns the smaller of x and y.
func Min(x, y Rational) Rational {
	if y.Less(x) {
		return y
	}
	return x
}

// Float64 returns the nearest float64. For display only.
func (x Rational) Float64() float64 {
	f, _ := x.rat().Float64()
	return f
}

// FloatString returns x in decimal notation rounded to prec digits.
func (x Rational) FloatString(prec int) string {
	return x.rat().FloatString(prec)
}

// String returns "num/den", or "num" when x is an integer.
func (x Rational) String() string {
	return x.rat().RatString()
}

// MarshalJSON encodes x as its exact string form.
func (x Rational) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.String())
}

// UnmarshalJSON accepts the exact string form or a JSON number.
func (x *Rational) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	r, err := Parse(s)
	if err != nil {
		return err
	}
	*x = r
	return nil
}

// MarshalYAML encodes x as its exact string form.
func (x Rational) MarshalYAML() (any, error) {
	return x.String(), nil
}

// MarshalText implements encoding.TextMarshaler.
func (x Rational) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Rational) UnmarshalText(text []byte) error {
	r, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = r
	return nil
}
