// Package rational provides an immutable exact fraction type for rate arithmetic.
//
// Production planning multiplies and divides recipe counts across many tiers.
// Doing that in float64 accumulates visible drift after a handful of tiers, so
// every quantity inside the planner is a [Rational]: a numerator/denominator
// pair of arbitrary-precision integers, always in lowest terms with a positive
// denominator.
//
// # Immutability
//
// Unlike [math/big.Rat], a Rational is a value. Every operation returns a new
// Rational and never mutates its receiver or arguments, so values can be shared
// freely between goroutines and stored in maps without defensive copies. The
// zero value is 0.
//
// # Conversions
//
// Floats appear only at presentation boundaries via [Rational.Float64]. The
// JSON and YAML forms are the exact string "num/den" (or "n" for integers), so
// plans round-trip without loss:
//
//	r := rational.New(3, 2)
//	r.String()   // "3/2"
//	r.Ceil()     // 2
//	r.Float64()  // 1.5
//
// # Integer helpers
//
// [Ceil] and [LCM] operate on [math/big.Int] and are used to convert exact
// craft rates into whole device counts and to find the common scale factor
// that makes every rate in a plan integral.
package rational
