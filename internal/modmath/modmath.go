// Package modmath provides the fixed-modulus arithmetic all hashing in
// this module is built on.
package modmath

const (
	// Modulus is the prime every hash value is reduced by. All hash
	// values live in [0, Modulus).
	Modulus int64 = 961748941

	// Radix treats each document byte as one base-256 digit of the
	// hash polynomial.
	Radix int64 = 256
)

// Add returns (a+b) mod Modulus.
func Add(a, b int64) int64 {
	return (a + b) % Modulus
}

// Sub returns (a-b) mod Modulus. The wraparound is explicit so the
// result never goes negative.
func Sub(a, b int64) int64 {
	if a >= b {
		return a - b
	}
	return a + Modulus - b
}

// Mul returns (a*b) mod Modulus. int64 leaves enough headroom that
// Modulus*Modulus cannot overflow before the reduction.
func Mul(a, b int64) int64 {
	return (a * b) % Modulus
}
