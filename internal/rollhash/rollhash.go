// Package rollhash implements the polynomial rolling hash used by the
// Rabin-Karp matchers. A window of m bytes hashes to
//
//	buf[0]*256^(m-1) + buf[1]*256^(m-2) + ... + buf[m-1]  (mod Modulus)
//
// and the hash of the next window over is derivable in O(1) from the
// previous one plus the byte leaving and the byte entering.
package rollhash

import (
	"errors"
	"fmt"

	"github.com/rksearch/rksearch/internal/modmath"
)

var (
	// ErrZeroWindow rejects window lengths below one.
	ErrZeroWindow = errors.New("rollhash: window length must be at least 1")

	// ErrShortBuffer rejects buffers with fewer bytes than the window.
	ErrShortBuffer = errors.New("rollhash: buffer shorter than window")
)

// Init hashes the first m bytes of buf and returns the multiplier
// hw = 256^(m-1) mod Modulus needed by Advance. hw depends only on m,
// so one Init serves every subsequent Advance at that window length.
func Init(buf []byte, m int) (hash, hw int64, err error) {
	if m < 1 {
		return 0, 0, ErrZeroWindow
	}
	if len(buf) < m {
		return 0, 0, fmt.Errorf("%w: need %d, have %d", ErrShortBuffer, m, len(buf))
	}
	pow := int64(1)
	for i := m - 1; i >= 0; i-- {
		hash = modmath.Add(modmath.Mul(pow, int64(buf[i])), hash)
		hw = pow
		pow = modmath.Mul(pow, modmath.Radix)
	}
	return hash, hw, nil
}

// Advance shifts the window one byte right: the contribution of the
// byte leaving the window is removed, the remainder is promoted one
// digit, and the entering byte is appended. Every step stays reduced,
// so nothing overflows and nothing goes negative. The result equals
// re-running Init on the shifted window.
func Advance(cur, hw int64, leaving, entering byte) int64 {
	stripped := modmath.Sub(cur, modmath.Mul(int64(leaving), hw))
	return modmath.Add(modmath.Mul(stripped, modmath.Radix), int64(entering))
}
