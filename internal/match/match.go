// Package match implements exact substring matching: a brute-force
// scan and a Rabin-Karp hash-accelerated scan. Both report the same
// results for every input; the hash only skips verification work at
// offsets that provably cannot match.
package match

import (
	"bytes"
	"errors"

	"github.com/rksearch/rksearch/internal/rollhash"
)

// ErrEmptyPattern rejects zero-length patterns. The hash of an empty
// window is undefined, so matching one is a contract violation rather
// than "matches everywhere".
var ErrEmptyPattern = errors.New("match: empty pattern")

// Result reports how many offsets matched and the lowest of them.
// FirstIndex is -1 exactly when Count is zero.
type Result struct {
	Count      int `json:"count"`
	FirstIndex int `json:"firstIndex"`
}

func zero() Result {
	return Result{FirstIndex: -1}
}

func (r *Result) record(i int) {
	if r.Count == 0 {
		r.FirstIndex = i
	}
	r.Count++
}

// Naive compares the pattern against every window of doc byte by byte,
// short-circuiting on the first mismatch. O(n*m) worst case.
func Naive(pattern, doc []byte) (Result, error) {
	if len(pattern) == 0 {
		return zero(), ErrEmptyPattern
	}
	res := zero()
	m := len(pattern)
	for i := 0; i+m <= len(doc); i++ {
		equal := true
		for j := 0; j < m; j++ {
			if doc[i+j] != pattern[j] {
				equal = false
				break
			}
		}
		if equal {
			res.record(i)
		}
	}
	return res, nil
}

// HashVerified rolls the document hash across every window and only
// compares bytes where the hash equals the pattern's. Hash equality is
// never trusted on its own: collisions are expected, so every
// candidate offset is byte-verified before it is counted. Results are
// identical to Naive for all inputs.
func HashVerified(pattern, doc []byte) (Result, error) {
	if len(pattern) == 0 {
		return zero(), ErrEmptyPattern
	}
	res := zero()
	m := len(pattern)
	if len(doc) < m {
		return res, nil
	}

	patHash, _, err := rollhash.Init(pattern, m)
	if err != nil {
		return res, err
	}
	winHash, hw, err := rollhash.Init(doc, m)
	if err != nil {
		return res, err
	}

	last := len(doc) - m
	for i := 0; ; i++ {
		if winHash == patHash && bytes.Equal(doc[i:i+m], pattern) {
			res.record(i)
		}
		if i == last {
			break
		}
		winHash = rollhash.Advance(winHash, hw, doc[i], doc[i+m])
	}
	return res, nil
}
