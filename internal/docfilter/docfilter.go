// Package docfilter gates substring search behind a bloom filter
// populated with the rolling hash of every window in a document. A
// filter miss proves the pattern absent without touching the document;
// a filter hit (possibly false) hands off to the exact hash-verified
// matcher, so the final answer is always authoritative.
package docfilter

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/rksearch/rksearch/internal/match"
	"github.com/rksearch/rksearch/internal/rollhash"
)

// ErrWindowMismatch is returned when a filter built at one window
// length is queried with a pattern of a different length. Window
// hashes at different lengths are unrelated, so answering would be
// meaningless.
var ErrWindowMismatch = errors.New("docfilter: pattern length differs from filter window length")

// Filter holds the window-hash membership set for one document at one
// fixed window length. It is owned by a single matching session; build
// and query must not overlap across goroutines.
type Filter struct {
	bits      *bloom.BloomFilter
	windowLen int
}

// Build computes the rolling hash of every length-m window in doc and
// inserts each into a fresh filter of the given bit capacity and hash
// count. A document shorter than m yields a valid, empty filter.
func Build(doc []byte, m int, bits, hashes uint) (*Filter, error) {
	if m < 1 {
		return nil, rollhash.ErrZeroWindow
	}
	f := &Filter{
		bits:      bloom.New(bits, hashes),
		windowLen: m,
	}
	if len(doc) < m {
		return f, nil
	}

	h, hw, err := rollhash.Init(doc, m)
	if err != nil {
		return nil, err
	}
	last := len(doc) - m
	for i := 0; ; i++ {
		f.add(h)
		if i == last {
			break
		}
		h = rollhash.Advance(h, hw, doc[i], doc[i+m])
	}
	return f, nil
}

// WindowLen returns the window length the filter was built with.
func (f *Filter) WindowLen() int {
	return f.windowLen
}

func (f *Filter) add(h int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(h))
	f.bits.Add(buf[:])
}

// MayContain reports whether h was possibly inserted. False positives
// occur at a rate set by the filter sizing; false negatives never do.
func (f *Filter) MayContain(h int64) bool {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(h))
	return f.bits.Test(buf[:])
}

// Match answers a substring query through the filter. On a miss the
// zero result is returned without scanning the document. On a hit the
// exact matcher re-confirms every candidate, so a false positive costs
// one scan but never changes the counts.
func Match(pattern, doc []byte, f *Filter) (match.Result, error) {
	none := match.Result{FirstIndex: -1}
	if len(pattern) == 0 {
		return none, match.ErrEmptyPattern
	}
	if len(pattern) != f.windowLen {
		return none, fmt.Errorf("%w: filter built for %d, pattern is %d",
			ErrWindowMismatch, f.windowLen, len(pattern))
	}

	patHash, _, err := rollhash.Init(pattern, len(pattern))
	if err != nil {
		return none, err
	}
	if !f.MayContain(patHash) {
		return none, nil
	}
	return match.HashVerified(pattern, doc)
}
