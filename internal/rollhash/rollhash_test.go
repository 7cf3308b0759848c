package rollhash_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/rksearch/rksearch/internal/modmath"
	"github.com/rksearch/rksearch/internal/rollhash"
)

// powMod calculates (base^exp) mod m without overflow.
func powMod(base, exp, m int64) int64 {
	result := int64(1)
	base %= m
	for exp > 0 {
		if exp%2 == 1 {
			result = (result * base) % m
		}
		base = (base * base) % m
		exp /= 2
	}
	return result
}

func TestInit_MatchesPolynomial(t *testing.T) {
	data := []byte("hello")
	m := len(data)

	hash, hw, err := rollhash.Init(data, m)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Recompute the polynomial directly.
	want := int64(0)
	for i, b := range data {
		term := int64(b) * powMod(modmath.Radix, int64(m-1-i), modmath.Modulus) % modmath.Modulus
		want = (want + term) % modmath.Modulus
	}
	if hash != want {
		t.Errorf("Init hash = %d, want %d", hash, want)
	}

	if wantHW := powMod(modmath.Radix, int64(m-1), modmath.Modulus); hw != wantHW {
		t.Errorf("Init hw = %d, want %d", hw, wantHW)
	}
}

func TestInit_SingleByteWindow(t *testing.T) {
	hash, hw, err := rollhash.Init([]byte{0xFF}, 1)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if hash != 0xFF {
		t.Errorf("hash = %d, want 255", hash)
	}
	if hw != 1 {
		t.Errorf("hw = %d, want 1 (256^0)", hw)
	}
}

func TestInit_Errors(t *testing.T) {
	if _, _, err := rollhash.Init([]byte("abc"), 0); !errors.Is(err, rollhash.ErrZeroWindow) {
		t.Errorf("m=0: err = %v, want ErrZeroWindow", err)
	}
	if _, _, err := rollhash.Init([]byte("ab"), 3); !errors.Is(err, rollhash.ErrShortBuffer) {
		t.Errorf("short buffer: err = %v, want ErrShortBuffer", err)
	}
}

// TestAdvance_EqualsReinit checks the core rolling invariant: advancing
// the hash one position must equal hashing the shifted window from
// scratch, at every offset.
func TestAdvance_EqualsReinit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	doc := make([]byte, 512)
	rng.Read(doc)

	for _, m := range []int{1, 2, 3, 16, 64} {
		cur, hw, err := rollhash.Init(doc, m)
		if err != nil {
			t.Fatalf("Init m=%d: %v", m, err)
		}
		for i := 0; i+m < len(doc); i++ {
			cur = rollhash.Advance(cur, hw, doc[i], doc[i+m])
			want, _, err := rollhash.Init(doc[i+1:], m)
			if err != nil {
				t.Fatalf("Init at offset %d: %v", i+1, err)
			}
			if cur != want {
				t.Fatalf("m=%d offset %d: Advance = %d, reinit = %d", m, i+1, cur, want)
			}
		}
	}
}

func TestAdvance_StaysReduced(t *testing.T) {
	// High bytes drive the subtraction toward the wraparound path.
	doc := []byte{0xFF, 0x00, 0xFF, 0x00, 0xFF}
	cur, hw, err := rollhash.Init(doc, 3)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i+3 < len(doc); i++ {
		cur = rollhash.Advance(cur, hw, doc[i], doc[i+3])
		if cur < 0 || cur >= modmath.Modulus {
			t.Fatalf("offset %d: hash %d outside [0, Modulus)", i+1, cur)
		}
	}
}
