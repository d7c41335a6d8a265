package reliability

import (
	"crypto/rand"
	"math/big"
)

// maxSafeInt is the same 2^53 ceiling joemocha-flow/node.go's secureRandFloat64 uses to keep the
// result representable as a float64 without precision loss.
var maxSafeInt = big.NewInt(1 << 53)

// Source produces a float64 in [0, 1), used to draw retry jitter and fault-injection decisions.
// It is an interface (rather than a bare function) so tests can substitute a deterministic
// sequence without touching crypto/rand.
type Source interface {
	Float64() float64
}

// cryptoSource draws from crypto/rand, falling back to a fixed small value if the OS entropy
// source errors — grounded on joemocha-flow/node.go's secureRandFloat64, which made the same
// trade-off (availability over perfect randomness on an exhausted entropy pool).
type cryptoSource struct{}

// DefaultSource is the package-wide default jitter source.
var DefaultSource Source = cryptoSource{}

func (cryptoSource) Float64() float64 {
	n, err := rand.Int(rand.Reader, maxSafeInt)
	if err != nil {
		return 0.05
	}
	return float64(n.Int64()) / float64(maxSafeInt.Int64())
}

// FixedSource always returns the same value; useful in tests that need reproducible jitter.
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }
