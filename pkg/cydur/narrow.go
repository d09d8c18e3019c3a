package cydur

import (
	"math"
	"math/big"
)

// Unsigned is the set of Go unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Uint64 widens any unsigned integer to uint64. It is lossless: no Go unsigned
// type is wider than 64 bits.
//
//	cydur.FormatDHMS(cydur.Uint64(uint32(elapsed)))
func Uint64[T Unsigned](v T) uint64 {
	return uint64(v)
}

var low64Mask = new(big.Int).SetUint64(math.MaxUint64)

// Narrow converts an arbitrarily wide integer to uint64 by keeping only the
// low-order 64 bits of its magnitude.
//
// This is a LOSSY, truncating narrowing: values of 2^64 and above wrap around
// rather than saturate, and no error is reported. Narrow(2^64+5) is 5. The
// sign is ignored since durations are never negative. A nil v narrows to 0.
func Narrow(v *big.Int) uint64 {
	if v == nil {
		return 0
	}
	low := new(big.Int).Abs(v)
	return low.And(low, low64Mask).Uint64()
}

// Fits reports whether v can be narrowed without losing bits.
func Fits(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= 64
}
