package waveform

import (
	"math"
	"strconv"
)

const fixedShift = 8

// Fixed is an unsigned 24.8 fixed-point number.
type Fixed uint32

// FixedOne is 1.0 in 24.8.
const FixedOne Fixed = 1 << fixedShift

// fixedMax is the largest value a Fixed can hold.
const fixedMax Fixed = math.MaxUint32

// fixedCeil is the largest power of two a Fixed can hold.
const fixedCeil Fixed = 1 << 31

// FixedFromFloat converts f to 24.8, truncating the fraction below 1/256.
// Negative and NaN inputs give 0.
func FixedFromFloat(f float64) Fixed {
	if !(f > 0) {
		return 0
	}
	v := f * float64(FixedOne)
	if v >= float64(fixedMax) {
		return fixedMax
	}
	return Fixed(v)
}

// Float returns f as a float64.
func (f Fixed) Float() float64 {
	return float64(f) / float64(FixedOne)
}

// Half returns f/2, never less than FixedOne.
func (f Fixed) Half() Fixed {
	h := f >> 1
	if h < FixedOne {
		return FixedOne
	}
	return h
}

// Double returns 2f. Doubling stops at fixedCeil so that halving back
// down walks the same powers of two; values already above it are kept.
func (f Fixed) Double() Fixed {
	if f > fixedCeil>>1 {
		return max(f, fixedCeil)
	}
	return f << 1
}

func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float(), 'f', -1, 64)
}
