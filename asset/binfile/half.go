package binfile

import "github.com/chewxy/math32"

// Convert a 32-bit float to a 16-bit half float (1 sign, 5 exponent and 10
// mantissa bits).
//
// The conversion is lossy and intentionally simple: the exponent is re-biased
// and clamped (values too small for a 5-bit exponent flush to zero since
// subnormals are not supported, values too large saturate the exponent
// without any inf/NaN handling) and the mantissa is truncated rather than
// rounded.
func HalfFromFloat32(v float32) uint16 {
	if v == 0 {
		return 0
	}

	bits := math32.Float32bits(v)
	e := int32((bits>>23)&0xFF) - 127 + 15
	if e < 0 {
		return 0
	}
	if e > 31 {
		e = 31
	}

	s := (bits >> 16) & 0x8000
	m := (bits >> 13) & 0x3FF
	return uint16(s | (uint32(e)<<10)&0x7C00 | m)
}
