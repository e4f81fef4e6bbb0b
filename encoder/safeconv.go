package encoder

import "math"

// SafeNarrowToInt8 reports whether v fits a signed byte and returns the
// narrowed value when it does. Through fitsInt8 it decides every disp8
// choice, the sign-extended imm8 short forms (push, jmp, the arithmetic
// group, three-operand imul) and the range check on rel8 constants.
// Other 8-bit immediates (int/in/out, shift counts, and immediates to a
// byte-sized destination in mov/test/the arithmetic group) are not
// range-checked: only their low byte is emitted.
func SafeNarrowToInt8(v int32) (int8, bool) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, false
	}
	return int8(v), true
}

// SafeNarrowToUint8 reports whether v is representable as an unsigned
// byte and returns the narrowed value when it is. No encoding path in
// this package calls it.
func SafeNarrowToUint8(v int32) (uint8, bool) {
	if v < 0 || v > math.MaxUint8 {
		return 0, false
	}
	return uint8(v), true
}
