package tplscript

import "math/big"

// ScriptNumBytes returns the minimal script-number encoding of v: the
// absolute value in little-endian order using the fewest bytes possible,
// with the sign carried by the high bit of the most significant byte. When
// the magnitude itself needs that bit, an extra sign byte is appended. Zero
// encodes as no bytes at all.
func ScriptNumBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return nil
	}

	negative := v.Sign() < 0
	magnitude := new(big.Int).Abs(v).Bytes()

	result := make([]byte, 0, len(magnitude)+1)
	for i := len(magnitude) - 1; i >= 0; i-- {
		result = append(result, magnitude[i])
	}

	if result[len(result)-1]&0x80 != 0 {
		sign := byte(0x00)
		if negative {
			sign = 0x80
		}
		result = append(result, sign)
	} else if negative {
		result[len(result)-1] |= 0x80
	}
	return result
}

// ParseScriptNum interprets b as a script number: little-endian magnitude
// with the sign carried by the high bit of the last byte. The decode is
// permissive, accepting non-minimal encodings; empty input is zero.
func ParseScriptNum(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}

	negative := b[len(b)-1]&0x80 != 0
	magnitude := make([]byte, len(b))
	for i, c := range b {
		magnitude[len(b)-1-i] = c
	}
	magnitude[0] &= 0x7f

	result := new(big.Int).SetBytes(magnitude)
	if negative {
		result.Neg(result)
	}
	return result
}
