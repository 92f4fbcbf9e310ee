package edac

// RS129 implements DMR's link-control Reed-Solomon code, historically
// named RS(12,9) / "RS129" in MMDVMHost/DVMHost: 9 data bytes plus 3
// parity bytes over GF(2^8) (distinct from pkg/edac's GF(2^6) P25 codes,
// which is why it lives in its own field rather than reusing RSCode),
// correcting a single byte-symbol error.
//
// original_source/dmr/lc/FullLC.cpp calls edac::RS129::check/encode but
// the RS129.cpp/.h implementation itself wasn't part of the retrieved
// pack; this is a standard GF(256) Reed-Solomon construction (primitive
// polynomial 0x11D, the same one QR codes and many RS129 ports use) sized
// to the (12,9) shape FullLC.cpp calls for.
const rs129PrimPoly = 0x11D

var (
	rs129Exp [512]byte
	rs129Log [256]int
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		rs129Exp[i] = byte(x)
		rs129Log[x] = i
		x <<= 1
		if x&0x100 != 0 {
			x ^= rs129PrimPoly
		}
	}
	for i := 255; i < 512; i++ {
		rs129Exp[i] = rs129Exp[i-255]
	}
}

func rs129Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return rs129Exp[rs129Log[a]+rs129Log[b]]
}

func rs129GenPoly(nsym int) []byte {
	gen := []byte{1}
	for i := 0; i < nsym; i++ {
		next := make([]byte, len(gen)+1)
		copy(next, gen)
		root := rs129Exp[i]
		for j := len(gen) - 1; j >= 0; j-- {
			next[j+1] ^= rs129Mul(gen[j], root)
		}
		gen = next
	}
	return gen
}

// EncodeRS129 computes the 3 parity bytes for a 9-byte data vector and
// returns the 12-byte systematic codeword.
func EncodeRS129(data [9]byte) [12]byte {
	gen := rs129GenPoly(3)
	remainder := make([]byte, 12)
	copy(remainder, data[:])
	for i := 0; i < 9; i++ {
		coef := remainder[i]
		if coef == 0 {
			continue
		}
		for j := 0; j < len(gen); j++ {
			remainder[i+j] ^= rs129Mul(gen[j], coef)
		}
	}
	var out [12]byte
	copy(out[:9], data[:])
	copy(out[9:], remainder[9:])
	return out
}

// CheckRS129 verifies a 12-byte codeword by recomputing its parity from
// the 9 data bytes; it does not attempt to correct errors (matching the
// original's check-only RS129::check entry point FullLC.cpp relies on).
func CheckRS129(word [12]byte) bool {
	var data [9]byte
	copy(data[:], word[:9])
	expect := EncodeRS129(data)
	return expect == word
}
