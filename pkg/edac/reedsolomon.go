package edac

// Reed-Solomon implements the GF(2^6) codes spec.md §4.1 names: (24,12,13)
// for P25 LDU1/LDU2 voice-frame IMBE metadata (encryption sync), (24,16,9)
// for P25 link control (LDU1/LDU2/TDULC), and (36,20,17) for P25 HDU's
// larger MI+algorithm-ID+key-ID header link control. All three share one
// GF(64) field (primitive polynomial x^6+x+1) and one decoder shape:
// syndromes, Berlekamp-Massey for the error-locator polynomial, Chien
// search for its roots, and Forney's formula for the error values.

const (
	gfFieldSize = 63 // 2^6 - 1, the nonzero element count of GF(64)
	gfPrimPoly  = 0x43
)

var (
	gfExp [gfFieldSize * 2]byte
	gfLog [gfFieldSize + 1]int
)

func init() {
	x := 1
	for i := 0; i < gfFieldSize; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = i
		x <<= 1
		if x&0x40 != 0 {
			x ^= gfPrimPoly
		}
	}
	for i := gfFieldSize; i < gfFieldSize*2; i++ {
		gfExp[i] = gfExp[i-gfFieldSize]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[gfLog[a]+gfLog[b]]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[gfLog[a]+gfFieldSize-gfLog[b]]
}

func gfPow(a byte, p int) byte {
	if a == 0 {
		return 0
	}
	e := (gfLog[a] * p) % gfFieldSize
	if e < 0 {
		e += gfFieldSize
	}
	return gfExp[e]
}

func gfInv(a byte) byte { return gfExp[gfFieldSize-gfLog[a]] }

// RSCode describes a shortened Reed-Solomon code over GF(64): n total
// 6-bit symbols, k data symbols, and t = (n-k)/2 correctable symbol
// errors.
type RSCode struct {
	N, K, T int
}

var (
	RS24_12_13 = RSCode{N: 24, K: 12, T: 6}
	RS24_16_9  = RSCode{N: 24, K: 16, T: 4}
	RS36_20_17 = RSCode{N: 36, K: 20, T: 8}

	// RS12_9 is DMR's link-control Reed-Solomon, historically named
	// RS129 in MMDVMHost/DVMHost (3 parity symbols over 9 data symbols,
	// single-symbol-error correcting).
	RS12_9 = RSCode{N: 12, K: 9, T: 1}
)

// Encode computes n-k parity symbols for a k-symbol data vector (each
// symbol a 6-bit value in the low bits of a byte) using a systematic
// generator polynomial with roots at alpha^0..alpha^(n-k-1).
func (c RSCode) Encode(data []byte) []byte {
	nsym := c.N - c.K
	gen := rsGenPoly(nsym)
	msg := make([]byte, c.N)
	copy(msg, data)
	remainder := make([]byte, len(msg))
	copy(remainder, msg)
	for i := 0; i < c.K; i++ {
		coef := remainder[i]
		if coef == 0 {
			continue
		}
		for j := 0; j < len(gen); j++ {
			remainder[i+j] ^= gfMul(gen[j], coef)
		}
	}
	out := make([]byte, c.N)
	copy(out, data)
	copy(out[c.K:], remainder[c.K:])
	return out
}

// rsGenPoly returns the degree-nsym generator polynomial
// prod_{i=0}^{nsym-1} (x - alpha^i), high-degree-first.
func rsGenPoly(nsym int) []byte {
	gen := []byte{1}
	for i := 0; i < nsym; i++ {
		gen = rsPolyMulMonic(gen, gfExp[i])
	}
	return gen
}

// rsPolyMulMonic multiplies poly (high-degree-first) by (x - root).
func rsPolyMulMonic(poly []byte, root byte) []byte {
	out := make([]byte, len(poly)+1)
	copy(out, poly)
	for i := len(poly) - 1; i >= 0; i-- {
		out[i+1] ^= gfMul(poly[i], root)
	}
	return out
}

// Decode corrects up to c.T symbol errors in a received n-symbol
// codeword and returns the k data symbols. ok is false when the errors
// exceed the code's correction capability and were merely detected.
func (c RSCode) Decode(word []byte) (data []byte, ok bool) {
	nsym := c.N - c.K
	syn := make([]byte, nsym)
	anyNonzero := false
	for i := 0; i < nsym; i++ {
		var s byte
		root := gfExp[i]
		power := byte(1)
		for j := len(word) - 1; j >= 0; j-- {
			s ^= gfMul(word[j], power)
			power = gfMul(power, root)
		}
		syn[i] = s
		if s != 0 {
			anyNonzero = true
		}
	}
	if !anyNonzero {
		return append([]byte{}, word[:c.K]...), true
	}

	errLoc := rsBerlekampMassey(syn, c.T)
	if errLoc == nil {
		return nil, false
	}
	errPos := rsChienSearch(errLoc, c.N)
	if errPos == nil || len(errPos) == 0 {
		return nil, false
	}

	corrected := append([]byte{}, word...)
	if !rsForneyCorrect(corrected, syn, errLoc, errPos) {
		return nil, false
	}
	return corrected[:c.K], true
}

// rsBerlekampMassey computes the error-locator polynomial (low-degree
// first, constant term 1) from the syndrome sequence, or nil if the
// implied error count exceeds t.
func rsBerlekampMassey(syn []byte, t int) []byte {
	c := make([]byte, len(syn)+1)
	b := make([]byte, len(syn)+1)
	c[0], b[0] = 1, 1
	l, m := 0, 1
	bCoef := byte(1)

	for n := 0; n < len(syn); n++ {
		delta := syn[n]
		for i := 1; i <= l; i++ {
			delta ^= gfMul(c[i], syn[n-i])
		}
		if delta == 0 {
			m++
			continue
		}
		tCopy := append([]byte{}, c...)
		coef := gfDiv(delta, bCoef)
		for i := 0; i < len(b)-m; i++ {
			c[i+m] ^= gfMul(coef, b[i])
		}
		if 2*l <= n {
			l = n + 1 - l
			b = tCopy
			bCoef = delta
			m = 1
		} else {
			m++
		}
	}
	if l > t {
		return nil
	}
	return c[:l+1]
}

// rsChienSearch finds the roots of the error-locator polynomial by brute
// force over the n candidate symbol positions, returning the positions
// (index from the high-degree end of the codeword) that are in error.
func rsChienSearch(errLoc []byte, n int) []int {
	var pos []int
	for i := 0; i < n; i++ {
		x := gfInv(gfExp[i%gfFieldSize])
		var sum byte
		xp := byte(1)
		for _, coef := range errLoc {
			sum ^= gfMul(coef, xp)
			xp = gfMul(xp, x)
		}
		if sum == 0 {
			pos = append(pos, n-1-i)
		}
	}
	return pos
}

// rsForneyCorrect computes error magnitudes via Forney's formula and XORs
// them into word at the located positions.
func rsForneyCorrect(word []byte, syn, errLoc []byte, errPos []int) bool {
	omega := rsErrorEvaluator(syn, errLoc)
	errLocDeriv := rsFormalDerivative(errLoc)

	for _, pos := range errPos {
		xInv := gfExp[(len(word)-1-pos)%gfFieldSize]
		x := gfInv(xInv)

		var omegaVal byte
		xp := byte(1)
		for _, coef := range omega {
			omegaVal ^= gfMul(coef, xp)
			xp = gfMul(xp, x)
		}
		var derivVal byte
		xp = byte(1)
		for _, coef := range errLocDeriv {
			derivVal ^= gfMul(coef, xp)
			xp = gfMul(xp, x)
		}
		if derivVal == 0 {
			return false
		}
		magnitude := gfMul(xInv, gfDiv(omegaVal, derivVal))
		idx := pos
		if idx < 0 || idx >= len(word) {
			return false
		}
		word[idx] ^= magnitude
	}
	return true
}

// rsErrorEvaluator computes omega(x) = syn(x)*errLoc(x) mod x^(len(syn)).
func rsErrorEvaluator(syn, errLoc []byte) []byte {
	prod := make([]byte, len(syn)+len(errLoc))
	for i, sc := range syn {
		for j, lc := range errLoc {
			prod[i+j] ^= gfMul(sc, lc)
		}
	}
	if len(prod) > len(syn) {
		prod = prod[:len(syn)]
	}
	return prod
}

// rsFormalDerivative returns the formal derivative of a low-degree-first
// polynomial over GF(2^6) (odd-degree terms survive, even ones vanish).
func rsFormalDerivative(p []byte) []byte {
	if len(p) <= 1 {
		return []byte{0}
	}
	out := make([]byte, len(p)-1)
	for i := 1; i < len(p); i++ {
		if i%2 == 1 {
			out[i-1] = p[i]
		}
	}
	return out
}
