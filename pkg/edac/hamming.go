package edac

// Hamming implements the four block codes spec.md §4.1 lists:
// (15,11,3), (16,11,4) (SECDED, an extended (15,11,3) plus an overall
// parity bit), (17,12,3), and (24,12,3). Each is built from a systematic
// parity-check matrix assigning every data position a distinct nonzero
// column vector over GF(2); decode computes the syndrome against the
// received word and, for a nonzero syndrome matching a known column,
// flips that single bit. A syndrome matching no column is an
// uncorrectable (detected, not correctable) error.

type hammingCode struct {
	n, k int
	cols [][]bool // one column (length m = n-k) per data position, MSB first
}

func buildHamming(n, k int) *hammingCode {
	m := n - k
	cols := make([][]bool, k)
	val := 1
	for i := 0; i < k; i++ {
		// Skip pure powers of two so the assignment resembles the classic
		// construction where unit-weight columns are reserved for parity
		// positions; for (15,11,3) this uses exactly the 11 remaining
		// nonzero 4-bit columns.
		for isPowerOfTwo(val) {
			val++
		}
		cols[i] = intToCol(val, m)
		val++
	}
	return &hammingCode{n: n, k: k, cols: cols}
}

func isPowerOfTwo(v int) bool { return v != 0 && v&(v-1) == 0 }

func intToCol(v, m int) []bool {
	col := make([]bool, m)
	for i := 0; i < m; i++ {
		col[i] = v&(1<<(m-1-i)) != 0
	}
	return col
}

func xorCol(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] != b[i]
	}
	return out
}

func colEqual(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func colZero(a []bool) bool {
	for _, v := range a {
		if v {
			return false
		}
	}
	return true
}

var (
	hamming15_11 = buildHamming(15, 11)
	hamming17_12 = buildHamming(17, 12)
	hamming24_12 = buildHamming(24, 12)
)

// parityColForPos returns the full-codeword syndrome column for position
// pos (0-indexed, data positions first then parity positions).
func (h *hammingCode) parityColForPos(pos int) []bool {
	if pos < h.k {
		return h.cols[pos]
	}
	m := h.n - h.k
	return intToCol(1<<uint(m-1-(pos-h.k)), m)
}

// encode computes the n-bit systematic codeword (data || parity) for a
// k-bit data vector.
func (h *hammingCode) encode(data []bool) []bool {
	m := h.n - h.k
	parity := make([]bool, m)
	for i := 0; i < h.k; i++ {
		if data[i] {
			parity = xorCol(parity, h.cols[i])
		}
	}
	out := make([]bool, h.n)
	copy(out, data)
	copy(out[h.k:], parity)
	return out
}

// decode returns the corrected data bits and whether the codeword was
// correctable (zero or single-bit error).
func (h *hammingCode) decode(word []bool) ([]bool, bool) {
	m := h.n - h.k
	syn := make([]bool, m)
	for i := 0; i < h.n; i++ {
		if word[i] {
			syn = xorCol(syn, h.parityColForPos(i))
		}
	}
	corrected := make([]bool, h.n)
	copy(corrected, word)
	if !colZero(syn) {
		found := -1
		for i := 0; i < h.n; i++ {
			if colEqual(syn, h.parityColForPos(i)) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		corrected[found] = !corrected[found]
	}
	return corrected[:h.k], true
}

// Decode15113 single-error-corrects a 15-bit Hamming(15,11,3) codeword.
func Decode15113(word []bool) ([]bool, bool) { return hamming15_11.decode(word) }

// Encode15113 encodes 11 data bits into a 15-bit Hamming(15,11,3) codeword.
func Encode15113(data []bool) []bool { return hamming15_11.encode(data) }

// Decode17123 single-error-corrects a 17-bit Hamming(17,12,3) codeword.
func Decode17123(word []bool) ([]bool, bool) { return hamming17_12.decode(word) }

// Encode17123 encodes 12 data bits into a 17-bit Hamming(17,12,3) codeword.
func Encode17123(data []bool) []bool { return hamming17_12.encode(data) }

// Decode24123 single-error-corrects a 24-bit Hamming(24,12,3) codeword.
func Decode24123(word []bool) ([]bool, bool) { return hamming24_12.decode(word) }

// Encode24123 encodes 12 data bits into a 24-bit Hamming(24,12,3) codeword.
func Encode24123(data []bool) []bool { return hamming24_12.encode(data) }

// Decode16114 single-error-corrects (and double-error-detects) a 16-bit
// extended Hamming(16,11,4) codeword: the inner 15 bits are a
// Hamming(15,11,3) codeword and bit 15 is an overall even-parity bit over
// all 16 bits. Returns false only when two or more bits are in error.
func Decode16114(word []bool) ([]bool, bool) {
	inner := word[:15]
	overall := word[15]

	parity := overall
	for _, b := range word[:15] {
		if b {
			parity = !parity
		}
	}
	// parity is now true iff the received word (all 16 bits) has odd
	// parity, i.e. iff there is an odd number of bit errors.

	syn := make([]bool, 4)
	for i := 0; i < 15; i++ {
		if inner[i] {
			syn = xorCol(syn, hamming15_11.parityColForPos(i))
		}
	}
	synZero := colZero(syn)

	switch {
	case synZero && !parity:
		// No error.
		return append([]bool{}, word[:11]...), true
	case !synZero && parity:
		// Single-bit error within the inner 15 bits; correct it.
		corrected := append([]bool{}, inner...)
		found := -1
		for i := 0; i < 15; i++ {
			if colEqual(syn, hamming15_11.parityColForPos(i)) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		corrected[found] = !corrected[found]
		return corrected[:11], true
	case synZero && parity:
		// The overall parity bit itself was in error; data unaffected.
		return append([]bool{}, word[:11]...), true
	default:
		// Non-zero syndrome with even overall parity: a detected but
		// uncorrectable double-bit error.
		return nil, false
	}
}

// Encode16114 encodes 11 data bits into a 16-bit extended Hamming(16,11,4)
// codeword (inner Hamming(15,11,3) plus an overall even-parity bit).
func Encode16114(data []bool) []bool {
	inner := hamming15_11.encode(data)
	parity := false
	for _, b := range inner {
		if b {
			parity = !parity
		}
	}
	out := make([]bool, 16)
	copy(out, inner)
	out[15] = parity
	return out
}
