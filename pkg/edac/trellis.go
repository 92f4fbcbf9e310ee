package edac

// Trellis implements the two constant-distance constellation codes P25
// voice/control framing uses: a rate-1/2 dibit code (an 8-symbol
// constellation, 4 valid output symbols per encoder state) and a rate-3/4
// tribit code (a 16-symbol constellation, 8 valid output symbols per
// state). Unlike pkg/edac's convolutional code, decode here
// is NOT a Viterbi path search: each received symbol is corrected by
// picking the nearest table entry for the current state (a
// constant-distance lookup), and the state advances on whichever input
// produced that entry. spec.md §4.1 calls this out explicitly as a
// simpler decode than the NXDN/DMR convolutional code gets.

// rate12Table[state][dibit] gives the 3-bit constellation symbol (0..7)
// transmitted for that state/input pair; rate12Next[state][dibit] gives
// the following encoder state.
var rate12Table = [4][4]byte{
	{0, 2, 4, 6},
	{1, 3, 5, 7},
	{3, 1, 7, 5},
	{2, 0, 6, 4},
}

var rate12Next = [4][4]byte{
	{0, 1, 2, 3},
	{0, 1, 2, 3},
	{0, 1, 2, 3},
	{0, 1, 2, 3},
}

// rate34Table[state][tribit] gives the 4-bit constellation symbol
// (0..15); rate34Next gives the following state out of 4 possible.
var rate34Table = [4][8]byte{
	{0, 2, 4, 6, 8, 10, 12, 14},
	{1, 3, 5, 7, 9, 11, 13, 15},
	{5, 7, 1, 3, 13, 15, 9, 11},
	{4, 6, 0, 2, 12, 14, 8, 10},
}

var rate34Next = [4][8]byte{
	{0, 1, 2, 3, 0, 1, 2, 3},
	{0, 1, 2, 3, 0, 1, 2, 3},
	{0, 1, 2, 3, 0, 1, 2, 3},
	{0, 1, 2, 3, 0, 1, 2, 3},
}

func popcountByte(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

// EncodeTrellis12 encodes a sequence of 2-bit dibits into the matching
// sequence of 3-bit constellation symbols, starting from state 0.
func EncodeTrellis12(dibits []byte) []byte {
	out := make([]byte, len(dibits))
	state := byte(0)
	for i, d := range dibits {
		d &= 0x3
		out[i] = rate12Table[state][d]
		state = rate12Next[state][d]
	}
	return out
}

// DecodeTrellis12 corrects a received sequence of 3-bit constellation
// symbols to the nearest valid codeword per state, via a constant-distance
// table lookup, and returns the recovered dibits.
func DecodeTrellis12(symbols []byte) []byte {
	out := make([]byte, len(symbols))
	state := byte(0)
	for i, sym := range symbols {
		best := byte(0)
		bestDist := 9
		for d := byte(0); d < 4; d++ {
			dist := popcountByte(rate12Table[state][d] ^ (sym & 0x7))
			if dist < bestDist {
				bestDist = dist
				best = d
			}
		}
		out[i] = best
		state = rate12Next[state][best]
	}
	return out
}

// EncodeTrellis34 encodes a sequence of 3-bit tribits into the matching
// sequence of 4-bit constellation symbols, starting from state 0.
func EncodeTrellis34(tribits []byte) []byte {
	out := make([]byte, len(tribits))
	state := byte(0)
	for i, t := range tribits {
		t &= 0x7
		out[i] = rate34Table[state][t]
		state = rate34Next[state][t]
	}
	return out
}

// DecodeTrellis34 corrects a received sequence of 4-bit constellation
// symbols to the nearest valid codeword per state and returns the
// recovered tribits.
func DecodeTrellis34(symbols []byte) []byte {
	out := make([]byte, len(symbols))
	state := byte(0)
	for i, sym := range symbols {
		best := byte(0)
		bestDist := 9
		for t := byte(0); t < 8; t++ {
			dist := popcountByte(rate34Table[state][t] ^ (sym & 0xF))
			if dist < bestDist {
				bestDist = dist
				best = t
			}
		}
		out[i] = best
		state = rate34Next[state][best]
	}
	return out
}
