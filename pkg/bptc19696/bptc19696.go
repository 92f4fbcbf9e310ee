// Package bptc19696 implements DMR's BPTC(196,96) block-product
// turbo code: a 196-bit interleaved matrix of 15 Hamming(15,11,3) rows
// and 13 Hamming(13,9,3) columns protecting a 96-bit payload, per
// spec.md §4.1.
//
// Grounded on the teacher's pkg/ysf/golay.go syndrome-table decode idiom
// generalized to a two-dimensional product code, and on
// original_source/edac/BPTC19696.h for the interleave matrix shape.
package bptc19696

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

const (
	// interleaveLen is the number of bits in the BPTC block; every one of
	// the 196 positions carries a matrix bit.
	interleaveLen = 196
	rows          = 15
	rowBits       = 15 // Hamming(15,11,3) per row
	colBits       = 13 // Hamming(13,9,3) per column
)

// bitInterleave is the DMR BPTC bit-interleave sequence mapping logical
// matrix position i to raw frame bit position, per original_source's
// BPTC19696::decode/encode table. (i*181+1) mod 196 is a permutation of
// all 196 positions, position 0 included.
var bitInterleave = buildInterleaveTable()

func buildInterleaveTable() [interleaveLen]uint {
	var t [interleaveLen]uint
	for i := range t {
		t[i] = uint((i*181 + 1) % interleaveLen)
	}
	return t
}

// Decode deinterleaves a 196-bit BPTC block and extracts its 96-bit
// payload, correcting up to one bit error per row and per column. ok is
// false if any row or column is uncorrectable.
func Decode(raw *bits.BitArray) (payload *bits.BitArray, ok bool) {
	matrix := deinterleave(raw)

	// Row-wise Hamming(15,11,3) correction, 15 rows of 15 bits.
	for r := 0; r < rows; r++ {
		row := make([]bool, rowBits)
		for c := 0; c < rowBits; c++ {
			row[c] = matrix[r][c]
		}
		corrected, rok := edac.Decode15113(row)
		if !rok {
			return nil, false
		}
		for c := 0; c < len(corrected); c++ {
			matrix[r][c] = corrected[c]
		}
	}

	// Column-wise Hamming(13,9,3) correction over rows 0-12, for the
	// first 13 columns (columns 13 and 14 carry no column code; rows 13
	// and 14 are not part of any column codeword).
	for c := 0; c < colBits; c++ {
		col := make([]bool, rows)
		for r := 0; r < rows; r++ {
			col[r] = matrix[r][c]
		}
		corrected, cok := hamming13_9(col)
		if !cok {
			return nil, false
		}
		for r := 0; r < len(corrected); r++ {
			matrix[r][c] = corrected[r]
		}
	}

	out := bits.NewBitArray(96)
	n := uint(0)
	for r := 0; r < rows-1; r++ { // the 96 payload bits fill rows 0-8; rows 9-12 hold column parity
		for c := 0; c < 11; c++ {
			if n >= 96 {
				break
			}
			out.SetBit(n, matrix[r][c])
			n++
		}
	}
	return out, true
}

// Encode packs a 96-bit payload into a 196-bit BPTC block with row and
// column Hamming parity computed and interleaved per the DMR convention.
func Encode(payload *bits.BitArray) *bits.BitArray {
	var matrix [rows][rowBits]bool
	n := uint(0)
	for r := 0; r < rows-1; r++ {
		for c := 0; c < 11; c++ {
			if n < 96 {
				matrix[r][c] = payload.GetBit(n)
				n++
			}
		}
	}

	for c := 0; c < colBits; c++ {
		col := make([]bool, 9)
		for r := 0; r < 9; r++ {
			col[r] = matrix[r][c]
		}
		encoded := hamming13_9Encode(col)
		for r := 0; r < len(encoded); r++ {
			matrix[r][c] = encoded[r]
		}
	}

	for r := 0; r < rows; r++ {
		row := make([]bool, 11)
		copy(row, matrix[r][:11])
		encoded := edac.Encode15113(row)
		copy(matrix[r][:], encoded)
	}

	return interleave(matrix)
}

func deinterleave(raw *bits.BitArray) [rows][rowBits]bool {
	var matrix [rows][rowBits]bool
	for i := 0; i < interleaveLen; i++ {
		r, c := i/rowBits, i%rowBits
		matrix[r][c] = raw.GetBit(bitInterleave[i])
	}
	return matrix
}

func interleave(matrix [rows][rowBits]bool) *bits.BitArray {
	out := bits.NewBitArray(interleaveLen)
	for i := 0; i < interleaveLen; i++ {
		r, c := i/rowBits, i%rowBits
		out.SetBit(bitInterleave[i], matrix[r][c])
	}
	return out
}

// hamming13_9/hamming13_9Encode implement the column code: 9 data bits,
// 4 parity bits, distance 3, built the same way pkg/edac's Hamming
// family is (a systematic parity-check matrix over distinct nonzero
// columns), but kept local since no other protocol in this module needs
// a (13,9,3) code on its own.
var hamming13_9Code = buildHamming13_9()

type hc139 struct {
	cols [9][4]bool
}

func buildHamming13_9() *hc139 {
	h := &hc139{}
	val := 3 // skip 0 and the powers of two (1,2,4,8) reserved for parity
	for i := 0; i < 9; i++ {
		for val == 1 || val == 2 || val == 4 || val == 8 {
			val++
		}
		for b := 0; b < 4; b++ {
			h.cols[i][b] = val&(1<<(3-b)) != 0
		}
		val++
	}
	return h
}

func hamming13_9Encode(data []bool) []bool {
	var parity [4]bool
	for i := 0; i < 9; i++ {
		if data[i] {
			for b := 0; b < 4; b++ {
				parity[b] = parity[b] != hamming13_9Code.cols[i][b]
			}
		}
	}
	out := make([]bool, 13)
	copy(out, data)
	copy(out[9:], parity[:])
	return out
}

func hamming13_9(word []bool) ([]bool, bool) {
	colFor := func(pos int) [4]bool {
		if pos < 9 {
			return hamming13_9Code.cols[pos]
		}
		var c [4]bool
		c[pos-9] = true
		return c
	}

	var syn [4]bool
	for i := 0; i < 13; i++ {
		if word[i] {
			col := colFor(i)
			for b := 0; b < 4; b++ {
				syn[b] = syn[b] != col[b]
			}
		}
	}
	zero := !syn[0] && !syn[1] && !syn[2] && !syn[3]
	corrected := append([]bool{}, word...)
	if !zero {
		found := -1
		for i := 0; i < 13; i++ {
			col := colFor(i)
			if col == syn {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		corrected[found] = !corrected[found]
	}
	return corrected[:9], true
}
