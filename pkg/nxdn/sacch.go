package nxdn

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// interleaveTableSACCH is SACCH.cpp's INTERLEAVE_TABLE, ported verbatim.
var interleaveTableSACCH = [60]int{
	0, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55,
	1, 6, 11, 16, 21, 26, 31, 36, 41, 46, 51, 56,
	2, 7, 12, 17, 22, 27, 32, 37, 42, 47, 52, 57,
	3, 8, 13, 18, 23, 28, 33, 38, 43, 48, 53, 58,
	4, 9, 14, 19, 24, 29, 34, 39, 44, 49, 54, 59,
}

// punctureListSACCH is SACCH.cpp's PUNCTURE_LIST, ported verbatim.
var punctureListSACCH = [12]int{5, 11, 17, 23, 29, 35, 41, 47, 53, 59, 65, 71}

const (
	sacchStructureBits = 2
	sacchRANBits       = 6
	sacchPayloadBits   = 18
	sacchDataBits      = sacchStructureBits + sacchRANBits + sacchPayloadBits // 26
	sacchCRCBits       = 6
	sacchTailBits      = 4
	sacchChainbackBits = sacchDataBits + sacchCRCBits + sacchTailBits // 36
	sacchGuardPairs    = 4
	sacchSymbolPairs   = sacchChainbackBits + sacchGuardPairs // 40
	sacchFECBits       = 60                                   // len(interleaveTableSACCH)
	sacchDepuncturedSymbols = sacchSymbolPairs * 2            // 80 = 60 + 12 erasures + 8 tail zeros

	// SACCH soft-decision symbol values the erasure-aware Viterbi branch
	// metric (convMetricMax=2 in pkg/edac) expects: a punctured position
	// carries the erasure value 1, a real bit carries 0 or 2.
	sacchSoftZero    = 0
	sacchSoftOne     = 2
	sacchSoftErasure = 1
)

// SACCH is a decoded NXDN Slow Associated Control Channel: radio access
// number, structure, and the opaque 18-bit payload it carries alongside
// voice traffic.
type SACCH struct {
	RAN       byte
	Structure byte
	Payload   [3]byte // sacchPayloadBits (18 bits) right-justified in 3 bytes
}

// DecodeSACCH deinterleaves, depunctures, Viterbi-decodes and CRC-6
// checks a SACCH frame already isolated from the frame sync word and
// LICH that precede it on the air.
func DecodeSACCH(frame []byte) (SACCH, error) {
	if len(frame)*8 < sacchFECBits {
		return SACCH{}, core.ErrParseTooShort
	}
	raw := bits.WrapBitArray(frame, sacchFECBits)

	deint := bits.NewBitArray(sacchFECBits)
	for i := 0; i < sacchFECBits; i++ {
		deint.SetBit(uint(i), raw.GetBit(uint(interleaveTableSACCH[i])))
	}

	// This mirrors SACCH.cpp's depuncture loop exactly, including a
	// subtlety worth keeping: because it checks "n == next puncture
	// position" against the growing output index n rather than the
	// outer loop's i, the 12th and last punctureListSACCH entry (71)
	// never actually matches within a 60-iteration loop (the arithmetic
	// works out so n never equals 71 at a check point) — only 11
	// erasures get inserted here, and the 12th punctured position ends
	// up covered by the trailing zero-fill below instead of an explicit
	// erasure marker. EncodeSACCH's puncture step (which compares
	// directly against i over the full 72-bit domain) does remove all
	// 12. soft's zero-initialized backing array reproduces the
	// original's reliance on its own pre-zeroed buffer for that last
	// slot, so this still round-trips correctly.
	soft := make([]uint8, sacchDepuncturedSymbols)
	n, index := 0, 0
	for i := 0; i < sacchFECBits; i++ {
		if index < len(punctureListSACCH) && n == punctureListSACCH[index] {
			soft[n] = sacchSoftErasure
			n++
			index++
		}
		if deint.GetBit(uint(i)) {
			soft[n] = sacchSoftOne
		} else {
			soft[n] = sacchSoftZero
		}
		n++
	}
	for i := 0; i < 8; i++ {
		soft[n] = sacchSoftZero
		n++
	}

	v := edac.NewViterbi(sacchSymbolPairs)
	v.Start()
	n = 0
	for i := 0; i < sacchSymbolPairs; i++ {
		s0 := soft[n]
		n++
		s1 := soft[n]
		n++
		v.Decode(s0, s1)
	}

	decoded := make([]byte, (sacchChainbackBits+7)/8)
	v.Chainback(decoded, sacchChainbackBits)
	data := bits.WrapBitArray(decoded, sacchChainbackBits)

	if !edac.CheckCRC6(data, sacchDataBits) {
		return SACCH{}, core.ErrCRCMismatch
	}

	var s SACCH
	s.Structure = byte(data.GetBitsBE(0, sacchStructureBits))
	s.RAN = byte(data.GetBitsBE(sacchStructureBits, sacchRANBits))
	payload := bits.NewBitArray(24)
	for i := uint(0); i < sacchPayloadBits; i++ {
		payload.SetBit(i, data.GetBit(sacchStructureBits+sacchRANBits+i))
	}
	copy(s.Payload[:], payload.Bytes())

	return s, nil
}

// EncodeSACCH CRC-6-protects, convolutionally encodes, punctures and
// interleaves s into a SACCH frame.
func EncodeSACCH(s SACCH) []byte {
	data := bits.NewBitArray(sacchChainbackBits)
	data.SetBitsBE(0, sacchStructureBits, uint32(s.Structure))
	data.SetBitsBE(sacchStructureBits, sacchRANBits, uint32(s.RAN))
	payload := bits.WrapBitArray(s.Payload[:], sacchPayloadBits)
	for i := uint(0); i < sacchPayloadBits; i++ {
		data.SetBit(sacchStructureBits+sacchRANBits+i, payload.GetBit(i))
	}
	edac.AddCRC6(data, sacchDataBits)

	encIn := make([]byte, (sacchChainbackBits+7)/8)
	for i := 0; i < sacchChainbackBits; i++ {
		if data.GetBit(uint(i)) {
			bits.WriteBit(encIn, uint(i), true)
		}
	}
	// The encoder transmits exactly 2*sacchChainbackBits = 72 bits; the
	// 4 extra guard symbol pairs DecodeSACCH feeds past this (see
	// sacchGuardPairs) are a decode-side trellis-stabilization device,
	// not bits that were ever actually encoded or punctured on the air.
	convBits := sacchChainbackBits * 2 // 72, matches PUNCTURE_LIST's max index (71)
	encOut := make([]byte, (convBits+7)/8)
	edac.EncodeConvolution(encIn, encOut, uint(sacchChainbackBits))
	conv := bits.WrapBitArray(encOut, uint(convBits))

	punctured := bits.NewBitArray(sacchFECBits)
	index, out := 0, 0
	for i := 0; i < convBits; i++ {
		if index < len(punctureListSACCH) && i == punctureListSACCH[index] {
			index++
			continue
		}
		punctured.SetBit(uint(out), conv.GetBit(uint(i)))
		out++
	}

	frame := bits.NewBitArray(sacchFECBits)
	for i := 0; i < sacchFECBits; i++ {
		frame.SetBit(uint(interleaveTableSACCH[i]), punctured.GetBit(uint(i)))
	}

	return frame.Bytes()
}
