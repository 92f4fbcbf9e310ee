// Package nxdn implements the NXDN Common Access Channel (CAC): the
// control-channel carrier that multiplexes RCCH/RTCH signalling onto a
// shared convolutionally-coded, interleaved physical channel.
//
// Grounded on original_source/nxdn/channel/CAC.{cpp,h}. No NXDNDefines.h
// was present in the retrieved pack, so several bit-width constants
// below (cacDataBits, cacChainbackBits, the 4 trailing "guard" symbol
// pairs decode() feeds past its own chainback length) are reconstructed
// from the loop arithmetic CAC.cpp's decode()/encode() bodies directly
// expose, not copied from a header. See DESIGN.md.
package nxdn

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// interleaveTableIn is CAC.cpp's INTERLEAVE_TABLE_IN, ported verbatim: a
// 252-entry bit-position permutation deinterleaving the convolutionally
// coded CAC payload before Viterbi decode.
var interleaveTableIn = [252]int{
	0, 21, 42, 63, 84, 105, 126, 147, 168, 189, 210, 231,
	1, 22, 43, 64, 85, 106, 127, 148, 169, 190, 211, 232,
	2, 23, 44, 65, 86, 107, 128, 149, 170, 191, 212, 233,
	3, 24, 45, 66, 87, 108, 129, 150, 171, 192, 213, 234,
	4, 25, 46, 67, 88, 109, 130, 151, 172, 193, 214, 235,
	5, 26, 47, 68, 89, 110, 131, 152, 173, 194, 215, 236,
	6, 27, 48, 69, 90, 111, 132, 153, 174, 195, 216, 237,
	7, 28, 49, 70, 91, 112, 133, 154, 175, 196, 217, 238,
	8, 29, 50, 71, 92, 113, 134, 155, 176, 197, 218, 239,
	9, 30, 51, 72, 93, 114, 135, 156, 177, 198, 219, 240,
	10, 31, 52, 73, 94, 115, 136, 157, 178, 199, 220, 241,
	11, 32, 53, 74, 95, 116, 137, 158, 179, 200, 221, 242,
	12, 33, 54, 75, 96, 117, 138, 159, 180, 201, 222, 243,
	13, 34, 55, 76, 97, 118, 139, 160, 181, 202, 223, 244,
	14, 35, 56, 77, 98, 119, 140, 161, 182, 203, 224, 245,
	15, 36, 57, 78, 99, 120, 141, 162, 183, 204, 225, 246,
	16, 37, 58, 79, 100, 121, 142, 163, 184, 205, 226, 247,
	17, 38, 59, 80, 101, 122, 143, 164, 185, 206, 227, 248,
	18, 39, 60, 81, 102, 123, 144, 165, 186, 207, 228, 249,
	19, 40, 61, 82, 103, 124, 145, 166, 187, 208, 229, 250,
	20, 41, 62, 83, 104, 125, 146, 167, 188, 209, 230, 251,
}

// interleaveTableOut is CAC.cpp's INTERLEAVE_TABLE_OUT, ported verbatim —
// the 300-entry long-form output interleave. It is kept as reference
// data, alongside punctureListOut/punctureListLongIn below, but is not
// wired into EncodeCAC/DecodeCAC: CAC.cpp's own decode() never
// depunctures against it either (its deinterleave uses the 252-entry
// interleaveTableIn and carries a "TODO -- Long CAC Puncturing" comment
// where depuncturing would go), and with NXDNDefines.h unavailable to
// supply the long form's true bit widths, force-fitting this table's
// implied 300/350-bit stages into this package would mean inventing
// values nowhere evidenced in the retrieved source. See DESIGN.md.
var interleaveTableOut = [300]int{
	0, 25, 50, 75, 100, 125, 150, 175, 200, 225, 250, 275,
	1, 26, 51, 76, 101, 126, 151, 176, 201, 226, 251, 276,
	2, 27, 52, 77, 102, 127, 152, 177, 202, 227, 252, 277,
	3, 28, 53, 78, 103, 128, 153, 178, 203, 228, 253, 278,
	4, 29, 54, 79, 104, 129, 154, 179, 204, 229, 254, 279,
	5, 30, 55, 80, 105, 130, 155, 180, 205, 230, 255, 280,
	6, 31, 56, 81, 106, 131, 156, 181, 206, 231, 256, 281,
	7, 32, 57, 82, 107, 132, 157, 182, 207, 232, 257, 282,
	8, 33, 58, 83, 108, 133, 158, 183, 208, 233, 258, 283,
	9, 34, 59, 84, 109, 134, 159, 184, 209, 234, 259, 284,
	10, 35, 60, 85, 110, 135, 160, 185, 210, 235, 260, 285,
	11, 36, 61, 86, 111, 136, 161, 186, 211, 236, 261, 286,
	12, 37, 62, 87, 112, 137, 162, 187, 212, 237, 262, 287,
	13, 38, 63, 88, 113, 138, 163, 188, 213, 238, 263, 288,
	14, 39, 64, 89, 114, 139, 164, 189, 214, 239, 264, 289,
	15, 40, 65, 90, 115, 140, 165, 190, 215, 240, 265, 290,
	16, 41, 66, 91, 116, 141, 166, 191, 216, 241, 266, 291,
	17, 42, 67, 92, 117, 142, 167, 192, 217, 242, 267, 292,
	18, 43, 68, 93, 118, 143, 168, 193, 218, 243, 268, 293,
	19, 44, 69, 94, 119, 144, 169, 194, 219, 244, 269, 294,
	20, 45, 70, 95, 120, 145, 170, 195, 220, 245, 270, 295,
	21, 46, 71, 96, 121, 146, 171, 196, 221, 246, 271, 296,
	22, 47, 72, 97, 122, 147, 172, 197, 222, 247, 272, 297,
	23, 48, 73, 98, 123, 148, 173, 198, 223, 248, 273, 298,
	24, 49, 74, 99, 124, 149, 174, 199, 224, 249, 274, 299,
}

// punctureListOut is CAC.cpp's PUNCTURE_LIST_OUT, ported verbatim as
// unwired reference data (see interleaveTableOut).
var punctureListOut = [50]int{
	3, 11, 17, 25, 31, 39, 45, 53, 59, 67,
	73, 81, 87, 95, 101, 109, 115, 123, 129, 137,
	143, 151, 157, 165, 171, 179, 185, 193, 199, 207,
	213, 221, 227, 235, 241, 249, 255, 263, 269, 277,
	283, 291, 297, 305, 311, 319, 325, 333, 339, 347,
}

// punctureListLongIn is CAC.cpp's PUNCTURE_LIST_LONG_IN, ported verbatim
// as unwired reference data (see interleaveTableOut).
var punctureListLongIn = [60]int{
	1, 7, 9, 11, 19, 27, 33, 35, 37, 45,
	53, 59, 61, 63, 71, 79, 85, 87, 89, 97,
	105, 111, 113, 115, 123, 131, 137, 139, 141, 149,
	157, 163, 165, 167, 175, 183, 189, 191, 193, 201,
	209, 215, 217, 219, 227, 235, 241, 243, 245, 253,
	261, 267, 269, 271, 279, 287, 293, 295, 297, 305,
}

// cacChainbackBits is the bit count DecodeCAC's Viterbi chainback
// unwinds: 102 RAN/structure/payload bits + 16 CRC bits + 4 trailing
// bits that (per the byte offsets decode() reads them at) carry no
// separate meaning here and are treated as the convolutional encoder's
// zero-flush tail.
const (
	cacRANBits        = 6
	cacStructureBits  = 2
	cacPayloadBits    = 94 // 102 - 8 (RAN+structure byte)
	cacDataBits       = cacStructureBits + cacRANBits + cacPayloadBits // 102
	cacCRCBits        = 16
	cacTailBits       = 4
	cacChainbackBits  = cacDataBits + cacCRCBits + cacTailBits // 122
	cacGuardPairs     = 4                                      // extra symbol pairs decode() feeds past chainback length
	cacSymbolPairs    = cacChainbackBits + cacGuardPairs        // 126, matches len(interleaveTableIn)/2
	cacFECBits        = cacSymbolPairs * 2                      // 252, matches len(interleaveTableIn)

	// NXDN structure field values (§ structure, 2 bits).
	StructureRCCHSingle = 0
)

// CAC is a decoded NXDN Common Access Channel: radio access number,
// structure, the opaque signalling payload it carries (RCCH/UDCH
// content this package does not interpret), and the collision-control
// fields the post-FEC control byte adds.
type CAC struct {
	RAN       byte
	Structure byte
	Payload   [12]byte // cacPayloadBits (94 bits) right-justified in 12 bytes

	IdleBusy     bool
	TxContinuous bool
	Receive      bool
	RxCRC        uint16
}

// DecodeCAC deinterleaves, Viterbi-decodes and CRC-checks a CAC frame.
// frame must hold at least cacFECBits bits of FEC payload followed by
// the 3-byte post-FEC control field, already isolated from the frame
// sync word and LICH that precede it on the air.
func DecodeCAC(frame []byte) (CAC, error) {
	if len(frame)*8 < cacFECBits+24 {
		return CAC{}, core.ErrParseTooShort
	}
	raw := bits.WrapBitArray(frame, cacFECBits)

	deint := bits.NewBitArray(cacFECBits)
	for i := 0; i < cacFECBits; i++ {
		deint.SetBit(uint(i), raw.GetBit(uint(interleaveTableIn[i])))
	}

	v := edac.NewViterbi(cacSymbolPairs)
	v.Start()
	for i := 0; i < cacSymbolPairs; i++ {
		s0 := bitVal(deint.GetBit(uint(2 * i)))
		s1 := bitVal(deint.GetBit(uint(2*i + 1)))
		v.Decode(s0, s1)
	}

	decoded := make([]byte, (cacChainbackBits+7)/8)
	v.Chainback(decoded, cacChainbackBits)
	data := bits.WrapBitArray(decoded, cacChainbackBits)

	if !edac.CheckCRC16(data, cacDataBits) {
		return CAC{}, core.ErrCRCMismatch
	}

	var c CAC
	c.Structure = byte(data.GetBitsBE(0, cacStructureBits))
	c.RAN = byte(data.GetBitsBE(cacStructureBits, cacRANBits))
	payload := packPayload(data)
	c.Payload = payload
	c.RxCRC = uint16(data.GetBitsBE(cacDataBits, cacCRCBits))

	controlOffset := uint(cacFECBits)
	control := bits.WrapBitArray(frame, controlOffset+24)
	idleBusy := control.GetBitsBE(controlOffset, 2)
	txContinuous := control.GetBitsBE(controlOffset+2, 2)
	receive := control.GetBitsBE(controlOffset+6, 2)
	c.IdleBusy = idleBusy == 0x03
	c.TxContinuous = txContinuous == 0x03
	c.Receive = receive == 0x03

	return c, nil
}

// EncodeCAC Viterbi-encodes and interleaves c into a CAC frame, writing
// the 3-byte post-FEC control field after it. It is the exact inverse
// of DecodeCAC's short-form pipeline (see the package doc comment for
// why the long-form puncture/interleave-out tables are not used here).
func EncodeCAC(c CAC) []byte {
	data := bits.NewBitArray(cacChainbackBits)
	data.SetBitsBE(0, cacStructureBits, uint32(c.Structure))
	data.SetBitsBE(cacStructureBits, cacRANBits, uint32(c.RAN))
	unpackPayload(data, c.Payload)
	edac.AddCRC16(data, cacDataBits)

	encIn := make([]byte, (cacSymbolPairs+7)/8)
	for i := 0; i < cacChainbackBits; i++ {
		if data.GetBit(uint(i)) {
			bits.WriteBit(encIn, uint(i), true)
		}
	}
	encOut := make([]byte, (cacFECBits+7)/8)
	edac.EncodeConvolution(encIn, encOut, cacSymbolPairs)
	encBits := bits.WrapBitArray(encOut, cacFECBits)

	frame := bits.NewBitArray(cacFECBits + 24)
	for i := 0; i < cacFECBits; i++ {
		frame.SetBit(uint(interleaveTableIn[i]), encBits.GetBit(uint(i)))
	}

	controlOffset := uint(cacFECBits)
	frame.SetBitsBE(controlOffset, 2, boolBits2(c.IdleBusy))
	frame.SetBitsBE(controlOffset+2, 2, boolBits2(c.TxContinuous))
	frame.SetBitsBE(controlOffset+4, 2, parityBits(c.IdleBusy, c.TxContinuous))
	frame.SetBitsBE(controlOffset+6, 2, boolBits2(c.Receive))
	frame.SetBitsBE(controlOffset+8, 16, uint32(c.RxCRC))

	return frame.Bytes()
}

func bitVal(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// boolBits2 mirrors CAC.cpp's "(flag ? 0x03U : 0x01U)" two-bit encoding:
// the low bit is always set, the high bit carries the flag.
func boolBits2(b bool) uint32 {
	if b {
		return 0x03
	}
	return 0x01
}

// parityBits mirrors CAC.cpp's encode(): parity is 0x01 when idleBusy
// and txContinuous are both set, 0x03 otherwise.
func parityBits(idleBusy, txContinuous bool) uint32 {
	if idleBusy && txContinuous {
		return 0x01
	}
	return 0x03
}

func packPayload(data *bits.BitArray) [12]byte {
	var p [12]byte
	tmp := bits.NewBitArray(96)
	for i := uint(0); i < cacPayloadBits; i++ {
		tmp.SetBit(i, data.GetBit(cacStructureBits+cacRANBits+i))
	}
	copy(p[:], tmp.Bytes())
	return p
}

func unpackPayload(data *bits.BitArray, payload [12]byte) {
	tmp := bits.WrapBitArray(payload[:], cacPayloadBits)
	for i := uint(0); i < cacPayloadBits; i++ {
		data.SetBit(cacStructureBits+cacRANBits+i, tmp.GetBit(i))
	}
}
