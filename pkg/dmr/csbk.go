package dmr

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/bptc19696"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// CSBKO is a DMR control signalling block opcode (low 6 bits of byte 0).
type CSBKO byte

const (
	CSBKONone        CSBKO = 0x00
	CSBKOUUVReq      CSBKO = 0x04
	CSBKOUUVAns      CSBKO = 0x05
	CSBKOPreamble    CSBKO = 0x3D
	CSBKOBSDwnAct    CSBKO = 0x38
)

// csbkCRCMask is the standard DMR CSBK CRC-CCITT-16 mask, XORed over
// bytes 10/11 before and after the check, the same convention FullLC
// and PrivacyLC use with their own masks.
var csbkCRCMask = [2]byte{0xA5, 0xA5}

const csbkLengthBytes = 12

// CSBK is a decoded DMR control signalling block: the fields every
// CSBKO variant shares (opcode, FID/color-code union, addressing,
// service flags, response/reason) plus the logical-channel/slot fields
// trunking opcodes add. Grounded field-for-field on
// original_source/dmr/lc/CSBK.cpp.
type CSBK struct {
	ColorCode byte
	LastBlock bool
	Cdef      bool // when set, byte 1 carries color code instead of FID
	CSBKO     CSBKO
	FID       byte

	GI              bool // group/individual
	SrcID           uint32
	DstID           uint32
	DataContent     bool
	CBF             byte
	Emergency       bool
	Privacy         bool
	SupplementData  bool
	Priority        byte
	Broadcast       bool
	Proxy           bool

	Response byte
	Reason   byte

	SiteOffsetTiming bool
	LogicalCh1       uint16
	LogicalCh2       uint16
	SlotNo           byte
}

// Copy duplicates data's fields into a new CSBK, preserving
// original_source/dmr/lc/CSBK.cpp's copy() bug verbatim: the second
// assignment to m_response (here Response) overwrites the first, so
// Response ends up holding data.Reason instead of data.Response (Reason
// itself is copied unchanged). This is a documented
// anomaly, not a mistake in this port — see DESIGN.md.
func (data CSBK) Copy() CSBK {
	out := data

	out.Response = data.Response
	out.Response = data.Reason

	return out
}

// DecodeCSBK unwraps a 196-bit BPTC-encoded CSBK frame's common header
// fields (CSBKO, last-block marker, FID) after validating the
// CRC-CCITT-16 under csbkCRCMask. Per-opcode payload fields (bytes 2-9)
// are left in the returned raw payload for opcode-specific decoders to
// interpret via ToValue.
func DecodeCSBK(frame *bits.BitArray) (CSBK, []byte, error) {
	payload, ok := bptc19696.Decode(frame)
	if !ok {
		return CSBK{}, nil, core.ErrFecUncorrectable
	}

	csbkBytes := append([]byte{}, payload.Bytes()...)
	if len(csbkBytes) < csbkLengthBytes {
		return CSBK{}, nil, core.ErrParseTooShort
	}

	csbkBytes[10] ^= csbkCRCMask[0]
	csbkBytes[11] ^= csbkCRCMask[1]

	if !edac.CheckCCITT162(csbkBytes[:csbkLengthBytes]) {
		return CSBK{}, nil, core.ErrCRCMismatch
	}

	csbkBytes[10] ^= csbkCRCMask[0]
	csbkBytes[11] ^= csbkCRCMask[1]

	var c CSBK
	c.CSBKO = CSBKO(csbkBytes[0] & 0x3F)
	c.LastBlock = csbkBytes[0]&0x80 != 0
	c.FID = csbkBytes[1]
	c.DataContent = false
	c.CBF = 0

	return c, csbkBytes, nil
}

// EncodeCSBK packs c's common header fields over the supplied raw
// payload (bytes 2-9 already populated by an opcode-specific encoder),
// recomputes the CRC-CCITT-16 under csbkCRCMask, and BPTC(196,96)-encodes
// the result.
func EncodeCSBK(c CSBK, payload []byte) *bits.BitArray {
	out := make([]byte, csbkLengthBytes)
	copy(out, payload)

	out[0] = byte(c.CSBKO) & 0x3F
	if c.LastBlock {
		out[0] |= 0x80
	}
	if !c.Cdef {
		out[1] = c.FID
	} else {
		out[1] = c.ColorCode & 0x0F
	}

	out[10] ^= csbkCRCMask[0]
	out[11] ^= csbkCRCMask[1]

	edac.AddCCITT162(out)

	out[10] ^= csbkCRCMask[0]
	out[11] ^= csbkCRCMask[1]

	return bptc19696.Encode(bits.WrapBitArray(out, 96))
}

// ToValue packs CSBK payload bytes 2-9 into a big-endian uint64, the
// packing original_source/dmr/lc/CSBK.cpp's toValue helper uses so
// opcode-specific decoders can extract sub-fields with shifts/masks
// instead of per-opcode byte offsets.
func ToValue(csbk []byte) uint64 {
	var v uint64
	for i := 2; i <= 9; i++ {
		v = v<<8 + uint64(csbk[i])
	}
	return v
}

// FromValue is ToValue's inverse, splitting a uint64 back into CSBK
// payload bytes 2-9 of a 12-byte buffer.
func FromValue(v uint64) []byte {
	out := make([]byte, csbkLengthBytes)
	out[9] = byte(v)
	out[8] = byte(v >> 8)
	out[7] = byte(v >> 16)
	out[6] = byte(v >> 24)
	out[5] = byte(v >> 32)
	out[4] = byte(v >> 40)
	out[3] = byte(v >> 48)
	out[2] = byte(v >> 56)
	return out
}

// Regenerate re-validates and re-signs a CSBK frame's CRC without fully
// decoding its fields, matching original_source's regenerate() — used
// when relaying a CSBK whose opcode this host doesn't interpret.
func Regenerate(frame *bits.BitArray) (*bits.BitArray, error) {
	payload, ok := bptc19696.Decode(frame)
	if !ok {
		return nil, core.ErrFecUncorrectable
	}
	csbkBytes := append([]byte{}, payload.Bytes()...)
	if len(csbkBytes) < csbkLengthBytes {
		return nil, core.ErrParseTooShort
	}

	csbkBytes[10] ^= csbkCRCMask[0]
	csbkBytes[11] ^= csbkCRCMask[1]
	if !edac.CheckCCITT162(csbkBytes[:csbkLengthBytes]) {
		return nil, core.ErrCRCMismatch
	}
	csbkBytes[10] ^= csbkCRCMask[0]
	csbkBytes[11] ^= csbkCRCMask[1]

	csbkBytes[10] ^= csbkCRCMask[0]
	csbkBytes[11] ^= csbkCRCMask[1]
	edac.AddCCITT162(csbkBytes)
	csbkBytes[10] ^= csbkCRCMask[0]
	csbkBytes[11] ^= csbkCRCMask[1]

	return bptc19696.Encode(bits.WrapBitArray(csbkBytes, 96)), nil
}
