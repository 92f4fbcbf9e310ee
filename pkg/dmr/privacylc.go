package dmr

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/bptc19696"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// PrivacyLC is DMR's encryption-header link control: algorithm ID, key
// ID, a 4-byte message indicator seeding the stream cipher, and the
// destination address. Grounded field-for-field on
// original_source/dmr/lc/PrivacyLC.cpp's byte layout.
type PrivacyLC struct {
	Group bool
	AlgID byte
	FID   byte
	KeyID byte
	MI    [4]byte
	DstID uint32 // 24-bit
}

// DecodePrivacyLC unpacks the 10-byte privacy header payload (post-BPTC).
func DecodePrivacyLC(data []byte) PrivacyLC {
	var p PrivacyLC
	p.Group = data[0]&0x20 != 0
	p.AlgID = data[0] & 0x07
	p.FID = data[1]
	p.KeyID = data[2]
	copy(p.MI[:], data[3:7])
	p.DstID = uint32(data[7])<<16 | uint32(data[8])<<8 | uint32(data[9])
	return p
}

// Encode packs PrivacyLC into its 10-byte payload.
func (p PrivacyLC) Encode() []byte {
	data := make([]byte, 10)
	if p.Group {
		data[0] = 0x20
	}
	data[0] |= p.AlgID & 0x07
	data[1] = p.FID
	data[2] = p.KeyID
	copy(data[3:7], p.MI[:])
	data[7] = byte(p.DstID >> 16)
	data[8] = byte(p.DstID >> 8)
	data[9] = byte(p.DstID)
	return data
}

// DecodePI recovers a PrivacyLC from a 196-bit BPTC-encoded privacy
// header frame. The CRC-CCITT-16 at payload bytes 10/11 is checked only
// when those bytes are non-zero — original_source/dmr/lc/FullLC.cpp's
// decodePI notes "the network tends to zero the CRC", so a zeroed
// checksum is accepted rather than rejected as a mismatch.
func DecodePI(frame *bits.BitArray) (PrivacyLC, error) {
	payload, ok := bptc19696.Decode(frame)
	if !ok {
		return PrivacyLC{}, core.ErrFecUncorrectable
	}

	lcData := append([]byte{}, payload.Bytes()...)
	if len(lcData) < lcHeaderLengthBytes {
		return PrivacyLC{}, core.ErrParseTooShort
	}

	if lcData[10] != 0x00 || lcData[11] != 0x00 {
		lcData[10] ^= piHeaderCRCMask[0]
		lcData[11] ^= piHeaderCRCMask[1]

		if !edac.CheckCCITT162(lcData[:lcHeaderLengthBytes]) {
			return PrivacyLC{}, core.ErrCRCMismatch
		}

		lcData[10] ^= piHeaderCRCMask[0]
		lcData[11] ^= piHeaderCRCMask[1]
	}

	return DecodePrivacyLC(lcData[:10]), nil
}

// EncodePI computes the CRC-CCITT-16 over PrivacyLC's 10-byte payload
// (masked the same way decode unmasks it) and BPTC(196,96)-encodes the
// 12-byte result.
func EncodePI(p PrivacyLC) *bits.BitArray {
	lcData := make([]byte, lcHeaderLengthBytes)
	copy(lcData, p.Encode())

	lcData[10] ^= piHeaderCRCMask[0]
	lcData[11] ^= piHeaderCRCMask[1]

	edac.AddCCITT162(lcData)

	lcData[10] ^= piHeaderCRCMask[0]
	lcData[11] ^= piHeaderCRCMask[1]

	payload := bits.WrapBitArray(lcData, 96)
	return bptc19696.Encode(payload)
}
