// Package p25 implements the TIA-102 Phase-1 PDU and voice-frame
// structures spec.md names: link control, trunking signalling blocks
// (TSBK/AMBT), the PDU data header, and HDU/LDU1/LDU2/TDU/TDULC voice
// super-frame codecs. All FEC runs through pkg/edac (Reed-Solomon,
// rate-1/2 and rate-3/4 Trellis) and pkg/bits.
package p25

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// PDUFormat is the packet format carried in a data header's low 5 bits.
type PDUFormat byte

const (
	PDUFmtConfirmed   PDUFormat = 0x16
	PDUFmtUnconfirmed PDUFormat = 0x15
	PDUFmtResponse    PDUFormat = 0x03
	PDUFmtAMBT        PDUFormat = 0x17
)

const pduHeaderLengthBytes = 12 // 10 header bytes + 2-byte CRC-CCITT-16

// DataHeader is a decoded P25 PDU data header: addressing, block
// framing, and the fragment/sequence numbers that tie a multi-block PDU
// together. Grounded field-for-field on
// original_source/p25/data/DataHeader.cpp.
type DataHeader struct {
	AckNeeded bool
	Outbound  bool
	Format    PDUFormat

	SAP  byte
	MFId byte
	LLId uint32 // 24-bit logical link ID

	FullMessage    bool
	BlocksToFollow byte
	PadCount       byte

	Sync  bool
	N     byte // packet sequence number
	SeqNo byte // fragment sequence number

	HeaderOffset byte
}

// DataOctets returns the payload octet count implied by Format,
// BlocksToFollow, and PadCount — 16 octets/block for confirmed PDUs, 12
// octets/block otherwise, less 4 octets and less PadCount.
func (h DataHeader) DataOctets() int {
	if h.Format == PDUFmtConfirmed {
		return 16*int(h.BlocksToFollow) - 4 - int(h.PadCount)
	}
	return 12*int(h.BlocksToFollow) - 4 - int(h.PadCount)
}

// DecodeDataHeader corrects a rate-1/2 Trellis-encoded data header frame
// and validates its CRC-CCITT-16 trailer before unpacking fields.
func DecodeDataHeader(frame []byte) (DataHeader, error) {
	header, err := trellis12Decode(frame, pduHeaderLengthBytes)
	if err != nil {
		return DataHeader{}, err
	}
	if !edac.CheckCCITT162(header) {
		return DataHeader{}, core.ErrCRCMismatch
	}

	var h DataHeader
	h.AckNeeded = header[0]&0x40 != 0
	h.Outbound = header[0]&0x20 != 0
	h.Format = PDUFormat(header[0] & 0x1F)

	h.SAP = header[1] & 0x3F
	h.MFId = header[2]

	h.LLId = uint32(header[3])<<16 | uint32(header[4])<<8 | uint32(header[5])

	h.FullMessage = header[6]&0x80 != 0
	h.BlocksToFollow = header[6] & 0x7F
	h.PadCount = header[7] & 0x1F

	h.Sync = header[8]&0x80 != 0
	h.N = (header[8] >> 4) & 0x07
	h.SeqNo = header[8] & 0x0F

	h.HeaderOffset = header[9] & 0x3F

	return h, nil
}

// EncodeDataHeader packs h into its 10-byte wire layout, appends a
// CRC-CCITT-16, and rate-1/2 Trellis-encodes the result.
//
// Byte 8's packet-sequence-number term is encoded with the same bug
// original_source/p25/data/DataHeader.cpp's encode() has: it combines
// (N<<4) with the logical AND operator instead of bitwise AND, so the
// term collapses to 0 or 1 (rather than shifting N into bits 4-6) before
// being added — arithmetically, not OR'd — onto the fragment sequence
// number. A decoder reading N back out of bits 4-6 will see zero unless
// that add happens to carry into bit 4. This is preserved verbatim
// rather than silently corrected — see DESIGN.md.
func EncodeDataHeader(h DataHeader) []byte {
	header := make([]byte, 10)

	header[0] = byte(h.Format) & 0x1F
	if h.AckNeeded {
		header[0] |= 0x40
	}
	if h.Outbound {
		header[0] |= 0x20
	}

	header[1] = (h.SAP & 0x3F) | 0xC0

	header[2] = h.MFId

	header[3] = byte(h.LLId >> 16)
	header[4] = byte(h.LLId >> 8)
	header[5] = byte(h.LLId)

	header[6] = h.BlocksToFollow & 0x7F
	if h.FullMessage {
		header[6] |= 0x80
	}

	header[7] = h.PadCount & 0x1F

	var nTerm byte
	if h.N<<4 != 0 {
		nTerm = 1
	}
	header[8] = nTerm + (h.SeqNo & 0x0F)
	if h.Sync {
		header[8] += 0x80
	}

	header[9] = h.HeaderOffset & 0x3F

	full := make([]byte, pduHeaderLengthBytes)
	copy(full, header)
	edac.AddCCITT162(full)

	return trellis12Encode(full)
}

// trellis12Decode rate-1/2 Trellis-decodes frame (a packed stream of
// 3-bit constellation symbols) back into wantBytes bytes.
func trellis12Decode(frame []byte, wantBytes int) ([]byte, error) {
	nDibits := wantBytes * 4
	symbols := unpackBits(frame, nDibits, 3)
	if len(symbols) < nDibits {
		return nil, core.ErrParseTooShort
	}
	dibits := edac.DecodeTrellis12(symbols)
	return packBits(dibits, 2, wantBytes*8), nil
}

// trellis12Encode rate-1/2 Trellis-encodes data's bytes (as 2-bit
// dibits) into a packed 3-bit-per-symbol byte stream.
func trellis12Encode(data []byte) []byte {
	dibits := unpackBits(data, len(data)*4, 2)
	symbols := edac.EncodeTrellis12(dibits)
	return packBits(symbols, 3, len(symbols)*3)
}

// unpackBits splits buf into n fields of width bits each, MSB-first.
func unpackBits(buf []byte, n int, width uint) []byte {
	arr := bits.WrapBitArray(buf, uint(len(buf))*8)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		start := uint(i) * width
		if start+width > arr.Len() {
			break
		}
		out[i] = byte(arr.GetBitsBE(start, width))
	}
	return out
}

// packBits packs a slice of width-bit fields (one per element, in the
// low bits of each byte) into a big-endian byte buffer totalBits long.
func packBits(fields []byte, width uint, totalBits int) []byte {
	out := bits.NewBitArray(uint(totalBits))
	for i, f := range fields {
		start := uint(i) * width
		if start+width > out.Len() {
			break
		}
		out.SetBitsBE(start, width, uint32(f))
	}
	return out.Bytes()
}
