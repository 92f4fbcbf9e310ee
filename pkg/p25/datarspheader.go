package p25

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// ACK response class/type values a DataRspHeader carries.
const (
	AckClassNACK byte = 0x00

	AckTypeNACKIllegal byte = 0x00
)

// DataRspHeader is the rate-1/2 Trellis-coded PDU header a Response
// (NACK/ACK) PDU uses instead of the general DataHeader — source and
// destination logical link IDs with no block-size table, since a
// response PDU always carries one block. Grounded on
// original_source/p25/data/DataRspHeader.cpp.
type DataRspHeader struct {
	Outbound bool

	RspClass  byte
	RspType   byte
	RspStatus byte

	MFId byte
	LLId uint32

	Extended       bool
	BlocksToFollow byte

	SrcLLId uint32
}

// DataOctets returns the payload octet count this header's
// BlocksToFollow implies, per DataRspHeader::setBlocksToFollow's
// recalculation.
func (h DataRspHeader) DataOctets() int {
	return 16*int(h.BlocksToFollow) - 4
}

// DecodeDataRspHeader rate-1/2 Trellis-corrects a response header frame
// and validates its CRC-CCITT-16 before unpacking fields.
func DecodeDataRspHeader(frame []byte) (DataRspHeader, error) {
	header, err := trellis12Decode(frame, pduHeaderLengthBytes)
	if err != nil {
		return DataRspHeader{}, err
	}
	if !edac.CheckCCITT162(header) {
		return DataRspHeader{}, core.ErrCRCMismatch
	}

	var h DataRspHeader
	h.Outbound = header[0]&0x20 != 0

	h.RspClass = (header[1] >> 6) & 0x03
	h.RspType = (header[1] >> 3) & 0x07
	h.RspStatus = header[1] & 0x07

	h.MFId = header[2]

	h.LLId = uint32(header[3])<<16 | uint32(header[4])<<8 | uint32(header[5])

	h.Extended = header[6]&0x80 != 0
	h.BlocksToFollow = header[6] & 0x7F

	h.SrcLLId = uint32(header[7])<<16 | uint32(header[8])<<8 | uint32(header[9])

	return h, nil
}

// EncodeDataRspHeader packs h into its 10-byte wire layout, appends a
// CRC-CCITT-16, and rate-1/2 Trellis-encodes the result.
func EncodeDataRspHeader(h DataRspHeader) []byte {
	header := make([]byte, 10)

	header[0] = byte(PDUFmtResponse) & 0x1F
	if h.Outbound {
		header[0] |= 0x20
	}

	header[1] = (h.RspClass&0x03)<<6 | (h.RspType&0x07)<<3 | (h.RspStatus & 0x07)

	header[2] = h.MFId

	header[3] = byte(h.LLId >> 16)
	header[4] = byte(h.LLId >> 8)
	header[5] = byte(h.LLId)

	header[6] = h.BlocksToFollow & 0x7F
	if h.Extended {
		header[6] |= 0x80
	}

	header[7] = byte(h.SrcLLId >> 16)
	header[8] = byte(h.SrcLLId >> 8)
	header[9] = byte(h.SrcLLId)

	full := make([]byte, pduHeaderLengthBytes)
	copy(full, header)
	edac.AddCCITT162(full)

	return trellis12Encode(full)
}
