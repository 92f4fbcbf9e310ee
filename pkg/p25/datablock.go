package p25

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

const (
	pduConfirmedLengthBytes     = 18 // Trellis-3/4-decoded confirmed block: 2 header bytes + 16 payload
	pduConfirmedDataLengthBytes = 16
	pduUnconfirmedLengthBytes   = 12
)

// DataBlock is one block of a multi-block P25 PDU: for a Confirmed PDU
// it carries a 7-bit serial number, a CRC-9 check, and 16 bytes of
// payload under rate-3/4 Trellis coding; for Unconfirmed/Response/AMBT
// PDUs it is 12 bytes of payload under rate-1/2 Trellis coding with no
// per-block CRC. Grounded on
// original_source/src/common/p25/data/DataBlock.cpp.
type DataBlock struct {
	Format    PDUFormat
	SerialNo  byte // Confirmed format only, 7 bits
	LastBlock bool

	Data []byte
}

// DecodeDataBlock Trellis-corrects frame per header's format and, for
// Confirmed PDUs, computes the block's own CRC-9 without acting on it: a
// mismatch is neither logged nor reported and does not fail decode
// (DataBlock::decode only warns on a CRC-9 mismatch rather than
// rejecting the block).
func DecodeDataBlock(frame []byte, header DataHeader) (DataBlock, bool) {
	var b DataBlock
	b.Format = header.Format

	switch header.Format {
	case PDUFmtConfirmed:
		buffer, err := trellis34Decode(frame, pduConfirmedLengthBytes)
		if err != nil {
			return DataBlock{}, false
		}

		b.SerialNo = (buffer[0] & 0xFE) >> 1
		crc := uint16(buffer[0]&0x01)<<8 | uint16(buffer[1])

		b.Data = append([]byte{}, buffer[2:2+pduConfirmedDataLengthBytes]...)

		block := bits.WrapBitArray(buffer, pduConfirmedLengthBytes*8)
		calculated := edac.CRC9(block)
		_ = crc ^ calculated // mismatch is advisory only, per original_source

		return b, true

	case PDUFmtUnconfirmed, PDUFmtResponse, PDUFmtAMBT:
		buffer, err := trellis12Decode(frame, pduUnconfirmedLengthBytes)
		if err != nil {
			return DataBlock{}, false
		}
		b.Data = append([]byte{}, buffer...)
		return b, true

	default:
		return DataBlock{}, false
	}
}

// EncodeDataBlock packs b's payload (and, for Confirmed format, its
// serial number and a freshly-computed CRC-9) and Trellis-encodes the
// result.
func EncodeDataBlock(b DataBlock) []byte {
	switch b.Format {
	case PDUFmtConfirmed:
		buffer := make([]byte, pduConfirmedLengthBytes)
		buffer[0] = (b.SerialNo << 1) & 0xFE
		copy(buffer[2:2+pduConfirmedDataLengthBytes], b.Data)

		block := bits.WrapBitArray(buffer, pduConfirmedLengthBytes*8)
		crc := edac.CRC9(block)
		buffer[0] += byte((crc >> 8) & 0x01)
		buffer[1] = byte(crc & 0xFF)

		return trellis34Encode(buffer)

	case PDUFmtUnconfirmed, PDUFmtResponse, PDUFmtAMBT:
		buffer := make([]byte, pduUnconfirmedLengthBytes)
		copy(buffer, b.Data)
		return trellis12Encode(buffer)

	default:
		return nil
	}
}
