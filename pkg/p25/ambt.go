package p25

// AMBT (Alternate Multi-Block Trunking) is a TSBK carried inside a PDU
// instead of a dedicated TSBK frame: the carrying DataHeader's Format is
// PDUFmtAMBT and the TSBK's own payload rides across the PDU's data
// blocks. DataHeader has no fields for the AMBT opcode or its two extra
// bytes; AMBT holds the extra bytes itself (AMBTField8, AMBTField9).
// Grounded on
// original_source/src/common/p25/lc/AMBT.cpp.
type AMBT struct {
	TSBK

	// AMBTField8/AMBTField9 are the two extra payload bytes the carrying
	// DataHeader reserves for AMBT opcodes that need more than the
	// 12-byte PDU user-data payload of a single data block provides (see
	// EncodeAuthDemand, which puts NetID bits 19-4 in these two bytes and
	// its RAND_SEED/RAND_CHALLENGE in two full data blocks).
	AMBTField8 byte
	AMBTField9 byte
}

// ambtUserDataLength is the PDU user-data payload length of a single
// unconfirmed data block, the unit AMBT::decode's pduUserData buffer is
// sized in multiples of.
const ambtUserDataLength = 12

// ToValue packs a carrying DataHeader's two AMBT extra bytes and a
// 6-byte PDU user-data payload into a big-endian uint64, mirroring
// AMBT::toValue.
func (a AMBT) ToValue(pduUserData [6]byte) uint64 {
	v := uint64(a.AMBTField8)
	v = v<<8 + uint64(a.AMBTField9)
	for _, b := range pduUserData {
		v = v<<8 + uint64(b)
	}
	return v
}
