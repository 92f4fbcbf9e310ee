package p25

// LCO is a P25 link control opcode (low 6 bits of byte 0 of an LC).
type LCO byte

const (
	LCOGroup            LCO = 0x00
	LCOGroupUpdate      LCO = 0x02
	LCOPrivate          LCO = 0x03
	LCOTelephoneInt     LCO = 0x05
	LCORFSSStatusBcast  LCO = 0x3A
	LCONetStatusBcast   LCO = 0x3B
	LCOExplicitSourceID LCO = 0x17
)

// LC is a decoded P25 link control word: the fields HDU, LDU1, LDU2, and
// TDULC each carry in one form or another. Grounded on the field usage
// VoicePacket.cpp's m_rfLC/m_netLC accessors imply (getLCO/getMFId/
// getSrcId/getDstId/getGroup/getEmergency/getEncrypted/getPriority/
// getAlgId/getKId/getMI) — no standalone p25/lc/LC.cpp was retrieved, so
// the byte layout below follows the standard TIA-102 LC convention this
// project's DMR LC (pkg/dmr/lc.go) already mirrors, not a ported source
// file.
type LC struct {
	LCO   LCO
	MFId  byte
	SrcID uint32
	DstID uint32

	Group     bool
	Emergency bool
	Encrypted bool
	Priority  byte

	AlgID byte
	KeyID uint16
	MI    [9]byte
}

// ServiceOptions packs Group/Emergency/Encrypted/Priority into the
// single service-options byte LDU1/LDU2/TDULC's LC carries. Exported so
// pkg/dfsi can pack/unpack the same byte from its own per-subframe wire
// records without duplicating the bit layout.
func (lc LC) ServiceOptions() byte {
	var b byte
	if lc.Emergency {
		b |= 0x80
	}
	if lc.Encrypted {
		b |= 0x40
	}
	b |= lc.Priority & 0x07
	return b
}

// SetServiceOptions unpacks a service-options byte into lc's
// Emergency/Encrypted/Priority fields.
func (lc *LC) SetServiceOptions(b byte) {
	lc.Emergency = b&0x80 != 0
	lc.Encrypted = b&0x40 != 0
	lc.Priority = b & 0x07
}

// voiceLCBytes packs lc's LCO/MFId/ServiceOptions/DstID/SrcID into the
// 9-byte flat layout LDU1/LDU2/TDULC's 96-bit RS(24,16,9) codeword
// carries: byte0=LCO, byte1=MFId, byte2=service options, bytes3-5=DstID,
// bytes6-8=SrcID — the same shape pkg/dmr/lc.go uses for DMR's LC.
func (lc LC) voiceLCBytes() [9]byte {
	var b [9]byte
	b[0] = byte(lc.LCO) & 0x3F
	b[1] = lc.MFId
	b[2] = lc.ServiceOptions()
	b[3] = byte(lc.DstID >> 16)
	b[4] = byte(lc.DstID >> 8)
	b[5] = byte(lc.DstID)
	b[6] = byte(lc.SrcID >> 16)
	b[7] = byte(lc.SrcID >> 8)
	b[8] = byte(lc.SrcID)
	return b
}

func decodeVoiceLCBytes(b [9]byte) LC {
	var lc LC
	lc.LCO = LCO(b[0] & 0x3F)
	lc.MFId = b[1]
	lc.SetServiceOptions(b[2])
	lc.Group = lc.LCO == LCOGroup || lc.LCO == LCOGroupUpdate
	lc.DstID = uint32(b[3])<<16 | uint32(b[4])<<8 | uint32(b[5])
	lc.SrcID = uint32(b[6])<<16 | uint32(b[7])<<8 | uint32(b[8])
	return lc
}
