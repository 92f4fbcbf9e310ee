// Package dmr implements the ETSI TS 102 361 link-layer structures the
// modem link carries over the air: link control (both full and short
// embedded forms), CSBK trunking/signalling blocks, the privacy header,
// and the CACH slot-framing fields. Decode/Encode here take and
// return the already BPTC/Hamming/RS-corrected 9-byte LC payload;
// pkg/bptc19696 and pkg/edac own the FEC layers themselves.
package dmr

// FLCO is a DMR full link control opcode (the low 6 bits of LC byte 0).
type FLCO byte

const (
	FLCOGroup          FLCO = 0x00 // group voice channel user
	FLCOPrivate        FLCO = 0x03 // unit to unit voice channel user
	FLCOTalkerAlias1   FLCO = 0x04
	FLCOTalkerAlias2   FLCO = 0x05
	FLCOTalkerAlias3   FLCO = 0x06
	FLCOTalkerGPSInfo  FLCO = 0x07
)

// LC is a decoded DMR full link control payload: FLCO opcode, feature
// ID, service options, and the 24-bit source/destination addresses.
// This is the 9 data bytes FullLC's RS(12,9) and BPTC(196,96) layers
// protect; LC itself carries no FEC.
type LC struct {
	FLCO       FLCO
	ProtectFlag bool
	FeatureID  byte
	GroupCall  bool
	Emergency  bool
	Privacy    bool
	BroadcastCall bool
	OVCM       bool // open voice call mode
	DstID      uint32 // 24-bit
	SrcID      uint32 // 24-bit
}

// Decode unpacks a 9-byte LC payload (post-FEC) into an LC.
func Decode(data []byte) LC {
	var lc LC
	lc.ProtectFlag = data[0]&0x80 != 0
	lc.FLCO = FLCO(data[0] & 0x3F)
	lc.FeatureID = data[1]
	so := data[2]
	lc.Emergency = so&0x80 != 0
	lc.Privacy = so&0x40 != 0
	lc.BroadcastCall = so&0x08 != 0
	lc.OVCM = so&0x04 != 0
	lc.GroupCall = lc.FLCO == FLCOGroup
	lc.DstID = uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5])
	lc.SrcID = uint32(data[6])<<16 | uint32(data[7])<<8 | uint32(data[8])
	return lc
}

// Encode packs an LC back into a 9-byte payload ready for FullLC's RS/BPTC
// layers.
func (lc LC) Encode() []byte {
	data := make([]byte, 9)
	data[0] = byte(lc.FLCO) & 0x3F
	if lc.ProtectFlag {
		data[0] |= 0x80
	}
	data[1] = lc.FeatureID
	var so byte
	if lc.Emergency {
		so |= 0x80
	}
	if lc.Privacy {
		so |= 0x40
	}
	if lc.BroadcastCall {
		so |= 0x08
	}
	if lc.OVCM {
		so |= 0x04
	}
	data[2] = so
	data[3] = byte(lc.DstID >> 16)
	data[4] = byte(lc.DstID >> 8)
	data[5] = byte(lc.DstID)
	data[6] = byte(lc.SrcID >> 16)
	data[7] = byte(lc.SrcID >> 8)
	data[8] = byte(lc.SrcID)
	return data
}
