package dfsi

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

// LSD carries the low-speed-data byte pair LDU1_VOICE9/LDU2_VOICE18
// smuggle alongside the ninth IMBE subframe.
type LSD struct {
	LSD1 byte
	LSD2 byte
}

// Assembler reconstructs one LDU1 or LDU2 super-frame's p25.LC, LSD, and
// nine IMBE subframes from the sequence of per-voice DFSI records a
// fixed station emits one at a time, mirroring
// original_source/src/common/p25/dfsi/LC.cpp's decodeLDU1/decodeLDU2.
// The RS(24,12,13)/RS(24,16,9) parity bytes LDU1_VOICE6-8 and
// LDU2_VOICE16-17 carry protect the LC word in the over-the-air framing;
// at the DFSI boundary the LC fields of interest (LCO/MFId/service
// options/addresses/MI/algID/keyID) arrive decoded in their own
// dedicated records, so this assembler does not re-derive them from the
// parity bytes and does not verify it — matching LC.cpp, which computes
// but never reads back through that parity on decode either.
type Assembler struct {
	LC   p25.LC
	LSD  LSD
	RSSI byte

	imbe [9][imbeLength]byte
	seen [9]bool
}

// Reset clears the assembler for a new call.
func (a *Assembler) Reset() {
	*a = Assembler{}
}

// Complete reports whether all nine voice subframes have been seen.
func (a *Assembler) Complete() bool {
	for _, s := range a.seen {
		if !s {
			return false
		}
	}
	return true
}

// IMBE returns the reassembled nine 11-byte IMBE voice subframes, valid
// once Complete reports true.
func (a *Assembler) IMBE() [9][imbeLength]byte { return a.imbe }

func ldu1Index(ft FrameType) int {
	switch ft {
	case FrameLDU1Voice1:
		return 0
	case FrameLDU1Voice2:
		return 1
	case FrameLDU1Voice3:
		return 2
	case FrameLDU1Voice4:
		return 3
	case FrameLDU1Voice5:
		return 4
	case FrameLDU1Voice6:
		return 5
	case FrameLDU1Voice7:
		return 6
	case FrameLDU1Voice8:
		return 7
	case FrameLDU1Voice9:
		return 8
	default:
		return -1
	}
}

func ldu2Index(ft FrameType) int {
	switch ft {
	case FrameLDU2Voice10:
		return 0
	case FrameLDU2Voice11:
		return 1
	case FrameLDU2Voice12:
		return 2
	case FrameLDU2Voice13:
		return 3
	case FrameLDU2Voice14:
		return 4
	case FrameLDU2Voice15:
		return 5
	case FrameLDU2Voice16:
		return 6
	case FrameLDU2Voice17:
		return 7
	case FrameLDU2Voice18:
		return 8
	default:
		return -1
	}
}

// DecodeLDU1Voice feeds one LDU1_VOICEn record into the assembler,
// returning the subframe index (0-8) it filled.
func (a *Assembler) DecodeLDU1Voice(data []byte) (int, error) {
	if len(data) < 1 {
		return -1, core.ErrParseTooShort
	}
	ft := FrameType(data[0])
	i := ldu1Index(ft)
	if i < 0 {
		return -1, core.ErrUnknownOpcode
	}
	if len(data) < recordLength[ft] {
		return -1, core.ErrParseTooShort
	}

	switch ft {
	case FrameLDU1Voice1:
		a.RSSI = data[6]
		copy(a.imbe[i][:], data[10:10+imbeLength])
	case FrameLDU1Voice2:
		copy(a.imbe[i][:], data[1:1+imbeLength])
	case FrameLDU1Voice3:
		a.LC.LCO = p25.LCO(data[1] & 0x3F)
		a.LC.MFId = data[2]
		a.LC.SetServiceOptions(data[3])
		a.LC.Group = a.LC.LCO == p25.LCOGroup || a.LC.LCO == p25.LCOGroupUpdate
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU1Voice4:
		a.LC.DstID = uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU1Voice5:
		a.LC.SrcID = uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU1Voice6, FrameLDU1Voice7, FrameLDU1Voice8:
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU1Voice9:
		a.LSD.LSD1 = data[1]
		a.LSD.LSD2 = data[2]
		copy(a.imbe[i][:], data[4:4+imbeLength])
	}

	a.seen[i] = true
	return i, nil
}

// DecodeLDU2Voice feeds one LDU2_VOICEn record into the assembler.
func (a *Assembler) DecodeLDU2Voice(data []byte) (int, error) {
	if len(data) < 1 {
		return -1, core.ErrParseTooShort
	}
	ft := FrameType(data[0])
	i := ldu2Index(ft)
	if i < 0 {
		return -1, core.ErrUnknownOpcode
	}
	if len(data) < recordLength[ft] {
		return -1, core.ErrParseTooShort
	}

	switch ft {
	case FrameLDU2Voice10:
		a.RSSI = data[6]
		copy(a.imbe[i][:], data[10:10+imbeLength])
	case FrameLDU2Voice11:
		copy(a.imbe[i][:], data[1:1+imbeLength])
	case FrameLDU2Voice12:
		a.LC.MI[0], a.LC.MI[1], a.LC.MI[2] = data[1], data[2], data[3]
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU2Voice13:
		a.LC.MI[3], a.LC.MI[4], a.LC.MI[5] = data[1], data[2], data[3]
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU2Voice14:
		a.LC.MI[6], a.LC.MI[7], a.LC.MI[8] = data[1], data[2], data[3]
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU2Voice15:
		a.LC.AlgID = data[1]
		a.LC.KeyID = uint16(data[2])<<8 | uint16(data[3])
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU2Voice16, FrameLDU2Voice17:
		copy(a.imbe[i][:], data[5:5+imbeLength])
	case FrameLDU2Voice18:
		a.LSD.LSD1 = data[1]
		a.LSD.LSD2 = data[2]
		copy(a.imbe[i][:], data[4:4+imbeLength])
	}

	a.seen[i] = true
	return i, nil
}

var ldu1FrameTypes = [9]FrameType{
	FrameLDU1Voice1, FrameLDU1Voice2, FrameLDU1Voice3, FrameLDU1Voice4, FrameLDU1Voice5,
	FrameLDU1Voice6, FrameLDU1Voice7, FrameLDU1Voice8, FrameLDU1Voice9,
}

var ldu2FrameTypes = [9]FrameType{
	FrameLDU2Voice10, FrameLDU2Voice11, FrameLDU2Voice12, FrameLDU2Voice13, FrameLDU2Voice14,
	FrameLDU2Voice15, FrameLDU2Voice16, FrameLDU2Voice17, FrameLDU2Voice18,
}

// EncodeLDU1 produces the nine LDU1_VOICEn records carrying lc/lsd/rssi
// and the given IMBE subframes, the reverse of DecodeLDU1Voice.
func EncodeLDU1(lc p25.LC, lsd LSD, rssi byte, imbe [9][imbeLength]byte) [9][]byte {
	var out [9][]byte
	for i, ft := range ldu1FrameTypes {
		data := make([]byte, recordLength[ft])
		data[0] = byte(ft)
		switch ft {
		case FrameLDU1Voice1:
			data[6] = rssi
			copy(data[10:10+imbeLength], imbe[i][:])
		case FrameLDU1Voice2:
			copy(data[1:1+imbeLength], imbe[i][:])
		case FrameLDU1Voice3:
			data[1] = byte(lc.LCO) & 0x3F
			data[2] = lc.MFId
			data[3] = lc.ServiceOptions()
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU1Voice4:
			data[1] = byte(lc.DstID >> 16)
			data[2] = byte(lc.DstID >> 8)
			data[3] = byte(lc.DstID)
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU1Voice5:
			data[1] = byte(lc.SrcID >> 16)
			data[2] = byte(lc.SrcID >> 8)
			data[3] = byte(lc.SrcID)
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU1Voice6, FrameLDU1Voice7, FrameLDU1Voice8:
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU1Voice9:
			data[1] = lsd.LSD1
			data[2] = lsd.LSD2
			copy(data[4:4+imbeLength], imbe[i][:])
		}
		out[i] = data
	}
	return out
}

// EncodeLDU2 produces the nine LDU2_VOICEn records, the reverse of
// DecodeLDU2Voice.
func EncodeLDU2(lc p25.LC, lsd LSD, rssi byte, imbe [9][imbeLength]byte) [9][]byte {
	var out [9][]byte
	for i, ft := range ldu2FrameTypes {
		data := make([]byte, recordLength[ft])
		data[0] = byte(ft)
		switch ft {
		case FrameLDU2Voice10:
			data[6] = rssi
			copy(data[10:10+imbeLength], imbe[i][:])
		case FrameLDU2Voice11:
			copy(data[1:1+imbeLength], imbe[i][:])
		case FrameLDU2Voice12:
			data[1], data[2], data[3] = lc.MI[0], lc.MI[1], lc.MI[2]
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU2Voice13:
			data[1], data[2], data[3] = lc.MI[3], lc.MI[4], lc.MI[5]
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU2Voice14:
			data[1], data[2], data[3] = lc.MI[6], lc.MI[7], lc.MI[8]
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU2Voice15:
			data[1] = lc.AlgID
			data[2] = byte(lc.KeyID >> 8)
			data[3] = byte(lc.KeyID)
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU2Voice16, FrameLDU2Voice17:
			copy(data[5:5+imbeLength], imbe[i][:])
		case FrameLDU2Voice18:
			data[1] = lsd.LSD1
			data[2] = lsd.LSD2
			copy(data[4:4+imbeLength], imbe[i][:])
		}
		out[i] = data
	}
	return out
}

// ToCoreLC converts a reassembled DFSI LC into the gateway's
// protocol-neutral core.LC for network dispatch.
func ToCoreLC(lc p25.LC) core.LC {
	return core.LC{
		Protocol:  core.ProtoP25,
		SrcID:     lc.SrcID,
		DstID:     lc.DstID,
		GroupCall: lc.Group,
		Emergency: lc.Emergency,
		Encrypted: lc.Encrypted,
	}
}
