package p25

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// P25's voice super-frame carries its link control (and, for HDU, the
// encryption Message Indicator/algorithm/key ID) through one of three
// Reed-Solomon GF(64) codes depending on frame type:
//   - HDU:   RS(36,20,17) — MI(72b) + AlgID(8b) + KeyID(16b) + pad(24b)
//   - LDU1:  RS(24,16,9)  — the 9-byte voice LC (voiceLCBytes)
//   - LDU2:  RS(24,12,13) — MI(72b) only, the "encryption sync"
//   - TDULC: RS(24,16,9)  — the 9-byte voice LC, same as LDU1
//
// No HDU.cpp/LDU1.cpp/LDU2.cpp was present in the retrieved pack to
// confirm this symbol-width/bit-offset split byte-for-byte; it is built
// from pkg/edac's own RS24_16_9/RS24_12_13/RS36_20_17 doc comments (which
// already name these exact three roles) plus the field set
// VoicePacket.cpp's m_rfLC/m_rfLastHDU accessors imply. See DESIGN.md.
const (
	rsSymbolWidth = 6 // bits per GF(64) symbol
)

// DecodeHDU Reed-Solomon(36,20,17)-corrects a header-unit frame and
// unpacks its MI/AlgID/KeyID fields.
func DecodeHDU(frame []byte) (LC, error) {
	symbols := unpackBits(frame, 36, rsSymbolWidth)
	data, ok := edac.RS36_20_17.Decode(symbols)
	if !ok {
		return LC{}, core.ErrFecUncorrectable
	}
	payload := packBits(data, rsSymbolWidth, 120)

	var lc LC
	copy(lc.MI[:], payload[0:9])
	lc.AlgID = payload[9]
	lc.KeyID = uint16(payload[10])<<8 | uint16(payload[11])
	return lc, nil
}

// EncodeHDU Reed-Solomon(36,20,17)-encodes lc's MI/AlgID/KeyID into a
// header-unit frame.
func EncodeHDU(lc LC) []byte {
	payload := make([]byte, 15) // 120 bits
	copy(payload[0:9], lc.MI[:])
	payload[9] = lc.AlgID
	payload[10] = byte(lc.KeyID >> 8)
	payload[11] = byte(lc.KeyID)

	data := unpackBits(payload, 20, rsSymbolWidth)
	symbols := edac.RS36_20_17.Encode(data)
	return packBits(symbols, rsSymbolWidth, 36*rsSymbolWidth)
}

// DecodeLDU1LC / DecodeTDULC Reed-Solomon(24,16,9)-correct a voice-LC
// frame and unpack its 9-byte LC, shared by LDU1 and TDULC.
func DecodeLDU1LC(frame []byte) (LC, error) {
	symbols := unpackBits(frame, 24, rsSymbolWidth)
	data, ok := edac.RS24_16_9.Decode(symbols)
	if !ok {
		return LC{}, core.ErrFecUncorrectable
	}
	payload := packBits(data, rsSymbolWidth, 96)

	var b [9]byte
	copy(b[:], payload)
	return decodeVoiceLCBytes(b), nil
}

// EncodeLDU1LC / EncodeTDULC Reed-Solomon(24,16,9)-encode lc's 9-byte
// voice LC, shared by LDU1 and TDULC.
func EncodeLDU1LC(lc LC) []byte {
	b := lc.voiceLCBytes()
	data := unpackBits(b[:], 16, rsSymbolWidth)
	symbols := edac.RS24_16_9.Encode(data)
	return packBits(symbols, rsSymbolWidth, 24*rsSymbolWidth)
}

// DecodeTDULC is DecodeLDU1LC under another name — TDULC (Terminator
// with Link Control) carries the exact same RS(24,16,9) voice-LC frame,
// marking call end instead of mid-call continuation.
func DecodeTDULC(frame []byte) (LC, error) { return DecodeLDU1LC(frame) }

// EncodeTDULC is EncodeLDU1LC under another name, see DecodeTDULC.
func EncodeTDULC(lc LC) []byte { return EncodeLDU1LC(lc) }

// DecodeLDU2MI Reed-Solomon(24,12,13)-corrects an LDU2 encryption-sync
// frame and returns the carried Message Indicator. LDU2 does not
// re-carry AlgID/KeyID — those are established once by the call's HDU
// and only the MI advances (via its own LFSR) frame to frame.
func DecodeLDU2MI(frame []byte) ([9]byte, error) {
	symbols := unpackBits(frame, 24, rsSymbolWidth)
	data, ok := edac.RS24_12_13.Decode(symbols)
	if !ok {
		return [9]byte{}, core.ErrFecUncorrectable
	}
	payload := packBits(data, rsSymbolWidth, 72)

	var mi [9]byte
	copy(mi[:], payload)
	return mi, nil
}

// EncodeLDU2MI Reed-Solomon(24,12,13)-encodes mi into an LDU2
// encryption-sync frame.
func EncodeLDU2MI(mi [9]byte) []byte {
	data := unpackBits(mi[:], 12, rsSymbolWidth)
	symbols := edac.RS24_12_13.Encode(data)
	return packBits(symbols, rsSymbolWidth, 24*rsSymbolWidth)
}

// TDU is the bare voice terminator — no link control, just a frame
// marking end-of-transmission. It carries no payload to decode.
type TDU struct{}
