// Package dfsi implements the P25 Digital Fixed Station Interface (DFSI)
// wire framing this gateway's fixed-station side speaks to a console or
// IP-connected repeater: the per-voice-subframe LDU1/LDU2 records that
// spread one P25 LC word and its nine IMBE subframes across a sequence
// of small serial records, plus the Start/Stop and voice-header framing
// that bracket a call. Grounded on
// original_source/p25/dfsi/DFSIDefines.h (frame type bytes, RT mode/
// start-stop/type flags, per-record byte lengths) and
// original_source/src/common/p25/dfsi/LC.cpp (per-record field layout).
package dfsi

// FrameType identifies a DFSI record (RAW_IMBE-bearing voice subframes
// plus headers), the single byte every record leads with.
type FrameType byte

const (
	FrameStartStop FrameType = 0x00

	FrameVoiceHeader1 FrameType = 0x60
	FrameVoiceHeader2 FrameType = 0x61

	FrameLDU1Voice1 FrameType = 0x62
	FrameLDU1Voice2 FrameType = 0x63
	FrameLDU1Voice3 FrameType = 0x64
	FrameLDU1Voice4 FrameType = 0x65
	FrameLDU1Voice5 FrameType = 0x66
	FrameLDU1Voice6 FrameType = 0x67
	FrameLDU1Voice7 FrameType = 0x68
	FrameLDU1Voice8 FrameType = 0x69
	FrameLDU1Voice9 FrameType = 0x6A

	FrameLDU2Voice10 FrameType = 0x6B
	FrameLDU2Voice11 FrameType = 0x6C
	FrameLDU2Voice12 FrameType = 0x6D
	FrameLDU2Voice13 FrameType = 0x6E
	FrameLDU2Voice14 FrameType = 0x6F
	FrameLDU2Voice15 FrameType = 0x70
	FrameLDU2Voice16 FrameType = 0x71
	FrameLDU2Voice17 FrameType = 0x72
	FrameLDU2Voice18 FrameType = 0x73

	FrameTSBK FrameType = 0xA1
)

// RT mode / Start-Stop / payload-type flags a Start/Stop record carries,
// per DFSIDefines.h.
const (
	RTModeEnabled  byte = 0x02
	RTModeDisabled byte = 0x04

	StartFlag byte = 0x0C
	StopFlag  byte = 0x25

	TypeVoice   byte = 0x0B
	TypeData    byte = 0x0C
	TypeTSBK    byte = 0x0F
	TypePayload byte = 0x06
)

// recordLength maps each frame type to its fixed wire length in bytes,
// the DFSI_*_FRAME_LENGTH_BYTES constants.
var recordLength = map[FrameType]int{
	FrameStartStop: 10,

	FrameVoiceHeader1: 30,
	FrameVoiceHeader2: 22,

	FrameLDU1Voice1: 22,
	FrameLDU1Voice2: 14,
	FrameLDU1Voice3: 17,
	FrameLDU1Voice4: 17,
	FrameLDU1Voice5: 17,
	FrameLDU1Voice6: 17,
	FrameLDU1Voice7: 17,
	FrameLDU1Voice8: 17,
	FrameLDU1Voice9: 16,

	FrameLDU2Voice10: 22,
	FrameLDU2Voice11: 14,
	FrameLDU2Voice12: 17,
	FrameLDU2Voice13: 17,
	FrameLDU2Voice14: 17,
	FrameLDU2Voice15: 17,
	FrameLDU2Voice16: 17,
	FrameLDU2Voice17: 17,
	FrameLDU2Voice18: 16,

	FrameTSBK: 25,
}

// RecordLength returns the fixed wire length of a DFSI record of type ft,
// or 0 if ft is not a known record type.
func RecordLength(ft FrameType) int { return recordLength[ft] }

// imbeLength is the raw IMBE voice subframe size every LDUn_VOICEm
// record carries, the same 11-byte subframe pkg/p25.voicesync.go's
// imbeSubframeLen uses for the over-the-air LDU payload.
const imbeLength = 11

// StartStop is the bracket record a call's voice record sequence opens
// and closes with. Per spec.md §4.7 the Stop variant is sent twice, to
// absorb the first copy being lost to packet reordering/loss on an
// unreliable transport; encoding/decoding a single record is this
// package's concern, the doubled send belongs to the voice processor
// that drives the transport.
type StartStop struct {
	RTMode  byte
	Control byte // StartFlag or StopFlag
	Type    byte
}

// Decode parses a 10-byte Start/Stop record.
func (s *StartStop) Decode(data []byte) bool {
	if len(data) < recordLength[FrameStartStop] || FrameType(data[0]) != FrameStartStop {
		return false
	}
	// byte[1] is a fixed 0x02 status marker written by encode, not carried state.
	s.RTMode = data[2]
	s.Control = data[3]
	s.Type = data[4]
	return true
}

// Encode packs s into a 10-byte Start/Stop record.
func (s StartStop) Encode() []byte {
	data := make([]byte, recordLength[FrameStartStop])
	data[0] = byte(FrameStartStop)
	data[1] = 0x02
	data[2] = s.RTMode
	data[3] = s.Control
	data[4] = s.Type
	return data
}
