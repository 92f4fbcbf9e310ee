// Package modem implements ModemLink, the framed serial protocol
// spec.md §4.3 describes between this host and the attached DVM modem
// firmware: frame sync/resync, the GET_VERSION/FLSH_READ/SET_* open
// handshake, per-protocol TX-space accounting, and the 4s/5s inactivity
// watchdog reconnect loop.
//
// Grounded on the teacher's pkg/network/server.go receive-loop/
// cleanup-loop goroutine pattern (generalized here from a UDP socket to a
// framed serial byte stream) and on original_source/modem/Modem.cpp for
// the exact opcode table, frame layout, and handshake sequence.
package modem

// Opcode identifies a modem command/response frame type.
type Opcode byte

const (
	OpGetVersion   Opcode = 0x00
	OpGetStatus    Opcode = 0x01
	OpSetConfig    Opcode = 0x02
	OpSetMode      Opcode = 0x03
	OpSetSymLvlAdj Opcode = 0x05
	OpSetRFParams  Opcode = 0x06
	OpSetRXLevel   Opcode = 0x08
	OpSendCWID     Opcode = 0x0A

	OpFlshRead Opcode = 0x60

	OpDMRData1       Opcode = 0x18
	OpDMRLost1       Opcode = 0x19
	OpDMRData2       Opcode = 0x1A
	OpDMRLost2       Opcode = 0x1B
	OpDMRShortLC     Opcode = 0x1C
	OpDMRStart       Opcode = 0x1D
	OpDMRAbort       Opcode = 0x1E
	OpDMRCACHAtCtrl  Opcode = 0x1F

	OpP25Data  Opcode = 0x31
	OpP25Lost  Opcode = 0x32
	OpP25Clear Opcode = 0x33

	OpNXDNData Opcode = 0x41
	OpNXDNLost Opcode = 0x42

	OpACK Opcode = 0x70
	OpNAK Opcode = 0x7F

	OpDebug1    Opcode = 0xF1
	OpDebug2    Opcode = 0xF2
	OpDebug3    Opcode = 0xF3
	OpDebug4    Opcode = 0xF4
	OpDebug5    Opcode = 0xF5
	OpDebugDump Opcode = 0xFA
)

// DataTag is the first payload byte of a voice/data opcode, identifying
// what kind of protocol fragment follows.
type DataTag byte

const (
	TagHeader DataTag = 0x00
	TagData   DataTag = 0x01
	TagLost   DataTag = 0x02
	TagEOT    DataTag = 0x04
)

// NAK reason codes, logged but otherwise only surfaced to the caller as
// a plain "rejected (NAK)" error, per spec.md §4.3.
type NAKReason byte

const (
	RsnInvalidRequest NAKReason = 0x01
	RsnInvalidLength  NAKReason = 0x02
	RsnInvalidState   NAKReason = 0x03
	RsnHSNoDualMode   NAKReason = 0x04
)

const (
	frameStart       byte = 0xFE
	dvmConfAreaVer   byte = 2
	dvmConfAreaLen   int  = 246
	flashBlockLen    int  = 249
	maxShortFrameLen int  = 252
)
