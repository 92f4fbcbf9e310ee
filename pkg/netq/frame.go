// Package netq implements the RTP+extension+FNE-header framing
// FrameQueue wraps outgoing peer traffic in (spec.md §4.8), grounded on
// the RTP/RTPHeader conventions the teacher's pkg/protocol packet types
// follow for its own PEER-mode wire packets, generalized from
// DMRD-specific byte layouts to the generic SSRC/sequence/timestamp
// fields a voice-agnostic queue needs.
package netq

import (
	"encoding/binary"
	"errors"

	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// Payload types distinguishing voice frames from control/signalling
// frames on the wire, matching the RTP payload-type byte spec.md §4.8
// assigns.
const (
	PayloadTypeVoice   byte = 0x56
	PayloadTypeControl byte = 0x57
)

// RTPGenericClockRate is the clock driving per-frame timestamp
// advancement; each frame advances the RTP timestamp by
// RTPGenericClockRate/133, the 133 1/3 Hz (7.5ms) frame cadence shared
// by DMR/P25/NXDN vocoder frames.
const RTPGenericClockRate = 8000

// timestampStep is the per-frame RTP timestamp advance derived from
// RTPGenericClockRate/133, truncated the way integer timestamp
// arithmetic on the wire always is.
const timestampStep = RTPGenericClockRate / 133

// EndOfCallSeq is the RTP sequence number value reserved to mark the
// final frame of a call.
const EndOfCallSeq = 0xFFFF

const (
	rtpHeaderLen       = 12
	rtpExtensionLen    = 4
	fneHeaderLen       = 16
	totalHeaderLen     = rtpHeaderLen + rtpExtensionLen + fneHeaderLen
	rtpVersionAndFlags = 0x90 // V=2, P=0, X=1 (extension present), CC=0
)

// ErrShortFrame is returned when a buffer is too small to contain a
// complete RTP+extension+FNE header.
var ErrShortFrame = errors.New("netq: frame shorter than header")

// ErrCRCMismatch is returned by Decode when the FNE header's payload
// CRC does not match the decoded payload.
var ErrCRCMismatch = errors.New("netq: FNE header CRC mismatch")

// ErrBadPayloadType is returned by Decode when the RTP payload-type
// byte is neither PayloadTypeVoice nor PayloadTypeControl.
var ErrBadPayloadType = errors.New("netq: unrecognized RTP payload type")

// FNEHeader is the 16-byte header trailing the RTP extension header,
// carrying routing and integrity metadata the RTP header itself has no
// room for.
type FNEHeader struct {
	CRC           uint16
	StreamID      uint32
	PeerID        uint32
	MessageLength uint32
	Function      byte
	SubFunction   byte
}

// Frame is one RTP+extension+FNE-framed datagram ready to hand to a
// UDP socket, or decoded back out of one received from a peer.
type Frame struct {
	PayloadType byte
	Sequence    uint16
	Timestamp   uint32
	SSRC        uint32 // peer ID
	FNE         FNEHeader
	Payload     []byte
}

// Encode serializes f into RTP(12) + extension(4) + FNE(16) + payload.
func (f Frame) Encode() []byte {
	out := make([]byte, totalHeaderLen+len(f.Payload))

	out[0] = rtpVersionAndFlags
	out[1] = f.PayloadType
	binary.BigEndian.PutUint16(out[2:4], f.Sequence)
	binary.BigEndian.PutUint32(out[4:8], f.Timestamp)
	binary.BigEndian.PutUint32(out[8:12], f.SSRC)

	// RTP generic extension header: profile id + word count, zero
	// extension words carried since the FNE header follows as its own
	// framing layer rather than as RTP extension data.
	binary.BigEndian.PutUint16(out[12:14], 0)
	binary.BigEndian.PutUint16(out[14:16], 0)

	fneOff := rtpHeaderLen + rtpExtensionLen
	binary.BigEndian.PutUint16(out[fneOff:fneOff+2], f.FNE.CRC)
	binary.BigEndian.PutUint32(out[fneOff+2:fneOff+6], f.FNE.StreamID)
	binary.BigEndian.PutUint32(out[fneOff+6:fneOff+10], f.FNE.PeerID)
	binary.BigEndian.PutUint32(out[fneOff+10:fneOff+14], f.FNE.MessageLength)
	out[fneOff+14] = f.FNE.Function
	out[fneOff+15] = f.FNE.SubFunction

	copy(out[totalHeaderLen:], f.Payload)
	return out
}

// Decode parses an RTP+extension+FNE-framed datagram, verifying the
// FNE header's payload CRC and rejecting unrecognized payload types.
func Decode(buf []byte) (Frame, error) {
	if len(buf) < totalHeaderLen {
		return Frame{}, ErrShortFrame
	}

	var f Frame
	f.PayloadType = buf[1]
	if f.PayloadType != PayloadTypeVoice && f.PayloadType != PayloadTypeControl {
		return Frame{}, ErrBadPayloadType
	}
	f.Sequence = binary.BigEndian.Uint16(buf[2:4])
	f.Timestamp = binary.BigEndian.Uint32(buf[4:8])
	f.SSRC = binary.BigEndian.Uint32(buf[8:12])

	fneOff := rtpHeaderLen + rtpExtensionLen
	f.FNE.CRC = binary.BigEndian.Uint16(buf[fneOff : fneOff+2])
	f.FNE.StreamID = binary.BigEndian.Uint32(buf[fneOff+2 : fneOff+6])
	f.FNE.PeerID = binary.BigEndian.Uint32(buf[fneOff+6 : fneOff+10])
	f.FNE.MessageLength = binary.BigEndian.Uint32(buf[fneOff+10 : fneOff+14])
	f.FNE.Function = buf[fneOff+14]
	f.FNE.SubFunction = buf[fneOff+15]

	f.Payload = append([]byte(nil), buf[totalHeaderLen:]...)

	if edac.CRC16CCITT(f.Payload) != f.FNE.CRC {
		return Frame{}, ErrCRCMismatch
	}
	return f, nil
}
