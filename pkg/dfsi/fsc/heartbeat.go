package fsc

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// HeartbeatLength is FSCHeartbeat's fixed wire length: the 2-byte
// message-ID/version header plus one trailing byte that Encode leaves
// zero. Heartbeat is one of the two types FSCMessage::decode excludes
// from the correlation-tag byte.
const HeartbeatLength = 3

// Heartbeat is the keepalive each side sends at its negotiated period
// (Connect.FSHeartbeatPeriod/HostHeartbeatPeriod), carrying no fields
// beyond the header, per frames/fsc/FSCHeartbeat.h.
type Heartbeat struct {
	header Header
}

// NewHeartbeat builds a Heartbeat message ready to Encode.
func NewHeartbeat() Heartbeat {
	return Heartbeat{header: Header{MessageID: TypeHeartbeat, Version: protocolVersion}}
}

func (m Heartbeat) Header() Header { return m.header }

func (m *Heartbeat) decode(data []byte) error {
	if len(data) < HeartbeatLength {
		return core.ErrParseTooShort
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	m.header = h
	return nil
}

// Encode packs m into a 3-byte Heartbeat record.
func (m Heartbeat) Encode() []byte {
	data := make([]byte, HeartbeatLength)
	m.header.encode(data)
	return data
}
