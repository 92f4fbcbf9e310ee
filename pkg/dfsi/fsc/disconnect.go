package fsc

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// DisconnectLength is FSCDisconnect's fixed wire length: a bare header,
// per frames/fsc/FSCDisconnect.{h,cpp}.
const DisconnectLength = 3

// Disconnect tears down a control session.
type Disconnect struct {
	header Header
}

// NewDisconnect builds a Disconnect message ready to Encode.
func NewDisconnect(correlationTag byte) Disconnect {
	return Disconnect{header: Header{MessageID: TypeDisconnect, Version: protocolVersion, CorrelationTag: correlationTag}}
}

func (m Disconnect) Header() Header { return m.header }

func (m *Disconnect) decode(data []byte) error {
	if len(data) < DisconnectLength {
		return core.ErrParseTooShort
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	m.header = h
	return nil
}

// Encode packs m into a 3-byte Disconnect record.
func (m Disconnect) Encode() []byte {
	data := make([]byte, DisconnectLength)
	m.header.encode(data)
	return data
}
