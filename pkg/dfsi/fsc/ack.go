package fsc

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// ACKLength is FSCACK's fixed wire length, not counting the variable
// ResponseData trailer ResponseLength declares the size of.
const ACKLength = 7

// AckResponseCode reports whether the acknowledged message succeeded.
// frames/fsc/FSCACK.h declares FSCAckResponseCode::E but the retrieved
// sources never defined its members, so Accept/Fail below are this
// package's own minimal two-value encoding.
type AckResponseCode byte

const (
	AckAccept AckResponseCode = 0x00
	AckFail   AckResponseCode = 0x01
)

// ACK acknowledges a prior message, echoing its message ID/version/
// correlation tag and carrying a response code plus an optional
// response-data trailer, per frames/fsc/FSCACK.h. ACK is (with
// Heartbeat) one of the two message types whose own header.decode omits
// the correlation-tag byte, since ACK repurposes that slot for
// AckMessageID instead.
type ACK struct {
	header Header

	AckMessageID      MessageType
	AckVersion        byte
	AckCorrelationTag byte
	ResponseCode      AckResponseCode
	ResponseData      []byte
}

// NewACK builds an ACK acknowledging the message described by acked.
func NewACK(acked Header, code AckResponseCode, responseData []byte) ACK {
	return ACK{
		header:            Header{MessageID: TypeACK, Version: protocolVersion},
		AckMessageID:      acked.MessageID,
		AckVersion:        acked.Version,
		AckCorrelationTag: acked.CorrelationTag,
		ResponseCode:      code,
		ResponseData:      responseData,
	}
}

func (m ACK) Header() Header { return m.header }

func (m *ACK) decode(data []byte) error {
	if len(data) < ACKLength {
		return core.ErrParseTooShort
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	m.header = h
	m.AckMessageID = MessageType(data[2])
	m.AckVersion = data[3]
	m.AckCorrelationTag = data[4]
	m.ResponseCode = AckResponseCode(data[5])
	respLen := int(data[6])
	if len(data) < ACKLength+respLen {
		return core.ErrParseTooShort
	}
	if respLen > 0 {
		m.ResponseData = append([]byte(nil), data[ACKLength:ACKLength+respLen]...)
	} else {
		m.ResponseData = nil
	}
	return nil
}

// Encode packs m into an ACK record, appending ResponseData after the
// fixed 7-byte portion.
func (m ACK) Encode() []byte {
	data := make([]byte, ACKLength+len(m.ResponseData))
	m.header.encode(data)
	data[2] = byte(m.AckMessageID)
	data[3] = m.AckVersion
	data[4] = m.AckCorrelationTag
	data[5] = byte(m.ResponseCode)
	data[6] = byte(len(m.ResponseData))
	copy(data[ACKLength:], m.ResponseData)
	return data
}
