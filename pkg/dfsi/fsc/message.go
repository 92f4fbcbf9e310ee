// Package fsc implements the Fixed Station Control protocol a DFSI
// console/repeater and fixed station exchange over the control
// connection: connect/heartbeat/ack handshaking plus the channel
// selection commands that pick which RF channel a call rides. Grounded
// on original_source/src/common/p25/dfsi/frames/fsc/*.{h,cpp}.
//
// The message-ID byte values below are this package's own numbering:
// the retrieved reference sources declare FSCMessageType::E as an enum
// but none of the files that assign its member values were captured in
// the pack, so the ordering here follows FSCMessage.cpp's createMessage
// switch (Connect, Heartbeat, ACK, ReportSelModes, SelChannel,
// Disconnect) rather than a value ported from source.
package fsc

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// MessageType identifies an FSC message's wire format.
type MessageType byte

const (
	TypeInvalid        MessageType = 0x00
	TypeConnect        MessageType = 0x01
	TypeHeartbeat      MessageType = 0x02
	TypeACK            MessageType = 0x03
	TypeReportSelModes MessageType = 0x04
	TypeSelChannel     MessageType = 0x05
	TypeDisconnect     MessageType = 0x06
)

// protocolVersion is the version every encoded message's Header carries,
// matching FSCMessage's m_version(1U) default.
const protocolVersion byte = 1

// Header is the leading fields every FSC message carries: a message ID,
// a protocol version, and (for every type but Heartbeat/ACK, which pack
// their own fields into that byte instead) a correlation tag pairing a
// request with its response.
type Header struct {
	MessageID      MessageType
	Version        byte
	CorrelationTag byte
}

func decodeHeader(data []byte) (Header, error) {
	if len(data) < 2 {
		return Header{}, core.ErrParseTooShort
	}
	h := Header{MessageID: MessageType(data[0]), Version: data[1]}
	if h.MessageID != TypeHeartbeat && h.MessageID != TypeACK {
		if len(data) < 3 {
			return Header{}, core.ErrParseTooShort
		}
		h.CorrelationTag = data[2]
	}
	return h, nil
}

func (h Header) encode(data []byte) {
	data[0] = byte(h.MessageID)
	data[1] = h.Version
	if h.MessageID != TypeHeartbeat && h.MessageID != TypeACK {
		data[2] = h.CorrelationTag
	}
}

// Message is any FSC message: the base header plus its type-specific
// fields, encodable back to the wire format Decode produced it from.
type Message interface {
	Header() Header
	Encode() []byte
}

// Decode parses an FSC message from data, dispatching on its leading
// message-ID byte, mirroring FSCMessage::createMessage.
func Decode(data []byte) (Message, error) {
	if len(data) < 1 {
		return nil, core.ErrParseTooShort
	}
	switch MessageType(data[0]) {
	case TypeConnect:
		var m Connect
		if err := m.decode(data); err != nil {
			return nil, err
		}
		return &m, nil
	case TypeHeartbeat:
		var m Heartbeat
		if err := m.decode(data); err != nil {
			return nil, err
		}
		return &m, nil
	case TypeACK:
		var m ACK
		if err := m.decode(data); err != nil {
			return nil, err
		}
		return &m, nil
	case TypeReportSelModes:
		var m ReportSelModes
		if err := m.decode(data); err != nil {
			return nil, err
		}
		return &m, nil
	case TypeSelChannel:
		var m SelChannel
		if err := m.decode(data); err != nil {
			return nil, err
		}
		return &m, nil
	case TypeDisconnect:
		var m Disconnect
		if err := m.decode(data); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, core.ErrUnknownOpcode
	}
}
