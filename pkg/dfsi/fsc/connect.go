package fsc

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// ConnectLength is FSCConnect's fixed wire length.
const ConnectLength = 11

// Connect opens a control session: the fixed station tells the console
// which port/SSRC its voice-conveyance RTP stream uses and how often
// each side should expect a Heartbeat, mirroring
// frames/fsc/FSCConnect.{h,cpp}.
type Connect struct {
	header Header

	VCBasePort          uint16
	VCSSRC              uint32
	FSHeartbeatPeriod   byte
	HostHeartbeatPeriod byte
}

// NewConnect builds a Connect message ready to Encode.
func NewConnect(correlationTag byte, vcBasePort uint16, vcSSRC uint32, fsPeriod, hostPeriod byte) Connect {
	return Connect{
		header:              Header{MessageID: TypeConnect, Version: protocolVersion, CorrelationTag: correlationTag},
		VCBasePort:          vcBasePort,
		VCSSRC:              vcSSRC,
		FSHeartbeatPeriod:   fsPeriod,
		HostHeartbeatPeriod: hostPeriod,
	}
}

func (m Connect) Header() Header { return m.header }

func (m *Connect) decode(data []byte) error {
	if len(data) < ConnectLength {
		return core.ErrParseTooShort
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	m.header = h
	m.VCBasePort = uint16(data[3])<<8 | uint16(data[4])
	m.VCSSRC = uint32(data[5])<<24 | uint32(data[6])<<16 | uint32(data[7])<<8 | uint32(data[8])
	m.FSHeartbeatPeriod = data[9]
	m.HostHeartbeatPeriod = data[10]
	return nil
}

// Encode packs m into an 11-byte Connect record.
func (m Connect) Encode() []byte {
	data := make([]byte, ConnectLength)
	m.header.encode(data)
	data[3] = byte(m.VCBasePort >> 8)
	data[4] = byte(m.VCBasePort)
	data[5] = byte(m.VCSSRC >> 24)
	data[6] = byte(m.VCSSRC >> 16)
	data[7] = byte(m.VCSSRC >> 8)
	data[8] = byte(m.VCSSRC)
	data[9] = m.FSHeartbeatPeriod
	data[10] = m.HostHeartbeatPeriod
	return data
}
