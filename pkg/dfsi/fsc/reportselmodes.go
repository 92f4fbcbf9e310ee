package fsc

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// ReportSelModesLength is FSCReportSelModes's fixed wire length: a bare
// header, per frames/fsc/FSCReportSelModes.{h,cpp} which declares no
// fields of its own beyond the constructor setting m_messageId.
const ReportSelModesLength = 3

// ReportSelModes is the fixed station's reply describing which channels
// it currently has selected, sent in answer to a SelChannel request.
type ReportSelModes struct {
	header Header
}

// NewReportSelModes builds a ReportSelModes message ready to Encode.
func NewReportSelModes(correlationTag byte) ReportSelModes {
	return ReportSelModes{header: Header{MessageID: TypeReportSelModes, Version: protocolVersion, CorrelationTag: correlationTag}}
}

func (m ReportSelModes) Header() Header { return m.header }

func (m *ReportSelModes) decode(data []byte) error {
	if len(data) < ReportSelModesLength {
		return core.ErrParseTooShort
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	m.header = h
	return nil
}

// Encode packs m into a 3-byte ReportSelModes record.
func (m ReportSelModes) Encode() []byte {
	data := make([]byte, ReportSelModesLength)
	m.header.encode(data)
	return data
}
