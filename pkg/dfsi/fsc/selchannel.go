package fsc

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// SelChannelLength is FSCSelChannel's actual wire length. The upstream
// header declares LENGTH = 3U, but decode/encode in
// frames/fsc/FSCSelChannel.cpp read/write data[3] and data[4] (RxChan,
// TxChan) on top of the 3-byte header, so the true record is 5 bytes;
// this package uses the length its own decode/encode logic requires
// rather than the inconsistent upstream constant.
const SelChannelLength = 5

// SelChannel tells the fixed station which RF channel to use for
// receive and transmit, the command this gateway's trunking layer
// issues when it assigns a DFSI-connected station to a voice channel.
type SelChannel struct {
	header Header

	RxChan byte
	TxChan byte
}

// NewSelChannel builds a SelChannel message ready to Encode.
func NewSelChannel(correlationTag, rxChan, txChan byte) SelChannel {
	return SelChannel{
		header: Header{MessageID: TypeSelChannel, Version: protocolVersion, CorrelationTag: correlationTag},
		RxChan: rxChan,
		TxChan: txChan,
	}
}

func (m SelChannel) Header() Header { return m.header }

func (m *SelChannel) decode(data []byte) error {
	if len(data) < SelChannelLength {
		return core.ErrParseTooShort
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	m.header = h
	m.RxChan = data[3]
	m.TxChan = data[4]
	return nil
}

// Encode packs m into a 5-byte SelChannel record.
func (m SelChannel) Encode() []byte {
	data := make([]byte, SelChannelLength)
	m.header.encode(data)
	data[3] = m.RxChan
	data[4] = m.TxChan
	return data
}
