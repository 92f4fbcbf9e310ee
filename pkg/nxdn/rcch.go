package nxdn

import "github.com/DVMProject/dvmhost-sub010/pkg/bits"

// RCCH message types Trunk.cpp's control-channel broadcast helpers set
// via setMessageType. No lc::RCCH source or message-type enum header
// was retrieved anywhere in the pack (packet/Trunk.cpp references
// RCCH_MESSAGE_TYPE_SITE_INFO and MESSAGE_TYPE_SRV_INFO as bare
// identifiers without a defining header in scope), so the numeric
// values are a flagged reconstruction rather than a port — chosen to
// be distinct and stable for this module's own round-trip, not claimed
// to match dvmhost's wire value. See DESIGN.md.
const (
	RCCHMessageTypeSiteInfo = 0x09
	RCCHMessageTypeSrvInfo  = 0x0A
)

// rcchMessageTypeBits is the width of the message type field folded
// into the CAC payload's opaque 94 bits; the remainder carries the
// broadcast's own fields, which (absent any retrieved RCCH payload
// layout) this module treats as an opaque blob round-tripped verbatim
// by the caller rather than parsed field-by-field.
const rcchMessageTypeBits = 6

// RCCH is an NXDN Radio Control Channel message as carried inside a
// CAC frame's 94-bit payload: a message type selecting a broadcast or
// request/response kind, plus whatever opaque content that type
// defines. Trunk.cpp's writeRF_CC_Site_Info/writeRF_CC_Service_Info set
// MessageType and otherwise send an all-zero payload (SiteData/IdenTable
// wiring was never retrieved alongside Trunk.cpp), so Content here is a
// caller-supplied opaque blob rather than a parsed site/service record.
type RCCH struct {
	MessageType byte
	Content     [88]bool // remaining CAC payload bits (94 - rcchMessageTypeBits), MSB-first
}

// EncodeRCCH packs r into a CAC payload buffer (94 bits, matching
// CAC's Payload field), mirroring Trunk.cpp's
// "m_rfLC.setMessageType(...); m_rfLC.encode(buffer, ...)" call shape.
func EncodeRCCH(r RCCH) [12]byte {
	data := bits.NewBitArray(cacPayloadBits)
	data.SetBitsBE(0, rcchMessageTypeBits, uint32(r.MessageType))
	for i, v := range r.Content {
		data.SetBit(uint(rcchMessageTypeBits+i), v)
	}
	var out [12]byte
	copy(out[:], data.Bytes())
	return out
}

// DecodeRCCH unpacks an RCCH message type and opaque content from a CAC
// payload buffer.
func DecodeRCCH(buffer [12]byte) RCCH {
	data := bits.WrapBitArray(buffer[:], cacPayloadBits)
	var r RCCH
	r.MessageType = byte(data.GetBitsBE(0, rcchMessageTypeBits))
	for i := range r.Content {
		r.Content[i] = data.GetBit(uint(rcchMessageTypeBits + i))
	}
	return r
}
