// Package core defines the shared data model and capability interfaces
// spec.md's REDESIGN FLAGS item 1 calls for: protocol processors take
// these capabilities as constructor/method arguments instead of holding a
// cyclic back-pointer to a central Control object, mirroring how the
// teacher's pkg/bridge.Router takes its collaborators (StreamTracker,
// ACL, PeerManager) as explicit constructor arguments.
package core

import "time"

// Protocol identifies which over-the-air digital voice protocol a Frame
// or CallSession belongs to.
type Protocol int

const (
	ProtoDMR Protocol = iota
	ProtoP25
	ProtoNXDN
)

func (p Protocol) String() string {
	switch p {
	case ProtoDMR:
		return "DMR"
	case ProtoP25:
		return "P25"
	case ProtoNXDN:
		return "NXDN"
	default:
		return "UNKNOWN"
	}
}

// Direction distinguishes traffic arriving from the RF/modem side from
// traffic arriving from the IP network side, the axis spec.md's
// collision/preemption rules are defined over.
type Direction int

const (
	DirRF Direction = iota
	DirNet
)

// SiteData holds the static site identity fields every protocol's
// control-channel broadcasts carry: network id, system id, color code
// (DMR) / NAC (P25) / RAN (NXDN), RF sub-system id, and site id.
type SiteData struct {
	NetID   uint32
	SysID   uint32
	ColorCode uint8
	RFSSID  uint8
	SiteID  uint8
}

// RFParams describes one entry of the channel-number to RF-parameter
// table a station's IdenTable capability serves.
type RFParams struct {
	ChannelNo  uint16
	BaseFreqHz uint64
	SpacingHz  uint32
	TxOffsetHz int64
	Bandwidth  uint32
}

// LC is the protocol-agnostic link-control payload threaded through a
// CallSession: source/destination addressing plus the fields the
// voice/trunk processors need regardless of which protocol produced it.
type LC struct {
	Protocol  Protocol
	SrcID     uint32
	DstID     uint32
	GroupCall bool
	Emergency bool
	Encrypted bool
}

// CallSession tracks one in-progress voice call across its lifetime, the
// unit pkg/store persists and pkg/web's dashboard displays.
type CallSession struct {
	ID        uint32
	Protocol  Protocol
	LC        LC
	Direction Direction
	StartedAt time.Time
	EndedAt   time.Time
	Active    bool

	RFUndecodableLC  int
	NetUndecodableLC int
	BER              float64
}

// Frame is the unit of data pkg/modem exchanges with the attached modem:
// a DMRD/P25/NXDN voice or signalling frame plus the RSSI/BER metadata
// the modem link attaches to received frames.
type Frame struct {
	Protocol Protocol
	Data     []byte
	RSSI     int8
	BER      float32
}
