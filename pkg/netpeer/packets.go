// Package netpeer implements the UDP PEER-mode link a station uses to
// register with and exchange framed traffic with a master FNE: the
// RPTL/RPTK/RPTC login handshake and RPTPING/MSTPONG keepalive the
// teacher's pkg/network.Client performs, carrying pkg/netq-framed
// voice/control payloads instead of raw DMRD packets.
package netpeer

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Packet type identifiers, ASCII-prefixed the way the teacher's
// pkg/protocol distinguishes its wire packets.
const (
	packetTypeRPTL    = "RPTL"
	packetTypeRPTK    = "RPTK"
	packetTypeRPTC    = "RPTC"
	packetTypeRPTACK  = "RPTACK"
	packetTypeRPTPING = "RPTPING"
	packetTypeMSTPONG = "MSTPONG"
	packetTypeMSTCL   = "MSTCL"
	packetTypeMSTNAK  = "MSTNAK"
)

// Packet sizes. RPTC carries this station's callsign and site identity
// instead of the teacher's repeater frequency/power/location fields,
// since those belong to config.SiteConfig/IdenConfig here rather than
// to the peer handshake.
const (
	rptlPacketSize    = 8   // "RPTL" + 4 byte peer ID
	rptkPacketSize    = 40  // "RPTK" + 4 byte peer ID + 32 byte challenge
	rptcPacketSize    = 24  // "RPTC" + 4 byte peer ID + 8 byte callsign + site identity
	rptackPacketSize  = 10  // "RPTACK" + 4 byte peer ID
	rptpingPacketSize = 11  // "RPTPING" + 4 byte peer ID
	mstpongPacketSize = 11  // "MSTPONG" + 4 byte peer ID
	mstclPacketSize   = 9   // "MSTCL" + 4 byte peer ID
	mstnakPacketSize  = 10  // "MSTNAK" + 4 byte peer ID

	challengeLength = 32
	saltLength      = 4
)

// rptlPacket is the initial login request a peer sends to a master.
type rptlPacket struct {
	PeerID uint32
}

func (p *rptlPacket) Encode() []byte {
	data := make([]byte, rptlPacketSize)
	copy(data[0:4], packetTypeRPTL)
	binary.BigEndian.PutUint32(data[4:8], p.PeerID)
	return data
}

func parseRPTL(data []byte) (*rptlPacket, error) {
	if len(data) != rptlPacketSize || string(data[0:4]) != packetTypeRPTL {
		return nil, fmt.Errorf("netpeer: not an RPTL packet")
	}
	return &rptlPacket{PeerID: binary.BigEndian.Uint32(data[4:8])}, nil
}

// rptkPacket carries the SHA256(salt+passphrase) login challenge.
type rptkPacket struct {
	PeerID    uint32
	Challenge []byte
}

func (p *rptkPacket) Encode() []byte {
	data := make([]byte, rptkPacketSize)
	copy(data[0:4], packetTypeRPTK)
	binary.BigEndian.PutUint32(data[4:8], p.PeerID)
	copy(data[8:8+challengeLength], p.Challenge)
	return data
}

// rptcPacket carries this peer's site/callsign identity once
// authenticated.
type rptcPacket struct {
	PeerID    uint32
	Callsign  string
	NetID     uint32
	SiteID    uint8
	ColorCode uint8
}

func (p *rptcPacket) Encode() []byte {
	data := make([]byte, rptcPacketSize)
	copy(data[0:4], packetTypeRPTC)
	binary.BigEndian.PutUint32(data[4:8], p.PeerID)

	callsign := make([]byte, 8)
	for i := range callsign {
		if i < len(p.Callsign) {
			callsign[i] = p.Callsign[i]
		} else {
			callsign[i] = ' '
		}
	}
	copy(data[8:16], callsign)
	binary.BigEndian.PutUint32(data[16:20], p.NetID)
	data[20] = p.SiteID
	data[21] = p.ColorCode
	return data
}

// rptackPacket acknowledges an RPTL/RPTK/RPTC step.
type rptackPacket struct {
	PeerID uint32
}

func parseRPTACK(data []byte) (*rptackPacket, error) {
	if len(data) < rptackPacketSize || string(data[0:6]) != packetTypeRPTACK {
		return nil, fmt.Errorf("netpeer: not an RPTACK packet")
	}
	return &rptackPacket{PeerID: binary.BigEndian.Uint32(data[6:10])}, nil
}

// rptpingPacket is a peer->master keepalive.
type rptpingPacket struct {
	PeerID uint32
}

func (p *rptpingPacket) Encode() []byte {
	data := make([]byte, rptpingPacketSize)
	copy(data[0:7], packetTypeRPTPING)
	binary.BigEndian.PutUint32(data[7:11], p.PeerID)
	return data
}

func isMSTPONG(data []byte) bool {
	return len(data) >= mstpongPacketSize && string(data[0:7]) == packetTypeMSTPONG
}

func isMSTCL(data []byte) bool {
	return len(data) >= mstclPacketSize && string(data[0:5]) == packetTypeMSTCL
}

func isMSTNAK(data []byte) bool {
	return len(data) >= mstnakPacketSize && string(data[0:6]) == packetTypeMSTNAK
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}
