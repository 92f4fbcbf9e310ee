// Package trunk implements the control-channel admission and broadcast
// logic each protocol's Trunk processor runs on top of its own
// channel-codec package (pkg/nxdn, pkg/p25, pkg/dmr).
//
// The NXDN side here is grounded on
// original_source/nxdn/packet/Trunk.cpp. Two of that file's
// dependencies — Sync::addNXDNSync and Control::scrambler — were never
// retrieved anywhere in the pack (no Sync.cpp, no scrambler
// implementation under src/), so rather than invent a sync word or
// scrambling polynomial with no evidence behind it, both are taken as
// caller-supplied hooks on NXDNProcessor instead of reconstructed
// bit-for-bit.
package trunk

import (
	"context"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/nxdn"
)

// FrameSink accepts a fully assembled outbound frame for modem
// transmission, mirroring Trunk.cpp's Control::addFrame entry point.
type FrameSink interface {
	AddFrame(data []byte)
}

// nxdnFrameLengthBytes is NXDN_FRAME_LENGTH_BYTES: the on-air frame
// payload following the 2-byte modem tag, sized to the sync word plus
// LICH plus a full CAC frame (1 + 1 + 32: the 252-bit/31.5-byte CAC
// carrier rounds up to 32 on-air bytes; reconstructed the same way
// cacFECBits/252 was, since NXDNDefines.h was never retrieved).
const nxdnFrameLengthBytes = 1 + lichLengthBytes + cacFrameBytes

const lichLengthBytes = 1
const cacFrameBytes = 32 // ceil(cacFECBits/8) rounded to the modem's byte framing

// NXDNProcessor is the NXDN control-channel Trunk processor: it decodes
// inbound CAC frames into RCCH messages, tracks RF/net link-control
// state, and assembles outbound SITE_INFO/SRV_INFO control-channel
// broadcasts.
type NXDNProcessor struct {
	Site    core.SiteData
	RAN     uint8
	Duplex  bool
	Debug   bool
	DumpRCCH bool

	Network Network
	Sink    FrameSink

	// SyncWord and Scramble are the two Trunk.cpp dependencies this
	// package could not ground on retrieved source (see package doc).
	// SyncWord is copied verbatim into the start of every assembled
	// control-channel frame; Scramble (if non-nil) is applied in place
	// to the frame after CAC encoding, mirroring
	// Control::scrambler(data + 2U).
	SyncWord []byte
	Scramble func(frame []byte)

	rfLC  nxdn.RCCH
	netLC nxdn.RCCH

	lastRejectID uint32
}

// Network is the subset of core.Network's NXDN methods Trunk.cpp's
// writeNetwork/processNetwork drive.
type Network interface {
	WriteNXDN(ctx context.Context, lc core.LC, data []byte) error
	ResetNXDN(ctx context.Context) error
}

// ResetRF clears the RF-side RCCH link-control state, mirroring
// Trunk::resetRF.
func (p *NXDNProcessor) ResetRF() {
	p.rfLC = nxdn.RCCH{}
}

// ResetNet clears the network-side RCCH link-control state, mirroring
// Trunk::resetNet.
func (p *NXDNProcessor) ResetNet() {
	p.netLC = nxdn.RCCH{}
}

// Process handles an inbound CAC-carrying frame from the RF side,
// mirroring Trunk::process: it decodes the CAC, rejects RAN mismatches,
// and (once framed) decodes the enclosed RCCH message. fct/option are
// accepted for call-site parity with the original's LICH-derived
// functional channel type and are not otherwise consulted here, since
// the original's own process() body never branches on them either
// (its "TODO -- process incoming data" is the gap, not this port's).
func (p *NXDNProcessor) Process(fct, option byte, data []byte) (bool, error) {
	cac, err := nxdn.DecodeCAC(data)
	if err != nil {
		return false, nil
	}

	if cac.RAN != p.RAN && cac.RAN != 0 {
		return false, nil
	}

	p.rfLC = nxdn.DecodeRCCH(cac.Payload)
	return true, nil
}

// ProcessNetwork handles an inbound frame arriving from the IP network
// side, mirroring Trunk::processNetwork's queue-clear-on-idle reset.
func (p *NXDNProcessor) ProcessNetwork(netIdle bool, netLC nxdn.RCCH, data []byte) bool {
	if netIdle {
		p.ResetRF()
		p.ResetNet()
	}
	return true
}

// WriteNetwork hands an RF-decoded frame to the network capability,
// mirroring Trunk::writeNetwork.
func (p *NXDNProcessor) WriteNetwork(ctx context.Context, data []byte) error {
	if p.Network == nil {
		return nil
	}
	lc := core.LC{Protocol: core.ProtoNXDN, SrcID: uint32(p.rfLC.MessageType)}
	return p.Network.WriteNXDN(ctx, lc, data)
}

// WriteControlData dispatches one control-channel broadcast slot,
// alternating SITE_INFO (sequence slot 6) against SRV_INFO (every other
// slot), mirroring Trunk::writeRF_ControlData's switch on n.
func (p *NXDNProcessor) WriteControlData(n uint8) {
	switch n {
	case 6:
		p.writeSiteInfo()
	default:
		p.writeServiceInfo()
	}
}

func (p *NXDNProcessor) writeSiteInfo() {
	p.rfLC = nxdn.RCCH{MessageType: nxdn.RCCHMessageTypeSiteInfo}
	p.broadcast(nxdn.EncodeRCCH(p.rfLC))
}

func (p *NXDNProcessor) writeServiceInfo() {
	p.rfLC = nxdn.RCCH{MessageType: nxdn.RCCHMessageTypeSrvInfo}
	p.broadcast(nxdn.EncodeRCCH(p.rfLC))
}

// broadcast assembles one outbound LICH+CAC control-channel frame and
// hands it to the configured FrameSink, mirroring the common tail of
// Trunk::writeRF_CC_Site_Info/writeRF_CC_Service_Info.
func (p *NXDNProcessor) broadcast(payload [12]byte) {
	if !p.Duplex || p.Sink == nil {
		return
	}

	var lich nxdn.LICH
	lich.SetRFCT(nxdn.LICHRFCTRCCH)
	lich.SetFCT(nxdn.LICHCACOutbound)
	lich.SetOption(nxdn.LICHDataNormal)
	lich.SetDirection(nxdn.LICHDirectionOutbound)

	cac := nxdn.CAC{RAN: p.RAN, Structure: nxdn.StructureRCCHSingle, Payload: payload}
	cacFrame := nxdn.EncodeCAC(cac)

	frame := make([]byte, 0, len(p.SyncWord)+lichLengthBytes+len(cacFrame))
	frame = append(frame, p.SyncWord...)
	lichByte := make([]byte, lichLengthBytes)
	lich.Encode(lichByte)
	frame = append(frame, lichByte...)
	frame = append(frame, cacFrame...)

	if p.Scramble != nil {
		p.Scramble(frame)
	}

	p.Sink.AddFrame(frame)
}
