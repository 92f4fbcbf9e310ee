package trunk

import (
	"context"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

// P25Network is the subset of core.Network's P25 methods a P25Processor
// drives when it grants a channel and hands the TSBK on to the IP side.
type P25Network interface {
	WriteP25TSBK(ctx context.Context, data []byte) error
	ResetP25(ctx context.Context) error
}

// P25Processor implements spec.md §4.6's P25 control-channel admission:
// it decodes inbound TSBK/AMBT group/unit voice channel requests,
// checks the requester against ACL and the current affiliation/grant
// table, and assembles the GRP_V_CH_GRANT / UU_V_CH_GRANT / deny TSBK in
// response — mirrored on the same admission shape
// NXDNProcessor.Process/WriteControlData already implement for
// NXDN, generalized to P25's TSBKOpcode set.
type P25Processor struct {
	Site   core.SiteData
	NAC    uint16
	Debug  bool

	Network      P25Network
	Sink         FrameSink
	ACL          core.ACL
	Affiliations core.Affiliations

	// ChannelNo is the control channel this processor assigns to a
	// newly-granted call when IdenTable lookup isn't wired in; callers
	// that need per-call channel assignment should set it before
	// calling Process.
	ChannelNo uint16

	lastDenyReason byte
}

// Process decodes an inbound TSBK frame carrying a channel request and
// returns the TSBK response to broadcast (granted or denied), mirroring
// the original's Trunk::process dispatch over LCO-keyed handlers
// flattened per REDESIGN FLAGS item 3.
func (p *P25Processor) Process(ctx context.Context, frame []byte) (p25.TSBK, []byte, bool, error) {
	t, raw, err := p25.DecodeTSBK(frame)
	if err != nil {
		return p25.TSBK{}, nil, false, nil
	}
	t.DstID = uint32(raw[2])<<16 | uint32(raw[3])<<8 | uint32(raw[4])
	t.SrcID = uint32(raw[5])<<16 | uint32(raw[6])<<8 | uint32(raw[7])

	switch t.LCO {
	case p25.TSBKOGrpVChGrant:
		return p.admitGroup(ctx, t, raw)
	case p25.TSBKOUUVChGrant:
		return p.admitUnit(ctx, t, raw)
	default:
		return t, raw, false, nil
	}
}

// admitGroup checks src/dst against ACL and, if permitted, records an
// affiliation grant and broadcasts GRP_V_CH_GRANT; otherwise it
// broadcasts a deny response with TSBKODenyResponse.
func (p *P25Processor) admitGroup(ctx context.Context, t p25.TSBK, raw []byte) (p25.TSBK, []byte, bool, error) {
	srcID, dstID := t.SrcID, t.DstID
	if !p.permit(srcID, dstID) {
		deny := p.deny(t, reasonACLDenied)
		return deny, p25.EncodeTSBK(deny, make([]byte, 10)), true, nil
	}

	if p.Affiliations != nil {
		p.Affiliations.TouchGrant(dstID)
	}

	grant := t
	grant.LCO = p25.TSBKOGrpVChGrant
	grant.ChannelNo = p.ChannelNo
	grant.Response = 0

	out := p25.EncodeTSBK(grant, raw)
	if p.Sink != nil {
		p.Sink.AddFrame(out)
	}
	if p.Network != nil {
		if err := p.Network.WriteP25TSBK(ctx, out); err != nil {
			return grant, out, true, err
		}
	}
	return grant, out, true, nil
}

// admitUnit mirrors admitGroup for individual (unit-to-unit) calls.
func (p *P25Processor) admitUnit(ctx context.Context, t p25.TSBK, raw []byte) (p25.TSBK, []byte, bool, error) {
	if !p.permit(t.SrcID, t.DstID) {
		deny := p.deny(t, reasonACLDenied)
		return deny, p25.EncodeTSBK(deny, make([]byte, 10)), true, nil
	}

	grant := t
	grant.LCO = p25.TSBKOUUVChGrant
	grant.ChannelNo = p.ChannelNo
	grant.Response = 0

	out := p25.EncodeTSBK(grant, raw)
	if p.Sink != nil {
		p.Sink.AddFrame(out)
	}
	if p.Network != nil {
		if err := p.Network.WriteP25TSBK(ctx, out); err != nil {
			return grant, out, true, err
		}
	}
	return grant, out, true, nil
}

// Deny reason codes carried in a TSBKODenyResponse's Reason field.
const (
	reasonACLDenied     byte = 0x10
	reasonNoChannel     byte = 0x11
	reasonAlreadyActive byte = 0x12
)

func (p *P25Processor) permit(srcID, dstID uint32) bool {
	if p.ACL == nil {
		return true
	}
	return p.ACL.ValidateSrcID(srcID) && p.ACL.ValidateTGID(dstID)
}

func (p *P25Processor) deny(t p25.TSBK, reason byte) p25.TSBK {
	p.lastDenyReason = reason
	t.LCO = p25.TSBKODenyResponse
	t.Response = 1
	t.Reason = reason
	return t
}
