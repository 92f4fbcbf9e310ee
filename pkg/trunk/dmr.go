package trunk

import (
	"context"

	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/dmr"
)

// DMRNetwork is the subset of core.Network's DMR methods a DMRProcessor
// drives once it grants a logical channel/slot to a requesting unit.
type DMRNetwork interface {
	WriteDMRData(ctx context.Context, slot int, lc core.LC, data []byte) error
	ResetDMR(ctx context.Context) error
}

// DMRProcessor implements spec.md §4.6's DMR control-channel admission
// over CSBK signalling: it decodes an inbound unit-to-unit voice
// request (CSBKOUUVReq), checks the requester against ACL, and
// assembles the CSBKOUUVAns acknowledge/deny response — the CSBK
// counterpart to P25Processor's TSBK admission and NXDNProcessor's RCCH
// admission.
type DMRProcessor struct {
	ColorCode byte
	Slot      int

	Network      DMRNetwork
	Sink         FrameSink
	ACL          core.ACL
	Affiliations core.Affiliations
}

// dmrRequestFields unpacks the source/destination 24-bit addresses a
// CSBKOUUVReq payload carries in bytes 2-7, the same "bytes 2-9 left
// raw for opcode-specific decoders" convention dmr.ToValue documents.
func dmrRequestFields(raw []byte) (srcID, dstID uint32) {
	dstID = uint32(raw[2])<<16 | uint32(raw[3])<<8 | uint32(raw[4])
	srcID = uint32(raw[5])<<16 | uint32(raw[6])<<8 | uint32(raw[7])
	return
}

// Process decodes an inbound BPTC-framed CSBK and, if it is a unit
// voice request, returns the granted or denied CSBKOUUVAns response.
func (p *DMRProcessor) Process(ctx context.Context, frame *bits.BitArray) (dmr.CSBK, *bits.BitArray, bool, error) {
	c, raw, err := dmr.DecodeCSBK(frame)
	if err != nil {
		return dmr.CSBK{}, nil, false, nil
	}

	if c.CSBKO != dmr.CSBKOUUVReq {
		return c, nil, false, nil
	}

	srcID, dstID := dmrRequestFields(raw)
	ans := c
	ans.CSBKO = dmr.CSBKOUUVAns
	ans.SrcID = srcID
	ans.DstID = dstID

	if !p.permit(srcID, dstID) {
		ans.Response = responseDenied
		out := dmr.EncodeCSBK(ans, dmr.FromValue(dmr.ToValue(raw)))
		return ans, out, true, nil
	}

	if p.Affiliations != nil {
		p.Affiliations.TouchGrant(dstID)
	}
	ans.Response = responseGranted

	payload := dmr.FromValue(dmr.ToValue(raw))
	out := dmr.EncodeCSBK(ans, payload)

	if p.Sink != nil {
		p.Sink.AddFrame(out.Bytes())
	}
	if p.Network != nil {
		lc := core.LC{Protocol: core.ProtoDMR, SrcID: srcID, DstID: dstID, GroupCall: false}
		if err := p.Network.WriteDMRData(ctx, p.Slot, lc, out.Bytes()); err != nil {
			return ans, out, true, err
		}
	}

	return ans, out, true, nil
}

// Response byte values carried in a CSBKOUUVAns's Response field.
const (
	responseGranted byte = 0x00
	responseDenied  byte = 0x01
)

func (p *DMRProcessor) permit(srcID, dstID uint32) bool {
	if p.ACL == nil {
		return true
	}
	return p.ACL.ValidateSrcID(srcID) && p.ACL.ValidateTGID(dstID)
}
