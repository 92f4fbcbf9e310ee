package trunk

import (
	"context"
	"testing"

	"github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

type fakeACL struct{ permitSrc, permitDst bool }

func (a fakeACL) ValidateSrcID(id uint32) bool { return a.permitSrc }
func (a fakeACL) ValidateTGID(id uint32) bool  { return a.permitDst }

func buildRequestFrame(t *testing.T, lco p25.TSBKOpcode, srcID, dstID uint32) []byte {
	t.Helper()
	tsbk := p25.TSBK{LCO: lco, SrcID: srcID, DstID: dstID}
	payload := make([]byte, 10)
	payload[2] = byte(dstID >> 16)
	payload[3] = byte(dstID >> 8)
	payload[4] = byte(dstID)
	payload[5] = byte(srcID >> 16)
	payload[6] = byte(srcID >> 8)
	payload[7] = byte(srcID)
	return p25.EncodeTSBK(tsbk, payload)
}

func TestP25Processor_AdmitGroup_Permitted(t *testing.T) {
	sink := &fakeSink{}
	p := &P25Processor{ACL: fakeACL{true, true}, Sink: sink, ChannelNo: 5}

	frame := buildRequestFrame(t, p25.TSBKOGrpVChGrant, 100, 200)
	grant, _, handled, err := p.Process(context.Background(), frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !handled {
		t.Fatal("expected request to be handled")
	}
	if grant.LCO != p25.TSBKOGrpVChGrant {
		t.Errorf("expected grant opcode, got %v", grant.LCO)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("expected one frame written to sink, got %d", len(sink.frames))
	}
}

func TestP25Processor_AdmitGroup_Denied(t *testing.T) {
	sink := &fakeSink{}
	p := &P25Processor{ACL: fakeACL{false, true}, Sink: sink, ChannelNo: 5}

	frame := buildRequestFrame(t, p25.TSBKOGrpVChGrant, 100, 200)
	resp, _, handled, err := p.Process(context.Background(), frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !handled {
		t.Fatal("expected request to be handled")
	}
	if resp.LCO != p25.TSBKODenyResponse {
		t.Errorf("expected deny response, got %v", resp.LCO)
	}
	if resp.Reason != reasonACLDenied {
		t.Errorf("expected ACL denied reason, got %d", resp.Reason)
	}
}

func TestP25Processor_AdmitUnit_Permitted(t *testing.T) {
	p := &P25Processor{ACL: fakeACL{true, true}, ChannelNo: 9}

	frame := buildRequestFrame(t, p25.TSBKOUUVChGrant, 10, 20)
	grant, _, handled, err := p.Process(context.Background(), frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !handled || grant.LCO != p25.TSBKOUUVChGrant {
		t.Errorf("expected unit grant, got %+v handled=%v", grant, handled)
	}
}

func TestP25Processor_Process_UnhandledOpcode(t *testing.T) {
	p := &P25Processor{}
	frame := buildRequestFrame(t, p25.TSBKOSiteInfo, 1, 2)
	_, _, handled, err := p.Process(context.Background(), frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if handled {
		t.Error("expected non-admission opcode to be left unhandled")
	}
}

func TestP25Processor_NoACL_PermitsByDefault(t *testing.T) {
	p := &P25Processor{ChannelNo: 1}
	frame := buildRequestFrame(t, p25.TSBKOGrpVChGrant, 1, 2)
	grant, _, handled, err := p.Process(context.Background(), frame)
	if err != nil || !handled || grant.LCO != p25.TSBKOGrpVChGrant {
		t.Errorf("expected permissive default without ACL, got %+v handled=%v err=%v", grant, handled, err)
	}
}
