package trunk

import (
	"context"
	"testing"

	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/dmr"
)

func encodeRequest(srcID, dstID uint32) *bits.BitArray {
	payload := make([]byte, 12)
	payload[2] = byte(dstID >> 16)
	payload[3] = byte(dstID >> 8)
	payload[4] = byte(dstID)
	payload[5] = byte(srcID >> 16)
	payload[6] = byte(srcID >> 8)
	payload[7] = byte(srcID)

	c := dmr.CSBK{CSBKO: dmr.CSBKOUUVReq}
	return dmr.EncodeCSBK(c, payload)
}

func TestDMRProcessor_AdmitUnit_Permitted(t *testing.T) {
	sink := &fakeSink{}
	p := &DMRProcessor{ACL: fakeACL{true, true}, Sink: sink, Slot: 1}

	ans, _, handled, err := p.Process(context.Background(), encodeRequest(100, 200))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !handled {
		t.Fatal("expected request to be handled")
	}
	if ans.CSBKO != dmr.CSBKOUUVAns {
		t.Errorf("expected UUVAns opcode, got %v", ans.CSBKO)
	}
	if ans.Response != responseGranted {
		t.Errorf("expected granted response, got %d", ans.Response)
	}
	if len(sink.frames) != 1 {
		t.Errorf("expected one frame written to sink, got %d", len(sink.frames))
	}
}

func TestDMRProcessor_AdmitUnit_Denied(t *testing.T) {
	p := &DMRProcessor{ACL: fakeACL{false, true}}

	ans, _, handled, err := p.Process(context.Background(), encodeRequest(100, 200))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !handled || ans.Response != responseDenied {
		t.Errorf("expected denied response, got %+v handled=%v", ans, handled)
	}
}

func TestDMRProcessor_IgnoresNonRequestOpcodes(t *testing.T) {
	p := &DMRProcessor{}
	payload := make([]byte, 12)
	c := dmr.CSBK{CSBKO: dmr.CSBKOPreamble}
	frame := dmr.EncodeCSBK(c, payload)

	_, _, handled, err := p.Process(context.Background(), frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if handled {
		t.Error("expected non-request opcode to be left unhandled")
	}
}
