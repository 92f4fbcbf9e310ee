package nxdn

import (
	"context"
	"testing"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/clock"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	nxdncodec "github.com/DVMProject/dvmhost-sub010/pkg/nxdn"
)

type fakeNetwork struct {
	nxdnWrites int
	resets     int
}

func (n *fakeNetwork) WriteP25LDU1(ctx context.Context, lc core.LC, data []byte) error { return nil }
func (n *fakeNetwork) WriteP25LDU2(ctx context.Context, lc core.LC, data []byte) error { return nil }
func (n *fakeNetwork) WriteP25TDU(ctx context.Context, lc core.LC) error               { return nil }
func (n *fakeNetwork) WriteP25TSBK(ctx context.Context, data []byte) error             { return nil }
func (n *fakeNetwork) WriteDMRData(ctx context.Context, slot int, lc core.LC, data []byte) error {
	return nil
}
func (n *fakeNetwork) WriteNXDN(ctx context.Context, lc core.LC, data []byte) error {
	n.nxdnWrites++
	return nil
}
func (n *fakeNetwork) ResetP25(ctx context.Context) error  { return nil }
func (n *fakeNetwork) ResetDMR(ctx context.Context) error  { return nil }
func (n *fakeNetwork) ResetNXDN(ctx context.Context) error { n.resets++; return nil }

func TestProcessor_RFCallLifecycle(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}, RAN: 1}

	frame := nxdncodec.EncodeCAC(nxdncodec.CAC{RAN: 1, Structure: nxdncodec.StructureRCCHSingle})
	if err := p.ProcessRFVoice(context.Background(), frame); err != nil {
		t.Fatalf("ProcessRFVoice failed: %v", err)
	}
	if p.RFState() != StateAudio {
		t.Fatal("expected RF state Audio after first voice frame")
	}
	if net.nxdnWrites != 1 {
		t.Errorf("expected one NXDN write, got %d", net.nxdnWrites)
	}

	if err := p.ProcessRFEnd(context.Background()); err != nil {
		t.Fatalf("ProcessRFEnd failed: %v", err)
	}
	if p.RFState() != StateIdle {
		t.Error("expected RF state Idle after ProcessRFEnd")
	}
	if net.resets != 1 {
		t.Errorf("expected one NXDN reset, got %d", net.resets)
	}
}

func TestProcessor_RFVoice_IgnoresMismatchedRAN(t *testing.T) {
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net}, RAN: 5}

	frame := nxdncodec.EncodeCAC(nxdncodec.CAC{RAN: 9, Structure: nxdncodec.StructureRCCHSingle})
	if err := p.ProcessRFVoice(context.Background(), frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RFState() != StateIdle {
		t.Error("expected RAN mismatch to be ignored, leaving RF idle")
	}
	if net.nxdnWrites != 0 {
		t.Errorf("expected no writes on RAN mismatch, got %d", net.nxdnWrites)
	}
}

func TestProcessor_NetDropsBehindActiveRF(t *testing.T) {
	p := &Processor{Ctx: core.Context{}}
	p.rf.state = StateAudio

	p.ProcessNetVoice(context.Background(), nil)
	if p.NetState() == StateAudio {
		t.Error("expected net call to be dropped while RF holds the channel")
	}
}

func TestProcessor_CheckTimers_EndsStaleRFCall(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}, Timers: Timers{RFTimeout: 2 * time.Second}, RAN: 1}

	frame := nxdncodec.EncodeCAC(nxdncodec.CAC{RAN: 1, Structure: nxdncodec.StructureRCCHSingle})
	p.ProcessRFVoice(context.Background(), frame)

	clk.Advance(3 * time.Second)
	p.CheckTimers(context.Background())

	if p.RFState() != StateIdle {
		t.Error("expected stale RF call to be ended by CheckTimers")
	}
	if net.resets != 1 {
		t.Errorf("expected CheckTimers to emit a reset, got %d", net.resets)
	}
}

func TestProcessor_ProcessRFVoice_UndecodableFrameIncrementsCounter(t *testing.T) {
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net}, RAN: 1}
	p.rf.state = StateAudio

	if err := p.ProcessRFVoice(context.Background(), []byte{0x00, 0x01}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.RFUndecodableCount() != 1 {
		t.Errorf("expected undecodable count 1, got %d", p.RFUndecodableCount())
	}
}
