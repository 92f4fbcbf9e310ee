package p25

import (
	"context"
	"testing"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/clock"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	p25codec "github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

type fakeNetwork struct {
	ldu1, ldu2 int
	tdus       int
	tsbks      int
	lastLC     core.LC
}

func (n *fakeNetwork) WriteP25LDU1(ctx context.Context, lc core.LC, data []byte) error {
	n.ldu1++
	n.lastLC = lc
	return nil
}
func (n *fakeNetwork) WriteP25LDU2(ctx context.Context, lc core.LC, data []byte) error {
	n.ldu2++
	n.lastLC = lc
	return nil
}
func (n *fakeNetwork) WriteP25TDU(ctx context.Context, lc core.LC) error {
	n.tdus++
	return nil
}
func (n *fakeNetwork) WriteP25TSBK(ctx context.Context, data []byte) error { n.tsbks++; return nil }
func (n *fakeNetwork) WriteDMRData(ctx context.Context, slot int, lc core.LC, data []byte) error {
	return nil
}
func (n *fakeNetwork) WriteNXDN(ctx context.Context, lc core.LC, data []byte) error { return nil }
func (n *fakeNetwork) ResetP25(ctx context.Context) error                          { return nil }
func (n *fakeNetwork) ResetDMR(ctx context.Context) error                          { return nil }
func (n *fakeNetwork) ResetNXDN(ctx context.Context) error                         { return nil }

func TestProcessor_RFCallLifecycle(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}}

	hdu := p25codec.EncodeHDU(p25codec.LC{MI: [9]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, AlgID: 0x80, KeyID: 1})
	if err := p.ProcessRFHDU(hdu); err != nil {
		t.Fatalf("ProcessRFHDU failed: %v", err)
	}
	if p.RFState() != StateAudio {
		t.Fatal("expected RF state Audio after HDU")
	}

	ldu1 := p25codec.EncodeLDU1LC(p25codec.LC{LCO: p25codec.LCOGroup, SrcID: 100, DstID: 200, Group: true})
	if _, err := p.ProcessRFLDU1(context.Background(), ldu1); err != nil {
		t.Fatalf("ProcessRFLDU1 failed: %v", err)
	}
	if net.ldu1 != 1 {
		t.Errorf("expected one LDU1 write, got %d", net.ldu1)
	}
	if net.lastLC.DstID != 200 {
		t.Errorf("expected dst id 200, got %d", net.lastLC.DstID)
	}

	if err := p.ProcessRFTDU(context.Background()); err != nil {
		t.Fatalf("ProcessRFTDU failed: %v", err)
	}
	if p.RFState() != StateIdle {
		t.Error("expected RF state Idle after TDU")
	}
	if net.tdus != 1 {
		t.Errorf("expected one TDU write, got %d", net.tdus)
	}
}

func TestProcessor_LDU1Undecodable_ReusesLastLC(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}}

	hdu := p25codec.EncodeHDU(p25codec.LC{})
	p.ProcessRFHDU(hdu)
	p.rf.lc = p25codec.LC{SrcID: 111, DstID: 222}

	garbage := make([]byte, 18)
	for i := range garbage {
		garbage[i] = 0xFF
	}
	out, err := p.ProcessRFLDU1(context.Background(), garbage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.DstID != 222 {
		t.Errorf("expected reused DstID 222, got %d", out.DstID)
	}
	if p.RFUndecodableCount() != 1 {
		t.Errorf("expected undecodable count 1, got %d", p.RFUndecodableCount())
	}
}

func TestProcessor_NetDropsBehindActiveRF(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &Processor{Ctx: core.Context{Clock: clk}}
	p.rf.state = StateAudio

	if err := p.ProcessNetLDU1(context.Background(), core.LC{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NetState() == StateAudio {
		t.Error("expected net call to be dropped while RF holds the channel")
	}
}

func TestProcessor_CheckTimers_EndsStaleRFCall(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}, Timers: Timers{RFTimeout: 2 * time.Second}}

	hdu := p25codec.EncodeHDU(p25codec.LC{})
	p.ProcessRFHDU(hdu)

	clk.Advance(3 * time.Second)
	p.CheckTimers(context.Background())

	if p.RFState() != StateIdle {
		t.Error("expected stale RF call to be ended by CheckTimers")
	}
	if net.tdus != 1 {
		t.Errorf("expected CheckTimers to emit a TDU, got %d", net.tdus)
	}
}
