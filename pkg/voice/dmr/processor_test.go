package dmr

import (
	"context"
	"testing"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/clock"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	dmrcodec "github.com/DVMProject/dvmhost-sub010/pkg/dmr"
)

type fakeNetwork struct {
	dmrWrites int
	resets    int
	lastLC    core.LC
}

func (n *fakeNetwork) WriteP25LDU1(ctx context.Context, lc core.LC, data []byte) error { return nil }
func (n *fakeNetwork) WriteP25LDU2(ctx context.Context, lc core.LC, data []byte) error { return nil }
func (n *fakeNetwork) WriteP25TDU(ctx context.Context, lc core.LC) error               { return nil }
func (n *fakeNetwork) WriteP25TSBK(ctx context.Context, data []byte) error             { return nil }
func (n *fakeNetwork) WriteDMRData(ctx context.Context, slot int, lc core.LC, data []byte) error {
	n.dmrWrites++
	n.lastLC = lc
	return nil
}
func (n *fakeNetwork) WriteNXDN(ctx context.Context, lc core.LC, data []byte) error { return nil }
func (n *fakeNetwork) ResetP25(ctx context.Context) error                          { return nil }
func (n *fakeNetwork) ResetDMR(ctx context.Context) error                          { n.resets++; return nil }
func (n *fakeNetwork) ResetNXDN(ctx context.Context) error                         { return nil }

func TestProcessor_RFCallLifecycle(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}}

	hdr, err := dmrcodec.EncodeFullLC(dmrcodec.LC{FLCO: dmrcodec.FLCOGroup, SrcID: 100, DstID: 200, GroupCall: true}, dmrcodec.DataTypeVoiceLCHeader)
	if err != nil {
		t.Fatalf("EncodeFullLC failed: %v", err)
	}
	if err := p.ProcessRFVoiceLCHeader(1, hdr); err != nil {
		t.Fatalf("ProcessRFVoiceLCHeader failed: %v", err)
	}
	if p.RFState(1) != StateAudio {
		t.Fatal("expected slot 1 RF state Audio after header")
	}
	if p.RFState(2) != StateIdle {
		t.Error("expected slot 2 to remain idle")
	}

	out, err := p.ProcessRFEmbeddedLC(context.Background(), 1, [5]byte{1, 2, 3, 4, 5}, dmrcodec.LCSSSingleFragment, nil)
	if err != nil {
		t.Fatalf("ProcessRFEmbeddedLC failed: %v", err)
	}
	if out.DstID != 200 {
		t.Errorf("expected dst id 200 carried through, got %d", out.DstID)
	}
	if net.dmrWrites != 1 {
		t.Errorf("expected one DMR write, got %d", net.dmrWrites)
	}

	term, err := dmrcodec.EncodeFullLC(dmrcodec.LC{FLCO: dmrcodec.FLCOGroup, SrcID: 100, DstID: 200}, dmrcodec.DataTypeTerminatorWithLC)
	if err != nil {
		t.Fatalf("EncodeFullLC (terminator) failed: %v", err)
	}
	if err := p.ProcessRFTerminator(context.Background(), 1, term); err != nil {
		t.Fatalf("ProcessRFTerminator failed: %v", err)
	}
	if p.RFState(1) != StateIdle {
		t.Error("expected slot 1 RF state Idle after terminator")
	}
	if net.resets != 1 {
		t.Errorf("expected one DMR reset, got %d", net.resets)
	}
}

func TestProcessor_NetDropsBehindActiveRF(t *testing.T) {
	p := &Processor{Ctx: core.Context{}}
	p.rf[0].state = StateAudio

	if err := p.ProcessNetVoice(context.Background(), 1, core.LC{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NetState(1) == StateAudio {
		t.Error("expected net call to be dropped while RF holds slot 1")
	}
}

func TestProcessor_SlotsAreIndependent(t *testing.T) {
	p := &Processor{Ctx: core.Context{}}
	p.rf[0].state = StateAudio

	if err := p.ProcessNetVoice(context.Background(), 2, core.LC{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NetState(2) != StateAudio {
		t.Error("expected slot 2 net call to proceed independently of slot 1's active RF call")
	}
}

func TestProcessor_CheckTimers_EndsStaleRFCall(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}, Timers: Timers{RFTimeout: 2 * time.Second}}

	hdr, err := dmrcodec.EncodeFullLC(dmrcodec.LC{}, dmrcodec.DataTypeVoiceLCHeader)
	if err != nil {
		t.Fatalf("EncodeFullLC failed: %v", err)
	}
	p.ProcessRFVoiceLCHeader(1, hdr)

	clk.Advance(3 * time.Second)
	p.CheckTimers(context.Background())

	if p.RFState(1) != StateIdle {
		t.Error("expected stale RF call on slot 1 to be ended by CheckTimers")
	}
	if net.resets != 1 {
		t.Errorf("expected CheckTimers to emit a reset, got %d", net.resets)
	}
}
