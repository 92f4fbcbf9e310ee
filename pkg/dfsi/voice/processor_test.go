package voice

import (
	"context"
	"testing"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/clock"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/dfsi"
	"github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

type fakeNetwork struct {
	ldu1, ldu2 int
	tdus       int
	lastLC     core.LC
	lastData   []byte
}

func (n *fakeNetwork) WriteP25LDU1(ctx context.Context, lc core.LC, data []byte) error {
	n.ldu1++
	n.lastLC = lc
	n.lastData = data
	return nil
}
func (n *fakeNetwork) WriteP25LDU2(ctx context.Context, lc core.LC, data []byte) error {
	n.ldu2++
	n.lastLC = lc
	n.lastData = data
	return nil
}
func (n *fakeNetwork) WriteP25TDU(ctx context.Context, lc core.LC) error { n.tdus++; return nil }
func (n *fakeNetwork) WriteP25TSBK(ctx context.Context, data []byte) error { return nil }
func (n *fakeNetwork) WriteDMRData(ctx context.Context, slot int, lc core.LC, data []byte) error {
	return nil
}
func (n *fakeNetwork) WriteNXDN(ctx context.Context, lc core.LC, data []byte) error { return nil }
func (n *fakeNetwork) ResetP25(ctx context.Context) error                          { return nil }
func (n *fakeNetwork) ResetDMR(ctx context.Context) error                          { return nil }
func (n *fakeNetwork) ResetNXDN(ctx context.Context) error                         { return nil }

func testIMBE() [9][imbeLength]byte {
	var imbe [9][imbeLength]byte
	for i := range imbe {
		for j := range imbe[i] {
			imbe[i][j] = byte(i*imbeLength + j)
		}
	}
	return imbe
}

func TestProcessor_LDU1CallLifecycle(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net, Clock: clk}}

	lc := p25.LC{SrcID: 5300208, DstID: 34000, Group: true}
	records := dfsi.EncodeLDU1(lc, dfsi.LSD{}, 0, testIMBE())

	p.BeginCall()
	if p.State() != StateActive {
		t.Fatalf("State() = %v, want StateActive", p.State())
	}

	var complete bool
	for i, data := range records {
		var err error
		complete, err = p.ProcessLDU1Voice(context.Background(), data)
		if err != nil {
			t.Fatalf("ProcessLDU1Voice(record %d): %v", i, err)
		}
		if i < 8 && complete {
			t.Fatalf("record %d reported complete early", i)
		}
	}
	if !complete {
		t.Fatal("ninth record did not complete the LDU1")
	}
	if net.ldu1 != 1 {
		t.Errorf("WriteP25LDU1 called %d times, want 1", net.ldu1)
	}
	if net.lastLC.SrcID != lc.SrcID || net.lastLC.DstID != lc.DstID || !net.lastLC.GroupCall {
		t.Errorf("lastLC = %+v, want SrcID=%d DstID=%d GroupCall=true", net.lastLC, lc.SrcID, lc.DstID)
	}
	if len(net.lastData) != 9*imbeLength {
		t.Errorf("lastData length = %d, want %d", len(net.lastData), 9*imbeLength)
	}

	if err := p.EndCall(context.Background()); err != nil {
		t.Fatalf("EndCall: %v", err)
	}
	if net.tdus != 1 {
		t.Errorf("WriteP25TDU called %d times, want 1", net.tdus)
	}
	if p.State() != StateIdle {
		t.Errorf("State() = %v after EndCall, want StateIdle", p.State())
	}
}

func TestProcessor_IgnoresRecordsBeforeBeginCall(t *testing.T) {
	net := &fakeNetwork{}
	p := &Processor{Ctx: core.Context{Network: net}}

	records := dfsi.EncodeLDU1(p25.LC{}, dfsi.LSD{}, 0, testIMBE())
	complete, err := p.ProcessLDU1Voice(context.Background(), records[0])
	if err != nil {
		t.Fatalf("ProcessLDU1Voice: %v", err)
	}
	if complete {
		t.Fatal("ProcessLDU1Voice reported complete with no active call")
	}
	if net.ldu1 != 0 {
		t.Errorf("WriteP25LDU1 called %d times before BeginCall, want 0", net.ldu1)
	}
}

func TestProcessor_CheckTimer_EndsStaleCall(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	net := &fakeNetwork{}
	p := &Processor{
		Ctx:    core.Context{Network: net, Clock: clk},
		Timers: Timers{CallTimeout: 2 * time.Second},
	}

	p.BeginCall()
	clk.Advance(3 * time.Second)
	if err := p.CheckTimer(context.Background()); err != nil {
		t.Fatalf("CheckTimer: %v", err)
	}
	if p.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle after timeout", p.State())
	}
	if net.tdus != 1 {
		t.Errorf("WriteP25TDU called %d times, want 1", net.tdus)
	}
}

func TestEncodeOutboundLDU1_RoundTrip(t *testing.T) {
	lc := core.LC{SrcID: 100, DstID: 200, GroupCall: true}
	payload := make([]byte, 9*imbeLength)
	for i := range payload {
		payload[i] = byte(i)
	}

	records := EncodeOutboundLDU1(lc, payload)

	var a dfsi.Assembler
	for i, data := range records {
		if _, err := a.DecodeLDU1Voice(data); err != nil {
			t.Fatalf("DecodeLDU1Voice(record %d): %v", i, err)
		}
	}
	if !a.Complete() {
		t.Fatal("reassembled LDU1 is not complete")
	}
	if a.LC.SrcID != lc.SrcID || a.LC.DstID != lc.DstID || !a.LC.Group {
		t.Errorf("LC = %+v, want SrcID=%d DstID=%d Group=true", a.LC, lc.SrcID, lc.DstID)
	}
}

func TestStartRecord_Decodes(t *testing.T) {
	var s dfsi.StartStop
	if !s.Decode(StartRecord()) {
		t.Fatal("Decode rejected StartRecord()'s output")
	}
	if s.Control != dfsi.StartFlag {
		t.Errorf("Control = %#x, want StartFlag", s.Control)
	}
}

func TestStopRecords_SendsTwoIdenticalCopies(t *testing.T) {
	stops := StopRecords()
	if string(stops[0]) != string(stops[1]) {
		t.Fatal("StopRecords returned two different records")
	}
	var s dfsi.StartStop
	if !s.Decode(stops[0]) || s.Control != dfsi.StopFlag {
		t.Fatal("StopRecords did not encode a Stop record")
	}
}
