// Package dmr implements the DMR voice super-frame state machine
// spec.md §4.5 describes for this gateway's second protocol: voice
// header/terminator LC framing, embedded-LC mid-call reassembly, RF/Net
// collision, and hang timers — grounded on the same
// original_source/src/p25/packet/Voice.cpp shape pkg/voice/p25 follows,
// since no DMR-specific Voice.cpp was retrieved in the pack (see
// DESIGN.md), adapted to DMR's two independent TDMA timeslots and its
// embedded-signalling LC carriage (pkg/dmr.EmbeddedData) rather than
// P25's dedicated LDU2 MI subframe.
package dmr

import (
	"context"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/dmr"
)

// CallState tracks one slot's position in the header -> voice frames ->
// terminator super-frame cycle.
type CallState int

const (
	StateIdle CallState = iota
	StateAudio
)

// Timers configures the RF/Net timeouts, the same shape
// pkg/voice/p25.Timers uses. CheckTimers ends a call once RFTimeout or
// NetTimeout has passed since its last frame; the total length of a
// call that keeps receiving frames is not limited.
type Timers struct {
	RFTimeout  time.Duration
	NetTimeout time.Duration
}

// side holds one timeslot's call state: the last-good LC (reused across
// undecodable mid-call embedded-LC fragments, mirroring pkg/voice/p25's
// unconditional-while-Audio reuse rule), an EmbeddedData assembler, and
// the undecodable counter.
type side struct {
	state       CallState
	lc          dmr.LC
	hasLC       bool
	embedded    dmr.EmbeddedData
	undecodable int
	startedAt   time.Time
	lastFrameAt time.Time
}

// Processor is the DMR voice processor. Slot 1 and slot 2 run
// independent RF/Net call lifecycles, since DMR's two TDMA timeslots
// carry unrelated calls.
type Processor struct {
	Ctx    core.Context
	Timers Timers

	rf  [2]side
	net [2]side
}

func slotIndex(slot int) int {
	if slot == 2 {
		return 1
	}
	return 0
}

// ProcessRFVoiceLCHeader decodes an inbound RF voice-LC-header frame,
// starting a new call on the given slot.
func (p *Processor) ProcessRFVoiceLCHeader(slot int, frame *bits.BitArray) error {
	lc, err := dmr.DecodeFullLC(frame, dmr.DataTypeVoiceLCHeader)
	if err != nil {
		return err
	}
	i := slotIndex(slot)
	p.rf[i] = side{state: StateAudio, lc: lc, hasLC: true, startedAt: p.now(), lastFrameAt: p.now()}
	return nil
}

// ProcessRFEmbeddedLC feeds one voice frame's 5-byte embedded signalling
// fragment into the slot's EmbeddedData assembler. A completed-but-failed
// assembly does not end the call, mirroring pkg/voice/p25's undecodable
// handling: the last good LC carries through.
func (p *Processor) ProcessRFEmbeddedLC(ctx context.Context, slot int, frag [5]byte, lcss dmr.LCSS, frame []byte) (core.LC, error) {
	i := slotIndex(slot)
	s := &p.rf[i]
	if s.state != StateAudio {
		return core.LC{}, nil
	}

	if complete := s.embedded.AddData(frag, lcss); complete {
		if s.embedded.Valid() {
			s.hasLC = true
		} else {
			s.undecodable++
		}
	}
	s.lastFrameAt = p.now()

	out := toCoreLC(s.lc, slot)
	if p.Ctx.Network != nil {
		if werr := p.Ctx.Network.WriteDMRData(ctx, slot, out, frame); werr != nil {
			return out, werr
		}
	}
	return out, nil
}

// ProcessRFTerminator ends the RF call on the given slot, mirroring
// pkg/voice/p25.ProcessRFTDU's idle transition.
func (p *Processor) ProcessRFTerminator(ctx context.Context, slot int, frame *bits.BitArray) error {
	i := slotIndex(slot)
	lc, err := dmr.DecodeFullLC(frame, dmr.DataTypeTerminatorWithLC)
	if err != nil {
		lc = p.rf[i].lc
	}
	p.rf[i] = side{}

	if p.Ctx.Network != nil {
		return p.Ctx.Network.ResetDMR(ctx)
	}
	_ = lc
	return nil
}

// ProcessNetVoice mirrors the RF path for network-originated traffic,
// applying the symmetric RF-wins collision rule spec.md §4.5 requires.
func (p *Processor) ProcessNetVoice(ctx context.Context, slot int, lc core.LC) error {
	i := slotIndex(slot)
	if p.rf[i].state == StateAudio {
		return nil
	}
	if p.net[i].state != StateAudio {
		p.net[i] = side{state: StateAudio, startedAt: p.now()}
	}
	p.net[i].lastFrameAt = p.now()
	return nil
}

func (p *Processor) ProcessNetTerminator(slot int) {
	p.net[slotIndex(slot)] = side{}
}

// CheckTimers ends a slot's RF or Net call once it has gone quiet longer
// than the configured timeout, mirroring pkg/voice/p25.CheckTimers.
func (p *Processor) CheckTimers(ctx context.Context) {
	now := p.now()
	for i := 0; i < 2; i++ {
		slot := i + 1
		if p.rf[i].state == StateAudio && p.Timers.RFTimeout > 0 && now.Sub(p.rf[i].lastFrameAt) > p.Timers.RFTimeout {
			p.rf[i] = side{}
			if p.Ctx.Network != nil {
				p.Ctx.Network.ResetDMR(ctx)
			}
		}
		if p.net[i].state == StateAudio && p.Timers.NetTimeout > 0 && now.Sub(p.net[i].lastFrameAt) > p.Timers.NetTimeout {
			p.ProcessNetTerminator(slot)
		}
	}
}

func (p *Processor) RFState(slot int) CallState  { return p.rf[slotIndex(slot)].state }
func (p *Processor) NetState(slot int) CallState { return p.net[slotIndex(slot)].state }

func (p *Processor) RFUndecodableCount(slot int) int { return p.rf[slotIndex(slot)].undecodable }

func (p *Processor) now() time.Time {
	if p.Ctx.Clock != nil {
		return p.Ctx.Clock.Now()
	}
	return time.Now()
}

func toCoreLC(lc dmr.LC, slot int) core.LC {
	return core.LC{
		Protocol:  core.ProtoDMR,
		SrcID:     lc.SrcID,
		DstID:     lc.DstID,
		GroupCall: lc.GroupCall,
		Emergency: lc.Emergency,
		Encrypted: lc.Privacy,
	}
}
