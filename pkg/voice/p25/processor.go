// Package p25 implements the P25 voice super-frame state machine
// spec.md §4.5 describes: HDU/LDU1/LDU2/TDU framing, RF/Net traffic
// collision and preemption, undecodable-LC fallback, and the hang
// timers that end a call after the air goes quiet. Grounded on
// original_source/p25/VoicePacket.cpp / src/p25/packet/Voice.cpp, with
// pkg/p25 supplying the Reed-Solomon-protected frame codecs this
// package drives.
package p25

import (
	"context"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

// CallState tracks one direction's (RF or Net) position in the
// HDU -> LDU1/LDU2... -> TDU super-frame cycle.
type CallState int

const (
	StateIdle CallState = iota
	StateAudio
)

// Timers configures how long a call may run without fresh traffic
// before this processor force-ends it, mirroring Voice.cpp's
// m_rfTimeout/m_netTimeout (absolute call-length ceiling) and
// m_tgHang/m_netTgHang (same-talkgroup preemption-grace window)
// fields, reshaped per pkg/bridge/timer.go's hang-timer idiom (duration
// configured once, deadline computed off the processor's Clock rather
// than started/stopped goroutines).
type Timers struct {
	RFTimeout  time.Duration
	NetTimeout time.Duration
	TGHang     time.Duration
	NetTGHang  time.Duration
}

// side holds the per-direction (RF or Net) call state Voice.cpp keeps
// in m_rfLC/m_rfLastHDU/m_rfUndecodableLC and their m_net* twins.
type side struct {
	state       CallState
	lc          p25.LC
	lastGoodMI  [9]byte
	hasLastMI   bool
	undecodable int
	startedAt   time.Time
	lastFrameAt time.Time
}

// Processor is the P25 voice processor: it decodes inbound RF/Net
// frames into a core.CallSession lifecycle, resolves RF/Net collisions,
// and hands decoded traffic to the core.Network capability.
type Processor struct {
	Ctx    core.Context
	Timers Timers

	rf  side
	net side
}

// ProcessRFHDU handles an inbound RF header-unit frame: it starts a new
// RF call, capturing the encryption MI/AlgID/KeyID the LDU2 stream will
// advance from, mirroring Voice::process's HDU branch.
func (p *Processor) ProcessRFHDU(frame []byte) error {
	lc, err := p25.DecodeHDU(frame)
	if err != nil {
		return err
	}
	p.rf = side{state: StateAudio, lc: lc, lastGoodMI: lc.MI, hasLastMI: true, startedAt: p.now(), lastFrameAt: p.now()}
	return nil
}

// ProcessRFLDU1 decodes an RF LDU1 frame's voice LC. A decode failure
// does not end the call: per Voice.cpp, while rf_state is Audio the
// last good LC is reused unconditionally, not just on the first
// failure (see DESIGN.md Open Question resolution).
func (p *Processor) ProcessRFLDU1(ctx context.Context, frame []byte) (core.LC, error) {
	if p.rf.state != StateAudio {
		return core.LC{}, nil
	}
	lc, err := p25.DecodeLDU1LC(frame)
	if err != nil {
		p.rf.undecodable++
		lc = p.rf.lc
	} else {
		p.rf.lc = lc
	}
	p.rf.lastFrameAt = p.now()

	out := toCoreLC(lc)
	if p.Ctx.Network != nil {
		if werr := p.Ctx.Network.WriteP25LDU1(ctx, out, frame); werr != nil {
			return out, werr
		}
	}
	return out, nil
}

// ProcessRFLDU2 decodes an RF LDU2 frame's encryption-sync MI. A decode
// failure (same unconditional-while-Audio rule as ProcessRFLDU1)
// substitutes NextMI of the last MI, the LFSR advanced 64 clocks, and
// keeps that as the base for the next LDU2.
func (p *Processor) ProcessRFLDU2(ctx context.Context, frame []byte) (core.LC, error) {
	if p.rf.state != StateAudio {
		return core.LC{}, nil
	}
	mi, err := p25.DecodeLDU2MI(frame)
	if err != nil {
		p.rf.undecodable++
		mi = p25.NextMI(p.rf.lastGoodMI)
		p.rf.lastGoodMI = mi
	} else {
		p.rf.lastGoodMI = mi
		p.rf.hasLastMI = true
	}
	p.rf.lc.MI = mi
	p.rf.lastFrameAt = p.now()

	out := toCoreLC(p.rf.lc)
	if p.Ctx.Network != nil {
		if werr := p.Ctx.Network.WriteP25LDU2(ctx, out, frame); werr != nil {
			return out, werr
		}
	}
	return out, nil
}

// ProcessRFTDU ends the RF call, mirroring Voice::process's TDU branch
// and Control::writeRF_TDU. It computes NextMI of the last MI into the
// TDU's LC, but toCoreLC carries no MI and the RF state is cleared, so
// the advanced MI is not passed on; the next call takes its MI from its
// own HDU.
func (p *Processor) ProcessRFTDU(ctx context.Context) error {
	lc := p.rf.lc
	if p.rf.hasLastMI {
		lc.MI = p25.NextMI(p.rf.lastGoodMI)
	}
	p.rf = side{}

	if p.Ctx.Network != nil {
		return p.Ctx.Network.WriteP25TDU(ctx, toCoreLC(lc))
	}
	return nil
}

// ProcessNetLDU1/ProcessNetTDU mirror the RF-side handlers for traffic
// arriving from the IP network side; there is no net-side LDU2 handler. A net call is
// rejected while an RF call already holds the channel, implementing the
// symmetric RF/Net collision rule spec.md §4.5 requires (RF always wins
// over Net, Net never preempts RF mid-call).
func (p *Processor) ProcessNetLDU1(ctx context.Context, lc core.LC, frame []byte) error {
	if p.rf.state == StateAudio {
		return nil // RF holds the channel; net traffic is dropped
	}
	p.net.state = StateAudio
	p.net.lastFrameAt = p.now()
	if p.net.startedAt.IsZero() {
		p.net.startedAt = p.now()
	}
	return nil
}

func (p *Processor) ProcessNetTDU(ctx context.Context) {
	p.net = side{}
}

// CheckTimers ends the RF or Net call if no fresh traffic has arrived
// within the configured RFTimeout/NetTimeout, mirroring Voice.cpp's
// per-tick m_rfTimeoutTimer/m_netTimeoutTimer expiry check.
func (p *Processor) CheckTimers(ctx context.Context) {
	now := p.now()
	if p.rf.state == StateAudio && p.Timers.RFTimeout > 0 && now.Sub(p.rf.lastFrameAt) > p.Timers.RFTimeout {
		p.ProcessRFTDU(ctx)
	}
	if p.net.state == StateAudio && p.Timers.NetTimeout > 0 && now.Sub(p.net.lastFrameAt) > p.Timers.NetTimeout {
		p.ProcessNetTDU(ctx)
	}
}

// RFUndecodableCount / NetUndecodableCount expose the current call's
// rf_undecodable_lc/net_undecodable_lc counters (supplemented from
// Voice.cpp per SPEC_FULL.md), reset each time a new HDU starts a call.
func (p *Processor) RFUndecodableCount() int  { return p.rf.undecodable }
func (p *Processor) NetUndecodableCount() int { return p.net.undecodable }

// RFState / NetState expose the current per-direction call state.
func (p *Processor) RFState() CallState  { return p.rf.state }
func (p *Processor) NetState() CallState { return p.net.state }

func (p *Processor) now() time.Time {
	if p.Ctx.Clock != nil {
		return p.Ctx.Clock.Now()
	}
	return time.Now()
}

func toCoreLC(lc p25.LC) core.LC {
	return core.LC{
		Protocol:  core.ProtoP25,
		SrcID:     lc.SrcID,
		DstID:     lc.DstID,
		GroupCall: lc.Group,
		Emergency: lc.Emergency,
		Encrypted: lc.Encrypted,
	}
}
