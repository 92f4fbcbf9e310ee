// Package nxdn implements the NXDN voice super-frame state machine
// spec.md §4.5 describes for the third protocol this gateway carries:
// RF/Net call lifecycle tracking, hang timers, and undecodable-frame
// counting, mirrored on pkg/voice/p25's processor shape since no
// NXDN-specific Voice.cpp/VoicePacket.cpp was retrieved in the pack (see
// DESIGN.md) — only nxdn/packet/Trunk.cpp, which this repo's pkg/trunk
// already grounds the control-channel side on. The per-call link
// control here is therefore the CAC frame's RAN plus its opaque
// payload rather than a parsed source/destination LC, since no RTCH
// payload layout was retrieved either.
package nxdn

import (
	"context"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/nxdn"
)

// CallState mirrors pkg/voice/p25's Idle/Audio cycle.
type CallState int

const (
	StateIdle CallState = iota
	StateAudio
)

// Timers configures the RF/Net timeouts, the same hang-timer shape
// pkg/voice/p25.Timers uses. CheckTimers ends a call once RFTimeout or
// NetTimeout has passed since its last frame; the total length of a
// call that keeps receiving frames is not limited.
type Timers struct {
	RFTimeout  time.Duration
	NetTimeout time.Duration
}

type side struct {
	state       CallState
	ran         byte
	undecodable int
	lastFrameAt time.Time
}

// Processor is the NXDN voice processor: it decodes inbound RF/Net CAC
// frames into a call lifecycle and hands the payload to the
// core.Network capability.
type Processor struct {
	Ctx    core.Context
	Timers Timers
	RAN    uint8

	rf  side
	net side
}

// ProcessRFVoice decodes an inbound RF CAC frame. A RAN mismatch is
// silently ignored (this station isn't the intended recipient),
// mirroring trunk.NXDNProcessor.Process's own RAN check; a decode
// failure increments the undecodable counter and keeps the call alive
// rather than ending it outright, the same "reuse across failures"
// shape pkg/voice/p25 documents.
func (p *Processor) ProcessRFVoice(ctx context.Context, frame []byte) error {
	cac, err := nxdn.DecodeCAC(frame)
	if err != nil {
		if p.rf.state == StateAudio {
			p.rf.undecodable++
		}
		return nil
	}
	if cac.RAN != p.RAN && cac.RAN != 0 {
		return nil
	}

	if p.rf.state != StateAudio {
		p.rf = side{state: StateAudio, ran: cac.RAN}
	}
	p.rf.lastFrameAt = p.now()

	if p.Ctx.Network != nil {
		lc := core.LC{Protocol: core.ProtoNXDN}
		return p.Ctx.Network.WriteNXDN(ctx, lc, frame)
	}
	return nil
}

// ProcessRFEnd ends the current RF call, mirroring the TDU-equivalent
// idle transition pkg/voice/p25.ProcessRFTDU performs.
func (p *Processor) ProcessRFEnd(ctx context.Context) error {
	p.rf = side{}
	if p.Ctx.Network != nil {
		return p.Ctx.Network.ResetNXDN(ctx)
	}
	return nil
}

// ProcessNetVoice mirrors ProcessRFVoice for net-originated traffic,
// applying the same RF-wins collision rule pkg/voice/p25 implements.
func (p *Processor) ProcessNetVoice(ctx context.Context, frame []byte) error {
	if p.rf.state == StateAudio {
		return nil
	}
	if p.net.state != StateAudio {
		p.net = side{state: StateAudio}
	}
	p.net.lastFrameAt = p.now()
	return nil
}

func (p *Processor) ProcessNetEnd() {
	p.net = side{}
}

// CheckTimers ends a call once its direction has gone quiet longer than
// the configured timeout.
func (p *Processor) CheckTimers(ctx context.Context) {
	now := p.now()
	if p.rf.state == StateAudio && p.Timers.RFTimeout > 0 && now.Sub(p.rf.lastFrameAt) > p.Timers.RFTimeout {
		p.ProcessRFEnd(ctx)
	}
	if p.net.state == StateAudio && p.Timers.NetTimeout > 0 && now.Sub(p.net.lastFrameAt) > p.Timers.NetTimeout {
		p.ProcessNetEnd()
	}
}

func (p *Processor) RFState() CallState  { return p.rf.state }
func (p *Processor) NetState() CallState { return p.net.state }

func (p *Processor) RFUndecodableCount() int { return p.rf.undecodable }

func (p *Processor) now() time.Time {
	if p.Ctx.Clock != nil {
		return p.Ctx.Clock.Now()
	}
	return time.Now()
}
