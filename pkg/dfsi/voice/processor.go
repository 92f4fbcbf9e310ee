// Package voice implements the DFSI fixed-station voice processor: it
// reassembles a connected station's per-record LDU1/LDU2 voice traffic
// into calls through core.Network, and converts network-side traffic
// into the record sequence a station expects to receive, including the
// Start/Stop bracket spec.md §4.7 describes (Stop sent twice, to
// survive the first copy being dropped on an unreliable transport).
// Distinct from pkg/voice/p25, which drives the over-the-air Reed-
// Solomon-coded LDU frame codecs in pkg/p25 directly; this package
// speaks pkg/dfsi's per-record wire framing instead.
package voice

import (
	"context"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/dfsi"
	"github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

// imbeLength mirrors pkg/dfsi's per-subframe size.
const imbeLength = 11

// CallState tracks where an inbound DFSI voice stream sits in its
// Start -> LDU1 -> LDU2 -> ... -> Stop cycle.
type CallState int

const (
	StateIdle CallState = iota
	StateActive
)

// Timers bounds how long an inbound call may run without a fresh
// record before this processor force-ends it, the DFSI-side analogue
// of pkg/voice/p25's RFTimeout/NetTimeout.
type Timers struct {
	CallTimeout time.Duration
}

// Processor is the DFSI voice processor: one instance per connected
// fixed station.
type Processor struct {
	Ctx    core.Context
	Timers Timers

	state       CallState
	rx          dfsi.Assembler
	startedAt   time.Time
	lastFrameAt time.Time
}

// BeginCall starts a new inbound voice stream, resetting the assembler.
// Mirrors the station sending a Start Start/Stop record ahead of its
// VHDR1/VHDR2 and LDU1 records.
func (p *Processor) BeginCall() {
	p.rx.Reset()
	p.state = StateActive
	p.startedAt = p.now()
	p.lastFrameAt = p.startedAt
}

// ProcessLDU1Voice feeds one inbound LDU1_VOICEn record into the
// assembler, dispatching the reassembled LDU1 to the network once all
// nine subframes have arrived.
func (p *Processor) ProcessLDU1Voice(ctx context.Context, data []byte) (bool, error) {
	if p.state != StateActive {
		return false, nil
	}
	if _, err := p.rx.DecodeLDU1Voice(data); err != nil {
		return false, err
	}
	p.lastFrameAt = p.now()
	if !p.rx.Complete() {
		return false, nil
	}

	lc := dfsi.ToCoreLC(p.rx.LC)
	if p.Ctx.Network != nil {
		if err := p.Ctx.Network.WriteP25LDU1(ctx, lc, flattenIMBE(p.rx.IMBE())); err != nil {
			return true, err
		}
	}
	p.rx.Reset()
	return true, nil
}

// ProcessLDU2Voice is ProcessLDU1Voice's LDU2 counterpart.
func (p *Processor) ProcessLDU2Voice(ctx context.Context, data []byte) (bool, error) {
	if p.state != StateActive {
		return false, nil
	}
	if _, err := p.rx.DecodeLDU2Voice(data); err != nil {
		return false, err
	}
	p.lastFrameAt = p.now()
	if !p.rx.Complete() {
		return false, nil
	}

	lc := dfsi.ToCoreLC(p.rx.LC)
	if p.Ctx.Network != nil {
		if err := p.Ctx.Network.WriteP25LDU2(ctx, lc, flattenIMBE(p.rx.IMBE())); err != nil {
			return true, err
		}
	}
	p.rx.Reset()
	return true, nil
}

// EndCall ends the inbound voice stream, mirroring the station sending
// a Stop Start/Stop record, and notifies the network the call is over.
func (p *Processor) EndCall(ctx context.Context) error {
	lc := dfsi.ToCoreLC(p.rx.LC)
	p.state = StateIdle
	p.rx.Reset()
	if p.Ctx.Network != nil {
		return p.Ctx.Network.WriteP25TDU(ctx, lc)
	}
	return nil
}

// CheckTimer ends the call if no fresh record has arrived within
// Timers.CallTimeout.
func (p *Processor) CheckTimer(ctx context.Context) error {
	if p.state != StateActive || p.Timers.CallTimeout <= 0 {
		return nil
	}
	if p.now().Sub(p.lastFrameAt) > p.Timers.CallTimeout {
		return p.EndCall(ctx)
	}
	return nil
}

// State reports the processor's current call state.
func (p *Processor) State() CallState { return p.state }

func (p *Processor) now() time.Time {
	if p.Ctx.Clock != nil {
		return p.Ctx.Clock.Now()
	}
	return time.Now()
}

// EncodeOutboundLDU1 converts a network-side LC plus its 9*imbeLength
// byte voice payload into the nine DFSI LDU1_VOICEn records a connected
// station expects, the reverse of ProcessLDU1Voice. rssi/lsd are zero
// since inbound network traffic carries neither; a station-facing
// encoder that has its own signal-quality data can override them by
// calling dfsi.EncodeLDU1 directly.
func EncodeOutboundLDU1(lc core.LC, payload []byte) [9][]byte {
	return dfsi.EncodeLDU1(fromCoreLC(lc), dfsi.LSD{}, 0, unflattenIMBE(payload))
}

// EncodeOutboundLDU2 is EncodeOutboundLDU1's LDU2 counterpart.
func EncodeOutboundLDU2(lc core.LC, payload []byte) [9][]byte {
	return dfsi.EncodeLDU2(fromCoreLC(lc), dfsi.LSD{}, 0, unflattenIMBE(payload))
}

// StartRecord/StopRecords build the Start/Stop bracket records framing
// an outbound call to a connected station. Per spec.md §4.7 Stop is
// sent twice so the first copy being lost to reordering/loss on an
// unreliable transport does not strand the station mid-call.
func StartRecord() []byte {
	return dfsi.StartStop{RTMode: dfsi.RTModeEnabled, Control: dfsi.StartFlag, Type: dfsi.TypeVoice}.Encode()
}

func StopRecords() [2][]byte {
	rec := dfsi.StartStop{RTMode: dfsi.RTModeEnabled, Control: dfsi.StopFlag, Type: dfsi.TypeVoice}.Encode()
	return [2][]byte{rec, append([]byte(nil), rec...)}
}

func flattenIMBE(imbe [9][imbeLength]byte) []byte {
	out := make([]byte, 0, 9*imbeLength)
	for _, sub := range imbe {
		out = append(out, sub[:]...)
	}
	return out
}

func unflattenIMBE(payload []byte) [9][imbeLength]byte {
	var imbe [9][imbeLength]byte
	for i := range imbe {
		off := i * imbeLength
		if off+imbeLength > len(payload) {
			break
		}
		copy(imbe[i][:], payload[off:off+imbeLength])
	}
	return imbe
}

func fromCoreLC(lc core.LC) p25.LC {
	return p25.LC{
		SrcID:     lc.SrcID,
		DstID:     lc.DstID,
		Group:     lc.GroupCall,
		Emergency: lc.Emergency,
		Encrypted: lc.Encrypted,
	}
}
