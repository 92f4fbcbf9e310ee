package modem

// Status is the decoded reply to a GET_STATUS poll, issued every ~250ms
// per spec.md §4.3.
type Status struct {
	ModemFlags  byte
	ModemState  byte
	TXFlag      bool
	ADCOverflow bool
	RXOverflow  bool
	TXOverflow  bool
	Lockout     bool
	DACOverflow bool
	CD          bool

	DMRSpace1 uint8
	DMRSpace2 uint8
	P25Space  uint8
	NXDNSpace uint8
}

// overflowCounters tracks the decaying overflow counters spec.md §4.3
// requires: incremented on each status reply showing an overflow
// condition, decayed by 1 on each clean status, warn at max/2, reset the
// modem at max.
type overflowCounters struct {
	adc, rx, tx, dac int
	max              int
}

func newOverflowCounters(max int) *overflowCounters {
	return &overflowCounters{max: max}
}

// overflowOutcome reports what a status update implies the caller should
// do: nothing, warn, or reset the modem.
type overflowOutcome int

const (
	overflowNone overflowOutcome = iota
	overflowWarn
	overflowReset
)

func (c *overflowCounters) update(s Status) overflowOutcome {
	step := func(counter *int, hit bool) overflowOutcome {
		if hit {
			*counter++
		} else if *counter > 0 {
			*counter--
		}
		switch {
		case *counter >= c.max:
			return overflowReset
		case *counter >= c.max/2:
			return overflowWarn
		default:
			return overflowNone
		}
	}

	worst := overflowNone
	for _, o := range []overflowOutcome{
		step(&c.adc, s.ADCOverflow),
		step(&c.rx, s.RXOverflow),
		step(&c.tx, s.TXOverflow),
		step(&c.dac, s.DACOverflow),
	} {
		if o > worst {
			worst = o
		}
	}
	return worst
}
