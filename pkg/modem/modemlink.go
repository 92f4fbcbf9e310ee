package modem

import (
	"fmt"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
	"github.com/DVMProject/dvmhost-sub010/pkg/logger"
)

const (
	watchdogTimeout  = 4 * time.Second
	watchdogRetry    = 5 * time.Second
	statusPollPeriod = 250 * time.Millisecond

	dmrFrameLen  = 33
	p25FrameLen  = 216 / 8 * 8 // placeholder byte-size basis; refined per-DUID by callers
	nxdnFrameLen = 30
)

// Config bundles the fields ModemLink's open handshake needs from
// pkg/config's Modem block.
type Config struct {
	RFParams     []byte // SET_RFPARAMS payload
	ConfigBlock  []byte // SET_CONFIG payload
	SymLvlAdj    []byte // SET_SYMLVLADJ payload
	DisableOverflowReset bool
	OverflowMax  int
}

// ModemLink implements the host side of the ModemPort framing protocol:
// frame sync, the v2/v3 open handshake with flash-config cross-check,
// per-protocol TX-space accounting, and the inactivity watchdog.
type ModemLink struct {
	port  core.ModemPort
	clock core.Clock
	log   *logger.Logger
	cfg   Config

	protoVersion byte
	nxdnEnabled  bool

	txSpaceDMR1 int
	txSpaceDMR2 int
	txSpaceP25  int
	txSpaceNXDN int

	overflow *overflowCounters

	open           bool
	lastResponseAt time.Time
	modemState     byte

	reader *frameReader
}

// New constructs a ModemLink over port, using clk for all timing so
// tests can fast-forward the watchdog and poll cadence.
func New(port core.ModemPort, clk core.Clock, log *logger.Logger, cfg Config) *ModemLink {
	max := cfg.OverflowMax
	if max <= 0 {
		max = 64
	}
	return &ModemLink{
		port:     port,
		clock:    clk,
		log:      log,
		cfg:      cfg,
		overflow: newOverflowCounters(max),
	}
}

// Open runs the GET_VERSION / FLSH_READ / SET_RFPARAMS / SET_CONFIG /
// SET_SYMLVLADJ handshake per spec.md §4.3.
func (m *ModemLink) Open() error {
	if err := m.port.Open(); err != nil {
		return fmt.Errorf("modem: opening port: %w", err)
	}

	if err := m.writeFrame(OpGetVersion, nil); err != nil {
		return fmt.Errorf("modem: sending GET_VERSION: %w", err)
	}
	_, payload, err := m.readFrame()
	if err != nil {
		return fmt.Errorf("modem: reading GET_VERSION reply: %w", err)
	}
	if len(payload) < 1 {
		return core.ErrParseTooShort
	}
	version := payload[0]
	if version != 2 && version != 3 {
		return fmt.Errorf("modem: unsupported protocol version %d", version)
	}
	m.protoVersion = version
	m.nxdnEnabled = version == 3

	if err := m.writeFrame(OpFlshRead, nil); err != nil {
		return fmt.Errorf("modem: sending FLSH_READ: %w", err)
	}
	_, flash, err := m.readFrame()
	if err != nil {
		return fmt.Errorf("modem: reading FLSH_READ reply: %w", err)
	}
	if len(flash) < flashBlockLen {
		return core.ErrParseTooShort
	}
	if !edac.CheckCCITT162(flash[:dvmConfAreaLen+2]) {
		m.log.Warn("flash configuration CRC mismatch")
	} else {
		m.crossCheckFlashConfig(flash[:dvmConfAreaLen])
	}

	if err := m.sendWithRetry(OpSetRFParams, m.cfg.RFParams, 2); err != nil {
		return fmt.Errorf("modem: SET_RFPARAMS: %w", err)
	}
	if err := m.sendWithRetry(OpSetConfig, m.cfg.ConfigBlock, 2); err != nil {
		return fmt.Errorf("modem: SET_CONFIG: %w", err)
	}
	if err := m.sendWithRetry(OpSetSymLvlAdj, m.cfg.SymLvlAdj, 1); err != nil {
		return fmt.Errorf("modem: SET_SYMLVLADJ: %w", err)
	}

	m.open = true
	m.lastResponseAt = m.clock.Now()
	return nil
}

// crossCheckFlashConfig logs (but does not abort on) field mismatches
// between the locally configured block and the modem's stored flash
// config, per spec.md §4.3.
func (m *ModemLink) crossCheckFlashConfig(flash []byte) {
	local := m.cfg.ConfigBlock
	n := len(flash)
	if len(local) < n {
		n = len(local)
	}
	for i := 0; i < n; i++ {
		if flash[i] != local[i] {
			m.log.Warn("flash config field mismatch", logger.Int("offset", i))
		}
	}
}

func (m *ModemLink) sendWithRetry(op Opcode, payload []byte, attempts int) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := m.writeFrame(op, payload); err != nil {
			lastErr = err
			continue
		}
		respOp, resp, err := m.readFrame()
		if err != nil {
			lastErr = err
			continue
		}
		if respOp == OpACK {
			return nil
		}
		if respOp == OpNAK && len(resp) > 0 {
			m.log.Warn("modem NAK", logger.Int("command", int(op)), logger.Int("reason", int(resp[len(resp)-1])))
		}
		lastErr = fmt.Errorf("modem: %02X rejected (NAK)", op)
	}
	return lastErr
}

// Close closes the underlying port.
func (m *ModemLink) Close() error {
	m.open = false
	return m.port.Close()
}

// IsOpen reports whether the handshake has completed successfully.
func (m *ModemLink) IsOpen() bool { return m.open }

// ReadFrame reads one unsolicited frame from the firmware (DMR/P25/NXDN
// data, lost-sync notifications, and their opcode-tagged payloads), for
// a host-side RX loop to dispatch to the per-protocol voice/trunk
// processors. Distinct from Poll, which drives the host-initiated
// GET_STATUS request/response pair.
func (m *ModemLink) ReadFrame() (Opcode, []byte, error) {
	if !m.open {
		return 0, nil, core.ErrModemNotOpen
	}
	return m.readFrame()
}

// Poll issues a GET_STATUS request and updates TX-space and overflow
// accounting from the reply. Call roughly every statusPollPeriod.
func (m *ModemLink) Poll() (Status, overflowOutcome, error) {
	if !m.open {
		return Status{}, overflowNone, core.ErrModemNotOpen
	}
	if err := m.writeFrame(OpGetStatus, nil); err != nil {
		return Status{}, overflowNone, err
	}
	_, payload, err := m.readFrame()
	if err != nil {
		return Status{}, overflowNone, err
	}
	st, err := decodeStatus(payload)
	if err != nil {
		return Status{}, overflowNone, err
	}

	m.lastResponseAt = m.clock.Now()
	m.txSpaceDMR1 = int(st.DMRSpace1) * dmrFrameLen
	m.txSpaceDMR2 = int(st.DMRSpace2) * dmrFrameLen
	m.txSpaceP25 = int(st.P25Space) * p25FrameLen
	m.txSpaceNXDN = int(st.NXDNSpace) * nxdnFrameLen
	m.modemState = st.ModemState

	outcome := m.overflow.update(st)
	if outcome == overflowReset && !m.cfg.DisableOverflowReset {
		return st, outcome, m.reset()
	}
	return st, outcome, nil
}

func decodeStatus(payload []byte) (Status, error) {
	if len(payload) < 8 {
		return Status{}, core.ErrParseTooShort
	}
	return Status{
		ModemFlags:  payload[0],
		ModemState:  payload[1],
		TXFlag:      payload[2]&0x01 != 0,
		ADCOverflow: payload[2]&0x02 != 0,
		RXOverflow:  payload[2]&0x04 != 0,
		TXOverflow:  payload[2]&0x08 != 0,
		Lockout:     payload[2]&0x10 != 0,
		DACOverflow: payload[2]&0x20 != 0,
		CD:          payload[2]&0x40 != 0,
		DMRSpace1:   payload[3],
		DMRSpace2:   payload[4],
		P25Space:    payload[5],
		NXDNSpace:   payload[6],
	}, nil
}

// reset closes and reopens the port, preserving modem_state, per
// spec.md §5's error-recovery cancellation ordering.
func (m *ModemLink) reset() error {
	preserved := m.modemState
	_ = m.port.Close()
	if err := m.port.Open(); err != nil {
		return fmt.Errorf("modem: reopening after reset: %w", err)
	}
	m.modemState = preserved
	return nil
}

// CheckWatchdog resets the link and returns true when no valid response
// has been seen for watchdogTimeout; a failed reopen is retried every
// watchdogRetry until it succeeds.
func (m *ModemLink) CheckWatchdog() bool {
	if !m.open {
		return false
	}
	if m.clock.Now().Sub(m.lastResponseAt) < watchdogTimeout {
		return false
	}
	for {
		if err := m.reset(); err == nil {
			m.lastResponseAt = m.clock.Now()
			return true
		}
		m.clock.Sleep(watchdogRetry)
	}
}

// writeDMR writes a DMR voice/data frame on the given slot (1 or 2),
// decrementing local TX-space accounting on success.
func (m *ModemLink) writeDMR(slot int, tag DataTag, frame []byte) error {
	op := OpDMRData1
	space := &m.txSpaceDMR1
	if slot == 2 {
		op = OpDMRData2
		space = &m.txSpaceDMR2
	}
	payload := append([]byte{byte(tag)}, frame...)
	if *space < len(payload) {
		return core.ErrTXBufferFull
	}
	if err := m.writeFrame(op, payload); err != nil {
		return err
	}
	*space -= len(payload)
	return nil
}

// WriteDMRData1 queues a DMR slot-1 voice/data frame.
func (m *ModemLink) WriteDMRData1(tag DataTag, frame []byte) error { return m.writeDMR(1, tag, frame) }

// WriteDMRData2 queues a DMR slot-2 voice/data frame.
func (m *ModemLink) WriteDMRData2(tag DataTag, frame []byte) error { return m.writeDMR(2, tag, frame) }

// WriteP25Data queues a P25 voice/data frame.
func (m *ModemLink) WriteP25Data(tag DataTag, frame []byte) error {
	payload := append([]byte{byte(tag)}, frame...)
	if m.txSpaceP25 < len(payload) {
		return core.ErrTXBufferFull
	}
	if err := m.writeFrame(OpP25Data, payload); err != nil {
		return err
	}
	m.txSpaceP25 -= len(payload)
	return nil
}

// WriteNXDNData queues an NXDN voice/data frame.
func (m *ModemLink) WriteNXDNData(tag DataTag, frame []byte) error {
	if !m.nxdnEnabled {
		return fmt.Errorf("modem: NXDN not enabled (protocol v%d)", m.protoVersion)
	}
	payload := append([]byte{byte(tag)}, frame...)
	if m.txSpaceNXDN < len(payload) {
		return core.ErrTXBufferFull
	}
	if err := m.writeFrame(OpNXDNData, payload); err != nil {
		return err
	}
	m.txSpaceNXDN -= len(payload)
	return nil
}
