package core

import "errors"

// Sentinel error kinds spec.md §7 requires callers be able to distinguish
// with errors.Is, matching the way the teacher distinguishes net.Error
// timeouts in pkg/network/server.go rather than inspecting error strings.
var (
	// ErrParseTooShort is returned by a PDU Decode when the input buffer
	// is shorter than the wire format requires.
	ErrParseTooShort = errors.New("core: buffer too short to parse")

	// ErrFecUncorrectable is returned by an FEC-protected codec's Decode
	// when the block carries more bit errors than the code can correct.
	ErrFecUncorrectable = errors.New("core: fec block uncorrectable")

	// ErrCRCMismatch is returned when a decoded PDU's checksum does not
	// match its payload.
	ErrCRCMismatch = errors.New("core: crc mismatch")

	// ErrUnknownOpcode is returned when a control-channel PDU carries an
	// opcode this implementation does not recognize.
	ErrUnknownOpcode = errors.New("core: unknown opcode")

	// ErrModemNotOpen is returned by ModemLink operations attempted
	// before a successful Open handshake.
	ErrModemNotOpen = errors.New("core: modem link not open")

	// ErrModemTimeout is returned when the modem does not answer a
	// command within its response window.
	ErrModemTimeout = errors.New("core: modem response timeout")

	// ErrTXBufferFull is returned when a caller tries to queue more
	// bytes for transmission than the modem's reported TX space allows.
	ErrTXBufferFull = errors.New("core: modem tx buffer full")

	// ErrCallDenied reports a grant request refused by an Affiliations/ACL
	// check; those checks themselves return a plain bool.
	ErrCallDenied = errors.New("core: call denied")

	// ErrNoSuchChannel reports an unknown channel number; IdenTable.Lookup
	// itself signals that case with a false second result.
	ErrNoSuchChannel = errors.New("core: no such channel")
)
